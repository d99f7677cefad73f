package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tgienger/taskboard/internal/board"
)

func (s *Server) handleListProjects(c *gin.Context) {
	projects, err := s.board.ListProjects(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, projects)
}

func (s *Server) handleCreateProject(c *gin.Context) {
	var in board.ProjectInput
	if !bindJSON(c, &in) {
		return
	}
	project, err := s.board.CreateProject(c.Request.Context(), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, project)
}

func (s *Server) handleGetProject(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	project, err := s.board.GetProject(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

func (s *Server) handleUpdateProject(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var patch board.ProjectPatch
	if !bindJSON(c, &patch) {
		return
	}
	project, err := s.board.UpdateProject(c.Request.Context(), id, patch)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

func (s *Server) handleDeleteProject(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := s.board.DeleteProject(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
