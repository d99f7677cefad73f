package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tgienger/taskboard/internal/board"
	"github.com/tgienger/taskboard/internal/models"
)

func (s *Server) handleListTasks(c *gin.Context) {
	includeDeleted, ok := showDeleted(c)
	if !ok {
		return
	}
	opts := board.ListTasksOptions{IncludeDeleted: includeDeleted}

	if raw := c.Query("project_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			badRequest(c, "project_id must be an integer")
			return
		}
		opts.ProjectID = &id
	}
	if raw := c.Query("status"); raw != "" {
		status, ok := models.ParseStatus(raw)
		if !ok {
			badRequest(c, "status must be one of backlog, doing, done")
			return
		}
		opts.Status = &status
	}

	tasks, err := s.board.ListTasks(c.Request.Context(), opts)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (s *Server) handleCreateTask(c *gin.Context) {
	var in board.CreateTaskInput
	if !bindJSON(c, &in) {
		return
	}
	task, err := s.board.CreateTask(c.Request.Context(), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

func (s *Server) handleGetTask(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	includeDeleted, ok := showDeleted(c)
	if !ok {
		return
	}
	task, err := s.board.GetTask(c.Request.Context(), id, includeDeleted)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (s *Server) handleUpdateTask(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in board.UpdateTaskInput
	if !bindJSON(c, &in) {
		return
	}
	task, err := s.board.UpdateTask(c.Request.Context(), id, in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (s *Server) handleToggleTask(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	task, err := s.board.ToggleTask(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (s *Server) handlePatchTaskStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	task, err := s.board.PatchTaskStatus(c.Request.Context(), id, models.Status(c.Query("new_status")))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (s *Server) handleDeleteTask(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := s.board.DeleteTask(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
