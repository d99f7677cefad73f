package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tgienger/taskboard/internal/board"
)

// subtaskIDs reads the task and subtask path parameters
func subtaskIDs(c *gin.Context) (taskID, id int64, ok bool) {
	if taskID, ok = pathID(c, "id"); !ok {
		return 0, 0, false
	}
	if id, ok = pathID(c, "subtaskID"); !ok {
		return 0, 0, false
	}
	return taskID, id, true
}

func (s *Server) handleListSubtasks(c *gin.Context) {
	taskID, ok := pathID(c, "id")
	if !ok {
		return
	}
	includeDeleted, ok := showDeleted(c)
	if !ok {
		return
	}
	subtasks, err := s.board.ListSubtasks(c.Request.Context(), taskID, includeDeleted)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, subtasks)
}

func (s *Server) handleCreateSubtask(c *gin.Context) {
	taskID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in board.CreateSubtaskInput
	if !bindJSON(c, &in) {
		return
	}
	subtask, err := s.board.CreateSubtask(c.Request.Context(), taskID, in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, subtask)
}

func (s *Server) handleGetSubtask(c *gin.Context) {
	taskID, id, ok := subtaskIDs(c)
	if !ok {
		return
	}
	subtask, err := s.board.GetSubtask(c.Request.Context(), taskID, id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, subtask)
}

func (s *Server) handleUpdateSubtask(c *gin.Context) {
	taskID, id, ok := subtaskIDs(c)
	if !ok {
		return
	}
	var in board.UpdateSubtaskInput
	if !bindJSON(c, &in) {
		return
	}
	subtask, err := s.board.UpdateSubtask(c.Request.Context(), taskID, id, in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, subtask)
}

func (s *Server) handleToggleSubtask(c *gin.Context) {
	taskID, id, ok := subtaskIDs(c)
	if !ok {
		return
	}
	subtask, err := s.board.ToggleSubtask(c.Request.Context(), taskID, id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, subtask)
}

func (s *Server) handleDeleteSubtask(c *gin.Context) {
	taskID, id, ok := subtaskIDs(c)
	if !ok {
		return
	}
	if err := s.board.DeleteSubtask(c.Request.Context(), taskID, id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
