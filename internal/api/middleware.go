package api

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tgienger/taskboard/internal/board"
)

const requestIDHeader = "X-Request-ID"

// requestID tags every request with an id, reusing the client's when given
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		c.Set("requestID", id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// writeError maps board errors onto HTTP statuses
func writeError(c *gin.Context, err error) {
	var verr *board.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": verr.Error(), "errors": verr.Fields})
	case errors.Is(err, board.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"detail": err.Error()})
	case errors.Is(err, board.ErrInvalidOperation):
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
	default:
		log.Printf("request %s: %v", c.GetString("requestID"), err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "internal server error"})
	}
}

func badRequest(c *gin.Context, detail string) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": detail})
}

// pathID parses a positive integer path parameter
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, name+" must be a positive integer")
		return 0, false
	}
	return id, true
}

// showDeleted reads the show_deleted query flag
func showDeleted(c *gin.Context) (bool, bool) {
	raw := c.Query("show_deleted")
	if raw == "" {
		return false, true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		badRequest(c, "show_deleted must be a boolean")
		return false, false
	}
	return v, true
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return false
	}
	return true
}
