package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/elvinq/carbazar/internal/middleware"
	"github.com/elvinq/carbazar/internal/models"
	"github.com/elvinq/carbazar/internal/service"
	"github.com/gin-gonic/gin"
)

// actorFromContext rebuilds the acting principal from the values the auth
// middleware stored.
func actorFromContext(c *gin.Context) (service.Actor, bool) {
	id, ok := c.Get(middleware.CtxUserID)
	if !ok {
		return service.Actor{}, false
	}
	userID, ok := id.(uint)
	if !ok || userID == 0 {
		return service.Actor{}, false
	}

	role := models.RoleUser
	if r, ok := c.Get(middleware.CtxUserRole); ok {
		if cast, ok := r.(models.Role); ok {
			role = cast
		}
	}

	return service.Actor{ID: userID, Role: role}, true
}

// uintParam parses a numeric path parameter.
func uintParam(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(v), true
}

// respondServiceError maps service errors onto the HTTP error taxonomy.
func respondServiceError(c *gin.Context, err error) {
	if ve, ok := service.AsValidationError(err); ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": ve.Message,
			"field": ve.Field,
		})
		return
	}

	switch {
	case errors.Is(err, service.ErrNotFound), errors.Is(err, service.ErrImageNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrUserBlocked), errors.Is(err, service.ErrNotOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrUnknownActor):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrUserExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
