package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/MaxRocco/csc3094-c1016489-projectRepository/middlewares"
	"github.com/MaxRocco/csc3094-c1016489-projectRepository/services"
)

var errorStatus = []struct {
	err    error
	status int
}{
	{services.ErrNotFound, http.StatusNotFound},
	{services.ErrForbidden, http.StatusForbidden},
	{services.ErrDuplicateRequest, http.StatusConflict},
	{services.ErrSelfReference, http.StatusConflict},
	{services.ErrInvalidInput, http.StatusBadRequest},
	{services.ErrInvalidStateTransition, http.StatusConflict},
	{services.ErrEmailTaken, http.StatusConflict},
	{services.ErrInvalidCredentials, http.StatusUnauthorized},
}

// respondError maps service error kinds onto HTTP statuses. Anything unknown
// is logged and reported as a generic 500.
func respondError(c *gin.Context, log *zap.Logger, err error) {
	for _, e := range errorStatus {
		if errors.Is(err, e.err) {
			c.JSON(e.status, gin.H{"error": err.Error()})
			return
		}
	}
	log.Error("request failed",
		zap.String("path", c.FullPath()),
		zap.String("request_id", c.GetString("requestID")),
		zap.Error(err),
	)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}

func currentUserID(c *gin.Context) uint {
	return c.GetUint(middlewares.CtxUserID)
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
