package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/MaxRocco/csc3094-c1016489-projectRepository/services"
)

type NotificationController struct {
	Notifications *services.NotificationService
	Push          *services.PushService
	log           *zap.Logger
}

func NewNotificationController(ns *services.NotificationService, ps *services.PushService, log *zap.Logger) *NotificationController {
	return &NotificationController{Notifications: ns, Push: ps, log: log}
}

type toggleReq struct {
	Enabled bool `json:"enabled"`
}

// GET /notifications?unread=true&limit=
func (nc *NotificationController) List(c *gin.Context) {
	unread, _ := strconv.ParseBool(c.DefaultQuery("unread", "false"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	list, err := nc.Notifications.List(c.Request.Context(), currentUserID(c), unread, limit)
	if err != nil {
		respondError(c, nc.log, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// POST /notifications/:id/read
func (nc *NotificationController) MarkRead(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := nc.Notifications.MarkRead(c.Request.Context(), currentUserID(c), id); err != nil {
		respondError(c, nc.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// POST /notifications/read-all
func (nc *NotificationController) MarkAllRead(c *gin.Context) {
	n, err := nc.Notifications.MarkAllRead(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, nc.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": n})
}

// POST /user/notifications/toggle
func (nc *NotificationController) Toggle(c *gin.Context) {
	var req toggleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	devices, err := nc.Push.SetNotificationsEnabled(c.Request.Context(), currentUserID(c), req.Enabled)
	if err != nil {
		respondError(c, nc.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "notifications updated",
		"enabled": req.Enabled,
		"devices": devices,
	})
}
