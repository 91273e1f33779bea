package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/MaxRocco/csc3094-c1016489-projectRepository/services"
)

// DevController holds admin tools for exercising notification delivery.
type DevController struct {
	Notifications *services.NotificationService
	log           *zap.Logger
}

func NewDevController(ns *services.NotificationService, log *zap.Logger) *DevController {
	return &DevController{Notifications: ns, log: log}
}

type testNoticeReq struct {
	UserID  uint   `json:"user_id" binding:"required"`
	Message string `json:"message"`
}

// POST /admin/notifications/test
func (d *DevController) NotifyTest(c *gin.Context) {
	var req testNoticeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if req.Message == "" {
		req.Message = "This is only a test."
	}
	actor := currentUserID(c)
	n, err := d.Notifications.Notify(c.Request.Context(), services.Notice{
		UserID:  req.UserID,
		Kind:    "admin.test",
		Message: req.Message,
		ActorID: &actor,
	})
	if err != nil {
		respondError(c, d.log, err)
		return
	}
	c.JSON(http.StatusOK, n)
}
