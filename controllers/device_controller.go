package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/MaxRocco/csc3094-c1016489-projectRepository/services"
)

type DeviceController struct {
	Push *services.PushService
	log  *zap.Logger
}

func NewDeviceController(ps *services.PushService, log *zap.Logger) *DeviceController {
	return &DeviceController{Push: ps, log: log}
}

type registerDeviceReq struct {
	Platform string `json:"platform" binding:"required"` // "android" | "ios"
	Token    string `json:"token" binding:"required"`
}

// POST /devices
func (dc *DeviceController) Register(c *gin.Context) {
	var req registerDeviceReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	dev, err := dc.Push.RegisterDevice(c.Request.Context(), currentUserID(c), req.Platform, req.Token)
	if err != nil {
		respondError(c, dc.log, err)
		return
	}
	c.JSON(http.StatusOK, dev)
}

// GET /devices
func (dc *DeviceController) List(c *gin.Context) {
	devices, err := dc.Push.ListDevices(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, dc.log, err)
		return
	}
	c.JSON(http.StatusOK, devices)
}
