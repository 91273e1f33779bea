package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/MaxRocco/csc3094-c1016489-projectRepository/services"
)

type FriendshipController struct {
	Friends *services.FriendshipService
	log     *zap.Logger
}

func NewFriendshipController(friends *services.FriendshipService, log *zap.Logger) *FriendshipController {
	return &FriendshipController{Friends: friends, log: log}
}

type friendRequestInput struct {
	UserID uint `json:"user_id" binding:"required"`
}

// POST /friends/requests
func (fc *FriendshipController) Send(c *gin.Context) {
	var input friendRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}
	f, err := fc.Friends.SendRequest(c.Request.Context(), currentUserID(c), input.UserID)
	if err != nil {
		respondError(c, fc.log, err)
		return
	}
	c.JSON(http.StatusCreated, f)
}

// POST /friends/requests/:id/accept
func (fc *FriendshipController) Accept(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	f, err := fc.Friends.AcceptRequest(c.Request.Context(), id, currentUserID(c))
	if err != nil {
		respondError(c, fc.log, err)
		return
	}
	c.JSON(http.StatusOK, f)
}

// POST /friends/requests/:id/decline
func (fc *FriendshipController) Decline(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	f, err := fc.Friends.DeclineRequest(c.Request.Context(), id, currentUserID(c))
	if err != nil {
		respondError(c, fc.log, err)
		return
	}
	c.JSON(http.StatusOK, f)
}

// GET /friends
func (fc *FriendshipController) List(c *gin.Context) {
	friends, err := fc.Friends.ListFriends(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, fc.log, err)
		return
	}
	c.JSON(http.StatusOK, friends)
}

// GET /friends/requests?direction=incoming|outgoing
func (fc *FriendshipController) Requests(c *gin.Context) {
	ctx := c.Request.Context()
	uid := currentUserID(c)
	var (
		out []services.FriendRequestView
		err error
	)
	switch c.DefaultQuery("direction", "incoming") {
	case "incoming":
		out, err = fc.Friends.ListIncoming(ctx, uid)
	case "outgoing":
		out, err = fc.Friends.ListOutgoing(ctx, uid)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "direction must be 'incoming' or 'outgoing'"})
		return
	}
	if err != nil {
		respondError(c, fc.log, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
