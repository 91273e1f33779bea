package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/MaxRocco/csc3094-c1016489-projectRepository/services"
)

type PostController struct {
	Posts *services.PostService
	log   *zap.Logger
}

func NewPostController(posts *services.PostService, log *zap.Logger) *PostController {
	return &PostController{Posts: posts, log: log}
}

// GET /posts/mine?limit=
func (pc *PostController) Mine(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	posts, err := pc.Posts.ListUserPosts(c.Request.Context(), currentUserID(c), limit)
	if err != nil {
		respondError(c, pc.log, err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

// GET /posts/feed?before=RFC3339&limit=
func (pc *PostController) Feed(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	var before *time.Time
	if raw := c.Query("before"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "before must be an RFC3339 timestamp"})
			return
		}
		before = &t
	}
	posts, err := pc.Posts.FriendFeed(c.Request.Context(), currentUserID(c), before, limit)
	if err != nil {
		respondError(c, pc.log, err)
		return
	}
	c.JSON(http.StatusOK, posts)
}
