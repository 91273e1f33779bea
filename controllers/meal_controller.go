package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/MaxRocco/csc3094-c1016489-projectRepository/services"
)

type MealController struct {
	Content     *services.ContentService
	Progression *services.ProgressionService
	Photos      *services.PhotoService
	log         *zap.Logger
}

// NewMealController takes an optional photo service; without it requests carrying a photo are rejected.
func NewMealController(content *services.ContentService, prog *services.ProgressionService, photos *services.PhotoService, log *zap.Logger) *MealController {
	return &MealController{Content: content, Progression: prog, Photos: photos, log: log}
}

type completeMealInput struct {
	Reflection string `json:"reflection" binding:"required"`
	Title      string `json:"title"`
	Public     bool   `json:"public"`
	Photo      string `json:"photo"` // optional data URI
}

// GET /meals
func (mc *MealController) MealTree(c *gin.Context) {
	tree, err := mc.Content.MealTree(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, mc.log, err)
		return
	}
	c.JSON(http.StatusOK, tree)
}

// GET /meals/:id
func (mc *MealController) MealDetail(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	meal, err := mc.Content.MealDetail(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		respondError(c, mc.log, err)
		return
	}
	c.JSON(http.StatusOK, meal)
}

// POST /meals/:id/complete
func (mc *MealController) Complete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var input completeMealInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}
	if err := services.ValidateReflection(input.Reflection); err != nil {
		respondError(c, mc.log, err)
		return
	}

	ctx := c.Request.Context()
	uid := currentUserID(c)
	in := services.MealCompletionInput{
		Reflection: input.Reflection,
		Title:      input.Title,
		Public:     input.Public,
	}
	if input.Photo != "" {
		if mc.Photos == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "photo uploads are not enabled"})
			return
		}
		// Unknown meals must not leave an uploaded object behind.
		if _, err := mc.Content.MealDetail(ctx, uid, id); err != nil {
			respondError(c, mc.log, err)
			return
		}
		photo, err := mc.Photos.Store(ctx, uid, input.Photo)
		if err != nil {
			respondError(c, mc.log, err)
			return
		}
		in.PhotoURL = photo.URL
		in.PhotoVerified = photo.Verified
	}

	res, err := mc.Progression.AwardMealCompletion(ctx, uid, id, in)
	if err != nil {
		respondError(c, mc.log, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
