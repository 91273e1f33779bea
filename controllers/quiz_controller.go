package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/MaxRocco/csc3094-c1016489-projectRepository/services"
)

type QuizController struct {
	Content     *services.ContentService
	Progression *services.ProgressionService
	log         *zap.Logger
}

func NewQuizController(content *services.ContentService, prog *services.ProgressionService, log *zap.Logger) *QuizController {
	return &QuizController{Content: content, Progression: prog, log: log}
}

type submitQuizInput struct {
	// Answers maps question id to the chosen option text.
	Answers map[uint]string `json:"answers" binding:"required"`
}

// GET /quizzes
func (qc *QuizController) KnowledgeBase(c *gin.Context) {
	quizzes, err := qc.Content.KnowledgeBase(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, qc.log, err)
		return
	}
	c.JSON(http.StatusOK, quizzes)
}

// GET /quizzes/:id
func (qc *QuizController) Detail(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	quiz, err := qc.Content.QuizDetail(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		respondError(c, qc.log, err)
		return
	}
	c.JSON(http.StatusOK, quiz)
}

// POST /quizzes/:id/submit
func (qc *QuizController) Submit(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var input submitQuizInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}
	res, err := qc.Progression.AwardQuizCompletion(c.Request.Context(), currentUserID(c), id, input.Answers)
	if err != nil {
		respondError(c, qc.log, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
