package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/MaxRocco/csc3094-c1016489-projectRepository/services"
)

type UserController struct {
	Users       *services.UserService
	Leaderboard *services.LeaderboardService
	log         *zap.Logger
}

func NewUserController(users *services.UserService, lb *services.LeaderboardService, log *zap.Logger) *UserController {
	return &UserController{Users: users, Leaderboard: lb, log: log}
}

type allergiesInput struct {
	Allergies []string `json:"allergies"`
}

func (uc *UserController) GetProfile(c *gin.Context) {
	profile, err := uc.Users.GetProfile(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, uc.log, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// POST /user/onboarding
func (uc *UserController) CompleteOnboarding(c *gin.Context) {
	var input allergiesInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}
	user, err := uc.Users.CompleteOnboarding(c.Request.Context(), currentUserID(c), input.Allergies)
	if err != nil {
		respondError(c, uc.log, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// PUT /user/allergies
func (uc *UserController) UpdateAllergies(c *gin.Context) {
	var input allergiesInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}
	user, err := uc.Users.UpdateAllergies(c.Request.Context(), currentUserID(c), input.Allergies)
	if err != nil {
		respondError(c, uc.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"allergies": user.Allergies})
}

// GET /user/experience?date=YYYY-MM-DD
func (uc *UserController) ExperienceHistory(c *gin.Context) {
	day, ok := parseDateQuery(c, "date")
	if !ok {
		return
	}
	logs, err := uc.Users.History(c.Request.Context(), currentUserID(c), day)
	if err != nil {
		respondError(c, uc.log, err)
		return
	}
	c.JSON(http.StatusOK, logs)
}

// GET /user/weekly?date=YYYY-MM-DD
func (uc *UserController) WeeklySummary(c *gin.Context) {
	day, ok := parseDateQuery(c, "date")
	if !ok {
		return
	}
	summary, err := uc.Leaderboard.WeeklySummary(c.Request.Context(), currentUserID(c), day)
	if err != nil {
		respondError(c, uc.log, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (uc *UserController) FriendLeaderboard(c *gin.Context) {
	board, err := uc.Leaderboard.FriendLeaderboard(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, uc.log, err)
		return
	}
	c.JSON(http.StatusOK, board)
}

// GET /admin/users?page=&page_size=
func (uc *UserController) ListUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	users, total, err := uc.Users.ListUsers(c.Request.Context(), page, size)
	if err != nil {
		respondError(c, uc.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users, "total": total, "page": page})
}

// GET /admin/leaderboard?limit=
func (uc *UserController) TopUsers(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	board, err := uc.Leaderboard.TopUsers(c.Request.Context(), limit)
	if err != nil {
		respondError(c, uc.log, err)
		return
	}
	c.JSON(http.StatusOK, board)
}

// parseDateQuery reads an optional YYYY-MM-DD parameter, defaulting to today.
func parseDateQuery(c *gin.Context, key string) (time.Time, bool) {
	raw := c.Query(key)
	if raw == "" {
		return time.Now().UTC(), true
	}
	d, err := time.Parse("2006-01-02", raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return time.Time{}, false
	}
	return d, true
}

func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return uint(id), true
}
