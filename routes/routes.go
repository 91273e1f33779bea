package routes

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/MaxRocco/csc3094-c1016489-projectRepository/controllers"
	"github.com/MaxRocco/csc3094-c1016489-projectRepository/middlewares"
	"github.com/MaxRocco/csc3094-c1016489-projectRepository/models"
	"github.com/MaxRocco/csc3094-c1016489-projectRepository/services"
	"github.com/MaxRocco/csc3094-c1016489-projectRepository/utils"
)

// Deps is everything the router needs. Photos may be nil.
type Deps struct {
	DB             *gorm.DB
	Log            *zap.Logger
	Tokens         *utils.TokenIssuer
	AllowedOrigins []string

	Auth          *services.AuthService
	Users         *services.UserService
	Progression   *services.ProgressionService
	Content       *services.ContentService
	Friends       *services.FriendshipService
	Posts         *services.PostService
	Leaderboard   *services.LeaderboardService
	Notifications *services.NotificationService
	Push          *services.PushService
	Photos        *services.PhotoService
	Hub           *services.RealtimeHub
}

func SetupRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(middlewares.RequestLogger(d.Log), middlewares.Recovery(d.Log))

	health := controllers.NewHealthController(d.DB)
	authCtl := controllers.NewAuthController(d.Auth, d.Log)
	userCtl := controllers.NewUserController(d.Users, d.Leaderboard, d.Log)
	mealCtl := controllers.NewMealController(d.Content, d.Progression, d.Photos, d.Log)
	quizCtl := controllers.NewQuizController(d.Content, d.Progression, d.Log)
	friendCtl := controllers.NewFriendshipController(d.Friends, d.Log)
	postCtl := controllers.NewPostController(d.Posts, d.Log)
	notifCtl := controllers.NewNotificationController(d.Notifications, d.Push, d.Log)
	deviceCtl := controllers.NewDeviceController(d.Push, d.Log)
	rtCtl := controllers.NewRealtimeController(d.Hub, d.AllowedOrigins, d.Log)
	devCtl := controllers.NewDevController(d.Notifications, d.Log)

	r.GET("/healthz", health.Live)
	r.GET("/readyz", health.Ready)

	// Public auth routes
	auth := r.Group("/auth")
	{
		auth.POST("/register", authCtl.Register)
		auth.POST("/login", authCtl.Login)
	}

	authed := r.Group("/")
	authed.Use(middlewares.AuthMiddleware(d.Tokens))

	user := authed.Group("/user")
	{
		user.GET("/profile", userCtl.GetProfile)
		user.POST("/onboarding", userCtl.CompleteOnboarding)
		user.PUT("/allergies", userCtl.UpdateAllergies)
		user.GET("/experience", userCtl.ExperienceHistory)
		user.GET("/weekly", userCtl.WeeklySummary)
		user.POST("/notifications/toggle", notifCtl.Toggle)
	}

	meals := authed.Group("/meals")
	{
		meals.GET("", mealCtl.MealTree)
		meals.GET("/:id", mealCtl.MealDetail)
		meals.POST("/:id/complete", mealCtl.Complete)
	}

	quizzes := authed.Group("/quizzes")
	{
		quizzes.GET("", quizCtl.KnowledgeBase)
		quizzes.GET("/:id", quizCtl.Detail)
		quizzes.POST("/:id/submit", quizCtl.Submit)
	}

	friends := authed.Group("/friends")
	{
		friends.GET("", friendCtl.List)
		friends.GET("/leaderboard", userCtl.FriendLeaderboard)
		friends.GET("/requests", friendCtl.Requests)
		friends.POST("/requests", friendCtl.Send)
		friends.POST("/requests/:id/accept", friendCtl.Accept)
		friends.POST("/requests/:id/decline", friendCtl.Decline)
	}

	posts := authed.Group("/posts")
	{
		posts.GET("/mine", postCtl.Mine)
		posts.GET("/feed", postCtl.Feed)
	}

	notifications := authed.Group("/notifications")
	{
		notifications.GET("", notifCtl.List)
		notifications.POST("/read-all", notifCtl.MarkAllRead)
		notifications.POST("/:id/read", notifCtl.MarkRead)
	}

	devices := authed.Group("/devices")
	{
		devices.GET("", deviceCtl.List)
		devices.POST("", deviceCtl.Register)
	}

	authed.GET("/ws/notifications", rtCtl.NotificationsWS)

	admin := authed.Group("/admin")
	admin.Use(middlewares.RequireRole(models.RoleAdmin))
	{
		admin.GET("/users", userCtl.ListUsers)
		admin.GET("/leaderboard", userCtl.TopUsers)
		admin.POST("/notifications/test", devCtl.NotifyTest)
	}

	return r
}
