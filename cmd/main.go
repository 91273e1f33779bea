package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/MaxRocco/csc3094-c1016489-projectRepository/config"
	"github.com/MaxRocco/csc3094-c1016489-projectRepository/routes"
	"github.com/MaxRocco/csc3094-c1016489-projectRepository/services"
	"github.com/MaxRocco/csc3094-c1016489-projectRepository/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log, err := config.NewLogger(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := config.OpenDB(cfg.Database, log)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if err := config.Migrate(db); err != nil {
		return err
	}

	hub := services.NewRealtimeHub(log)
	var (
		pushClient services.PushPublisher
		mailer     utils.Mailer
		photos     *services.PhotoService
	)
	if cfg.AWS.Enabled {
		awsCfg, err := config.LoadAWS(ctx, cfg.AWS)
		if err != nil {
			return fmt.Errorf("load aws config: %w", err)
		}
		pushClient = sns.NewFromConfig(awsCfg)
		if cfg.AWS.SESFrom != "" {
			mailer = utils.NewSESMailer(ses.NewFromConfig(awsCfg), cfg.AWS.SESFrom)
		}
		uploader := utils.NewS3Uploader(s3.NewFromConfig(awsCfg), cfg.AWS.S3Bucket, cfg.AWS.PublicBaseURL)
		photos = services.NewPhotoService(uploader, rekognition.NewFromConfig(awsCfg), log)
		log.Info("aws integrations enabled", zap.String("region", cfg.AWS.Region))
	}

	tokens := utils.NewTokenIssuer(cfg.JWT.Secret, cfg.JWT.TTL)
	push := services.NewPushService(db, pushClient, cfg.AWS.SNSFCMArn, log)
	notifications := services.NewNotificationService(db, hub, push, mailer, log)
	progression := services.NewProgressionService(db, log)

	deps := routes.Deps{
		DB:             db,
		Log:            log,
		Tokens:         tokens,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Auth:           services.NewAuthService(db, tokens, progression, log),
		Users:          services.NewUserService(db, log),
		Progression:    progression,
		Content:        services.NewContentService(db, log),
		Friends:        services.NewFriendshipService(db, notifications, log),
		Posts:          services.NewPostService(db),
		Leaderboard:    services.NewLeaderboardService(db),
		Notifications:  notifications,
		Push:           push,
		Photos:         photos,
		Hub:            hub,
	}

	if !cfg.Log.Dev {
		gin.SetMode(gin.ReleaseMode)
	}
	router := routes.SetupRouter(deps)
	handler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
	}).Handler(router)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	log.Info("goodbye")
	return nil
}
