package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/eyuppastirmaci/agenda-pulse/internal/auth"
	"github.com/eyuppastirmaci/agenda-pulse/internal/config"
	"github.com/eyuppastirmaci/agenda-pulse/internal/consumer"
	"github.com/eyuppastirmaci/agenda-pulse/internal/database"
	"github.com/eyuppastirmaci/agenda-pulse/internal/email"
	"github.com/eyuppastirmaci/agenda-pulse/internal/handlers"
	"github.com/eyuppastirmaci/agenda-pulse/internal/logger"
	"github.com/eyuppastirmaci/agenda-pulse/internal/middleware"
	"github.com/eyuppastirmaci/agenda-pulse/internal/push"
	"github.com/eyuppastirmaci/agenda-pulse/internal/repositories"
	"github.com/eyuppastirmaci/agenda-pulse/internal/routes"
	"github.com/eyuppastirmaci/agenda-pulse/internal/services"
	"github.com/eyuppastirmaci/agenda-pulse/internal/workers"
	"github.com/eyuppastirmaci/agenda-pulse/ws"
)

const shutdownTimeout = 10 * time.Second

// Run boots the notification service: database, worker pool, channel
// senders, Kafka consumers and the HTTP/WebSocket server. It blocks until
// SIGINT/SIGTERM and then shuts the pieces down in reverse order.
func Run() {
	config.LoadConfig()
	cfg := config.AppConfig

	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	db, err := database.Connect(cfg.Database.DSN)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}
	logger.Info("Database connected")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	verifier := auth.NewTokenVerifier(cfg.JWT.Secret)
	hub := ws.NewHub()

	dispatcher := workers.NewDispatcher(cfg.Dispatch.QueueSize)
	dispatcher.Start(ctx, cfg.Dispatch.Workers)

	emailSender, err := email.NewSender(email.Config{
		SMTPHost:     cfg.Email.SMTPHost,
		SMTPPort:     cfg.Email.SMTPPort,
		Username:     cfg.Email.SMTPUsername,
		Password:     cfg.Email.SMTPPassword,
		FromEmail:    cfg.Email.FromEmail,
		FromName:     cfg.Email.FromName,
		TemplatesDir: cfg.Email.TemplatesDir,
	}, email.StaticResolver{Address: cfg.Email.FallbackTo})
	if err != nil {
		logger.Fatal("Failed to initialize email sender", "error", err)
	}

	notificationRepo := repositories.NewNotificationRepository(db)
	preferenceRepo := repositories.NewPreferenceRepository(db)

	preferenceService := services.NewPreferenceService(preferenceRepo)
	notificationService := services.NewNotificationService(
		notificationRepo,
		preferenceService,
		emailSender,
		push.NewSender(hub),
		dispatcher,
	)

	taskConsumer := consumer.New(cfg.Kafka.Brokers, cfg.Kafka.TaskTopic, cfg.Kafka.GroupID,
		consumer.TaskEventHandler(notificationService))
	calendarConsumer := consumer.New(cfg.Kafka.Brokers, cfg.Kafka.CalendarTopic, cfg.Kafka.GroupID,
		consumer.CalendarEventHandler(notificationService))
	go taskConsumer.Run(ctx)
	go calendarConsumer.Run(ctx)

	router := setupRouter(cfg.Server.Env, verifier, notificationService, preferenceService, hub)

	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Info("Server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server startup error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	if err := taskConsumer.Close(); err != nil {
		logger.Error("Task consumer close error", "error", err)
	}
	if err := calendarConsumer.Close(); err != nil {
		logger.Error("Calendar consumer close error", "error", err)
	}

	// Let in-flight deliveries finish before the process exits.
	dispatcher.Stop()
	logger.Info("Shutdown complete")
}

func setupRouter(
	env string,
	verifier *auth.TokenVerifier,
	notificationService services.NotificationService,
	preferenceService services.PreferenceService,
	hub *ws.Hub,
) *gin.Engine {
	if env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logging())

	routes.Register(
		router,
		verifier,
		handlers.NewNotificationHandler(notificationService, preferenceService),
		handlers.NewHealthHandler(hub),
		ws.NewHandler(hub, verifier),
	)

	return router
}
