package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Pratham2994/Symbiote-sub000/internal/config"
	"github.com/Pratham2994/Symbiote-sub000/internal/database"
	"github.com/Pratham2994/Symbiote-sub000/internal/db"
	"github.com/Pratham2994/Symbiote-sub000/internal/handlers"
	"github.com/Pratham2994/Symbiote-sub000/internal/mailer"
	"github.com/Pratham2994/Symbiote-sub000/internal/notify"
	"github.com/Pratham2994/Symbiote-sub000/internal/realtime"
	"github.com/Pratham2994/Symbiote-sub000/internal/routes"
	"github.com/Pratham2994/Symbiote-sub000/internal/service"
	"github.com/Pratham2994/Symbiote-sub000/internal/store"
	"github.com/Pratham2994/Symbiote-sub000/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	zl, err := logger.New()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zl.Sync()

	cfg, err := config.Load()
	if err != nil {
		zl.Fatal("failed to load config", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		zl.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		zl.Fatal("failed to run migrations", zap.Error(err))
	}

	// Repositories
	users := store.NewPgxUserRepository(pool)
	teams := store.NewPgxTeamRepository(pool)
	requests := store.NewPgxRequestRepository(pool)
	notifications := store.NewPgxNotificationRepository(pool)
	chats := store.NewPgxChatRepository(pool)
	transactor := db.NewPgxTransactor(pool)

	// Realtime hub
	hub := realtime.NewHub(zl)
	go hub.Run()

	// Outbound mail
	mail := mailer.New(cfg.SMTP, zl)
	mail.Start(2)
	defer mail.Stop()

	// Notification manager and services
	notifier := notify.NewManager(notifications, hub, mail, zl)
	chatSvc := service.NewChatService(chats, teams, users, hub, cfg.MessageTTL, zl)
	requestSvc := service.NewRequestService(transactor, users, teams, requests, notifier, chatSvc, hub, zl)
	teamSvc := service.NewTeamService(transactor, users, teams, requests, chatSvc, notifier, zl)
	var oracle service.Oracle
	if cfg.ScoringURL != "" {
		oracle = service.NewHTTPOracle(cfg.ScoringURL)
	} else {
		zl.Warn("SCORING_URL not set, team suggestions disabled")
	}
	suggestionSvc := service.NewSuggestionService(teams, oracle, zl)

	sweeper := service.NewSweeper(chatSvc, cfg.SweepInterval, zl)
	sweeper.Start()
	defer sweeper.Stop()

	h := handlers.New(users, requestSvc, teamSvc, chatSvc, suggestionSvc, notifier, hub, zl)

	app := fiber.New(fiber.Config{
		AppName: "Symbiote API v1.0",
	})
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigin,
		AllowCredentials: true,
	}))

	routes.SetupRoutes(app, h)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		zl.Info("shutting down")
		if err := app.Shutdown(); err != nil {
			zl.Error("shutdown error", zap.Error(err))
		}
	}()

	zl.Info("server starting", zap.String("port", cfg.Port))
	if err := app.Listen(":" + cfg.Port); err != nil {
		zl.Fatal("server stopped", zap.Error(err))
	}
}
