package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/yeremiapane/restaurant-commands/config"
	"github.com/yeremiapane/restaurant-commands/database"
	"github.com/yeremiapane/restaurant-commands/kds"
	"github.com/yeremiapane/restaurant-commands/messaging"
	"github.com/yeremiapane/restaurant-commands/middlewares"
	"github.com/yeremiapane/restaurant-commands/repository"
	"github.com/yeremiapane/restaurant-commands/router"
	"github.com/yeremiapane/restaurant-commands/services"
	"github.com/yeremiapane/restaurant-commands/utils"
)

func main() {
	utils.InitLogger()

	if err := godotenv.Load(); err != nil {
		utils.InfoLogger.Println("Warning: .env file not found")
	}

	cfg, err := config.Load()
	if err != nil {
		utils.ErrorLogger.Fatalf("Invalid configuration: %v", err)
	}
	utils.SetLevel(cfg.LogLevel)

	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := config.InitDB(cfg)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		utils.ErrorLogger.Fatalf("Failed to migrate: %v", err)
	}

	repo := repository.NewGormRepository(db)
	auth := services.NewRoleAuthorizer(repo)

	hub := kds.NewHub(utils.InfoLogger)
	notifiers := services.MultiNotifier{hub}
	if cfg.RabbitMQURL != "" {
		pub, err := messaging.Dial(cfg.RabbitMQURL, cfg.RabbitMQExchange, utils.InfoLogger)
		if err != nil {
			utils.ErrorLogger.Fatalf("Failed to connect to RabbitMQ: %v", err)
		}
		defer pub.Close()
		notifiers = append(notifiers, pub)
		utils.InfoLogger.Printf("Publishing events to exchange %s", cfg.RabbitMQExchange)
	}

	lifecycle := services.NewCommandLifecycle(repo, auth)
	lifecycle.Logger = utils.InfoLogger
	lifecycle.Notifier = notifiers
	lifecycle.DefaultServiceChargeRate = cfg.ServiceChargeRate

	tables := services.NewTableService(repo, auth)
	tables.Logger = utils.InfoLogger
	tables.Notifier = notifiers

	if cfg.TotalAuditInterval > 0 {
		auditor := services.NewTotalAuditor(repo)
		auditor.Logger = utils.InfoLogger
		auditor.Notifier = notifiers
		auditor.Interval = cfg.TotalAuditInterval
		auditor.Start()
		defer auditor.Stop()
	}

	r := router.SetupRouter(router.Deps{
		Lifecycle:   lifecycle,
		Tables:      tables,
		Hub:         hub,
		JWTSecret:   []byte(cfg.JWTSecret),
		RateLimiter: middlewares.NewRateLimiter(cfg.RateLimitPerSecond, cfg.RateLimitBurst),
		CORSOrigin:  cfg.CORSAllowedOrigin,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		utils.InfoLogger.Printf("Listening on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.ErrorLogger.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	utils.InfoLogger.Println("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		utils.ErrorLogger.Printf("Shutdown: %v", err)
	}
}
