package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fazamuttaqien/lending/config"
	mysqldb "github.com/fazamuttaqien/lending/infra/mysql"
	redisdb "github.com/fazamuttaqien/lending/infra/redis"
	"github.com/fazamuttaqien/lending/internal/domain"
	"github.com/fazamuttaqien/lending/internal/model"
	"github.com/fazamuttaqien/lending/pkg/password"
	ratelimiter "github.com/fazamuttaqien/lending/pkg/rate-limiter"
	"github.com/fazamuttaqien/lending/pkg/telemetry"
	"github.com/fazamuttaqien/lending/presenter"
	"github.com/fazamuttaqien/lending/router"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	slog.Info("Starting application setup...")

	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		slog.Error("No .env file found, using system environment variables", "error", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(fmt.Sprintf("Failed to load configuration: %v", err))
	}

	tel, err := telemetry.New(ctx, cfg)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize monitoring: %v", err))
	}

	db, err := mysqldb.InitializeDatabase()
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}

	defer func() {
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.SHUTDOWN_TIMEOUT)
		defer cancelShutdown()

		zap.L().Info("Closing MySQL Connection...")
		if err := mysqldb.Close(db, shutdownCtx); err != nil {
			zap.L().Error("Error disconnecting from MySQL", zap.Error(err))
		} else {
			zap.L().Info("Disconnected from MySQL.")
		}

		zap.L().Info("Shutting down monitoring...")
		if err := tel.Shutdown(shutdownCtx); err != nil {
			zap.L().Error("Error during monitoring shutdown", zap.Error(err))
		} else {
			zap.L().Info("Monitoring shutdown complete.")
		}
	}()

	if err := model.AutoMigrate(db); err != nil {
		slog.Error("Failed to migrate database", "error", err)
		os.Exit(1)
	}
	slog.Info("Database migration completed!")

	SeedUsers(db)

	if err := mysqldb.Ping(db, ctx); err != nil {
		slog.Error("Database ping failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database connection successful!")

	stats := mysqldb.GetStats(db)
	slog.Info("Database stats:", "stats", stats)

	redisClient := redisdb.MonitorRedis(cfg)
	go redisdb.WatchConnectionRedis(&redisClient, cfg)

	limiter := ratelimiter.NewRateLimiter(redisClient, 20, 40, 5*time.Minute)

	presenter := presenter.NewPresenter(db, cfg, tel)
	router := router.NewRouter(presenter, db, tel, cfg, limiter)

	addr := ":" + cfg.SERVER_PORT

	// --- Run server and handle graceful shutdown ---

	listenErr := make(chan error, 1)

	go func() {
		zap.L().Info("Server starting", zap.String("address", addr))
		if err := router.Listen(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			listenErr <- err
		} else {
			listenErr <- nil
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-shutdown:
		zap.L().Info("Received shutdown signal", zap.String("signal", sig.String()))
	case err := <-listenErr:
		if err != nil {
			zap.L().Error("Server listen error", zap.Error(err))
			os.Exit(1)
		}
	}

	zap.L().Info("Starting graceful shutdown...")
	if err := router.ShutdownWithTimeout(cfg.SHUTDOWN_TIMEOUT); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			zap.L().Warn("Server shutdown timed out", zap.Duration("timeout", cfg.SHUTDOWN_TIMEOUT))
		} else {
			zap.L().Error("Server shutdown error", zap.Error(err))
		}
	} else {
		zap.L().Info("Server gracefully stopped.")
	}

	zap.L().Info("Application shutdown complete.")
}

// SeedUsers makes sure an admin account and a demo customer exist so the API
// is usable right after first boot.
func SeedUsers(db *gorm.DB) {
	slog.Info("Checking for seed users...")

	seeds := []struct {
		email    string
		password string
		role     domain.Role
	}{
		{"admin@lending.local", os.Getenv("ADMIN_PASSWORD"), domain.AdminRole},
		{"customer@lending.local", os.Getenv("CUSTOMER_PASSWORD"), domain.CustomerRole},
	}

	for _, seed := range seeds {
		var existing model.User
		err := db.Where("email = ?", seed.email).First(&existing).Error
		if err == nil {
			slog.Info("Seed user already exists.", "email", seed.email)
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			slog.Error("Error checking for seed user", "email", seed.email, "error", err)
			os.Exit(1)
		}

		plain := seed.password
		if plain == "" {
			plain = "changeme"
		}
		hash, err := password.HashPassword(plain)
		if err != nil {
			slog.Error("Failed to hash seed password", "error", err)
			os.Exit(1)
		}

		user := model.User{
			Email:    seed.email,
			Password: hash,
			Role:     string(seed.role),
		}
		if err := db.Create(&user).Error; err != nil {
			slog.Error("Failed to seed user", "email", seed.email, "error", err)
			os.Exit(1)
		}
		slog.Info("Seed user created.", "email", seed.email, "role", string(seed.role))
	}
}
