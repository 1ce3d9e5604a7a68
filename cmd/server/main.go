package main // Entry point package

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/iliyamo/voyager-trip-planner/internal/config"
	"github.com/iliyamo/voyager-trip-planner/internal/database"
	"github.com/iliyamo/voyager-trip-planner/internal/logging"
	"github.com/iliyamo/voyager-trip-planner/internal/queue"
	"github.com/iliyamo/voyager-trip-planner/internal/repository"
	"github.com/iliyamo/voyager-trip-planner/internal/router"
	"github.com/iliyamo/voyager-trip-planner/internal/service"
)

func main() {
	_ = godotenv.Load() // .env is optional; real environment wins

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	logger := logging.Setup(cfg.LogLevel)
	if cfg.UsingDevSecret() {
		logger.Warn("JWT_SECRET not set, using the development secret")
	}
	cacheCfg, err := config.LoadCacheConfig()
	if err != nil {
		logger.Error("invalid cache configuration", "error", err)
		os.Exit(1)
	}
	queueCfg, err := config.LoadQueueConfig()
	if err != nil {
		logger.Error("invalid queue configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, database.Options{
		Driver:         cfg.DBDriver,
		FallbackSQLite: cfg.DBFallbackSQLite,
		User:           cfg.DBUser,
		Pass:           cfg.DBPass,
		Host:           cfg.DBHost,
		Port:           cfg.DBPort,
		Name:           cfg.DBName,
		SQLitePath:     cfg.SQLitePath,
	}, logger)
	if err != nil {
		logger.Error("database unavailable", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	users := repository.NewUserRepo(db.DB)
	auth := service.NewAuthService(users, cfg.JWTSecret, cfg.TokenTTL, cfg.BcryptCost)

	if cfg.SeedDemoUsers {
		if _, err := database.SeedDemoUsers(ctx, users, auth, logger); err != nil {
			logger.Warn("seeding demo users failed", "error", err)
		}
	}

	var publisher service.EventPublisher
	if queueCfg.Enabled {
		publisher = queue.NewPublisher(queueCfg.URL)
		go func() {
			if err := queue.StartTripConsumer(ctx, queueCfg.URL, queueCfg.LogDir, logger); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("trip consumer stopped", "error", err)
			}
		}()
	}
	trips := service.NewTripService(repository.NewTripRepo(db.DB), publisher, logger)

	rdb := config.NewRedisClient(ctx)
	if rdb == nil {
		if cacheCfg.Enabled {
			logger.Warn("redis unreachable, trip cache disabled")
		}
	} else {
		defer rdb.Close()
	}

	e := router.New(router.Deps{
		Logger:      logger,
		Auth:        auth,
		Trips:       trips,
		DB:          db,
		Driver:      db.Driver,
		CORSOrigins: cfg.CORSOrigins,
		Cache:       cacheCfg,
		Redis:       rdb,
	})

	addr := ":" + cfg.Port
	go func() {
		logger.Info("listening", "addr", addr, "env", cfg.Env, "database", db.Driver)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
	trips.Wait()
}
