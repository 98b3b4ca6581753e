package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/loc/inventory-service/internal/api"
	"github.com/loc/inventory-service/internal/cache"
	"github.com/loc/inventory-service/internal/config"
	"github.com/loc/inventory-service/internal/db"
	"github.com/loc/inventory-service/internal/logger"
	"github.com/loc/inventory-service/internal/observability"
	"github.com/loc/inventory-service/internal/repository/dao"
)

const (
	configPath      = "./cmd/app/config.yml"
	shutdownTimeout = 10 * time.Second
)

func Start() error {
	conf, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to initialize config -> %w", err)
	}

	if err = logger.Init(conf.API.Environment, conf.Log.Level); err != nil {
		return fmt.Errorf("failed to initialize logger -> %w", err)
	}

	err = config.Watch(configPath, func(c *config.AppConfig) {
		if err := logger.SetLevel(c.Log.Level); err != nil {
			zap.L().Warn("ignoring log level from reloaded config", zap.Error(err))
			return
		}
		zap.L().Info("log level changed", zap.String("level", c.Log.Level))
	})
	if err != nil {
		return fmt.Errorf("failed to watch config -> %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.SetupTracingSDK(ctx, conf.Otel)
	if err != nil {
		return fmt.Errorf("failed to initialize tracing -> %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			zap.L().Warn("failed to flush traces", zap.Error(err))
		}
	}()

	gormDB, err := openDB(conf)
	if err != nil {
		return fmt.Errorf("failed to initialize database -> %w", err)
	}

	if err = dao.InitTables(gormDB); err != nil {
		return fmt.Errorf("failed to migrate tables -> %w", err)
	}

	var rdb *redis.Client
	if conf.Redis.Enabled {
		rdb = cache.NewRedisClient(conf.Redis)
		defer rdb.Close()

		if err = rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("failed to connect to redis -> %w", err)
		}
	}

	s := api.NewServer(conf, gormDB, rdb)

	addr := ":" + s.Config.API.Port
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.Router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		zap.L().Info(fmt.Sprintf("starting server at %v", addr))
		serveErr <- httpServer.ListenAndServe()
	}()

	select {
	case err = <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start the server -> %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	zap.L().Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err = httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down the server -> %w", err)
	}

	return nil
}

// openDB prefers DATABASE_URL, a PostgreSQL URL, over the structured settings.
func openDB(conf *config.AppConfig) (*gorm.DB, error) {
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		return db.OpenPostgresWithURL(dbURL)
	}

	return db.Open(conf)
}
