package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/example/shophub/pkg/auth"
	"github.com/example/shophub/pkg/config"
	"github.com/example/shophub/pkg/discovery"
	"github.com/example/shophub/pkg/payment"
	"github.com/example/shophub/pkg/repository"
	"github.com/example/shophub/server"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	// Load config
	cfg, err := config.Load("config/config.yaml")
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Setup logger
	logger, err := newLogger(&cfg.Log)
	if err != nil {
		panic(fmt.Sprintf("Failed to create logger: %v", err))
	}
	defer logger.Sync()

	logger.Info("Starting storefront API",
		zap.String("name", cfg.Server.Name),
		zap.Int("port", cfg.Server.Port))

	// MySQL
	mysqlRepo, err := repository.NewMySQLRepository(&cfg.MySQL)
	if err != nil {
		logger.Fatal("Failed to connect to MySQL", zap.Error(err))
	}
	defer mysqlRepo.Close()

	// Redis
	redisRepo := repository.NewRedisRepository(&cfg.Redis)
	defer redisRepo.Close()

	// MongoDB
	mongoRepo, err := repository.NewMongoRepository(&cfg.MongoDB)
	if err != nil {
		logger.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		mongoRepo.Close(ctx)
	}()

	// Ping dependencies
	ctx := context.Background()
	if err := redisRepo.Ping(ctx); err != nil {
		logger.Warn("Redis connection failed", zap.Error(err))
	} else {
		logger.Info("Redis connected successfully")
	}
	if err := mongoRepo.Ping(ctx); err != nil {
		logger.Warn("MongoDB connection failed", zap.Error(err))
	} else {
		logger.Info("MongoDB connected successfully")
	}

	// Payment processor
	processor, err := payment.NewProcessor(&cfg.Payment, logger)
	if err != nil {
		logger.Fatal("Failed to start payment processor", zap.Error(err))
	}
	defer processor.Stop()

	// Build server
	srv := server.NewServer(cfg, logger, server.Deps{
		Products: mysqlRepo,
		Orders:   mysqlRepo,
		Users:    mysqlRepo,
		Carts:    redisRepo,
		Cache:    redisRepo,
		Auditor:  mongoRepo,
		Payments: processor,
		Auth:     auth.NewManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
	})
	srv.SetupRoutes()

	// Register in etcd; the API still serves if etcd is down
	instance := &discovery.ServiceInstance{
		Name: cfg.Server.Name,
		Host: cfg.Server.Host,
		Port: cfg.Server.Port,
	}
	registry, err := discovery.NewRegistry(&cfg.Etcd)
	if err != nil {
		logger.Warn("Failed to connect to etcd, continuing without registration", zap.Error(err))
		registry = nil
	} else if err := registry.Register(ctx, instance); err != nil {
		logger.Warn("Failed to register service", zap.Error(err))
	} else {
		logger.Info("Service registered in etcd",
			zap.String("name", cfg.Server.Name),
			zap.String("address", fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)))
	}

	// Start server in goroutine
	serverErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigCh:
		logger.Info("Received shutdown signal")
	case err := <-serverErr:
		logger.Fatal("Server error", zap.Error(err))
	}

	if registry != nil {
		if err := registry.Deregister(ctx, instance); err != nil {
			logger.Error("Failed to deregister service", zap.Error(err))
		}
		registry.Close()
	}

	logger.Info("Service stopped")
}

func newLogger(cfg *config.LogConfig) (*zap.Logger, error) {
	zapCfg := zap.NewProductionConfig()
	if cfg.Encoding != "" {
		zapCfg.Encoding = cfg.Encoding
	}
	if len(cfg.OutputPaths) > 0 {
		zapCfg.OutputPaths = cfg.OutputPaths
	}
	if cfg.Level != "" {
		level, err := zapcore.ParseLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
		zapCfg.Level = zap.NewAtomicLevelAt(level)
	}
	return zapCfg.Build()
}
