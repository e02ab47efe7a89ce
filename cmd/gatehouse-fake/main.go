// Package main runs the fake Gatehouse server: an in-memory rendition of
// the visitor-management platform API for demos and local development.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/gatehouse-hq/gatehouse-go/fake"
	"github.com/gatehouse-hq/gatehouse-go/metrics"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := Load(*configPath)
	if err != nil {
		// Logger is not up yet.
		zap.NewExample().Fatal("failed to load configuration", zap.Error(err))
	}

	logger := initLogger(cfg.Logging)
	defer logger.Sync()

	logger.Info("starting gatehouse-fake",
		zap.String("addr", cfg.Server.Addr),
		zap.Bool("auth", cfg.Auth.Token != ""),
		zap.String("seed_file", cfg.Seed.File))

	var seed *fake.Seed
	if cfg.Seed.File != "" {
		if seed, err = fake.LoadSeedFile(cfg.Seed.File); err != nil {
			logger.Fatal("failed to load seed file", zap.Error(err))
		}
		logger.Info("seed file loaded",
			zap.Int("tenants", len(seed.Tenants)),
			zap.Int("visits", len(seed.Visits)))
	}

	reg := prometheus.NewRegistry()
	opts := fake.Options{
		Addr:     cfg.Server.Addr,
		Token:    cfg.Auth.Token,
		Seed:     seed,
		Registry: reg,
	}
	if cfg.RateLimiter.Enabled {
		opts.RateLimit = cfg.RateLimiter.RequestsPerSecond
		opts.RateBurst = cfg.RateLimiter.BurstSize
	}
	srv := fake.New(opts, logger)

	errChan := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			errChan <- err
		}
	}()

	var metricsSrv *metrics.Server
	if cfg.Metrics.Enabled {
		metricsSrv = metrics.NewServer(cfg.Metrics.Port, cfg.Metrics.Path, reg, logger)
		go func() {
			if err := metricsSrv.Start(); err != nil {
				errChan <- err
			}
		}()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("received shutdown signal", zap.String("signal", sig.String()))
	case err := <-errChan:
		logger.Error("server error", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("failed to shutdown server", zap.Error(err))
	}
	if metricsSrv != nil {
		if err := metricsSrv.Shutdown(ctx); err != nil {
			logger.Error("failed to shutdown metrics server", zap.Error(err))
		}
	}
	logger.Info("gatehouse-fake shutdown complete")
}

// initLogger initializes the zap logger.
func initLogger(cfg LoggingConfig) *zap.Logger {
	var level zapcore.Level
	switch cfg.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "info":
		level = zapcore.InfoLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	var config zap.Config
	if cfg.Format == "console" {
		config = zap.NewDevelopmentConfig()
	} else {
		config = zap.NewProductionConfig()
	}

	config.Level = zap.NewAtomicLevelAt(level)
	config.OutputPaths = []string{"stdout"}
	config.ErrorOutputPaths = []string{"stderr"}

	logger, err := config.Build()
	if err != nil {
		logger, _ = zap.NewProduction()
	}

	return logger
}
