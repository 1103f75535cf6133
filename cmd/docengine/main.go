package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/odyssey-erp/backoffice-engine/cmd/docengine/cli"
	"github.com/odyssey-erp/backoffice-engine/internal/app"
	"github.com/odyssey-erp/backoffice-engine/internal/capabilities"
	"github.com/odyssey-erp/backoffice-engine/internal/engine"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		return cli.ExitError
	}

	logger := app.NewLogger(cfg)

	engineCfg, err := cfg.EngineConfig()
	if err != nil {
		logger.Error("engine config", slog.Any("error", err))
		return cli.ExitError
	}

	var store capabilities.Store = capabilities.NewMemoryStore(cfg.CapabilityCacheTTL, nil)
	if cfg.RedisAddr != "" {
		redisClient, err := capabilities.NewRedisClient(ctx, cfg.RedisAddr)
		if err != nil {
			logger.Warn("redis unavailable, using in-memory capability cache", slog.Any("error", err))
		} else {
			defer func() {
				if err := redisClient.Close(); err != nil {
					logger.Warn("redis close", slog.Any("error", err))
				}
			}()
			store = capabilities.NewRedisStore(redisClient, cfg.CapabilityCacheTTL)
		}
	}

	docCLI := cli.New(engine.NewService(engineCfg), store, logger)
	return docCLI.Run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
}
