package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"walletsync/internal/infrastructure/config"
	"walletsync/internal/infrastructure/di"
)

func main() {
	logger := log.New(os.Stdout, "", log.LstdFlags|log.LUTC)
	cfg, cfgErr := config.LoadClientConfig()
	if cfgErr != nil {
		logger.Printf("startup config error code=%s message=%s metadata=%v", cfgErr.Code, cfgErr.Message, cfgErr.Metadata)
		os.Exit(1)
	}
	if !cfg.SyncEnabled {
		logger.Printf("sync config error code=CONFIG_SYNC_DISABLED message=SYNC_ENABLED must be true for sync runtime")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	container, buildErr := di.BuildClient(ctx, cfg, logger)
	if buildErr != nil {
		logger.Printf("dependency wiring error: %v", buildErr)
		os.Exit(1)
	}

	if _, ok := container.AccountManager.Current(); !ok {
		logger.Printf("no account on device store=%s; sync idles until one is created", cfg.AccountStorePath)
	}

	// SIGUSR1 stands in for a push-notification arrival: the platform push
	// handler delivers it to nudge the next ticks into syncing immediately.
	pushCh := make(chan os.Signal, 1)
	signal.Notify(pushCh, syscall.SIGUSR1)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-pushCh:
				logger.Printf("push nudge received signal=SIGUSR1")
				container.SyncWorker.NotePushNotification()
			}
		}
	}()

	logger.Printf("sync worker starting api=%s", cfg.HistoryAPIBaseURL)
	container.SyncWorker.Start(ctx)
	logger.Printf("sync worker stopped")
}
