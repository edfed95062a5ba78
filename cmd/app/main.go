package main

import (
    "context"
    "log"
    "os"
    "os/signal"
    "syscall"
    "time"

    "go.uber.org/zap"

    "moderator/internal/pkg/config"
    "moderator/internal/pkg/logger"
    "moderator/internal/pkg/moderator"
    "moderator/internal/pkg/store"
)

func main() {
    cfg, err := config.LoadConfig()
    if err != nil {
        log.Fatalf("failed to load config: %v", err)
    }

    if err := logger.InitLogger(cfg.LogLevel); err != nil {
        log.Fatalf("failed to initialize logger: %v", err)
    }
    defer logger.Log.Sync()

    // The document store is the CMS's concern; the in-memory implementation
    // backs local runs and tests.
    commentStore := store.NewMemoryStore()

    mod, err := moderator.New(cfg, commentStore)
    if err != nil {
        logger.Log.Fatal("Failed to construct moderator", zap.Error(err))
    }

    ctx, cancel := context.WithCancel(context.Background())
    defer cancel()

    if err := mod.StartProcessing(ctx); err != nil {
        logger.Log.Fatal("Failed to start moderation workers", zap.Error(err))
    }

    go mod.StartService(cfg.ServerPort)

    // Listen for OS signals to gracefully shut down.
    sigChan := make(chan os.Signal, 1)
    signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

    s := <-sigChan
    logger.Log.Info("Received signal, shutting down", zap.String("signal", s.String()))
    cancel()
    mod.Stop()

    // Give some time for cleanup if needed
    time.Sleep(2 * time.Second)
    logger.Log.Info("Moderator shutdown complete")
}
