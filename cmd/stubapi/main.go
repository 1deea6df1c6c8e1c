package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/backloglabs/storefront-client/internal/config"
	"github.com/backloglabs/storefront-client/internal/observability"
	"github.com/backloglabs/storefront-client/internal/stub"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	server := stub.New(cfg.Stub, logger)

	// A default admin so the console can be exercised out of the box.
	hash, err := stub.HashPassword("admin-password", cfg.Stub.BcryptCost)
	if err != nil {
		logger.Fatal("failed to hash seed password", zap.Error(err))
	}
	server.Store.SeedAdmin("admin@backlog.test", hash, "SUPER_ADMIN")

	go func() {
		logger.Info("stub api listening", zap.String("addr", cfg.Stub.Addr()))
		if err := server.Listen(); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = server.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
