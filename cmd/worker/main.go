package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"buxta-backend/pkg/container"
	"buxta-backend/pkg/logger"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("[CONFIG] failed to load")
	}
	logger.Init(cfg.App.Environment)

	c, err := container.NewContainer(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("[CONTAINER] failed to initialize")
	}
	defer c.Cleanup()

	checker := newHealthChecker(cfg, c)
	defer checker.Close()

	startCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	err = checker.checkAll(startCtx)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Msg("[STARTUP] dependencies unavailable")
	}

	srv := setupAsynqServer(cfg, initializeHandlers(c))
	scheduler := setupScheduler(cfg)
	health := startHealthCheckServer(cfg.Worker.HealthPort, checker)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("[SHUTDOWN] gracefully stopping...")
	scheduler.Shutdown()
	srv.Shutdown()

	ctx, cancelHealth := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelHealth()
	_ = health.Shutdown(ctx)
	log.Info().Msg("[SHUTDOWN] stopped")
}
