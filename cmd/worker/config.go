package main

import (
	"buxta-backend/internal/config"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// loadConfig reads the shared application config; the worker only uses
// the Redis, SMTP, storage and Worker sections
func loadConfig() (*config.Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("redis", cfg.Redis.Host).
		Str("smtp", cfg.SMTP.Host+":"+cfg.SMTP.Port).
		Int("concurrency", cfg.Worker.Concurrency).
		Msg("[CONFIG] worker configuration loaded")
	return cfg, nil
}
