package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

type Config struct {
	VisionAPIURL string
	VisionAPIKey string
	DBPath       string
	ServerPort   string
	LogLevel     string
}

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg := &Config{
		VisionAPIURL: getEnv("VISION_API_URL", ""),
		VisionAPIKey: getEnv("VISION_API_KEY", ""),
		DBPath:       getEnv("DB_PATH", "lobby.db"),
		ServerPort:   getEnv("SERVER_PORT", "8080"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
	}

	if cfg.VisionAPIURL == "" {
		return nil, fmt.Errorf("VISION_API_URL is required")
	}

	logger.Info().
		Str("vision_api_url", cfg.VisionAPIURL).
		Str("db_path", cfg.DBPath).
		Str("server_port", cfg.ServerPort).
		Str("log_level", cfg.LogLevel).
		Msg("configuration loaded")

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

var Module = fx.Provide(Load)
