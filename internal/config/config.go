package config

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

// Config is the process-wide configuration resolved once at startup.
// SpreadsheetID and ScriptURL are the highest-precedence credential
// provider: when set they override both the locally saved credentials
// and the baked-in district defaults.
type Config struct {
	ServerPort    string
	DBPath        string
	LogLevel      string
	District      string
	SpreadsheetID string
	ScriptURL     string
}

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg := &Config{
		ServerPort:    getEnv("SERVER_PORT", "8080"),
		DBPath:        getEnv("DB_PATH", "catur.db"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		District:      getEnv("DISTRICT", ""),
		SpreadsheetID: getEnv("SPREADSHEET_ID", ""),
		ScriptURL:     getEnv("SCRIPT_URL", ""),
	}

	logger.Info().
		Str("server_port", cfg.ServerPort).
		Str("db_path", cfg.DBPath).
		Str("log_level", cfg.LogLevel).
		Str("district", cfg.District).
		Bool("credentials_override", cfg.SpreadsheetID != "" || cfg.ScriptURL != "").
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
