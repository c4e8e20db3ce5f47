package config

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rxtech-lab/argo-moonshot/pkg/errors"
)

// Environment variables carrying exchange credentials.
const (
	EnvBinanceAPIKey    = "BINANCE_API_KEY"
	EnvBinanceSecretKey = "BINANCE_SECRET_KEY"
	EnvPolygonAPIKey    = "POLYGON_API_KEY"
)

// LoadEnv loads .env files into the process environment. Variables already set in
// the environment win. With no files it tries ./.env and ignores its absence.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		if _, err := os.Stat(".env"); err != nil {
			return nil
		}

		files = []string{".env"}
	}

	if err := godotenv.Load(files...); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to load env file", err)
	}

	return nil
}

// LoadSecrets copies exchange credentials from the environment into cfg.
func LoadSecrets(cfg *Config) {
	cfg.Exchange.APIKey = os.Getenv(EnvBinanceAPIKey)
	cfg.Exchange.SecretKey = os.Getenv(EnvBinanceSecretKey)
	cfg.Exchange.PolygonAPIKey = os.Getenv(EnvPolygonAPIKey)
}

// MaskSecret hides all but the last four characters of a credential for logging.
func MaskSecret(value string) string {
	if value == "" {
		return ""
	}

	if len(value) <= 4 {
		return "***"
	}

	return "***" + value[len(value)-4:]
}
