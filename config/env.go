package config

import (
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// LoadEnv loads the .env file if one is present. Missing files are fine;
// variables may also come from the process environment.
func LoadEnv() {
	if err := godotenv.Load(".env"); err != nil {
		if Logger != nil {
			Logger.Debug("No .env file loaded", zap.Error(err))
		}
	}
}

// GetEnv reads an environment variable, returning "" when unset.
func GetEnv(key string) string {
	return os.Getenv(key)
}
