package env

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

const pathVar = "PLM_ENV_PATH"

// LoadDotEnv loads environment variables from a .env file without overriding
// variables already set. PLM_ENV_PATH takes precedence over defaultPath. A
// missing file is only an error when required is set.
func LoadDotEnv(defaultPath string, required bool) error {
	envPath := os.Getenv(pathVar)
	if envPath == "" {
		slog.Debug("PLM_ENV_PATH is not set, using default path", "defaultPath", defaultPath)
		envPath = defaultPath
	}

	err := godotenv.Load(envPath)
	if err == nil {
		slog.Debug("loaded env file", "path", envPath)
		return nil
	}
	if !required && errors.Is(err, fs.ErrNotExist) {
		slog.Debug("skipping .env", "path", envPath)
		return nil
	}

	return err
}
