// Package env loads .env files for local runs.
package env

import (
	"cmp"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

const (
	pathKey = "ENV_PATH"
	envKey  = "ENV"
	local   = "local"
)

// Environment returns ENV, "local" when unset.
func Environment() string {
	return cmp.Or(os.Getenv(envKey), local)
}

func IsLocal(env string) bool {
	return env == "" || env == local
}

// LoadDotEnv loads the file named by ENV_PATH, or defaultPath. Variables
// already present in the process environment are not overridden.
// A missing file is an error only in the local environment.
func LoadDotEnv(env string, defaultPath string) error {
	path := os.Getenv(pathKey)
	if path == "" {
		slog.Debug("ENV_PATH is not set, using default path", "defaultPath", defaultPath)
		path = defaultPath
	}

	if err := godotenv.Load(path); err != nil {
		if IsLocal(env) {
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
		slog.Debug("Skipping .env ...", "env", env, "path", path)
		return nil
	}

	slog.Debug("Loaded environment file", "path", path)
	return nil
}
