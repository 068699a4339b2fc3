package config

import (
	"errors"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/dmitrijs2005/strengthsmap/internal/flagx"
	"github.com/joho/godotenv"
)

// parseEnv overlays Config with environment variables. A dotenv file is
// loaded first (path from -env, otherwise ".env" when present); variables
// already set in the process environment are not overridden by it.
//
// Unset variables leave the current values untouched. Malformed values
// (e.g. a bad TOKEN_VALIDITY duration) panic, like the JSON loader does.
func parseEnv(config *Config) {
	if err := loadDotenv(flagx.EnvFileFlags()); err != nil {
		panic(err)
	}

	if err := env.Parse(config); err != nil {
		panic(err)
	}
}

func loadDotenv(path string) error {
	if path != "" {
		return godotenv.Load(path)
	}
	err := godotenv.Load()
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
