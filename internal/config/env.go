package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

const (
	EnvData     = "UAVSIZER_DATA"
	EnvAssets   = "UAVSIZER_ASSETS"
	EnvAVL      = "UAVSIZER_AVL"
	EnvLogLevel = "UAVSIZER_LOG_LEVEL"
)

// LoadEnv reads the given dotenv files, or .env when none are named, into
// the process environment. Missing files are ignored; variables already
// set win.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}

// ApplyEnv overrides the path settings from the environment.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvData); v != "" {
		c.Paths.Data = v
	}
	if v := os.Getenv(EnvAssets); v != "" {
		c.Paths.Assets = v
	}
	if v := os.Getenv(EnvAVL); v != "" {
		c.Paths.AVL = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Paths.LogLevel = v
	}
}
