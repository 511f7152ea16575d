// Package config reads the library's single piece of environment-driven
// configuration: the local archive file path.
package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/dkotrba/weatherpipe/chmi"
)

// Config holds caller-overridable settings.
type Config struct {
	// ArchivePath is the local CHMI workbook location.
	ArchivePath string
}

// Load reads configuration from the environment with the baked-in default.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	return &Config{
		ArchivePath: getenvDefault("CHMI_ARCHIVE_PATH", chmi.DefaultArchivePath),
	}, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
