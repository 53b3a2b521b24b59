// Package config
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	LogLevel  string `validate:"oneof=debug info warn error"`
	LogFormat string `validate:"oneof=text json"`

	MeminfoPath  string `validate:"required"`
	ZoneinfoPath string `validate:"required"`

	// LegacyWatermark subtracts the summed low watermark from MemFree
	// instead of totalreserve_pages, matching the pre-3.14 estimate.
	LegacyWatermark bool
	VerboseTrace    bool
}

var validate = validator.New()

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		LogLevel:  getEnv("MEMAVAIL_LOG_LEVEL", "info"),
		LogFormat: getEnv("MEMAVAIL_LOG_FORMAT", "text"),

		MeminfoPath:  getEnv("MEMAVAIL_MEMINFO_PATH", "/proc/meminfo"),
		ZoneinfoPath: getEnv("MEMAVAIL_ZONEINFO_PATH", "/proc/zoneinfo"),

		LegacyWatermark: getEnvBool("MEMAVAIL_LEGACY_WATERMARK", false),
		VerboseTrace:    getEnvBool("MEMAVAIL_VERBOSE", false),
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}

	v, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return v
}
