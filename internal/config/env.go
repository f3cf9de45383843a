// SPDX-License-Identifier: MIT

package config

import (
	"os"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/sidevit/trainconf/internal/log"
)

// ParseString reads a string from environment variable or returns default value.
// It logs the source (environment or default) for observability.
func ParseString(key, defaultValue string) string {
	return parseStringWithLogger(log.WithComponent("config"), key, defaultValue)
}

func parseStringWithLogger(logger zerolog.Logger, key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		if value == "" {
			logger.Debug().
				Str("key", key).
				Str("default", defaultValue).
				Str("source", "default").
				Msg("using default value (environment variable is empty)")
			return defaultValue
		}
		logger.Debug().
			Str("key", key).
			Str("value", value).
			Str("source", "environment").
			Msg("using environment variable")
		return value
	}
	logger.Debug().
		Str("key", key).
		Str("default", defaultValue).
		Str("source", "default").
		Msg("using default value")
	return defaultValue
}

// ParseBool reads a boolean from environment variable or returns default value.
// Invalid values are logged and the default is kept.
func ParseBool(key string, defaultValue bool) bool {
	return parseBoolWithLogger(log.WithComponent("config"), key, defaultValue)
}

func parseBoolWithLogger(logger zerolog.Logger, key string, defaultValue bool) bool {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		logger.Warn().
			Str("key", key).
			Str("value", value).
			Bool("default", defaultValue).
			Msg("invalid boolean value, using default")
		return defaultValue
	}
	return parsed
}

// ParseInt reads an integer from environment variable or returns default value.
// Invalid values are logged and the default is kept.
func ParseInt(key string, defaultValue int) int {
	return parseIntWithLogger(log.WithComponent("config"), key, defaultValue)
}

func parseIntWithLogger(logger zerolog.Logger, key string, defaultValue int) int {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		logger.Warn().
			Str("key", key).
			Str("value", value).
			Int("default", defaultValue).
			Msg("invalid integer value, using default")
		return defaultValue
	}
	return parsed
}

// ParseFloat reads a float from environment variable or returns default value.
// Invalid values are logged and the default is kept.
func ParseFloat(key string, defaultValue float64) float64 {
	return parseFloatWithLogger(log.WithComponent("config"), key, defaultValue)
}

func parseFloatWithLogger(logger zerolog.Logger, key string, defaultValue float64) float64 {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		logger.Warn().
			Str("key", key).
			Str("value", value).
			Float64("default", defaultValue).
			Msg("invalid float value, using default")
		return defaultValue
	}
	return parsed
}
