package config

import (
	"fmt"
	"os"
	"strconv"
)

// EnvString reads a string environment variable, reporting presence.
func EnvString(key string) (string, bool) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return "", false
	}
	return value, true
}

// EnvInt reads an integer environment variable, reporting presence and
// parse failures separately so callers can surface bad values.
func EnvInt(key string) (int, bool, error) {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return 0, false, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return value, true, nil
}
