package helpers

import (
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// ParseDuration reads a configured timeout or TTL.
// Blank values use fallback silently; unparsable or non-positive values use it with a warning.
func ParseDuration(raw string, fallback time.Duration) time.Duration {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		log.Warn().Err(err).Str("value", raw).Dur("fallback", fallback).Msg("Ignoring invalid duration, using fallback")
		return fallback
	}
	return d
}
