package config

import (
	"crypto/sha1"
	"fmt"
	"strings"
	"time"
)

// CacheConfig controls the Redis cache in front of the public listings.
//
// Listings only change when a moderator decides something, so entries
// are scoped by a generation number kept at GenerationKey. Bumping it
// retires every entry at once; stale generations expire through TTL.
type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
	// KeyStrategy is "route_query" (route pattern, path params and query)
	// or "url" (raw path and query).
	KeyStrategy  string
	Prefix       string
	MaxBodyBytes int
}

const defaultCacheBody = 1 << 20

// LoadCacheConfig reads CACHE_* variables.
func LoadCacheConfig() CacheConfig {
	c := CacheConfig{
		Enabled:      envBool("CACHE_ENABLED", true),
		TTL:          envDur("CACHE_TTL", 30*time.Second),
		KeyStrategy:  strings.ToLower(getenv("CACHE_KEY_STRATEGY", "route_query")),
		Prefix:       getenv("CACHE_PREFIX", "nailapp:cache"),
		MaxBodyBytes: envInt("CACHE_MAX_BODY_BYTES", defaultCacheBody),
	}
	if c.TTL < time.Second {
		c.TTL = time.Second
	}
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = defaultCacheBody
	}
	if c.KeyStrategy != "url" {
		c.KeyStrategy = "route_query"
	}
	return c
}

// GenerationKey is the Redis key of the listing generation counter.
func (c CacheConfig) GenerationKey() string {
	return c.Prefix + ":gen"
}

// EntryKey is the Redis key of one cached response in generation gen.
func (c CacheConfig) EntryKey(gen int64, parts ...string) string {
	sum := sha1.Sum([]byte(strings.Join(parts, "\x00")))
	return fmt.Sprintf("%s:%d:%x", c.Prefix, gen, sum)
}
