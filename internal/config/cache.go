package config

import (
    "time"
)

// CacheConfig defines settings for the trip response cache middleware.
// When Enabled is false or no Redis client is configured, caching is
// disabled.  TTL defines the lifetime of cache entries, Prefix namespaces
// the keys and MaxBodyBytes caps the size of a cached response.
type CacheConfig struct {
    Enabled      bool
    TTL          time.Duration
    Prefix       string
    MaxBodyBytes int
}

// LoadCacheConfig reads environment variables to build a CacheConfig.
// Defaults are used when variables are not set.
func LoadCacheConfig() (CacheConfig, error) {
    enabled, err1 := envBool("CACHE_ENABLED", true)
    ttl, err2 := envDur("CACHE_TTL", 5*time.Minute)
    maxBody, err3 := envInt("CACHE_MAX_BODY_BYTES", 1<<20)
    cfg := CacheConfig{
        Enabled:      enabled,
        TTL:          ttl,
        Prefix:       envStr("CACHE_PREFIX", "cache"),
        MaxBodyBytes: maxBody,
    }
    if cfg.TTL <= 0 {
        cfg.TTL = 5 * time.Minute
    }
    return cfg, firstErr(err1, err2, err3)
}

func firstErr(errs ...error) error {
    for _, err := range errs {
        if err != nil {
            return err
        }
    }
    return nil
}
