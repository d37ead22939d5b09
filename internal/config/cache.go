package config

import (
    "time"
)

// CacheConfig drives the redis response cache in front of the
// availability view. The view is recomputed from both ledgers on every
// request, so even a short TTL absorbs most of the read load while a
// hall fills up. MaxBodyBytes caps what gets stored; an availability
// payload for a large enclosure stays well under the default.
type CacheConfig struct {
    Enabled      bool
    TTL          time.Duration
    Prefix       string
    MaxBodyBytes int
}

// LoadCacheConfig reads the CACHE_* environment variables. The TTL
// default is deliberately short: a stale availability view misdirects
// ushers, so freshness wins over hit rate.
func LoadCacheConfig() CacheConfig {
    cfg := CacheConfig{
        Enabled:      envBool("CACHE_ENABLED", true),
        TTL:          envDur("CACHE_TTL", 15*time.Second),
        Prefix:       envStr("CACHE_PREFIX", "seating:cache"),
        MaxBodyBytes: envInt("CACHE_MAX_BODY_BYTES", 1<<20),
    }
    if cfg.TTL <= 0 {
        cfg.TTL = 15 * time.Second
    }
    return cfg
}
