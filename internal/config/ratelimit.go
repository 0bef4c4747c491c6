package config

import "time"

// RateLimitConfig controls the Redis token bucket limiter applied to auth
// and write routes.  Capacity is the bucket size, RefillTokens are added
// every RefillInterval, and TTL bounds how long an idle bucket key lives.
type RateLimitConfig struct {
	Enabled        bool
	Capacity       int
	RefillTokens   int
	RefillInterval time.Duration
	TTL            time.Duration
	KeyStrategy    string
	Prefix         string
	Debug          bool
}

// LoadRateLimitConfig reads limiter settings from the environment.
// RATE_LIMIT_BURST and RATE_LIMIT_REFILL_EVERY are shorthand overrides for
// capacity and a one-token refill cadence.
func LoadRateLimitConfig() RateLimitConfig {
	conf := RateLimitConfig{
		Enabled:        envBool("RATE_LIMIT_ENABLED", true),
		Capacity:       envInt("RATE_LIMIT_CAPACITY", 60),
		RefillTokens:   envInt("RATE_LIMIT_REFILL_TOKENS", 1),
		RefillInterval: envDur("RATE_LIMIT_REFILL_INTERVAL", time.Second),
		TTL:            envDur("RATE_LIMIT_TTL", 10*time.Minute),
		KeyStrategy:    envStr("RATE_LIMIT_KEY_STRATEGY", "ip_user_route"),
		Prefix:         envStr("RATE_LIMIT_PREFIX", "rl"),
		Debug:          envBool("RATE_LIMIT_DEBUG", false),
	}
	if burst := envInt("RATE_LIMIT_BURST", -1); burst > 0 {
		conf.Capacity = burst
	}
	if every := envDur("RATE_LIMIT_REFILL_EVERY", 0); every > 0 {
		conf.RefillTokens = 1
		conf.RefillInterval = every
	}
	if conf.Capacity < 1 {
		conf.Capacity = 1
	}
	if conf.RefillTokens < 1 {
		conf.RefillTokens = 1
	}
	if conf.RefillInterval <= 0 {
		conf.RefillInterval = time.Second
	}
	// Keys must outlive several refill cycles or buckets reset too eagerly.
	if minTTL := 5 * conf.RefillInterval; conf.TTL < minTTL {
		conf.TTL = minTTL
	}
	return conf
}
