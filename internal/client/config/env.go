package config

import (
	"strconv"
	"time"
)

// parseEnv overlays Config with BOTFOLIO_* variables. Empty or unparsable
// values are ignored.
//
//	BOTFOLIO_API_URL                 APIBaseURL
//	BOTFOLIO_REQUEST_TIMEOUT         RequestTimeout ("10s")
//	BOTFOLIO_ONLINE_CHECK_INTERVAL   OnlineCheckInterval ("3s")
//	BOTFOLIO_STORAGE                 StorageBackend
//	BOTFOLIO_DB_PATH                 DatabasePath
//	BOTFOLIO_REDIS_ADDR              RedisAddr
//	BOTFOLIO_REDIS_PASSWORD          RedisPassword
//	BOTFOLIO_REDIS_DB                RedisDB
//	BOTFOLIO_LOG_LEVEL               LogLevel
//	BOTFOLIO_LOG_FORMAT              LogFormat
//	BOTFOLIO_PAYMENT_SECRET          PaymentSecret
func parseEnv(cfg *Config, lookup func(string) (string, bool)) {
	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		return v, ok && v != ""
	}
	str := func(key string, dst *string) {
		if v, ok := get(key); ok {
			*dst = v
		}
	}
	dur := func(key string, dst *time.Duration) {
		if v, ok := get(key); ok {
			if d, err := time.ParseDuration(v); err == nil {
				*dst = d
			}
		}
	}

	str("BOTFOLIO_API_URL", &cfg.APIBaseURL)
	dur("BOTFOLIO_REQUEST_TIMEOUT", &cfg.RequestTimeout)
	dur("BOTFOLIO_ONLINE_CHECK_INTERVAL", &cfg.OnlineCheckInterval)
	str("BOTFOLIO_STORAGE", &cfg.StorageBackend)
	str("BOTFOLIO_DB_PATH", &cfg.DatabasePath)
	str("BOTFOLIO_REDIS_ADDR", &cfg.RedisAddr)
	str("BOTFOLIO_REDIS_PASSWORD", &cfg.RedisPassword)
	if v, ok := get("BOTFOLIO_REDIS_DB"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.RedisDB = n
		}
	}
	str("BOTFOLIO_LOG_LEVEL", &cfg.LogLevel)
	str("BOTFOLIO_LOG_FORMAT", &cfg.LogFormat)
	str("BOTFOLIO_PAYMENT_SECRET", &cfg.PaymentSecret)
}
