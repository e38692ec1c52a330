package config

import (
	"github.com/dmitrijs2005/botfolio/internal/flagx"
	"github.com/spf13/viper"
)

// parseJson overlays Config with values loaded from a JSON file.
//
// Lookup order for the JSON file path:
//  1. Command-line flags (-c or -config) via flagx.JsonConfigFlags().
//  2. If empty, no JSON is loaded and the function returns.
//
// Behavior:
//   - Reads the file through viper; keys absent from the file leave the
//     current value untouched.
//   - Durations may be strings like "3s" or integer nanoseconds.
//   - Panics on read or parse errors (caller should recover if desired).
func parseJson(cfg *Config) {
	// Resolve file path from flags.
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	v := viper.New()
	v.SetConfigFile(jsonConfigFile)
	v.SetConfigType("json")
	if err := v.ReadInConfig(); err != nil {
		panic(err)
	}

	str := func(key string, dst *string) {
		if v.IsSet(key) {
			*dst = v.GetString(key)
		}
	}

	str("api_base_url", &cfg.APIBaseURL)
	if v.IsSet("request_timeout") {
		cfg.RequestTimeout = v.GetDuration("request_timeout")
	}
	if v.IsSet("online_check_interval") {
		cfg.OnlineCheckInterval = v.GetDuration("online_check_interval")
	}
	str("storage_backend", &cfg.StorageBackend)
	str("database_path", &cfg.DatabasePath)
	str("redis_addr", &cfg.RedisAddr)
	str("redis_password", &cfg.RedisPassword)
	if v.IsSet("redis_db") {
		cfg.RedisDB = v.GetInt("redis_db")
	}
	str("redis_namespace", &cfg.RedisNamespace)
	str("log_level", &cfg.LogLevel)
	str("log_format", &cfg.LogFormat)
	str("payment_secret", &cfg.PaymentSecret)
}
