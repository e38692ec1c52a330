// Package config loads runtime configuration for the Botfolio CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment: BOTFOLIO_* variables, with a .env file in the working
//     directory loaded first (see parseEnv).
//  3. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the REST API
//	-i int      online status check interval (seconds)
//	-s string   session storage backend (sqlite|redis)
//	-d string   SQLite database path
//	-r string   Redis address
//	-l string   log level
//
// # JSON schema
//
// Durations can be either strings like "3s" or integer nanoseconds:
//
//	{
//	  "api_base_url": "http://127.0.0.1:8080/api",
//	  "request_timeout": "10s",
//	  "online_check_interval": "3s",
//	  "storage_backend": "redis",
//	  "redis_addr": "127.0.0.1:6379",
//	  "redis_db": 2
//	}
package config
