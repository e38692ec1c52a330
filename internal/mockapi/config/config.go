// Package config handles configuration for the mock API: defaults, then the
// environment (a .env file is honored), then command-line flags.
package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds runtime settings for the mock API.
//
// Fields:
//   - Addr: bind address of the HTTP listener.
//   - SecretKey: HMAC secret for signing JWTs (HS256).
//   - PaymentSecret: secret the checkout gateway signs payments with.
//   - TokenValidity: lifetime of issued tokens.
//   - AdminUsername / AdminPassword: seed admin account, skipped when the password is empty.
type Config struct {
	Addr          string
	SecretKey     string
	PaymentSecret string
	TokenValidity time.Duration
	AdminUsername string
	AdminPassword string
	LogLevel      string
	LogFormat     string
}

// LoadDefaults populates Config with development defaults.
// NOTE: These values are insecure and meant for local use only.
func (c *Config) LoadDefaults() {
	c.Addr = ":8080"
	c.SecretKey = "secretKey"
	c.PaymentSecret = "paymentSecret"
	c.TokenValidity = 3 * time.Hour
	c.AdminUsername = "admin"
	c.AdminPassword = ""
	c.LogLevel = "info"
	c.LogFormat = "console"
}

// LoadConfig builds a Config by applying defaults, then the environment and
// finally command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	_ = godotenv.Load()
	parseEnv(cfg, os.LookupEnv)
	parseFlags(cfg, os.Args[1:])
	return cfg
}

func parseEnv(c *Config, lookup func(string) (string, bool)) {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	str("MOCKAPI_ADDR", &c.Addr)
	str("MOCKAPI_JWT_SECRET", &c.SecretKey)
	str("MOCKAPI_PAYMENT_SECRET", &c.PaymentSecret)
	str("MOCKAPI_ADMIN_USERNAME", &c.AdminUsername)
	str("MOCKAPI_ADMIN_PASSWORD", &c.AdminPassword)
	str("MOCKAPI_LOG_LEVEL", &c.LogLevel)
	str("MOCKAPI_LOG_FORMAT", &c.LogFormat)
	if v, ok := lookup("MOCKAPI_TOKEN_VALIDITY"); ok {
		if d, err := time.ParseDuration(v); err == nil {
			c.TokenValidity = d
		}
	}
}
