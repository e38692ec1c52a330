package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Storage backends for the persisted session.
const (
	StorageSQLite = "sqlite"
	StorageRedis  = "redis"
)

// Config holds runtime settings for the Botfolio CLI.
//
// Fields:
//   - APIBaseURL: root of the REST API, including the /api prefix.
//   - RequestTimeout: per-request HTTP timeout.
//   - OnlineCheckInterval: how often the client probes server reachability.
//   - StorageBackend: where the session is persisted, "sqlite" or "redis".
//   - DatabasePath: SQLite file for the sqlite backend.
//   - RedisAddr / RedisPassword / RedisDB / RedisNamespace: redis backend settings.
//   - LogLevel / LogFormat: see logging.Options.
//   - PaymentSecret: signing secret of the development checkout.
type Config struct {
	APIBaseURL          string
	RequestTimeout      time.Duration
	OnlineCheckInterval time.Duration
	StorageBackend      string
	DatabasePath        string
	RedisAddr           string
	RedisPassword       string
	RedisDB             int
	RedisNamespace      string
	LogLevel            string
	LogFormat           string
	PaymentSecret       string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://127.0.0.1:8080/api"
	c.RequestTimeout = 10 * time.Second
	c.OnlineCheckInterval = 3 * time.Second
	c.StorageBackend = StorageSQLite
	c.DatabasePath = "data/botfolio.db"
	c.RedisAddr = "127.0.0.1:6379"
	c.RedisPassword = ""
	c.RedisDB = 0
	c.RedisNamespace = "session"
	c.LogLevel = "warn"
	c.LogFormat = "console"
	c.PaymentSecret = "paymentSecret"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the environment (including a .env file), JSON (if present) and command-line
// flags (if present). Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	_ = godotenv.Load()
	parseEnv(cfg, os.LookupEnv)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
