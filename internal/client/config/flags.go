package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/botfolio/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   base URL of the REST API (default from Config)
//	-i int      online check interval in seconds (default from Config)
//	-s string   session storage backend: sqlite or redis
//	-d string   SQLite database path
//	-r string   Redis address
//	-l string   log level
//
// Note: The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	// Filter args to include only those handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-i", "-s", "-d", "-r", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "base URL of the API")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	fs.StringVar(&cfg.StorageBackend, "s", cfg.StorageBackend, "session storage backend (sqlite|redis)")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "SQLite database path")
	fs.StringVar(&cfg.RedisAddr, "r", cfg.RedisAddr, "Redis address")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
}
