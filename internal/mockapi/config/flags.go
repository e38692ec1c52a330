package config

import (
	"flag"

	"github.com/dmitrijs2005/botfolio/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   listen address (e.g., ":8080")
//	-s string   JWT HMAC secret key
//	-p string   payment signing secret
//	-t duration token validity (e.g., "3h")
func parseFlags(config *Config, argv []string) {
	args := flagx.FilterArgs(argv, []string{"-a", "-s", "-p", "-t"})

	fs := flag.NewFlagSet("mockapi", flag.ContinueOnError)

	fs.StringVar(&config.Addr, "a", config.Addr, "address and port to run server")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.StringVar(&config.PaymentSecret, "p", config.PaymentSecret, "payment secret")
	fs.DurationVar(&config.TokenValidity, "t", config.TokenValidity, "token validity")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
