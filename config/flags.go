package config

import (
	"flag"
	"io"
)

// parseFlags overlays command-line flags.
//
//	-c, -config string   JSON config file (consumed by parseJSON)
//	-a string            listen address (":3000")
//	-driver string       database driver: postgres | sqlite
//	-d string            database DSN or SQLite path
//	-k string            Gemini API key
//	-s string            token signing secret
//	-credits int         analyses granted to a new free user
//	-history-limit int   stored analyses per user, 0 = unbounded
//	-timeout duration    gateway call timeout
//	-debug               debug logging
func parseFlags(c *Config, args []string) error {
	fs := flag.NewFlagSet("finanzago", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var configPath string
	fs.StringVar(&configPath, "c", "", "path to config file")
	fs.StringVar(&configPath, "config", "", "path to config file")

	fs.StringVar(&c.ListenAddr, "a", c.ListenAddr, "address and port to run server")
	fs.StringVar(&c.DatabaseDriver, "driver", c.DatabaseDriver, "database driver")
	fs.StringVar(&c.DatabaseDSN, "d", c.DatabaseDSN, "database DSN")
	fs.StringVar(&c.GeminiAPIKey, "k", c.GeminiAPIKey, "Gemini API key")
	fs.StringVar(&c.SecretKey, "s", c.SecretKey, "secret key")
	fs.IntVar(&c.FreeCredits, "credits", c.FreeCredits, "credits for new free users")
	fs.IntVar(&c.HistoryLimit, "history-limit", c.HistoryLimit, "stored analyses per user")
	fs.DurationVar(&c.GatewayTimeout, "timeout", c.GatewayTimeout, "gateway call timeout")
	fs.BoolVar(&c.Debug, "debug", c.Debug, "debug logging")

	return fs.Parse(args)
}
