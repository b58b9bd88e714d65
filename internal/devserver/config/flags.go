package config

import (
	"flag"
	"fmt"
	"io"

	"github.com/dmitrijs2005/userdir/internal/flagx"
)

// parseFlags overlays cfg with:
//
//	-a string     listen address (e.g. ":8080")
//	-k string     required x-api-key value, "" disables the check
//	-s string     token signing secret
//	-t duration   token lifetime
//	-p int        users per page
//	-f string     JSON fixtures file
//	-l string     log level
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-k", "-s", "-t", "-p", "-f", "-l"})

	fs := flag.NewFlagSet("devserver", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.EndpointAddr, "a", cfg.EndpointAddr, "address and port to run server")
	fs.StringVar(&cfg.APIKey, "k", cfg.APIKey, "required API key")
	fs.StringVar(&cfg.SecretKey, "s", cfg.SecretKey, "secret key")
	fs.DurationVar(&cfg.TokenTTL, "t", cfg.TokenTTL, "token lifetime")
	fs.IntVar(&cfg.PerPage, "p", cfg.PerPage, "users per page")
	fs.StringVar(&cfg.FixturesFile, "f", cfg.FixturesFile, "fixtures file")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}
	return nil
}
