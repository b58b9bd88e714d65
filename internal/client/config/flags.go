package config

import (
	"flag"
	"fmt"
	"io"

	"github.com/dmitrijs2005/userdir/internal/flagx"
)

var knownFlags = []string{"-a", "-k", "-d", "-t", "-l", "-b", "-e"}

// parseFlags overlays cfg with the command-line flags it knows about.
//
//	-a string     base URL of the remote user service
//	-k string     API key sent in the x-api-key header
//	-d string     SQLite DSN for the local snapshot database
//	-t duration   remote request timeout
//	-l string     log level (debug, info, warn, error)
//	-b string     S3 bucket for avatar uploads
//	-e string     S3 endpoint (MinIO and friends)
//
// Other arguments are filtered out with flagx.FilterArgs first.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, knownFlags)

	fs := flag.NewFlagSet("userdir", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "base URL of the remote user service")
	fs.StringVar(&cfg.APIKey, "k", cfg.APIKey, "API key for the remote user service")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "SQLite DSN")
	fs.DurationVar(&cfg.RequestTimeout, "t", cfg.RequestTimeout, "remote request timeout")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.S3Bucket, "b", cfg.S3Bucket, "S3 bucket for avatars")
	fs.StringVar(&cfg.S3Endpoint, "e", cfg.S3Endpoint, "S3 endpoint")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}
	return nil
}
