package config

import (
	"context"
	"time"
)

// Config holds runtime settings for the userdir CLI.
type Config struct {
	// Remote user service.
	APIBaseURL     string
	APIKey         string
	RequestTimeout time.Duration

	// Local SQLite database holding the snapshots.
	DatabaseDSN string

	// Session marker signing. An empty secret means a generated one is
	// kept in the database.
	SessionSecret string
	SessionTTL    time.Duration

	// S3-compatible bucket for avatar uploads. Uploads are disabled while
	// S3Bucket is empty.
	S3Endpoint      string
	S3Region        string
	S3Bucket        string
	S3AccessKey     string
	S3SecretKey     string
	S3PublicBaseURL string

	// Credentials used by the "login-service" command.
	ServiceEmail    string
	ServicePassword string

	// Locally created records younger than this are listed by the "recent" filter.
	RecentWindow time.Duration

	LogLevel  string
	LogFormat string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "https://reqres.in"
	c.APIKey = "reqres-free-v1"
	c.RequestTimeout = 10 * time.Second
	c.DatabaseDSN = "userdir.db"
	c.SessionTTL = 0
	c.S3Region = "us-east-1"
	c.ServiceEmail = "eve.holt@reqres.in"
	c.ServicePassword = "cityslicka"
	c.RecentWindow = 7 * 24 * time.Hour
	c.LogLevel = "info"
	c.LogFormat = "text"
}

// S3Enabled reports whether avatar uploads are configured.
func (c *Config) S3Enabled() bool {
	return c.S3Bucket != ""
}

// LoadConfig builds a Config from defaults, then the JSON file named by
// -c/-config, then USERDIR_* environment variables, then flags. Later
// sources take precedence over earlier ones.
func LoadConfig(ctx context.Context, args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseEnv(ctx, cfg, nil); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}
