package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// envConfig lists the environment variables the CLI reads. Unset or empty
// variables leave the current value untouched.
type envConfig struct {
	APIBaseURL      string        `env:"USERDIR_API_BASE_URL"`
	APIKey          string        `env:"USERDIR_API_KEY"`
	RequestTimeout  time.Duration `env:"USERDIR_REQUEST_TIMEOUT"`
	DatabaseDSN     string        `env:"USERDIR_DATABASE_DSN"`
	SessionSecret   string        `env:"USERDIR_SESSION_SECRET"`
	SessionTTL      time.Duration `env:"USERDIR_SESSION_TTL"`
	S3Endpoint      string        `env:"USERDIR_S3_ENDPOINT"`
	S3Region        string        `env:"USERDIR_S3_REGION"`
	S3Bucket        string        `env:"USERDIR_S3_BUCKET"`
	S3AccessKey     string        `env:"USERDIR_S3_ACCESS_KEY"`
	S3SecretKey     string        `env:"USERDIR_S3_SECRET_KEY"`
	S3PublicBaseURL string        `env:"USERDIR_S3_PUBLIC_BASE_URL"`
	ServiceEmail    string        `env:"USERDIR_SERVICE_EMAIL"`
	ServicePassword string        `env:"USERDIR_SERVICE_PASSWORD"`
	RecentWindow    time.Duration `env:"USERDIR_RECENT_WINDOW"`
	LogLevel        string        `env:"USERDIR_LOG_LEVEL"`
	LogFormat       string        `env:"USERDIR_LOG_FORMAT"`
}

// parseEnv overlays cfg with environment variables. A nil lookuper reads the
// process environment.
func parseEnv(ctx context.Context, cfg *Config, l envconfig.Lookuper) error {
	if l == nil {
		l = envconfig.OsLookuper()
	}

	var ec envConfig
	if err := envconfig.ProcessWith(ctx, &ec, l); err != nil {
		return fmt.Errorf("parsing env vars: %w", err)
	}

	overlay := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	overlayDur := func(dst *time.Duration, v time.Duration) {
		if v != 0 {
			*dst = v
		}
	}

	overlay(&cfg.APIBaseURL, ec.APIBaseURL)
	overlay(&cfg.APIKey, ec.APIKey)
	overlayDur(&cfg.RequestTimeout, ec.RequestTimeout)
	overlay(&cfg.DatabaseDSN, ec.DatabaseDSN)
	overlay(&cfg.SessionSecret, ec.SessionSecret)
	overlayDur(&cfg.SessionTTL, ec.SessionTTL)
	overlay(&cfg.S3Endpoint, ec.S3Endpoint)
	overlay(&cfg.S3Region, ec.S3Region)
	overlay(&cfg.S3Bucket, ec.S3Bucket)
	overlay(&cfg.S3AccessKey, ec.S3AccessKey)
	overlay(&cfg.S3SecretKey, ec.S3SecretKey)
	overlay(&cfg.S3PublicBaseURL, ec.S3PublicBaseURL)
	overlay(&cfg.ServiceEmail, ec.ServiceEmail)
	overlay(&cfg.ServicePassword, ec.ServicePassword)
	overlayDur(&cfg.RecentWindow, ec.RecentWindow)
	overlay(&cfg.LogLevel, ec.LogLevel)
	overlay(&cfg.LogFormat, ec.LogFormat)
	return nil
}
