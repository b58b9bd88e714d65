package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/userdir/internal/flagx"
	"github.com/dmitrijs2005/userdir/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. Durations
// accept "10s" style strings or integer nanoseconds. Absent keys leave the
// current value untouched.
type JsonConfig struct {
	APIBaseURL      *string         `json:"api_base_url"`
	APIKey          *string         `json:"api_key"`
	RequestTimeout  *timex.Duration `json:"request_timeout"`
	DatabaseDSN     *string         `json:"database_dsn"`
	SessionSecret   *string         `json:"session_secret"`
	SessionTTL      *timex.Duration `json:"session_ttl"`
	S3Endpoint      *string         `json:"s3_endpoint"`
	S3Region        *string         `json:"s3_region"`
	S3Bucket        *string         `json:"s3_bucket"`
	S3AccessKey     *string         `json:"s3_access_key"`
	S3SecretKey     *string         `json:"s3_secret_key"`
	S3PublicBaseURL *string         `json:"s3_public_base_url"`
	ServiceEmail    *string         `json:"service_email"`
	ServicePassword *string         `json:"service_password"`
	RecentWindow    *timex.Duration `json:"recent_window"`
	LogLevel        *string         `json:"log_level"`
	LogFormat       *string         `json:"log_format"`
}

// parseJson overlays cfg with the file named by -c/-config in args, if any.
func parseJson(cfg *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setString(&cfg.APIBaseURL, jc.APIBaseURL)
	setString(&cfg.APIKey, jc.APIKey)
	setDuration(&cfg.RequestTimeout, jc.RequestTimeout)
	setString(&cfg.DatabaseDSN, jc.DatabaseDSN)
	setString(&cfg.SessionSecret, jc.SessionSecret)
	setDuration(&cfg.SessionTTL, jc.SessionTTL)
	setString(&cfg.S3Endpoint, jc.S3Endpoint)
	setString(&cfg.S3Region, jc.S3Region)
	setString(&cfg.S3Bucket, jc.S3Bucket)
	setString(&cfg.S3AccessKey, jc.S3AccessKey)
	setString(&cfg.S3SecretKey, jc.S3SecretKey)
	setString(&cfg.S3PublicBaseURL, jc.S3PublicBaseURL)
	setString(&cfg.ServiceEmail, jc.ServiceEmail)
	setString(&cfg.ServicePassword, jc.ServicePassword)
	setDuration(&cfg.RecentWindow, jc.RecentWindow)
	setString(&cfg.LogLevel, jc.LogLevel)
	setString(&cfg.LogFormat, jc.LogFormat)
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setDuration(dst *time.Duration, v *timex.Duration) {
	if v != nil {
		*dst = v.Duration
	}
}
