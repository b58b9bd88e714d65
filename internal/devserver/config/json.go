package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/userdir/internal/flagx"
	"github.com/dmitrijs2005/userdir/internal/timex"
)

// JsonConfig is the on-disk shape of the dev server configuration.
type JsonConfig struct {
	EndpointAddr string         `json:"endpoint_addr"`
	APIKey       *string        `json:"api_key"`
	SecretKey    string         `json:"secret_key"`
	TokenTTL     timex.Duration `json:"token_ttl"`
	PerPage      int            `json:"per_page"`
	FixturesFile string         `json:"fixtures_file"`
	LogLevel     string         `json:"log_level"`
}

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

	if jc.EndpointAddr != "" {
		cfg.EndpointAddr = jc.EndpointAddr
	}
	// an explicit "" turns the key check off
	if jc.APIKey != nil {
		cfg.APIKey = *jc.APIKey
	}
	if jc.SecretKey != "" {
		cfg.SecretKey = jc.SecretKey
	}
	if jc.TokenTTL.Duration != 0 {
		cfg.TokenTTL = jc.TokenTTL.Duration
	}
	if jc.PerPage > 0 {
		cfg.PerPage = jc.PerPage
	}
	if jc.FixturesFile != "" {
		cfg.FixturesFile = jc.FixturesFile
	}
	if jc.LogLevel != "" {
		cfg.LogLevel = jc.LogLevel
	}
	return nil
}
