// Package config handles configuration for the dev server: defaults, a
// JSON overlay and command-line flags.
package config

import "time"

// Config holds runtime settings for the dev server.
//
// SecretKey signs the login tokens. FixturesFile, when set, replaces the
// built-in directory with a JSON array of users.
type Config struct {
	EndpointAddr string
	APIKey       string
	SecretKey    string
	TokenTTL     time.Duration
	PerPage      int
	FixturesFile string
	LogLevel     string
}

// LoadDefaults populates Config with development defaults.
func (c *Config) LoadDefaults() {
	c.EndpointAddr = ":8080"
	c.APIKey = "reqres-free-v1"
	c.SecretKey = "secretKey"
	c.TokenTTL = time.Hour
	c.PerPage = 6
	c.LogLevel = "info"
}

// LoadConfig builds a Config by applying defaults, then the JSON file named
// by -c/-config, then flags.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}
