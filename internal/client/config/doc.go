// Package config loads runtime configuration for the userdir CLI.
//
// Sources, lowest precedence first:
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. A JSON file selected with -c or -config.
//  3. USERDIR_* environment variables.
//  4. Command-line flags.
//
// Example file:
//
//	{
//	  "api_base_url": "http://127.0.0.1:8080",
//	  "database_dsn": "/var/lib/userdir/userdir.db",
//	  "request_timeout": "5s",
//	  "recent_window": "168h",
//	  "s3_bucket": "avatars",
//	  "s3_endpoint": "http://127.0.0.1:9000"
//	}
package config
