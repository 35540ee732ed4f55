// Package config loads runtime configuration for the authkeeper client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config.
//  3. AUTHKEEPER_* environment variables, optionally from a .env file.
//  4. Command-line flags, which override everything else.
//
// # JSON schema
//
// The JSON loader uses timex.Duration for the timeout, so it can be either a
// string like "3s" or integer nanoseconds:
//
//	{
//	  "server_url": "http://127.0.0.1:8080",
//	  "platform": "native",
//	  "database_path": "/home/me/.config/authkeeper/authkeeper.db",
//	  "request_timeout": "5s",
//	  "log_level": "debug"
//	}
package config
