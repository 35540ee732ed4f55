package config

import (
	"flag"
	"fmt"
	"io"

	"github.com/dmitrijs2005/authkeeper/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags:
//
//	-a string     auth API base URL
//	-p string     platform: native or web
//	-d string     SQLite database path
//	-k string     keyring service name
//	-K string     device key file
//	-t duration   request timeout, e.g. 5s
//	-l string     log level
//	-f string     log format: text or json
//
// Only these flags are picked out of args, so -c/-config and anything else
// on the command line are left alone.
func parseFlags(cfg *Config, args []string) error {
	picked := flagx.Pick(args, "-a", "-p", "-d", "-k", "-K", "-t", "-l", "-f")

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "auth API base URL")
	fs.StringVar(&cfg.Platform, "p", cfg.Platform, "platform: native or web")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "SQLite database path")
	fs.StringVar(&cfg.KeyringService, "k", cfg.KeyringService, "keyring service name")
	fs.StringVar(&cfg.DeviceKeyFile, "K", cfg.DeviceKeyFile, "device key file")
	fs.DurationVar(&cfg.RequestTimeout, "t", cfg.RequestTimeout, "request timeout")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.LogFormat, "f", cfg.LogFormat, "log format: text or json")

	if err := fs.Parse(picked); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}
	return nil
}
