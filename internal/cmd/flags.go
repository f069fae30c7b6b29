package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/certwatch-app/cw-expiry/internal/config"
)

// checkFlags maps flag names to config keys
var checkFlags = map[string]string{
	"file":        "check.targets_file",
	"timeout":     "check.timeout",
	"concurrency": "check.concurrency",
	"retries":     "check.retries",
	"ca-file":     "check.ca_file",
	"format":      "output.format",
	"color":       "output.color",
	"log-level":   "log_level",
}

// addCheckFlags registers the flags shared by check and watch
func addCheckFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringP("file", "f", config.DefaultTargetsFile, "file listing one target per line")
	f.Duration("timeout", config.DefaultTimeout, "connect and handshake timeout per attempt")
	f.Int("concurrency", config.DefaultConcurrency, "number of targets checked at once")
	f.Int("retries", 0, "extra attempts after a connection failure or timeout")
	f.String("ca-file", "", "PEM file with extra trusted root certificates")
	f.StringP("format", "o", "console", "output format: console, json or log")
	f.Bool("color", true, "color console output")
	f.String("log-level", "info", "log level: debug, info, warn or error")
}

// bindCheckFlags binds cmd's flags to viper. Called from PreRunE so that
// only the running command's flags are bound.
func bindCheckFlags(cmd *cobra.Command) error {
	for name, key := range checkFlags {
		if err := viper.BindPFlag(key, cmd.Flags().Lookup(name)); err != nil {
			return fmt.Errorf("failed to bind flag %s: %w", name, err)
		}
	}
	return nil
}
