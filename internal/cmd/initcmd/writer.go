package initcmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/certwatch-app/cw-expiry/internal/config"
)

// WriteConfig writes cfg to path as YAML, creating parent directories.
func WriteConfig(cfg *config.Config, path string) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	v := viper.New()
	v.Set("check.targets_file", cfg.Check.TargetsFile)
	if len(cfg.Check.Targets) > 0 {
		v.Set("check.targets", cfg.Check.Targets)
	}
	if cfg.Check.CAFile != "" {
		v.Set("check.ca_file", cfg.Check.CAFile)
	}
	v.Set("check.timeout", cfg.Check.Timeout.String())
	v.Set("check.concurrency", cfg.Check.Concurrency)
	v.Set("check.retries", cfg.Check.Retries)

	v.Set("output.format", cfg.Output.Format)
	v.Set("output.color", cfg.Output.Color)
	v.Set("log_level", cfg.LogLevel)

	if cfg.Metrics.Addr != "" {
		v.Set("metrics.addr", cfg.Metrics.Addr)
	}
	v.Set("watch.interval", cfg.Watch.Interval.String())

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// FileExists reports whether path exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
