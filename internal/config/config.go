// Package config handles configuration loading and validation for cw-expiry.
package config

import (
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete configuration
type Config struct {
	Check    CheckConfig   `mapstructure:"check"`
	Output   OutputConfig  `mapstructure:"output"`
	Metrics  MetricsConfig `mapstructure:"metrics"`
	Webhook  WebhookConfig `mapstructure:"webhook"`
	LogLevel string        `mapstructure:"log_level"`
	Watch    WatchConfig   `mapstructure:"watch"`
}

// CheckConfig controls how targets are checked
// Fields are ordered for optimal memory alignment
type CheckConfig struct {
	TargetsFile   string        `mapstructure:"targets_file"`
	CAFile        string        `mapstructure:"ca_file"`
	Targets       []string      `mapstructure:"targets"`
	Timeout       time.Duration `mapstructure:"timeout"`
	RetryInterval time.Duration `mapstructure:"retry_interval"`
	Concurrency   int           `mapstructure:"concurrency"`
	Retries       int           `mapstructure:"retries"`
}

// OutputConfig selects the reporter
type OutputConfig struct {
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}

// MetricsConfig controls Prometheus exposure
type MetricsConfig struct {
	Addr     string `mapstructure:"addr"`
	Textfile string `mapstructure:"textfile"`
}

// WebhookConfig controls posting batch results to an HTTP endpoint
// Fields are ordered for optimal memory alignment
type WebhookConfig struct {
	URL           string        `mapstructure:"url"`
	APIKey        string        `mapstructure:"api_key"`
	Timeout       time.Duration `mapstructure:"timeout"`
	Retries       int           `mapstructure:"retries"`
	OnlyUnhealthy bool          `mapstructure:"only_unhealthy"`
}

// WatchConfig controls the periodic mode
type WatchConfig struct {
	Interval time.Duration `mapstructure:"interval"`
}

// Defaults
const (
	DefaultTargetsFile = "urls.txt"
	DefaultTimeout     = 10 * time.Second
	DefaultConcurrency = 10
)

var (
	validLogLevels = []string{"debug", "info", "warn", "error"}
	validFormats   = []string{"console", "json", "log"}
)

// Load reads configuration from viper
func Load(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Output.Format = strings.ToLower(cfg.Output.Format)
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)

	return cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("check.targets_file", DefaultTargetsFile)
	v.SetDefault("check.timeout", DefaultTimeout.String())
	v.SetDefault("check.concurrency", DefaultConcurrency)
	v.SetDefault("check.retries", 0)
	v.SetDefault("check.retry_interval", "500ms")

	v.SetDefault("output.format", "console")
	v.SetDefault("output.color", true)

	v.SetDefault("webhook.timeout", "10s")
	v.SetDefault("webhook.retries", 3)

	v.SetDefault("log_level", "info")

	v.SetDefault("watch.interval", "1h")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.validateCheck(); err != nil {
		return fmt.Errorf("check: %w", err)
	}

	if !contains(validFormats, c.Output.Format) {
		return fmt.Errorf("output: format must be one of: %s", strings.Join(validFormats, ", "))
	}

	if !contains(validLogLevels, c.LogLevel) {
		return fmt.Errorf("log_level must be one of: %s", strings.Join(validLogLevels, ", "))
	}

	if err := c.validateMetrics(); err != nil {
		return fmt.Errorf("metrics: %w", err)
	}

	if err := c.validateWebhook(); err != nil {
		return fmt.Errorf("webhook: %w", err)
	}

	if c.Watch.Interval < 10*time.Second {
		return fmt.Errorf("watch: interval must be at least 10 seconds")
	}

	return nil
}

func (c *Config) validateCheck() error {
	if c.Check.TargetsFile == "" && len(c.Check.Targets) == 0 {
		return fmt.Errorf("targets_file or targets is required")
	}

	if c.Check.Timeout < time.Second || c.Check.Timeout > 5*time.Minute {
		return fmt.Errorf("timeout must be between 1s and 5m")
	}

	if c.Check.Concurrency < 1 || c.Check.Concurrency > 100 {
		return fmt.Errorf("concurrency must be between 1 and 100")
	}

	if c.Check.Retries < 0 || c.Check.Retries > 5 {
		return fmt.Errorf("retries must be between 0 and 5")
	}

	if c.Check.Retries > 0 && c.Check.RetryInterval < 10*time.Millisecond {
		return fmt.Errorf("retry_interval must be at least 10ms")
	}

	for i, t := range c.Check.Targets {
		if strings.TrimSpace(t) == "" {
			return fmt.Errorf("targets[%d]: must not be blank", i)
		}
	}

	return nil
}

func (c *Config) validateMetrics() error {
	if c.Metrics.Addr == "" {
		return nil
	}

	if _, _, err := net.SplitHostPort(c.Metrics.Addr); err != nil {
		return fmt.Errorf("invalid addr %q: %w", c.Metrics.Addr, err)
	}

	return nil
}

func (c *Config) validateWebhook() error {
	if c.Webhook.URL == "" {
		return nil
	}

	u, err := url.Parse(c.Webhook.URL)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		return fmt.Errorf("url must use http or https")
	}
	if u.Host == "" {
		return fmt.Errorf("url must include a host")
	}

	if c.Webhook.Timeout < time.Second || c.Webhook.Timeout > time.Minute {
		return fmt.Errorf("timeout must be between 1s and 1m")
	}

	if c.Webhook.Retries < 0 || c.Webhook.Retries > 10 {
		return fmt.Errorf("retries must be between 0 and 10")
	}

	return nil
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
