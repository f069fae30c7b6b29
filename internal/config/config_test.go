package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(viper.New())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Check.TargetsFile != "urls.txt" {
		t.Errorf("Check.TargetsFile = %v, want urls.txt", cfg.Check.TargetsFile)
	}
	if cfg.Check.Timeout != 10*time.Second {
		t.Errorf("Check.Timeout = %v, want 10s", cfg.Check.Timeout)
	}
	if cfg.Check.Concurrency != 10 {
		t.Errorf("Check.Concurrency = %v, want 10", cfg.Check.Concurrency)
	}
	if cfg.Check.Retries != 0 {
		t.Errorf("Check.Retries = %v, want 0", cfg.Check.Retries)
	}
	if cfg.Check.RetryInterval != 500*time.Millisecond {
		t.Errorf("Check.RetryInterval = %v, want 500ms", cfg.Check.RetryInterval)
	}
	if cfg.Output.Format != "console" {
		t.Errorf("Output.Format = %v, want console", cfg.Output.Format)
	}
	if !cfg.Output.Color {
		t.Error("Output.Color = false, want true")
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %v, want info", cfg.LogLevel)
	}
	if cfg.Watch.Interval != time.Hour {
		t.Errorf("Watch.Interval = %v, want 1h", cfg.Watch.Interval)
	}
	if cfg.Webhook.Timeout != 10*time.Second {
		t.Errorf("Webhook.Timeout = %v, want 10s", cfg.Webhook.Timeout)
	}
	if cfg.Webhook.Retries != 3 {
		t.Errorf("Webhook.Retries = %v, want 3", cfg.Webhook.Retries)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() on defaults error = %v", err)
	}
}

func TestLoad_CustomValues(t *testing.T) {
	v := viper.New()
	v.Set("check.targets_file", "/etc/cw-expiry/hosts.txt")
	v.Set("check.targets", []string{"example.com", "api.example.com:8443"})
	v.Set("check.timeout", "30s")
	v.Set("check.concurrency", 25)
	v.Set("check.retries", 2)
	v.Set("check.ca_file", "/etc/ssl/private-ca.pem")
	v.Set("output.format", "JSON")
	v.Set("output.color", false)
	v.Set("log_level", "DEBUG")
	v.Set("metrics.addr", ":9402")
	v.Set("metrics.textfile", "/var/lib/node_exporter/cw_expiry.prom")
	v.Set("watch.interval", "15m")

	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Check.TargetsFile != "/etc/cw-expiry/hosts.txt" {
		t.Errorf("Check.TargetsFile = %v", cfg.Check.TargetsFile)
	}
	if len(cfg.Check.Targets) != 2 {
		t.Errorf("len(Check.Targets) = %d, want 2", len(cfg.Check.Targets))
	}
	if cfg.Check.Timeout != 30*time.Second {
		t.Errorf("Check.Timeout = %v, want 30s", cfg.Check.Timeout)
	}
	if cfg.Check.Concurrency != 25 {
		t.Errorf("Check.Concurrency = %v, want 25", cfg.Check.Concurrency)
	}
	if cfg.Check.Retries != 2 {
		t.Errorf("Check.Retries = %v, want 2", cfg.Check.Retries)
	}
	if cfg.Check.CAFile != "/etc/ssl/private-ca.pem" {
		t.Errorf("Check.CAFile = %v", cfg.Check.CAFile)
	}
	if cfg.Output.Format != "json" {
		t.Errorf("Output.Format = %v, want json", cfg.Output.Format)
	}
	if cfg.Output.Color {
		t.Error("Output.Color = true, want false")
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %v, want debug", cfg.LogLevel)
	}
	if cfg.Metrics.Addr != ":9402" {
		t.Errorf("Metrics.Addr = %v, want :9402", cfg.Metrics.Addr)
	}
	if cfg.Watch.Interval != 15*time.Minute {
		t.Errorf("Watch.Interval = %v, want 15m", cfg.Watch.Interval)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cw-expiry.yaml")
	content := `check:
  targets:
    - example.com
  concurrency: 4
  timeout: 3s
output:
  format: log
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		t.Fatalf("ReadInConfig() error = %v", err)
	}

	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Check.Concurrency != 4 {
		t.Errorf("Check.Concurrency = %v, want 4", cfg.Check.Concurrency)
	}
	if cfg.Check.Timeout != 3*time.Second {
		t.Errorf("Check.Timeout = %v, want 3s", cfg.Check.Timeout)
	}
	if cfg.Output.Format != "log" {
		t.Errorf("Output.Format = %v, want log", cfg.Output.Format)
	}
	// Unset keys keep their defaults.
	if cfg.Check.TargetsFile != DefaultTargetsFile {
		t.Errorf("Check.TargetsFile = %v, want %v", cfg.Check.TargetsFile, DefaultTargetsFile)
	}
}

func validConfig() *Config {
	return &Config{
		Check: CheckConfig{
			TargetsFile:   "urls.txt",
			Timeout:       10 * time.Second,
			RetryInterval: 500 * time.Millisecond,
			Concurrency:   10,
		},
		Output:   OutputConfig{Format: "console", Color: true},
		LogLevel: "info",
		Watch:    WatchConfig{Interval: time.Hour},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"no targets", func(c *Config) { c.Check.TargetsFile = "" }, "targets_file or targets is required"},
		{"inline targets only", func(c *Config) { c.Check.TargetsFile = ""; c.Check.Targets = []string{"example.com"} }, ""},
		{"blank inline target", func(c *Config) { c.Check.Targets = []string{"  "} }, "must not be blank"},
		{"timeout too short", func(c *Config) { c.Check.Timeout = 500 * time.Millisecond }, "timeout"},
		{"timeout too long", func(c *Config) { c.Check.Timeout = 10 * time.Minute }, "timeout"},
		{"concurrency zero", func(c *Config) { c.Check.Concurrency = 0 }, "concurrency"},
		{"concurrency too high", func(c *Config) { c.Check.Concurrency = 101 }, "concurrency"},
		{"negative retries", func(c *Config) { c.Check.Retries = -1 }, "retries"},
		{"too many retries", func(c *Config) { c.Check.Retries = 6 }, "retries"},
		{"retry interval too short", func(c *Config) { c.Check.Retries = 1; c.Check.RetryInterval = time.Millisecond }, "retry_interval"},
		{"bad format", func(c *Config) { c.Output.Format = "xml" }, "format"},
		{"bad log level", func(c *Config) { c.LogLevel = "trace" }, "log_level"},
		{"bad metrics addr", func(c *Config) { c.Metrics.Addr = "9402" }, "metrics"},
		{"good metrics addr", func(c *Config) { c.Metrics.Addr = "127.0.0.1:9402" }, ""},
		{"watch interval too short", func(c *Config) { c.Watch.Interval = time.Second }, "watch"},
		{"webhook", func(c *Config) { c.Webhook = WebhookConfig{URL: "https://hooks.example.com/cw", Timeout: 10 * time.Second, Retries: 3} }, ""},
		{"webhook bad scheme", func(c *Config) { c.Webhook = WebhookConfig{URL: "ftp://hooks.example.com", Timeout: 10 * time.Second} }, "webhook"},
		{"webhook missing host", func(c *Config) { c.Webhook = WebhookConfig{URL: "https://", Timeout: 10 * time.Second} }, "host"},
		{"webhook timeout", func(c *Config) { c.Webhook = WebhookConfig{URL: "https://hooks.example.com", Timeout: 0} }, "timeout"},
		{"webhook retries", func(c *Config) { c.Webhook = WebhookConfig{URL: "https://hooks.example.com", Timeout: time.Second, Retries: 11} }, "retries"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.modify(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() error = nil, want %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}
