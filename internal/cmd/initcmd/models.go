// Package initcmd provides the interactive init command wizard.
package initcmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/certwatch-app/cw-expiry/internal/config"
)

// WizardState holds all collected input during the wizard.
type WizardState struct {
	// Output configuration
	ConfigPath    string
	OverwriteFile bool

	// Target configuration
	TargetsFile   string
	Targets       []string
	CurrentTarget string
	AddAnother    bool

	// Check configuration
	Timeout     string
	Concurrency string
	Retries     string
	CAFile      string

	// Output and logging
	Format   string
	Color    bool
	LogLevel string

	// Observability
	MetricsAddr   string
	WatchInterval string
}

// NewWizardState creates a new WizardState with sensible defaults.
func NewWizardState() *WizardState {
	return &WizardState{
		ConfigPath:    "./cw-expiry.yaml",
		TargetsFile:   config.DefaultTargetsFile,
		Targets:       make([]string, 0),
		Timeout:       config.DefaultTimeout.String(),
		Concurrency:   strconv.Itoa(config.DefaultConcurrency),
		Retries:       "0",
		Format:        "console",
		Color:         true,
		LogLevel:      "info",
		WatchInterval: "1h",
	}
}

// ToConfig converts the wizard state to a config.Config struct.
func (s *WizardState) ToConfig() (*config.Config, error) {
	timeout, err := time.ParseDuration(s.Timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid timeout: %w", err)
	}

	concurrency, err := strconv.Atoi(strings.TrimSpace(s.Concurrency))
	if err != nil {
		return nil, fmt.Errorf("invalid concurrency: %w", err)
	}

	retries := 0
	if r := strings.TrimSpace(s.Retries); r != "" {
		retries, err = strconv.Atoi(r)
		if err != nil {
			return nil, fmt.Errorf("invalid retries: %w", err)
		}
	}

	watchInterval, err := time.ParseDuration(s.WatchInterval)
	if err != nil {
		return nil, fmt.Errorf("invalid watch interval: %w", err)
	}

	cfg := &config.Config{
		Check: config.CheckConfig{
			TargetsFile:   strings.TrimSpace(s.TargetsFile),
			CAFile:        strings.TrimSpace(s.CAFile),
			Targets:       s.Targets,
			Timeout:       timeout,
			RetryInterval: 500 * time.Millisecond,
			Concurrency:   concurrency,
			Retries:       retries,
		},
		Output: config.OutputConfig{
			Format: s.Format,
			Color:  s.Color,
		},
		Metrics: config.MetricsConfig{
			Addr: strings.TrimSpace(s.MetricsAddr),
		},
		LogLevel: s.LogLevel,
		Watch: config.WatchConfig{
			Interval: watchInterval,
		},
	}

	return cfg, nil
}

// ParseTargetList parses comma-separated targets into a slice.
func ParseTargetList(list string) []string {
	if strings.TrimSpace(list) == "" {
		return nil
	}

	parts := strings.Split(list, ",")
	targets := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t != "" {
			targets = append(targets, t)
		}
	}
	return targets
}

// ResetCurrentTarget clears the current target input for the next entry.
func (s *WizardState) ResetCurrentTarget() {
	s.CurrentTarget = ""
	s.AddAnother = false
}

// SaveCurrentTarget saves the current target to the list.
func (s *WizardState) SaveCurrentTarget() {
	if t := strings.TrimSpace(s.CurrentTarget); t != "" {
		s.Targets = append(s.Targets, t)
	}
}
