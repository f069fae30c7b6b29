package initcmd

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/certwatch-app/cw-expiry/internal/scanner"
	"github.com/certwatch-app/cw-expiry/internal/target"
)

// ValidateConfigPath validates the output file path.
func ValidateConfigPath(path string) error {
	if path == "" {
		return fmt.Errorf("config path is required")
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
	default:
		return fmt.Errorf("config file must end in .yaml or .yml")
	}

	// Check if directory exists or can be created
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		info, err := os.Stat(dir)
		if err != nil {
			if os.IsNotExist(err) {
				return nil // We'll create it during write
			}
			return fmt.Errorf("cannot access directory: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("'%s' is not a directory", dir)
		}
	}

	return nil
}

// ValidateTarget validates a host, host:port or https URL.
func ValidateTarget(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fmt.Errorf("target is required")
	}

	if strings.ContainsAny(raw, " \t") {
		return fmt.Errorf("target cannot contain spaces")
	}

	if strings.Contains(raw, "://") && !strings.HasPrefix(raw, target.Scheme) {
		return fmt.Errorf("only https targets are supported")
	}

	if _, _, err := scanner.ParseEndpoint(target.Normalize(raw)); err != nil {
		return err
	}

	return nil
}

// ValidateOptionalTarget accepts an empty entry so the loop can end.
func ValidateOptionalTarget(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	return ValidateTarget(raw)
}

// ValidateTargetList validates a comma-separated list of targets.
func ValidateTargetList(list string) error {
	for _, t := range ParseTargetList(list) {
		if err := ValidateTarget(t); err != nil {
			return fmt.Errorf("%s: %w", t, err)
		}
	}
	return nil
}

// ValidateOptionalFile checks that path, when set, is a readable regular file.
func ValidateOptionalFile(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot access file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("'%s' is a directory", path)
	}

	return nil
}

// ValidateTimeout validates the per-attempt timeout.
func ValidateTimeout(s string) error {
	d, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("timeout must be a duration like 10s")
	}

	if d < time.Second || d > 5*time.Minute {
		return fmt.Errorf("timeout must be between 1s and 5m")
	}

	return nil
}

// ValidateConcurrency validates the worker pool size.
func ValidateConcurrency(s string) error {
	return validateIntRange("concurrency", s, 1, 100)
}

// ValidateRetries validates the retry count.
func ValidateRetries(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil // Will use default 0
	}
	return validateIntRange("retries", s, 0, 5)
}

// ValidateListenAddr validates a host:port listen address.
func ValidateListenAddr(addr string) error {
	if addr == "" {
		return nil // Metrics disabled
	}

	_, port, err := net.SplitHostPort(addr)
	if err != nil {
		return fmt.Errorf("address must be host:port (e.g., :9402)")
	}

	return validateIntRange("port", port, 1, 65535)
}

func validateIntRange(name, s string, lo, hi int) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("%s must be a number", name)
	}

	if n < lo || n > hi {
		return fmt.Errorf("%s must be between %d and %d", name, lo, hi)
	}

	return nil
}
