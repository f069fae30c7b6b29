package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/certwatch-app/cw-expiry/internal/testutil"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cw-expiry.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestValidateCommand(t *testing.T) {
	path := writeConfig(t, `check:
  targets_file: ""
  targets:
    - example.com
    - api.example.com:8443
  concurrency: 5
watch:
  interval: 30m
`)

	out, _, err := execute(t, "validate", "-c", path)
	if err != nil {
		t.Fatalf("validate error = %v", err)
	}

	for _, want := range []string{"Configuration is valid!", "Inline targets: 2", "Concurrency:    5", "Watch interval: 30m0s"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestValidateCommand_Invalid(t *testing.T) {
	path := writeConfig(t, `check:
  targets:
    - example.com
  concurrency: 500
`)

	if _, _, err := execute(t, "validate", "-c", path); err == nil {
		t.Error("validate error = nil, want error for concurrency 500")
	}
}

func TestValidateCommand_MissingConfigFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.yaml")

	_, _, err := execute(t, "validate", "-c", missing)
	if err == nil || !strings.Contains(err.Error(), "failed to read config file") {
		t.Errorf("validate error = %v, want config file error", err)
	}
}

func TestCheckCommand(t *testing.T) {
	ca := testutil.NewCA(t)
	valid := testutil.NewServer(t, ca.Issue(t, time.Now().Add(-time.Hour), time.Now().Add(90*24*time.Hour)))
	soon := testutil.NewServer(t, ca.Issue(t, time.Now().Add(-time.Hour), time.Now().Add(12*time.Hour)))

	path := writeConfig(t, `check:
  targets_file: ""
output:
  format: json
log_level: error
`)
	caFile := ca.WritePEM(t)

	t.Run("reports every target", func(t *testing.T) {
		out, _, err := execute(t, "check", "-c", path, "--ca-file", caFile, valid.URL, soon.URL)
		if err != nil {
			t.Fatalf("check error = %v", err)
		}

		lines := strings.Split(strings.TrimSpace(out), "\n")
		if len(lines) != 2 {
			t.Fatalf("got %d lines, want 2:\n%s", len(lines), out)
		}
		if !strings.Contains(lines[0], `"tag":"valid"`) {
			t.Errorf("line 0 = %s, want tag valid", lines[0])
		}
		if !strings.Contains(lines[1], `"tag":"critical"`) {
			t.Errorf("line 1 = %s, want tag critical", lines[1])
		}
	})

	t.Run("strict fails on unhealthy batch", func(t *testing.T) {
		_, _, err := execute(t, "check", "-c", path, "--ca-file", caFile, "--strict", valid.URL, soon.URL)
		if !errors.Is(err, errUnhealthy) {
			t.Errorf("check --strict error = %v, want %v", err, errUnhealthy)
		}
	})

	t.Run("strict passes on healthy batch", func(t *testing.T) {
		_, _, err := execute(t, "check", "-c", path, "--ca-file", caFile, "--strict", valid.URL)
		if err != nil {
			t.Errorf("check --strict error = %v, want nil", err)
		}
	})
}

func TestVersionCommand(t *testing.T) {
	out, _, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version error = %v", err)
	}
	if !strings.HasPrefix(out, "cw-expiry ") {
		t.Errorf("output = %q, want cw-expiry prefix", out)
	}
}
