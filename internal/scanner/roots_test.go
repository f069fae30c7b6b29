package scanner

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/certwatch-app/cw-expiry/internal/testutil"
)

func TestLoadRootCAs(t *testing.T) {
	ca := testutil.NewCA(t)
	srv := testutil.NewServer(t, ca.Issue(t, time.Now().Add(-time.Hour), time.Now().Add(90*24*time.Hour)))

	pool, err := LoadRootCAs(ca.WritePEM(t))
	if err != nil {
		t.Fatalf("LoadRootCAs() error = %v", err)
	}

	s := New(5*time.Second, zap.NewNop(), WithRootCAs(pool))
	if _, err := s.Fetch(context.Background(), srv.URL); err != nil {
		t.Errorf("Fetch() with loaded roots error = %v", err)
	}
}

func TestLoadRootCAs_Errors(t *testing.T) {
	dir := t.TempDir()
	notPEM := filepath.Join(dir, "not.pem")
	if err := os.WriteFile(notPEM, []byte("hello"), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	tests := []struct {
		name string
		path string
	}{
		{"missing file", filepath.Join(dir, "missing.pem")},
		{"no certificates", notPEM},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadRootCAs(tt.path); err == nil {
				t.Errorf("LoadRootCAs(%q) error = nil, want error", tt.path)
			}
		})
	}
}
