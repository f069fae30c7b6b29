package scanner

import (
	"context"
	"crypto/x509"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/certwatch-app/cw-expiry/internal/testutil"
)

func TestParseEndpoint(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantHost string
		wantPort string
		wantErr  bool
	}{
		{"default port", "https://example.com", "example.com", "443", false},
		{"explicit port", "https://example.com:8443", "example.com", "8443", false},
		{"with path", "https://example.com/status", "example.com", "443", false},
		{"ipv6", "https://[::1]:9443", "::1", "9443", false},
		{"missing host", "https://", "", "", true},
		{"unknown scheme", "ftp://example.com", "", "", true},
		{"non numeric port", "https://example.com:abc", "", "", true},
		{"port out of range", "https://example.com:70000", "", "", true},
		{"garbage", "https://exa mple.com", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host, port, err := ParseEndpoint(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseEndpoint(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if tt.wantErr {
				if KindOf(err) != KindTargetInvalid {
					t.Errorf("KindOf() = %v, want %v", KindOf(err), KindTargetInvalid)
				}
				return
			}
			if host != tt.wantHost {
				t.Errorf("host = %q, want %q", host, tt.wantHost)
			}
			if port != tt.wantPort {
				t.Errorf("port = %q, want %q", port, tt.wantPort)
			}
		})
	}
}

func TestFetch_Success(t *testing.T) {
	ca := testutil.NewCA(t)
	notAfter := time.Now().Add(30 * 24 * time.Hour).Truncate(time.Second).UTC()
	srv := testutil.NewServer(t, ca.Issue(t, time.Now().Add(-time.Hour), notAfter))

	s := New(5*time.Second, zap.NewNop(), WithRootCAs(ca.Pool()))
	res, err := s.Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	if !res.NotAfter.Equal(notAfter) {
		t.Errorf("NotAfter = %v, want %v", res.NotAfter, notAfter)
	}
	if res.NotAfter.Location() != time.UTC {
		t.Errorf("NotAfter location = %v, want UTC", res.NotAfter.Location())
	}
	if res.Subject != "localhost" {
		t.Errorf("Subject = %q, want localhost", res.Subject)
	}
	if res.Attempts != 1 {
		t.Errorf("Attempts = %d, want 1", res.Attempts)
	}
}

func TestFetch_ExpiredCertificate(t *testing.T) {
	ca := testutil.NewCA(t)
	srv := testutil.NewServer(t, ca.Issue(t, time.Now().Add(-48*time.Hour), time.Now().Add(-time.Hour)))

	s := New(5*time.Second, zap.NewNop(), WithRootCAs(ca.Pool()))
	_, err := s.Fetch(context.Background(), srv.URL)
	if err == nil {
		t.Fatal("Fetch() expected error for expired certificate")
	}

	if KindOf(err) != KindHandshakeFailed {
		t.Errorf("KindOf() = %v, want %v", KindOf(err), KindHandshakeFailed)
	}
	if !IsExpiredCertificate(err) {
		t.Errorf("IsExpiredCertificate() = false, want true (err = %v)", err)
	}
}

func TestFetch_UnknownAuthority(t *testing.T) {
	ca := testutil.NewCA(t)
	srv := testutil.NewServer(t, ca.Issue(t, time.Now().Add(-time.Hour), time.Now().Add(24*time.Hour*90)))

	// Empty pool: the server's CA is unknown.
	s := New(5*time.Second, zap.NewNop(), WithRootCAs(x509.NewCertPool()))
	_, err := s.Fetch(context.Background(), srv.URL)
	if err == nil {
		t.Fatal("Fetch() expected error for unknown authority")
	}

	if KindOf(err) != KindHandshakeFailed {
		t.Errorf("KindOf() = %v, want %v", KindOf(err), KindHandshakeFailed)
	}
	if IsExpiredCertificate(err) {
		t.Errorf("IsExpiredCertificate() = true, want false (err = %v)", err)
	}
}

func TestFetch_NotYetValidIsNotExpired(t *testing.T) {
	ca := testutil.NewCA(t)
	srv := testutil.NewServer(t, ca.Issue(t, time.Now().Add(24*time.Hour), time.Now().Add(48*time.Hour)))

	s := New(5*time.Second, zap.NewNop(), WithRootCAs(ca.Pool()))
	_, err := s.Fetch(context.Background(), srv.URL)

	if KindOf(err) != KindHandshakeFailed {
		t.Fatalf("KindOf() = %v, want %v", KindOf(err), KindHandshakeFailed)
	}
	if IsExpiredCertificate(err) {
		t.Error("a not-yet-valid certificate should not be reported as expired")
	}
}

func TestFetch_ConnectFailed(t *testing.T) {
	s := New(5*time.Second, zap.NewNop())
	res, err := s.Fetch(context.Background(), "https://"+testutil.ClosedAddr(t))

	if KindOf(err) != KindConnectFailed {
		t.Fatalf("KindOf() = %v, want %v (err = %v)", KindOf(err), KindConnectFailed, err)
	}
	if res.Attempts != 1 {
		t.Errorf("Attempts = %d, want 1", res.Attempts)
	}
}

func TestFetch_Timeout(t *testing.T) {
	s := New(200*time.Millisecond, zap.NewNop())

	start := time.Now()
	_, err := s.Fetch(context.Background(), "https://"+testutil.SilentAddr(t))

	if KindOf(err) != KindTimeout {
		t.Fatalf("KindOf() = %v, want %v (err = %v)", KindOf(err), KindTimeout, err)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("Fetch() took %v, expected it to be bounded by the timeout", elapsed)
	}
}

func TestFetch_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := New(5*time.Second, zap.NewNop(), WithRetries(3, time.Millisecond))
	res, err := s.Fetch(ctx, "https://"+testutil.SilentAddr(t))

	if KindOf(err) != KindCanceled {
		t.Fatalf("KindOf() = %v, want %v (err = %v)", KindOf(err), KindCanceled, err)
	}
	if res.Attempts != 1 {
		t.Errorf("Attempts = %d, want 1", res.Attempts)
	}
}

func TestFetch_RetriesTransientFailures(t *testing.T) {
	s := New(time.Second, zap.NewNop(), WithRetries(2, time.Millisecond))
	res, err := s.Fetch(context.Background(), "https://"+testutil.ClosedAddr(t))

	if KindOf(err) != KindConnectFailed {
		t.Fatalf("KindOf() = %v, want %v", KindOf(err), KindConnectFailed)
	}
	if res.Attempts != 3 {
		t.Errorf("Attempts = %d, want 3", res.Attempts)
	}
}

func TestFetch_DoesNotRetryDeterministicFailures(t *testing.T) {
	ca := testutil.NewCA(t)
	srv := testutil.NewServer(t, ca.Issue(t, time.Now().Add(-time.Hour), time.Now().Add(time.Hour)))

	s := New(time.Second, zap.NewNop(), WithRootCAs(x509.NewCertPool()), WithRetries(3, time.Millisecond))
	res, err := s.Fetch(context.Background(), srv.URL)

	if KindOf(err) != KindHandshakeFailed {
		t.Fatalf("KindOf() = %v, want %v", KindOf(err), KindHandshakeFailed)
	}
	if res.Attempts != 1 {
		t.Errorf("Attempts = %d, want 1", res.Attempts)
	}
}

func TestFetch_TargetInvalid(t *testing.T) {
	s := New(time.Second, zap.NewNop(), WithRetries(3, time.Millisecond))
	res, err := s.Fetch(context.Background(), "https://")

	if KindOf(err) != KindTargetInvalid {
		t.Fatalf("KindOf() = %v, want %v", KindOf(err), KindTargetInvalid)
	}
	if res.Attempts != 0 {
		t.Errorf("Attempts = %d, want 0", res.Attempts)
	}
}
