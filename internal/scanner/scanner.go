package scanner

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

// alertCertificateExpired is the TLS certificate_expired alert (RFC 5246 7.2.2)
const alertCertificateExpired tls.AlertError = 45

var defaultPorts = map[string]string{
	"https": "443",
}

// Scanner retrieves peer certificate expirations over TLS
// Fields are ordered for optimal memory alignment
type Scanner struct {
	logger        *zap.Logger
	roots         *x509.CertPool
	timeout       time.Duration
	retryInterval time.Duration
	retries       int
}

// Option configures a Scanner
type Option func(*Scanner)

// WithRootCAs verifies peers against pool instead of the system roots
func WithRootCAs(pool *x509.CertPool) Option {
	return func(s *Scanner) {
		s.roots = pool
	}
}

// WithRetries allows n extra attempts for connect failures and timeouts,
// starting interval apart and backing off exponentially.
func WithRetries(n int, interval time.Duration) Option {
	return func(s *Scanner) {
		s.retries = n
		if interval > 0 {
			s.retryInterval = interval
		}
	}
}

// New creates a new Scanner. timeout bounds connect plus handshake per attempt.
func New(timeout time.Duration, logger *zap.Logger, opts ...Option) *Scanner {
	s := &Scanner{
		timeout:       timeout,
		retryInterval: 500 * time.Millisecond,
		logger:        logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Fetch connects to rawURL, completes a TLS handshake and returns the leaf
// certificate's expiration. Any error is a *FetchError. Attempts is set on
// the returned Result even when err is non-nil.
func (s *Scanner) Fetch(ctx context.Context, rawURL string) (Result, error) {
	host, port, err := ParseEndpoint(rawURL)
	if err != nil {
		return Result{}, err
	}

	var result Result
	op := func() error {
		result.Attempts++
		res, fetchErr := s.fetchOnce(ctx, host, port)
		if fetchErr != nil {
			if !fetchErr.Kind.Retryable() {
				return backoff.Permanent(fetchErr)
			}
			s.logger.Debug("fetch attempt failed",
				zap.String("host", host),
				zap.String("port", port),
				zap.Int("attempt", result.Attempts),
				zap.Error(fetchErr),
			)
			return fetchErr
		}
		result.NotAfter = res.NotAfter
		result.Subject = res.Subject
		return nil
	}

	if err := backoff.Retry(op, s.newBackOff(ctx)); err != nil {
		return result, toFetchError(ctx, err)
	}

	return result, nil
}

func (s *Scanner) newBackOff(ctx context.Context) backoff.BackOff {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = s.retryInterval
	bo.MaxInterval = 10 * s.retryInterval
	bo.MaxElapsedTime = 0
	return backoff.WithContext(backoff.WithMaxRetries(bo, uint64(s.retries)), ctx)
}

// fetchOnce performs one connect-and-handshake attempt. The connection is
// closed before it returns.
func (s *Scanner) fetchOnce(ctx context.Context, host, port string) (Result, *FetchError) {
	attemptCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	addr := net.JoinHostPort(host, port)

	var dialer net.Dialer
	raw, err := dialer.DialContext(attemptCtx, "tcp", addr)
	if err != nil {
		if fe := contextFailure(ctx, err); fe != nil {
			return Result{}, fe
		}
		return Result{}, &FetchError{Kind: KindConnectFailed, Err: err}
	}

	conn := tls.Client(raw, s.tlsConfig(host))
	defer conn.Close()

	if err := conn.HandshakeContext(attemptCtx); err != nil {
		if fe := contextFailure(ctx, err); fe != nil {
			return Result{}, fe
		}
		return Result{}, &FetchError{
			Kind:    KindHandshakeFailed,
			Expired: isExpiredCertificate(err),
			Err:     err,
		}
	}

	state := conn.ConnectionState()
	if len(state.PeerCertificates) == 0 {
		return Result{}, &FetchError{Kind: KindNoCertificate}
	}
	leaf := state.PeerCertificates[0]

	notAfter, err := ParseNotAfter(FormatNotAfter(leaf.NotAfter))
	if err != nil {
		var fe *FetchError
		if errors.As(err, &fe) {
			return Result{}, fe
		}
		return Result{}, &FetchError{Kind: KindTimestampUnparseable, Err: err}
	}

	s.logger.Debug("fetch successful",
		zap.String("address", addr),
		zap.String("subject", leaf.Subject.CommonName),
		zap.Time("not_after", notAfter),
	)

	return Result{NotAfter: notAfter, Subject: leaf.Subject.CommonName}, nil
}

func (s *Scanner) tlsConfig(host string) *tls.Config {
	return &tls.Config{
		ServerName: host,
		RootCAs:    s.roots,
		MinVersion: tls.VersionTLS12,
	}
}

// ParseEndpoint splits rawURL into host and port, falling back to the
// scheme's default port.
func ParseEndpoint(rawURL string) (host, port string, err error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", "", &FetchError{Kind: KindTargetInvalid, Err: err}
	}

	host = u.Hostname()
	if host == "" {
		return "", "", &FetchError{Kind: KindTargetInvalid, Err: fmt.Errorf("missing host in %q", rawURL)}
	}

	port = u.Port()
	if port == "" {
		p, ok := defaultPorts[u.Scheme]
		if !ok {
			return "", "", &FetchError{Kind: KindTargetInvalid, Err: fmt.Errorf("no default port for scheme %q", u.Scheme)}
		}
		port = p
	}

	if n, convErr := strconv.Atoi(port); convErr != nil || n < 1 || n > 65535 {
		return "", "", &FetchError{Kind: KindTargetInvalid, Err: fmt.Errorf("invalid port %q", port)}
	}

	return host, port, nil
}

// contextFailure maps deadline and cancellation errors to their kinds.
// A cancelled parent wins over the per-attempt deadline.
func contextFailure(parent context.Context, err error) *FetchError {
	if parent.Err() != nil {
		return &FetchError{Kind: KindCanceled, Err: parent.Err()}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &FetchError{Kind: KindTimeout, Err: err}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &FetchError{Kind: KindTimeout, Err: err}
	}

	return nil
}

// isExpiredCertificate inspects the structured verification error or the
// alert the peer sent. x509 reports not-yet-valid under the same reason, so
// the leaf's NotAfter is checked when available.
func isExpiredCertificate(err error) bool {
	var invalid x509.CertificateInvalidError
	if errors.As(err, &invalid) && invalid.Reason == x509.Expired {
		return invalid.Cert == nil || time.Now().After(invalid.Cert.NotAfter)
	}

	var alert tls.AlertError
	if errors.As(err, &alert) && alert == alertCertificateExpired {
		return true
	}

	return false
}

func toFetchError(ctx context.Context, err error) *FetchError {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe
	}
	if ctx.Err() != nil {
		return &FetchError{Kind: KindCanceled, Err: ctx.Err()}
	}
	return &FetchError{Kind: KindConnectFailed, Err: err}
}
