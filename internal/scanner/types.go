// Package scanner fetches the expiration instant of the certificate a TLS endpoint presents.
package scanner

import (
	"errors"
	"fmt"
	"time"
)

// Kind classifies why a fetch failed
type Kind int

const (
	KindTargetInvalid Kind = iota + 1
	KindConnectFailed
	KindHandshakeFailed
	KindNoCertificate
	KindTimestampUnparseable
	KindTimeout
	KindCanceled
)

// String returns the snake_case name used in reports and metric labels
func (k Kind) String() string {
	switch k {
	case KindTargetInvalid:
		return "target_invalid"
	case KindConnectFailed:
		return "connect_failed"
	case KindHandshakeFailed:
		return "handshake_failed"
	case KindNoCertificate:
		return "no_certificate"
	case KindTimestampUnparseable:
		return "timestamp_unparseable"
	case KindTimeout:
		return "timeout"
	case KindCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// Retryable reports whether another attempt could succeed.
// Only transient network failures qualify.
func (k Kind) Retryable() bool {
	return k == KindConnectFailed || k == KindTimeout
}

// FetchError is the only error type Fetch returns.
// Fields are ordered for optimal memory alignment
type FetchError struct {
	Err error
	// Raw holds the offending expiration text for KindTimestampUnparseable
	Raw  string
	Kind Kind
	// Expired is set on KindHandshakeFailed when the peer certificate had already expired
	Expired bool
}

func (e *FetchError) Error() string {
	var msg string
	switch e.Kind {
	case KindTargetInvalid:
		msg = "invalid target"
	case KindConnectFailed:
		msg = "connection failed"
	case KindHandshakeFailed:
		if e.Expired {
			msg = "certificate has expired"
		} else {
			msg = "tls handshake failed"
		}
	case KindNoCertificate:
		msg = "no certificates received"
	case KindTimestampUnparseable:
		msg = fmt.Sprintf("failed to parse certificate expiration %q", e.Raw)
	case KindTimeout:
		msg = "timed out"
	case KindCanceled:
		msg = "check canceled"
	default:
		msg = "fetch failed"
	}

	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// KindOf returns the failure kind carried by err, or 0 if err is not a FetchError
func KindOf(err error) Kind {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return 0
}

// IsExpiredCertificate reports whether err is a handshake rejected because the
// peer certificate had already expired.
func IsExpiredCertificate(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.Kind == KindHandshakeFailed && fe.Expired
}

// Result is a successful fetch.
type Result struct {
	NotAfter time.Time
	Subject  string
	Attempts int
}
