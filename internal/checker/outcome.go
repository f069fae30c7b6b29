package checker

import (
	"fmt"
	"time"

	"github.com/certwatch-app/cw-expiry/internal/expiry"
	"github.com/certwatch-app/cw-expiry/internal/scanner"
)

// TagExpiredCertificate marks a handshake rejected because the peer
// certificate had already expired.
const TagExpiredCertificate = "expired-certificate"

// TimeLayout renders instants in messages
const TimeLayout = "2006-01-02 15:04:05 UTC"

// Outcome is the result of checking one target. Exactly one of Err and
// (Severity, Expiration) is meaningful; OK tells which.
// Fields are ordered for optimal memory alignment
type Outcome struct {
	Expiration time.Time
	CheckedAt  time.Time
	Err        *scanner.FetchError
	Target     string
	URL        string
	Subject    string
	Duration   time.Duration
	Attempts   int
	Severity   expiry.Severity
}

// OK reports whether the certificate was fetched and classified
func (o Outcome) OK() bool {
	return o.Err == nil
}

// ExpiredCertificate reports whether the handshake failed on an expired certificate
func (o Outcome) ExpiredCertificate() bool {
	return o.Err != nil && scanner.IsExpiredCertificate(o.Err)
}

// Tag is the severity name on success, TagExpiredCertificate for the
// expired handshake, otherwise the failure kind.
func (o Outcome) Tag() string {
	switch {
	case o.OK():
		return o.Severity.String()
	case o.ExpiredCertificate():
		return TagExpiredCertificate
	default:
		return o.Err.Kind.String()
	}
}

// Remaining is the validity left when the check ran. Zero on failure.
func (o Outcome) Remaining() time.Duration {
	if !o.OK() {
		return 0
	}
	return expiry.Remaining(o.Expiration, o.CheckedAt)
}

// Message renders a one-line human readable description
func (o Outcome) Message() string {
	if !o.OK() {
		if o.ExpiredCertificate() {
			return fmt.Sprintf("The certificate for %s: %v", o.URL, o.Err)
		}
		return fmt.Sprintf("Failed to check the certificate for %s: %v", o.URL, o.Err)
	}

	at := o.Expiration.UTC().Format(TimeLayout)
	switch o.Severity {
	case expiry.Expired:
		return fmt.Sprintf("The certificate for %s has expired on %s", o.URL, at)
	case expiry.CriticalWithin24h:
		return fmt.Sprintf("The certificate for %s will expire within 24 hours on %s", o.URL, at)
	case expiry.WarningWithinWeek:
		return fmt.Sprintf("The certificate for %s will expire within one week on %s", o.URL, at)
	default:
		return fmt.Sprintf("The certificate for %s is valid until %s", o.URL, at)
	}
}

// Summary counts outcomes by tag
type Summary struct {
	ByTag  map[string]int
	Total  int
	Failed int
}

// Summarize tallies a batch of outcomes
func Summarize(outcomes []Outcome) Summary {
	s := Summary{ByTag: make(map[string]int), Total: len(outcomes)}
	for _, o := range outcomes {
		s.ByTag[o.Tag()]++
		if !o.OK() {
			s.Failed++
		}
	}
	return s
}

// Healthy reports whether every outcome is a valid certificate
func (s Summary) Healthy() bool {
	return s.ByTag[expiry.Valid.String()] == s.Total
}
