// Package expiry classifies how urgently a certificate needs attention.
package expiry

import "time"

// Severity is the urgency of a certificate's remaining validity.
// Lower values are more urgent.
type Severity int

const (
	Expired Severity = iota
	CriticalWithin24h
	WarningWithinWeek
	Valid
)

const (
	// CriticalWindow is the remaining validity at or below which a certificate is critical
	CriticalWindow = 24 * time.Hour
	// WarningWindow is the remaining validity at or below which a certificate is a warning
	WarningWindow = 7 * 24 * time.Hour
)

// String returns the lowercase tag used in reports and metric labels
func (s Severity) String() string {
	switch s {
	case Expired:
		return "expired"
	case CriticalWithin24h:
		return "critical"
	case WarningWithinWeek:
		return "warning"
	case Valid:
		return "valid"
	default:
		return "unknown"
	}
}

// MoreUrgent reports whether s needs attention sooner than other
func (s Severity) MoreUrgent(other Severity) bool {
	return s < other
}

// Severities lists every severity, most urgent first.
func Severities() []Severity {
	return []Severity{Expired, CriticalWithin24h, WarningWithinWeek, Valid}
}

// Classify maps an expiration instant to a severity relative to now.
// Window boundaries belong to the more urgent severity.
func Classify(expiration, now time.Time) Severity {
	remaining := Remaining(expiration, now)
	switch {
	case remaining < 0:
		return Expired
	case remaining <= CriticalWindow:
		return CriticalWithin24h
	case remaining <= WarningWindow:
		return WarningWithinWeek
	default:
		return Valid
	}
}

// Remaining returns the validity left at now. Negative once expired.
func Remaining(expiration, now time.Time) time.Duration {
	return expiration.UTC().Sub(now.UTC())
}
