package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/certwatch-app/cw-expiry/internal/checker"
)

// Record is the JSON shape of an outcome
type Record struct {
	ExpiresAt        *time.Time `json:"expires_at,omitempty"`
	RemainingSeconds *int64     `json:"remaining_seconds,omitempty"`
	CheckedAt        time.Time  `json:"checked_at"`
	Target           string     `json:"target"`
	URL              string     `json:"url"`
	Tag              string     `json:"tag"`
	Severity         string     `json:"severity,omitempty"`
	Kind             string     `json:"kind,omitempty"`
	Error            string     `json:"error,omitempty"`
	Message          string     `json:"message"`
	Attempts         int        `json:"attempts"`
	ExpiredCert      bool       `json:"expired_certificate,omitempty"`
}

// JSONLines writes one JSON object per outcome
type JSONLines struct {
	w  io.Writer
	mu sync.Mutex
}

func NewJSONLines(w io.Writer) *JSONLines {
	return &JSONLines{w: w}
}

// NewRecord converts an outcome to its JSON shape
func NewRecord(o checker.Outcome) Record {
	rec := Record{
		CheckedAt: o.CheckedAt,
		Target:    o.Target,
		URL:       o.URL,
		Tag:       o.Tag(),
		Message:   o.Message(),
		Attempts:  o.Attempts,
	}

	if o.OK() {
		exp := o.Expiration
		remaining := int64(o.Remaining() / time.Second)
		rec.ExpiresAt = &exp
		rec.RemainingSeconds = &remaining
		rec.Severity = o.Severity.String()
	} else {
		rec.Kind = o.Err.Kind.String()
		rec.Error = o.Err.Error()
		rec.ExpiredCert = o.ExpiredCertificate()
	}

	return rec
}

func (j *JSONLines) Report(o checker.Outcome) error {
	data, err := json.Marshal(NewRecord(o))
	if err != nil {
		return fmt.Errorf("failed to marshal outcome: %w", err)
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	if _, err := j.w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write outcome: %w", err)
	}
	return nil
}
