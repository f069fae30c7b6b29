// Package notify posts batch results to a webhook.
package notify

import (
	"time"

	"github.com/certwatch-app/cw-expiry/internal/report"
)

// BatchPayload is the JSON body posted after each batch
// Fields are ordered for optimal memory alignment
type BatchPayload struct {
	CheckedAt time.Time       `json:"checked_at"`
	Tool      string          `json:"tool"`
	Version   string          `json:"version,omitempty"`
	Hostname  string          `json:"hostname,omitempty"`
	Outcomes  []report.Record `json:"outcomes"`
	Summary   SummaryData     `json:"summary"`
}

// SummaryData counts the batch's outcomes
type SummaryData struct {
	ByTag   map[string]int `json:"by_tag"`
	Total   int            `json:"total"`
	Failed  int            `json:"failed"`
	Healthy bool           `json:"healthy"`
}

// APIError represents an error body returned by the webhook
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
