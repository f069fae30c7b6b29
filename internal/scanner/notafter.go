package scanner

import (
	"strings"
	"time"
)

const (
	// notAfterLayout is the fixed text form of a certificate's "not valid after" field
	notAfterLayout = "Jan _2 15:04:05 2006"
	gmtSuffix      = " GMT"
)

// FormatNotAfter renders t in the certificate expiration text form,
// e.g. "Jan  2 15:04:05 2030 GMT".
func FormatNotAfter(t time.Time) string {
	return t.UTC().Format(notAfterLayout) + gmtSuffix
}

// ParseNotAfter parses certificate expiration text into a UTC instant.
// A trailing " GMT" is optional and taken to mean UTC.
func ParseNotAfter(text string) (time.Time, error) {
	raw := text
	text = strings.TrimSpace(text)
	text = strings.TrimSuffix(text, gmtSuffix)

	t, err := time.ParseInLocation(notAfterLayout, text, time.UTC)
	if err != nil {
		return time.Time{}, &FetchError{
			Kind: KindTimestampUnparseable,
			Raw:  raw,
			Err:  err,
		}
	}

	return t.UTC(), nil
}
