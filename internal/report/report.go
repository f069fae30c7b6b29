// Package report renders check outcomes to console, JSON and log sinks.
package report

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/certwatch-app/cw-expiry/internal/checker"
)

// Reporter consumes one outcome at a time
type Reporter interface {
	Report(o checker.Outcome) error
}

// Format names a built-in reporter
type Format string

const (
	FormatConsole Format = "console"
	FormatJSON    Format = "json"
	FormatLog     Format = "log"
)

// Formats lists the supported output formats
func Formats() []Format {
	return []Format{FormatConsole, FormatJSON, FormatLog}
}

// ParseFormat validates a format name
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats() {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unsupported output format: %s", s)
}

// Multi fans each outcome out to every reporter, collecting their errors
type Multi []Reporter

func (m Multi) Report(o checker.Outcome) error {
	var errs []error
	for _, r := range m {
		if err := r.Report(o); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Func adapts a function to a Reporter
type Func func(o checker.Outcome) error

func (f Func) Report(o checker.Outcome) error {
	return f(o)
}

// streamFor picks stdout for classified certificates and stderr for failures
func streamFor(o checker.Outcome, out, errOut io.Writer) io.Writer {
	if o.OK() {
		return out
	}
	return errOut
}
