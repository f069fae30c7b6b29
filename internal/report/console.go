package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/certwatch-app/cw-expiry/internal/checker"
	"github.com/certwatch-app/cw-expiry/internal/expiry"
	"github.com/certwatch-app/cw-expiry/internal/ui"
)

// Console writes one styled line per outcome
type Console struct {
	out    io.Writer
	errOut io.Writer
	color  bool
}

// NewConsole writes successes to out and failures to errOut
func NewConsole(out, errOut io.Writer, color bool) *Console {
	return &Console{out: out, errOut: errOut, color: color}
}

func (c *Console) Report(o checker.Outcome) error {
	line := o.Message()
	if c.color {
		line = render(o, line)
	}

	if _, err := fmt.Fprintln(streamFor(o, c.out, c.errOut), line); err != nil {
		return fmt.Errorf("failed to write outcome: %w", err)
	}
	return nil
}

// render colours the message by tag and emphasises the URL, except for
// valid certificates.
func render(o checker.Outcome, msg string) string {
	style := styleFor(o)
	if o.OK() && o.Severity == expiry.Valid {
		return style.Render(msg)
	}

	before, after, found := strings.Cut(msg, o.URL)
	if !found {
		return style.Render(msg)
	}
	return style.Render(before) + ui.TargetStyle.Render(o.URL) + style.Render(after)
}

func styleFor(o checker.Outcome) lipgloss.Style {
	if !o.OK() {
		if o.ExpiredCertificate() {
			return ui.ExpiredCertStyle
		}
		return ui.FailureStyle
	}

	switch o.Severity {
	case expiry.Expired:
		return ui.ExpiredStyle
	case expiry.CriticalWithin24h:
		return ui.CriticalStyle
	case expiry.WarningWithinWeek:
		return ui.WarningStyle
	default:
		return ui.ValidStyle
	}
}
