package scanner

import (
	"testing"
	"time"
)

func TestParseNotAfter(t *testing.T) {
	want := time.Date(2030, 1, 2, 15, 4, 5, 0, time.UTC)

	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{"with GMT", "Jan  2 15:04:05 2030 GMT", want},
		{"without GMT", "Jan  2 15:04:05 2030", want},
		{"single space day", "Jan 2 15:04:05 2030 GMT", want},
		{"surrounding whitespace", "  Jan  2 15:04:05 2030 GMT\n", want},
		{"two digit day", "Dec 31 23:59:59 2029 GMT", time.Date(2029, 12, 31, 23, 59, 59, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseNotAfter(tt.input)
			if err != nil {
				t.Fatalf("ParseNotAfter(%q) error = %v", tt.input, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("ParseNotAfter(%q) = %v, want %v", tt.input, got, tt.want)
			}
			if got.Location() != time.UTC {
				t.Errorf("ParseNotAfter(%q) location = %v, want UTC", tt.input, got.Location())
			}
		})
	}
}

func TestParseNotAfter_Invalid(t *testing.T) {
	inputs := []string{
		"not-a-date",
		"",
		"2030-01-02T15:04:05Z",
		"Jan  2 15:04:05 2030 PST",
		"Jan  2 15:04 2030 GMT",
		"Foo  2 15:04:05 2030 GMT",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			_, err := ParseNotAfter(input)
			if err == nil {
				t.Fatalf("ParseNotAfter(%q) expected error", input)
			}
			if KindOf(err) != KindTimestampUnparseable {
				t.Errorf("KindOf() = %v, want %v", KindOf(err), KindTimestampUnparseable)
			}

			fe, ok := err.(*FetchError)
			if !ok {
				t.Fatalf("error type = %T, want *FetchError", err)
			}
			if fe.Raw != input {
				t.Errorf("Raw = %q, want %q", fe.Raw, input)
			}
		})
	}
}

func TestFormatNotAfter(t *testing.T) {
	tests := []struct {
		in   time.Time
		want string
	}{
		{time.Date(2030, 1, 2, 15, 4, 5, 0, time.UTC), "Jan  2 15:04:05 2030 GMT"},
		{time.Date(2029, 12, 31, 23, 59, 59, 0, time.UTC), "Dec 31 23:59:59 2029 GMT"},
		// Non-UTC input is rendered as UTC.
		{time.Date(2030, 1, 3, 0, 4, 5, 0, time.FixedZone("JST", 9*60*60)), "Jan  2 15:04:05 2030 GMT"},
	}

	for _, tt := range tests {
		if got := FormatNotAfter(tt.in); got != tt.want {
			t.Errorf("FormatNotAfter(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatParseRoundTrip(t *testing.T) {
	in := time.Date(2031, 7, 9, 8, 7, 6, 0, time.UTC)

	got, err := ParseNotAfter(FormatNotAfter(in))
	if err != nil {
		t.Fatalf("ParseNotAfter() error = %v", err)
	}
	if !got.Equal(in) {
		t.Errorf("round trip = %v, want %v", got, in)
	}
}
