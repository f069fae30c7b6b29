// Package target turns raw target strings into addressable URLs.
package target

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Scheme is the secure transport prefix every target is checked over.
const Scheme = "https://"

// Normalize returns raw with an explicit https scheme.
// Already-normalized input is returned unchanged.
func Normalize(raw string) string {
	if strings.HasPrefix(raw, Scheme) {
		return raw
	}
	return Scheme + raw
}

// Load reads one target per line. Lines are trimmed; blank lines and
// lines starting with '#' are skipped.
func Load(r io.Reader) ([]string, error) {
	var targets []string

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		targets = append(targets, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read targets: %w", err)
	}

	return targets, nil
}

// LoadFile reads targets from the file at path
func LoadFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open targets file: %w", err)
	}
	defer f.Close()

	return Load(f)
}

// Merge appends extra targets after the loaded ones, dropping blanks.
func Merge(loaded, extra []string) []string {
	out := make([]string, 0, len(loaded)+len(extra))
	out = append(out, loaded...)
	for _, e := range extra {
		if e = strings.TrimSpace(e); e != "" {
			out = append(out, e)
		}
	}
	return out
}
