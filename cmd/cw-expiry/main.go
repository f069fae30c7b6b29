// Command cw-expiry checks TLS certificate expiry for a batch of targets.
package main

import (
	"os"

	"github.com/certwatch-app/cw-expiry/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
