package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/certwatch-app/cw-expiry/internal/agent"
	"github.com/certwatch-app/cw-expiry/internal/expiry"
)

var strict bool

// errUnhealthy is returned by check --strict when any target is not valid
var errUnhealthy = errors.New("not all certificates are valid")

var checkCmd = &cobra.Command{
	Use:   "check [target...]",
	Short: "Check certificate expiry for every target once",
	Long: `Check every target once and print one line per target, in input order.

Targets are read from the targets file (default: urls.txt) and from the
arguments. A target without a scheme is checked as https://<target>.

Examples:
  cw-expiry check
  cw-expiry check example.com api.example.com:8443
  cw-expiry check -f hosts.txt --format json --strict`,
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return bindCheckFlags(cmd)
	},
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	addCheckFlags(checkCmd)
	checkCmd.Flags().BoolVar(&strict, "strict", false, "exit non-zero unless every certificate is valid")
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}

	a, err := agent.New(cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("failed to create agent: %w", err)
	}
	defer a.Logger().Sync() //nolint:errcheck // best-effort flush on exit

	ctx, cancel := signalContext(cmd)
	defer cancel()

	summary, err := a.RunOnce(ctx)
	if err != nil {
		return err
	}

	if strict && !summary.Healthy() {
		return fmt.Errorf("%w: %d of %d", errUnhealthy, summary.Total-summary.ByTag[expiry.Valid.String()], summary.Total)
	}

	return nil
}
