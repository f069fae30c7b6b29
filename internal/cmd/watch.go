package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/certwatch-app/cw-expiry/internal/agent"
)

var watchCmd = &cobra.Command{
	Use:   "watch [target...]",
	Short: "Check certificate expiry on an interval",
	Long: `Re-check every target on an interval until interrupted, optionally
serving Prometheus metrics.

Examples:
  cw-expiry watch --interval 15m
  cw-expiry watch --metrics-addr :9402 -c /etc/cw-expiry/cw-expiry.yaml`,
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		if err := bindCheckFlags(cmd); err != nil {
			return err
		}
		for name, key := range map[string]string{
			"interval":         "watch.interval",
			"metrics-addr":     "metrics.addr",
			"metrics-textfile": "metrics.textfile",
		} {
			if err := viper.BindPFlag(key, cmd.Flags().Lookup(name)); err != nil {
				return fmt.Errorf("failed to bind flag %s: %w", name, err)
			}
		}
		return nil
	},
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	addCheckFlags(watchCmd)
	watchCmd.Flags().Duration("interval", time.Hour, "time between checks")
	watchCmd.Flags().String("metrics-addr", "", "serve Prometheus metrics on this address")
	watchCmd.Flags().String("metrics-textfile", "", "write Prometheus metrics to this file after each check")
}

func runWatch(cmd *cobra.Command, args []string) error {
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

	if err := a.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("watch error: %w", err)
	}

	return nil
}
