package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/certwatch-app/cw-expiry/internal/ui"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration file",
	Long: `Validate the cw-expiry configuration without checking any target.

Example:
  cw-expiry validate -c /path/to/cw-expiry.yaml`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(nil)
	if err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	targetsFile := cfg.Check.TargetsFile
	if targetsFile == "" {
		targetsFile = "(none)"
	}
	metricsAddr := cfg.Metrics.Addr
	if metricsAddr == "" {
		metricsAddr = "(disabled)"
	}
	webhook := cfg.Webhook.URL
	if webhook == "" {
		webhook = "(disabled)"
	}
	configFile := viper.ConfigFileUsed()
	if configFile == "" {
		configFile = "(defaults)"
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, ui.RenderSuccess("Configuration is valid!"))
	fmt.Fprintf(out, "  Config file:    %s\n", configFile)
	fmt.Fprintf(out, "  Targets file:   %s\n", targetsFile)
	fmt.Fprintf(out, "  Inline targets: %d\n", len(cfg.Check.Targets))
	fmt.Fprintf(out, "  Timeout:        %s\n", cfg.Check.Timeout)
	fmt.Fprintf(out, "  Concurrency:    %d\n", cfg.Check.Concurrency)
	fmt.Fprintf(out, "  Retries:        %d\n", cfg.Check.Retries)
	fmt.Fprintf(out, "  Output format:  %s\n", cfg.Output.Format)
	fmt.Fprintf(out, "  Watch interval: %s\n", cfg.Watch.Interval)
	fmt.Fprintf(out, "  Metrics:        %s\n", metricsAddr)
	fmt.Fprintf(out, "  Webhook:        %s\n", webhook)

	return nil
}
