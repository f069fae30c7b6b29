package cmd

import (
	"github.com/spf13/cobra"

	"github.com/certwatch-app/cw-expiry/internal/cmd/initcmd"
)

var (
	initOutputPath     string
	initNonInteractive bool
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new cw-expiry configuration",
	Long: `Interactively create a new cw-expiry configuration file.

The wizard will guide you through setting up:
  • Targets (a targets file and/or hosts stored in the config)
  • Check behavior (timeout, concurrency, retries, extra CA)
  • Output format and watch mode settings

Examples:
  # Interactive mode (default)
  cw-expiry init

  # Specify output path
  cw-expiry init -o /etc/cw-expiry/cw-expiry.yaml

  # Non-interactive mode (for CI/scripting)
  CW_EXPIRY_TARGETS=example.com,api.example.com cw-expiry init --non-interactive

Environment variables for non-interactive mode:
  CW_EXPIRY_TARGETS         (optional) Comma-separated targets stored in the config
  CW_EXPIRY_TARGETS_FILE    (optional) Targets file (default: urls.txt, or none when targets are set)
  CW_EXPIRY_TIMEOUT         (optional) Per-attempt timeout (default: 10s)
  CW_EXPIRY_CONCURRENCY     (optional) Targets checked at once (default: 10)
  CW_EXPIRY_RETRIES         (optional) Extra attempts (default: 0)
  CW_EXPIRY_FORMAT          (optional) console, json or log (default: console)
  CW_EXPIRY_LOG_LEVEL       (optional) Log level (default: info)
  CW_EXPIRY_METRICS_ADDR    (optional) Metrics listen address for watch mode
  CW_EXPIRY_WATCH_INTERVAL  (optional) Watch interval (default: 1h)`,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().StringVarP(&initOutputPath, "output", "o", "./cw-expiry.yaml",
		"Output path for the configuration file")
	initCmd.Flags().BoolVar(&initNonInteractive, "non-interactive", false,
		"Run in non-interactive mode using environment variables")
}

func runInit(_ *cobra.Command, _ []string) error {
	if initNonInteractive {
		return initcmd.RunNonInteractive(initOutputPath)
	}

	wizard := initcmd.NewWizard()
	wizard.SetOutputPath(initOutputPath)
	return wizard.Run()
}
