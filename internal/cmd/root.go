// Package cmd provides CLI commands for cw-expiry.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/certwatch-app/cw-expiry/internal/config"
	"github.com/certwatch-app/cw-expiry/internal/version"
)

var (
	cfgFile string
	verbose bool

	// configErr is set when an explicitly requested config file cannot be read
	configErr error
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "cw-expiry",
	Short: "cw-expiry - TLS certificate expiry checker",
	Long: `cw-expiry connects to each target over TLS, reads the expiration of the
certificate it presents and reports whether it is valid, expires within a
week, expires within 24 hours or has already expired.

List targets one per line in urls.txt (or pass them as arguments) and run:
  cw-expiry check

Bare hosts are checked as https://<host>:443.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: ./cw-expiry.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	// Bind flags to viper
	//nolint:errcheck // error is ignored because the flag is guaranteed to exist
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	configErr = nil

	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Search for config in current directory
		viper.AddConfigPath(".")
		viper.AddConfigPath("/etc/cw-expiry")
		viper.SetConfigType("yaml")
		viper.SetConfigName("cw-expiry")
	}

	// Read environment variables with CW_EXPIRY_ prefix, e.g. CW_EXPIRY_CHECK_TIMEOUT
	viper.SetEnvPrefix("CW_EXPIRY")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	err := viper.ReadInConfig()
	switch {
	case err == nil:
		if verbose {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	case cfgFile != "":
		configErr = fmt.Errorf("failed to read config file: %w", err)
	default:
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			configErr = fmt.Errorf("failed to read config file: %w", err)
		}
	}
}

// loadConfig loads and validates the configuration, appending extra targets.
func loadConfig(extraTargets []string) (*config.Config, error) {
	if configErr != nil {
		return nil, configErr
	}

	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	cfg.Check.Targets = append(cfg.Check.Targets, extraTargets...)
	if viper.GetBool("verbose") {
		cfg.LogLevel = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// signalContext returns a context canceled on SIGINT or SIGTERM.
func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(cmd.Context())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigChan)
		select {
		case sig := <-sigChan:
			fmt.Fprintf(cmd.ErrOrStderr(), "\nReceived signal %v, shutting down...\n", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}

// GetVersion returns the version information
func GetVersion() string {
	return version.GetVersion()
}
