package initcmd

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"

	"github.com/charmbracelet/huh"

	"github.com/certwatch-app/cw-expiry/internal/ui"
)

// Wizard manages the interactive configuration wizard.
type Wizard struct {
	state      *WizardState
	outputPath string
}

// NewWizard creates a new wizard instance.
func NewWizard() *Wizard {
	return &Wizard{
		state: NewWizardState(),
	}
}

// SetOutputPath sets the output path (from command line flag).
func (w *Wizard) SetOutputPath(path string) {
	w.outputPath = path
	if path != "" {
		w.state.ConfigPath = path
	}
}

// Run executes the wizard flow.
func (w *Wizard) Run() error {
	// Setup signal handling for graceful Ctrl+C
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)
	defer signal.Stop(sigChan)
	go func() {
		<-sigChan
		fmt.Println()
		fmt.Println(ui.RenderWarning("Setup canceled by user"))
		os.Exit(0)
	}()

	fmt.Println()
	fmt.Println(ui.RenderHeader())
	fmt.Println()

	// Step 1: Welcome and file configuration
	if err := NewWelcomeForm(w.state).Run(); err != nil {
		return w.handleError(err)
	}

	// Step 2: Check for existing file
	if err := w.handleExistingFile(); err != nil {
		return err
	}

	// Step 3: Targets
	fmt.Println(ui.RenderSection("Targets"))
	if err := w.runTargetForms(); err != nil {
		return w.handleError(err)
	}

	// Step 4: Check settings
	fmt.Println(ui.RenderSection("Check Settings"))
	if err := NewCheckForm(w.state).Run(); err != nil {
		return w.handleError(err)
	}

	// Step 5: Output
	fmt.Println(ui.RenderSection("Output"))
	if err := NewOutputForm(w.state).Run(); err != nil {
		return w.handleError(err)
	}

	// Step 6: Watch mode
	fmt.Println(ui.RenderSection("Watch Mode"))
	if err := NewWatchForm(w.state).Run(); err != nil {
		return w.handleError(err)
	}

	// Step 7: Generate and validate config
	cfg, err := w.state.ToConfig()
	if err != nil {
		return w.handleError(fmt.Errorf("failed to create configuration: %w", err))
	}

	if err := cfg.Validate(); err != nil {
		return w.handleValidationError(err)
	}

	// Step 8: Write config file
	fmt.Println()
	if err := WriteConfig(cfg, w.state.ConfigPath); err != nil {
		return w.handleError(err)
	}

	w.showSuccess()

	return nil
}

func (w *Wizard) runTargetForms() error {
	if err := NewTargetsFileForm(w.state).Run(); err != nil {
		return err
	}

	targetNum := 1
	for {
		w.state.ResetCurrentTarget()

		if err := NewTargetForm(w.state, targetNum).Run(); err != nil {
			return err
		}

		w.state.SaveCurrentTarget()

		if !w.state.AddAnother {
			break
		}

		targetNum++
	}

	if w.state.TargetsFile == "" && len(w.state.Targets) == 0 {
		return fmt.Errorf("a targets file or at least one target is required")
	}

	return nil
}

func (w *Wizard) handleExistingFile() error {
	if !FileExists(w.state.ConfigPath) {
		return nil
	}

	if err := NewOverwriteConfirmForm(w.state, w.state.ConfigPath).Run(); err != nil {
		return w.handleError(err)
	}

	if !w.state.OverwriteFile {
		fmt.Println(ui.RenderWarning("Setup canceled: file already exists"))
		os.Exit(0)
	}

	return nil
}

func (w *Wizard) handleError(err error) error {
	if errors.Is(err, huh.ErrUserAborted) {
		fmt.Println()
		fmt.Println(ui.RenderWarning("Setup canceled"))
		os.Exit(0)
	}
	fmt.Println()
	fmt.Println(ui.RenderError(err.Error()))
	return err
}

func (w *Wizard) handleValidationError(err error) error {
	fmt.Println()
	fmt.Println(ui.RenderError("Configuration validation failed:"))
	fmt.Println(ui.RenderError("  " + err.Error()))
	fmt.Println()
	fmt.Println(ui.RenderInfo("Please run 'cw-expiry init' again with corrected values."))
	return err
}

func (w *Wizard) showSuccess() {
	fmt.Println()
	fmt.Println(ui.RenderSuccess("Config written to " + w.state.ConfigPath))
	fmt.Println(ui.RenderSuccess("Validated successfully"))
	fmt.Println()

	targetsFile := w.state.TargetsFile
	if targetsFile == "" {
		targetsFile = "(none)"
	}

	fmt.Println(ui.TitleStyle.Render("Configuration Summary:"))
	fmt.Println(ui.MutedStyle.Render("  Targets file: ") + targetsFile)
	fmt.Println(ui.MutedStyle.Render("  Targets:      ") + strconv.Itoa(len(w.state.Targets)))
	fmt.Println(ui.MutedStyle.Render("  Timeout:      ") + w.state.Timeout)
	fmt.Println(ui.MutedStyle.Render("  Concurrency:  ") + w.state.Concurrency)
	fmt.Println(ui.MutedStyle.Render("  Format:       ") + w.state.Format)
	fmt.Println()

	fmt.Println(ui.TitleStyle.Render("Next steps:"))
	fmt.Println()
	fmt.Println("  To validate your config:")
	fmt.Println("    " + ui.RenderCode("cw-expiry validate -c "+w.state.ConfigPath))
	fmt.Println()
	fmt.Println("  To check every target once:")
	fmt.Println("    " + ui.RenderCode("cw-expiry check -c "+w.state.ConfigPath))
	fmt.Println()
	fmt.Println("  To keep checking on an interval:")
	fmt.Println("    " + ui.RenderCode("cw-expiry watch -c "+w.state.ConfigPath))
	fmt.Println()
}

// Environment variables read in non-interactive mode.
const (
	EnvTargets       = "CW_EXPIRY_TARGETS"
	EnvTargetsFile   = "CW_EXPIRY_TARGETS_FILE"
	EnvTimeout       = "CW_EXPIRY_TIMEOUT"
	EnvConcurrency   = "CW_EXPIRY_CONCURRENCY"
	EnvRetries       = "CW_EXPIRY_RETRIES"
	EnvFormat        = "CW_EXPIRY_FORMAT"
	EnvLogLevel      = "CW_EXPIRY_LOG_LEVEL"
	EnvMetricsAddr   = "CW_EXPIRY_METRICS_ADDR"
	EnvWatchInterval = "CW_EXPIRY_WATCH_INTERVAL"
)

// StateFromEnv builds wizard state from environment lookups.
func StateFromEnv(getenv func(string) string) (*WizardState, error) {
	state := NewWizardState()

	if list := getenv(EnvTargets); list != "" {
		if err := ValidateTargetList(list); err != nil {
			return nil, fmt.Errorf("%s: %w", EnvTargets, err)
		}
		state.Targets = ParseTargetList(list)
	}

	// An unset targets file keeps the default only when no inline targets were given
	if file, ok := lookup(getenv, EnvTargetsFile); ok {
		state.TargetsFile = file
	} else if len(state.Targets) > 0 {
		state.TargetsFile = ""
	}

	if v, ok := lookup(getenv, EnvTimeout); ok {
		state.Timeout = v
	}
	if v, ok := lookup(getenv, EnvConcurrency); ok {
		state.Concurrency = v
	}
	if v, ok := lookup(getenv, EnvRetries); ok {
		state.Retries = v
	}
	if v, ok := lookup(getenv, EnvFormat); ok {
		state.Format = v
	}
	if v, ok := lookup(getenv, EnvLogLevel); ok {
		state.LogLevel = v
	}
	if v, ok := lookup(getenv, EnvMetricsAddr); ok {
		state.MetricsAddr = v
	}
	if v, ok := lookup(getenv, EnvWatchInterval); ok {
		state.WatchInterval = v
	}

	return state, nil
}

func lookup(getenv func(string) string, key string) (string, bool) {
	v := getenv(key)
	return v, v != ""
}

// RunNonInteractive runs the wizard in non-interactive mode using environment variables.
func RunNonInteractive(outputPath string) error {
	state, err := StateFromEnv(os.Getenv)
	if err != nil {
		return err
	}
	state.ConfigPath = outputPath

	if err := ValidateConfigPath(state.ConfigPath); err != nil {
		return err
	}

	cfg, err := state.ToConfig()
	if err != nil {
		return fmt.Errorf("failed to create configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	if err := WriteConfig(cfg, state.ConfigPath); err != nil {
		return err
	}

	fmt.Println(ui.RenderSuccess("Config written to " + state.ConfigPath))
	return nil
}
