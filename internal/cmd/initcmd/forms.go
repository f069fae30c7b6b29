package initcmd

import (
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/certwatch-app/cw-expiry/internal/ui"
)

// NewWelcomeForm creates the welcome and file configuration form.
func NewWelcomeForm(state *WizardState) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to cw-expiry Setup!").
				Description("This wizard will help you create a configuration file for cw-expiry.\n\n"+
					"You'll need:\n"+
					"  • The hosts or https URLs whose certificates you want to check\n"+
					"  • Optionally, a file listing one target per line"),

			huh.NewInput().
				Title("Config file path").
				Description("Where to save the configuration file").
				Placeholder("./cw-expiry.yaml").
				Value(&state.ConfigPath).
				Validate(ValidateConfigPath),
		),
	).WithTheme(ui.CreateTheme())
}

// NewTargetsFileForm asks for the targets file.
func NewTargetsFileForm(state *WizardState) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Targets").
				Description("Targets come from a file (one per line, # for comments)\n"+
					"and from entries stored in the config file itself."),

			huh.NewInput().
				Title("Targets file").
				Description("Leave empty to use only the targets entered next").
				Placeholder("urls.txt").
				Value(&state.TargetsFile),
		),
	).WithTheme(ui.CreateTheme())
}

// NewTargetForm creates a target entry form.
func NewTargetForm(state *WizardState, targetNum int) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title(fmt.Sprintf("Target #%d", targetNum)).
				Description("A host, host:port or https URL. Leave empty to skip."),

			huh.NewInput().
				Title("Target").
				Placeholder("api.example.com").
				Value(&state.CurrentTarget).
				Validate(ValidateOptionalTarget),

			huh.NewConfirm().
				Title("Add another target?").
				Value(&state.AddAnother).
				Affirmative("Yes").
				Negative("No"),
		),
	).WithTheme(ui.CreateTheme())
}

// NewCheckForm creates the check behaviour form.
func NewCheckForm(state *WizardState) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Check Settings").
				Description("Configure how each target is checked"),

			huh.NewSelect[string]().
				Title("Timeout").
				Description("Upper bound for connect plus TLS handshake, per attempt").
				Options(
					huh.NewOption("5 seconds", "5s"),
					huh.NewOption("10 seconds (recommended)", "10s"),
					huh.NewOption("30 seconds", "30s"),
				).
				Value(&state.Timeout),

			huh.NewInput().
				Title("Concurrency").
				Description("How many targets to check at once (1-100)").
				Placeholder("10").
				Value(&state.Concurrency).
				Validate(ValidateConcurrency),

			huh.NewInput().
				Title("Retries").
				Description("Extra attempts after a connection failure or timeout (0-5)").
				Placeholder("0").
				Value(&state.Retries).
				Validate(ValidateRetries),

			huh.NewInput().
				Title("Extra CA file").
				Description("Optional PEM bundle trusted in addition to the system roots").
				Placeholder("/etc/ssl/private-ca.pem").
				Value(&state.CAFile).
				Validate(ValidateOptionalFile),
		),
	).WithTheme(ui.CreateTheme())
}

// NewOutputForm creates the output and logging form.
func NewOutputForm(state *WizardState) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Output").
				Description("Choose how results are printed"),

			huh.NewSelect[string]().
				Title("Format").
				Options(
					huh.NewOption("Console (recommended)", "console"),
					huh.NewOption("JSON lines", "json"),
					huh.NewOption("Structured log", "log"),
				).
				Value(&state.Format),

			huh.NewConfirm().
				Title("Colored console output?").
				Value(&state.Color).
				Affirmative("Yes").
				Negative("No"),

			huh.NewSelect[string]().
				Title("Log Level").
				Description("Logging verbosity").
				Options(
					huh.NewOption("Debug (verbose)", "debug"),
					huh.NewOption("Info (recommended)", "info"),
					huh.NewOption("Warn", "warn"),
					huh.NewOption("Error (quiet)", "error"),
				).
				Value(&state.LogLevel),
		),
	).WithTheme(ui.CreateTheme())
}

// NewWatchForm creates the watch mode and metrics form.
func NewWatchForm(state *WizardState) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Watch Mode").
				Description("Settings used by 'cw-expiry watch' (optional)"),

			huh.NewSelect[string]().
				Title("Check Interval").
				Description("How often to re-check every target").
				Options(
					huh.NewOption("15 minutes", "15m"),
					huh.NewOption("1 hour (recommended)", "1h"),
					huh.NewOption("6 hours", "6h"),
					huh.NewOption("24 hours", "24h"),
				).
				Value(&state.WatchInterval),

			huh.NewInput().
				Title("Metrics Address").
				Description("Serve Prometheus /metrics on this address. Leave empty to disable.").
				Placeholder(":9402").
				Value(&state.MetricsAddr).
				Validate(ValidateListenAddr),
		),
	).WithTheme(ui.CreateTheme())
}

// NewOverwriteConfirmForm creates a form to confirm file overwrite.
func NewOverwriteConfirmForm(state *WizardState, path string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("File '%s' already exists. Overwrite?", path)).
				Description("The existing file will be replaced with the new configuration.").
				Value(&state.OverwriteFile).
				Affirmative("Yes, overwrite").
				Negative("No, cancel"),
		),
	).WithTheme(ui.CreateTheme())
}
