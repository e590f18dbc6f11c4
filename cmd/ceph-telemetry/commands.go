package main

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/muurk/ceph-telemetry/internal/dashboard"
	"github.com/muurk/ceph-telemetry/internal/ui"
	"github.com/muurk/ceph-telemetry/internal/wizard"
	"github.com/muurk/ceph-telemetry/internal/wizard/tui"
)

// Command flags
var (
	reportOutput string
	setValues    []string
	assumeYes    bool
	noVerify     bool
	rollbackOn   bool
)

func init() {
	rootCmd.AddCommand(wizardCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(enableCmd)
	rootCmd.AddCommand(disableCmd)
}

// wizardCmd launches the interactive TUI wizard
var wizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Launch the interactive opt-in wizard",
	Long: `Launch an interactive TUI wizard for the telemetry module.

The wizard walks through two steps:
- Configure: choose the report channels, interval, proxy and contact details
- Preview: review the exact report that will be sent and accept the license

Declining from either step switches telemetry off.`,
	Example: `  # Launch the wizard against a dashboard
  ceph-telemetry wizard --url https://mgr-a:8443 --user admin
  # Or simply (wizard is default):
  ceph-telemetry --cluster prod`,
	RunE: runWizard,
}

func runWizard(cmd *cobra.Command, args []string) error {
	if !ui.IsInteractive() {
		return errors.New("the wizard needs a terminal; use 'show', 'enable' or 'disable' instead")
	}

	t, err := connect(cmd.Context())
	if err != nil {
		return err
	}

	outcome, err := tui.Run(cmd.Context(), t.client, tui.Options{
		Cluster:     t.label,
		DownloadDir: settings.DownloadDir,
	})
	if err != nil {
		return fmt.Errorf("wizard error: %w", err)
	}

	switch {
	case outcome.Enabled:
		t.recordContact(true)
		t.recordReport(outcome.ReportID)
		printer.PrintSuccess("Telemetry enabled",
			ui.Param{Key: "Cluster", Value: t.label},
			ui.Param{Key: "Report ID", Value: outcome.ReportID},
		)
	case outcome.Declined:
		t.recordContact(false)
		printer.PrintWarning("Telemetry disabled", ui.Param{Key: "Cluster", Value: t.label})
	default:
		printer.Println("Wizard closed, nothing was changed.")
	}
	return nil
}

// showCmd displays the telemetry options and their current values
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show telemetry configuration",
	Long: `Display the telemetry options offered by the wizard, their current values
and whether telemetry is enabled.`,
	Example: `  # Show the configuration
  ceph-telemetry show --url https://mgr-a:8443 --user admin

  # Compact output format
  ceph-telemetry show --cluster prod --format compact

  # JSON output for scripting
  ceph-telemetry show --cluster prod --format json`,
	Args: cobra.NoArgs,
	RunE: runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	t, err := connect(ctx)
	if err != nil {
		return err
	}

	opts, err := t.client.GetOptions(ctx, dashboard.TelemetryModule)
	if err != nil {
		return fail("Failed to read telemetry options", err)
	}
	cfg, err := t.client.GetConfig(ctx, dashboard.TelemetryModule)
	if err != nil {
		return fail("Failed to read telemetry configuration", err)
	}
	t.recordContact(cfg.Enabled())

	status := dashboard.NewStatus(dashboard.TelemetryModule, opts, cfg, wizard.RequiredFields)
	switch outputFormat {
	case "compact":
		printer.Println(status.FormatCompact())
	case "json":
		out, err := dashboard.MarshalPretty(map[string]any{
			"module":     dashboard.TelemetryModule,
			"enabled":    cfg.Enabled(),
			"url":        cfg.URL(),
			"device_url": cfg.DeviceURL(),
			"options":    cfg.Pick(wizard.RequiredFields),
		})
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		printer.Println(out)
	case "detailed":
		fallthrough
	default:
		printer.Println(status.FormatDetailed())
	}

	return nil
}

// reportCmd fetches the telemetry report
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Download the telemetry report",
	Long: `Fetch the report the telemetry module would send right now and save it
as pretty-printed JSON.

Without --output the file is named after the cluster and the report id,
for example prod-telemetry-report-8c3d4e6a.json, and written to --download-dir.`,
	Example: `  # Save the report next to you
  ceph-telemetry report --cluster prod

  # Print it instead
  ceph-telemetry report --cluster prod --output -`,
	Args: cobra.NoArgs,
	RunE: runReport,
}

func init() {
	reportCmd.Flags().StringVarP(&reportOutput, "output", "o", "", "File to write, '-' for stdout")
}

func runReport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	t, err := connect(ctx)
	if err != nil {
		return err
	}

	w := t.newWizard(&cliPresenter{})
	if err := w.Init(ctx); err != nil {
		return fail("Failed to load the telemetry module", err)
	}
	if err := w.Next(ctx); err != nil {
		return fail("Failed to fetch the telemetry report", err)
	}
	t.recordReport(w.ReportID())

	name := reportOutput
	if name == "" {
		name = wizard.ReportFileName(t.label, w.ReportID())
	}
	if err := w.Download(w.Report(), name); err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	if name == "-" {
		return nil
	}

	printer.PrintSuccess("Telemetry report saved",
		ui.Param{Key: "Report ID", Value: w.ReportID()},
		ui.Param{Key: "Channels", Value: strings.Join(w.Report().Channels(), ", ")},
		ui.Param{Key: "File", Value: wizard.FileDownloader{Dir: settings.DownloadDir}.DownloadPath(name)},
	)
	return nil
}

// enableCmd opts in without the TUI
var enableCmd = &cobra.Command{
	Use:   "enable",
	Short: "Enable telemetry",
	Long: `Opt in to telemetry without the interactive wizard.

Option changes are given with --set and checked with the same rules as the
wizard. The pending changes and the report id are shown, and the data sharing
license must be accepted before anything is sent. --yes accepts it.

After submitting, the configuration is read back to verify the change.
With --rollback the previous values are restored when enabling fails or
does not verify.`,
	Example: `  # Enable with the current settings
  ceph-telemetry enable --cluster prod

  # Enable the device channel and report every 48 hours
  ceph-telemetry enable --cluster prod --set channel_device=true --set interval=48

  # Scripted opt-in
  ceph-telemetry enable --cluster prod --set channel_crash=false --yes`,
	Args: cobra.NoArgs,
	RunE: runEnable,
}

func init() {
	enableCmd.Flags().StringArrayVar(&setValues, "set", nil, "Change an option, as name=value (repeatable)")
	enableCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Accept the data sharing license without asking")
	enableCmd.Flags().BoolVar(&noVerify, "no-verify", false, "Skip reading the configuration back after enabling")
	enableCmd.Flags().BoolVar(&rollbackOn, "rollback", false, "Restore the previous configuration if enabling fails")
}

func runEnable(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	edits, err := parseSetValues(setValues)
	if err != nil {
		return err
	}

	t, err := connect(ctx)
	if err != nil {
		return err
	}
	printer.PrintHeader("Enable telemetry", "ceph-telemetry enable", t.connectionParams()...)

	presenter := &cliPresenter{}
	w := t.newWizard(presenter)
	if err := w.Init(ctx); err != nil {
		return fail("Failed to load the telemetry module", err)
	}

	for _, name := range sortedKeys(edits) {
		var err error
		if edits[name] == "!" {
			err = w.ToggleOption(name)
		} else {
			err = w.SetOption(name, edits[name])
		}
		if err != nil {
			return fmt.Errorf("--set %s: %w", name, err)
		}
	}

	if err := w.Next(ctx); err != nil {
		if errors.Is(err, wizard.ErrInvalidForm) {
			return invalidOptions(w)
		}
		return fail("Failed to fetch the telemetry report", err)
	}
	t.recordReport(w.ReportID())

	delta := w.PendingDelta()
	if len(delta) > 0 {
		diff, err := dashboard.DiffConfig(w.CurrentConfig(), delta, optionNames(w))
		if err != nil {
			printer.Println(dashboard.FormatChanges(delta))
		} else {
			printer.PrintDiff(diff)
		}
	} else {
		printer.Println("No option changes; telemetry will be enabled with the current settings.")
	}
	printer.Println(fmt.Sprintf("Report %s (channels: %s) will be sent to %s",
		w.ReportID(), strings.Join(w.Report().Channels(), ", "), w.SendToURL()))
	printer.Newline()

	consent := prompter
	if assumeYes {
		consent = ui.AutoPrompter{Answer: true}
	}
	accepted, err := consent.ConfirmLicense(w.ReportID())
	if err != nil {
		return err
	}
	if !accepted {
		printer.PrintWarning("Telemetry not enabled", ui.Param{Key: "Reason", Value: "license not accepted"})
		return nil
	}
	if err := w.AcceptLicense(true); err != nil {
		return err
	}

	steps := ui.NewProgress("Applying changes to "+t.label,
		"Save current configuration",
		"Enable telemetry and write options",
		"Read back configuration",
		"Restore previous configuration",
	).SetWidth(printer.Width())

	var snap *dashboard.Snapshot
	if rollbackOn {
		steps.Start(stepSnapshot)
		snap, err = t.client.TakeSnapshot(ctx, dashboard.TelemetryModule, sortedKeys(delta))
		if err != nil {
			steps.Fail(stepSnapshot, dashboard.GetShortErrorMessage(err))
			printer.Println(steps.Render())
			return fail("Failed to save the current configuration", err)
		}
		steps.Complete(stepSnapshot, fmt.Sprintf("%d option(s)", len(snap.Values)))
	} else {
		steps.Skip(stepSnapshot, "no --rollback")
	}

	steps.Start(stepSubmit)
	if err := w.Submit(ctx); err != nil {
		steps.Fail(stepSubmit, dashboard.GetShortErrorMessage(err))
		steps.Skip(stepVerify, "")
		restoreErr := rollback(ctx, t, snap, steps)
		printer.Println(steps.Render())
		printRestoreError(restoreErr)
		return fail(presenter.message, err)
	}
	steps.Complete(stepSubmit, fmt.Sprintf("%d option(s)", len(delta)))
	t.recordContact(true)

	if noVerify {
		steps.Skip(stepVerify, "--no-verify")
		steps.Skip(stepRestore, "")
		printer.Println(steps.Render())
		printer.PrintSuccess("Telemetry enabled (not verified)",
			ui.Param{Key: "Report ID", Value: w.ReportID()},
		)
		return nil
	}

	steps.Start(stepVerify)
	result, err := t.client.Verify(ctx, dashboard.TelemetryModule, true, delta)
	if err != nil {
		steps.Fail(stepVerify, dashboard.GetShortErrorMessage(err))
		steps.Skip(stepRestore, "")
		printer.Println(steps.Render())
		return fail("Telemetry enabled but could not be verified", err)
	}
	if !result.Success {
		steps.Fail(stepVerify, fmt.Sprintf("%d mismatch(es)", len(result.Mismatches)))
		details := []ui.Param{{Key: "Report ID", Value: w.ReportID()}}
		for _, m := range result.Mismatches {
			details = append(details, ui.Param{Key: "Mismatch", Value: m})
		}
		restoreErr := rollback(ctx, t, snap, steps)
		printer.Println(steps.Render())
		printer.PrintWarning("Telemetry enabled but the configuration differs", details...)
		printRestoreError(restoreErr)
		return reportedError{err: errors.New("configuration verification failed")}
	}
	steps.Complete(stepVerify, "")
	steps.Skip(stepRestore, "")
	printer.Println(steps.Render())

	printer.PrintSuccess(presenter.message,
		ui.Param{Key: "Report ID", Value: w.ReportID()},
		ui.Param{Key: "Changed", Value: fmt.Sprintf("%d option(s)", len(delta))},
	)
	return nil
}

// Steps of the enable progress
const (
	stepSnapshot = iota + 1
	stepSubmit
	stepVerify
	stepRestore
)

// disableCmd opts out
var disableCmd = &cobra.Command{
	Use:   "disable",
	Short: "Disable telemetry",
	Long:  `Switch the telemetry module off. No further reports are sent.`,
	Example: `  # Disable, asking first
  ceph-telemetry disable --cluster prod

  # Scripted opt-out
  ceph-telemetry disable --cluster prod --yes`,
	Args: cobra.NoArgs,
	RunE: runDisable,
}

func init() {
	disableCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Do not ask for confirmation")
}

func runDisable(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	t, err := connect(ctx)
	if err != nil {
		return err
	}

	if !assumeYes {
		ok, err := prompter.Confirm(
			fmt.Sprintf("Disable telemetry on %s?", t.label),
			"The cluster will stop sending telemetry reports.")
		if err != nil {
			return err
		}
		if !ok {
			printer.Println("Nothing was changed.")
			return nil
		}
	}

	presenter := &cliPresenter{}
	w := t.newWizard(presenter)
	if err := w.DisableModule(ctx, wizard.DisableSuccessMessage, func() {}); err != nil {
		return fail(presenter.message, err)
	}
	t.recordContact(false)

	printer.PrintSuccess(presenter.message, ui.Param{Key: "Cluster", Value: t.label})
	return nil
}

// rollback restores snap after a failed opt-in and records the outcome on
// the restore step. A nil snap skips the step.
func rollback(ctx context.Context, t *target, snap *dashboard.Snapshot, steps *ui.Progress) error {
	if snap == nil {
		steps.Skip(stepRestore, "no --rollback")
		return nil
	}

	steps.Start(stepRestore)
	result, err := t.client.Restore(ctx, snap)
	if err != nil {
		steps.Fail(stepRestore, dashboard.GetShortErrorMessage(err))
		return err
	}
	if !result.Success {
		steps.Fail(stepRestore, fmt.Sprintf("%d mismatch(es)", len(result.Mismatches)))
		return fmt.Errorf("restored configuration differs: %s", strings.Join(result.Mismatches, "; "))
	}
	steps.Complete(stepRestore, fmt.Sprintf("%d option(s) restored", len(snap.Values)))
	t.recordContact(snap.Enabled)
	return nil
}

func printRestoreError(err error) {
	if err != nil {
		printer.PrintError("Rollback failed", err, dashboard.GetTroubleshootingHint(err))
	}
}

// parseSetValues splits name=value pairs. A bare name toggles a bool option,
// recorded as "!".
func parseSetValues(values []string) (map[string]string, error) {
	edits := make(map[string]string, len(values))
	for _, raw := range values {
		name, value, found := strings.Cut(raw, "=")
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("invalid --set %q: expected name=value", raw)
		}
		if _, dup := edits[name]; dup {
			return nil, fmt.Errorf("--set %s given more than once", name)
		}
		if !found {
			value = "!"
		}
		edits[name] = value
	}
	return edits, nil
}

// invalidOptions prints every failing option with its messages
func invalidOptions(w *wizard.Wizard) error {
	errs := w.ConfigForm().Errors()
	details := make([]ui.Param, 0, len(errs))
	for _, name := range sortedKeys(errs) {
		msgs := make([]string, 0, len(errs[name]))
		for _, e := range errs[name] {
			msgs = append(msgs, e.Message)
		}
		details = append(details, ui.Param{Key: name, Value: strings.Join(msgs, "; ")})
	}
	err := fmt.Errorf("%w: %d option(s)", wizard.ErrInvalidForm, len(errs))
	printer.PrintWarning("Invalid option values", details...)
	return reportedError{err: err}
}

func optionNames(w *wizard.Wizard) []string {
	opts := w.Options()
	names := make([]string, 0, len(opts))
	for _, d := range opts {
		names = append(names, d.Name)
	}
	return names
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
