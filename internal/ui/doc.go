// Package ui provides terminal output components for the ceph-telemetry CLI.
//
// The components use Lipgloss to render styled, run-once output: a command
// header, success/failure/warning result boxes with troubleshooting tips,
// colored configuration diffs, and a step list with a progress bar for the
// changes a command applies. Prompts that need an answer from the
// operator (license consent, disable confirmation, password) go through the
// Prompter interface, implemented with huh for terminals and by
// AutoPrompter for --yes.
//
// Example:
//
//	p := ui.NewPrinter(os.Stdout)
//	p.PrintHeader("Enable telemetry", "ceph-telemetry enable",
//	    ui.Param{Key: "Dashboard", Value: url})
//	p.PrintDiff(diff)
//
//	ok, err := ui.NewHuhPrompter().ConfirmLicense(reportID)
//
// # Logging Integration
//
// zap logging is silent unless CEPH_TELEMETRY_LOG_LEVEL or --log-level
// enables it, so the curated output is not interleaved with log lines.
package ui
