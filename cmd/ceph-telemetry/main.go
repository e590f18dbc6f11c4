// Ceph-telemetry walks a Ceph cluster operator through opting in to the
// telemetry module of the Ceph dashboard.
//
// It reads the module's options and configuration through the dashboard
// REST API, lets the operator adjust the report channels and interval,
// previews the report that would be sent, and enables telemetry once the
// data sharing license has been accepted.
//
// Usage:
//
//	ceph-telemetry [command] [flags]
//
// Running without arguments launches the interactive wizard.
// See 'ceph-telemetry --help' for available commands.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/muurk/ceph-telemetry/internal/config"
	"github.com/muurk/ceph-telemetry/internal/logging"
	"github.com/muurk/ceph-telemetry/internal/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	logging.Sync()

	if err != nil {
		var reported reportedError
		if !errors.As(err, &reported) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

// Effective settings and the cluster registry, loaded before every command
var (
	settings *config.Settings
	registry *config.Registry
)

// Flags that are not part of the persisted settings
var outputFormat string

var rootCmd = &cobra.Command{
	Use:   "ceph-telemetry",
	Short: "Ceph Telemetry Opt-in Wizard",
	Long: `Opt a Ceph cluster in to (or out of) the telemetry module through the
Ceph dashboard REST API.

The wizard shows the telemetry options, lets you choose which channels are
shared, previews the exact report that will be sent, and enables telemetry
once you accept the Community Data License Agreement - Sharing - Version 1.0.

If no command is specified, the interactive wizard will launch automatically.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: run wizard when no subcommand provided
		return runWizard(cmd, args)
	},
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.PersistentPreRunE = setup

	flags := rootCmd.PersistentFlags()
	flags.String("url", "", "Dashboard URL, e.g. https://mgr-a:8443 (env CEPH_TELEMETRY_URL)")
	flags.String("user", "", "Dashboard user name (env CEPH_TELEMETRY_USERNAME)")
	flags.String("password", "", "Dashboard password (env CEPH_TELEMETRY_PASSWORD, prompted when missing)")
	flags.Bool("insecure", false, "Skip TLS certificate verification")
	flags.Duration("timeout", 0, "Timeout per dashboard request (default 30s)")
	flags.String("cluster", "", "Named cluster from the registry (see 'ceph-telemetry clusters')")
	flags.String("log-level", "", "Log level (debug, info, warn, error); logging is off by default")
	flags.String("log-file", "", "Write logs to this file instead of stderr")
	flags.String("download-dir", "", "Directory for downloaded reports (default current directory)")
	flags.StringVar(&outputFormat, "format", "detailed", "Output format (detailed, compact, json)")

	rootCmd.AddCommand(versionCmd)
}

// setup resolves settings, opens the registry and starts logging
func setup(cmd *cobra.Command, args []string) error {
	s, err := config.Load(cmd.Flags())
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	// The TUI owns the terminal, so its logs always go to a file
	if isWizard(cmd) && s.LogFile == "" && (s.LogLevel != "" || os.Getenv(logging.LogLevelEnvVar) != "") {
		if dir, err := config.GetConfigDir(); err == nil {
			if err := os.MkdirAll(dir, 0700); err == nil {
				s.LogFile = filepath.Join(dir, "wizard.log")
			}
		}
	}
	if err := logging.Initialize(logging.Options{Level: s.LogLevel, File: s.LogFile}); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}

	r, err := config.LoadRegistry()
	if err != nil {
		return fmt.Errorf("failed to load cluster registry: %w", err)
	}

	settings = s
	registry = r
	return nil
}

// isWizard reports whether cmd runs the TUI: the bare root command or
// the wizard subcommand
func isWizard(cmd *cobra.Command) bool {
	return !cmd.HasParent() || cmd == wizardCmd
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	// version needs neither settings nor a registry
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("ceph-telemetry %s\n", version.Full())
	},
}
