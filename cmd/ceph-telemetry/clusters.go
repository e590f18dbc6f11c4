package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/muurk/ceph-telemetry/internal/ui"
)

var makeDefault bool

func init() {
	rootCmd.AddCommand(clustersCmd)
	clustersCmd.AddCommand(clustersListCmd)
	clustersCmd.AddCommand(clustersAddCmd)
	clustersCmd.AddCommand(clustersRemoveCmd)

	clustersAddCmd.Flags().BoolVar(&makeDefault, "default", false, "Use this cluster when --cluster is not given")
}

// clustersCmd manages the cluster registry
var clustersCmd = &cobra.Command{
	Use:   "clusters",
	Short: "Manage remembered clusters",
	Long: `Manage the registry of named clusters.

A registered cluster remembers its dashboard URL, user name and TLS setting so
that --cluster NAME can replace --url, --user and --insecure. Passwords are
never stored.`,
}

var clustersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered clusters",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		names := registry.Names()
		if len(names) == 0 {
			printer.Println("No clusters registered. Add one with 'ceph-telemetry clusters add NAME --url URL'.")
			return nil
		}

		for _, name := range names {
			c := registry.GetCluster(name)
			marker := "  "
			if name == registry.Default {
				marker = "* "
			}

			var b strings.Builder
			fmt.Fprintf(&b, "%s%-16s %s", marker, name, c.URL)
			if c.Username != "" {
				fmt.Fprintf(&b, " (user %s)", c.Username)
			}
			if c.Insecure {
				b.WriteString(" [insecure]")
			}
			switch {
			case c.Enabled == nil:
				b.WriteString("  telemetry: unknown")
			case *c.Enabled:
				b.WriteString("  telemetry: on")
			default:
				b.WriteString("  telemetry: off")
			}
			if !c.LastSeen.IsZero() {
				fmt.Fprintf(&b, "  last seen %s", c.LastSeen.Local().Format(time.DateTime))
			}
			if c.LastReportID != "" {
				fmt.Fprintf(&b, "  last report %s", c.LastReportID)
			}
			printer.Println(b.String())
		}
		return nil
	},
}

var clustersAddCmd = &cobra.Command{
	Use:   "add NAME",
	Short: "Register or update a cluster",
	Example: `  # Register a cluster and make it the default
  ceph-telemetry clusters add prod --url https://mgr-a:8443 --user admin --default`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		if settings.URL == "" {
			return fmt.Errorf("--url is required to register %s", name)
		}

		registry.SetCluster(name, settings.URL, settings.Username, settings.Insecure)
		if makeDefault {
			registry.Default = name
		}
		if err := registry.Save(); err != nil {
			return fmt.Errorf("failed to save cluster registry: %w", err)
		}

		printer.PrintSuccess("Cluster registered",
			ui.Param{Key: "Name", Value: name},
			ui.Param{Key: "Dashboard", Value: settings.URL},
			ui.Param{Key: "Default", Value: fmt.Sprint(registry.Default == name)},
			ui.Param{Key: "Registry", Value: registry.Path()},
		)
		return nil
	},
}

var clustersRemoveCmd = &cobra.Command{
	Use:   "remove NAME",
	Short: "Forget a cluster",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !registry.RemoveCluster(args[0]) {
			return fmt.Errorf("cluster %q is not registered", args[0])
		}
		if err := registry.Save(); err != nil {
			return fmt.Errorf("failed to save cluster registry: %w", err)
		}
		printer.Println(fmt.Sprintf("Removed %s.", args[0]))
		return nil
	},
}
