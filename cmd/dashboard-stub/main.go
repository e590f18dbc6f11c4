// Dashboard-stub serves an in-memory imitation of the Ceph dashboard REST API.
//
// It implements the endpoints the telemetry wizard talks to: token login,
// the manager module options and configuration, the telemetry report and
// the telemetry toggle. Option descriptors mirror those of a real cluster,
// every report gets a fresh id, and the report channels follow the stored
// configuration. Nothing is persisted.
//
// Usage:
//
//	dashboard-stub serve [flags]
//
// See 'dashboard-stub serve --help' for available options.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/muurk/ceph-telemetry/internal/logging"
	"github.com/muurk/ceph-telemetry/internal/stub"
	"github.com/muurk/ceph-telemetry/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "dashboard-stub",
	Short: "Ceph dashboard API stub",
	Long: `A standalone stand-in for the Ceph dashboard REST API.

Point ceph-telemetry at it to try the opt-in flow without a cluster:

  dashboard-stub serve --port 8080 &
  ceph-telemetry --url http://localhost:8080`,
	Version: version.Version,
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

// Serve command flags
var (
	host     string
	port     int
	username string
	password string
	useTLS   bool
	certPath string
	keyPath  string
	logLevel string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the stub dashboard",
	Long: `Start the stub dashboard API.

Without --user every request is accepted. With --user and --password the
stub issues bearer tokens from POST /api/auth and rejects requests without
a valid one.

With --tls the stub serves HTTPS using a self-signed certificate, or the
certificate given with --cert and --key. Clients need --insecure to accept
the self-signed one.`,
	Example: `  # Plain HTTP, no authentication
  dashboard-stub serve

  # With credentials on a custom port
  dashboard-stub serve --port 9443 --user admin --password secret

  # HTTPS with a generated certificate
  dashboard-stub serve --tls --log-level debug`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&host, "host", "", "Listen address (empty = all interfaces)")
	serveCmd.Flags().IntVar(&port, "port", 8080, "Listen port")
	serveCmd.Flags().StringVar(&username, "user", "", "Require this user name (enables token authentication)")
	serveCmd.Flags().StringVar(&password, "password", "", "Password for --user")
	serveCmd.Flags().BoolVar(&useTLS, "tls", false, "Serve HTTPS")
	serveCmd.Flags().StringVar(&certPath, "cert", "", "Path to TLS certificate file (optional with --tls, generated if not provided)")
	serveCmd.Flags().StringVar(&keyPath, "key", "", "Path to TLS private key file")
	serveCmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
}

func runServe(cmd *cobra.Command, args []string) error {
	// Validate: Either both cert and key are provided, or neither
	if (certPath != "" && keyPath == "") || (certPath == "" && keyPath != "") {
		return fmt.Errorf("both --cert and --key must be provided together, or neither (will auto-generate)")
	}
	if certPath != "" {
		if _, err := os.Stat(certPath); os.IsNotExist(err) {
			return fmt.Errorf("certificate file not found: %s", certPath)
		}
		if _, err := os.Stat(keyPath); os.IsNotExist(err) {
			return fmt.Errorf("private key file not found: %s", keyPath)
		}
		useTLS = true
	}
	if username == "" && password != "" {
		return fmt.Errorf("--password needs --user")
	}

	if err := logging.Initialize(logging.Options{Level: logLevel}); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}

	config := &stub.Config{
		Host:        host,
		Port:        port,
		Credentials: stub.Credentials{Username: username, Password: password},
		TLS:         useTLS,
		CertPath:    certPath,
		KeyPath:     keyPath,
	}

	srv, err := stub.New(config, nil)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("dashboard-stub %s\n", version.Full())
	},
}
