package main

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/muurk/ceph-telemetry/internal/dashboard"
	"github.com/muurk/ceph-telemetry/internal/logging"
	"github.com/muurk/ceph-telemetry/internal/ui"
	"github.com/muurk/ceph-telemetry/internal/wizard"
)

// Prompts and styled output; tests swap them
var (
	prompter ui.Prompter = ui.NewHuhPrompter()
	printer              = ui.NewPrinter(os.Stdout)
)

// reportedError is an error that has already been shown to the operator
type reportedError struct {
	err error
}

func (e reportedError) Error() string { return e.err.Error() }
func (e reportedError) Unwrap() error { return e.err }

// fail prints an error box with troubleshooting tips and marks err as reported
func fail(title string, err error) error {
	printer.PrintError(title, err, dashboard.GetTroubleshootingHint(err))
	return reportedError{err: err}
}

// target is a resolved dashboard connection
type target struct {
	client *dashboard.Client

	// name is the registry entry, empty when --url was used on its own
	name string

	// label names the cluster in output and download file names
	label string
}

// connect resolves the dashboard from flags, environment and registry,
// asks for a missing password and checks that the dashboard answers.
func connect(ctx context.Context) (*target, error) {
	name, cluster := registry.Resolve(settings.Cluster)
	if settings.Cluster != "" && cluster == nil {
		return nil, fmt.Errorf("cluster %q is not in the registry %s", settings.Cluster, registry.Path())
	}
	settings.ApplyCluster(cluster)

	if settings.URL == "" {
		return nil, errors.New("no dashboard URL: pass --url, set CEPH_TELEMETRY_URL, or add a cluster with 'ceph-telemetry clusters add'")
	}

	if settings.Username != "" && settings.Password == "" {
		password, err := prompter.Password(fmt.Sprintf("Dashboard password for %s", settings.Username))
		if err != nil {
			if errors.Is(err, ui.ErrNotInteractive) {
				return nil, errors.New("a dashboard password is required: pass --password or set CEPH_TELEMETRY_PASSWORD")
			}
			return nil, err
		}
		settings.Password = password
	}

	client := dashboard.NewClient(settings.URL)
	client.SetTimeout(settings.Timeout)
	client.SetInsecure(settings.Insecure)
	if settings.Username != "" {
		client.SetAuth(settings.Username, settings.Password)
	}

	if err := client.Ping(ctx); err != nil {
		return nil, fail("Cannot reach the Ceph dashboard", err)
	}

	label := name
	if label == "" {
		label = hostLabel(settings.URL)
	}
	logging.Info("Connected to dashboard",
		zap.String("url", settings.URL),
		zap.String("cluster", label),
	)
	return &target{client: client, name: name, label: label}, nil
}

// hostLabel turns a dashboard URL into a short cluster label
func hostLabel(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Hostname() == "" {
		return strings.TrimSuffix(raw, "/")
	}
	return u.Hostname()
}

// connectionParams describes the connection in command headers
func (t *target) connectionParams() []ui.Param {
	params := []ui.Param{{Key: "Dashboard", Value: settings.URL}}
	if t.name != "" {
		params = append(params, ui.Param{Key: "Cluster", Value: t.name})
	}
	if settings.Username != "" {
		params = append(params, ui.Param{Key: "User", Value: settings.Username})
	}
	return params
}

// recordContact remembers the telemetry state of a registered cluster.
// Registry errors are logged, never fatal.
func (t *target) recordContact(enabled bool) {
	if t.name == "" {
		return
	}
	registry.RecordContact(t.name, enabled)
	saveRegistry()
}

// recordReport remembers the last previewed report of a registered cluster
func (t *target) recordReport(reportID string) {
	if t.name == "" || reportID == "" {
		return
	}
	registry.RecordReport(t.name, reportID)
	saveRegistry()
}

func saveRegistry() {
	if err := registry.Save(); err != nil {
		logging.Warn("Failed to save cluster registry", zap.Error(err))
	}
}

// cliPresenter keeps the wizard's last notification for the result box
type cliPresenter struct {
	kind    wizard.NotificationKind
	message string
}

func (p *cliPresenter) Notify(kind wizard.NotificationKind, message string) {
	p.kind = kind
	p.message = message
	logging.Debug("Wizard notification", zap.Stringer("kind", kind), zap.String("message", message))
}

func (p *cliPresenter) SetDisabledNoticeVisible(bool) {}

func (p *cliPresenter) NavigateLanding() {}

// newWizard builds a controller for one command run
func (t *target) newWizard(p *cliPresenter) *wizard.Wizard {
	return wizard.New(wizard.FromBackend(t.client, wizard.Presenter{
		Notifier:   p,
		Navigator:  p,
		Downloader: wizard.FileDownloader{Dir: settings.DownloadDir},
	}))
}
