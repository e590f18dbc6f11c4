package wizard

import (
	"context"

	"github.com/muurk/ceph-telemetry/internal/dashboard"
)

// OptionsReader returns the option descriptors of a manager module
type OptionsReader interface {
	GetOptions(ctx context.Context, module string) (dashboard.Options, error)
}

// ConfigStore reads and persists the configuration of a manager module
type ConfigStore interface {
	GetConfig(ctx context.Context, module string) (dashboard.ModuleConfig, error)
	UpdateConfig(ctx context.Context, module string, delta map[string]any) error
}

// ReportFetcher returns a freshly generated telemetry report
type ReportFetcher interface {
	GetReport(ctx context.Context) (dashboard.Report, error)
}

// Toggler switches telemetry on or off
type Toggler interface {
	Enable(ctx context.Context, enable bool) error
}

// Backend is a single collaborator implementing every dashboard call.
// *dashboard.Client satisfies it.
type Backend interface {
	OptionsReader
	ConfigStore
	ReportFetcher
	Toggler
}

// NotificationKind classifies a user-facing notification
type NotificationKind int

const (
	NotifySuccess NotificationKind = iota
	NotifyError
	NotifyInfo
)

func (k NotificationKind) String() string {
	switch k {
	case NotifySuccess:
		return "success"
	case NotifyError:
		return "error"
	default:
		return "info"
	}
}

// Notifier shows transient notifications and the standing
// "telemetry is disabled" notice.
type Notifier interface {
	Notify(kind NotificationKind, message string)
	SetDisabledNoticeVisible(visible bool)
}

// Navigator leaves the wizard for the landing view
type Navigator interface {
	NavigateLanding()
}

// Downloader hands text to the user as a file
type Downloader interface {
	Download(content, fileName string) error
}

// Collaborators bundles everything a Wizard talks to.
// Nil presentation collaborators are replaced by no-ops.
type Collaborators struct {
	Options OptionsReader
	Config  ConfigStore
	Reports ReportFetcher
	Toggle  Toggler

	Notifier   Notifier
	Navigator  Navigator
	Downloader Downloader

	// Module defaults to dashboard.TelemetryModule
	Module string
}

// Presenter groups the presentation-side collaborators
type Presenter struct {
	Notifier   Notifier
	Navigator  Navigator
	Downloader Downloader
}

// FromBackend wires one Backend into every API collaborator slot
func FromBackend(b Backend, p Presenter) Collaborators {
	return Collaborators{
		Options:    b,
		Config:     b,
		Reports:    b,
		Toggle:     b,
		Notifier:   p.Notifier,
		Navigator:  p.Navigator,
		Downloader: p.Downloader,
	}
}

type nopNotifier struct{}

func (nopNotifier) Notify(NotificationKind, string) {}
func (nopNotifier) SetDisabledNoticeVisible(bool)   {}

type nopNavigator struct{}

func (nopNavigator) NavigateLanding() {}
