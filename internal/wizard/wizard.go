package wizard

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/muurk/ceph-telemetry/internal/dashboard"
	"github.com/muurk/ceph-telemetry/internal/form"
	"github.com/muurk/ceph-telemetry/internal/logging"
)

// Step is the wizard's position in the flow
type Step int

const (
	StepConfigure Step = 1
	StepPreview   Step = 2
)

func (s Step) String() string {
	switch s {
	case StepConfigure:
		return "configure"
	case StepPreview:
		return "preview"
	default:
		return fmt.Sprintf("Step(%d)", int(s))
	}
}

// Wizard is the controller of one opt-in session
type Wizard struct {
	c      Collaborators
	module string

	loaded bool
	err    error
	step   Step

	moduleEnabled   bool
	sendToURL       string
	sendToDeviceURL string

	options     []dashboard.OptionDescriptor
	config      map[string]any
	configForm  *form.Form
	previewForm *form.Form

	report   dashboard.Report
	reportID string
	delta    map[string]any

	showContactInfo bool
}

// New creates a Wizard. Call Init before any other action.
func New(c Collaborators) *Wizard {
	if c.Notifier == nil {
		c.Notifier = nopNotifier{}
	}
	if c.Navigator == nil {
		c.Navigator = nopNavigator{}
	}
	module := c.Module
	if module == "" {
		module = dashboard.TelemetryModule
	}
	return &Wizard{
		c:      c,
		module: module,
		step:   StepConfigure,
		delta:  map[string]any{},
	}
}

// Init loads the module options and configuration concurrently and builds
// the configuration form. If either read fails the wizard enters the load
// error state and no form is exposed.
func (w *Wizard) Init(ctx context.Context) error {
	w.loaded = false
	w.err = nil
	w.step = StepConfigure
	w.configForm = nil
	w.previewForm = nil
	w.report = nil
	w.reportID = ""
	w.delta = map[string]any{}

	var (
		opts dashboard.Options
		cfg  dashboard.ModuleConfig
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		o, err := w.c.Options.GetOptions(gctx, w.module)
		if err != nil {
			return fmt.Errorf("load %s options: %w", w.module, err)
		}
		opts = o
		return nil
	})
	g.Go(func() error {
		c, err := w.c.Config.GetConfig(gctx, w.module)
		if err != nil {
			return fmt.Errorf("load %s configuration: %w", w.module, err)
		}
		cfg = c
		return nil
	})
	if err := g.Wait(); err != nil {
		w.err = err
		logging.Error("Failed to load telemetry module", zap.Error(err))
		return err
	}

	w.moduleEnabled = cfg.Enabled()
	w.sendToURL = cfg.URL()
	w.sendToDeviceURL = cfg.DeviceURL()
	w.options = opts.Pick(RequiredFields)
	w.config = cfg.Pick(RequiredFields)
	w.configForm = buildConfigForm(w.options, w.config)
	w.loaded = true

	logging.Info("Telemetry module loaded",
		zap.Bool("enabled", w.moduleEnabled),
		zap.Int("options", len(w.options)),
	)
	return nil
}

// Next advances from the configure step to the preview step. An untouched
// form fetches the report straight away. An edited form is validated first;
// the previous delta is dropped and, if any field is invalid, the form is
// marked as failed and nothing is sent. Otherwise the dirty, valid fields
// become the pending delta.
func (w *Wizard) Next(ctx context.Context) error {
	if !w.loaded {
		return ErrNotLoaded
	}
	if w.step != StepConfigure {
		return ErrWrongStep
	}

	if !w.configForm.Pristine() {
		w.delta = map[string]any{}
		if !w.configForm.Valid() {
			w.configForm.MarkSubmitFailed()
			return fmt.Errorf("%w: %s", ErrInvalidForm, strings.Join(w.invalidFields(), ", "))
		}
		w.configForm.ClearSubmitFailed()
		w.delta = w.configForm.DirtyValues()
	}

	return w.fetchReport(ctx)
}

func (w *Wizard) invalidFields() []string {
	var names []string
	for name := range w.configForm.Errors() {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// fetchReport loads a fresh report, applies the pending channel changes and
// builds the preview form.
func (w *Wizard) fetchReport(ctx context.Context) error {
	w.err = nil
	report, err := w.c.Reports.GetReport(ctx)
	if err != nil {
		w.err = fmt.Errorf("fetch telemetry report: %w", err)
		logging.Error("Failed to fetch telemetry report", zap.Error(err))
		return w.err
	}

	w.report = report
	w.reportID = report.ReportID()
	ReconcileChannels(report, w.delta)

	text, err := report.MarshalIndent()
	if err != nil {
		w.err = fmt.Errorf("render telemetry report: %w", err)
		return w.err
	}
	w.previewForm = buildPreviewForm(text, w.reportID)

	logging.LogStep(int(w.step), int(w.step+1), "next")
	w.step++
	return nil
}

// Back returns to the configure step. Nothing is cleared or re-fetched.
func (w *Wizard) Back() error {
	if w.step <= StepConfigure {
		return ErrWrongStep
	}
	logging.LogStep(int(w.step), int(w.step-1), "back")
	w.step--
	return nil
}

// Submit enables telemetry and persists the pending delta concurrently.
// On success the delta is cleared and the wizard navigates to the landing
// view. On failure an error is shown, the preview form is marked as failed
// so it can be submitted again, and the delta is kept.
func (w *Wizard) Submit(ctx context.Context) error {
	if !w.loaded {
		return ErrNotLoaded
	}
	if w.step != StepPreview || w.previewForm == nil {
		return ErrWrongStep
	}
	if !w.previewForm.Valid() {
		w.previewForm.MarkSubmitFailed()
		return ErrConsentRequired
	}

	// Both requests run to completion; a failure of one does not cancel the other.
	delta := maps.Clone(w.delta)
	var g errgroup.Group
	g.Go(func() error {
		if err := w.c.Toggle.Enable(ctx, true); err != nil {
			return fmt.Errorf("enable telemetry: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := w.c.Config.UpdateConfig(ctx, w.module, delta); err != nil {
			return fmt.Errorf("update %s configuration: %w", w.module, err)
		}
		return nil
	})

	err := g.Wait()
	w.c.Notifier.SetDisabledNoticeVisible(false)
	if err != nil {
		logging.Error("Telemetry submission failed", zap.Error(err))
		w.c.Notifier.Notify(NotifyError, SubmitErrorMessage)
		w.previewForm.MarkSubmitFailed()
		return err
	}

	logging.Info("Telemetry enabled", zap.Int("changed_options", len(delta)))
	w.c.Notifier.Notify(NotifySuccess, SubmitSuccessMessage)
	w.previewForm.ClearSubmitFailed()
	w.moduleEnabled = true
	for name, v := range delta {
		w.config[name] = v
	}
	w.delta = map[string]any{}
	w.c.Navigator.NavigateLanding()
	return nil
}

// DisableModule switches telemetry off. On success the disabled notice is
// shown, message (if any) is shown as a success notification, and followUp
// runs instead of navigating to the landing view when it is non-nil.
// A failure is shown as an error notification and returned; nothing else
// changes.
func (w *Wizard) DisableModule(ctx context.Context, message string, followUp func()) error {
	if err := w.c.Toggle.Enable(ctx, false); err != nil {
		logging.Error("Failed to disable telemetry", zap.Error(err))
		w.c.Notifier.Notify(NotifyError, fmt.Sprintf(disableErrorFmt, dashboard.GetShortErrorMessage(err)))
		return fmt.Errorf("disable telemetry: %w", err)
	}

	logging.Info("Telemetry disabled")
	w.moduleEnabled = false
	w.c.Notifier.SetDisabledNoticeVisible(true)
	if message != "" {
		w.c.Notifier.Notify(NotifySuccess, message)
	}
	if followUp != nil {
		followUp()
	} else {
		w.c.Navigator.NavigateLanding()
	}
	return nil
}

// Download hands v to the Downloader as JSON with a two space indent
func (w *Wizard) Download(v any, fileName string) error {
	if w.c.Downloader == nil {
		return errors.New("no downloader configured")
	}
	text, err := dashboard.MarshalPretty(v)
	if err != nil {
		return fmt.Errorf("render %s: %w", fileName, err)
	}
	return w.c.Downloader.Download(text, fileName)
}

// ToggleContactInfo flips the visibility of the contact fields
func (w *Wizard) ToggleContactInfo() bool {
	w.showContactInfo = !w.showContactInfo
	return w.showContactInfo
}

// SetContactInfo shows or hides the contact fields
func (w *Wizard) SetContactInfo(show bool) {
	w.showContactInfo = show
}

// SetOption records an edit typed by the operator on the configure step
func (w *Wizard) SetOption(name, text string) error {
	d, err := w.editable(name)
	if err != nil {
		return err
	}
	v, err := ParseValue(d, text)
	if err != nil {
		return err
	}
	return w.configForm.Set(name, v)
}

// ToggleOption flips a bool option on the configure step
func (w *Wizard) ToggleOption(name string) error {
	d, err := w.editable(name)
	if err != nil {
		return err
	}
	if d.Type != "bool" {
		return fmt.Errorf("%s is a %s option, not bool", name, d.Type)
	}
	on, _ := w.configForm.Value(name).(bool)
	return w.configForm.Set(name, !on)
}

func (w *Wizard) editable(name string) (dashboard.OptionDescriptor, error) {
	if !w.loaded {
		return dashboard.OptionDescriptor{}, ErrNotLoaded
	}
	if w.step != StepConfigure {
		return dashboard.OptionDescriptor{}, ErrWrongStep
	}
	for _, d := range w.options {
		if d.Name == name {
			return d, nil
		}
	}
	return dashboard.OptionDescriptor{}, fmt.Errorf("%w: %s", ErrUnknownOption, name)
}

// AcceptLicense sets the consent checkbox on the preview step
func (w *Wizard) AcceptLicense(accepted bool) error {
	if w.step != StepPreview || w.previewForm == nil {
		return ErrWrongStep
	}
	return w.previewForm.Set(FieldLicense, accepted)
}

// Loaded reports whether Init completed successfully
func (w *Wizard) Loaded() bool { return w.loaded }

// Err returns the blocking error of the last Init or report fetch, if any
func (w *Wizard) Err() error { return w.err }

// Step returns the current step
func (w *Wizard) Step() Step { return w.step }

// Module returns the manager module being configured
func (w *Wizard) Module() string { return w.module }

// ModuleEnabled reports whether telemetry is on
func (w *Wizard) ModuleEnabled() bool { return w.moduleEnabled }

// SendToURL is where the report is sent
func (w *Wizard) SendToURL() string { return w.sendToURL }

// SendToDeviceURL is where the device report is sent
func (w *Wizard) SendToDeviceURL() string { return w.sendToDeviceURL }

// Options returns the offered option descriptors in display order
func (w *Wizard) Options() []dashboard.OptionDescriptor {
	return append([]dashboard.OptionDescriptor(nil), w.options...)
}

// CurrentConfig returns the persisted values of the offered options
func (w *Wizard) CurrentConfig() dashboard.ModuleConfig {
	return dashboard.ModuleConfig(maps.Clone(w.config))
}

// ConfigForm returns the configuration form, or nil before a successful Init
func (w *Wizard) ConfigForm() *form.Form {
	if !w.loaded {
		return nil
	}
	return w.configForm
}

// PreviewForm returns the preview form, or nil before the first report fetch
func (w *Wizard) PreviewForm() *form.Form { return w.previewForm }

// Report returns the last fetched report with reconciled channels
func (w *Wizard) Report() dashboard.Report { return w.report }

// ReportID returns the id of the last fetched report
func (w *Wizard) ReportID() string { return w.reportID }

// ReportText returns the report as shown on the preview step
func (w *Wizard) ReportText() string {
	if w.previewForm == nil {
		return ""
	}
	text, _ := w.previewForm.Value(FieldReport).(string)
	return text
}

// PendingDelta returns a copy of the edits that Submit will persist
func (w *Wizard) PendingDelta() map[string]any {
	return maps.Clone(w.delta)
}

// ShowContactInfo reports whether the contact fields are visible
func (w *Wizard) ShowContactInfo() bool { return w.showContactInfo }
