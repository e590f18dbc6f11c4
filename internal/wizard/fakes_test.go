package wizard

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/muurk/ceph-telemetry/internal/dashboard"
)

// fakeBackend is an in-memory Backend with per-call failure injection
type fakeBackend struct {
	mu sync.Mutex

	options dashboard.Options
	config  dashboard.ModuleConfig
	report  string

	optionsErr error
	configErr  error
	reportErr  error
	enableErr  error
	updateErr  error

	reportCalls int
	enableCalls []bool
	updates     []map[string]any
}

const testReport = `{"report": {"report_id": "8c3d4e6a-0b5f-4d1e-9a3e-2f1c0d9b8a7e",
  "channels": ["basic", "crash"], "channels_available": ["basic", "crash", "device", "ident"]}}`

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		options: dashboard.Options{
			"channel_basic":  {Name: "channel_basic", Type: "bool", DefaultValue: true},
			"channel_crash":  {Name: "channel_crash", Type: "bool", DefaultValue: true},
			"channel_device": {Name: "channel_device", Type: "bool", DefaultValue: true},
			"channel_ident":  {Name: "channel_ident", Type: "bool", DefaultValue: false},
			"interval":       {Name: "interval", Type: "int", DefaultValue: json.Number("24"), Min: json.Number("0"), Max: json.Number("100")},
			"proxy":          {Name: "proxy", Type: "str", DefaultValue: "", Min: "", Max: ""},
			"contact":        {Name: "contact", Type: "str", DefaultValue: "", Max: json.Number("20")},
			"description":    {Name: "description", Type: "str", DefaultValue: ""},
			"leaderboard":    {Name: "leaderboard", Type: "bool", DefaultValue: false},
		},
		config: dashboard.ModuleConfig{
			"enabled":        false,
			"url":            "https://telemetry.ceph.com/report",
			"device_url":     "https://telemetry.ceph.com/device",
			"channel_basic":  true,
			"channel_crash":  false,
			"channel_device": true,
			"channel_ident":  false,
			"interval":       json.Number("24"),
			"proxy":          "",
			"contact":        "",
			"description":    "",
			"leaderboard":    false,
		},
		report: testReport,
	}
}

func (f *fakeBackend) GetOptions(ctx context.Context, module string) (dashboard.Options, error) {
	if f.optionsErr != nil {
		return nil, f.optionsErr
	}
	return f.options, nil
}

func (f *fakeBackend) GetConfig(ctx context.Context, module string) (dashboard.ModuleConfig, error) {
	if f.configErr != nil {
		return nil, f.configErr
	}
	return f.config, nil
}

func (f *fakeBackend) UpdateConfig(ctx context.Context, module string, delta map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, delta)
	return f.updateErr
}

func (f *fakeBackend) GetReport(ctx context.Context) (dashboard.Report, error) {
	f.mu.Lock()
	f.reportCalls++
	f.mu.Unlock()
	if f.reportErr != nil {
		return nil, f.reportErr
	}
	dec := json.NewDecoder(strings.NewReader(f.report))
	dec.UseNumber()
	var r dashboard.Report
	if err := dec.Decode(&r); err != nil {
		return nil, err
	}
	return r, nil
}

func (f *fakeBackend) Enable(ctx context.Context, enable bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.enableCalls = append(f.enableCalls, enable)
	return f.enableErr
}

type notification struct {
	kind    NotificationKind
	message string
}

// recorder captures presentation side effects
type recorder struct {
	notifications []notification
	noticeVisible []bool
	landings      int
	downloads     map[string]string
}

func (r *recorder) Notify(kind NotificationKind, message string) {
	r.notifications = append(r.notifications, notification{kind, message})
}

func (r *recorder) SetDisabledNoticeVisible(visible bool) {
	r.noticeVisible = append(r.noticeVisible, visible)
}

func (r *recorder) NavigateLanding() { r.landings++ }

func (r *recorder) Download(content, fileName string) error {
	if r.downloads == nil {
		r.downloads = map[string]string{}
	}
	r.downloads[fileName] = content
	return nil
}

func (r *recorder) last() notification {
	if len(r.notifications) == 0 {
		return notification{}
	}
	return r.notifications[len(r.notifications)-1]
}

func newTestWizard(b *fakeBackend) (*Wizard, *recorder) {
	rec := &recorder{}
	w := New(FromBackend(b, Presenter{Notifier: rec, Navigator: rec, Downloader: rec}))
	return w, rec
}
