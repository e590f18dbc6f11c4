package wizard_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muurk/ceph-telemetry/internal/dashboard"
	"github.com/muurk/ceph-telemetry/internal/stub"
	"github.com/muurk/ceph-telemetry/internal/wizard"
)

type presenter struct {
	mu       sync.Mutex
	kinds    []wizard.NotificationKind
	notice   bool
	landings int
}

func (p *presenter) Notify(kind wizard.NotificationKind, message string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.kinds = append(p.kinds, kind)
}

func (p *presenter) SetDisabledNoticeVisible(visible bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.notice = visible
}

func (p *presenter) NavigateLanding() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.landings++
}

func newStubWizard(t *testing.T) (*wizard.Wizard, *stub.State, *presenter) {
	t.Helper()
	creds := stub.Credentials{Username: "admin", Password: "secret"}
	state := stub.NewState()
	server := httptest.NewServer(stub.NewHandler(state, creds))
	t.Cleanup(server.Close)

	client := dashboard.NewClient(server.URL)
	client.SetAuth(creds.Username, creds.Password)

	p := &presenter{}
	w := wizard.New(wizard.FromBackend(client, wizard.Presenter{Notifier: p, Navigator: p}))
	require.NoError(t, w.Init(context.Background()))
	return w, state, p
}

func TestWizardAgainstStub_OptIn(t *testing.T) {
	w, state, p := newStubWizard(t)
	ctx := context.Background()

	assert.Len(t, w.Options(), len(wizard.RequiredFields))
	assert.False(t, w.ModuleEnabled())

	require.NoError(t, w.SetOption("interval", "48"))
	require.NoError(t, w.ToggleOption("channel_crash"))
	require.NoError(t, w.Next(ctx))

	assert.Equal(t, wizard.StepPreview, w.Step())
	assert.Equal(t, []string{"basic", "device"}, w.Report().Channels())
	assert.Equal(t, state.ReportIDs()[0], w.ReportID())

	require.NoError(t, w.AcceptLicense(true))
	require.NoError(t, w.Submit(ctx))

	assert.True(t, state.Enabled())
	cfg := state.Config()
	assert.Equal(t, int64(48), cfg["interval"])
	assert.Equal(t, false, cfg["channel_crash"])
	assert.Equal(t, []wizard.NotificationKind{wizard.NotifySuccess}, p.kinds)
	assert.Equal(t, 1, p.landings)
	assert.Empty(t, w.PendingDelta())
}

func TestWizardAgainstStub_PartialSubmitFailure(t *testing.T) {
	w, state, p := newStubWizard(t)
	ctx := context.Background()

	require.NoError(t, w.SetOption("contact", "ops@example.com"))
	require.NoError(t, w.Next(ctx))
	require.NoError(t, w.AcceptLicense(true))

	state.FailOn(http.MethodPut, "/api/mgr/module/telemetry", http.StatusInternalServerError)
	require.Error(t, w.Submit(ctx))

	assert.True(t, state.Enabled(), "the enable request still completes")
	assert.Equal(t, []wizard.NotificationKind{wizard.NotifyError}, p.kinds)
	assert.Equal(t, 0, p.landings)
	assert.Equal(t, map[string]any{"contact": "ops@example.com"}, w.PendingDelta())

	state.ClearFailures()
	require.NoError(t, w.Submit(ctx))
	assert.Equal(t, "ops@example.com", state.Config()["contact"])
}

func TestWizardAgainstStub_Disable(t *testing.T) {
	w, state, p := newStubWizard(t)
	ctx := context.Background()
	state.Set("enabled", true)

	require.NoError(t, w.DisableModule(ctx, "Telemetry is off", nil))
	assert.False(t, state.Enabled())
	assert.True(t, p.notice)
	assert.Equal(t, 1, p.landings)
}

func TestWizardAgainstStub_ReportFailure(t *testing.T) {
	w, state, _ := newStubWizard(t)
	state.FailOn(http.MethodGet, "/api/telemetry/report", http.StatusInternalServerError)

	err := w.Next(context.Background())
	require.Error(t, err)
	assert.True(t, dashboard.IsHTTPError(err))
	assert.Equal(t, wizard.StepConfigure, w.Step())
	assert.Error(t, w.Err())
}
