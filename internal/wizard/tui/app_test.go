package tui

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muurk/ceph-telemetry/internal/dashboard"
	"github.com/muurk/ceph-telemetry/internal/stub"
	"github.com/muurk/ceph-telemetry/internal/wizard"
)

const reportPath = "/api/telemetry/report"

// newTestModel starts a stub dashboard and returns a model that has not run Init yet
func newTestModel(t *testing.T) (AppModel, *stub.State, string) {
	t.Helper()
	creds := stub.Credentials{Username: "admin", Password: "secret"}
	state := stub.NewState()
	server := httptest.NewServer(stub.NewHandler(state, creds))
	t.Cleanup(server.Close)

	client := dashboard.NewClient(server.URL)
	client.SetAuth(creds.Username, creds.Password)

	dir := t.TempDir()
	m := NewAppModel(context.Background(), client, Options{Cluster: "prod east", DownloadDir: dir})
	return m, state, dir
}

// loadedModel returns a model past Init
func loadedModel(t *testing.T) (AppModel, *stub.State, string) {
	t.Helper()
	m, state, dir := newTestModel(t)
	m = run(m, m.Init())
	require.Equal(t, ScreenConfigure, m.Screen)
	return m, state, dir
}

// run executes cmd and feeds wizard results back into the model.
// Spinner ticks are dropped.
func run(m AppModel, cmd tea.Cmd) AppModel {
	if cmd == nil {
		return m
	}
	msg := cmd()
	batch, ok := msg.(tea.BatchMsg)
	if !ok {
		batch = tea.BatchMsg{func() tea.Msg { return msg }}
	}
	for _, c := range batch {
		if c == nil {
			continue
		}
		switch res := c().(type) {
		case loadedMsg, nextMsg, submitMsg, disableMsg:
			updated, _ := m.Update(res)
			m = updated.(AppModel)
		}
	}
	return m
}

// press sends keys one by one, completing any wizard action they start
func press(m AppModel, keys ...string) AppModel {
	for _, k := range keys {
		updated, cmd := m.Update(keyMsg(k))
		m = updated.(AppModel)
		if m.busy {
			m = run(m, cmd)
		}
	}
	return m
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+u":
		return tea.KeyMsg{Type: tea.KeyCtrlU}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
}

func TestAppModel_Loads(t *testing.T) {
	m, _, _ := loadedModel(t)

	assert.False(t, m.busy)
	assert.True(t, m.presenter.NoticeVisible(), "telemetry starts disabled")
	assert.Len(t, m.visibleOptions(), len(wizard.RequiredFields)-len(wizard.ContactFields))
	assert.Contains(t, m.View(), "channel_basic")
}

func TestAppModel_IgnoresKeysWhileBusy(t *testing.T) {
	m, _, _ := newTestModel(t)
	require.True(t, m.busy)

	updated, cmd := m.Update(keyMsg("q"))
	assert.Nil(t, cmd)
	assert.Equal(t, ScreenLoading, updated.(AppModel).Screen)

	_, cmd = m.Update(keyMsg("ctrl+c"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestAppModel_OptIn(t *testing.T) {
	m, state, _ := loadedModel(t)

	// interval is the fifth row
	m = press(m, "down", "down", "down", "down", "enter", "ctrl+u", "4", "8", "enter")
	assert.False(t, m.editing)
	assert.Equal(t, int64(48), m.wiz.ConfigForm().Value("interval"))

	// channel_crash
	m = press(m, "up", "up", "up", " ")
	assert.Equal(t, false, m.wiz.ConfigForm().Value("channel_crash"))

	m = press(m, "n")
	require.Equal(t, ScreenPreview, m.Screen)
	assert.Equal(t, []string{"basic", "device"}, m.wiz.Report().Channels())
	assert.Contains(t, m.View(), m.wiz.ReportID())

	// submitting without consent is refused locally
	m = press(m, "s")
	assert.Equal(t, ScreenPreview, m.Screen)
	assert.Equal(t, wizard.NotifyError, m.status.Kind)
	assert.False(t, state.Enabled())

	m = press(m, " ", "s")
	require.Equal(t, ScreenDone, m.Screen)
	assert.True(t, m.Outcome().Enabled)
	assert.Equal(t, state.ReportIDs()[0], m.Outcome().ReportID)
	assert.Equal(t, wizard.SubmitSuccessMessage, m.Outcome().Message)
	assert.False(t, m.presenter.NoticeVisible())

	assert.True(t, state.Enabled())
	assert.Equal(t, int64(48), state.Config()["interval"])
	assert.Equal(t, false, state.Config()["channel_crash"])
}

func TestAppModel_EditCancel(t *testing.T) {
	m, _, _ := loadedModel(t)

	m = press(m, "down", "down", "down", "down", "enter", "ctrl+u", "9", "esc")
	assert.False(t, m.editing)
	assert.True(t, m.wiz.ConfigForm().Pristine())
}

func TestAppModel_IdentRevealsContact(t *testing.T) {
	m, _, _ := loadedModel(t)
	hidden := len(m.visibleOptions())

	m = press(m, "down", "down", "down", " ")
	assert.Equal(t, true, m.wiz.ConfigForm().Value("channel_ident"))
	assert.True(t, m.wiz.ShowContactInfo())
	assert.Len(t, m.visibleOptions(), hidden+len(wizard.ContactFields))

	m = press(m, "i")
	assert.False(t, m.wiz.ShowContactInfo())
	assert.Len(t, m.visibleOptions(), hidden)
}

func TestAppModel_IdentOnAfterContactKeyKeepsContactVisible(t *testing.T) {
	m, _, _ := loadedModel(t)
	hidden := len(m.visibleOptions())

	m = press(m, "i")
	require.True(t, m.wiz.ShowContactInfo())

	m = press(m, "down", "down", "down", " ")
	assert.Equal(t, true, m.wiz.ConfigForm().Value("channel_ident"))
	assert.True(t, m.wiz.ShowContactInfo())
	assert.Len(t, m.visibleOptions(), hidden+len(wizard.ContactFields))

	m = press(m, " ")
	assert.Equal(t, false, m.wiz.ConfigForm().Value("channel_ident"))
	assert.False(t, m.wiz.ShowContactInfo())
}

func TestAppModel_InvalidEditBlocksNext(t *testing.T) {
	m, state, _ := loadedModel(t)

	m = press(m, "down", "down", "down", "down", "enter", "ctrl+u", "2", "enter", "n")
	assert.Equal(t, ScreenConfigure, m.Screen)
	assert.False(t, m.busy)
	assert.Equal(t, wizard.NotifyError, m.status.Kind)
	assert.True(t, m.wiz.ConfigForm().SubmitFailed())
	assert.Zero(t, state.Calls(http.MethodGet, reportPath))
}

func TestAppModel_Decline(t *testing.T) {
	m, state, _ := loadedModel(t)

	m = press(m, "d")
	require.Equal(t, ScreenDone, m.Screen)
	assert.True(t, m.Outcome().Declined)
	assert.Equal(t, wizard.DisableSuccessMessage, m.Outcome().Message)
	assert.True(t, m.presenter.NoticeVisible())
	assert.False(t, state.Enabled())
	assert.Equal(t, 1, state.Calls(http.MethodPut, "/api/telemetry"))
}

func TestAppModel_ReportFailureAndRetry(t *testing.T) {
	m, state, _ := loadedModel(t)

	state.FailOn(http.MethodGet, reportPath, http.StatusInternalServerError)
	m = press(m, "n")
	require.Equal(t, ScreenError, m.Screen)
	assert.Error(t, m.wiz.Err())

	state.ClearFailures()
	m = press(m, "r")
	assert.Equal(t, ScreenPreview, m.Screen)
	assert.NoError(t, m.wiz.Err())
}

func TestAppModel_LoadFailureAndRetry(t *testing.T) {
	m, state, _ := newTestModel(t)

	state.FailOn(http.MethodGet, "/api/mgr/module/telemetry", http.StatusServiceUnavailable)
	m = run(m, m.Init())
	require.Equal(t, ScreenError, m.Screen)
	assert.False(t, m.wiz.Loaded())

	// back is only offered once the module has loaded
	m = press(m, "b")
	assert.Equal(t, ScreenError, m.Screen)

	state.ClearFailures()
	m = press(m, "r")
	assert.Equal(t, ScreenConfigure, m.Screen)
}

func TestAppModel_BackKeepsEdits(t *testing.T) {
	m, _, _ := loadedModel(t)

	m = press(m, " ", "n", "b")
	assert.Equal(t, ScreenConfigure, m.Screen)
	assert.Equal(t, false, m.wiz.ConfigForm().Value("channel_basic"))
	assert.Equal(t, map[string]any{"channel_basic": false}, m.wiz.PendingDelta())
}

func TestAppModel_Download(t *testing.T) {
	m, _, dir := loadedModel(t)

	m = press(m, "n", "w")
	assert.Equal(t, wizard.NotifyInfo, m.status.Kind)

	path := filepath.Join(dir, wizard.ReportFileName("prod east", m.wiz.ReportID()))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), m.wiz.ReportID())
}
