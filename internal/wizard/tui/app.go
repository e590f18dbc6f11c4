package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/muurk/ceph-telemetry/internal/dashboard"
	"github.com/muurk/ceph-telemetry/internal/logging"
	"github.com/muurk/ceph-telemetry/internal/wizard"
)

// Screen represents the current active screen in the application
type Screen string

const (
	ScreenLoading   Screen = "loading"
	ScreenConfigure Screen = "configure"
	ScreenPreview   Screen = "preview"
	ScreenError     Screen = "error"
	ScreenDone      Screen = "done"
)

// Messages carrying the result of a wizard action run in a tea.Cmd
type loadedMsg struct{ err error }
type nextMsg struct{ err error }
type submitMsg struct{ err error }
type disableMsg struct{ err error }

// Options configures an AppModel
type Options struct {
	// Cluster labels the header and names downloaded reports
	Cluster string

	// DownloadDir receives reports saved with the download key
	DownloadDir string
}

// Outcome describes how the session ended
type Outcome struct {
	Enabled  bool
	Declined bool
	ReportID string
	Message  string
}

// AppModel is the top-level model driving one wizard session.
//
// Wizard actions that talk to the dashboard run inside a tea.Cmd. While one
// is in flight the model is busy: keys other than ctrl+c are ignored and the
// view does not read wizard state.
type AppModel struct {
	ctx       context.Context
	wiz       *wizard.Wizard
	presenter *Presenter
	downloads wizard.FileDownloader
	cluster   string

	Screen    Screen
	busy      bool
	busyLabel string
	outcome   Outcome

	cursor  int
	editing bool
	input   textinput.Model
	report  viewport.Model
	spinner spinner.Model
	help    help.Model

	status    Notification
	hasStatus bool

	configureKeys configureKeyMap
	editKeys      editKeyMap
	previewKeys   previewKeyMap
	errorKeys     resultKeyMap
	doneKeys      resultKeyMap

	Width  int
	Height int
}

// NewAppModel creates a model for a wizard talking to backend
func NewAppModel(ctx context.Context, backend wizard.Backend, opts Options) AppModel {
	presenter := NewPresenter(false)
	downloads := wizard.FileDownloader{Dir: opts.DownloadDir}
	wiz := wizard.New(wizard.FromBackend(backend, wizard.Presenter{
		Notifier:   presenter,
		Navigator:  presenter,
		Downloader: downloads,
	}))

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 256

	doneKeys := newResultKeys()
	doneKeys.Retry.SetEnabled(false)
	doneKeys.Back.SetEnabled(false)

	return AppModel{
		ctx:           ctx,
		wiz:           wiz,
		presenter:     presenter,
		downloads:     downloads,
		cluster:       opts.Cluster,
		Screen:        ScreenLoading,
		busy:          true,
		busyLabel:     "Loading telemetry module...",
		input:         ti,
		report:        viewport.New(MinTerminalWidth-10, 10),
		spinner:       s,
		help:          help.New(),
		configureKeys: newConfigureKeys(),
		editKeys:      newEditKeys(),
		previewKeys:   newPreviewKeys(),
		errorKeys:     newResultKeys(),
		doneKeys:      doneKeys,
	}
}

// Run shows the wizard full screen until the operator quits
func Run(ctx context.Context, backend wizard.Backend, opts Options) (Outcome, error) {
	program := tea.NewProgram(NewAppModel(ctx, backend, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := program.Run()
	if err != nil {
		return Outcome{}, err
	}
	m, ok := final.(AppModel)
	if !ok {
		return Outcome{}, errors.New("unexpected final model")
	}
	return m.Outcome(), nil
}

// Outcome returns how the session ended
func (m AppModel) Outcome() Outcome { return m.outcome }

// Wizard returns the controller behind the model
func (m AppModel) Wizard() *wizard.Wizard { return m.wiz }

// Init starts loading the module options and configuration
func (m AppModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadCmd())
}

func (m AppModel) loadCmd() tea.Cmd {
	ctx, wiz := m.ctx, m.wiz
	return func() tea.Msg {
		return loadedMsg{err: wiz.Init(ctx)}
	}
}

func (m AppModel) nextCmd() tea.Cmd {
	ctx, wiz := m.ctx, m.wiz
	return func() tea.Msg {
		return nextMsg{err: wiz.Next(ctx)}
	}
}

func (m AppModel) submitCmd() tea.Cmd {
	ctx, wiz := m.ctx, m.wiz
	return func() tea.Msg {
		return submitMsg{err: wiz.Submit(ctx)}
	}
}

func (m AppModel) disableCmd() tea.Cmd {
	ctx, wiz := m.ctx, m.wiz
	return func() tea.Msg {
		return disableMsg{err: wiz.DisableModule(ctx, wizard.DisableSuccessMessage, nil)}
	}
}

// startBusy marks an action as in flight and keeps the spinner running
func (m AppModel) startBusy(label string, cmd tea.Cmd) (tea.Model, tea.Cmd) {
	m.busy = true
	m.busyLabel = label
	m.hasStatus = false
	return m, tea.Batch(m.spinner.Tick, cmd)
}

// settle ends the busy state and picks up what the wizard presented
func (m *AppModel) settle() bool {
	m.busy = false
	m.busyLabel = ""
	notes, landing := m.presenter.drain()
	if len(notes) > 0 {
		m.setStatus(notes[len(notes)-1].Kind, notes[len(notes)-1].Message)
	}
	return landing
}

func (m *AppModel) setStatus(kind wizard.NotificationKind, message string) {
	m.status = Notification{Kind: kind, Message: message}
	m.hasStatus = true
}

// Update handles all messages and routes keys to the current screen
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.help.Width = msg.Width
		m.resizeReport()
		return m, nil

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case loadedMsg:
		return m.handleLoaded(msg), nil

	case nextMsg:
		return m.handleNext(msg), nil

	case submitMsg:
		return m.handleSubmit(msg), nil

	case disableMsg:
		return m.handleDisable(msg), nil

	case tea.KeyMsg:
		// Global quit handler
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.busy {
			return m, nil
		}
		return m.handleKey(msg)
	}

	if m.editing {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m AppModel) handleLoaded(msg loadedMsg) AppModel {
	m.settle()
	if msg.err != nil {
		m.Screen = ScreenError
		return m
	}
	m.presenter.SetDisabledNoticeVisible(!m.wiz.ModuleEnabled())
	m.Screen = ScreenConfigure
	m.cursor = 0
	return m
}

func (m AppModel) handleNext(msg nextMsg) AppModel {
	m.settle()
	switch {
	case msg.err == nil:
		m.Screen = ScreenPreview
		m.report.SetContent(m.wiz.ReportText())
		m.report.GotoTop()
		m.resizeReport()
	case errors.Is(msg.err, wizard.ErrInvalidForm):
		m.Screen = ScreenConfigure
		m.setStatus(wizard.NotifyError, "Fix the highlighted options before continuing.")
	default:
		m.Screen = ScreenError
	}
	return m
}

func (m AppModel) handleSubmit(msg submitMsg) AppModel {
	landing := m.settle()
	if errors.Is(msg.err, wizard.ErrConsentRequired) {
		m.setStatus(wizard.NotifyError, "Accept the data sharing license to submit.")
		return m
	}
	if landing {
		m.outcome = Outcome{
			Enabled:  true,
			ReportID: m.wiz.ReportID(),
			Message:  m.status.Message,
		}
		m.Screen = ScreenDone
	}
	return m
}

func (m AppModel) handleDisable(msg disableMsg) AppModel {
	landing := m.settle()
	if msg.err == nil && landing {
		m.outcome = Outcome{Declined: true, Message: m.status.Message}
		m.Screen = ScreenDone
	}
	return m
}

func (m AppModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.Screen {
	case ScreenConfigure:
		if m.editing {
			return m.handleEditKey(msg)
		}
		return m.handleConfigureKey(msg)
	case ScreenPreview:
		return m.handlePreviewKey(msg)
	case ScreenError:
		switch {
		case key.Matches(msg, m.errorKeys.Retry):
			if !m.wiz.Loaded() {
				m.Screen = ScreenLoading
				return m.startBusy("Loading telemetry module...", m.loadCmd())
			}
			return m.startBusy("Fetching telemetry report...", m.nextCmd())
		case key.Matches(msg, m.errorKeys.Back) && m.wiz.Loaded():
			m.Screen = ScreenConfigure
			return m, nil
		case key.Matches(msg, m.errorKeys.Quit):
			return m, tea.Quit
		}
	case ScreenDone:
		if key.Matches(msg, m.doneKeys.Quit) {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m AppModel) handleConfigureKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	rows := m.visibleOptions()
	switch {
	case key.Matches(msg, m.configureKeys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.configureKeys.Down):
		if m.cursor < len(rows)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.configureKeys.Toggle), key.Matches(msg, m.configureKeys.Edit):
		if m.cursor >= len(rows) {
			return m, nil
		}
		d := rows[m.cursor]
		if d.Type == "bool" {
			m.toggle(d.Name)
			return m, nil
		}
		if key.Matches(msg, m.configureKeys.Edit) {
			m.editing = true
			m.input.SetValue(wizard.FormatInput(m.wiz.ConfigForm().Value(d.Name)))
			m.input.CursorEnd()
			cmd := m.input.Focus()
			return m, cmd
		}
	case key.Matches(msg, m.configureKeys.Contact):
		m.wiz.ToggleContactInfo()
		m.clampCursor()
	case key.Matches(msg, m.configureKeys.Next):
		return m.startBusy("Fetching telemetry report...", m.nextCmd())
	case key.Matches(msg, m.configureKeys.Decline):
		return m.startBusy("Disabling telemetry...", m.disableCmd())
	case key.Matches(msg, m.configureKeys.Quit):
		return m, tea.Quit
	}
	return m, nil
}

// toggle flips a bool option. The contact fields follow the ident channel.
func (m *AppModel) toggle(name string) {
	if err := m.wiz.ToggleOption(name); err != nil {
		m.setStatus(wizard.NotifyError, err.Error())
		return
	}
	if name == "channel_ident" {
		on, _ := m.wiz.ConfigForm().Value(name).(bool)
		m.wiz.SetContactInfo(on)
		m.clampCursor()
	}
}

func (m AppModel) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.editKeys.Confirm):
		rows := m.visibleOptions()
		if m.cursor < len(rows) {
			name := rows[m.cursor].Name
			if err := m.wiz.SetOption(name, m.input.Value()); err != nil {
				logging.Debug("Option edit rejected", zap.String("option", name), zap.Error(err))
				m.setStatus(wizard.NotifyError, err.Error())
			}
		}
		m.stopEditing()
		return m, nil
	case key.Matches(msg, m.editKeys.Cancel):
		m.stopEditing()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *AppModel) stopEditing() {
	m.editing = false
	m.input.Blur()
	m.input.Reset()
}

func (m AppModel) handlePreviewKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.previewKeys.Accept):
		accepted, _ := m.wiz.PreviewForm().Value(wizard.FieldLicense).(bool)
		if err := m.wiz.AcceptLicense(!accepted); err != nil {
			m.setStatus(wizard.NotifyError, err.Error())
		}
	case key.Matches(msg, m.previewKeys.Submit):
		return m.startBusy("Enabling telemetry...", m.submitCmd())
	case key.Matches(msg, m.previewKeys.Back):
		if err := m.wiz.Back(); err == nil {
			m.Screen = ScreenConfigure
		}
	case key.Matches(msg, m.previewKeys.Download):
		m.download()
	case key.Matches(msg, m.previewKeys.Decline):
		return m.startBusy("Disabling telemetry...", m.disableCmd())
	case key.Matches(msg, m.previewKeys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.previewKeys.Scroll):
		var cmd tea.Cmd
		m.report, cmd = m.report.Update(msg)
		return m, cmd
	}
	return m, nil
}

// download saves the previewed report as JSON
func (m *AppModel) download() {
	name := wizard.ReportFileName(m.cluster, m.wiz.ReportID())
	if err := m.wiz.Download(m.wiz.Report(), name); err != nil {
		logging.Error("Failed to save telemetry report", zap.Error(err))
		m.setStatus(wizard.NotifyError, fmt.Sprintf("Could not save the report: %v", err))
		return
	}
	m.setStatus(wizard.NotifyInfo, "Report saved to "+m.downloads.DownloadPath(name))
}

// visibleOptions returns the configure rows; contact fields are hidden
// until the operator asks for them.
func (m AppModel) visibleOptions() []dashboard.OptionDescriptor {
	var rows []dashboard.OptionDescriptor
	for _, d := range m.wiz.Options() {
		if wizard.IsContactField(d.Name) && !m.wiz.ShowContactInfo() {
			continue
		}
		rows = append(rows, d)
	}
	return rows
}

func (m *AppModel) clampCursor() {
	if n := len(m.visibleOptions()); m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
}

// resizeReport fits the report viewport to the terminal
func (m *AppModel) resizeReport() {
	width := max(m.Width, MinTerminalWidth) - 10
	height := max(m.Height, MinTerminalRows) - 20
	m.report.Width = width
	m.report.Height = max(height, 5)
}
