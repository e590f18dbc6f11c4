package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"

	"github.com/muurk/ceph-telemetry/internal/dashboard"
	"github.com/muurk/ceph-telemetry/internal/ui"
	"github.com/muurk/ceph-telemetry/internal/urls"
	"github.com/muurk/ceph-telemetry/internal/wizard"
)

const disabledNotice = "Telemetry is disabled. Opting in shares anonymized cluster data with the Ceph developers."

// View renders the current screen inside the application container
func (m AppModel) View() string {
	var content string
	var keys help.KeyMap

	switch {
	case m.busy:
		content = m.spinner.View() + " " + m.busyLabel
	case m.Screen == ScreenConfigure:
		content = m.configureView()
		if m.editing {
			keys = m.editKeys
		} else {
			keys = m.configureKeys
		}
	case m.Screen == ScreenPreview:
		content = m.previewView()
		keys = m.previewKeys
	case m.Screen == ScreenError:
		content = m.errorView()
		keys = m.errorKeys
	case m.Screen == ScreenDone:
		content = m.doneView()
		keys = m.doneKeys
	default:
		content = "Unknown screen"
	}

	var b strings.Builder
	if !m.busy && m.Screen != ScreenDone && m.presenter.NoticeVisible() {
		b.WriteString(NoticeStyle.Render(disabledNotice))
		b.WriteString("\n\n")
	}
	b.WriteString(content)
	if line := m.statusLine(); line != "" {
		b.WriteString("\n\n")
		b.WriteString(line)
	}

	footer := ""
	if keys != nil {
		footer = m.help.View(keys)
	}
	return RenderApplicationContainer(BuildHeaderContent(m.cluster), b.String(), footer, m.Width, m.Height)
}

func (m AppModel) statusLine() string {
	if !m.hasStatus || m.busy {
		return ""
	}
	switch m.status.Kind {
	case wizard.NotifySuccess:
		return StatusSuccessStyle.Render(ui.SuccessMarker + " " + m.status.Message)
	case wizard.NotifyError:
		return StatusErrorStyle.Render(ui.FailureMarker + " " + m.status.Message)
	default:
		return StatusInfoStyle.Render(m.status.Message)
	}
}

// configureView renders one row per offered option
func (m AppModel) configureView() string {
	var b strings.Builder

	b.WriteString(RenderTitle("Step 1 of 2: Configure telemetry"))
	b.WriteString("\n")
	state := "disabled"
	if m.wiz.ModuleEnabled() {
		state = "enabled"
	}
	b.WriteString(RenderSubtitle(fmt.Sprintf("The %s module is currently %s. Reports are sent to %s", m.wiz.Module(), state, m.wiz.SendToURL())))
	b.WriteString("\n\n")

	f := m.wiz.ConfigForm()
	for i, d := range m.visibleOptions() {
		field, _ := f.Field(d.Name)
		selected := i == m.cursor

		var row string
		if d.Type == "bool" {
			check := " "
			if on, _ := field.Value().(bool); on {
				check = "x"
			}
			row = fmt.Sprintf("[%s] %s", check, d.Name)
		} else {
			value := dashboard.FormatValue(field.Value())
			if selected && m.editing {
				value = m.input.View()
			}
			row = fmt.Sprintf("%s: %s  %s", d.Name, value, SubtitleStyle.Render(dashboard.FormatBounds(d)))
		}
		if field.Dirty() {
			row += DirtyMarkStyle.Render(" *")
		}

		if selected {
			b.WriteString(SelectedRowStyle.Render("› " + row))
		} else {
			b.WriteString(RowStyle.Render(row))
		}
		b.WriteString("\n")

		if selected && d.Desc != "" {
			b.WriteString(DescStyle.Render(d.Desc))
			b.WriteString("\n")
		}
		if errs := field.Errors(); len(errs) > 0 && (field.Dirty() || f.SubmitFailed()) {
			b.WriteString(FieldErrorStyle.Render(errs[0].Message))
			b.WriteString("\n")
		}
	}

	if !m.wiz.ShowContactInfo() {
		b.WriteString("\n")
		b.WriteString(RenderSubtitle("Contact details are hidden. Press i to add them."))
	}
	return b.String()
}

// previewView renders the report with the pending changes and consent
func (m AppModel) previewView() string {
	var b strings.Builder

	b.WriteString(RenderTitle("Step 2 of 2: Review the report"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Report ID:  %s\n", m.wiz.ReportID()))
	b.WriteString(fmt.Sprintf("Sent to:    %s\n", m.wiz.SendToURL()))
	if url := m.wiz.SendToDeviceURL(); url != "" {
		b.WriteString(fmt.Sprintf("Devices to: %s\n", url))
	}

	if delta := m.wiz.PendingDelta(); len(delta) > 0 {
		b.WriteString("\n")
		b.WriteString(m.pendingChanges(delta))
	}

	b.WriteString("\n")
	b.WriteString(ReportBoxStyle.Render(m.report.View()))
	b.WriteString("\n")
	b.WriteString(SubtitleStyle.Render(fmt.Sprintf("%3.f%%", m.report.ScrollPercent()*100)))
	b.WriteString("\n\n")

	accepted, _ := m.wiz.PreviewForm().Value(wizard.FieldLicense).(bool)
	check := " "
	if accepted {
		check = "x"
	}
	b.WriteString(ConsentStyle.Render(fmt.Sprintf("[%s] I agree to share this data under the Community Data License Agreement - Sharing - Version 1.0", check)))
	b.WriteString("\n")
	b.WriteString(DescStyle.Render(urls.TelemetryLicense))
	return b.String()
}

// pendingChanges shows the edits Submit will persist as a diff against the
// stored configuration.
func (m AppModel) pendingChanges(delta map[string]any) string {
	var names []string
	for _, d := range m.wiz.Options() {
		names = append(names, d.Name)
	}
	diff, err := dashboard.DiffConfig(m.wiz.CurrentConfig(), delta, names)
	if err != nil || diff == "" {
		return dashboard.FormatChanges(delta)
	}
	return ui.RenderDiff(diff)
}

func (m AppModel) errorView() string {
	err := m.wiz.Err()
	title := "Could not load the telemetry module"
	if m.wiz.Loaded() {
		title = "Could not fetch the telemetry report"
	}
	if err == nil {
		return ErrorBoxStyle.Render(title)
	}
	width := max(m.Width, MinTerminalWidth) - 8
	return ui.NewFailureResult(title, err, ui.Tips(dashboard.GetTroubleshootingHint(err))).
		SetWidth(width).
		Render()
}

func (m AppModel) doneView() string {
	width := max(m.Width, MinTerminalWidth) - 8
	if m.outcome.Declined {
		return ui.NewWarningResult("Telemetry disabled",
			ui.Param{Key: "Module", Value: m.wiz.Module()},
			ui.Param{Key: "Status", Value: m.outcome.Message},
		).SetWidth(width).Render()
	}
	return ui.NewSuccessResult("Telemetry enabled",
		ui.Param{Key: "Report ID", Value: m.outcome.ReportID},
		ui.Param{Key: "Sent to", Value: m.wiz.SendToURL()},
		ui.Param{Key: "Public dashboard", Value: urls.PublicDashboard},
	).SetWidth(width).Render()
}
