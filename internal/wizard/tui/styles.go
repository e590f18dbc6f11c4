package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/ceph-telemetry/internal/ui"
	"github.com/muurk/ceph-telemetry/internal/urls"
	"github.com/muurk/ceph-telemetry/internal/version"
)

const (
	AppName = "CEPH TELEMETRY WIZARD"

	MinTerminalWidth = 72
	MinTerminalRows  = 20
)

var (
	accent = ui.PrimaryColor
	subtle = ui.MutedColor
)

var (
	TitleStyle    = lipgloss.NewStyle().Foreground(accent).Bold(true).MarginBottom(1)
	SubtitleStyle = lipgloss.NewStyle().Foreground(subtle).Italic(true)

	// Option list
	RowStyle         = lipgloss.NewStyle().PaddingLeft(2).Foreground(ui.TextColor)
	SelectedRowStyle = lipgloss.NewStyle().Foreground(accent).Bold(true)
	DescStyle        = lipgloss.NewStyle().Foreground(subtle).PaddingLeft(6)
	FieldErrorStyle  = lipgloss.NewStyle().Foreground(ui.ErrorColor).PaddingLeft(6)
	DirtyMarkStyle   = lipgloss.NewStyle().Foreground(ui.WarningColor)

	SpinnerStyle = lipgloss.NewStyle().Foreground(accent)

	StatusSuccessStyle = lipgloss.NewStyle().Foreground(ui.SuccessColor).Bold(true)
	StatusErrorStyle   = lipgloss.NewStyle().Foreground(ui.ErrorColor).Bold(true)
	StatusInfoStyle    = lipgloss.NewStyle().Foreground(subtle)

	// NoticeStyle is the "telemetry is disabled" banner shown above every
	// screen until the module is enabled.
	NoticeStyle = boxed(ui.WarningColor).Foreground(ui.WarningColor).Padding(0, 1)

	ErrorBoxStyle  = boxed(ui.ErrorColor).Foreground(ui.ErrorColor).Bold(true).Padding(1, 2)
	ReportBoxStyle = boxed(subtle).Padding(0, 1)
	ConsentStyle   = lipgloss.NewStyle().Foreground(ui.WarningColor).Bold(true)
)

func boxed(border lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(border)
}

func RenderTitle(text string) string    { return TitleStyle.Render(text) }
func RenderSubtitle(text string) string { return SubtitleStyle.Render(text) }

// BuildHeaderContent is the banner line: name, version, cluster and the
// telemetry module docs.
func BuildHeaderContent(cluster string) string {
	title := AppName + " v" + version.Version
	if cluster != "" {
		title += "  ·  " + cluster
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Foreground(ui.TextColor).Bold(true).Render(title),
		"  ",
		lipgloss.NewStyle().Foreground(subtle).Render(urls.TelemetryModule),
	)
}

// RenderApplicationContainer frames a screen with the banner on top and the
// key help at the bottom, filling at least MinTerminalWidth x MinTerminalRows.
func RenderApplicationContainer(header, content, footerText string, terminalWidth, terminalHeight int) string {
	width := max(terminalWidth, MinTerminalWidth)
	height := max(terminalHeight, MinTerminalRows)
	inner := width - 4

	section := func(border lipgloss.Border) lipgloss.Style {
		return lipgloss.NewStyle().
			BorderStyle(border).
			BorderForeground(accent).
			Width(inner).
			Padding(0, 1)
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		section(lipgloss.Border{Bottom: "─"}).Render(header),
		lipgloss.NewStyle().Width(inner).Padding(0, 1).Render(content),
		section(lipgloss.Border{Top: "─"}).Foreground(subtle).Render(footerText),
	)

	frame := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(accent).
		Width(width - 2).
		AlignVertical(lipgloss.Top)

	return lipgloss.Place(width, height, lipgloss.Left, lipgloss.Top, frame.Render(body))
}
