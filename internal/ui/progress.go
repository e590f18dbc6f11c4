package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// StepStatus is the state of one step of a multi-step change
type StepStatus int

const (
	StepPending StepStatus = iota
	StepRunning
	StepComplete
	StepFailed
	StepSkipped
)

// Step markers
const (
	StepMarkerComplete = "✓"
	StepMarkerRunning  = "●"
	StepMarkerPending  = "·"
	StepMarkerSkipped  = "⊘"
)

var (
	ProgressLabelStyle = lipgloss.NewStyle().Foreground(TextColor).Bold(true).PaddingLeft(2)
	StepCompleteStyle  = lipgloss.NewStyle().Foreground(SuccessColor)
	StepRunningStyle   = lipgloss.NewStyle().Foreground(PrimaryColor).Bold(true)
	StepFailedStyle    = lipgloss.NewStyle().Foreground(ErrorColor).Bold(true)
	StepPendingStyle   = lipgloss.NewStyle().Foreground(MutedColor)
	StepNoteStyle      = lipgloss.NewStyle().Foreground(MutedColor).Italic(true)
)

// Step is one line of a Progress
type Step struct {
	Name    string
	Status  StepStatus
	Message string // shown in parentheses, e.g. "3 options"
}

// Progress tracks the steps a command applies to the dashboard, such as
// snapshot, submit, verify and restore, and renders them as a bar plus a
// step list.
type Progress struct {
	Label string
	Steps []Step
	Width int
}

// NewProgress creates a progress with one pending step per name
func NewProgress(label string, names ...string) *Progress {
	steps := make([]Step, len(names))
	for i, name := range names {
		steps[i] = Step{Name: name}
	}
	return &Progress{Label: label, Steps: steps, Width: GetTerminalWidth()}
}

func (p *Progress) SetWidth(width int) *Progress {
	p.Width = width
	return p
}

// Update sets the status of step n (1-based). Out of range steps are ignored.
func (p *Progress) Update(n int, status StepStatus, message string) {
	if n < 1 || n > len(p.Steps) {
		return
	}
	p.Steps[n-1].Status = status
	p.Steps[n-1].Message = message
}

func (p *Progress) Start(n int)                    { p.Update(n, StepRunning, "") }
func (p *Progress) Complete(n int, message string) { p.Update(n, StepComplete, message) }
func (p *Progress) Fail(n int, message string)     { p.Update(n, StepFailed, message) }
func (p *Progress) Skip(n int, message string)     { p.Update(n, StepSkipped, message) }

// Percent is the share of steps that are complete or skipped
func (p *Progress) Percent() float64 {
	if len(p.Steps) == 0 {
		return 0
	}
	done := 0
	for _, s := range p.Steps {
		if s.Status == StepComplete || s.Status == StepSkipped {
			done++
		}
	}
	return float64(done) / float64(len(p.Steps))
}

// Current is the number of the last step that was started, 0 before any
func (p *Progress) Current() int {
	current := 0
	for i, s := range p.Steps {
		if s.Status != StepPending {
			current = i + 1
		}
	}
	return current
}

func (p *Progress) Render() string {
	var b strings.Builder
	if p.Label != "" {
		b.WriteString(ProgressLabelStyle.Render(p.Label))
		b.WriteString("\n\n")
	}

	bar := progress.New(progress.WithDefaultGradient(), progress.WithWidth(min(max(p.Width-20, 20), 50)))
	fmt.Fprintf(&b, "  %s  %3.0f%%  [%d/%d]\n\n", bar.ViewAs(p.Percent()), p.Percent()*100, p.Current(), len(p.Steps))

	lines := make([]string, len(p.Steps))
	for i, s := range p.Steps {
		lines[i] = p.renderStep(i+1, s)
	}
	b.WriteString(strings.Join(lines, "\n"))
	return b.String()
}

func (p *Progress) renderStep(n int, s Step) string {
	marker, style := StepMarkerPending, StepPendingStyle
	switch s.Status {
	case StepComplete:
		marker, style = StepMarkerComplete, StepCompleteStyle
	case StepRunning:
		marker, style = StepMarkerRunning, StepRunningStyle
	case StepFailed:
		marker, style = FailureMarker, StepFailedStyle
	case StepSkipped:
		marker = StepMarkerSkipped
	}

	line := fmt.Sprintf("  [%d/%d] %s%s%s", n, len(p.Steps),
		style.Render(s.Name),
		strings.Repeat(" ", max(40-lipgloss.Width(s.Name), 1)),
		style.Render(marker))
	if s.Message != "" {
		line += "  " + StepNoteStyle.Render("("+s.Message+")")
	}
	return line
}

func (p *Progress) String() string {
	return p.Render()
}
