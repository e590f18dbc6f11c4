package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type resultKind int

const (
	resultSuccess resultKind = iota
	resultFailure
	resultWarning
)

// banners holds what differs between the three kinds of result box
var banners = map[resultKind]struct {
	color  lipgloss.Color
	marker string
	label  string
}{
	resultSuccess: {SuccessColor, SuccessMarker, "SUCCESS"},
	resultFailure: {ErrorColor, FailureMarker, "FAILED"},
	resultWarning: {WarningColor, WarningMarker, "WARNING"},
}

// Result is the bordered box printed at the end of a command
type Result struct {
	kind            resultKind
	Title           string
	Details         []Param
	Error           error
	Troubleshooting []string
	Width           int
}

func newResult(kind resultKind, title string) *Result {
	return &Result{kind: kind, Title: title, Width: GetTerminalWidth()}
}

func NewSuccessResult(title string, details ...Param) *Result {
	r := newResult(resultSuccess, title)
	r.Details = details
	return r
}

// NewFailureResult shows err and, when given, a nested troubleshooting box
func NewFailureResult(title string, err error, troubleshooting []string) *Result {
	r := newResult(resultFailure, title)
	r.Error = err
	r.Troubleshooting = troubleshooting
	return r
}

func NewWarningResult(title string, details ...Param) *Result {
	r := newResult(resultWarning, title)
	r.Details = details
	return r
}

func (r *Result) SetWidth(width int) *Result {
	r.Width = width
	return r
}

func (r *Result) AddDetail(key, value string) *Result {
	r.Details = append(r.Details, Param{Key: key, Value: value})
	return r
}

func (r *Result) Render() string {
	width := max(r.Width, MinTerminalWidth)
	b := banners[r.kind]

	heading := lipgloss.NewStyle().Foreground(b.color).Bold(true).
		Render(fmt.Sprintf("   %s  %s  ─  %s", b.marker, b.label, r.Title))
	lines := []string{"", heading, ""}

	for _, d := range r.Details {
		lines = append(lines, ResultKeyStyle.Render("   "+d.Key+":")+" "+ResultValueStyle.Render(d.Value))
	}
	if len(r.Details) > 0 {
		lines = append(lines, "")
	}
	if r.Error != nil {
		lines = append(lines, ErrorMessageStyle.Render("   Error: "+r.Error.Error()), "")
	}
	if len(r.Troubleshooting) > 0 {
		tips := []string{TroubleshootingTitleStyle.Render("Troubleshooting:"), ""}
		for _, tip := range r.Troubleshooting {
			tips = append(tips, TroubleshootingItemStyle.Render("  • "+tip))
		}
		lines = append(lines, TroubleshootingBoxStyle(width).Render(strings.Join(tips, "\n")), "")
	}

	return ResultBoxStyle(b.color, width).Render(strings.Join(lines, "\n"))
}

func (r *Result) String() string {
	return r.Render()
}
