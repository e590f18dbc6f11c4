package ui

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/muurk/ceph-telemetry/internal/urls"
)

// ErrNotInteractive is returned when a prompt needs a terminal and there is none
var ErrNotInteractive = errors.New("a terminal is required to answer this prompt; pass --yes to skip it")

// ErrCancelled is returned when the operator aborts a prompt
var ErrCancelled = errors.New("cancelled")

// Prompter asks the operator questions the CLI cannot answer from flags
type Prompter interface {
	// ConfirmLicense asks for consent to share the report under the
	// data sharing license.
	ConfirmLicense(reportID string) (bool, error)

	// Confirm asks a yes/no question
	Confirm(title, description string) (bool, error)

	// Password asks for a secret without echoing it
	Password(title string) (string, error)
}

// HuhPrompter implements Prompter using charmbracelet/huh.
type HuhPrompter struct {
	isTerminal func() bool
}

var runFormFunc = func(form *huh.Form) error { return form.Run() }

// NewHuhPrompter creates a prompter using the default terminal check.
func NewHuhPrompter() *HuhPrompter {
	return &HuhPrompter{isTerminal: IsInteractive}
}

func (p *HuhPrompter) runForm(form *huh.Form) error {
	checker := p.isTerminal
	if checker == nil {
		checker = IsInteractive
	}
	if !checker() {
		return ErrNotInteractive
	}

	form.WithProgramOptions(tea.WithOutput(os.Stderr))
	err := runFormFunc(form)
	if errors.Is(err, huh.ErrUserAborted) {
		return ErrCancelled
	}
	return err
}

// ConfirmLicense shows the license terms and returns the operator's answer.
func (p *HuhPrompter) ConfirmLicense(reportID string) (bool, error) {
	accepted := false
	description := fmt.Sprintf(
		"The report previewed above (id %s) will be sent periodically.\n"+
			"It is shared under the Community Data License Agreement - Sharing - Version 1.0:\n%s",
		reportID, urls.TelemetryLicense)

	err := p.runForm(huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("I agree to my telemetry data being submitted under the license").
				Description(description).
				Affirmative("I agree").
				Negative("No").
				Value(&accepted),
		),
	))
	return accepted, err
}

// Confirm renders a yes/no prompt.
func (p *HuhPrompter) Confirm(title, description string) (bool, error) {
	value := false
	err := p.runForm(huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(description).
				Value(&value),
		),
	))
	return value, err
}

// Password renders a masked input prompt.
func (p *HuhPrompter) Password(title string) (string, error) {
	var value string
	err := p.runForm(huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(title).
				EchoMode(huh.EchoModePassword).
				Value(&value),
		),
	))
	return value, err
}

// AutoPrompter answers every confirmation with the same value. It backs --yes.
type AutoPrompter struct {
	Answer bool
}

// ConfirmLicense returns the fixed answer
func (a AutoPrompter) ConfirmLicense(string) (bool, error) { return a.Answer, nil }

// Confirm returns the fixed answer
func (a AutoPrompter) Confirm(string, string) (bool, error) { return a.Answer, nil }

// Password cannot be answered without a terminal
func (a AutoPrompter) Password(string) (string, error) { return "", ErrNotInteractive }
