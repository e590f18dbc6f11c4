package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/huh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeaderRender(t *testing.T) {
	out := NewHeader("Enable telemetry", "ceph-telemetry enable",
		Param{Key: "Dashboard", Value: "https://mgr-a:8443"},
		Param{Key: "Module", Value: "telemetry"},
	).SetWidth(80).Render()

	assert.Contains(t, out, "ENABLE TELEMETRY")
	assert.Contains(t, out, "ceph-telemetry enable")
	assert.Contains(t, out, "https://mgr-a:8443")
	assert.Less(t, strings.Index(out, "Dashboard"), strings.Index(out, "Module"), "params keep their order")
}

func TestResultRender(t *testing.T) {
	out := NewFailureResult("Could not enable telemetry", errors.New("HTTP Error: boom"),
		[]string{"Check the manager log"}).SetWidth(80).Render()

	assert.Contains(t, out, "FAILED")
	assert.Contains(t, out, "Could not enable telemetry")
	assert.Contains(t, out, "HTTP Error: boom")
	assert.Contains(t, out, "Check the manager log")

	out = NewSuccessResult("Telemetry enabled", Param{Key: "Report", Value: "abc"}).SetWidth(80).Render()
	assert.Contains(t, out, "SUCCESS")
	assert.Contains(t, out, "abc")

	out = NewWarningResult("Nothing to change").AddDetail("Module", "telemetry").SetWidth(80).Render()
	assert.Contains(t, out, "WARNING")
	assert.Contains(t, out, "telemetry")
}

func TestTips(t *testing.T) {
	hint := "The dashboard refused the connection.\nTroubleshooting:\n  • first\n  • second"
	assert.Equal(t, []string{"first", "second"}, Tips(hint))
	assert.Equal(t, []string{"Check the request parameters."}, Tips("Check the request parameters."))
	assert.Nil(t, Tips("  "))
}

func TestRenderDiff(t *testing.T) {
	diff := "--- current\n+++ pending\n@@ -1,2 +1,2 @@\n-interval: 24\n+interval: 48\n contact: null\n"
	out := RenderDiff(diff)

	for _, line := range []string{"--- current", "+++ pending", "-interval: 24", "+interval: 48", " contact: null"} {
		assert.Contains(t, out, line)
	}
	assert.Empty(t, RenderDiff(""))
}

func TestPrinter(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf).SetWidth(80)

	p.PrintHeader("Disable telemetry", "ceph-telemetry disable")
	p.PrintError("Could not disable telemetry", errors.New("boom"), "Try again.")
	p.PrintDiff("+a\n")

	out := buf.String()
	assert.Contains(t, out, "DISABLE TELEMETRY")
	assert.Contains(t, out, "Try again.")
	assert.Contains(t, out, "+a")
}

func TestHuhPrompter_RequiresTerminal(t *testing.T) {
	p := &HuhPrompter{isTerminal: func() bool { return false }}

	_, err := p.ConfirmLicense("abc")
	assert.ErrorIs(t, err, ErrNotInteractive)
	_, err = p.Password("Password")
	assert.ErrorIs(t, err, ErrNotInteractive)
}

func TestHuhPrompter_Aborted(t *testing.T) {
	orig := runFormFunc
	t.Cleanup(func() { runFormFunc = orig })
	runFormFunc = func(*huh.Form) error { return huh.ErrUserAborted }

	p := &HuhPrompter{isTerminal: func() bool { return true }}
	ok, err := p.Confirm("Disable telemetry?", "")
	require.ErrorIs(t, err, ErrCancelled)
	assert.False(t, ok)
}

func TestAutoPrompter(t *testing.T) {
	ok, err := AutoPrompter{Answer: true}.ConfirmLicense("abc")
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = AutoPrompter{Answer: true}.Password("Password")
	assert.ErrorIs(t, err, ErrNotInteractive)
}

func TestProgress(t *testing.T) {
	p := NewProgress("Applying changes", "Save", "Submit", "Verify", "Restore").SetWidth(80)
	assert.Zero(t, p.Current())
	assert.Zero(t, p.Percent())

	p.Skip(1, "no --rollback")
	p.Start(2)
	assert.Equal(t, 2, p.Current())
	p.Complete(2, "2 option(s)")
	p.Fail(3, "1 mismatch(es)")
	p.Update(9, StepComplete, "ignored")

	assert.InDelta(t, 0.5, p.Percent(), 1e-9)
	assert.Equal(t, 3, p.Current())

	out := p.Render()
	assert.Contains(t, out, "Applying changes")
	assert.Contains(t, out, "[3/4]")
	assert.Contains(t, out, "(no --rollback)")
	assert.Contains(t, out, "(1 mismatch(es))")
	assert.Contains(t, out, StepMarkerComplete)
	assert.Contains(t, out, FailureMarker)
	assert.Less(t, strings.Index(out, "Save"), strings.Index(out, "Restore"))
}
