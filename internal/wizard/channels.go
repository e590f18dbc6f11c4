package wizard

import (
	"math"

	"github.com/muurk/ceph-telemetry/internal/dashboard"
)

// ReconcileChannels recomputes report.channels from the pending delta. A
// channel stays enabled when the delta does not mention it and it was already
// enabled, or when the delta switches it on. An explicit entry always wins.
// The result only ever contains channels from report.channels_available.
func ReconcileChannels(report dashboard.Report, delta map[string]any) []string {
	enabled := make(map[string]bool)
	for _, ch := range report.Channels() {
		enabled[ch] = true
	}

	updated := make([]string, 0)
	for _, ch := range report.ChannelsAvailable() {
		v, changed := delta["channel_"+ch]
		if (!changed && enabled[ch]) || truthy(v) {
			updated = append(updated, ch)
		}
	}

	report.SetChannels(updated)
	return updated
}

// truthy follows the loose boolean rules of the dashboard frontend: false,
// zero, the empty string and nil are false; everything else is true.
func truthy(v any) bool {
	switch val := dashboard.Normalize(v).(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		return val != ""
	case int:
		return val != 0
	case int64:
		return val != 0
	case float64:
		return val != 0 && !math.IsNaN(val)
	default:
		return true
	}
}
