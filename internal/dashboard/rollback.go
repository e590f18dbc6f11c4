package dashboard

import (
	"context"
	"fmt"
	"time"
)

// Snapshot is the opt-in state and a set of option values saved before a
// change, so the change can be undone.
type Snapshot struct {
	Module  string
	Enabled bool

	// Values holds the saved options. An unset option is saved as nil and
	// is unset again on restore.
	Values map[string]any

	Taken time.Time
}

// TakeSnapshot saves the opt-in state and the current values of names
func (c *Client) TakeSnapshot(ctx context.Context, module string, names []string) (*Snapshot, error) {
	cfg, err := c.GetConfig(ctx, module)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch configuration for snapshot: %w", err)
	}

	values := make(map[string]any, len(names))
	for _, name := range names {
		if v, ok := cfg[name]; ok {
			values[name] = v
		}
	}

	return &Snapshot{
		Module:  module,
		Enabled: cfg.Enabled(),
		Values:  values,
		Taken:   time.Now(),
	}, nil
}

// Restore writes the snapshot back and verifies the result. The option
// values are written before the opt-in state so that a cluster which was
// opted out never sends a report with the changed options.
func (c *Client) Restore(ctx context.Context, s *Snapshot) (*VerificationResult, error) {
	if s == nil {
		return nil, fmt.Errorf("snapshot is nil")
	}

	if err := c.UpdateConfig(ctx, s.Module, s.Values); err != nil {
		return nil, fmt.Errorf("failed to restore %s options: %w", s.Module, err)
	}
	if s.Module == TelemetryModule {
		if err := c.Enable(ctx, s.Enabled); err != nil {
			return nil, fmt.Errorf("failed to restore telemetry state: %w", err)
		}
	}

	return c.Verify(ctx, s.Module, s.Enabled, s.Values)
}
