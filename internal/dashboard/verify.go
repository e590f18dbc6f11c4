package dashboard

import (
	"context"
	"fmt"
	"reflect"
	"sort"
)

// VerificationResult contains the results of a configuration read-back
type VerificationResult struct {
	// Success indicates whether every expected value was found
	Success bool

	// Enabled is the module state read back from the dashboard
	Enabled bool

	// Mismatches lists the options whose value differs from the expected one
	Mismatches []string
}

// Verify reads the module configuration once and compares it to the expected
// opt-in state and option values. It does not retry.
func (c *Client) Verify(ctx context.Context, module string, enabled bool, expected map[string]any) (*VerificationResult, error) {
	current, err := c.GetConfig(ctx, module)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve configuration for verification: %w", err)
	}

	result := &VerificationResult{Enabled: current.Enabled()}
	result.Mismatches = CompareConfig(expected, current)
	if current.Enabled() != enabled {
		result.Mismatches = append(result.Mismatches,
			fmt.Sprintf("enabled: expected %v, got %v", enabled, current.Enabled()))
	}
	result.Success = len(result.Mismatches) == 0
	return result, nil
}

// CompareConfig lists the expected values that are missing or different in actual
func CompareConfig(expected map[string]any, actual ModuleConfig) []string {
	names := make([]string, 0, len(expected))
	for name := range expected {
		names = append(names, name)
	}
	sort.Strings(names)

	var mismatches []string
	for _, name := range names {
		want := Normalize(expected[name])
		got, ok := actual[name]
		if !ok {
			mismatches = append(mismatches, fmt.Sprintf("%s: missing, expected %s", name, FormatValue(want)))
			continue
		}
		if !valuesEqual(want, Normalize(got)) {
			mismatches = append(mismatches, fmt.Sprintf("%s: expected %s, got %s", name, FormatValue(want), FormatValue(got)))
		}
	}
	return mismatches
}

func valuesEqual(a, b any) bool {
	if reflect.DeepEqual(a, b) {
		return true
	}
	// 24 and "24" are the same option value once stored by the manager
	return fmt.Sprint(a) == fmt.Sprint(b)
}
