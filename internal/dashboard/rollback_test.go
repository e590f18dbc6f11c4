package dashboard_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muurk/ceph-telemetry/internal/dashboard"
	"github.com/muurk/ceph-telemetry/internal/stub"
)

func TestSnapshotRestore(t *testing.T) {
	state := stub.NewState()
	server := httptest.NewServer(stub.NewHandler(state, stub.Credentials{}))
	defer server.Close()

	client := dashboard.NewClient(server.URL)
	ctx := context.Background()

	snap, err := client.TakeSnapshot(ctx, dashboard.TelemetryModule, []string{"interval", "channel_crash", "contact"})
	require.NoError(t, err)
	assert.False(t, snap.Enabled)
	assert.Len(t, snap.Values, 3)
	assert.Contains(t, snap.Values, "contact")
	assert.Nil(t, snap.Values["contact"])

	require.NoError(t, client.UpdateConfig(ctx, dashboard.TelemetryModule, map[string]any{"interval": 48, "channel_crash": false}))
	require.NoError(t, client.Enable(ctx, true))

	result, err := client.Restore(ctx, snap)
	require.NoError(t, err)
	assert.True(t, result.Success, "mismatches: %v", result.Mismatches)
	assert.False(t, state.Enabled())
	assert.Equal(t, true, state.Config()["channel_crash"])
}

func TestRestore_UnsetsOptionThatWasUnset(t *testing.T) {
	state := stub.NewState()
	server := httptest.NewServer(stub.NewHandler(state, stub.Credentials{}))
	defer server.Close()

	client := dashboard.NewClient(server.URL)
	ctx := context.Background()

	snap, err := client.TakeSnapshot(ctx, dashboard.TelemetryModule, []string{"proxy"})
	require.NoError(t, err)
	require.Contains(t, snap.Values, "proxy")

	require.NoError(t, client.UpdateConfig(ctx, dashboard.TelemetryModule, map[string]any{"proxy": "http://squid:3128"}))
	require.Equal(t, "http://squid:3128", state.Config()["proxy"])

	result, err := client.Restore(ctx, snap)
	require.NoError(t, err)
	assert.True(t, result.Success, "mismatches: %v", result.Mismatches)
	assert.Nil(t, state.Config()["proxy"])

	state.Set("proxy", "http://squid:3128")
	result, err = client.Verify(ctx, dashboard.TelemetryModule, false, snap.Values)
	require.NoError(t, err)
	assert.Equal(t, []string{"proxy: expected (unset), got http://squid:3128"}, result.Mismatches)
}

func TestRestore_Failure(t *testing.T) {
	state := stub.NewState()
	server := httptest.NewServer(stub.NewHandler(state, stub.Credentials{}))
	defer server.Close()

	client := dashboard.NewClient(server.URL)
	ctx := context.Background()

	snap, err := client.TakeSnapshot(ctx, dashboard.TelemetryModule, []string{"interval"})
	require.NoError(t, err)

	state.FailOn(http.MethodPut, "/api/mgr/module/telemetry", http.StatusInternalServerError)
	_, err = client.Restore(ctx, snap)
	require.Error(t, err)
	assert.True(t, dashboard.IsHTTPError(err))
	assert.Zero(t, state.Calls(http.MethodPut, "/api/telemetry"))

	_, err = client.Restore(ctx, nil)
	assert.Error(t, err)
}
