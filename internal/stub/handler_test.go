package stub

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muurk/ceph-telemetry/internal/dashboard"
)

func newStub(t *testing.T, creds Credentials) (*State, *dashboard.Client) {
	t.Helper()
	state := NewState()
	server := httptest.NewServer(NewHandler(state, creds))
	t.Cleanup(server.Close)

	client := dashboard.NewClient(server.URL)
	client.SetAuth(creds.Username, creds.Password)
	return state, client
}

func TestHandler_OptionsAndConfig(t *testing.T) {
	_, client := newStub(t, Credentials{})
	ctx := context.Background()

	opts, err := client.GetOptions(ctx, dashboard.TelemetryModule)
	require.NoError(t, err)
	assert.Contains(t, opts, "interval")
	assert.Equal(t, "int", opts["interval"].Type)
	min, ok := opts["interval"].NumericMin()
	assert.True(t, ok)
	assert.Equal(t, float64(8), min)
	_, ok = opts["interval"].NumericMax()
	assert.False(t, ok, "empty string max is not a bound")

	cfg, err := client.GetConfig(ctx, dashboard.TelemetryModule)
	require.NoError(t, err)
	assert.False(t, cfg.Enabled())
	assert.Equal(t, "https://telemetry.ceph.com/report", cfg.URL())
	assert.Equal(t, "https://telemetry.ceph.com/device", cfg.DeviceURL())
}

func TestHandler_UnknownModule(t *testing.T) {
	_, client := newStub(t, Credentials{})

	_, err := client.GetConfig(context.Background(), "balancer")
	require.Error(t, err)
	assert.True(t, dashboard.IsHTTPError(err))
	assert.Contains(t, err.Error(), "404")
}

func TestHandler_UpdateConfig(t *testing.T) {
	state, client := newStub(t, Credentials{})
	ctx := context.Background()

	err := client.UpdateConfig(ctx, dashboard.TelemetryModule, map[string]any{
		"interval":      int64(48),
		"channel_crash": false,
		"contact":       "ops@example.com",
	})
	require.NoError(t, err)

	cfg := state.Config()
	assert.Equal(t, int64(48), cfg["interval"])
	assert.Equal(t, false, cfg["channel_crash"])
	assert.Equal(t, "ops@example.com", cfg["contact"])
}

func TestHandler_UpdateConfigRejectsWholeDelta(t *testing.T) {
	state, client := newStub(t, Credentials{})

	err := client.UpdateConfig(context.Background(), dashboard.TelemetryModule, map[string]any{
		"contact":  "ops@example.com",
		"interval": 2,
	})
	require.Error(t, err)
	assert.True(t, dashboard.IsHTTPError(err))

	cfg := state.Config()
	assert.Nil(t, cfg["contact"], "nothing is applied when one value is rejected")
	assert.Equal(t, 24, cfg["interval"])
}

func TestHandler_ReportFollowsChannels(t *testing.T) {
	state, client := newStub(t, Credentials{})
	state.Set("channel_ident", true)
	state.Set("contact", "ops@example.com")

	report, err := client.GetReport(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"basic", "crash", "device", "ident"}, report.Channels())
	assert.Equal(t, ChannelsAvailable, report.ChannelsAvailable())
	assert.Equal(t, "ops@example.com", report.Body()["contact"])
	assert.Equal(t, []string{report.ReportID()}, state.ReportIDs())

	second, err := client.GetReport(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, report.ReportID(), second.ReportID(), "every report gets a fresh id")
}

func TestHandler_Enable(t *testing.T) {
	state, client := newStub(t, Credentials{})
	ctx := context.Background()

	require.NoError(t, client.Enable(ctx, true))
	assert.True(t, state.Enabled())

	require.NoError(t, client.Enable(ctx, false))
	assert.False(t, state.Enabled())
}

func TestHandler_EnableRequiresLicense(t *testing.T) {
	state := NewState()
	server := httptest.NewServer(NewHandler(state, Credentials{}))
	defer server.Close()

	body, _ := json.Marshal(map[string]any{"enable": true})
	req, err := http.NewRequest(http.MethodPut, server.URL+"/api/telemetry", bytes.NewReader(body))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.False(t, state.Enabled())
}

func TestHandler_Auth(t *testing.T) {
	creds := Credentials{Username: "admin", Password: "secret"}
	_, client := newStub(t, creds)

	require.NoError(t, client.Ping(context.Background()))

	client.SetAuth("admin", "wrong")
	err := client.Ping(context.Background())
	require.Error(t, err)
	assert.True(t, dashboard.IsAuthError(err))
}

func TestHandler_RejectsMissingToken(t *testing.T) {
	state := NewState()
	server := httptest.NewServer(NewHandler(state, Credentials{Username: "admin", Password: "secret"}))
	defer server.Close()

	client := dashboard.NewClient(server.URL)
	client.SetAuth("", "")

	_, err := client.GetConfig(context.Background(), dashboard.TelemetryModule)
	require.Error(t, err)
	assert.True(t, dashboard.IsAuthError(err))
}

func TestHandler_FailureInjection(t *testing.T) {
	state, client := newStub(t, Credentials{})
	ctx := context.Background()

	state.FailOn(http.MethodGet, "/api/telemetry/report", http.StatusInternalServerError)
	_, err := client.GetReport(ctx)
	require.Error(t, err)
	assert.True(t, dashboard.IsHTTPError(err))
	assert.Equal(t, 1, state.Calls(http.MethodGet, "/api/telemetry/report"))

	state.ClearFailures()
	_, err = client.GetReport(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, state.Calls(http.MethodGet, "/api/telemetry/report"))
}
