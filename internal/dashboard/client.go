package dashboard

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/muurk/ceph-telemetry/internal/logging"
	"github.com/muurk/ceph-telemetry/internal/version"
)

const (
	// DefaultUsername is the dashboard account created by cephadm bootstrap
	DefaultUsername = "admin"

	// DefaultTimeout is the default HTTP request timeout. Report generation
	// walks every daemon, so it is more generous than a plain API call needs.
	DefaultTimeout = 30 * time.Second
)

// Client talks to the dashboard REST API
type Client struct {
	// BaseURL is the dashboard address (e.g., "https://ceph-mgr.example:8443")
	BaseURL string

	// Username for token login; empty disables login
	Username string

	// Password for token login
	Password string

	// HTTPClient is the underlying HTTP client
	HTTPClient *http.Client

	// token is the Bearer token returned by /api/auth
	token string

	// tokenMutex protects token
	tokenMutex sync.Mutex
}

// NewClient creates a client for the dashboard at baseURL
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		Username:   DefaultUsername,
		HTTPClient: &http.Client{Timeout: DefaultTimeout},
	}
}

// SetTimeout sets the HTTP request timeout
func (c *Client) SetTimeout(timeout time.Duration) {
	c.HTTPClient.Timeout = timeout
}

// SetAuth sets the login credentials and drops any token from earlier credentials
func (c *Client) SetAuth(username, password string) {
	c.Username = username
	c.Password = password
	c.SetToken("")
}

// SetToken uses an existing session token instead of logging in
func (c *Client) SetToken(token string) {
	c.tokenMutex.Lock()
	defer c.tokenMutex.Unlock()
	c.token = token
}

// SetInsecure disables TLS certificate verification. Dashboards commonly run
// with a self-signed certificate.
func (c *Client) SetInsecure(insecure bool) {
	transport, ok := c.HTTPClient.Transport.(*http.Transport)
	if !ok || transport == nil {
		transport = http.DefaultTransport.(*http.Transport).Clone()
	}
	if transport.TLSClientConfig == nil {
		transport.TLSClientConfig = &tls.Config{}
	}
	transport.TLSClientConfig.InsecureSkipVerify = insecure
	c.HTTPClient.Transport = transport
}

// Login exchanges the credentials for a session token
func (c *Client) Login(ctx context.Context) error {
	var resp struct {
		Token string `json:"token"`
	}
	body := map[string]string{"username": c.Username, "password": c.Password}
	if err := c.send(ctx, http.MethodPost, "/api/auth", body, &resp, ""); err != nil {
		if IsHTTPError(err) {
			if apiErr, _ := asAPIError(err); apiErr.StatusCode == http.StatusBadRequest {
				return NewAuthError("login rejected (check credentials)", "/api/auth")
			}
		}
		return err
	}
	if resp.Token == "" {
		return NewParseError("login response has no token", "/api/auth", nil)
	}
	c.SetToken(resp.Token)
	logging.Debug("Logged in to dashboard")
	return nil
}

// Ping performs a simple health check against the dashboard
// Returns nil if the dashboard is reachable and the credentials work
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/api/health/minimal", nil, nil)
}

// GetOptions returns the option descriptors of a manager module
func (c *Client) GetOptions(ctx context.Context, module string) (Options, error) {
	var opts Options
	if err := c.do(ctx, http.MethodGet, modulePath(module)+"/options", nil, &opts); err != nil {
		return nil, err
	}
	for name, d := range opts {
		if d.Name == "" {
			d.Name = name
			opts[name] = d
		}
	}
	return opts, nil
}

// GetConfig returns the current configuration of a manager module
func (c *Client) GetConfig(ctx context.Context, module string) (ModuleConfig, error) {
	var cfg ModuleConfig
	if err := c.do(ctx, http.MethodGet, modulePath(module), nil, &cfg); err != nil {
		return nil, err
	}
	if cfg == nil {
		cfg = ModuleConfig{}
	}
	return cfg, nil
}

// UpdateConfig persists changed option values of a manager module.
// An empty delta is a no-op and sends nothing.
func (c *Client) UpdateConfig(ctx context.Context, module string, delta map[string]any) error {
	if len(delta) == 0 {
		return nil
	}
	return c.do(ctx, http.MethodPut, modulePath(module), map[string]any{"config": delta}, nil)
}

// GetReport fetches the telemetry report the cluster would send
func (c *Client) GetReport(ctx context.Context) (Report, error) {
	const endpoint = "/api/telemetry/report"
	var report Report
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &report); err != nil {
		return nil, err
	}
	if err := report.Validate(); err != nil {
		return nil, NewParseError("unexpected report document", endpoint, err)
	}
	return report, nil
}

// Enable switches telemetry on (accepting the sharing license) or off
func (c *Client) Enable(ctx context.Context, enable bool) error {
	body := map[string]any{"enable": enable}
	if enable {
		body["license_name"] = LicenseName
	}
	return c.do(ctx, http.MethodPut, "/api/telemetry", body, nil)
}

func modulePath(module string) string {
	return "/api/mgr/module/" + url.PathEscape(module)
}

// do sends an authenticated request, logging in first when needed
func (c *Client) do(ctx context.Context, method, endpoint string, body, out any) error {
	token, err := c.ensureToken(ctx)
	if err != nil {
		return err
	}

	err = c.send(ctx, method, endpoint, body, out, token)
	if IsAuthError(err) {
		c.SetToken("")
	}
	return err
}

func (c *Client) ensureToken(ctx context.Context) (string, error) {
	c.tokenMutex.Lock()
	token := c.token
	c.tokenMutex.Unlock()

	if token != "" || c.Username == "" || c.Password == "" {
		return token, nil
	}
	if err := c.Login(ctx); err != nil {
		return "", err
	}

	c.tokenMutex.Lock()
	defer c.tokenMutex.Unlock()
	return c.token, nil
}

// send performs a single request/response exchange
func (c *Client) send(ctx context.Context, method, endpoint string, body, out any, token string) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return NewParseError("failed to encode request body", endpoint, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+endpoint, reader)
	if err != nil {
		return NewNetworkError("failed to create request", endpoint, err)
	}

	req.Header.Set("Accept", MediaTypeV1)
	req.Header.Set("User-Agent", version.UserAgent())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	logging.LogAPIRequest(method, endpoint)
	start := time.Now()

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return NewNetworkError(fmt.Sprintf("%s %s failed", method, endpoint), endpoint, err)
	}
	defer func() { _ = resp.Body.Close() }()

	logging.LogAPIResponse(method, endpoint, resp.StatusCode, time.Since(start))

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return NewNetworkError("failed to read response body", endpoint, err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return NewAuthError("authentication failed (check credentials)", endpoint)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return NewHTTPError(resp.StatusCode,
			fmt.Sprintf("%s %s returned status %d", method, endpoint, resp.StatusCode),
			endpoint, errorDetail(data))
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return NewParseError("failed to parse JSON response", endpoint, err)
	}
	return nil
}

// maxDetailRunes caps the raw error body quoted in an APIError
const maxDetailRunes = 200

// errorDetail extracts the "detail" message from a dashboard error body
func errorDetail(data []byte) string {
	var body struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(data, &body); err == nil && body.Detail != "" {
		return body.Detail
	}
	text := []rune(strings.TrimSpace(string(data)))
	if len(text) > maxDetailRunes {
		return string(text[:maxDetailRunes]) + "..."
	}
	return string(text)
}
