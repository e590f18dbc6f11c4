package stub

import (
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/muurk/ceph-telemetry/internal/dashboard"
	"github.com/muurk/ceph-telemetry/internal/logging"
)

// Credentials enables token login. An empty Username disables authentication.
type Credentials struct {
	Username string
	Password string
}

type handler struct {
	state *State
	creds Credentials

	mu     sync.Mutex
	tokens map[string]bool
}

// NewHandler returns the stub dashboard API backed by state
func NewHandler(state *State, creds Credentials) http.Handler {
	h := &handler{state: state, creds: creds, tokens: map[string]bool{}}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth", h.login)
	mux.HandleFunc("GET /api/health/minimal", h.authed(h.health))
	mux.HandleFunc("GET /api/mgr/module/{module}/options", h.authed(h.moduleOptions))
	mux.HandleFunc("GET /api/mgr/module/{module}", h.authed(h.moduleConfig))
	mux.HandleFunc("PUT /api/mgr/module/{module}", h.authed(h.updateModuleConfig))
	mux.HandleFunc("GET /api/telemetry/report", h.authed(h.report))
	mux.HandleFunc("PUT /api/telemetry", h.authed(h.toggle))

	return h.instrument(mux)
}

// statusRecorder captures the status code for request logging
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// instrument counts calls, applies injected failures and logs every request
func (h *handler) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		defer func() {
			logging.LogServed(r.RemoteAddr, r.Method, r.URL.Path, rec.status)
		}()

		if status := h.state.record(r.Method, r.URL.Path); status != 0 {
			writeError(rec, status, fmt.Sprintf("injected failure for %s %s", r.Method, r.URL.Path))
			return
		}
		next.ServeHTTP(rec, r)
	})
}

func (h *handler) authed(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.creds.Username != "" {
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			h.mu.Lock()
			valid := ok && h.tokens[token]
			h.mu.Unlock()
			if !valid {
				writeError(w, http.StatusUnauthorized, "You are not authorized to access that resource")
				return
			}
		}
		next(w, r)
	}
}

func (h *handler) login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	userOK := subtle.ConstantTimeCompare([]byte(body.Username), []byte(h.creds.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(body.Password), []byte(h.creds.Password)) == 1
	if h.creds.Username != "" && !(userOK && passOK) {
		writeError(w, http.StatusBadRequest, "Invalid credentials")
		return
	}

	token := uuid.NewString()
	h.mu.Lock()
	h.tokens[token] = true
	h.mu.Unlock()

	writeJSON(w, http.StatusCreated, map[string]any{
		"token":       token,
		"username":    body.Username,
		"permissions": map[string]any{"config-opt": []string{"read", "update"}},
	})
}

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"health": map[string]any{"status": "HEALTH_OK"}})
}

func (h *handler) moduleOptions(w http.ResponseWriter, r *http.Request) {
	if !h.knownModule(w, r) {
		return
	}
	writeJSON(w, http.StatusOK, h.state.getOptions())
}

func (h *handler) moduleConfig(w http.ResponseWriter, r *http.Request) {
	if !h.knownModule(w, r) {
		return
	}
	writeJSON(w, http.StatusOK, h.state.Config())
}

func (h *handler) updateModuleConfig(w http.ResponseWriter, r *http.Request) {
	if !h.knownModule(w, r) {
		return
	}

	var body struct {
		Config map[string]any `json:"config"`
	}
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := h.state.update(body.Config); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *handler) report(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.state.generateReport())
}

func (h *handler) toggle(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Enable      *bool  `json:"enable"`
		LicenseName string `json:"license_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	enable := body.Enable == nil || *body.Enable
	if enable && body.LicenseName != dashboard.LicenseName {
		writeError(w, http.StatusBadRequest, fmt.Sprintf(
			"Telemetry data is licensed under the Community Data License Agreement - Sharing - Version 1.0. "+
				"To enable, add 'license_name': '%s' to the request.", dashboard.LicenseName))
		return
	}

	h.state.setEnabled(enable)
	w.WriteHeader(http.StatusOK)
}

func (h *handler) knownModule(w http.ResponseWriter, r *http.Request) bool {
	if module := r.PathValue("module"); module != dashboard.TelemetryModule {
		writeError(w, http.StatusNotFound, fmt.Sprintf("Module '%s' not found", module))
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]any{
		"detail": detail,
		"code":   http.StatusText(status),
		"status": status,
	})
}
