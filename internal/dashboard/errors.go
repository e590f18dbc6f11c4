package dashboard

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"syscall"

	"github.com/muurk/ceph-telemetry/internal/urls"
)

// Kind groups dashboard failures by what the operator has to fix
type Kind int

const (
	KindNetwork Kind = iota
	KindAuth
	KindHTTP
	KindParse
	// KindValidation marks a document or value the dashboard accepted but
	// that does not have the shape the wizard needs.
	KindValidation
	KindTimeout
	KindConnectionRefused
	KindDNS
	KindUnknown
)

var kindNames = map[Kind]string{
	KindNetwork:           "Network Error",
	KindAuth:              "Authentication Error",
	KindHTTP:              "HTTP Error",
	KindParse:             "Parse Error",
	KindValidation:        "Validation Error",
	KindTimeout:           "Timeout",
	KindConnectionRefused: "Connection Refused",
	KindDNS:               "DNS Error",
	KindUnknown:           "Unknown Error",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// Cause narrows a transport failure down for the troubleshooting hints
type Cause int

const (
	CauseGeneral Cause = iota
	CauseTimeout
	CauseRefused
	CauseDNS
	CauseHostUnreachable
	CauseNetUnreachable
	CauseTLS
)

// APIError is returned by every Client call that fails
type APIError struct {
	Kind       Kind
	Message    string
	StatusCode int    // zero unless the dashboard answered
	Detail     string // "detail" member of the dashboard's error body
	Endpoint   string
	Err        error
	Cause      Cause
}

func (e *APIError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Kind, e.Message, e.Err)
	case e.Detail != "":
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Message, e.Detail)
	default:
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// errnoCauses maps socket errors to the kind and cause they are reported as
var errnoCauses = []struct {
	errno   syscall.Errno
	kind    Kind
	cause   Cause
	message string
}{
	{syscall.ECONNREFUSED, KindConnectionRefused, CauseRefused, "Dashboard refused connection"},
	{syscall.EHOSTUNREACH, KindNetwork, CauseHostUnreachable, "Host unreachable"},
	{syscall.ENETUNREACH, KindNetwork, CauseNetUnreachable, "Network unreachable"},
}

// ClassifyNetworkError turns a transport error from net/http into an
// APIError. It returns nil for a nil error.
func ClassifyNetworkError(err error, endpoint string) *APIError {
	if err == nil {
		return nil
	}
	e := &APIError{Kind: KindNetwork, Message: "Network error occurred", Endpoint: endpoint, Err: err}

	if os.IsTimeout(err) || errors.Is(err, context.DeadlineExceeded) {
		e.Kind, e.Cause, e.Message = KindTimeout, CauseTimeout, "Request timed out"
		return e
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		e.Kind, e.Cause = KindDNS, CauseDNS
		e.Message = "Could not resolve " + dnsErr.Name
		return e
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		for _, c := range errnoCauses {
			if errors.Is(opErr.Err, c.errno) {
				e.Kind, e.Cause, e.Message = c.kind, c.cause, c.message
				return e
			}
		}
	}

	if msg := err.Error(); strings.Contains(msg, "x509:") || strings.Contains(msg, "tls:") {
		e.Cause, e.Message = CauseTLS, "TLS handshake failed"
		return e
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		if inner := ClassifyNetworkError(urlErr.Err, endpoint); inner != nil {
			return inner
		}
	}
	return e
}

// NewNetworkError classifies err and replaces its message
func NewNetworkError(message, endpoint string, err error) *APIError {
	e := ClassifyNetworkError(err, endpoint)
	if e == nil {
		e = &APIError{Kind: KindNetwork, Endpoint: endpoint}
	}
	e.Message = message
	return e
}

func NewAuthError(message, endpoint string) *APIError {
	return &APIError{Kind: KindAuth, Message: message, StatusCode: http.StatusUnauthorized, Endpoint: endpoint}
}

func NewHTTPError(statusCode int, message, endpoint, detail string) *APIError {
	return &APIError{Kind: KindHTTP, Message: message, StatusCode: statusCode, Endpoint: endpoint, Detail: detail}
}

func NewParseError(message, endpoint string, err error) *APIError {
	return &APIError{Kind: KindParse, Message: message, Endpoint: endpoint, Err: err}
}

func NewValidationError(message string) *APIError {
	return &APIError{Kind: KindValidation, Message: message}
}

func asAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	ok := errors.As(err, &apiErr)
	return apiErr, ok
}

func hasKind(err error, kinds ...Kind) bool {
	apiErr, ok := asAPIError(err)
	if !ok {
		return false
	}
	for _, k := range kinds {
		if apiErr.Kind == k {
			return true
		}
	}
	return false
}

// IsNetworkError reports transport failures, timeouts and DNS included
func IsNetworkError(err error) bool {
	return hasKind(err, KindNetwork, KindTimeout, KindConnectionRefused, KindDNS)
}

func IsAuthError(err error) bool       { return hasKind(err, KindAuth) }
func IsHTTPError(err error) bool       { return hasKind(err, KindHTTP) }
func IsParseError(err error) bool      { return hasKind(err, KindParse) }
func IsValidationError(err error) bool { return hasKind(err, KindValidation) }

func hint(lead string, steps ...string) string {
	lines := []string{lead, "Troubleshooting:"}
	for _, s := range steps {
		lines = append(lines, "  • "+s)
	}
	return strings.Join(lines, "\n")
}

var kindHints = map[Kind]string{
	KindTimeout: hint("The dashboard did not respond in time.",
		"Check that the active manager is running: ceph mgr stat",
		"Generating a telemetry report can be slow on large clusters",
		"Raise the limit with --timeout"),
	KindConnectionRefused: hint("The dashboard refused the connection.",
		"Check that the dashboard module is enabled: ceph mgr module enable dashboard",
		"Find the dashboard address with: ceph mgr services",
		"A standby manager may be answering; use the active manager's URL"),
	KindDNS: hint("Could not resolve the dashboard hostname.",
		"Use the manager's IP address instead of the hostname",
		"Check the resolver configuration on this machine"),
	KindAuth: hint("The dashboard rejected the credentials.",
		"Check the username given with --user",
		"Set the password with --password or CEPH_TELEMETRY_PASSWORD",
		"Inspect the account with: ceph dashboard ac-user-show <user>"),
	KindParse: strings.Join([]string{
		"The dashboard's response could not be decoded.",
		"The dashboard may run an incompatible API version.",
		"See " + urls.DashboardAPI,
	}, "\n"),
	KindValidation: "The dashboard returned values the wizard cannot use. See the message above.",
}

var causeHints = map[Cause]string{
	CauseHostUnreachable: hint("The dashboard host is not reachable.",
		"Verify the dashboard URL",
		"Check firewalls between this machine and the manager host"),
	CauseTLS: hint("The dashboard certificate could not be verified.",
		"Dashboards often use a self-signed certificate",
		"Pass --insecure to skip certificate verification",
		"Or use http:// if SSL is disabled: ceph config get mgr mgr/dashboard/ssl"),
}

// GetTroubleshootingHint returns multi-line advice for a failed dashboard call
func GetTroubleshootingHint(err error) string {
	apiErr, ok := asAPIError(err)
	if !ok {
		return "Something unexpected went wrong. Try again."
	}

	switch apiErr.Kind {
	case KindNetwork:
		cause := apiErr.Cause
		if cause == CauseNetUnreachable {
			cause = CauseHostUnreachable
		}
		if h, ok := causeHints[cause]; ok {
			return h
		}
		return hint("Could not talk to the dashboard.",
			"Check this machine's network connection",
			"Verify the dashboard URL")
	case KindHTTP:
		switch {
		case apiErr.StatusCode >= 500:
			return hint(fmt.Sprintf("The dashboard failed with HTTP %d.", apiErr.StatusCode),
				"Check the manager log for a traceback",
				"Check that the telemetry module is available: ceph mgr module ls",
				"See "+urls.TelemetryModule)
		case apiErr.StatusCode == http.StatusForbidden:
			return "The dashboard user lacks permission. Telemetry needs a role with config-opt read and update rights."
		default:
			return fmt.Sprintf("The dashboard rejected the request with HTTP %d.", apiErr.StatusCode)
		}
	}
	if h, ok := kindHints[apiErr.Kind]; ok {
		return h
	}
	return "See the message above for details."
}

// GetShortErrorMessage returns a one-line summary suitable for a notification
func GetShortErrorMessage(err error) string {
	apiErr, ok := asAPIError(err)
	if !ok {
		return err.Error()
	}

	switch apiErr.Kind {
	case KindTimeout:
		return "Dashboard not responding (timeout)"
	case KindConnectionRefused:
		return "Dashboard refused connection - is the dashboard module enabled?"
	case KindDNS:
		return "Cannot resolve dashboard hostname"
	case KindAuth:
		return "Authentication failed - check credentials"
	case KindNetwork:
		switch apiErr.Cause {
		case CauseHostUnreachable:
			return "Dashboard unreachable - check network connection"
		case CauseNetUnreachable:
			return "Network unreachable - check connection"
		case CauseTLS:
			return "Certificate verification failed - try --insecure"
		}
		return "Network error - check connection"
	case KindHTTP:
		if apiErr.Detail != "" {
			return fmt.Sprintf("Dashboard error (HTTP %d): %s", apiErr.StatusCode, apiErr.Detail)
		}
		return fmt.Sprintf("Dashboard error (HTTP %d)", apiErr.StatusCode)
	case KindParse:
		return "Dashboard sent an unreadable response"
	}
	return apiErr.Message
}
