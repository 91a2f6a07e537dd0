package pharmapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Kind is the stable failure taxonomy. Every failure that reaches feature
// code has been assigned exactly one Kind before being collapsed into the
// outcome envelope's message string.
type Kind int

const (
	KindUnclassified Kind = iota
	KindTimeout
	KindNetworkUnreachable
	KindCORSMisconfigured
	KindSessionExpired
	KindHTTPClientError
	KindHTTPServerError
	KindBackendIncompatibility
)

// Sentinel errors, one per taxonomy kind, so callers can use errors.Is
// on anything the client returns internally.
var (
	ErrTimeout                = errors.New("request timed out")
	ErrNetworkUnreachable     = errors.New("network unreachable")
	ErrCORSMisconfigured      = errors.New("cross-origin request blocked")
	ErrSessionExpired         = errors.New("session expired")
	ErrHTTPClientError        = errors.New("client error response")
	ErrHTTPServerError        = errors.New("server error response")
	ErrBackendIncompatibility = errors.New("backend SQL incompatibility")
	ErrUnclassified           = errors.New("unclassified error")
)

// ClassifiedError carries the taxonomy kind, the HTTP status (when the
// failure came from a completed exchange) and the human-readable message
// that ends up in the outcome envelope.
type ClassifiedError struct {
	Kind       Kind
	StatusCode int
	Message    string
	Err        error // sentinel, for errors.Is
}

func (e *ClassifiedError) Error() string { return e.Message }

func (e *ClassifiedError) Unwrap() error { return e.Err }

// Retryable reports whether the dispatcher's retry policy may attempt the
// call again. Only transport-level failures are retryable; cancellation is
// terminal and HTTP error responses are never retried at this layer.
func (e *ClassifiedError) Retryable() bool {
	switch e.Kind {
	case KindNetworkUnreachable, KindCORSMisconfigured:
		return true
	default:
		return false
	}
}

func classified(kind Kind, sentinel error, message string) *ClassifiedError {
	return &ClassifiedError{Kind: kind, Message: message, Err: sentinel}
}

func newTimeoutError(baseURL string) *ClassifiedError {
	msg := fmt.Sprintf("Request timed out. Unable to reach the server at %s. Please verify the backend is running and reachable.", baseURL)
	return classified(KindTimeout, ErrTimeout, msg)
}

const corsMessage = "The server rejected the request due to a cross-origin (CORS) misconfiguration. Check that the backend allows requests from this client's origin."

func newCORSError() *ClassifiedError {
	return classified(KindCORSMisconfigured, ErrCORSMisconfigured, corsMessage)
}

func newNetworkError(cause error) *ClassifiedError {
	err := classified(KindNetworkUnreachable, ErrNetworkUnreachable,
		"Network error. Please check your connection and try again.")
	err.Err = fmt.Errorf("%w: %w", ErrNetworkUnreachable, cause)
	return err
}

const sessionExpiredMessage = "Session expired. Please login again."

func newSessionExpiredError() *ClassifiedError {
	return classified(KindSessionExpired, ErrSessionExpired, sessionExpiredMessage)
}

// mentionsCORS detects transports that surface cross-origin failures as an
// error description rather than a status code.
func mentionsCORS(err error) bool {
	if err == nil {
		return false
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "cors") || strings.Contains(s, "cross-origin")
}

// errorBody is the tolerant decode target for non-2xx response bodies.
// Servers are inconsistent about which field carries the message.
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
	Code    string `json:"code"`
}

// Known signatures of the backend issuing non-portable SQL. When the
// server leaks a raw database error matching one of these, the raw text is
// replaced with a fixed diagnostic naming the incompatibility class
// instead of surfacing the database internals to the user.
var (
	sqlFunctionPattern = regexp.MustCompile(`(?i)function\s+\w+\s*\(.*\)\s+does not exist`)
	sqlStateCodes      = map[string]bool{"42883": true, "42601": true}
)

const backendIncompatibilityMessage = "The server attempted a database query with non-portable SQL syntax. Please update the backend to a build with portable SQL support."

func isSQLIncompatibility(body errorBody) bool {
	if sqlStateCodes[body.Code] {
		return true
	}
	for _, s := range []string{body.Message, body.Error} {
		if sqlFunctionPattern.MatchString(s) {
			return true
		}
		if strings.Contains(strings.ToLower(s), "syntax error at or near") {
			return true
		}
	}
	return false
}

// statusMessages are the defaults substituted when an error response
// carries no server-provided message.
var statusMessages = map[int]string{
	400: "Invalid request. Please check your input and try again.",
	403: "You do not have permission to perform this action.",
	404: "The requested resource was not found.",
	409: "A conflicting record already exists.",
	422: "The submitted data failed validation.",
	429: "Too many requests. Please wait a moment and try again.",
	500: "The server encountered an internal error. Please try again later.",
	502: "The service is temporarily unavailable. Please try again later.",
	503: "The service is temporarily unavailable. Please try again later.",
	504: "The service is temporarily unavailable. Please try again later.",
}

// classifyExchange maps a completed non-2xx exchange into the taxonomy.
// The body is parsed tolerantly; a parse failure is treated as an empty
// body and the per-status default message applies.
func classifyExchange(ex *exchange) *ClassifiedError {
	// Some transports surface CORS failures as status 0 with no error.
	if ex.StatusCode == 0 {
		return newCORSError()
	}

	var body errorBody
	_ = json.Unmarshal(ex.Body, &body)

	if isSQLIncompatibility(body) {
		err := classified(KindBackendIncompatibility, ErrBackendIncompatibility, backendIncompatibilityMessage)
		err.StatusCode = ex.StatusCode
		return err
	}

	message := body.Message
	if message == "" {
		message = body.Error
	}
	if message == "" {
		if def, ok := statusMessages[ex.StatusCode]; ok {
			message = def
		} else {
			message = fmt.Sprintf("HTTP error! status: %d", ex.StatusCode)
		}
	}

	var err *ClassifiedError
	switch {
	case ex.StatusCode >= 500:
		err = classified(KindHTTPServerError, ErrHTTPServerError, message)
	case ex.StatusCode >= 400:
		err = classified(KindHTTPClientError, ErrHTTPClientError, message)
	default:
		err = classified(KindUnclassified, ErrUnclassified, message)
	}
	err.StatusCode = ex.StatusCode
	return err
}
