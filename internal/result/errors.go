package result

import "fmt"

// Source identifies where an agent manifest was discovered.
type Source string

// Discovery sources.
const (
	SourceLocal  Source = "local"
	SourceRemote Source = "remote"
	SourceMulti  Source = "multi"
)

// LoadErrorKind classifies why an agent failed to load.
type LoadErrorKind string

// Load error kinds. Typed constants instead of bare strings so an invalid
// kind is a compile error, not a runtime string mismatch.
const (
	LoadErrImport        LoadErrorKind = "import"
	LoadErrSyntax        LoadErrorKind = "syntax"
	LoadErrInstantiation LoadErrorKind = "instantiation"
	LoadErrMissingClass  LoadErrorKind = "missing_class"
	LoadErrFileRead      LoadErrorKind = "file_read"
)

// AgentLoadError is an immutable record describing one agent that could not
// be loaded. Produced only at discovery boundaries; consumed by logging and
// reporting.
type AgentLoadError struct {
	AgentName string
	Source    Source
	Kind      LoadErrorKind
	Message   string
}

// Error implements the error interface so load errors can also travel through
// ordinary error plumbing when a caller leaves the Result world.
func (e AgentLoadError) Error() string {
	return fmt.Sprintf("agent %q (%s): %s: %s", e.AgentName, e.Source, e.Kind, e.Message)
}

// APIErrorKind classifies a failed external API call.
type APIErrorKind string

// API error kinds.
const (
	APIErrRateLimit      APIErrorKind = "rate_limit"
	APIErrAuth           APIErrorKind = "auth"
	APIErrTimeout        APIErrorKind = "timeout"
	APIErrInvalidRequest APIErrorKind = "invalid_request"
	APIErrServer         APIErrorKind = "server"
	APIErrUnknown        APIErrorKind = "unknown"
)

// APIError is an immutable record produced at the boundary of an external API
// call. Retryable is a policy hint for the caller; no retry loop lives in
// this package.
type APIError struct {
	Kind       APIErrorKind
	Message    string
	StatusCode int // 0 when no HTTP status applies
	Retryable  bool
}

// Error implements the error interface.
func (e APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("api error (%s, status %d): %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api error (%s): %s", e.Kind, e.Message)
}

// ClassifyStatus maps an HTTP status code to an APIError with the matching
// kind and retryability. Rate limits and server-side failures are marked
// retryable; auth and request shape problems are not.
func ClassifyStatus(status int, msg string) APIError {
	e := APIError{Message: msg, StatusCode: status}
	switch {
	case status == 429:
		e.Kind = APIErrRateLimit
		e.Retryable = true
	case status == 401 || status == 403:
		e.Kind = APIErrAuth
	case status == 408 || status == 504:
		e.Kind = APIErrTimeout
		e.Retryable = true
	case status >= 400 && status < 500:
		e.Kind = APIErrInvalidRequest
	case status >= 500:
		e.Kind = APIErrServer
		e.Retryable = true
	default:
		e.Kind = APIErrUnknown
	}
	return e
}
