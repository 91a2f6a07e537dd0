package pharmapi

import "strings"

// Request describes a single API call. It is constructed by a caller,
// consumed once by the dispatcher and never mutated after dispatch begins.
type Request struct {
	// Endpoint is the path relative to the client's base URL, e.g.
	// "/inventory" or "auth/login". Redundant slashes are tolerated.
	Endpoint string

	// Method is the HTTP method. Defaults to GET when empty.
	Method string

	// Headers are caller-supplied headers. They take precedence over any
	// header the client would compute for the same key.
	Headers map[string]string

	// Body is the raw request body, typically marshalled JSON.
	Body []byte

	// SkipAuth suppresses the Authorization header even when an access
	// token is stored. Used for login and other public endpoints.
	SkipAuth bool

	// SkipContentType suppresses the forced JSON content type, used when
	// the body is a multipart form payload whose boundary header is set
	// by the caller.
	SkipContentType bool
}

// JoinURL joins a configured base URL with an endpoint path, tolerating
// redundant slashes on either side. It performs no validation of scheme
// or host and has no failure mode.
func JoinURL(base, endpoint string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(endpoint, "/")
}
