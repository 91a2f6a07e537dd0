package pharmapi

import "net/http"

// guardSession inspects a completed exchange for authorization failure.
// A 401 on a protected endpoint is a one-shot state transition: the local
// session is torn down, the navigator (if any) is pointed at the login
// surface, and the call terminates with the session-expired message. A
// 401 on a public endpoint means bad credentials, not an expired session,
// and falls through to ordinary HTTP error handling.
func (c *Client) guardSession(endpoint string, ex *exchange) *ClassifiedError {
	if ex.StatusCode != http.StatusUnauthorized || isPublicEndpoint(endpoint) {
		return nil
	}

	c.logger.Debugf("session expired on %s, tearing down local session", endpoint)
	c.ClearSession()

	if c.navigator != nil && c.navigator.Location() != c.loginPath {
		c.navigator.Navigate(c.loginPath)
	}
	return newSessionExpiredError()
}

// ClearSession removes every session key from the token store. Used by
// the session guard and by logout.
func (c *Client) ClearSession() {
	for _, key := range SessionKeys {
		c.store.Remove(key)
	}
}
