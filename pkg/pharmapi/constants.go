package pharmapi

import "strings"

// Session storage keys. Login writes all of them, session teardown and
// logout remove all of them. Nothing else in the application touches
// any other key.
const (
	KeyAccessToken  = "accessToken"
	KeyRefreshToken = "refreshToken"
	KeyUserRole     = "userRole"
	KeyUserID       = "userId"
	KeyUserName     = "userName"
	KeyUserEmail    = "userEmail"
	KeyRoleID       = "roleId"
	KeyBranchID     = "branchId"
)

// SessionKeys is the fixed set of keys that make up a persisted session.
var SessionKeys = []string{
	KeyAccessToken,
	KeyRefreshToken,
	KeyUserRole,
	KeyUserID,
	KeyUserName,
	KeyUserEmail,
	KeyRoleID,
	KeyBranchID,
}

// DefaultLoginPath is the surface users are redirected to when their
// session is torn down. The redirect only fires when the navigator's
// current location differs from it, which prevents redirect loops.
const DefaultLoginPath = "/login"

// publicEndpoints are auth-domain paths exempt from session teardown on a
// 401 response. A 401 on any of these means "bad credentials", not
// "session expired".
var publicEndpoints = []string{
	"/auth/login",
	"/auth/register",
	"/auth/forgot-password",
	"/auth/reset-password",
	"/auth/verify-email",
	"/auth/resend-verification",
	"/auth/change-password",
}

// isPublicEndpoint reports whether endpoint is exempt from session
// teardown. Matches exactly or by suffix so callers may pass endpoints
// with or without a leading API prefix.
func isPublicEndpoint(endpoint string) bool {
	for _, p := range publicEndpoints {
		if endpoint == p || strings.HasSuffix(endpoint, p) {
			return true
		}
	}
	return false
}
