package pharmapi

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Auth endpoint paths.
const (
	loginEndpoint          = "/auth/login"
	logoutEndpoint         = "/auth/logout"
	refreshTokenEndpoint   = "/auth/refresh-token"
	changePasswordEndpoint = "/auth/change-password"
	verifyTokenEndpoint    = "/auth/verify-token"
)

// AuthService implements the auth domain operations on top of
// Client.Call. All session-mutating operations are serialized behind one
// mutex; when a teardown (logout or session-guard expiry inside one of
// these operations) races a refresh, the teardown wins and the refresh
// result is discarded along with the rest of the session.
type AuthService struct {
	client *Client
	store  TokenStore
	logger Logger
	mu     sync.Mutex
}

// NewAuthService creates an AuthService sharing the client's token store
// and logger.
func NewAuthService(c *Client) *AuthService {
	return &AuthService{client: c, store: c.store, logger: c.logger}
}

// LoginResult is the login envelope with the derived identity fields
// surfaced to the caller.
type LoginResult struct {
	Success                bool   `json:"success"`
	Message                string `json:"message,omitempty"`
	Role                   string `json:"role,omitempty"`
	UserID                 string `json:"userId,omitempty"`
	Name                   string `json:"name,omitempty"`
	Email                  string `json:"email,omitempty"`
	RequiresPasswordChange bool   `json:"requiresPasswordChange,omitempty"`
}

// decodeAccessToken returns the access credential from a response
// payload. Alias precedence: token, accessToken, access_token.
func decodeAccessToken(payload map[string]any) string {
	return stringField(payload, "token", "accessToken", "access_token")
}

func decodeRefreshToken(payload map[string]any) string {
	return stringField(payload, "refreshToken", "refresh_token")
}

// Login performs an unauthenticated credential exchange. On success it
// persists both credentials, derives the role name from the numeric role
// identifier, stores the identity fields from whichever response shape is
// present, and surfaces the must-change-password flag.
func (s *AuthService) Login(ctx context.Context, email, password string) LoginResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	body, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return LoginResult{Message: "Failed to encode login request."}
	}

	res := s.client.Call(ctx, Request{
		Endpoint: loginEndpoint,
		Method:   http.MethodPost,
		Body:     body,
		SkipAuth: true,
	})
	if !res.Success {
		return LoginResult{Message: res.Message}
	}

	access := decodeAccessToken(res.Payload)
	if access == "" {
		return LoginResult{Message: "Login response carried no access token."}
	}
	s.store.Set(KeyAccessToken, access)
	if refresh := decodeRefreshToken(res.Payload); refresh != "" {
		s.store.Set(KeyRefreshToken, refresh)
	}

	id, ok := decodeIdentity(res.Payload)
	role := RoleName(id.RoleID)
	if ok {
		s.store.Set(KeyUserRole, role)
		s.store.Set(KeyUserID, id.ID)
		s.store.Set(KeyUserName, id.Name)
		s.store.Set(KeyUserEmail, id.Email)
		s.store.Set(KeyRoleID, scalarString(float64(id.RoleID)))
		s.store.Set(KeyBranchID, id.BranchID)
	}

	mustChange := res.Bool("requiresPasswordChange")
	if !mustChange {
		obj := objectField(res.Payload, "user")
		if obj == nil {
			obj = objectField(res.Payload, "users")
		}
		if obj != nil {
			mustChange = truthy(obj["must_change_password"])
		}
	}

	return LoginResult{
		Success:                true,
		Role:                   role,
		UserID:                 id.ID,
		Name:                   id.Name,
		Email:                  id.Email,
		RequiresPasswordChange: mustChange,
	}
}

// Logout makes a best-effort call to the server logout endpoint and then
// clears all local session fields regardless of the server outcome. A
// failed server call is logged, never propagated.
func (s *AuthService) Logout(ctx context.Context) Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := s.client.Call(ctx, Request{Endpoint: logoutEndpoint, Method: http.MethodPost})
	if !res.Success {
		s.logger.Warnf("server logout failed: %s", res.Message)
	}

	s.client.ClearSession()
	return Result{Success: true}
}

// RefreshToken mints a new access credential from the stored refresh
// credential. It fails immediately, without a network call, when no
// refresh credential is stored. On server rejection both credentials are
// cleared so the next call starts from a clean unauthenticated state.
func (s *AuthService) RefreshToken(ctx context.Context) Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	refresh := s.store.Get(KeyRefreshToken)
	if refresh == "" {
		return Result{Success: false, Message: "No refresh token available. Please login again."}
	}

	body, err := json.Marshal(map[string]string{"refreshToken": refresh})
	if err != nil {
		return Result{Success: false, Message: "Failed to encode refresh request."}
	}

	res := s.client.Call(ctx, Request{
		Endpoint: refreshTokenEndpoint,
		Method:   http.MethodPost,
		Body:     body,
	})
	if !res.Success {
		s.store.Remove(KeyAccessToken)
		s.store.Remove(KeyRefreshToken)
		return res
	}

	if access := decodeAccessToken(res.Payload); access != "" {
		s.store.Set(KeyAccessToken, access)
	}
	return res
}

// ChangePassword submits a password change for the current session.
// The server invalidates the old credential set on success, so callers
// are expected to chain a fresh Login afterwards.
func (s *AuthService) ChangePassword(ctx context.Context, currentPassword, newPassword string) Result {
	body, err := json.Marshal(map[string]string{
		"currentPassword": currentPassword,
		"newPassword":     newPassword,
	})
	if err != nil {
		return Result{Success: false, Message: "Failed to encode password change request."}
	}

	return s.client.Call(ctx, Request{
		Endpoint: changePasswordEndpoint,
		Method:   http.MethodPost,
		Body:     body,
	})
}

// VerifyToken confirms the stored access credential is still accepted by
// the server. It returns a normalized envelope rather than an error so
// callers can treat "no token" and "server rejected token" identically.
func (s *AuthService) VerifyToken(ctx context.Context) Result {
	if s.store.Get(KeyAccessToken) == "" {
		return Result{Success: false, Message: "No access token stored."}
	}
	return s.client.Call(ctx, Request{Endpoint: verifyTokenEndpoint})
}

// Session reads the persisted session. All identity fields report absent
// when the access credential is missing.
func (s *AuthService) Session() Session {
	access := s.store.Get(KeyAccessToken)
	if access == "" {
		return Session{}
	}
	return Session{
		AccessToken:  access,
		RefreshToken: s.store.Get(KeyRefreshToken),
		Role:         s.store.Get(KeyUserRole),
		UserID:       s.store.Get(KeyUserID),
		Name:         s.store.Get(KeyUserName),
		Email:        s.store.Get(KeyUserEmail),
		RoleID:       s.store.Get(KeyRoleID),
		BranchID:     s.store.Get(KeyBranchID),
	}
}

// TokenExpiry reports the expiry claim of the stored access token without
// verifying its signature. Verification belongs to the server; this is an
// offline hint for status displays. The second return is false when no
// token is stored or the token carries no parseable expiry.
func (s *AuthService) TokenExpiry() (time.Time, bool) {
	token := s.store.Get(KeyAccessToken)
	if token == "" {
		return time.Time{}, false
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
