package app

import (
	"context"
	"time"

	"github.com/rxops/pharmacy-cli/pkg/pharmapi"
)

// SDK is the interface the command layer programs against. It exists so
// command tests can substitute a mock without a live backend.
type SDK interface {
	Login(ctx context.Context, email, password string) pharmapi.LoginResult
	Logout(ctx context.Context) pharmapi.Result
	RefreshToken(ctx context.Context) pharmapi.Result
	ChangePassword(ctx context.Context, currentPassword, newPassword string) pharmapi.Result
	VerifyToken(ctx context.Context) pharmapi.Result
	Session() pharmapi.Session
	TokenExpiry() (time.Time, bool)
	Call(ctx context.Context, req pharmapi.Request) pharmapi.Result
}

// LiveSDK is the concrete implementation backed by the real client.
type LiveSDK struct {
	Client *pharmapi.Client
	Auth   *pharmapi.AuthService
}

func (s *LiveSDK) Login(ctx context.Context, email, password string) pharmapi.LoginResult {
	return s.Auth.Login(ctx, email, password)
}

func (s *LiveSDK) Logout(ctx context.Context) pharmapi.Result {
	return s.Auth.Logout(ctx)
}

func (s *LiveSDK) RefreshToken(ctx context.Context) pharmapi.Result {
	return s.Auth.RefreshToken(ctx)
}

func (s *LiveSDK) ChangePassword(ctx context.Context, currentPassword, newPassword string) pharmapi.Result {
	return s.Auth.ChangePassword(ctx, currentPassword, newPassword)
}

func (s *LiveSDK) VerifyToken(ctx context.Context) pharmapi.Result {
	return s.Auth.VerifyToken(ctx)
}

func (s *LiveSDK) Session() pharmapi.Session {
	return s.Auth.Session()
}

func (s *LiveSDK) TokenExpiry() (time.Time, bool) {
	return s.Auth.TokenExpiry()
}

func (s *LiveSDK) Call(ctx context.Context, req pharmapi.Request) pharmapi.Result {
	return s.Client.Call(ctx, req)
}
