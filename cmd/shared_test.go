package cmd

import (
	"bytes"
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/rxops/pharmacy-cli/internal/app"
	"github.com/rxops/pharmacy-cli/pkg/pharmapi"
)

// MockSDK implements app.SDK for command tests.
type MockSDK struct {
	LoginFunc          func(ctx context.Context, email, password string) pharmapi.LoginResult
	LogoutFunc         func(ctx context.Context) pharmapi.Result
	RefreshTokenFunc   func(ctx context.Context) pharmapi.Result
	ChangePasswordFunc func(ctx context.Context, currentPassword, newPassword string) pharmapi.Result
	VerifyTokenFunc    func(ctx context.Context) pharmapi.Result
	SessionFunc        func() pharmapi.Session
	TokenExpiryFunc    func() (time.Time, bool)
	CallFunc           func(ctx context.Context, req pharmapi.Request) pharmapi.Result
}

func (m *MockSDK) Login(ctx context.Context, email, password string) pharmapi.LoginResult {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password)
	}
	return pharmapi.LoginResult{Success: true}
}

func (m *MockSDK) Logout(ctx context.Context) pharmapi.Result {
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx)
	}
	return pharmapi.Result{Success: true}
}

func (m *MockSDK) RefreshToken(ctx context.Context) pharmapi.Result {
	if m.RefreshTokenFunc != nil {
		return m.RefreshTokenFunc(ctx)
	}
	return pharmapi.Result{Success: true}
}

func (m *MockSDK) ChangePassword(ctx context.Context, currentPassword, newPassword string) pharmapi.Result {
	if m.ChangePasswordFunc != nil {
		return m.ChangePasswordFunc(ctx, currentPassword, newPassword)
	}
	return pharmapi.Result{Success: true}
}

func (m *MockSDK) VerifyToken(ctx context.Context) pharmapi.Result {
	if m.VerifyTokenFunc != nil {
		return m.VerifyTokenFunc(ctx)
	}
	return pharmapi.Result{Success: true}
}

func (m *MockSDK) Session() pharmapi.Session {
	if m.SessionFunc != nil {
		return m.SessionFunc()
	}
	return pharmapi.Session{}
}

func (m *MockSDK) TokenExpiry() (time.Time, bool) {
	if m.TokenExpiryFunc != nil {
		return m.TokenExpiryFunc()
	}
	return time.Time{}, false
}

func (m *MockSDK) Call(ctx context.Context, req pharmapi.Request) pharmapi.Result {
	if m.CallFunc != nil {
		return m.CallFunc(ctx, req)
	}
	return pharmapi.Result{Success: true}
}

// executeWithMock runs the command tree against a mock SDK and returns
// captured stdout.
func executeWithMock(mock *MockSDK, args ...string) (string, error) {
	original := newSDK
	newSDK = func(cmd *cobra.Command) (app.SDK, error) {
		return mock, nil
	}
	defer func() { newSDK = original }()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return out.String(), err
}
