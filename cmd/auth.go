// Package cmd (auth.go) defines the authentication command group:
// login, logout, status, verify and change-password.
package cmd

import (
	"fmt"
	"os"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rxops/pharmacy-cli/internal/app"
)

// newSDK builds the live SDK for a command invocation. Kept as a variable
// so command tests can substitute a mock.
var newSDK = func(cmd *cobra.Command) (app.SDK, error) {
	a, err := app.NewApp(cmd)
	if err != nil {
		return nil, err
	}
	return a.SDK, nil
}

// readPassword prompts for a password without echoing when stdin is a
// terminal, falling back to a plain line read otherwise (pipes, tests).
func readPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	if term.IsTerminal(int(syscall.Stdin)) {
		data, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", fmt.Errorf("reading password: %w", err)
		}
		return string(data), nil
	}
	var line string
	if _, err := fmt.Scanln(&line); err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return line, nil
}

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage authentication with the pharmacy backend",
	Long:  `Provides subcommands to login, logout, check session status, verify the stored token and change your password.`,
}

var authLoginCmd = &cobra.Command{
	Use:   "login EMAIL",
	Short: "Authenticate with email and password",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sdk, err := newSDK(cmd)
		if err != nil {
			return err
		}

		password, _ := cmd.Flags().GetString("password")
		if password == "" {
			password, err = readPassword("Password: ")
			if err != nil {
				return err
			}
		}

		result := sdk.Login(cmd.Context(), args[0], password)
		if !result.Success {
			return fmt.Errorf("login failed: %s", result.Message)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (%s)\n", result.Name, result.Role)
		if result.RequiresPasswordChange {
			fmt.Fprintln(cmd.OutOrStdout(), "Your password must be changed. Run 'pharmacy-cli auth change-password'.")
		}
		return nil
	},
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the local session",
	Long:  `Notifies the server on a best-effort basis and always clears the locally stored credentials.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sdk, err := newSDK(cmd)
		if err != nil {
			return err
		}

		sdk.Logout(cmd.Context())
		fmt.Fprintln(cmd.OutOrStdout(), "You have been logged out.")
		return nil
	},
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current session",
	RunE: func(cmd *cobra.Command, args []string) error {
		sdk, err := newSDK(cmd)
		if err != nil {
			return err
		}

		session := sdk.Session()
		if !session.Authenticated() {
			fmt.Fprintln(cmd.OutOrStdout(), "Not logged in.")
			return nil
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s <%s>, role %s\n", session.Name, session.Email, session.Role)
		if session.BranchID != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "Branch: %s\n", session.BranchID)
		}
		if expiry, ok := sdk.TokenExpiry(); ok {
			if time.Now().After(expiry) {
				fmt.Fprintf(cmd.OutOrStdout(), "Access token expired at %s\n", expiry.Format(time.RFC3339))
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Access token valid until %s\n", expiry.Format(time.RFC3339))
			}
		}
		return nil
	},
}

var authVerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify the stored access token against the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		sdk, err := newSDK(cmd)
		if err != nil {
			return err
		}

		result := sdk.VerifyToken(cmd.Context())
		if !result.Success {
			fmt.Fprintf(cmd.OutOrStdout(), "Token invalid: %s\n", result.Message)
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Token is valid.")
		return nil
	},
}

var authChangePasswordCmd = &cobra.Command{
	Use:   "change-password",
	Short: "Change the current user's password",
	Long: `Changes the password for the logged-in user. The server invalidates the
current credentials on success, so you will be asked to login again.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sdk, err := newSDK(cmd)
		if err != nil {
			return err
		}

		current, err := readPassword("Current password: ")
		if err != nil {
			return err
		}
		newPassword, err := readPassword("New password: ")
		if err != nil {
			return err
		}

		result := sdk.ChangePassword(cmd.Context(), current, newPassword)
		if !result.Success {
			return fmt.Errorf("password change failed: %s", result.Message)
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Password changed. Please login again.")
		return nil
	},
}

func init() {
	authLoginCmd.Flags().String("password", "", "Password (prompted when omitted)")

	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authLogoutCmd)
	authCmd.AddCommand(authStatusCmd)
	authCmd.AddCommand(authVerifyCmd)
	authCmd.AddCommand(authChangePasswordCmd)
	rootCmd.AddCommand(authCmd)
}
