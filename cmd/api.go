// Package cmd (api.go) exposes a raw API escape hatch. Feature modules in
// the full application are thin wrappers around exactly this call shape.
package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rxops/pharmacy-cli/pkg/pharmapi"
)

var apiCmd = &cobra.Command{
	Use:   "api METHOD PATH [BODY]",
	Short: "Issue a raw API call and print the outcome envelope",
	Long: `Issues a single API call through the resilient client and prints the
outcome envelope as JSON. The envelope is always {"success": true, ...}
or {"success": false, "message": "..."} — no other shape exists.

Examples:
  pharmacy-cli api GET /inventory
  pharmacy-cli api POST /sales '{"items":[{"medicineId":12,"quantity":2}]}'`,
	Args: cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		sdk, err := newSDK(cmd)
		if err != nil {
			return err
		}

		req := pharmapi.Request{
			Method:   strings.ToUpper(args[0]),
			Endpoint: args[1],
		}
		if len(args) == 3 {
			req.Body = []byte(args[2])
		}
		if skipAuth, _ := cmd.Flags().GetBool("no-auth"); skipAuth {
			req.SkipAuth = true
		}

		result := sdk.Call(cmd.Context(), req)

		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("rendering envelope: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

func init() {
	apiCmd.Flags().Bool("no-auth", false, "Do not attach the bearer credential")
	rootCmd.AddCommand(apiCmd)
}
