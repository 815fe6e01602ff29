package cmd

import (
	"fmt"
	"strings"

	"github.com/chukul/ssoctl/internal/output"
	"github.com/spf13/cobra"
)

var (
	whoamiFlags  profileFlags
	whoamiOutput string
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Log in through AWS SSO and show the caller identity",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := whoamiFormat(whoamiOutput)
		if err != nil {
			return err
		}

		creds, profile, err := resolveCredentials(cmd, &whoamiFlags)
		if err != nil {
			return fmt.Errorf("AWS SSO login failed: %w", err)
		}

		id, err := verifyIdentity(cmd.Context(), profile.Region, creds)
		if err != nil {
			return err
		}

		if format != "" {
			return output.WriteObject(cmd.OutOrStdout(), format, id)
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "Account: %s\n", id.Account)
		fmt.Fprintf(w, "ARN:     %s\n", id.Arn)
		fmt.Fprintf(w, "UserID:  %s\n", id.UserID)
		return nil
	},
}

// whoamiFormat accepts json and yaml. Empty means the text table.
func whoamiFormat(s string) (output.Format, error) {
	if strings.TrimSpace(s) == "" {
		return "", nil
	}
	f, err := output.ParseFormat(s)
	if err != nil {
		return "", err
	}
	if f != output.FormatJSON && f != output.FormatYAML {
		return "", fmt.Errorf("%s format is not supported by whoami, use json or yaml", f)
	}
	return f, nil
}

func init() {
	whoamiFlags.register(whoamiCmd)
	whoamiCmd.Flags().StringVarP(&whoamiOutput, "output", "o", "", "Output format: json or yaml (default: text)")

	rootCmd.AddCommand(whoamiCmd)
}
