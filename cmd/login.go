package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/chukul/ssoctl/internal"
	"github.com/chukul/ssoctl/internal/output"
	"github.com/spf13/cobra"
)

var (
	loginFlags  profileFlags
	loginOutput string
	loginVerify bool
)

func init() {
	loginFlags.register(loginCmd)
	loginCmd.Flags().StringVarP(&loginOutput, "output", "o", envOr("SSOCTL_OUTPUT", string(output.FormatEnv)), "Output format: env, json, yaml or process")
	loginCmd.Flags().BoolVar(&loginVerify, "verify", false, "Check the credentials with STS GetCallerIdentity")

	rootCmd.AddCommand(loginCmd)
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in through AWS SSO and print role credentials",
	Example: `  # Export credentials into the current shell
  eval "$(ssoctl login --start-url https://my-org.awsapps.com/start --region eu-west-1 --account-id 111122223333 --role-name ReadOnly)"

  # Use as an AWS CLI credential_process
  credential_process = ssoctl login -o process --non-interactive --account-id 111122223333 --role-name ReadOnly`,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := output.ParseFormat(loginOutput)
		if err != nil {
			return err
		}

		creds, profile, err := resolveCredentials(cmd, &loginFlags)
		if err != nil {
			return fmt.Errorf("AWS SSO login failed: %w", err)
		}

		fmt.Fprintf(os.Stderr, "✅ Credentials issued for role %s in account %s\n", profile.RoleName, profile.AccountID)
		if !creds.Expiration.IsZero() {
			fmt.Fprintf(os.Stderr, "   Expires: %s (%s remaining)\n",
				internal.FormatLocal(creds.Expiration), internal.FormatRemaining(time.Until(creds.Expiration)))
		}

		if loginVerify {
			id, err := verifyIdentity(cmd.Context(), profile.Region, creds)
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "   Identity: %s\n", id.Arn)
		}

		return output.WriteCredentials(cmd.OutOrStdout(), format, creds)
	},
}
