package cmd

import (
	"fmt"
	"os"

	"github.com/chukul/ssoctl/internal"
	"github.com/spf13/cobra"
)

var (
	consoleFlags  profileFlags
	consoleOpen   bool
	consoleRegion string
)

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Log in through AWS SSO and print an AWS console sign-in URL",
	RunE: func(cmd *cobra.Command, args []string) error {
		creds, profile, err := resolveCredentials(cmd, &consoleFlags)
		if err != nil {
			return fmt.Errorf("AWS SSO login failed: %w", err)
		}

		region := consoleRegion
		if region == "" {
			region = profile.Region
		}

		signinURL, err := internal.ConsoleSigninURL(cmd.Context(), creds.AWS(), internal.ConsoleDestination(region))
		if err != nil {
			return err
		}

		if consoleOpen {
			err := internal.OpenURL(signinURL)
			if err == nil {
				fmt.Fprintln(os.Stderr, "🌐 Opened AWS console in your browser")
				return nil
			}
			logger.Sugar().Warnw("could not open browser", "error", err)
			fmt.Fprintln(os.Stderr, "⚠️  Could not open a browser, use the URL below.")
		}

		fmt.Fprintln(cmd.OutOrStdout(), signinURL)
		return nil
	},
}

func init() {
	consoleFlags.register(consoleCmd)
	consoleCmd.Flags().BoolVar(&consoleOpen, "open", false, "Open the URL in the default browser")
	consoleCmd.Flags().StringVar(&consoleRegion, "console-region", "", "Console region to land in (defaults to --region)")

	rootCmd.AddCommand(consoleCmd)
}
