package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/chukul/ssoctl/internal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	verbose        bool
	logFile        string
	nonInteractive bool

	logger = zap.NewNop()
	update *internal.UpdateNotice
)

var rootCmd = &cobra.Command{
	Use:   "ssoctl",
	Short: "ssoctl obtains AWS role credentials through AWS SSO device authorization",
	Long: `ssoctl logs you in to AWS IAM Identity Center (AWS SSO) from the terminal.
It starts a device authorization, lets you approve it in the browser and
exchanges the resulting token for temporary credentials of one account and role.
Nothing is written to disk: credentials go to stdout in the format you choose.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = internal.NewLogger(internal.LogOptions{
			Verbose: verbose,
			File:    logFile,
			Console: os.Stderr,
		})
		if cmd.Name() != "version" && !envBool("SSOCTL_NO_UPDATE_CHECK") {
			// Check for updates (non-blocking), reported once the command is done
			update = internal.CheckForUpdates()
		}
	},
}

// Execute runs the CLI
func Execute() {
	err := rootCmd.Execute()
	_ = logger.Sync()
	update.Print(os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		if hint := errorHint(err); hint != "" {
			fmt.Fprintf(os.Stderr, "💡 %s\n", hint)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", envBool("SSOCTL_VERBOSE"), "Enable debug logging on stderr")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", os.Getenv("SSOCTL_LOG_FILE"), "Also write debug logs as JSON to this file (rotated)")
	rootCmd.PersistentFlags().BoolVar(&nonInteractive, "non-interactive", envBool("SSOCTL_NON_INTERACTIVE"), "Fail instead of prompting for missing values")
}

func envBool(key string) bool {
	v := os.Getenv(key)
	return strings.EqualFold(v, "true") || v == "1"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
