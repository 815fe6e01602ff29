package cmd

import (
	"fmt"

	"github.com/chukul/ssoctl/internal"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "ssoctl version %s\n", internal.CurrentVersion)

		// Force check for updates
		latest, url, err := internal.FetchLatestVersion(cmd.Context())
		if err != nil {
			fmt.Fprintf(w, "Unable to check for updates: %v\n", err)
			return
		}

		if internal.IsNewer(latest, internal.CurrentVersion) {
			fmt.Fprintf(w, "\n💡 Update available: %s → %s\n", internal.CurrentVersion, latest)
			fmt.Fprintf(w, "   Download: %s\n", url)
		} else {
			fmt.Fprintln(w, "✅ You're running the latest version")
		}
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
