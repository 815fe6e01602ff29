package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate shell integration code",
	Long:  `Generate shell integration code to simplify ssoctl usage. Add the output to your shell config file.`,
	Run: func(cmd *cobra.Command, args []string) {
		w := cmd.OutOrStdout()
		shell := detectShell()

		fmt.Fprintf(w, "# ssoctl shell integration for %s\n", shell)
		fmt.Fprintln(w, "# Add this to your shell config file:")
		fmt.Fprintln(w, "# - Bash: ~/.bashrc or ~/.bash_profile")
		fmt.Fprintln(w, "# - Zsh: ~/.zshrc")
		fmt.Fprintln(w, "# - Fish: ~/.config/fish/config.fish")
		fmt.Fprintln(w)

		switch shell {
		case "fish":
			printFishIntegration(w)
		default:
			printBashZshIntegration(w)
		}
	},
}

func detectShell() string {
	shell := os.Getenv("SHELL")
	if shell == "" {
		if runtime.GOOS == "windows" {
			return "powershell"
		}
		return "bash"
	}
	return filepath.Base(shell)
}

func printBashZshIntegration(w io.Writer) {
	fmt.Fprintln(w, `# Default AWS SSO instance (optional)
# export SSOCTL_START_URL="https://my-org.awsapps.com/start"
# export SSOCTL_REGION="us-east-1"

# Log in and export credentials - usage: sso <account-id> <role-name>
sso() {
  if [ $# -lt 2 ]; then
    echo "usage: sso <account-id> <role-name> [ssoctl login flags]" >&2
    return 1
  fi
  local account="$1" role="$2"
  shift 2
  local creds
  creds="$(ssoctl login -o env --account-id "$account" --role-name "$role" "$@")" || return
  eval "$creds"
}

# Forget exported credentials
sso_clear() {
  unset AWS_ACCESS_KEY_ID AWS_SECRET_ACCESS_KEY AWS_SESSION_TOKEN AWS_CREDENTIAL_EXPIRATION
}

# Aliases for common commands
alias ssoc='ssoctl console --open'
alias ssow='ssoctl whoami'`)
}

func printFishIntegration(w io.Writer) {
	fmt.Fprintln(w, `# Default AWS SSO instance (optional)
# set -gx SSOCTL_START_URL "https://my-org.awsapps.com/start"
# set -gx SSOCTL_REGION "us-east-1"

# Log in and export credentials - usage: sso <account-id> <role-name>
function sso
    if test (count $argv) -lt 2
        echo "usage: sso <account-id> <role-name> [ssoctl login flags]" >&2
        return 1
    end
    set -l creds (ssoctl login -o env --account-id $argv[1] --role-name $argv[2] $argv[3..-1])
    or return
    for line in $creds
        eval $line
    end
end

# Forget exported credentials
function sso_clear
    set -e AWS_ACCESS_KEY_ID AWS_SECRET_ACCESS_KEY AWS_SESSION_TOKEN AWS_CREDENTIAL_EXPIRATION
end

# Aliases for common commands
alias ssoc='ssoctl console --open'
alias ssow='ssoctl whoami'`)
}

func init() {
	rootCmd.AddCommand(initCmd)
}
