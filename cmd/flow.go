package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/chukul/ssoctl/internal"
	"github.com/chukul/ssoctl/internal/sso"
	"github.com/chukul/ssoctl/internal/ui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"
)

// resolveSSO and newSTS are replaced in tests.
var (
	resolveSSO = sso.ResolveCredentials
	newSTS     = func(ctx context.Context, region string, creds aws.Credentials) (internal.STSAPI, error) {
		return internal.NewSTSClient(ctx, region, creds)
	}
)

// profileFlags are shared by every command that logs in.
type profileFlags struct {
	startURL   string
	accountID  string
	roleName   string
	region     string
	clientName string
	noBrowser  bool
}

func (f *profileFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.startURL, "start-url", os.Getenv("SSOCTL_START_URL"), "AWS access portal URL, e.g. https://my-org.awsapps.com/start")
	cmd.Flags().StringVar(&f.accountID, "account-id", os.Getenv("SSOCTL_ACCOUNT_ID"), "AWS account ID to get credentials for")
	cmd.Flags().StringVar(&f.roleName, "role-name", os.Getenv("SSOCTL_ROLE_NAME"), "Permission set (role) name")
	cmd.Flags().StringVar(&f.region, "region", envOr("SSOCTL_REGION", os.Getenv("AWS_REGION")), "Region of the AWS SSO instance")
	cmd.Flags().StringVar(&f.clientName, "client-name", envOr("SSOCTL_CLIENT_NAME", "ssoctl"), "Name of the OIDC client registered for the login")
	cmd.Flags().BoolVar(&f.noBrowser, "no-browser", envBool("SSOCTL_NO_BROWSER"), "Print the verification URL without opening a browser")
}

// params returns the profile, prompting for missing values when possible.
func (f *profileFlags) params() (sso.ProfileParams, error) {
	p := sso.ProfileParams{
		StartURL:  strings.TrimSpace(f.startURL),
		AccountID: strings.TrimSpace(f.accountID),
		Region:    strings.TrimSpace(f.region),
		RoleName:  strings.TrimSpace(f.roleName),
	}
	if err := p.Validate(); err == nil || nonInteractive || !isTerminal(os.Stdin) {
		return p, err
	}

	prompts := []struct {
		value    *string
		prompt   string
		fallback string
	}{
		{&p.StartURL, "AWS access portal URL", ""},
		{&p.Region, "AWS SSO region", "us-east-1"},
		{&p.AccountID, "AWS account ID", ""},
		{&p.RoleName, "Role name", ""},
	}
	for _, q := range prompts {
		if *q.value != "" {
			continue
		}
		v, err := ui.GetInput(q.prompt, q.fallback)
		if err != nil {
			return p, err
		}
		*q.value = strings.TrimSpace(v)
	}
	return p, p.Validate()
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func stateText(s sso.State) string {
	switch s {
	case sso.StateRegistering:
		return "Registering client..."
	case sso.StateAwaitingAuthorization:
		return "Starting device authorization..."
	case sso.StatePolling:
		return "Waiting for approval in the browser..."
	case sso.StateExchanging:
		return "Fetching role credentials..."
	default:
		return ""
	}
}

// reporterWriter feeds notifier output to a ui.Reporter line by line.
type reporterWriter struct {
	r ui.Reporter
}

func (w reporterWriter) Write(p []byte) (int, error) {
	for _, line := range strings.Split(strings.TrimRight(string(p), "\n"), "\n") {
		w.r.Println(line)
	}
	return len(p), nil
}

func (f *profileFlags) notifier(r ui.Reporter, log *zap.SugaredLogger) sso.UserNotifier {
	notifiers := sso.MultiNotifier{sso.WriterNotifier{W: reporterWriter{r: r}}}
	if !f.noBrowser {
		browser := sso.BrowserNotifier{}
		// Failing to open a browser is not fatal: the URL has been printed.
		notifiers = append(notifiers, sso.NotifierFunc(func(ctx context.Context, url string) error {
			if err := browser.Notify(ctx, url); err != nil {
				log.Warnw("could not open browser", "error", err)
				r.Println("⚠️  Could not open a browser, open the URL above manually.")
			}
			return nil
		}))
	}
	return notifiers
}

// resolveCredentials runs the device authorization flow for the profile
// described by f, with a spinner when stderr is a terminal.
func resolveCredentials(cmd *cobra.Command, f *profileFlags) (*sso.Credentials, sso.ProfileParams, error) {
	profile, err := f.params()
	if err != nil {
		return nil, profile, err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	log := logger.Sugar().With("startUrl", profile.StartURL, "accountId", profile.AccountID, "roleName", profile.RoleName, "region", profile.Region)
	fmt.Fprintf(os.Stderr, "🔐 Logging in to AWS SSO for role %s in account %s...\n", profile.RoleName, profile.AccountID)

	run := func(r ui.Reporter) (any, error) {
		return resolveSSO(ctx, profile, sso.Options{
			ClientName: f.clientName,
			Notifier:   f.notifier(r, log),
		},
			sso.WithLogger(log),
			sso.WithStateObserver(func(s sso.State) {
				if text := stateText(s); text != "" {
					r.Status(text)
				}
			}),
		)
	}

	var res any
	if isTerminal(os.Stderr) && !verbose {
		res, err = ui.Spin(stateText(sso.StateRegistering), run)
	} else {
		res, err = run(ui.PlainReporter{W: os.Stderr})
	}
	if err != nil {
		return nil, profile, err
	}
	return res.(*sso.Credentials), profile, nil
}

// verifyIdentity asks STS who the credentials belong to.
func verifyIdentity(ctx context.Context, region string, creds *sso.Credentials) (*internal.Identity, error) {
	svc, err := newSTS(ctx, region, creds.AWS())
	if err != nil {
		return nil, err
	}
	id, err := internal.CallerIdentity(ctx, svc)
	if err != nil {
		return nil, fmt.Errorf("failed to verify credentials: %w", err)
	}
	return id, nil
}
