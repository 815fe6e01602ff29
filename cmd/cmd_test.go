package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/aws/smithy-go"
	"github.com/chukul/ssoctl/internal"
	"github.com/chukul/ssoctl/internal/sso"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
	"gopkg.in/yaml.v3"
)

type stubProvider struct {
	pending  int
	calls    int
	credsErr error

	startURL string
	role     string
}

func (p *stubProvider) RegisterClient(_ context.Context, name string) (*sso.ClientRegistration, error) {
	return &sso.ClientRegistration{ClientID: name}, nil
}

func (p *stubProvider) StartDeviceAuthorization(_ context.Context, _ *sso.ClientRegistration, startURL string) (*sso.DeviceAuthorization, error) {
	p.startURL = startURL
	return &sso.DeviceAuthorization{DeviceCode: "device", VerificationURIComplete: "https://verification-url.com"}, nil
}

func (p *stubProvider) CreateToken(context.Context, *sso.ClientRegistration, string) (*oauth2.Token, error) {
	p.calls++
	if p.calls <= p.pending {
		return nil, sso.ErrAuthorizationPending
	}
	return &oauth2.Token{AccessToken: "token"}, nil
}

func (p *stubProvider) GetRoleCredentials(_ context.Context, _ *oauth2.Token, accountID, roleName string) (*sso.Credentials, error) {
	p.role = accountID + "/" + roleName
	if p.credsErr != nil {
		return nil, p.credsErr
	}
	return &sso.Credentials{
		AccessKeyID:     "AKIA1234567890",
		SecretAccessKey: "1234567890",
		SessionToken:    "12345678901234567890",
		Expiration:      time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC),
	}, nil
}

type stubSTS struct {
	calls  int
	region string
	creds  aws.Credentials
}

func (s *stubSTS) GetCallerIdentity(context.Context, *sts.GetCallerIdentityInput, ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error) {
	s.calls++
	return &sts.GetCallerIdentityOutput{
		Account: aws.String("123456789012"),
		Arn:     aws.String("arn:aws:sts::123456789012:assumed-role/AdministratorAccess/user"),
		UserId:  aws.String("AROAEXAMPLE:user"),
	}, nil
}

func useSTS(t *testing.T) *stubSTS {
	t.Helper()
	svc := &stubSTS{}
	prev := newSTS
	newSTS = func(_ context.Context, region string, creds aws.Credentials) (internal.STSAPI, error) {
		svc.region = region
		svc.creds = creds
		return svc, nil
	}
	t.Cleanup(func() { newSTS = prev })
	return svc
}

type instantClock struct{}

func (instantClock) Sleep(ctx context.Context, _ time.Duration) error { return ctx.Err() }

func useProvider(t *testing.T, p sso.Provider) {
	t.Helper()
	t.Setenv("SSOCTL_NO_UPDATE_CHECK", "1")
	prev := resolveSSO
	resolveSSO = func(ctx context.Context, profile sso.ProfileParams, opts sso.Options, flowOpts ...sso.FlowOption) (*sso.Credentials, error) {
		return sso.NewFlow(p, append(flowOpts, sso.WithClock(instantClock{}))...).Resolve(ctx, profile, opts)
	}
	t.Cleanup(func() { resolveSSO = prev })
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func loginArgs(extra ...string) []string {
	return append([]string{"login", "--verify=false"}, profileArgs(extra...)...)
}

func whoamiArgs(extra ...string) []string {
	return append([]string{"whoami"}, profileArgs(extra...)...)
}

func profileArgs(extra ...string) []string {
	args := []string{
		"--non-interactive", "--no-browser",
		"--start-url", "https://start-url.com",
		"--region", "us-east-2",
		"--account-id", "123456789012",
		"--role-name", "AdministratorAccess",
	}
	return append(args, extra...)
}

func TestLoginPrintsProcessCredentials(t *testing.T) {
	p := &stubProvider{pending: 2}
	useProvider(t, p)

	out, err := execute(t, loginArgs("-o", "process")...)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, float64(1), doc["Version"])
	assert.Equal(t, "AKIA1234567890", doc["AccessKeyId"])
	assert.Equal(t, "2030-01-02T03:04:05Z", doc["Expiration"])

	assert.Equal(t, 3, p.calls)
	assert.Equal(t, "https://start-url.com", p.startURL)
	assert.Equal(t, "123456789012/AdministratorAccess", p.role)
}

func TestLoginPrintsEnvExports(t *testing.T) {
	useProvider(t, &stubProvider{})

	out, err := execute(t, loginArgs("-o", "env")...)
	require.NoError(t, err)
	assert.Contains(t, out, "export AWS_ACCESS_KEY_ID=AKIA1234567890\n")
	assert.Contains(t, out, "export AWS_SESSION_TOKEN=12345678901234567890\n")
}

func TestLoginRejectsUnknownFormat(t *testing.T) {
	p := &stubProvider{}
	useProvider(t, p)

	_, err := execute(t, loginArgs("-o", "xml")...)
	require.Error(t, err)
	assert.Zero(t, p.calls)
}

func TestLoginReportsMissingParams(t *testing.T) {
	p := &stubProvider{}
	useProvider(t, p)

	_, err := execute(t, loginArgs("--account-id=", "--role-name=", "-o", "env")...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing account ID, role name")
	assert.Zero(t, p.calls)
}

func TestLoginWrapsFlowErrors(t *testing.T) {
	useProvider(t, &stubProvider{credsErr: sso.ErrNoRoleCredentials})

	_, err := execute(t, loginArgs("-o", "env")...)
	require.Error(t, err)
	assert.ErrorIs(t, err, sso.ErrNoRoleCredentials)
	assert.ErrorIs(t, err, sso.ErrProtocolViolation)
	assert.NotEmpty(t, errorHint(err))
}

func TestErrorHint(t *testing.T) {
	tests := map[string]struct {
		err  error
		want string
	}{
		"no url":   {fmt.Errorf("login: %w", sso.ErrNoVerificationURL), "--start-url"},
		"expired":  {&smithy.GenericAPIError{Code: "ExpiredTokenException"}, "expired"},
		"denied":   {&smithy.GenericAPIError{Code: "AccessDeniedException"}, "denied"},
		"assigned": {&smithy.GenericAPIError{Code: "ForbiddenException"}, "not assigned"},
		"other":    {errors.New("boom"), ""},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got := errorHint(tt.err)
			if tt.want == "" {
				assert.Empty(t, got)
				return
			}
			assert.Contains(t, got, tt.want)
		})
	}
}

func TestInitPrintsShellIntegration(t *testing.T) {
	t.Setenv("SSOCTL_NO_UPDATE_CHECK", "1")

	t.Setenv("SHELL", "/bin/zsh")
	out, err := execute(t, "init")
	require.NoError(t, err)
	assert.Contains(t, out, "integration for zsh")
	assert.Contains(t, out, `ssoctl login -o env`)

	t.Setenv("SHELL", "/usr/local/bin/fish")
	out, err = execute(t, "init")
	require.NoError(t, err)
	assert.Contains(t, out, "function sso")
}

func TestStateText(t *testing.T) {
	assert.Equal(t, "Waiting for approval in the browser...", stateText(sso.StatePolling))
	assert.Empty(t, stateText(sso.StateDone))
}

type lineRecorder struct{ lines []string }

func (r *lineRecorder) Status(string)       {}
func (r *lineRecorder) Println(text string) { r.lines = append(r.lines, text) }

func TestNotifierPrintsURLWithoutBrowser(t *testing.T) {
	rec := &lineRecorder{}
	f := profileFlags{noBrowser: true}

	err := f.notifier(rec, logger.Sugar()).Notify(context.Background(), "https://verification-url.com")
	require.NoError(t, err)
	assert.Contains(t, rec.lines, "   https://verification-url.com")
}

func TestLoginVerifyChecksIdentity(t *testing.T) {
	useProvider(t, &stubProvider{})
	svc := useSTS(t)

	out, err := execute(t, loginArgs("--verify", "-o", "env")...)
	require.NoError(t, err)
	assert.Contains(t, out, "export AWS_ACCESS_KEY_ID=AKIA1234567890\n")

	assert.Equal(t, 1, svc.calls)
	assert.Equal(t, "us-east-2", svc.region)
	assert.Equal(t, "AKIA1234567890", svc.creds.AccessKeyID)
	assert.Equal(t, "12345678901234567890", svc.creds.SessionToken)
}

func TestLoginWithoutVerifySkipsSTS(t *testing.T) {
	useProvider(t, &stubProvider{})
	svc := useSTS(t)

	_, err := execute(t, loginArgs("-o", "env")...)
	require.NoError(t, err)
	assert.Zero(t, svc.calls)
}

func TestWhoamiPrintsIdentity(t *testing.T) {
	useProvider(t, &stubProvider{})
	svc := useSTS(t)

	out, err := execute(t, whoamiArgs("--output=")...)
	require.NoError(t, err)
	assert.Equal(t, "Account: 123456789012\n"+
		"ARN:     arn:aws:sts::123456789012:assumed-role/AdministratorAccess/user\n"+
		"UserID:  AROAEXAMPLE:user\n", out)
	assert.Equal(t, 1, svc.calls)
	assert.Equal(t, "us-east-2", svc.region)
}

func TestWhoamiStructuredOutput(t *testing.T) {
	want := internal.Identity{
		Account: "123456789012",
		Arn:     "arn:aws:sts::123456789012:assumed-role/AdministratorAccess/user",
		UserID:  "AROAEXAMPLE:user",
	}

	t.Run("json", func(t *testing.T) {
		useProvider(t, &stubProvider{})
		useSTS(t)

		out, err := execute(t, whoamiArgs("-o", "json")...)
		require.NoError(t, err)
		var got internal.Identity
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		assert.Equal(t, want, got)
	})

	t.Run("yaml", func(t *testing.T) {
		useProvider(t, &stubProvider{})
		useSTS(t)

		out, err := execute(t, whoamiArgs("-o", "YAML")...)
		require.NoError(t, err)
		var got internal.Identity
		require.NoError(t, yaml.Unmarshal([]byte(out), &got))
		assert.Equal(t, want, got)
	})
}

func TestWhoamiRejectsCredentialFormatsBeforeLogin(t *testing.T) {
	for _, format := range []string{"env", "process", "xml"} {
		t.Run(format, func(t *testing.T) {
			p := &stubProvider{}
			useProvider(t, p)
			svc := useSTS(t)

			_, err := execute(t, whoamiArgs("-o", format)...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), format)
			assert.Zero(t, p.calls)
			assert.Empty(t, p.startURL)
			assert.Zero(t, svc.calls)
		})
	}
}
