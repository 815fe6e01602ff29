package internal

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/hashicorp/go-retryablehttp"
)

var FederationURL = "https://signin.aws.amazon.com/federation"

const consoleIssuer = "ssoctl"

// ConsoleDestination is the console landing page, region-specific when region is set.
func ConsoleDestination(region string) string {
	if region == "" {
		return "https://console.aws.amazon.com/"
	}
	return fmt.Sprintf("https://%s.console.aws.amazon.com/console/home?region=%s", region, region)
}

// ConsoleSigninURL exchanges temporary credentials for a federation sign-in
// token and returns a URL that logs the browser into destination.
func ConsoleSigninURL(ctx context.Context, creds aws.Credentials, destination string) (string, error) {
	session, err := json.Marshal(map[string]string{
		"sessionId":    creds.AccessKeyID,
		"sessionKey":   creds.SecretAccessKey,
		"sessionToken": creds.SessionToken,
	})
	if err != nil {
		return "", err
	}

	params := url.Values{}
	params.Add("Action", "getSigninToken")
	params.Add("Session", string(session))

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, FederationURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", err
	}
	resp, err := newHTTPClient(10 * time.Second).Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to get sign-in token: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to get sign-in token: status %d", resp.StatusCode)
	}

	var tokenResp struct {
		SigninToken string `json:"SigninToken"`
	}
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return "", fmt.Errorf("failed to parse token response: %w", err)
	}
	if tokenResp.SigninToken == "" {
		return "", fmt.Errorf("federation endpoint returned no sign-in token")
	}

	login := url.Values{}
	login.Add("Action", "login")
	login.Add("Issuer", consoleIssuer)
	login.Add("Destination", destination)
	login.Add("SigninToken", tokenResp.SigninToken)
	return FederationURL + "?" + login.Encode(), nil
}
