package sso

import (
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
)

// ProfileParams identifies the SSO instance and the role to obtain credentials for.
type ProfileParams struct {
	StartURL  string
	AccountID string
	Region    string
	RoleName  string
}

// Validate reports every missing field at once.
func (p ProfileParams) Validate() error {
	var missing []string
	if p.StartURL == "" {
		missing = append(missing, "start URL")
	}
	if p.AccountID == "" {
		missing = append(missing, "account ID")
	}
	if p.Region == "" {
		missing = append(missing, "region")
	}
	if p.RoleName == "" {
		missing = append(missing, "role name")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing %s", strings.Join(missing, ", "))
	}
	return nil
}

// ClientRegistration is the public OIDC client registered for a single login.
type ClientRegistration struct {
	ClientID     string
	ClientSecret string
	ExpiresAt    time.Time
}

// DeviceAuthorization holds the device code used for polling and the URL the user approves.
type DeviceAuthorization struct {
	DeviceCode              string
	UserCode                string
	VerificationURI         string
	VerificationURIComplete string
	ExpiresIn               time.Duration
	Interval                time.Duration
}

// Credentials are the temporary role credentials returned by the SSO portal.
type Credentials struct {
	AccessKeyID     string
	SecretAccessKey string
	// SessionToken is empty when the portal did not return one.
	SessionToken string
	// Expiration is the zero time when unknown.
	Expiration time.Time
}

// AWS converts the credentials for use with an SDK credentials provider.
func (c Credentials) AWS() aws.Credentials {
	return aws.Credentials{
		AccessKeyID:     c.AccessKeyID,
		SecretAccessKey: c.SecretAccessKey,
		SessionToken:    c.SessionToken,
		Source:          "ssoctl",
		CanExpire:       !c.Expiration.IsZero(),
		Expires:         c.Expiration,
	}
}
