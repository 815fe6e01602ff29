package sso

import (
	"context"
	"errors"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awssso "github.com/aws/aws-sdk-go-v2/service/sso"
	"github.com/aws/aws-sdk-go-v2/service/ssooidc"
	ssooidctypes "github.com/aws/aws-sdk-go-v2/service/ssooidc/types"
	"golang.org/x/oauth2"
)

const (
	// ClientTypePublic is the only client type AWS SSO OIDC accepts for device flows.
	ClientTypePublic = "public"
	// GrantTypeDeviceCode is the RFC 8628 grant type used when polling for the token.
	GrantTypeDeviceCode = "urn:ietf:params:oauth:grant-type:device_code"
)

// Provider is the identity service driven by Flow.
//
// CreateToken must return ErrAuthorizationPending (or an error wrapping it)
// while the user has not approved the request yet. GetRoleCredentials may
// return nil credentials when the service sent none.
type Provider interface {
	RegisterClient(ctx context.Context, clientName string) (*ClientRegistration, error)
	StartDeviceAuthorization(ctx context.Context, client *ClientRegistration, startURL string) (*DeviceAuthorization, error)
	CreateToken(ctx context.Context, client *ClientRegistration, deviceCode string) (*oauth2.Token, error)
	GetRoleCredentials(ctx context.Context, token *oauth2.Token, accountID, roleName string) (*Credentials, error)
}

// OIDCAPI is the subset of the SSO OIDC client used by the AWS provider.
type OIDCAPI interface {
	RegisterClient(ctx context.Context, params *ssooidc.RegisterClientInput, optFns ...func(*ssooidc.Options)) (*ssooidc.RegisterClientOutput, error)
	StartDeviceAuthorization(ctx context.Context, params *ssooidc.StartDeviceAuthorizationInput, optFns ...func(*ssooidc.Options)) (*ssooidc.StartDeviceAuthorizationOutput, error)
	CreateToken(ctx context.Context, params *ssooidc.CreateTokenInput, optFns ...func(*ssooidc.Options)) (*ssooidc.CreateTokenOutput, error)
}

// PortalAPI is the subset of the SSO portal client used by the AWS provider.
type PortalAPI interface {
	GetRoleCredentials(ctx context.Context, params *awssso.GetRoleCredentialsInput, optFns ...func(*awssso.Options)) (*awssso.GetRoleCredentialsOutput, error)
}

var (
	_ OIDCAPI   = (*ssooidc.Client)(nil)
	_ PortalAPI = (*awssso.Client)(nil)
	_ Provider  = (*AWSProvider)(nil)
)

// AWSProvider implements Provider on top of the AWS SDK SSO clients.
type AWSProvider struct {
	oidc   OIDCAPI
	portal PortalAPI
}

// NewProvider creates the SSO OIDC and portal clients from cfg. The region of
// cfg must be the region of the SSO instance.
func NewProvider(cfg aws.Config) *AWSProvider {
	return NewProviderFromClients(ssooidc.NewFromConfig(cfg), awssso.NewFromConfig(cfg))
}

// NewProviderFromClients wraps existing clients, typically fakes in tests.
func NewProviderFromClients(oidc OIDCAPI, portal PortalAPI) *AWSProvider {
	return &AWSProvider{oidc: oidc, portal: portal}
}

// RegisterClient registers a public OIDC client named clientName.
func (p *AWSProvider) RegisterClient(ctx context.Context, clientName string) (*ClientRegistration, error) {
	out, err := p.oidc.RegisterClient(ctx, &ssooidc.RegisterClientInput{
		ClientName: aws.String(clientName),
		ClientType: aws.String(ClientTypePublic),
	})
	if err != nil {
		return nil, err
	}

	reg := &ClientRegistration{
		ClientID:     aws.ToString(out.ClientId),
		ClientSecret: aws.ToString(out.ClientSecret),
	}
	if out.ClientSecretExpiresAt > 0 {
		reg.ExpiresAt = time.Unix(out.ClientSecretExpiresAt, 0)
	}
	return reg, nil
}

// StartDeviceAuthorization starts the device flow for the access portal at startURL.
func (p *AWSProvider) StartDeviceAuthorization(ctx context.Context, client *ClientRegistration, startURL string) (*DeviceAuthorization, error) {
	out, err := p.oidc.StartDeviceAuthorization(ctx, &ssooidc.StartDeviceAuthorizationInput{
		ClientId:     aws.String(client.ClientID),
		ClientSecret: aws.String(client.ClientSecret),
		StartUrl:     aws.String(startURL),
	})
	if err != nil {
		return nil, err
	}

	return &DeviceAuthorization{
		DeviceCode:              aws.ToString(out.DeviceCode),
		UserCode:                aws.ToString(out.UserCode),
		VerificationURI:         aws.ToString(out.VerificationUri),
		VerificationURIComplete: aws.ToString(out.VerificationUriComplete),
		ExpiresIn:               time.Duration(out.ExpiresIn) * time.Second,
		Interval:                time.Duration(out.Interval) * time.Second,
	}, nil
}

// CreateToken exchanges the device code for an access token. It returns
// ErrAuthorizationPending until the user approves the request.
func (p *AWSProvider) CreateToken(ctx context.Context, client *ClientRegistration, deviceCode string) (*oauth2.Token, error) {
	out, err := p.oidc.CreateToken(ctx, &ssooidc.CreateTokenInput{
		ClientId:     aws.String(client.ClientID),
		ClientSecret: aws.String(client.ClientSecret),
		DeviceCode:   aws.String(deviceCode),
		GrantType:    aws.String(GrantTypeDeviceCode),
	})
	if err != nil {
		var pending *ssooidctypes.AuthorizationPendingException
		if errors.As(err, &pending) {
			return nil, ErrAuthorizationPending
		}
		return nil, err
	}

	token := &oauth2.Token{
		AccessToken:  aws.ToString(out.AccessToken),
		TokenType:    aws.ToString(out.TokenType),
		RefreshToken: aws.ToString(out.RefreshToken),
	}
	if out.ExpiresIn > 0 {
		token.Expiry = time.Now().Add(time.Duration(out.ExpiresIn) * time.Second)
	}
	return token, nil
}

// GetRoleCredentials returns the role credentials for accountID and roleName.
// A response without credentials yields nil, nil.
func (p *AWSProvider) GetRoleCredentials(ctx context.Context, token *oauth2.Token, accountID, roleName string) (*Credentials, error) {
	out, err := p.portal.GetRoleCredentials(ctx, &awssso.GetRoleCredentialsInput{
		AccountId:   aws.String(accountID),
		RoleName:    aws.String(roleName),
		AccessToken: aws.String(token.AccessToken),
	})
	if err != nil {
		return nil, err
	}
	if out.RoleCredentials == nil {
		return nil, nil
	}

	rc := out.RoleCredentials
	creds := &Credentials{
		AccessKeyID:     aws.ToString(rc.AccessKeyId),
		SecretAccessKey: aws.ToString(rc.SecretAccessKey),
		SessionToken:    aws.ToString(rc.SessionToken),
	}
	// Expiration is in milliseconds since the epoch.
	if rc.Expiration > 0 {
		creds.Expiration = time.UnixMilli(rc.Expiration)
	}
	return creds, nil
}
