package sso

import (
	"context"

	"github.com/chukul/ssoctl/internal"
)

// ResolveCredentials runs the device authorization flow against the AWS SSO
// instance in profile.Region with the default poll interval.
func ResolveCredentials(ctx context.Context, profile ProfileParams, opts Options, flowOpts ...FlowOption) (*Credentials, error) {
	cfg, err := internal.LoadAWSConfig(ctx, profile.Region)
	if err != nil {
		return nil, err
	}
	return NewFlow(NewProvider(cfg), flowOpts...).Resolve(ctx, profile, opts)
}
