package sso

import (
	"errors"
	"fmt"
)

// ErrProtocolViolation is the parent of errors raised when AWS SSO omits a required field.
var ErrProtocolViolation = errors.New("unexpected error")

var (
	ErrNoVerificationURL = fmt.Errorf("%w: AWS SSO did not return a verification URL", ErrProtocolViolation)
	ErrNoAccessToken     = fmt.Errorf("%w: AWS SSO did not return an access token", ErrProtocolViolation)
	ErrNoRoleCredentials = fmt.Errorf("%w: no role credentials returned by the AWS SSO API", ErrProtocolViolation)
)

// ErrAuthorizationPending is returned by Provider.CreateToken while the user
// has not approved the device authorization yet.
var ErrAuthorizationPending = errors.New("authorization pending")
