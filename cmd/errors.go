package cmd

import (
	"errors"

	"github.com/aws/smithy-go"
	"github.com/chukul/ssoctl/internal/sso"
)

// errorHint suggests a fix for errors the user can act on.
func errorHint(err error) string {
	var apiErr smithy.APIError
	switch {
	case errors.Is(err, sso.ErrNoVerificationURL):
		return "Check that --start-url is the AWS access portal URL of your organization."
	case errors.Is(err, sso.ErrNoRoleCredentials):
		return "AWS SSO returned no credentials. Try again, or check the permission set of the role."
	case errors.As(err, &apiErr):
		switch apiErr.ErrorCode() {
		case "AccessDeniedException":
			return "The login request was denied in the browser."
		case "ExpiredTokenException":
			return "The device code expired before it was approved. Run the command again."
		case "UnauthorizedException", "ForbiddenException":
			return "Your SSO user is not assigned to this account and role."
		case "InvalidRequestException", "InvalidClientException":
			return "AWS SSO rejected the request. Check --start-url and --region."
		}
	}
	return ""
}
