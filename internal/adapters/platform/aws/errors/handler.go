package errors

import (
	"context"
	stderrs "errors"
	"fmt"
	"strings"

	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/smithy-go"

	"github.com/deltahdl/driftgate/internal/errors"
)

// Handle maps an AWS SDK error to an application error for an existence
// probe that could not complete. Not-found is never routed through here;
// probers classify that as a clean tri-state outcome first.
func Handle(service, operation, resourceID string, err error, ctx context.Context) error {
	if err == nil {
		return errors.New(errors.CodeInternal, fmt.Sprintf("unexpected nil error in AWS error handler for %s.%s", service, operation))
	}

	if ctx.Err() != nil || stderrs.Is(err, context.Canceled) || stderrs.Is(err, context.DeadlineExceeded) {
		return errors.Wrap(err, errors.CodeProbeTimeout,
			fmt.Sprintf("%s.%s for '%s' timed out or was cancelled", service, operation, resourceID))
	}

	if IsAuthError(err) {
		return errors.Wrap(err, errors.CodePlatformAuthError,
			fmt.Sprintf("AWS authentication error during %s.%s for '%s'", service, operation, resourceID))
	}

	return errors.Wrap(err, errors.CodePlatformAPIError,
		fmt.Sprintf("%s.%s failed for '%s'", service, operation, resourceID))
}

// IsNotFound reports whether the error means the resource does not exist,
// as opposed to the probe failing.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}

	var apiErr smithy.APIError
	if stderrs.As(err, &apiErr) && isNotFoundCode(apiErr.ErrorCode()) {
		return true
	}

	// S3 HeadBucket/HeadObject surface a bare 404 without a usable code.
	var respErr *awshttp.ResponseError
	if stderrs.As(err, &respErr) && respErr.HTTPStatusCode() == 404 {
		return true
	}

	msg := err.Error()
	return strings.Contains(msg, "NotFound") ||
		strings.Contains(msg, "not found") ||
		strings.Contains(msg, "does not exist")
}

func IsAuthError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "AccessDenied") ||
		strings.Contains(msg, "UnauthorizedOperation") ||
		strings.Contains(msg, "AuthFailure") ||
		strings.Contains(msg, "ExpiredToken") ||
		strings.Contains(msg, "InvalidClientTokenId") ||
		strings.Contains(msg, "no EC2 IMDS role found") ||
		strings.Contains(msg, "failed to retrieve credentials")
}

func isNotFoundCode(code string) bool {
	switch code {
	case "NoSuchBucket",
		"NoSuchKey",
		"NotFound",
		"NoSuchEntity",
		"NoSuchDistribution",
		"NoSuchHostedZone",
		"ParameterNotFound",
		"ResourceNotFoundException",
		"EntityNotFoundException",
		"NotFoundException":
		return true
	}
	return false
}
