package errors

import (
	"context"
	stderrs "errors"
	"testing"

	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"

	apperrors "github.com/deltahdl/driftgate/internal/errors"
)

func TestIsNotFound(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"api code NoSuchBucket", &smithy.GenericAPIError{Code: "NoSuchBucket"}, true},
		{"api code NoSuchEntity", &smithy.GenericAPIError{Code: "NoSuchEntity"}, true},
		{"api code ParameterNotFound", &smithy.GenericAPIError{Code: "ParameterNotFound"}, true},
		{"api code NoSuchDistribution", &smithy.GenericAPIError{Code: "NoSuchDistribution"}, true},
		{"message fallback", stderrs.New("resource does not exist"), true},
		{"throttling", &smithy.GenericAPIError{Code: "Throttling", Message: "rate exceeded"}, false},
		{"access denied", stderrs.New("api error AccessDenied: not authorized"), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsNotFound(tc.err))
		})
	}
}

func TestHandleClassification(t *testing.T) {
	ctx := context.Background()

	t.Run("cancelled context maps to timeout", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		err := Handle("S3", "HeadBucket", "acme-site", cancelled.Err(), cancelled)
		assert.True(t, apperrors.Is(err, apperrors.CodeProbeTimeout))
	})

	t.Run("deadline exceeded maps to timeout", func(t *testing.T) {
		err := Handle("SSM", "GetParameter", "/acme/flag", context.DeadlineExceeded, ctx)
		assert.True(t, apperrors.Is(err, apperrors.CodeProbeTimeout))
	})

	t.Run("auth errors", func(t *testing.T) {
		for _, msg := range []string{
			"api error AccessDenied: not authorized",
			"api error ExpiredToken: token expired",
			"failed to retrieve credentials",
		} {
			err := Handle("IAM", "GetRole", "deployer", stderrs.New(msg), ctx)
			assert.True(t, apperrors.Is(err, apperrors.CodePlatformAuthError), msg)
		}
	})

	t.Run("everything else is an api error", func(t *testing.T) {
		err := Handle("Route53", "ListResourceRecordSets", "old.acme.dev",
			&smithy.GenericAPIError{Code: "Throttling", Message: "rate exceeded"}, ctx)
		assert.True(t, apperrors.Is(err, apperrors.CodePlatformAPIError))
		assert.Contains(t, err.Error(), "Route53.ListResourceRecordSets")
	})
}
