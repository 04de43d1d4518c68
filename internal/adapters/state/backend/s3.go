package backend

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	awserrors "github.com/deltahdl/driftgate/internal/adapters/platform/aws/errors"
	"github.com/deltahdl/driftgate/internal/core/ports"
	"github.com/deltahdl/driftgate/internal/errors"
)

const LocatorTypeS3 = "s3-backend"

// S3ObjectAPI is the slice of the S3 client the locator needs.
type S3ObjectAPI interface {
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

// S3StateLocator probes the remote state object declared by a `backend "s3"`
// block. A missing object, or a missing state bucket altogether, means the
// stack has never been applied: the bootstrap case.
type S3StateLocator struct {
	client S3ObjectAPI
	bucket string
	key    string
}

func NewS3StateLocator(cfg aws.Config, spec *Spec) (*S3StateLocator, error) {
	bucket := spec.StringAttr("bucket")
	key := spec.StringAttr("key")
	if bucket == "" || key == "" {
		return nil, errors.New(errors.CodeBackendParseError, "s3 backend block is missing bucket or key")
	}
	if region := spec.StringAttr("region"); region != "" {
		cfg.Region = region
	}

	return &S3StateLocator{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
		key:    key,
	}, nil
}

func (l *S3StateLocator) Type() string { return LocatorTypeS3 }

func (l *S3StateLocator) StateExists(ctx context.Context) (bool, error) {
	_, err := l.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(l.bucket),
		Key:    aws.String(l.key),
	})
	if err == nil {
		return true, nil
	}
	if awserrors.IsNotFound(err) {
		return false, nil
	}
	return false, errors.Wrap(err, errors.CodeStateProbeError,
		fmt.Sprintf("failed to probe state object s3://%s/%s", l.bucket, l.key))
}

var _ ports.StateLocator = (*S3StateLocator)(nil)
