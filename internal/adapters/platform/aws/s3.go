package aws

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	awserrors "github.com/deltahdl/driftgate/internal/adapters/platform/aws/errors"
	"github.com/deltahdl/driftgate/internal/adapters/platform/aws/limiter"
	"github.com/deltahdl/driftgate/internal/core/domain"
	"github.com/deltahdl/driftgate/internal/core/ports"
)

type BucketProber struct {
	client  S3API
	limiter *limiter.Limiter
}

func NewBucketProber(client S3API, limiter *limiter.Limiter) *BucketProber {
	return &BucketProber{client: client, limiter: limiter}
}

func (p *BucketProber) Kind() domain.ResourceKind { return domain.KindS3Bucket }

func (p *BucketProber) Probe(ctx context.Context, res domain.PlannedResource, logger ports.Logger) (domain.ProbeOutcome, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return domain.OutcomeUnverified, awserrors.Handle("S3", "HeadBucket", res.Name, err, ctx)
	}

	_, err := p.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(res.Name)})
	if err == nil {
		return domain.OutcomeFound, nil
	}
	if awserrors.IsNotFound(err) {
		return domain.OutcomeNotFound, nil
	}
	return domain.OutcomeUnverified, awserrors.Handle("S3", "HeadBucket", res.Name, err, ctx)
}
