package aws

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/cloudfront"

	awserrors "github.com/deltahdl/driftgate/internal/adapters/platform/aws/errors"
	"github.com/deltahdl/driftgate/internal/adapters/platform/aws/limiter"
	"github.com/deltahdl/driftgate/internal/core/domain"
	"github.com/deltahdl/driftgate/internal/core/ports"
)

// DistributionProber matches a planned distribution against live ones by
// CNAME alias; aliases are globally unique in CloudFront, so one hit is
// conclusive.
type DistributionProber struct {
	client  CloudFrontAPI
	limiter *limiter.Limiter
}

func NewDistributionProber(client CloudFrontAPI, limiter *limiter.Limiter) *DistributionProber {
	return &DistributionProber{client: client, limiter: limiter}
}

func (p *DistributionProber) Kind() domain.ResourceKind { return domain.KindCloudFrontDistribution }

func (p *DistributionProber) Probe(ctx context.Context, res domain.PlannedResource, logger ports.Logger) (domain.ProbeOutcome, error) {
	var marker *string
	for {
		if err := p.limiter.Wait(ctx); err != nil {
			return domain.OutcomeUnverified, awserrors.Handle("CloudFront", "ListDistributions", res.Name, err, ctx)
		}

		out, err := p.client.ListDistributions(ctx, &cloudfront.ListDistributionsInput{Marker: marker})
		if err != nil {
			return domain.OutcomeUnverified, awserrors.Handle("CloudFront", "ListDistributions", res.Name, err, ctx)
		}
		if out.DistributionList == nil {
			return domain.OutcomeNotFound, nil
		}

		for _, dist := range out.DistributionList.Items {
			if dist.Aliases == nil {
				continue
			}
			for _, alias := range dist.Aliases.Items {
				if alias == res.Name {
					return domain.OutcomeFound, nil
				}
			}
		}

		if out.DistributionList.IsTruncated == nil || !*out.DistributionList.IsTruncated {
			return domain.OutcomeNotFound, nil
		}
		marker = out.DistributionList.NextMarker
	}
}
