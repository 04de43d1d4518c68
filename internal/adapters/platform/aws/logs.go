package aws

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"

	awserrors "github.com/deltahdl/driftgate/internal/adapters/platform/aws/errors"
	"github.com/deltahdl/driftgate/internal/adapters/platform/aws/limiter"
	"github.com/deltahdl/driftgate/internal/core/domain"
	"github.com/deltahdl/driftgate/internal/core/ports"
)

type LogGroupProber struct {
	client  LogsAPI
	limiter *limiter.Limiter
}

func NewLogGroupProber(client LogsAPI, limiter *limiter.Limiter) *LogGroupProber {
	return &LogGroupProber{client: client, limiter: limiter}
}

func (p *LogGroupProber) Kind() domain.ResourceKind { return domain.KindLogGroup }

func (p *LogGroupProber) Probe(ctx context.Context, res domain.PlannedResource, logger ports.Logger) (domain.ProbeOutcome, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return domain.OutcomeUnverified, awserrors.Handle("CloudWatchLogs", "DescribeLogGroups", res.Name, err, ctx)
	}

	// Prefix listing, then exact match: DescribeLogGroups has no point get.
	out, err := p.client.DescribeLogGroups(ctx, &cloudwatchlogs.DescribeLogGroupsInput{
		LogGroupNamePrefix: aws.String(res.Name),
	})
	if err != nil {
		return domain.OutcomeUnverified, awserrors.Handle("CloudWatchLogs", "DescribeLogGroups", res.Name, err, ctx)
	}

	for _, group := range out.LogGroups {
		if group.LogGroupName != nil && *group.LogGroupName == res.Name {
			return domain.OutcomeFound, nil
		}
	}
	return domain.OutcomeNotFound, nil
}
