package aws

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"

	awserrors "github.com/deltahdl/driftgate/internal/adapters/platform/aws/errors"
	"github.com/deltahdl/driftgate/internal/adapters/platform/aws/limiter"
	"github.com/deltahdl/driftgate/internal/core/domain"
	"github.com/deltahdl/driftgate/internal/core/ports"
)

type ParameterProber struct {
	client  SSMAPI
	limiter *limiter.Limiter
}

func NewParameterProber(client SSMAPI, limiter *limiter.Limiter) *ParameterProber {
	return &ParameterProber{client: client, limiter: limiter}
}

func (p *ParameterProber) Kind() domain.ResourceKind { return domain.KindSSMParameter }

func (p *ParameterProber) Probe(ctx context.Context, res domain.PlannedResource, logger ports.Logger) (domain.ProbeOutcome, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return domain.OutcomeUnverified, awserrors.Handle("SSM", "GetParameter", res.Name, err, ctx)
	}

	_, err := p.client.GetParameter(ctx, &ssm.GetParameterInput{Name: aws.String(res.Name)})
	if err == nil {
		return domain.OutcomeFound, nil
	}
	if awserrors.IsNotFound(err) {
		return domain.OutcomeNotFound, nil
	}
	return domain.OutcomeUnverified, awserrors.Handle("SSM", "GetParameter", res.Name, err, ctx)
}
