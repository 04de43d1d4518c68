package aws

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/acm"

	awserrors "github.com/deltahdl/driftgate/internal/adapters/platform/aws/errors"
	"github.com/deltahdl/driftgate/internal/adapters/platform/aws/limiter"
	"github.com/deltahdl/driftgate/internal/core/domain"
	"github.com/deltahdl/driftgate/internal/core/ports"
)

// CertificateProber matches by primary domain name across all certificate
// statuses; an expired or pending certificate still collides with a create.
type CertificateProber struct {
	client  ACMAPI
	limiter *limiter.Limiter
}

func NewCertificateProber(client ACMAPI, limiter *limiter.Limiter) *CertificateProber {
	return &CertificateProber{client: client, limiter: limiter}
}

func (p *CertificateProber) Kind() domain.ResourceKind { return domain.KindACMCertificate }

func (p *CertificateProber) Probe(ctx context.Context, res domain.PlannedResource, logger ports.Logger) (domain.ProbeOutcome, error) {
	var token *string
	for {
		if err := p.limiter.Wait(ctx); err != nil {
			return domain.OutcomeUnverified, awserrors.Handle("ACM", "ListCertificates", res.Name, err, ctx)
		}

		out, err := p.client.ListCertificates(ctx, &acm.ListCertificatesInput{NextToken: token})
		if err != nil {
			return domain.OutcomeUnverified, awserrors.Handle("ACM", "ListCertificates", res.Name, err, ctx)
		}

		for _, cert := range out.CertificateSummaryList {
			if cert.DomainName != nil && *cert.DomainName == res.Name {
				return domain.OutcomeFound, nil
			}
		}

		if out.NextToken == nil {
			return domain.OutcomeNotFound, nil
		}
		token = out.NextToken
	}
}
