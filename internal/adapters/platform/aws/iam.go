package aws

import (
	"context"
	"fmt"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/sts"

	awserrors "github.com/deltahdl/driftgate/internal/adapters/platform/aws/errors"
	"github.com/deltahdl/driftgate/internal/adapters/platform/aws/limiter"
	"github.com/deltahdl/driftgate/internal/core/domain"
	"github.com/deltahdl/driftgate/internal/core/ports"
)

type RoleProber struct {
	client  IAMAPI
	limiter *limiter.Limiter
}

func NewRoleProber(client IAMAPI, limiter *limiter.Limiter) *RoleProber {
	return &RoleProber{client: client, limiter: limiter}
}

func (p *RoleProber) Kind() domain.ResourceKind { return domain.KindIAMRole }

func (p *RoleProber) Probe(ctx context.Context, res domain.PlannedResource, logger ports.Logger) (domain.ProbeOutcome, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return domain.OutcomeUnverified, awserrors.Handle("IAM", "GetRole", res.Name, err, ctx)
	}

	_, err := p.client.GetRole(ctx, &iam.GetRoleInput{RoleName: aws.String(res.Name)})
	if err == nil {
		return domain.OutcomeFound, nil
	}
	if awserrors.IsNotFound(err) {
		return domain.OutcomeNotFound, nil
	}
	return domain.OutcomeUnverified, awserrors.Handle("IAM", "GetRole", res.Name, err, ctx)
}

// PolicyProber resolves customer-managed policy ARNs from the caller's
// account ID, fetched once from STS and cached for the run.
type PolicyProber struct {
	client    IAMAPI
	stsClient STSAPI
	limiter   *limiter.Limiter

	accMu     sync.Mutex
	accountID string
}

func NewPolicyProber(client IAMAPI, stsClient STSAPI, limiter *limiter.Limiter) *PolicyProber {
	return &PolicyProber{client: client, stsClient: stsClient, limiter: limiter}
}

func (p *PolicyProber) Kind() domain.ResourceKind { return domain.KindIAMPolicy }

func (p *PolicyProber) Probe(ctx context.Context, res domain.PlannedResource, logger ports.Logger) (domain.ProbeOutcome, error) {
	account, err := p.getAccountID(ctx)
	if err != nil {
		return domain.OutcomeUnverified, err
	}

	path, _ := res.Values["path"].(string)
	if path == "" {
		path = "/"
	}
	arn := fmt.Sprintf("arn:aws:iam::%s:policy%s%s", account, path, res.Name)

	if err := p.limiter.Wait(ctx); err != nil {
		return domain.OutcomeUnverified, awserrors.Handle("IAM", "GetPolicy", res.Name, err, ctx)
	}

	_, err = p.client.GetPolicy(ctx, &iam.GetPolicyInput{PolicyArn: aws.String(arn)})
	if err == nil {
		return domain.OutcomeFound, nil
	}
	if awserrors.IsNotFound(err) {
		return domain.OutcomeNotFound, nil
	}
	return domain.OutcomeUnverified, awserrors.Handle("IAM", "GetPolicy", res.Name, err, ctx)
}

func (p *PolicyProber) getAccountID(ctx context.Context) (string, error) {
	p.accMu.Lock()
	defer p.accMu.Unlock()
	if p.accountID != "" {
		return p.accountID, nil
	}

	if err := p.limiter.Wait(ctx); err != nil {
		return "", awserrors.Handle("STS", "GetCallerIdentity", "", err, ctx)
	}
	out, err := p.stsClient.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return "", awserrors.Handle("STS", "GetCallerIdentity", "", err, ctx)
	}
	if out.Account == nil || *out.Account == "" {
		return "", awserrors.Handle("STS", "GetCallerIdentity", "", fmt.Errorf("empty account in caller identity"), ctx)
	}
	p.accountID = *out.Account
	return p.accountID, nil
}
