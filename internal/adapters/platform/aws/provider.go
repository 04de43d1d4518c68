package aws

import (
	"context"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/acm"
	"github.com/aws/aws-sdk-go-v2/service/cloudfront"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/route53"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/sts"

	"github.com/deltahdl/driftgate/internal/adapters/platform/aws/limiter"
	"github.com/deltahdl/driftgate/internal/core/ports"
	"github.com/deltahdl/driftgate/internal/errors"
)

const ProviderTypeAWS = "aws"

type ProviderConfig struct {
	Region     string `yaml:"region" mapstructure:"region"`
	APIRateRPS int    `yaml:"api_rate_rps" mapstructure:"api_rate_rps"`
}

// Provider owns the SDK configuration and the full prober set. The region
// flows in explicitly; nothing reads ambient process state beyond the
// standard AWS credential chain.
type Provider struct {
	awsConfig awssdk.Config
	probers   []ports.Prober
	logger    ports.Logger
}

// LoadAWSConfig resolves the SDK configuration for a target region using
// the default credential chain.
func LoadAWSConfig(ctx context.Context, region string) (awssdk.Config, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return awssdk.Config{}, errors.Wrap(err, errors.CodePlatformAuthError, "failed to load AWS configuration")
	}
	return cfg, nil
}

func NewProvider(cfg awssdk.Config, pcfg ProviderConfig, logger ports.Logger) (*Provider, error) {
	if logger == nil {
		return nil, errors.New(errors.CodeConfigValidation, "logger cannot be nil for AWS provider")
	}

	lim := limiter.New(pcfg.APIRateRPS, logger)

	p := &Provider{
		awsConfig: cfg,
		logger:    logger,
	}
	p.probers = []ports.Prober{
		NewBucketProber(s3.NewFromConfig(cfg), lim),
		NewRoleProber(iam.NewFromConfig(cfg), lim),
		NewPolicyProber(iam.NewFromConfig(cfg), sts.NewFromConfig(cfg), lim),
		NewDistributionProber(cloudfront.NewFromConfig(cfg), lim),
		NewCertificateProber(acm.NewFromConfig(cfg), lim),
		NewRecordProber(route53.NewFromConfig(cfg), lim),
		NewLogGroupProber(cloudwatchlogs.NewFromConfig(cfg), lim),
		NewParameterProber(ssm.NewFromConfig(cfg), lim),
	}
	return p, nil
}

func (p *Provider) Type() string { return ProviderTypeAWS }

func (p *Provider) Config() awssdk.Config { return p.awsConfig }

func (p *Provider) Probers() []ports.Prober { return p.probers }
