package domain

// ResourceKind is the OpenTofu resource type of a planned resource. Probers
// are registered per kind; a kind without a prober is never probed silently,
// it surfaces as unverified.
type ResourceKind string

const (
	KindS3Bucket               ResourceKind = "aws_s3_bucket"
	KindIAMRole                ResourceKind = "aws_iam_role"
	KindIAMPolicy              ResourceKind = "aws_iam_policy"
	KindCloudFrontDistribution ResourceKind = "aws_cloudfront_distribution"
	KindACMCertificate         ResourceKind = "aws_acm_certificate"
	KindRoute53Record          ResourceKind = "aws_route53_record"
	KindLogGroup               ResourceKind = "aws_cloudwatch_log_group"
	KindSSMParameter           ResourceKind = "aws_ssm_parameter"
)

func (rk ResourceKind) String() string {
	return string(rk)
}
