package aws

import (
	"context"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/route53"

	awserrors "github.com/deltahdl/driftgate/internal/adapters/platform/aws/errors"
	"github.com/deltahdl/driftgate/internal/adapters/platform/aws/limiter"
	"github.com/deltahdl/driftgate/internal/core/domain"
	"github.com/deltahdl/driftgate/internal/core/ports"
	"github.com/deltahdl/driftgate/internal/errors"
)

const recordListPageSize = 100

// RecordProber checks for an existing record set in the owning hosted zone.
// The zone ID and record type come from the planned values; without them the
// record cannot be verified.
type RecordProber struct {
	client  Route53API
	limiter *limiter.Limiter
}

func NewRecordProber(client Route53API, limiter *limiter.Limiter) *RecordProber {
	return &RecordProber{client: client, limiter: limiter}
}

func (p *RecordProber) Kind() domain.ResourceKind { return domain.KindRoute53Record }

func (p *RecordProber) Probe(ctx context.Context, res domain.PlannedResource, logger ports.Logger) (domain.ProbeOutcome, error) {
	zoneID, _ := res.Values["zone_id"].(string)
	recordType, _ := res.Values["type"].(string)
	if zoneID == "" || recordType == "" {
		return domain.OutcomeUnverified, errors.New(errors.CodePlatformAPIError,
			"planned record is missing zone_id or type, cannot probe")
	}

	wantName := normalizeRecordName(res.Name)

	input := &route53.ListResourceRecordSetsInput{
		HostedZoneId:    aws.String(zoneID),
		StartRecordName: aws.String(wantName),
		MaxItems:        aws.Int32(recordListPageSize),
	}

	for {
		if err := p.limiter.Wait(ctx); err != nil {
			return domain.OutcomeUnverified, awserrors.Handle("Route53", "ListResourceRecordSets", res.Name, err, ctx)
		}

		out, err := p.client.ListResourceRecordSets(ctx, input)
		if err != nil {
			if awserrors.IsNotFound(err) {
				// Zone itself is gone; the record cannot exist.
				return domain.OutcomeNotFound, nil
			}
			return domain.OutcomeUnverified, awserrors.Handle("Route53", "ListResourceRecordSets", res.Name, err, ctx)
		}

		for _, rrset := range out.ResourceRecordSets {
			if rrset.Name == nil {
				continue
			}
			gotName := normalizeRecordName(*rrset.Name)
			if gotName != wantName {
				// Results are name-ordered; passing the wanted name means
				// it is absent.
				if gotName > wantName {
					return domain.OutcomeNotFound, nil
				}
				continue
			}
			if string(rrset.Type) == strings.ToUpper(recordType) {
				return domain.OutcomeFound, nil
			}
		}

		if !out.IsTruncated {
			return domain.OutcomeNotFound, nil
		}
		input.StartRecordName = out.NextRecordName
		input.StartRecordType = out.NextRecordType
		input.StartRecordIdentifier = out.NextRecordIdentifier
	}
}

func normalizeRecordName(name string) string {
	return strings.ToLower(strings.TrimSuffix(unescapeOctal(name), "."))
}

// unescapeOctal decodes the \NNN escapes Route 53 applies to special
// characters in record names, e.g. a wildcard comes back as \052.example.com.
func unescapeOctal(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+3 < len(s) && isOctalDigit(s[i+1]) && isOctalDigit(s[i+2]) && isOctalDigit(s[i+3]) {
			b.WriteByte((s[i+1]-'0')<<6 | (s[i+2]-'0')<<3 | (s[i+3] - '0'))
			i += 3
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func isOctalDigit(c byte) bool { return c >= '0' && c <= '7' }
