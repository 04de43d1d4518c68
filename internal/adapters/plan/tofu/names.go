package tofu

import (
	tfjson "github.com/hashicorp/terraform-json"

	"github.com/deltahdl/driftgate/internal/core/domain"
)

// identifierAttr maps a resource kind to the planned attribute that holds
// the cloud-side identifier the existence probe is keyed on.
var identifierAttr = map[domain.ResourceKind]string{
	domain.KindS3Bucket:       "bucket",
	domain.KindIAMRole:        "name",
	domain.KindIAMPolicy:      "name",
	domain.KindACMCertificate: "domain_name",
	domain.KindRoute53Record:  "name",
	domain.KindLogGroup:       "name",
	domain.KindSSMParameter:   "name",
}

// resolveIdentifier extracts the cloud-side identifier for a planned create.
// Returns "" when the identifier is not known at plan time (computed value);
// the engine reports those as unverified rather than dropping them.
func resolveIdentifier(rc *tfjson.ResourceChange, after map[string]any) string {
	kind := domain.ResourceKind(rc.Type)

	if kind == domain.KindCloudFrontDistribution {
		// Distributions have no stable name attribute; the probe matches on
		// the first CNAME alias.
		aliases, _ := after["aliases"].([]any)
		for _, a := range aliases {
			if s, ok := a.(string); ok && s != "" {
				return s
			}
		}
		return ""
	}

	attr, ok := identifierAttr[kind]
	if !ok {
		attr = "name"
	}
	name, _ := after[attr].(string)
	return name
}
