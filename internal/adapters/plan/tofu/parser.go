package tofu

import (
	"fmt"

	tfjson "github.com/hashicorp/terraform-json"
	jsoniter "github.com/json-iterator/go"

	"github.com/deltahdl/driftgate/internal/core/domain"
	"github.com/deltahdl/driftgate/internal/errors"
)

const rawFragmentLimit = 200

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// parsePlan decodes `tofu show -json` output and returns the planned
// creates. Unknown fields are ignored; a document that is not a plan at all
// is a parse failure carrying the offending fragment.
func parsePlan(raw []byte) ([]domain.PlannedResource, error) {
	if len(raw) == 0 {
		return nil, errors.NewUserFacing(errors.CodePlanParseError, "plan output is empty",
			"Check that the plan command ran in the right directory.")
	}

	var plan tfjson.Plan
	if err := json.Unmarshal(raw, &plan); err != nil {
		return nil, errors.WrapUserFacing(err, errors.CodePlanParseError,
			fmt.Sprintf("plan output is not valid JSON: %s", fragment(raw)),
			"Regenerate the plan with 'tofu show -json <planfile>'.")
	}
	if plan.FormatVersion == "" {
		return nil, errors.NewUserFacing(errors.CodePlanParseError,
			fmt.Sprintf("plan output missing format_version: %s", fragment(raw)),
			"The input does not look like 'tofu show -json' output.")
	}
	if err := plan.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.CodePlanParseError, "unsupported plan format")
	}

	var creates []domain.PlannedResource
	for _, rc := range plan.ResourceChanges {
		if rc == nil || rc.Change == nil {
			continue
		}
		if rc.Mode != tfjson.ManagedResourceMode {
			continue
		}
		if !rc.Change.Actions.Create() {
			continue
		}

		after, _ := rc.Change.After.(map[string]any)
		creates = append(creates, domain.PlannedResource{
			Kind:    domain.ResourceKind(rc.Type),
			Name:    resolveIdentifier(rc, after),
			Address: rc.Address,
			Values:  after,
		})
	}
	return creates, nil
}

func fragment(raw []byte) string {
	if len(raw) > rawFragmentLimit {
		return string(raw[:rawFragmentLimit]) + "..."
	}
	return string(raw)
}
