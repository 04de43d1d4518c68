package domain

// PlannedResource is one resource a plan intends to create. Recomputed on
// every check, never persisted.
type PlannedResource struct {
	Kind    ResourceKind
	Name    string         // cloud-side identifier (bucket name, role name, ...)
	Address string         // plan address, used for the import command
	Values  map[string]any // planned after-values, for probers that need context (zone_id, record type)
}

// Key identifies a planned resource for deduplication before probing.
// Resources whose identifier is unknown at plan time key on their plan
// address instead, so two computed-name creates never collapse into one.
func (r PlannedResource) Key() string {
	if r.Name == "" {
		return string(r.Kind) + "/" + r.Address
	}
	return string(r.Kind) + "/" + r.Name
}

type ProbeOutcome string

const (
	OutcomeFound      ProbeOutcome = "FOUND"
	OutcomeNotFound   ProbeOutcome = "NOT_FOUND"
	OutcomeUnverified ProbeOutcome = "UNVERIFIED"
)
