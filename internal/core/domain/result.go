package domain

type CheckStatus string

const (
	StatusPass          CheckStatus = "PASS"
	StatusOrphaned      CheckStatus = "ORPHANED"
	StatusUnverified    CheckStatus = "UNVERIFIED"
	StatusBootstrapSkip CheckStatus = "BOOTSTRAP_SKIP"
)

// Orphan is a planned create whose existence probe found a live resource.
type Orphan struct {
	Resource      PlannedResource
	ImportCommand string
}

// Unverified is a planned create whose existence probe could not complete:
// timeout, auth failure, missing identifier, or unsupported kind.
type Unverified struct {
	Resource PlannedResource
	Reason   string
}

type CheckResult struct {
	Status         CheckStatus
	PlannedCreates int
	Orphans        []Orphan
	Unverified     []Unverified
	SkipReason     string
}

// Resolve sets Status from the aggregated findings. Orphans dominate
// unverified entries; both block the gate.
func (r *CheckResult) Resolve() {
	switch {
	case r.Status == StatusBootstrapSkip:
	case len(r.Orphans) > 0:
		r.Status = StatusOrphaned
	case len(r.Unverified) > 0:
		r.Status = StatusUnverified
	default:
		r.Status = StatusPass
	}
}

// Passed reports whether the gate allows the deployment to proceed.
func (r *CheckResult) Passed() bool {
	return r.Status == StatusPass || r.Status == StatusBootstrapSkip
}
