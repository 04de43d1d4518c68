package ports

import (
	"context"

	"github.com/deltahdl/driftgate/internal/core/domain"
)

// Planner enumerates the resources a dry-run plan would create.
type Planner interface {
	Type() string
	PlannedCreates(ctx context.Context) ([]domain.PlannedResource, error)
}

// Prober answers whether one planned resource already exists live.
type Prober interface {
	Kind() domain.ResourceKind
	Probe(ctx context.Context, res domain.PlannedResource, logger Logger) (domain.ProbeOutcome, error)
}

// StateLocator reports whether prior provisioning state exists for a
// configuration root. Absence of state short-circuits the check (bootstrap).
type StateLocator interface {
	Type() string
	StateExists(ctx context.Context) (bool, error)
}
