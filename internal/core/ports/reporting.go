package ports

import (
	"context"

	"github.com/deltahdl/driftgate/internal/core/domain"
)

type Reporter interface {
	Report(ctx context.Context, result domain.CheckResult) error
}
