package ports

import (
	"context"

	"github.com/deltahdl/driftgate/internal/core/domain"
)

type CheckEngine interface {
	Run(ctx context.Context) (domain.CheckResult, error)
}
