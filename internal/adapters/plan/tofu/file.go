package tofu

import (
	"context"
	"os"

	"github.com/deltahdl/driftgate/internal/core/domain"
	"github.com/deltahdl/driftgate/internal/core/ports"
	"github.com/deltahdl/driftgate/internal/errors"
)

const PlannerTypeFile = "plan-file"

type FileConfig struct {
	Path string `yaml:"path" mapstructure:"path" validate:"required"`
}

// FilePlanner reads a pre-rendered `tofu show -json` document, typically a
// CI artifact produced by an earlier pipeline step.
type FilePlanner struct {
	path   string
	logger ports.Logger
}

func NewFilePlanner(cfg FileConfig, logger ports.Logger) (*FilePlanner, error) {
	if cfg.Path == "" {
		return nil, errors.New(errors.CodeConfigValidation, "file planner requires a non-empty path")
	}
	return &FilePlanner{
		path:   cfg.Path,
		logger: logger.WithFields(map[string]any{"planner": PlannerTypeFile, "plan_file": cfg.Path}),
	}, nil
}

func (p *FilePlanner) Type() string { return PlannerTypeFile }

func (p *FilePlanner) PlannedCreates(ctx context.Context) ([]domain.PlannedResource, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	raw, err := os.ReadFile(p.path)
	if err != nil {
		return nil, errors.WrapUserFacing(err, errors.CodePlanExecError,
			"failed to read plan file "+p.path,
			"Generate it with 'tofu plan -out=plan.tfplan && tofu show -json plan.tfplan > plan.json'.")
	}

	p.logger.Debugf(ctx, "Parsing plan file (%d bytes)", len(raw))
	return parsePlan(raw)
}
