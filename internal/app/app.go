package app

import (
	"context"

	"github.com/deltahdl/driftgate/internal/core/domain"
	"github.com/deltahdl/driftgate/internal/core/ports"
	"github.com/deltahdl/driftgate/internal/errors"
)

// Application runs the pre-apply gate and turns the result into a pass/fail
// error for the CLI.
type Application struct {
	Engine ports.CheckEngine
	Logger ports.Logger
}

func NewApplication(engine ports.CheckEngine, logger ports.Logger) *Application {
	return &Application{Engine: engine, Logger: logger}
}

func (a *Application) Run(ctx context.Context) error {
	a.Logger.Infof(ctx, "Starting pre-apply drift check...")

	result, err := a.Engine.Run(ctx)
	if err != nil {
		a.Logger.Errorf(ctx, err, "Drift check could not complete")
		return err
	}

	switch result.Status {
	case domain.StatusOrphaned:
		return errors.NewUserFacing(errors.CodeOrphanedResources,
			"orphaned resources detected: planned creates collide with live resources",
			"Import the listed resources, then re-run the check.")
	case domain.StatusUnverified:
		return errors.NewUserFacing(errors.CodeUnverifiedProbes,
			"some planned resources could not be verified against the live environment",
			"Fix the probe failures listed in the report, then re-run the check.")
	}

	a.Logger.Infof(ctx, "Drift check passed (%s)", result.Status)
	return nil
}
