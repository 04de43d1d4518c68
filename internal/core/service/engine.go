package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/deltahdl/driftgate/internal/core/domain"
	"github.com/deltahdl/driftgate/internal/core/ports"
	"github.com/deltahdl/driftgate/internal/errors"
)

const (
	defaultConcurrency  = 4
	defaultProbeTimeout = 10 * time.Second
)

// CheckEngine runs the pre-apply gate: bootstrap detection, plan
// enumeration, existence probing, classification. Probes run concurrently
// but every planned create contributes exactly one outcome; a failed probe
// becomes an unverified entry, never a silent pass.
type CheckEngine struct {
	locator      ports.StateLocator
	planner      ports.Planner
	registry     *ProberRegistry
	reporter     ports.Reporter
	logger       ports.Logger
	concurrency  int
	probeTimeout time.Duration
}

func NewCheckEngine(
	locator ports.StateLocator,
	planner ports.Planner,
	registry *ProberRegistry,
	reporter ports.Reporter,
	logger ports.Logger,
	concurrency int,
	probeTimeout time.Duration,
) (*CheckEngine, error) {
	if locator == nil {
		return nil, errors.New(errors.CodeConfigValidation, "state locator cannot be nil")
	}
	if planner == nil {
		return nil, errors.New(errors.CodeConfigValidation, "planner cannot be nil")
	}
	if registry == nil {
		return nil, errors.New(errors.CodeConfigValidation, "prober registry cannot be nil")
	}
	if reporter == nil {
		return nil, errors.New(errors.CodeConfigValidation, "reporter cannot be nil")
	}
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	if probeTimeout <= 0 {
		probeTimeout = defaultProbeTimeout
	}

	return &CheckEngine{
		locator:      locator,
		planner:      planner,
		registry:     registry,
		reporter:     reporter,
		logger:       logger,
		concurrency:  concurrency,
		probeTimeout: probeTimeout,
	}, nil
}

func (e *CheckEngine) Run(ctx context.Context) (domain.CheckResult, error) {
	e.logger.Infof(ctx, "Starting pre-apply drift check using %s planner", e.planner.Type())

	stateExists, err := e.locator.StateExists(ctx)
	if err != nil {
		return domain.CheckResult{}, errors.Wrap(err, errors.CodeStateProbeError, "failed to determine whether prior state exists")
	}
	if !stateExists {
		e.logger.Infof(ctx, "No prior state found (%s), skipping drift check for bootstrap run", e.locator.Type())
		result := domain.CheckResult{
			Status:     domain.StatusBootstrapSkip,
			SkipReason: "no prior state found; first apply is expected to create everything",
		}
		return result, e.report(ctx, result)
	}

	creates, err := e.planner.PlannedCreates(ctx)
	if err != nil {
		return domain.CheckResult{}, err
	}
	e.logger.Infof(ctx, "Plan contains %d resource(s) to create", len(creates))

	creates = dedupe(creates)

	result := domain.CheckResult{PlannedCreates: len(creates)}
	if len(creates) == 0 {
		result.Resolve()
		return result, e.report(ctx, result)
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)

	for _, res := range creates {
		g.Go(func() error {
			orphan, unverified := e.probeOne(gctx, res)
			mu.Lock()
			defer mu.Unlock()
			if orphan != nil {
				result.Orphans = append(result.Orphans, *orphan)
			}
			if unverified != nil {
				result.Unverified = append(result.Unverified, *unverified)
			}
			return gctx.Err()
		})
	}

	if err := g.Wait(); err != nil {
		return domain.CheckResult{}, errors.Wrap(err, errors.CodeInternal, "drift check cancelled")
	}

	sort.Slice(result.Orphans, func(i, j int) bool {
		return result.Orphans[i].Resource.Address < result.Orphans[j].Resource.Address
	})
	sort.Slice(result.Unverified, func(i, j int) bool {
		return result.Unverified[i].Resource.Address < result.Unverified[j].Resource.Address
	})

	result.Resolve()
	return result, e.report(ctx, result)
}

// probeOne resolves exactly one planned create to an orphan, an unverified
// entry, or neither (probe returned not-found).
func (e *CheckEngine) probeOne(ctx context.Context, res domain.PlannedResource) (*domain.Orphan, *domain.Unverified) {
	log := e.logger.WithFields(map[string]any{
		"resource_kind": res.Kind,
		"resource_name": res.Name,
		"address":       res.Address,
	})

	if res.Name == "" {
		log.Warnf(ctx, "Planned resource has no resolvable identifier, cannot verify")
		return nil, &domain.Unverified{Resource: res, Reason: "identifier not known at plan time"}
	}

	prober, err := e.registry.Get(res.Kind)
	if err != nil {
		log.Warnf(ctx, "No prober for kind %s, treating as unverified", res.Kind)
		return nil, &domain.Unverified{Resource: res, Reason: fmt.Sprintf("unsupported resource kind %q", res.Kind)}
	}

	probeCtx, cancel := context.WithTimeout(ctx, e.probeTimeout)
	defer cancel()

	outcome, probeErr := prober.Probe(probeCtx, res, log)
	if probeErr != nil {
		log.Errorf(ctx, probeErr, "Existence probe failed")
		return nil, &domain.Unverified{Resource: res, Reason: probeErr.Error()}
	}

	switch outcome {
	case domain.OutcomeFound:
		log.Warnf(ctx, "Live resource found for planned create")
		return &domain.Orphan{
			Resource:      res,
			ImportCommand: fmt.Sprintf("tofu import %s %s", res.Address, res.Name),
		}, nil
	case domain.OutcomeNotFound:
		log.Debugf(ctx, "No live resource found")
		return nil, nil
	default:
		return nil, &domain.Unverified{Resource: res, Reason: "probe returned an indeterminate outcome"}
	}
}

func (e *CheckEngine) report(ctx context.Context, result domain.CheckResult) error {
	if err := e.reporter.Report(ctx, result); err != nil {
		return errors.Wrap(err, errors.CodeInternal, "failed to generate report")
	}
	return nil
}

func dedupe(in []domain.PlannedResource) []domain.PlannedResource {
	seen := make(map[string]struct{}, len(in))
	out := make([]domain.PlannedResource, 0, len(in))
	for _, r := range in {
		if _, ok := seen[r.Key()]; ok {
			continue
		}
		seen[r.Key()] = struct{}{}
		out = append(out, r)
	}
	return out
}
