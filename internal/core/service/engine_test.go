package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/deltahdl/driftgate/internal/core/domain"
	"github.com/deltahdl/driftgate/internal/core/ports"
	apperrors "github.com/deltahdl/driftgate/internal/errors"
)

type nopLogger struct{}

func (nopLogger) Debugf(context.Context, string, ...any)        {}
func (nopLogger) Infof(context.Context, string, ...any)         {}
func (nopLogger) Warnf(context.Context, string, ...any)         {}
func (nopLogger) Errorf(context.Context, error, string, ...any) {}
func (l nopLogger) WithFields(map[string]any) ports.Logger      { return l }

type mockLocator struct{ mock.Mock }

func (m *mockLocator) Type() string { return "mock-locator" }

func (m *mockLocator) StateExists(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

type mockPlanner struct{ mock.Mock }

func (m *mockPlanner) Type() string { return "mock-planner" }

func (m *mockPlanner) PlannedCreates(ctx context.Context) ([]domain.PlannedResource, error) {
	args := m.Called(ctx)
	creates, _ := args.Get(0).([]domain.PlannedResource)
	return creates, args.Error(1)
}

type mockProber struct {
	mock.Mock
	kind domain.ResourceKind
}

func (m *mockProber) Kind() domain.ResourceKind { return m.kind }

func (m *mockProber) Probe(ctx context.Context, res domain.PlannedResource, logger ports.Logger) (domain.ProbeOutcome, error) {
	args := m.Called(ctx, res)
	outcome, _ := args.Get(0).(domain.ProbeOutcome)
	return outcome, args.Error(1)
}

type mockReporter struct{ mock.Mock }

func (m *mockReporter) Report(ctx context.Context, result domain.CheckResult) error {
	args := m.Called(ctx, result)
	return args.Error(0)
}

func bucket(name string) domain.PlannedResource {
	return domain.PlannedResource{
		Kind:    domain.KindS3Bucket,
		Name:    name,
		Address: "aws_s3_bucket." + name,
		Values:  map[string]any{"bucket": name},
	}
}

type engineFixture struct {
	locator  *mockLocator
	planner  *mockPlanner
	prober   *mockProber
	reporter *mockReporter
	engine   *CheckEngine
}

func newFixture(t *testing.T) *engineFixture {
	t.Helper()

	f := &engineFixture{
		locator:  new(mockLocator),
		planner:  new(mockPlanner),
		prober:   &mockProber{kind: domain.KindS3Bucket},
		reporter: new(mockReporter),
	}
	registry := NewProberRegistry()
	require.NoError(t, registry.Register(f.prober))

	engine, err := NewCheckEngine(f.locator, f.planner, registry, f.reporter, nopLogger{}, 2, time.Second)
	require.NoError(t, err)
	f.engine = engine
	return f
}

func (f *engineFixture) expectReport() {
	f.reporter.On("Report", mock.Anything, mock.Anything).Return(nil)
}

func TestNewCheckEngineValidation(t *testing.T) {
	f := newFixture(t)
	registry := NewProberRegistry()

	_, err := NewCheckEngine(nil, f.planner, registry, f.reporter, nopLogger{}, 0, 0)
	assert.Error(t, err)
	_, err = NewCheckEngine(f.locator, nil, registry, f.reporter, nopLogger{}, 0, 0)
	assert.Error(t, err)
	_, err = NewCheckEngine(f.locator, f.planner, nil, f.reporter, nopLogger{}, 0, 0)
	assert.Error(t, err)
	_, err = NewCheckEngine(f.locator, f.planner, registry, nil, nopLogger{}, 0, 0)
	assert.Error(t, err)
}

func TestRunBootstrapSkip(t *testing.T) {
	f := newFixture(t)
	f.locator.On("StateExists", mock.Anything).Return(false, nil)
	f.expectReport()

	result, err := f.engine.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusBootstrapSkip, result.Status)
	assert.NotEmpty(t, result.SkipReason)
	assert.True(t, result.Passed())

	// Bootstrap must short-circuit before the plan is even produced.
	f.planner.AssertNotCalled(t, "PlannedCreates", mock.Anything)
}

func TestRunNoPlannedCreates(t *testing.T) {
	f := newFixture(t)
	f.locator.On("StateExists", mock.Anything).Return(true, nil)
	f.planner.On("PlannedCreates", mock.Anything).Return([]domain.PlannedResource{}, nil)
	f.expectReport()

	result, err := f.engine.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPass, result.Status)
	assert.Zero(t, result.PlannedCreates)
	f.prober.AssertNotCalled(t, "Probe", mock.Anything, mock.Anything)
}

func TestRunCleanProbesPass(t *testing.T) {
	f := newFixture(t)
	f.locator.On("StateExists", mock.Anything).Return(true, nil)
	f.planner.On("PlannedCreates", mock.Anything).
		Return([]domain.PlannedResource{bucket("acme-site"), bucket("acme-logs")}, nil)
	f.prober.On("Probe", mock.Anything, mock.Anything).Return(domain.OutcomeNotFound, nil)
	f.expectReport()

	result, err := f.engine.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPass, result.Status)
	assert.Equal(t, 2, result.PlannedCreates)
	assert.True(t, result.Passed())
	f.prober.AssertNumberOfCalls(t, "Probe", 2)
}

func TestRunOrphanCarriesImportCommand(t *testing.T) {
	f := newFixture(t)
	f.locator.On("StateExists", mock.Anything).Return(true, nil)
	f.planner.On("PlannedCreates", mock.Anything).
		Return([]domain.PlannedResource{bucket("acme-site")}, nil)
	f.prober.On("Probe", mock.Anything, mock.Anything).Return(domain.OutcomeFound, nil)
	f.expectReport()

	result, err := f.engine.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusOrphaned, result.Status)
	assert.False(t, result.Passed())
	require.Len(t, result.Orphans, 1)
	assert.Equal(t, "tofu import aws_s3_bucket.acme-site acme-site", result.Orphans[0].ImportCommand)
}

func TestRunProbeFailureIsUnverified(t *testing.T) {
	f := newFixture(t)
	f.locator.On("StateExists", mock.Anything).Return(true, nil)
	f.planner.On("PlannedCreates", mock.Anything).
		Return([]domain.PlannedResource{bucket("acme-site")}, nil)
	f.prober.On("Probe", mock.Anything, mock.Anything).
		Return(domain.OutcomeUnverified, errors.New("api error Throttling: rate exceeded"))
	f.expectReport()

	result, err := f.engine.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusUnverified, result.Status)
	assert.False(t, result.Passed())
	require.Len(t, result.Unverified, 1)
	assert.Contains(t, result.Unverified[0].Reason, "Throttling")
}

func TestRunUnsupportedKindIsUnverified(t *testing.T) {
	f := newFixture(t)
	f.locator.On("StateExists", mock.Anything).Return(true, nil)
	f.planner.On("PlannedCreates", mock.Anything).Return([]domain.PlannedResource{{
		Kind:    "aws_dynamodb_table",
		Name:    "sessions",
		Address: "aws_dynamodb_table.sessions",
	}}, nil)
	f.expectReport()

	result, err := f.engine.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusUnverified, result.Status)
	require.Len(t, result.Unverified, 1)
	assert.Contains(t, result.Unverified[0].Reason, "unsupported resource kind")
}

func TestRunUnknownIdentifierIsUnverified(t *testing.T) {
	f := newFixture(t)
	f.locator.On("StateExists", mock.Anything).Return(true, nil)
	f.planner.On("PlannedCreates", mock.Anything).Return([]domain.PlannedResource{{
		Kind:    domain.KindS3Bucket,
		Address: "aws_s3_bucket.generated",
	}}, nil)
	f.expectReport()

	result, err := f.engine.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusUnverified, result.Status)
	require.Len(t, result.Unverified, 1)
	assert.Contains(t, result.Unverified[0].Reason, "identifier not known at plan time")
	f.prober.AssertNotCalled(t, "Probe", mock.Anything, mock.Anything)
}

func TestRunKeepsAllUnknownIdentifierCreates(t *testing.T) {
	f := newFixture(t)
	f.locator.On("StateExists", mock.Anything).Return(true, nil)
	f.planner.On("PlannedCreates", mock.Anything).Return([]domain.PlannedResource{
		{Kind: domain.KindS3Bucket, Address: "aws_s3_bucket.site"},
		{Kind: domain.KindS3Bucket, Address: "aws_s3_bucket.logs"},
	}, nil)
	f.expectReport()

	result, err := f.engine.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, result.PlannedCreates)
	require.Len(t, result.Unverified, 2)
	assert.Equal(t, "aws_s3_bucket.logs", result.Unverified[0].Resource.Address)
	assert.Equal(t, "aws_s3_bucket.site", result.Unverified[1].Resource.Address)
}

func TestRunAggregatesMixedFindingsSorted(t *testing.T) {
	f := newFixture(t)
	f.locator.On("StateExists", mock.Anything).Return(true, nil)
	f.planner.On("PlannedCreates", mock.Anything).Return([]domain.PlannedResource{
		bucket("zeta"), bucket("alpha"), bucket("mid"),
	}, nil)
	f.prober.On("Probe", mock.Anything, bucket("zeta")).Return(domain.OutcomeFound, nil)
	f.prober.On("Probe", mock.Anything, bucket("alpha")).Return(domain.OutcomeFound, nil)
	f.prober.On("Probe", mock.Anything, bucket("mid")).Return(domain.OutcomeNotFound, nil)
	f.expectReport()

	result, err := f.engine.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusOrphaned, result.Status)
	require.Len(t, result.Orphans, 2)
	assert.Equal(t, "aws_s3_bucket.alpha", result.Orphans[0].Resource.Address)
	assert.Equal(t, "aws_s3_bucket.zeta", result.Orphans[1].Resource.Address)
}

func TestRunDeduplicatesPlannedCreates(t *testing.T) {
	f := newFixture(t)
	f.locator.On("StateExists", mock.Anything).Return(true, nil)
	f.planner.On("PlannedCreates", mock.Anything).Return([]domain.PlannedResource{
		bucket("acme-site"), bucket("acme-site"),
	}, nil)
	f.prober.On("Probe", mock.Anything, mock.Anything).Return(domain.OutcomeNotFound, nil)
	f.expectReport()

	result, err := f.engine.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.PlannedCreates)
	f.prober.AssertNumberOfCalls(t, "Probe", 1)
}

func TestRunStateProbeError(t *testing.T) {
	f := newFixture(t)
	f.locator.On("StateExists", mock.Anything).Return(false, errors.New("api error AccessDenied"))

	_, err := f.engine.Run(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeStateProbeError))
	f.reporter.AssertNotCalled(t, "Report", mock.Anything, mock.Anything)
}

func TestRunPlannerErrorPropagates(t *testing.T) {
	f := newFixture(t)
	f.locator.On("StateExists", mock.Anything).Return(true, nil)
	f.planner.On("PlannedCreates", mock.Anything).
		Return(nil, apperrors.New(apperrors.CodePlanExecError, "tofu plan failed"))

	_, err := f.engine.Run(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodePlanExecError))
}

func TestRegistry(t *testing.T) {
	registry := NewProberRegistry()
	prober := &mockProber{kind: domain.KindS3Bucket}

	require.NoError(t, registry.Register(prober))
	assert.Error(t, registry.Register(prober), "duplicate registration must fail")
	assert.Error(t, registry.Register(nil))

	got, err := registry.Get(domain.KindS3Bucket)
	require.NoError(t, err)
	assert.Same(t, ports.Prober(prober), got)

	_, err = registry.Get("aws_dynamodb_table")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeUnsupportedKind))

	assert.ElementsMatch(t, []domain.ResourceKind{domain.KindS3Bucket}, registry.Kinds())
}
