package tofu

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/deltahdl/driftgate/internal/core/domain"
	"github.com/deltahdl/driftgate/internal/core/ports"
	"github.com/deltahdl/driftgate/internal/errors"
)

const PlannerTypeExec = "tofu-exec"

const defaultPlanTimeout = 2 * time.Minute

type ExecConfig struct {
	Directory string        `yaml:"directory" mapstructure:"directory" validate:"required"`
	Binary    string        `yaml:"binary" mapstructure:"binary"`
	Timeout   time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// ExecPlanner shells out to the tofu binary: a refresh-free `plan -out` into
// a temp file, then `show -json` on that file. The plan itself never touches
// live infrastructure.
type ExecPlanner struct {
	dir     string
	binary  string
	timeout time.Duration
	logger  ports.Logger
	runner  commandRunner
}

// commandRunner is the seam for tests; the default implementation execs.
type commandRunner func(ctx context.Context, dir string, name string, args ...string) ([]byte, error)

func NewExecPlanner(cfg ExecConfig, logger ports.Logger) (*ExecPlanner, error) {
	if cfg.Directory == "" {
		return nil, errors.New(errors.CodeConfigValidation, "exec planner requires a non-empty directory")
	}
	binary := cfg.Binary
	if binary == "" {
		binary = "tofu"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultPlanTimeout
	}

	return &ExecPlanner{
		dir:     cfg.Directory,
		binary:  binary,
		timeout: timeout,
		logger:  logger.WithFields(map[string]any{"planner": PlannerTypeExec, "dir": cfg.Directory}),
		runner:  runCommand,
	}, nil
}

func (p *ExecPlanner) Type() string { return PlannerTypeExec }

func (p *ExecPlanner) PlannedCreates(ctx context.Context) ([]domain.PlannedResource, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	tmpDir, err := os.MkdirTemp("", "driftgate-plan-")
	if err != nil {
		return nil, errors.Wrap(err, errors.CodePlanExecError, "failed to create temp dir for plan file")
	}
	defer os.RemoveAll(tmpDir)
	planFile := filepath.Join(tmpDir, "gate.tfplan")

	p.logger.Debugf(ctx, "Running plan")
	if _, err := p.runner(ctx, p.dir, p.binary, "plan", "-input=false", "-lock=false", "-refresh=false", "-out="+planFile); err != nil {
		return nil, errors.WrapUserFacing(err, errors.CodePlanExecError,
			fmt.Sprintf("'%s plan' failed in %s", p.binary, p.dir),
			"Run 'tofu init' in the directory and check provider credentials.")
	}

	p.logger.Debugf(ctx, "Rendering plan as JSON")
	out, err := p.runner(ctx, p.dir, p.binary, "show", "-json", planFile)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodePlanExecError,
			fmt.Sprintf("'%s show -json' failed in %s", p.binary, p.dir))
	}

	return parsePlan(out)
}

func runCommand(ctx context.Context, dir string, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%s %v: %w: %s", name, args, err, stderr.String())
	}
	return stdout.Bytes(), nil
}
