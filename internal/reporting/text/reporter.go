package text

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/deltahdl/driftgate/internal/core/domain"
	"github.com/deltahdl/driftgate/internal/core/ports"
)

const ReporterTypeText = "text"

type Config struct {
	NoColor bool `yaml:"no_color" mapstructure:"no_color"`
}

type Reporter struct {
	config    Config
	writer    io.Writer
	errWriter io.Writer
	logger    ports.Logger
}

func NewReporter(cfg Config, logger ports.Logger) (*Reporter, error) {
	if cfg.NoColor || !isTerminal(os.Stdout) {
		color.NoColor = true
	}

	return &Reporter{
		config:    cfg,
		writer:    os.Stdout,
		errWriter: os.Stderr,
		logger:    logger,
	}, nil
}

func isTerminal(f *os.File) bool {
	stat, _ := f.Stat()
	return (stat.Mode() & os.ModeCharDevice) != 0
}

func (r *Reporter) Report(ctx context.Context, result domain.CheckResult) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	red := color.New(color.FgRed).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()

	fmt.Fprintln(r.writer, "Pre-Apply Drift Check")
	fmt.Fprintln(r.writer, "=====================")

	if result.Status == domain.StatusBootstrapSkip {
		fmt.Fprintf(r.writer, "%s %s\n", green("[SKIP]"), result.SkipReason)
		return nil
	}

	fmt.Fprintf(r.writer, "Planned creates: %d\n\n", result.PlannedCreates)

	tw := tabwriter.NewWriter(r.writer, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "Status\tKind\tIdentifier\tDetails")
	fmt.Fprintln(tw, "------\t----\t----------\t-------")

	for _, orphan := range result.Orphans {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			red("[ORPHANED]"), orphan.Resource.Kind, orphan.Resource.Name,
			"Exists live but is not in state.")
	}
	for _, uv := range result.Unverified {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			yellow("[UNVERIFIED]"), uv.Resource.Kind, displayName(uv.Resource), uv.Reason)
	}
	if len(result.Orphans) == 0 && len(result.Unverified) == 0 {
		fmt.Fprintf(tw, "%s\t\t\tNo planned create collides with a live resource.\n", green("[OK]"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(r.writer, "\nSummary:")
	fmt.Fprintln(r.writer, "-------")
	fmt.Fprintf(r.writer, "Orphaned:   %s\n", red(len(result.Orphans)))
	fmt.Fprintf(r.writer, "Unverified: %s\n", yellow(len(result.Unverified)))

	if len(result.Orphans) > 0 {
		fmt.Fprintln(r.errWriter, "\nThese resources exist in AWS but NOT in state; apply would fail.")
		fmt.Fprintln(r.errWriter, "Fix: run these commands before applying:")
		for _, orphan := range result.Orphans {
			fmt.Fprintf(r.errWriter, "    %s\n", orphan.ImportCommand)
		}
	}

	return nil
}

func displayName(res domain.PlannedResource) string {
	if res.Name != "" {
		return res.Name
	}
	return res.Address
}
