package json

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/deltahdl/driftgate/internal/core/domain"
	"github.com/deltahdl/driftgate/internal/core/ports"
)

const ReporterTypeJSON = "json"

type Config struct{}

type Reporter struct {
	config    Config
	writer    io.Writer
	errWriter io.Writer
	logger    ports.Logger
}

func NewReporter(cfg Config, logger ports.Logger) (*Reporter, error) {
	return &Reporter{
		config:    cfg,
		writer:    os.Stdout,
		errWriter: os.Stderr,
		logger:    logger,
	}, nil
}

type jsonReport struct {
	Status         domain.CheckStatus `json:"status"`
	PlannedCreates int                `json:"planned_creates"`
	SkipReason     string             `json:"skip_reason,omitempty"`
	Orphans        []jsonOrphan       `json:"orphans"`
	Unverified     []jsonUnverified   `json:"unverified"`
}

type jsonOrphan struct {
	Kind          domain.ResourceKind `json:"kind"`
	Name          string              `json:"name"`
	Address       string              `json:"address"`
	ImportCommand string              `json:"import_command"`
}

type jsonUnverified struct {
	Kind    domain.ResourceKind `json:"kind"`
	Name    string              `json:"name,omitempty"`
	Address string              `json:"address"`
	Reason  string              `json:"reason"`
}

func (r *Reporter) Report(ctx context.Context, result domain.CheckResult) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	report := jsonReport{
		Status:         result.Status,
		PlannedCreates: result.PlannedCreates,
		SkipReason:     result.SkipReason,
		Orphans:        make([]jsonOrphan, 0, len(result.Orphans)),
		Unverified:     make([]jsonUnverified, 0, len(result.Unverified)),
	}
	for _, orphan := range result.Orphans {
		report.Orphans = append(report.Orphans, jsonOrphan{
			Kind:          orphan.Resource.Kind,
			Name:          orphan.Resource.Name,
			Address:       orphan.Resource.Address,
			ImportCommand: orphan.ImportCommand,
		})
	}
	for _, uv := range result.Unverified {
		report.Unverified = append(report.Unverified, jsonUnverified{
			Kind:    uv.Resource.Kind,
			Name:    uv.Resource.Name,
			Address: uv.Resource.Address,
			Reason:  uv.Reason,
		})
	}

	enc := json.NewEncoder(r.writer)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return err
	}

	// The remediation commands go to stderr regardless of output format, so
	// CI logs show the fix even when stdout is piped into a JSON consumer.
	for _, orphan := range result.Orphans {
		fmt.Fprintf(r.errWriter, "%s\n", orphan.ImportCommand)
	}
	return nil
}
