package backend

import (
	"context"
	"os"
	"path/filepath"

	"github.com/deltahdl/driftgate/internal/core/ports"
	"github.com/deltahdl/driftgate/internal/errors"
)

const LocatorTypeLocal = "local-backend"

const defaultLocalStateFile = "terraform.tfstate"

// LocalStateLocator handles `backend "local"` and configurations without a
// backend block: prior state is a file on disk.
type LocalStateLocator struct {
	path string
}

func NewLocalStateLocator(dir string, spec *Spec) *LocalStateLocator {
	path := spec.StringAttr("path")
	if path == "" {
		path = defaultLocalStateFile
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(dir, path)
	}
	return &LocalStateLocator{path: path}
}

func (l *LocalStateLocator) Type() string { return LocatorTypeLocal }

func (l *LocalStateLocator) StateExists(ctx context.Context) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	info, err := os.Stat(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, errors.Wrap(err, errors.CodeStateProbeError, "failed to stat local state file "+l.path)
	}
	// A zero-byte state file is what `tofu init` leaves behind before the
	// first apply; treat it the same as no state.
	return info.Size() > 0, nil
}

var _ ports.StateLocator = (*LocalStateLocator)(nil)
