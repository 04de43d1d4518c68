package backend

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/deltahdl/driftgate/internal/core/ports"
	"github.com/deltahdl/driftgate/internal/errors"
)

// Spec is the backend declaration discovered in a configuration root.
type Spec struct {
	Type       string
	Attributes map[string]any
}

var rootSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{{Type: "terraform"}},
}

var terraformSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{{Type: "backend", LabelNames: []string{"type"}}},
}

// Discover parses the *.tf / *.tf.json files in dir and returns the backend
// declaration, or a nil Spec when the configuration declares none (implicit
// local backend).
func Discover(ctx context.Context, dir string, logger ports.Logger) (*Spec, error) {
	logger = logger.WithFields(map[string]any{"backend_dir": dir})

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeConfigReadError, fmt.Sprintf("failed to read configuration root: %s", dir))
	}

	parser := hclparse.NewParser()
	foundHCLFiles := false
	var spec *Spec

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		fileName := entry.Name()
		if !strings.HasSuffix(fileName, ".tf") && !strings.HasSuffix(fileName, ".tf.json") {
			continue
		}
		foundHCLFiles = true

		filePath := filepath.Join(dir, fileName)
		var file *hcl.File
		var diags hcl.Diagnostics
		if strings.HasSuffix(fileName, ".tf.json") {
			file, diags = parser.ParseJSONFile(filePath)
		} else {
			file, diags = parser.ParseHCLFile(filePath)
		}
		if file == nil || diags.HasErrors() {
			logger.Warnf(ctx, "Skipping %s, parse failed:\n%s", fileName, diags.Error())
			continue
		}

		fileSpec, fileDiags := backendFromFile(file)
		if fileDiags.HasErrors() {
			return nil, errors.New(errors.CodeBackendParseError,
				fmt.Sprintf("invalid backend block in %s: %s", fileName, fileDiags.Error()))
		}
		if fileSpec == nil {
			continue
		}
		if spec != nil {
			return nil, errors.New(errors.CodeBackendParseError,
				fmt.Sprintf("multiple backend blocks found (second in %s)", fileName))
		}
		spec = fileSpec
		logger.Debugf(ctx, "Found %q backend in %s", spec.Type, fileName)
	}

	if !foundHCLFiles {
		return nil, errors.NewUserFacing(errors.CodeBackendParseError,
			fmt.Sprintf("no OpenTofu files (.tf, .tf.json) found in %s", dir),
			"Point --dir at a directory containing the stack configuration.")
	}
	return spec, nil
}

func backendFromFile(file *hcl.File) (*Spec, hcl.Diagnostics) {
	content, _, diags := file.Body.PartialContent(rootSchema)
	if diags.HasErrors() {
		return nil, diags
	}

	for _, tfBlock := range content.Blocks {
		tfContent, _, tfDiags := tfBlock.Body.PartialContent(terraformSchema)
		if tfDiags.HasErrors() {
			return nil, tfDiags
		}
		for _, block := range tfContent.Blocks {
			if len(block.Labels) != 1 {
				continue
			}
			attrs, attrDiags := block.Body.JustAttributes()
			if attrDiags.HasErrors() {
				return nil, attrDiags
			}

			spec := &Spec{Type: block.Labels[0], Attributes: make(map[string]any, len(attrs))}
			for name, attr := range attrs {
				val, valDiags := attr.Expr.Value(nil)
				if valDiags.HasErrors() {
					// Backend attributes must be literals; anything else is
					// out of scope for state discovery.
					continue
				}
				goVal, err := ctyToGo(val)
				if err != nil {
					continue
				}
				spec.Attributes[name] = goVal
			}
			return spec, nil
		}
	}
	return nil, nil
}

// StringAttr returns a string attribute of the backend block, or "".
func (s *Spec) StringAttr(name string) string {
	if s == nil {
		return ""
	}
	v, _ := s.Attributes[name].(string)
	return v
}
