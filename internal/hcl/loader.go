package hcl

import (
	"context"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/specialistvlad/swmmbridge/internal/config"
	"github.com/specialistvlad/swmmbridge/internal/ctxlog"
	"github.com/specialistvlad/swmmbridge/internal/fault"
)

// Loader implements config.Loader for HCL mapping files.
type Loader struct{}

// NewLoader creates a Loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses and translates a mapping file. File-level problems (missing
// file, syntax errors) surface as ConfigurationError faults carrying the
// offending path, in the same three-part shape the rest of the bridge uses.
func (l *Loader) Load(ctx context.Context, path string) (*config.Mapping, error) {
	logger := ctxlog.With(ctx, "mapping", path)

	if _, err := os.Stat(path); err != nil {
		return nil, fault.Newf(fault.KindConfiguration,
			"Mapping file not found",
			"Ensure the mapping file exists and is accessible",
			"File path '%s'", path)
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fault.Newf(fault.KindConfiguration,
			"Invalid mapping file syntax",
			"Fix the reported HCL syntax errors or regenerate the mapping file",
			"File '%s': %s", path, diags.Error())
	}

	var raw mappingFile
	if diags := gohcl.DecodeBody(file.Body, nil, &raw); diags.HasErrors() {
		return nil, fault.Newf(fault.KindConfiguration,
			"Invalid mapping file content",
			"Every record needs index, name, object_type and property; counts and version are required at the top level",
			"File '%s': %s", path, diags.Error())
	}

	mapping, err := translate(&raw, path)
	if err != nil {
		return nil, err
	}

	logger.Debug("mapping file loaded",
		"inputs", len(mapping.Inputs),
		"outputs", len(mapping.Outputs),
		"version", mapping.Version)
	return mapping, nil
}

var _ config.Loader = (*Loader)(nil)

// pathErr is a tiny helper to keep translate's error sites short.
func pathErr(path, what string) string {
	return fmt.Sprintf("File '%s': %s", path, what)
}
