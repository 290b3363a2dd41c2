package hcl

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"

	"github.com/specialistvlad/swmmbridge/internal/config"
	"github.com/specialistvlad/swmmbridge/internal/fault"
)

// translate converts the HCL-specific schema into the agnostic config model.
// Scalar expressions are evaluated here, with conversion errors reported as
// mapping faults that name the attribute.
func translate(raw *mappingFile, path string) (*config.Mapping, error) {
	version, err := stringAttr(raw.Version, "version", path)
	if err != nil {
		return nil, err
	}
	modelHash, err := optionalStringAttr(raw.ModelHash, "model_hash", path)
	if err != nil {
		return nil, err
	}
	logLevel, err := optionalStringAttr(raw.LoggingLevel, "logging_level", path)
	if err != nil {
		return nil, err
	}
	inputCount, err := intAttr(raw.InputCount, "input_count", path)
	if err != nil {
		return nil, err
	}
	outputCount, err := intAttr(raw.OutputCount, "output_count", path)
	if err != nil {
		return nil, err
	}

	mapping := &config.Mapping{
		Version:         version,
		ModelHash:       modelHash,
		LogLevel:        logLevel,
		DeclaredInputs:  inputCount,
		DeclaredOutputs: outputCount,
		Inputs:          make([]config.InputRecord, 0, len(raw.Inputs)),
		Outputs:         make([]config.OutputRecord, 0, len(raw.Outputs)),
	}

	for _, in := range raw.Inputs {
		mapping.Inputs = append(mapping.Inputs, config.InputRecord{
			Slot:       in.Index,
			Name:       in.Name,
			ObjectType: in.ObjectType,
			Property:   in.Property,
		})
	}
	for _, out := range raw.Outputs {
		rec := config.OutputRecord{
			Slot:              out.Index,
			Name:              out.Name,
			ObjectType:        out.ObjectType,
			Property:          out.Property,
			PrecomputedHandle: -1,
		}
		if out.SwmmIndex != nil {
			rec.PrecomputedHandle = *out.SwmmIndex
		}
		mapping.Outputs = append(mapping.Outputs, rec)
	}

	return mapping, nil
}

func evalAttr(expr hcl.Expression, want cty.Type, name, path string) (cty.Value, error) {
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return cty.NilVal, fault.New(fault.KindConfiguration,
			"Invalid mapping attribute",
			pathErr(path, "attribute '"+name+"': "+diags.Error()),
			"Mapping attributes must be literal values")
	}
	converted, err := convert.Convert(val, want)
	if err != nil {
		return cty.NilVal, fault.New(fault.KindConfiguration,
			"Wrong type for mapping attribute",
			pathErr(path, "attribute '"+name+"' must be "+want.FriendlyName()),
			"Regenerate the mapping file to ensure consistency")
	}
	return converted, nil
}

func stringAttr(expr hcl.Expression, name, path string) (string, error) {
	val, err := evalAttr(expr, cty.String, name, path)
	if err != nil {
		return "", err
	}
	var s string
	if err := gocty.FromCtyValue(val, &s); err != nil {
		return "", fault.New(fault.KindConfiguration,
			"Wrong type for mapping attribute",
			pathErr(path, "attribute '"+name+"'"),
			"Regenerate the mapping file to ensure consistency")
	}
	return s, nil
}

func optionalStringAttr(expr hcl.Expression, name, path string) (string, error) {
	if expr == nil {
		return "", nil
	}
	val, diags := expr.Value(nil)
	if diags.HasErrors() || val.IsNull() {
		return "", nil
	}
	return stringAttr(expr, name, path)
}

func intAttr(expr hcl.Expression, name, path string) (int, error) {
	val, err := evalAttr(expr, cty.Number, name, path)
	if err != nil {
		return 0, err
	}
	var n int
	if err := gocty.FromCtyValue(val, &n); err != nil {
		return 0, fault.New(fault.KindConfiguration,
			"Wrong type for mapping attribute",
			pathErr(path, "attribute '"+name+"' must be a whole number"),
			"Regenerate the mapping file to ensure consistency")
	}
	return n, nil
}
