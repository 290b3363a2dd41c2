package hcl

import "github.com/hashicorp/hcl/v2"

// mappingFile is the HCL-facing schema of a mapping file. Scalar attributes
// are kept as expressions and converted in translate.go so that a wrong type
// produces a mapping-level diagnostic instead of a raw decoder error.
type mappingFile struct {
	Version      hcl.Expression `hcl:"version"`
	ModelHash    hcl.Expression `hcl:"model_hash,optional"`
	LoggingLevel hcl.Expression `hcl:"logging_level,optional"`
	InputCount   hcl.Expression `hcl:"input_count"`
	OutputCount  hcl.Expression `hcl:"output_count"`

	Inputs  []inputBlock  `hcl:"input,block"`
	Outputs []outputBlock `hcl:"output,block"`
}

// inputBlock is one `input { ... }` block.
type inputBlock struct {
	Index      int    `hcl:"index"`
	Name       string `hcl:"name"`
	ObjectType string `hcl:"object_type"`
	Property   string `hcl:"property"`
}

// outputBlock is one `output { ... }` block. swmm_index is the optional
// precomputed handle emitted by the mapping generator.
type outputBlock struct {
	Index      int    `hcl:"index"`
	Name       string `hcl:"name"`
	ObjectType string `hcl:"object_type"`
	Property   string `hcl:"property"`
	SwmmIndex  *int   `hcl:"swmm_index,optional"`
}
