package config

import "context"

// Loader is the interface for a format-specific mapping file reader. The
// loader owns all text scanning; the returned Mapping is already typed but
// not yet validated, so callers run Validate on it.
type Loader interface {
	Load(ctx context.Context, path string) (*Mapping, error)
}
