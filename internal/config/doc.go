// Package config holds the format-agnostic model of the interface mapping:
// which driver array slot binds to which named engine object and property.
// The core consumes only these typed records; turning a mapping file on disk
// into a Mapping is the job of a config.Loader implementation (see the hcl
// package).
package config
