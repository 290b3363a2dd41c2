// Package hcl reads interface mapping files written in HCL and translates
// them into the format-agnostic config model. It is the only package that
// knows the mapping file's textual syntax; everything downstream of
// config.Loader works on typed records.
package hcl
