// Package resolve turns validated mapping records into live engine bindings.
// It owns the closed tables of accepted type tags and (tag, property)
// combinations, the name-to-handle lookups, and the two-level resolution of
// compound "Subcatchment/LidControl" identifiers.
package resolve
