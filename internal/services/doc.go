// Package services defines shared utilities consumed by the conversion core
// and the external tool wrappers.
//
// Key responsibilities:
//   - Context helpers that stamp conversion identifiers, operation names, and
//     correlation identifiers for logging.
//   - The closed conversion error taxonomy (Kind plus Error) that lets callers
//     branch on "tool not installed" versus "tool rejected the input" while
//     still rendering a human-readable message.
//
// Use these helpers when wiring new conversion logic so error classification
// and observability stay uniform across the CLI and the HTTP API.
package services
