// Package format owns the closed set of document formats docbridge converts
// between and the table every other component derives from.
//
// Resolve maps a token (an explicit hint or a filename extension) to a Format
// using Unicode case folding; ResolveFor applies the hint-then-extension rule
// used for both sides of a conversion request. Descriptors feeds the
// supported-formats listing shown by the CLI and the HTTP API, so the display
// list can never drift from what the resolver accepts.
package format
