// Package markitdown mediates access to the markitdown CLI that performs the
// actual document transformation.
//
// It normalizes command invocation (`<binary> <input> --format <target> -o
// <output>`), captures exit status, stdout, and stderr instead of streaming
// them, and hides process execution behind the Executor interface so tests
// can substitute a fake tool without the real binary installed.
//
// Prefer this package over ad-hoc exec.Command usage when interacting with
// markitdown so argument construction and outcome capture remain consistent.
package markitdown
