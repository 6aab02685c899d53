// Package preflight provides readiness checks for the external converter
// and the filesystem paths that docbridge depends on.
//
// These checks run in two contexts:
//   - The API server calls RunAll at startup and logs any failure so a broken
//     installation is visible before the first request arrives.
//   - The CLI "docbridge check" command renders every result as a status line.
//
// Checks never block conversions; a conversion reports its own failure.
package preflight
