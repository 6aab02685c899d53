// Package staging owns the temporary upload area that sits in front of the
// converter.
//
// Uploaded documents are validated (name, size, extension), given a safe file
// name, and written under <staging_dir>/temp. Cleanup removes the whole temp
// tree, CleanStale trims entries older than a cutoff, and List reports what is
// currently staged for the CLI and API. None of this is required for a
// conversion; the converter accepts any path on disk.
package staging
