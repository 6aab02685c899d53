// Package history persists one row per finished conversion in SQLite.
//
// The Store implements conversion.Recorder, so the orchestrator can hand it
// every outcome; the CLI "history" command and GET /api/history read the rows
// back newest first. History is an observer only: a write failure is logged by
// the orchestrator and never changes the result a caller sees.
package history
