// Package conversion is the entry point for converting a document.
//
// Orchestrator.Run resolves the input and output formats (explicit hints win,
// otherwise file extensions), selects the strategy for that pair, makes sure
// the destination directory exists, runs the strategy, and folds whatever
// happened into an Outcome. Run never returns an error: every failure becomes
// an Outcome carrying the error kind and a user-presentable message, which the
// CLI prints and the HTTP API serializes via Outcome.Result.
//
// Outcomes can be observed through a Recorder (the history store) without
// affecting what the caller receives.
package conversion
