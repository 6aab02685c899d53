// Package main hosts the docbridge CLI entrypoint and command graph.
//
// The Cobra command tree wraps the conversion orchestrator, upload staging,
// the conversion history store and the local HTTP API. Configuration loading
// and logger construction are centralized in commandContext so subcommands
// only deal with presentation.
package main
