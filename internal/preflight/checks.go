package preflight

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"docbridge/internal/config"
	"docbridge/internal/deps"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckConverter probes the configured markitdown executable.
func CheckConverter(ctx context.Context, cfg *config.Config) Result {
	const name = "markitdown"

	status := ConverterStatus(ctx, cfg)
	if !status.Available {
		detail := status.Detail
		if detail == "" {
			detail = "unavailable"
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %s)", status.Command, detail)}
	}
	version := status.Version
	if version == "" {
		version = "version unknown"
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%s)", status.Command, version)}
}

// CheckSystemDeps evaluates the executables docbridge needs on PATH.
// Both the API server and the CLI check command use this to avoid
// duplicating the requirements list.
func CheckSystemDeps(cfg *config.Config) []deps.Status {
	requirements := []deps.Requirement{
		{
			Name:        "markitdown",
			Command:     deps.ResolveMarkitdown(cfg.MarkitdownBinary()),
			Description: "Required for every conversion",
		},
	}
	return deps.CheckBinaries(requirements)
}
