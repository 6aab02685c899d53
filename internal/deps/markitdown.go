package deps

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"docbridge/internal/services/markitdown"
)

const probeTimeout = 10 * time.Second

// ResolveMarkitdown returns the executable that a conversion will run.
//
// markitdown is normally installed with pipx or `pip install --user`, both of
// which place the entry point in ~/.local/bin. That directory is often missing
// from PATH for desktop sessions and services, so it is tried after PATH.
// When neither location has it the configured name is returned unchanged.
func ResolveMarkitdown(binary string) string {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = markitdown.DefaultBinary
	}
	if resolved, err := exec.LookPath(binary); err == nil {
		return resolved
	}
	if strings.ContainsRune(binary, filepath.Separator) {
		return binary
	}
	if candidate, ok := userBinCandidate(binary); ok {
		if info, err := os.Stat(candidate); err == nil && isExecutable(info) {
			return candidate
		}
	}
	return binary
}

// ProbeVersion runs `<binary> --version` and reports whether the converter is
// usable. The probe is advisory; conversions never depend on it.
func ProbeVersion(ctx context.Context, binary string, opts ...markitdown.Option) Status {
	client := markitdown.New(binary, opts...)
	status := Status{
		Name:        "markitdown",
		Command:     client.Binary(),
		Description: "Converts Markdown and Word documents",
	}

	probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	version, err := client.Version(probeCtx)
	if err != nil {
		status.Detail = err.Error()
		return status
	}
	status.Available = true
	status.Version = version
	return status
}

func userBinCandidate(name string) (string, bool) {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "", false
	}
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	return filepath.Join(home, ".local", "bin", name), true
}

func isExecutable(info os.FileInfo) bool {
	if info == nil {
		return false
	}
	if info.IsDir() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode().Perm()&0o111 != 0
}
