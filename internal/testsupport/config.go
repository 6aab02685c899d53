package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"docbridge/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.StagingDir = filepath.Join(base, "staging")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.HistoryDB = filepath.Join(base, "state", "history.db")
	cfgVal.API.Bind = "127.0.0.1:0"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	if err := builder.cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return builder.cfg
}

// WithMarkitdownScript writes a shell script standing in for markitdown and
// points the config at it. The script receives markitdown's arguments
// unchanged: "$1" is the input, "$3" the target format, and "$5" the output.
func WithMarkitdownScript(script string) ConfigOption {
	return func(b *configBuilder) {
		binDir := filepath.Join(b.baseDir, "bin")
		if err := os.MkdirAll(binDir, 0o755); err != nil {
			b.t.Fatalf("mkdir bin dir: %v", err)
		}
		target := filepath.Join(binDir, "markitdown")
		if err := os.WriteFile(target, []byte(script), 0o755); err != nil {
			b.t.Fatalf("write markitdown stub: %v", err)
		}
		b.cfg.Converter.Binary = target
	}
}

// WithHistoryDisabled turns off the history store.
func WithHistoryDisabled() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.History.Enabled = false
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StagingDir)
}

// ConvertingScript is a markitdown stand-in that writes a fixed document to
// the requested output path and reports its version.
const ConvertingScript = `#!/bin/sh
if [ "$1" = "--version" ]; then
  echo "markitdown 0.1.2"
  exit 0
fi
printf 'converted %s as %s\n' "$1" "$3" > "$5"
`

// FailingScript is a markitdown stand-in that always exits non-zero.
const FailingScript = `#!/bin/sh
echo "conversion exploded" >&2
exit 3
`
