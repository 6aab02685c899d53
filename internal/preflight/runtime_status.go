package preflight

import (
	"context"

	"docbridge/internal/config"
	"docbridge/internal/deps"
	"docbridge/internal/services/markitdown"
)

// ConverterStatus resolves the configured converter and runs its version probe.
func ConverterStatus(ctx context.Context, cfg *config.Config, opts ...markitdown.Option) deps.Status {
	binary := markitdown.DefaultBinary
	if cfg != nil {
		binary = cfg.MarkitdownBinary()
	}
	return deps.ProbeVersion(ctx, deps.ResolveMarkitdown(binary), opts...)
}
