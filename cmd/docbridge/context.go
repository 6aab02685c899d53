package main

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"docbridge/internal/config"
	"docbridge/internal/conversion"
	"docbridge/internal/deps"
	"docbridge/internal/history"
	"docbridge/internal/logging"
	"docbridge/internal/services/markitdown"
	"docbridge/internal/staging"
)

type commandContext struct {
	configFlag   *string
	logLevelFlag *string
	jsonFlag     *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag, logLevelFlag *string, jsonFlag *bool) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
		jsonFlag:     jsonFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if level := c.logLevel(); level != "" {
			cfg.Logging.Level = level
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// JSONMode reports whether --json was requested.
func (c *commandContext) JSONMode() bool {
	return c.jsonFlag != nil && *c.jsonFlag
}

func (c *commandContext) logLevel() string {
	if c.logLevelFlag == nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(*c.logLevelFlag))
}

// fileLogger logs to the docbridge log file only; stdout and stderr belong to
// command output for one-shot commands.
func (c *commandContext) fileLogger(cfg *config.Config) (*slog.Logger, error) {
	if cfg == nil || strings.TrimSpace(cfg.Paths.LogDir) == "" {
		return logging.NewNop(), nil
	}
	logger, err := logging.New(logging.Options{
		Level:            cfg.Logging.Level,
		Format:           "json",
		OutputPaths:      []string{filepath.Join(cfg.Paths.LogDir, "docbridge.log")},
		ErrorOutputPaths: []string{filepath.Join(cfg.Paths.LogDir, "docbridge.log")},
	})
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return logger, nil
}

// openHistory returns the history store, or nil when history is disabled or
// cannot be opened. Conversions still run without it.
func (c *commandContext) openHistory(cfg *config.Config, logger *slog.Logger) *history.Store {
	if !cfg.History.Enabled {
		return nil
	}
	store, err := history.Open(cfg)
	if err != nil {
		logger.Warn("history unavailable; conversions will not be recorded",
			logging.Error(err),
			logging.String(logging.FieldEventType, "history_unavailable"),
			logging.String(logging.FieldErrorHint, "check paths.history_db permissions"),
		)
		return nil
	}
	return store
}

// newOrchestrator wires the markitdown client, timeout and, when store is
// non-nil, the history recorder from config.
func (c *commandContext) newOrchestrator(cfg *config.Config, logger *slog.Logger, store *history.Store) *conversion.Orchestrator {
	client := markitdown.New(deps.ResolveMarkitdown(cfg.MarkitdownBinary()))
	opts := []conversion.Option{
		conversion.WithLogger(logger),
		conversion.WithTimeout(cfg.ConversionTimeout()),
	}
	if store != nil {
		opts = append(opts, conversion.WithRecorder(store))
	}
	return conversion.New(client, opts...)
}

func (c *commandContext) newStager(cfg *config.Config, logger *slog.Logger) *staging.Stager {
	return staging.NewFromConfig(cfg, logger)
}

func (c *commandContext) withHistory(fn func(*history.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	if !cfg.History.Enabled {
		return fmt.Errorf("history is disabled (set [history] enabled = true)")
	}
	store, err := history.Open(cfg)
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer store.Close()
	return fn(store)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
