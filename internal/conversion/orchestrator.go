package conversion

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"docbridge/internal/converter"
	"docbridge/internal/format"
	"docbridge/internal/logging"
	"docbridge/internal/services"
)

// Recorder observes finished conversions. A recording error is logged and
// never changes the outcome returned to the caller.
type Recorder interface {
	Record(ctx context.Context, outcome Outcome) error
}

// Option configures the orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the logger used for conversion events.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithRecorder attaches an outcome recorder.
func WithRecorder(recorder Recorder) Option {
	return func(o *Orchestrator) {
		o.recorder = recorder
	}
}

// WithTimeout bounds each conversion. Zero disables the timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(o *Orchestrator) {
		if timeout > 0 {
			o.timeout = timeout
		}
	}
}

// Orchestrator runs conversion requests end to end.
type Orchestrator struct {
	selector *converter.Selector
	logger   *slog.Logger
	recorder Recorder
	timeout  time.Duration
	now      func() time.Time
}

// New constructs an orchestrator whose strategies invoke runner.
func New(runner converter.Runner, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		selector: converter.NewSelector(runner),
		logger:   logging.NewNop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	o.logger = logging.NewComponentLogger(o.logger, "orchestrator")
	return o
}

// Run converts one document. It never returns an error; failures are
// reported through the Outcome.
func (o *Orchestrator) Run(ctx context.Context, req Request) Outcome {
	id := uuid.NewString()
	ctx = services.WithConversionID(ctx, id)
	ctx = services.WithOperation(ctx, "convert")
	logger := logging.WithContext(ctx, o.logger)

	outcome := Outcome{ID: id, Request: req, StartedAt: o.now()}
	logger.Info("conversion started",
		logging.String("input", req.InputPath),
		logging.String("output", req.OutputPath),
		logging.String(logging.FieldEventType, "conversion_started"),
	)

	if err := o.convert(ctx, req, &outcome, logger); err != nil {
		outcome.Kind = services.KindOf(err)
		outcome.err = err
		// A missing input fills in its own wording before returning.
		if outcome.Error == "" {
			outcome.Error = err.Error()
			outcome.Message = "Conversion failed: " + err.Error()
		}
	} else {
		outcome.Success = true
		outcome.Message = fmt.Sprintf("Successfully converted %s to %s", req.InputPath, req.OutputPath)
	}
	outcome.Duration = o.now().Sub(outcome.StartedAt)

	o.logOutcome(logger, outcome)
	o.record(ctx, logger, outcome)
	return outcome
}

func (o *Orchestrator) convert(ctx context.Context, req Request, outcome *Outcome, logger *slog.Logger) error {
	if _, err := os.Stat(req.InputPath); err != nil {
		outcome.Error = "Input file not found: " + req.InputPath
		outcome.Message = fmt.Sprintf("The file '%s' does not exist", req.InputPath)
		return services.FileNotFound(req.InputPath)
	}

	in, err := format.ResolveFor(req.InputPath, req.InputFormat)
	if err != nil {
		return err
	}
	outcome.InputFormat = in

	out, err := format.ResolveFor(req.OutputPath, req.OutputFormat)
	if err != nil {
		return err
	}
	outcome.OutputFormat = out

	strategy, err := o.selector.Select(in, out)
	if err != nil {
		return err
	}
	logger.Info("conversion strategy selected", logging.Args(append(
		logging.DecisionAttrs("conversion_pair", converter.Pair{From: in, To: out}.String(), resolutionSource(req)),
		logging.String(logging.FieldEventType, "conversion_strategy_selected"),
	)...)...)

	if err := converter.EnsureParentDir(req.OutputPath); err != nil {
		return err
	}

	runCtx := ctx
	if o.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}
	return strategy.Convert(runCtx, req.InputPath, req.OutputPath)
}

func (o *Orchestrator) logOutcome(logger *slog.Logger, outcome Outcome) {
	if outcome.Success {
		logger.Info("conversion completed",
			logging.String("output", outcome.Request.OutputPath),
			logging.String("pair", converter.Pair{From: outcome.InputFormat, To: outcome.OutputFormat}.String()),
			logging.Duration("duration", outcome.Duration),
			logging.String(logging.FieldEventType, "conversion_completed"),
		)
		return
	}
	attrs := []logging.Attr{
		logging.String("input", outcome.Request.InputPath),
		logging.String(logging.FieldErrorKind, string(outcome.Kind)),
		logging.Duration("duration", outcome.Duration),
		logging.String(logging.FieldErrorHint, KindHint(outcome.Kind)),
	}
	if outcome.err != nil {
		attrs = append(attrs, logging.Error(outcome.err))
	}
	logging.WarnWithContext(logger, "conversion failed", "conversion_failed", append(attrs,
		logging.String(logging.FieldImpact, "no output file was produced"),
	)...)
}

func (o *Orchestrator) record(ctx context.Context, logger *slog.Logger, outcome Outcome) {
	if o.recorder == nil {
		return
	}
	// The caller's deadline may already be spent; history is written regardless.
	recordCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := o.recorder.Record(recordCtx, outcome); err != nil {
		logging.WarnWithContext(logger, "conversion history not recorded", "history_record_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check paths.history_db permissions"),
			logging.String(logging.FieldImpact, "conversion is missing from history"),
		)
	}
}

func resolutionSource(req Request) string {
	in := strings.TrimSpace(req.InputFormat) != ""
	out := strings.TrimSpace(req.OutputFormat) != ""
	switch {
	case in && out:
		return "explicit formats"
	case in || out:
		return "explicit format and file extension"
	default:
		return "file extensions"
	}
}
