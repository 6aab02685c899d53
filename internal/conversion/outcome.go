package conversion

import (
	"strings"
	"time"

	"docbridge/internal/format"
	"docbridge/internal/services"
)

// Request describes one conversion. Format hints are optional; a blank hint
// falls back to the path's extension.
type Request struct {
	InputPath    string `json:"input_path"`
	OutputPath   string `json:"output_path"`
	InputFormat  string `json:"input_format,omitempty"`
	OutputFormat string `json:"output_format,omitempty"`
}

// Outcome is the full record of a finished conversion.
type Outcome struct {
	ID           string
	Request      Request
	Success      bool
	InputFormat  format.Format
	OutputFormat format.Format
	Kind         services.Kind
	Error        string
	Message      string
	StartedAt    time.Time
	Duration     time.Duration

	err error
}

// Result is the caller-facing shape of an Outcome.
type Result struct {
	Success    bool   `json:"success"`
	OutputPath string `json:"output_path,omitempty"`
	Error      string `json:"error,omitempty"`
	Message    string `json:"message"`
}

// Result projects the outcome onto the {success, output_path, error, message}
// shape shared by the CLI's --json output and the HTTP API.
func (o Outcome) Result() Result {
	res := Result{Success: o.Success, Message: o.Message}
	if o.Success {
		res.OutputPath = o.Request.OutputPath
	} else {
		res.Error = o.Error
	}
	return res
}

// Err returns the classified error behind a failed outcome, or nil.
func (o Outcome) Err() error {
	return o.err
}

// Hint returns the guidance line for a failed outcome.
func (o Outcome) Hint() string {
	if o.Success {
		return ""
	}
	return KindHint(o.Kind)
}

// Tips returns troubleshooting steps for a failed outcome.
func (o Outcome) Tips() []string {
	if o.Success {
		return nil
	}
	return KindTips(o.Kind)
}

// KindHint is kind.Hint with the supported extensions filled in for format
// failures.
func KindHint(kind services.Kind) string {
	hint := kind.Hint()
	if kind == services.KindUnsupportedFormat {
		hint = strings.TrimSuffix(hint, ".") + " (" + format.SupportedExtensions() + ")."
	}
	return hint
}

// KindTips is kind.Tips with a leading tip naming the supported extensions
// for format and path failures.
func KindTips(kind services.Kind) []string {
	tips := kind.Tips()
	switch kind {
	case services.KindUnsupportedFormat:
		tips = append([]string{"Use only supported formats: " + format.SupportedExtensions()}, tips...)
	case services.KindInvalidPath:
		tips = append([]string{"Supported extensions: " + format.SupportedExtensions()}, tips...)
	}
	return tips
}
