package server

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"docbridge/internal/conversion"
)

// convertRequest mirrors conversion.Request on the wire.
type convertRequest struct {
	InputPath    string `json:"input_path"`
	OutputPath   string `json:"output_path"`
	InputFormat  string `json:"input_format,omitempty"`
	OutputFormat string `json:"output_format,omitempty"`
}

// Validate ensures both paths are present before the orchestrator runs.
func (r convertRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.InputPath, validation.Required.Error("input_path is required")),
		validation.Field(&r.OutputPath, validation.Required.Error("output_path is required")),
		validation.Field(&r.InputFormat, validation.Length(0, 32)),
		validation.Field(&r.OutputFormat, validation.Length(0, 32)),
	)
}

func (r convertRequest) toRequest() conversion.Request {
	return conversion.Request{
		InputPath:    r.InputPath,
		OutputPath:   r.OutputPath,
		InputFormat:  r.InputFormat,
		OutputFormat: r.OutputFormat,
	}
}

// uploadRequest carries a document to stage. FileData is base64 in JSON.
type uploadRequest struct {
	FileName string `json:"file_name"`
	FileData []byte `json:"file_data"`
}

// uploadResponse names the staged file.
type uploadResponse struct {
	Path string `json:"path"`
}

// toolResponse reports markitdown availability.
type toolResponse struct {
	Available bool   `json:"available"`
	Command   string `json:"command"`
	Version   string `json:"version,omitempty"`
	Detail    string `json:"detail,omitempty"`
}

// errorResponse is the body of every non-2xx response.
type errorResponse struct {
	Error string   `json:"error"`
	Kind  string   `json:"kind,omitempty"`
	Hint  string   `json:"hint,omitempty"`
	Tips  []string `json:"tips,omitempty"`
}

// clearResponse reports how many history entries were removed.
type clearResponse struct {
	Removed int64 `json:"removed"`
}
