package staging

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"docbridge/internal/config"
	"docbridge/internal/fileutil"
	"docbridge/internal/format"
	"docbridge/internal/logging"
	"docbridge/internal/services"
)

// TempDirName is the directory under the staging root that holds uploads.
const TempDirName = "temp"

// DefaultMaxBytes caps a single upload when no limit is configured.
const DefaultMaxBytes int64 = 50 * 1024 * 1024

// ErrInvalidUpload marks uploads rejected before anything is written.
var ErrInvalidUpload = errors.New("invalid upload")

// Upload is a named document received from a caller.
type Upload struct {
	Name string `json:"file_name"`
	Data []byte `json:"file_data"`
}

func (u Upload) validate(maxBytes int64) error {
	return validation.ValidateStruct(&u,
		validation.Field(&u.Name,
			validation.Required.Error("file name is required"),
			validation.Length(1, 255),
			validation.By(func(value any) error {
				if hasTraversal(value.(string)) {
					return validation.NewError("staging.upload.name_unsafe",
						"file names cannot contain path separators or relative path indicators")
				}
				return nil
			}),
		),
		validation.Field(&u.Data, validation.By(func(value any) error {
			if int64(len(value.([]byte))) > maxBytes {
				return validation.NewError("staging.upload.too_large",
					fmt.Sprintf("file size exceeds maximum limit of %s", humanize.IBytes(uint64(maxBytes))))
			}
			return nil
		})),
	)
}

// Stager writes uploads into the temp area below a staging root.
type Stager struct {
	dir      string
	maxBytes int64
	logger   *slog.Logger
}

// New returns a Stager rooted at <stagingDir>/temp. A non-positive maxBytes
// selects DefaultMaxBytes.
func New(stagingDir string, maxBytes int64, logger *slog.Logger) *Stager {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Stager{
		dir:      filepath.Join(stagingDir, TempDirName),
		maxBytes: maxBytes,
		logger:   logging.NewComponentLogger(logger, "staging"),
	}
}

// NewFromConfig builds a Stager from the paths and upload limits in cfg.
func NewFromConfig(cfg *config.Config, logger *slog.Logger) *Stager {
	return New(cfg.Paths.StagingDir, cfg.Uploads.MaxBytes, logger)
}

// Dir returns the temp directory uploads are written to.
func (s *Stager) Dir() string {
	return s.dir
}

// MaxBytes returns the per-upload size limit.
func (s *Stager) MaxBytes() int64 {
	return s.maxBytes
}

// Save validates and writes an upload, returning the path of the staged file.
// A name that does not resolve to a supported format is rejected with the
// resolver's error.
func (s *Stager) Save(name string, data []byte) (string, error) {
	upload := Upload{Name: strings.TrimSpace(name), Data: data}
	if err := upload.validate(s.maxBytes); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidUpload, err)
	}
	kind, err := format.ResolveFor(upload.Name, "")
	if err != nil {
		return "", err
	}

	safeName := SanitizeFileName(upload.Name)
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", services.NewError(services.KindIO, "", err)
	}
	path := filepath.Join(s.dir, safeName)
	if err := fileutil.WriteFileAtomic(path, upload.Data, 0o644); err != nil {
		return "", services.NewError(services.KindIO, "", err)
	}

	if detected, unexpected := unexpectedContentType(kind, upload.Data); unexpected {
		logging.WarnWithContext(s.logger, "upload content does not look like its extension", "upload_content_mismatch",
			logging.String("path", path),
			logging.String("format", kind.String()),
			logging.String("detected", detected),
			logging.String(logging.FieldErrorHint, "check the file was exported correctly"),
			logging.String(logging.FieldImpact, "markitdown may reject the file"),
		)
	}
	s.logger.Info("upload staged",
		logging.String("path", path),
		logging.String("format", kind.String()),
		logging.String("size", humanize.IBytes(uint64(len(upload.Data)))),
		logging.String(logging.FieldEventType, "upload_staged"),
	)
	return path, nil
}

// Cleanup removes the temp directory and everything in it. A missing
// directory is not an error.
func (s *Stager) Cleanup() error {
	if _, err := os.Stat(s.dir); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return services.NewError(services.KindIO, "", err)
	}
	if err := os.RemoveAll(s.dir); err != nil {
		return services.NewError(services.KindIO, "", err)
	}
	s.logger.Info("staging area cleaned",
		logging.String("path", s.dir),
		logging.String(logging.FieldEventType, "staging_cleanup"),
	)
	return nil
}

// unexpectedContentType sniffs the first bytes of data. Word documents are zip
// containers and Markdown is text; anything else is worth a warning. Empty
// data is never flagged.
func unexpectedContentType(kind format.Format, data []byte) (string, bool) {
	if len(data) == 0 {
		return "", false
	}
	detected := http.DetectContentType(data)
	switch kind {
	case format.Word:
		return detected, detected != "application/zip"
	case format.Markdown:
		return detected, !strings.HasPrefix(detected, "text/")
	default:
		return detected, false
	}
}
