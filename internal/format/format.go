package format

import (
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"

	"docbridge/internal/services"
)

// Format identifies a supported document format. The zero value is not a
// valid format; values are only produced by the resolver or the constants.
type Format int

const (
	Markdown Format = iota + 1
	Word
)

// Descriptor describes a format for display and resolution.
type Descriptor struct {
	Format      Format   `json:"-"`
	Name        string   `json:"name"`
	Extension   string   `json:"extension"`
	Aliases     []string `json:"aliases,omitempty"`
	Description string   `json:"description"`
}

var table = []Descriptor{
	{
		Format:      Markdown,
		Name:        "Markdown",
		Extension:   "md",
		Aliases:     []string{"markdown"},
		Description: "Markdown text files",
	},
	{
		Format:      Word,
		Name:        "Word Document",
		Extension:   "docx",
		Description: "Microsoft Word documents",
	},
}

// Descriptors returns a copy of the format table in display order.
func Descriptors() []Descriptor {
	out := make([]Descriptor, len(table))
	for i, d := range table {
		out[i] = d
		out[i].Aliases = append([]string(nil), d.Aliases...)
	}
	return out
}

// SupportedExtensions lists every accepted extension and alias in table
// order, e.g. ".md, .markdown, or .docx".
func SupportedExtensions() string {
	var exts []string
	for _, d := range table {
		exts = append(exts, "."+d.Extension)
		for _, alias := range d.Aliases {
			exts = append(exts, "."+alias)
		}
	}
	switch len(exts) {
	case 0:
		return ""
	case 1:
		return exts[0]
	case 2:
		return exts[0] + " or " + exts[1]
	}
	return strings.Join(exts[:len(exts)-1], ", ") + ", or " + exts[len(exts)-1]
}

// All returns every supported format.
func All() []Format {
	out := make([]Format, 0, len(table))
	for _, d := range table {
		out = append(out, d.Format)
	}
	return out
}

func lookup(f Format) (Descriptor, bool) {
	for _, d := range table {
		if d.Format == f {
			return d, true
		}
	}
	return Descriptor{}, false
}

// Valid reports whether f is one of the supported formats.
func (f Format) Valid() bool {
	_, ok := lookup(f)
	return ok
}

// String returns the short format name ("Markdown", "Word").
func (f Format) String() string {
	switch f {
	case Markdown:
		return "Markdown"
	case Word:
		return "Word"
	default:
		return "Unknown"
	}
}

// Extension returns the canonical filename extension without the dot.
func (f Format) Extension() string {
	if d, ok := lookup(f); ok {
		return d.Extension
	}
	return ""
}

// MarshalText encodes the format as its short name.
func (f Format) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// Resolve maps a token to a Format. Matching is case-insensitive; the
// canonical extension and any alias are accepted.
func Resolve(token string) (Format, error) {
	folded := cases.Fold().String(token)
	for _, d := range table {
		if folded == d.Extension {
			return d.Format, nil
		}
		for _, alias := range d.Aliases {
			if folded == alias {
				return d.Format, nil
			}
		}
	}
	return 0, services.UnsupportedFormat(token)
}

// ResolveFor picks the format for one side of a conversion: the hint when it
// is non-blank, otherwise the extension of path.
func ResolveFor(path, hint string) (Format, error) {
	if hint = strings.TrimSpace(hint); hint != "" {
		return Resolve(hint)
	}
	ext, ok := Extension(path)
	if !ok {
		return 0, services.InvalidPath(path)
	}
	return Resolve(ext)
}

// Extension returns the filename extension of path without the dot. A leading
// dot alone (".md") does not count as an extension, nor does a trailing dot.
func Extension(path string) (string, bool) {
	base := filepath.Base(path)
	idx := strings.LastIndexByte(base, '.')
	if idx <= 0 || idx == len(base)-1 {
		return "", false
	}
	return base[idx+1:], true
}
