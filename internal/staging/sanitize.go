package staging

import (
	"path/filepath"
	"regexp"
	"strings"

	"docbridge/internal/format"
)

var (
	forbiddenChars = regexp.MustCompile(`[<>:"/\\|?*]`)
	trailingExt    = regexp.MustCompile(`\.[^/.]+$`)
)

// SanitizeFileName replaces characters that are unsafe in file names on any
// platform, collapses ".." sequences, and refuses a leading dot so staged files
// are never hidden.
func SanitizeFileName(name string) string {
	name = forbiddenChars.ReplaceAllString(name, "_")
	name = strings.ReplaceAll(name, "..", "_")
	if strings.HasPrefix(name, ".") {
		name = "_" + name[1:]
	}
	return strings.TrimSpace(name)
}

// OutputName derives a safe output file name for inputName converted to target:
// the last extension is dropped, the base is sanitized, and the target's
// canonical extension is appended.
func OutputName(inputName string, target format.Format) string {
	base := trailingExt.ReplaceAllString(inputName, "")
	return SanitizeFileName(base) + "." + target.Extension()
}

// OutputPathFor joins dir with OutputName(inputName, target).
func OutputPathFor(dir, inputName string, target format.Format) string {
	return filepath.Join(dir, OutputName(inputName, target))
}

func hasTraversal(name string) bool {
	return strings.Contains(name, "..") || strings.ContainsAny(name, `/\`)
}
