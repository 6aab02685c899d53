package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// docxMagic is the zip local-file header every .docx starts with.
var docxMagic = []byte("PK\x03\x04")

// WriteMarkdown writes body to path, creating parent directories.
func WriteMarkdown(t testing.TB, path, body string) string {
	t.Helper()
	return writeFile(t, path, []byte(body))
}

// WriteDocx writes a file that sniffs as a zip container. It is not a valid
// Word document; only fake converters should read it.
func WriteDocx(t testing.TB, path string) string {
	t.Helper()
	data := append(append([]byte{}, docxMagic...), []byte("word/document.xml")...)
	return writeFile(t, path, data)
}

func writeFile(t testing.TB, path string, data []byte) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}
