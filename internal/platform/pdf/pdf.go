// Package pdf extracts plain text from uploaded PDF files using
// github.com/ledongthuc/pdf. Scanned documents without a text layer yield
// empty text rather than an error.
package pdf

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Extractor reads the text layer of PDF files.
type Extractor struct{}

// ExtractText returns the text of every page separated by newlines and the
// page count. Pages that fail to decode are skipped.
func (Extractor) ExtractText(r io.ReaderAt, size int64) (string, int, error) {
	reader, err := pdf.NewReader(r, size)
	if err != nil {
		return "", 0, fmt.Errorf("failed to open pdf: %w", err)
	}

	var b strings.Builder
	pages := reader.NumPage()
	for i := 1; i <= pages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		b.WriteString(content)
		b.WriteString("\n")
	}

	return normalizeText(b.String()), pages, nil
}

// ExtractFile is ExtractText over a file on disk.
func (e Extractor) ExtractFile(path string) (string, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", 0, err
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return "", 0, err
	}
	return e.ExtractText(f, info.Size())
}

// normalizeText trims lines, unifies line endings and collapses runs of
// blank lines into one.
func normalizeText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	var buf bytes.Buffer
	blank := 0
	for _, line := range strings.Split(s, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			blank++
			if blank > 1 {
				continue
			}
			buf.WriteString("\n")
			continue
		}
		blank = 0
		buf.WriteString(trimmed)
		buf.WriteString("\n")
	}
	return strings.TrimSpace(buf.String())
}

var unsafeNameChars = regexp.MustCompile(`[^\p{L}\p{N}._-]+`)

// SafeFileName reduces an uploaded file name to its base name with every run
// of characters outside letters, digits, dot, dash and underscore replaced by
// an underscore. An empty result becomes "document.pdf".
func SafeFileName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, `\`, "/"))
	name = unsafeNameChars.ReplaceAllString(name, "_")
	name = strings.Trim(name, "._")
	if name == "" {
		return "document.pdf"
	}
	return name
}
