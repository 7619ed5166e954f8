package pdf

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeText(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		in       string
		expected string
	}{
		{name: "empty", in: "", expected: ""},
		{name: "whitespace only", in: " \r\n\t\n", expected: ""},
		{name: "trims lines", in: "  Cell: unit  \n  DNA - code ", expected: "Cell: unit\nDNA - code"},
		{name: "collapses blank runs", in: "a\n\n\n\nb\r\n\r\nc", expected: "a\n\nb\n\nc"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, normalizeText(tc.in))
		})
	}
}

func TestSafeFileName(t *testing.T) {
	t.Parallel()

	testCases := map[string]string{
		"notes.pdf":             "notes.pdf",
		"../../etc/passwd":      "passwd",
		`C:\Users\me\bio 1.pdf`: "bio_1.pdf",
		"Élettan jegyzet.pdf":   "Élettan_jegyzet.pdf",
		"...":                   "document.pdf",
		"":                      "document.pdf",
		"a;rm -rf.pdf":          "a_rm_-rf.pdf",
	}
	for in, want := range testCases {
		assert.Equal(t, want, SafeFileName(in), "input %q", in)
	}
}

func TestExtractTextRejectsGarbage(t *testing.T) {
	t.Parallel()
	data := []byte("this is not a pdf")

	_, _, err := Extractor{}.ExtractText(bytes.NewReader(data), int64(len(data)))
	assert.Error(t, err)
}

func TestExtractFileMissing(t *testing.T) {
	t.Parallel()
	_, _, err := Extractor{}.ExtractFile(filepath.Join(t.TempDir(), "missing.pdf"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestExtractFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "broken.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4\n%%EOF"), 0o600))

	_, _, err := Extractor{}.ExtractFile(path)
	assert.Error(t, err)
}
