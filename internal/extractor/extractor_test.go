package extractor_test

import (
	"strings"
	"testing"

	"tgfilebot/backend/internal/extractor"
	"tgfilebot/backend/internal/models"

	"github.com/stretchr/testify/assert"
)

// TestExtract_CollapsesWhitespace verifies the indexable text is a
// single-spaced rendition of the document.
func TestExtract_CollapsesWhitespace(t *testing.T) {
	p := extractor.NewPlain()

	got := p.Extract(models.FileTypeOther, []byte("Linear\n\n  Algebra\t\tNotes  "))

	assert.Equal(t, "Linear Algebra Notes", got)
}

// TestExtract_SkipsNonTextBearingTypes: media and archives are never
// inspected.
func TestExtract_SkipsNonTextBearingTypes(t *testing.T) {
	p := extractor.NewPlain()

	assert.Empty(t, p.Extract(models.FileTypeMedia, []byte("jpeg bytes")))
	assert.Empty(t, p.Extract(models.FileTypeZip, []byte("PK...")))
}

// TestExtract_RejectsBinaryPayloads: invalid UTF-8 yields no content
// instead of garbage tokens in the index.
func TestExtract_RejectsBinaryPayloads(t *testing.T) {
	p := extractor.NewPlain()

	assert.Empty(t, p.Extract(models.FileTypePDF, []byte{0xff, 0xfe, 0x00, 0x41}))
	assert.Empty(t, p.Extract(models.FileTypePDF, nil))
}

// TestExtract_StripsControlCharacters keeps the text, drops the noise.
func TestExtract_StripsControlCharacters(t *testing.T) {
	p := extractor.NewPlain()

	got := p.Extract(models.FileTypeOther, []byte("abc\x00\x01def\nghi"))

	assert.Equal(t, "abcdef ghi", got)
}

// TestExtract_CapsLength bounds the stored content.
func TestExtract_CapsLength(t *testing.T) {
	p := extractor.NewPlain()
	huge := strings.Repeat("a", 200*1024)

	got := p.Extract(models.FileTypeOther, []byte(huge))

	assert.Len(t, got, 64*1024)
}
