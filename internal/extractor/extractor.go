// Package extractor pulls plain text out of uploaded documents for deep
// search indexing. Extraction is strictly best-effort: unsupported
// formats and broken payloads yield empty content, never an error.
package extractor

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"tgfilebot/backend/internal/models"
)

// Extracted content is capped so one huge document cannot bloat the
// index row.
const maxContentLen = 64 * 1024

// Extractor turns file bytes into indexable plain text.
type Extractor interface {
	Extract(fileType string, data []byte) string
}

// Plain extracts text from text-bearing formats that already are (or
// embed) valid UTF-8. Binary-only media and archives are skipped by
// type before any byte is inspected.
type Plain struct{}

func NewPlain() *Plain {
	return &Plain{}
}

// Extract returns the collapsed plain text of the payload, or "" when
// the type is not text-bearing or the payload is not readable text.
func (p *Plain) Extract(fileType string, data []byte) string {
	if !models.TextBearing(fileType) {
		return ""
	}
	if len(data) == 0 || !utf8.Valid(data) {
		return ""
	}

	var b strings.Builder
	b.Grow(len(data))
	for _, r := range string(data) {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			continue
		}
		b.WriteRune(r)
	}

	// Collapse runs of whitespace the way the indexer expects.
	text := strings.Join(strings.Fields(b.String()), " ")
	if len(text) > maxContentLen {
		text = text[:maxContentLen]
	}
	return text
}
