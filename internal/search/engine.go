// Package search implements the full-text search pipeline: query
// normalization, the ranked lookup against the file index, the audit
// trail and result pagination.
package search

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"tgfilebot/backend/internal/models"

	"github.com/rs/zerolog"
)

// Search modes. Normal matches file metadata; deep additionally matches
// the extracted document content.
const (
	ModeNormal = "normal"
	ModeDeep   = "deep"
)

// ErrIndexUnavailable is returned when the index cannot be queried.
// Callers show "search temporarily unavailable" rather than treating it
// as an empty result set.
var ErrIndexUnavailable = errors.New("search index unavailable")

// ErrEmptyQuery is returned for queries that are blank after trimming.
var ErrEmptyQuery = errors.New("empty search query")

// Index is the ranked lookup the engine runs against. Matching is
// token-contains on every call path: all tokens must appear as
// substrings, ranked by field weight.
type Index interface {
	SearchFileIDs(ctx context.Context, tokens []string, deep bool) ([]uint, error)
}

// Auditor records one row per search call, found or not.
type Auditor interface {
	RecordSearch(q *models.SearchQuery) error
}

// Engine is the search engine adapter.
type Engine struct {
	index Index
	audit Auditor
	log   zerolog.Logger
}

func NewEngine(index Index, audit Auditor, log zerolog.Logger) *Engine {
	return &Engine{index: index, audit: audit, log: log}
}

// NormalizeMode maps unknown or empty mode strings to normal.
func NormalizeMode(mode string) string {
	if mode == ModeDeep {
		return ModeDeep
	}
	return ModeNormal
}

// Tokenize splits a query into lowercase match tokens.
func Tokenize(query string) []string {
	return strings.Fields(strings.ToLower(strings.TrimSpace(query)))
}

// Search runs one query for the given user and returns ranked file ids,
// best match first. One audit row is written whatever the outcome; a
// failing audit write is logged but does not fail the search.
func (e *Engine) Search(ctx context.Context, user *models.User, query, mode string) ([]uint, error) {
	tokens := Tokenize(query)
	if len(tokens) == 0 {
		return nil, ErrEmptyQuery
	}
	mode = NormalizeMode(mode)

	ids, err := e.index.SearchFileIDs(ctx, tokens, mode == ModeDeep)

	audit := &models.SearchQuery{
		UserID:       user.ID,
		QueryText:    query,
		FoundResults: err == nil && len(ids) > 0,
		IsDeepSearch: mode == ModeDeep,
	}
	if auditErr := e.audit.RecordSearch(audit); auditErr != nil {
		e.log.Error().Err(auditErr).
			Uint("user", user.ID).
			Str("query", query).
			Msg("failed to record search audit row")
	}

	if err != nil {
		e.log.Error().Err(err).Str("query", query).Str("mode", mode).Msg("index query failed")
		return nil, fmt.Errorf("%w: %v", ErrIndexUnavailable, err)
	}
	return ids, nil
}
