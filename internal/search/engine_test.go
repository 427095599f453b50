package search_test

import (
	"context"
	"errors"
	"testing"

	"tgfilebot/backend/internal/models"
	"tgfilebot/backend/internal/search"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockIndex is a testify mock for the ranked lookup.
type MockIndex struct {
	mock.Mock
}

func (m *MockIndex) SearchFileIDs(ctx context.Context, tokens []string, deep bool) ([]uint, error) {
	args := m.Called(ctx, tokens, deep)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uint), args.Error(1)
}

// MockAuditor is a testify mock for the audit trail.
type MockAuditor struct {
	mock.Mock
}

func (m *MockAuditor) RecordSearch(q *models.SearchQuery) error {
	args := m.Called(q)
	return args.Error(0)
}

func testUser() *models.User {
	return &models.User{ID: 7, TelegramID: 111, BotID: 1}
}

// TestSearch_TokenizesAndRecordsAudit verifies the query is lowercased,
// split into tokens and that one audit row is written for a hit.
func TestSearch_TokenizesAndRecordsAudit(t *testing.T) {
	// Arrange
	index := new(MockIndex)
	audit := new(MockAuditor)
	engine := search.NewEngine(index, audit, zerolog.Nop())

	index.On("SearchFileIDs", mock.Anything, []string{"linear", "algebra"}, false).
		Return([]uint{3, 1, 2}, nil).Once()
	audit.On("RecordSearch", mock.MatchedBy(func(q *models.SearchQuery) bool {
		return q.UserID == 7 && q.QueryText == "  Linear ALGEBRA " && q.FoundResults && !q.IsDeepSearch
	})).Return(nil).Once()

	// Act
	ids, err := engine.Search(context.Background(), testUser(), "  Linear ALGEBRA ", "normal")

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, []uint{3, 1, 2}, ids, "ranking order from the index must be preserved")
	index.AssertExpectations(t)
	audit.AssertExpectations(t)
}

// TestSearch_DeepModeReachesIndex verifies the deep flag propagates.
func TestSearch_DeepModeReachesIndex(t *testing.T) {
	index := new(MockIndex)
	audit := new(MockAuditor)
	engine := search.NewEngine(index, audit, zerolog.Nop())

	index.On("SearchFileIDs", mock.Anything, []string{"physics"}, true).Return([]uint{}, nil).Once()
	audit.On("RecordSearch", mock.MatchedBy(func(q *models.SearchQuery) bool {
		return q.IsDeepSearch && !q.FoundResults
	})).Return(nil).Once()

	ids, err := engine.Search(context.Background(), testUser(), "physics", "deep")

	assert.NoError(t, err)
	assert.Empty(t, ids)
	index.AssertExpectations(t)
	audit.AssertExpectations(t)
}

// TestSearch_EmptyQuery is rejected before touching the index.
func TestSearch_EmptyQuery(t *testing.T) {
	index := new(MockIndex)
	audit := new(MockAuditor)
	engine := search.NewEngine(index, audit, zerolog.Nop())

	_, err := engine.Search(context.Background(), testUser(), "   ", "normal")

	assert.ErrorIs(t, err, search.ErrEmptyQuery)
	index.AssertNotCalled(t, "SearchFileIDs", mock.Anything, mock.Anything, mock.Anything)
}

// TestSearch_IndexErrorIsDistinguishable verifies that an index failure
// maps to ErrIndexUnavailable and is still audited as a miss.
func TestSearch_IndexErrorIsDistinguishable(t *testing.T) {
	index := new(MockIndex)
	audit := new(MockAuditor)
	engine := search.NewEngine(index, audit, zerolog.Nop())

	index.On("SearchFileIDs", mock.Anything, mock.Anything, false).
		Return(nil, errors.New("connection refused")).Once()
	audit.On("RecordSearch", mock.MatchedBy(func(q *models.SearchQuery) bool {
		return !q.FoundResults
	})).Return(nil).Once()

	_, err := engine.Search(context.Background(), testUser(), "calculus", "normal")

	assert.ErrorIs(t, err, search.ErrIndexUnavailable)
	audit.AssertExpectations(t)
}

// TestSearch_AuditFailureDoesNotFailSearch keeps results flowing when
// the audit write breaks.
func TestSearch_AuditFailureDoesNotFailSearch(t *testing.T) {
	index := new(MockIndex)
	audit := new(MockAuditor)
	engine := search.NewEngine(index, audit, zerolog.Nop())

	index.On("SearchFileIDs", mock.Anything, mock.Anything, false).Return([]uint{5}, nil).Once()
	audit.On("RecordSearch", mock.Anything).Return(errors.New("insert failed")).Once()

	ids, err := engine.Search(context.Background(), testUser(), "history", "normal")

	assert.NoError(t, err)
	assert.Equal(t, []uint{5}, ids)
}

// TestNormalizeMode folds unknown strings to normal.
func TestNormalizeMode(t *testing.T) {
	assert.Equal(t, search.ModeDeep, search.NormalizeMode("deep"))
	assert.Equal(t, search.ModeNormal, search.NormalizeMode("normal"))
	assert.Equal(t, search.ModeNormal, search.NormalizeMode(""))
	assert.Equal(t, search.ModeNormal, search.NormalizeMode("fuzzy"))
}
