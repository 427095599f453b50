package search_test

import (
	"testing"

	"tgfilebot/backend/internal/search"

	"github.com/stretchr/testify/assert"
)

func rankedIDs(n int) []uint {
	ids := make([]uint, n)
	for i := range ids {
		ids[i] = uint(i + 1)
	}
	return ids
}

// TestPaginate_FirstAndLastPage verifies the fixed page size and the
// page flags at both ends.
func TestPaginate_FirstAndLastPage(t *testing.T) {
	ids := rankedIDs(25)

	first := search.Paginate(ids, 1)
	assert.Equal(t, []uint{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, first.Items)
	assert.Equal(t, 1, first.Page)
	assert.Equal(t, 3, first.Pages)
	assert.Equal(t, 25, first.Total)
	assert.True(t, first.HasNext)
	assert.False(t, first.HasPrev)

	last := search.Paginate(ids, 3)
	assert.Equal(t, []uint{21, 22, 23, 24, 25}, last.Items)
	assert.False(t, last.HasNext)
	assert.True(t, last.HasPrev)
}

// TestPaginate_ClampsOutOfRange verifies that stale page numbers land on
// the nearest valid page instead of erroring.
func TestPaginate_ClampsOutOfRange(t *testing.T) {
	ids := rankedIDs(12)

	// Beyond the end, e.g. a "next" tap after the result set shrank.
	over := search.Paginate(ids, 99)
	assert.Equal(t, 2, over.Page)
	assert.Equal(t, []uint{11, 12}, over.Items)

	// Below the start.
	under := search.Paginate(ids, 0)
	assert.Equal(t, 1, under.Page)

	negative := search.Paginate(ids, -5)
	assert.Equal(t, 1, negative.Page)
}

// TestPaginate_EmptyResults still reports one valid page.
func TestPaginate_EmptyResults(t *testing.T) {
	view := search.Paginate(nil, 1)
	assert.Empty(t, view.Items)
	assert.Equal(t, 1, view.Page)
	assert.Equal(t, 1, view.Pages)
	assert.Equal(t, 0, view.Total)
	assert.False(t, view.HasNext)
	assert.False(t, view.HasPrev)
}

// TestPaginate_ExactMultiple has no ragged last page.
func TestPaginate_ExactMultiple(t *testing.T) {
	view := search.Paginate(rankedIDs(20), 2)
	assert.Equal(t, 2, view.Pages)
	assert.Len(t, view.Items, 10)
	assert.False(t, view.HasNext)
}
