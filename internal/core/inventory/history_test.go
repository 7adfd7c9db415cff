package inventory

import (
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rl1809/stockroom/internal/core/domain"
)

func productWithHistory() *domain.Product {
	p := newProduct()
	base := time.Now().Add(-time.Minute)
	p.History = []domain.HistoryEntry{
		{ID: "h-1", Type: domain.EntryTypeDispatch, Color: "Red", Size: "S", Qty: 2, Remaining: 8, Timestamp: base},
		{ID: "h-2", Type: domain.EntryTypeDispatch, Color: "Red", Size: "M", Qty: 1, Remaining: 4, Timestamp: base.Add(time.Second)},
		{ID: "h-3", Type: domain.EntryTypeDispatch, Color: "Blue", Size: "L", Qty: 1, Remaining: 1, Timestamp: base.Add(2 * time.Second)},
	}
	return p
}

func TestAppendHistory(t *testing.T) {
	p := productWithHistory()
	entry := domain.HistoryEntry{ID: "h-4", Type: "adjust", Color: "Red", Size: "S", Qty: 3, Remaining: 11, Timestamp: time.Now()}

	AppendHistory(p, entry)

	require.Len(t, p.History, 4)
	assert.Equal(t, entry, p.History[3])
}

func TestDeleteHistoryEntry(t *testing.T) {
	p := productWithHistory()

	removed, err := DeleteHistoryEntry(p, "h-2")
	require.NoError(t, err)
	assert.Equal(t, "h-2", removed.ID)
	assert.Equal(t, 1, removed.Qty)

	require.Len(t, p.History, 2)
	assert.Equal(t, "h-1", p.History[0].ID)
	assert.Equal(t, "h-3", p.History[1].ID)

	// stock is NOT re-credited by an audit-trail edit
	assert.Equal(t, 10, p.Colors["Red"]["S"])
}

func TestDeleteHistoryEntry_NotFound(t *testing.T) {
	p := productWithHistory()
	_, err := DeleteHistoryEntry(p, "h-99")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.Len(t, p.History, 3)
}

func TestUndoBuffer_RestoresSameEntries(t *testing.T) {
	p := productWithHistory()
	before := append([]domain.HistoryEntry(nil), p.History...)

	var buf UndoBuffer
	removed, err := DeleteHistoryEntry(p, "h-1")
	require.NoError(t, err)
	buf.Hold(removed)

	assert.True(t, buf.Undo(p))

	// same multiset of entries; the restored one moved to the end
	require.Len(t, p.History, 3)
	assert.Equal(t, "h-1", p.History[2].ID)
	assert.ElementsMatch(t, before, p.History)
}

func TestUndoBuffer_DoubleUndoIsNoop(t *testing.T) {
	p := productWithHistory()

	var buf UndoBuffer
	removed, err := DeleteHistoryEntry(p, "h-3")
	require.NoError(t, err)
	buf.Hold(removed)

	assert.True(t, buf.Undo(p))
	lenAfter := len(p.History)

	assert.False(t, buf.Undo(p), "second undo must be a no-op")
	assert.Len(t, p.History, lenAfter)
}

func TestUndoBuffer_LastDeletedWins(t *testing.T) {
	p := productWithHistory()

	var buf UndoBuffer
	first, err := DeleteHistoryEntry(p, "h-1")
	require.NoError(t, err)
	buf.Hold(first)

	second, err := DeleteHistoryEntry(p, "h-2")
	require.NoError(t, err)
	buf.Hold(second)

	require.True(t, buf.Undo(p))

	ids := make([]string, 0, len(p.History))
	for _, entry := range p.History {
		ids = append(ids, entry.ID)
	}
	sort.Strings(ids)
	assert.Equal(t, []string{"h-2", "h-3"}, ids, "h-1 is gone for good, h-2 restored")
}

func TestUndoBuffer_EmptyUndo(t *testing.T) {
	p := productWithHistory()
	var buf UndoBuffer
	assert.False(t, buf.Undo(p))
	assert.Len(t, p.History, 3)
}
