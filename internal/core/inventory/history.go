package inventory

import (
	"fmt"

	"github.com/rl1809/stockroom/internal/core/domain"
)

// AppendHistory adds an entry to the end of the audit trail.
func AppendHistory(p *domain.Product, entry domain.HistoryEntry) {
	p.History = append(p.History, entry)
	p.Touch()
}

// DeleteHistoryEntry removes the entry with the given id and returns it
// so the caller can hold it in an UndoBuffer. Deleting an entry edits
// the audit trail only; the stock decrement it recorded stays applied.
func DeleteHistoryEntry(p *domain.Product, entryID string) (domain.HistoryEntry, error) {
	for i, entry := range p.History {
		if entry.ID == entryID {
			p.History = append(p.History[:i], p.History[i+1:]...)
			p.Touch()
			return entry, nil
		}
	}
	return domain.HistoryEntry{}, fmt.Errorf("history entry %s: %w", entryID, domain.ErrNotFound)
}

// UndoBuffer holds at most one deleted history entry. A second deletion
// before undo replaces the buffered entry; last deleted wins. The buffer
// belongs to the caller, not to the aggregate.
type UndoBuffer struct {
	entry *domain.HistoryEntry
}

// Hold replaces the buffered entry with a freshly deleted one.
func (b *UndoBuffer) Hold(entry domain.HistoryEntry) {
	held := entry
	b.entry = &held
}

// Undo re-appends the buffered entry to the end of the history and
// empties the buffer. With nothing buffered it is a no-op and reports
// false; undoing twice in a row never errors.
func (b *UndoBuffer) Undo(p *domain.Product) bool {
	if b.entry == nil {
		return false
	}
	p.History = append(p.History, *b.entry)
	b.entry = nil
	p.Touch()
	return true
}
