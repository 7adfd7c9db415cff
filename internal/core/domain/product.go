package domain

import "time"

// SizeMap holds per-size quantities for one color. Quantities never go negative.
type SizeMap map[string]int

// EntryTypeDispatch marks a stock withdrawal. Collaborators may append
// their own entry types ("add", "adjust") through the audit log.
const EntryTypeDispatch = "dispatch"

// HistoryEntry is one stock-affecting event in a product's audit trail.
type HistoryEntry struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Color     string    `json:"color"`
	Size      string    `json:"size"`
	Qty       int       `json:"qty"`
	Remaining int       `json:"remaining"`
	Timestamp time.Time `json:"timestamp"`
}

// Product is the aggregate root: stock ledger, workflow status and audit
// history form one consistency unit, mutated in memory and persisted whole.
type Product struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Image     string             `json:"image,omitempty"`
	Colors    map[string]SizeMap `json:"colors"`
	Status    Status             `json:"status"`
	History   []HistoryEntry     `json:"history"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

// Clone returns a deep copy. Ledger cells and history are never shared
// between instances, so edits on a draft cannot leak into the original.
func (p *Product) Clone() *Product {
	clone := *p
	clone.Colors = make(map[string]SizeMap, len(p.Colors))
	for color, sizes := range p.Colors {
		cells := make(SizeMap, len(sizes))
		for size, qty := range sizes {
			cells[size] = qty
		}
		clone.Colors[color] = cells
	}
	clone.History = append([]HistoryEntry(nil), p.History...)
	return &clone
}

// Touch refreshes the aggregate's modification timestamp.
func (p *Product) Touch() {
	p.UpdatedAt = time.Now()
}
