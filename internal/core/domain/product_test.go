package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProduct_Clone_NoAliasing(t *testing.T) {
	now := time.Now()
	p := &Product{
		ID:   "p-1",
		Name: "Shirt",
		Colors: map[string]SizeMap{
			"Red": {"S": 10},
		},
		Status:    StatusPending,
		History:   []HistoryEntry{{ID: "h-1", Type: EntryTypeDispatch, Color: "Red", Size: "S", Qty: 1, Remaining: 10, Timestamp: now}},
		CreatedAt: now,
		UpdatedAt: now,
	}

	clone := p.Clone()
	require.Equal(t, p.ID, clone.ID)
	require.Equal(t, p.Colors, clone.Colors)
	require.Equal(t, p.History, clone.History)

	// mutating the draft must not leak into the original
	clone.Colors["Red"]["S"] = 3
	clone.Colors["Blue"] = SizeMap{"M": 1}
	clone.History[0].Qty = 99
	clone.History = append(clone.History, HistoryEntry{ID: "h-2"})

	assert.Equal(t, 10, p.Colors["Red"]["S"])
	_, ok := p.Colors["Blue"]
	assert.False(t, ok)
	assert.Equal(t, 1, p.History[0].Qty)
	assert.Len(t, p.History, 1)
}

func TestValidStatus(t *testing.T) {
	for _, s := range []Status{StatusPending, StatusReady, StatusRequested, StatusDispatched} {
		assert.True(t, ValidStatus(s))
	}
	assert.False(t, ValidStatus(Status("SHIPPED")))
	assert.False(t, ValidStatus(Status("")))
}

func TestValidRole(t *testing.T) {
	for _, r := range []Role{RoleAdmin, RoleSales, RoleManufacturing} {
		assert.True(t, ValidRole(r))
	}
	assert.False(t, ValidRole(Role("intern")))
}
