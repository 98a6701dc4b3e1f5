package reservation

import (
	"sort"

	"github.com/jomkit/kitchensync/internal/apierror"
)

// ItemInput is one requested line before normalization: whatever the HTTP
// layer decoded from the request body.
type ItemInput struct {
	MenuItemID uint64
	Qty        int
	Notes      *string
}

// NormalizeItems validates and merges a raw item list (spec.md §4.3.1).
// Duplicate menu_item_id entries are merged by summing Qty; if more than
// one duplicate supplied Notes, the last non-nil one wins. The result is
// sorted ascending by MenuItemID.
func NormalizeItems(items []ItemInput) ([]ItemInput, *apierror.Error) {
	if len(items) == 0 {
		return nil, apierror.New(apierror.Validation, "items must be a non-empty list")
	}

	order := make([]uint64, 0, len(items))
	merged := make(map[uint64]*ItemInput, len(items))
	for _, it := range items {
		if it.Qty < 1 {
			return nil, apierror.New(apierror.Validation, "qty must be >= 1")
		}
		if existing, ok := merged[it.MenuItemID]; ok {
			existing.Qty += it.Qty
			if it.Notes != nil {
				existing.Notes = it.Notes
			}
			continue
		}
		order = append(order, it.MenuItemID)
		copyIt := it
		merged[it.MenuItemID] = &copyIt
	}

	out := make([]ItemInput, 0, len(merged))
	for _, id := range order {
		out = append(out, *merged[id])
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MenuItemID < out[j].MenuItemID })
	return out, nil
}
