// Package availability computes projected quantities and menu availability
// from a point-in-time snapshot. Every function here is pure: no database
// handle, no clock read beyond what the caller passes in. Callers
// (internal/reservation, internal/handler) build the snapshot under
// whatever locking discipline the operation requires, then project.
package availability

import (
	"fmt"
	"sort"

	"github.com/jomkit/kitchensync/internal/model"
)

// Snapshot is the input to ProjectIngredients: a set of ingredients and the
// active-reserved quantity already aggregated per ingredient id. Menu
// projection takes its menu items and recipes as separate arguments.
type Snapshot struct {
	Ingredients        []model.Ingredient
	ActiveReservedByID map[uint64]int
}

// IngredientAvailableQty returns the currently available quantity for an
// ingredient: zero if it's marked out, otherwise on-hand minus the active
// hold total.
func IngredientAvailableQty(ing model.Ingredient, activeReservedQty int) int {
	if ing.IsOut {
		return 0
	}
	return ing.OnHandQty - activeReservedQty
}

// IngredientLowStock reports whether the available quantity has dropped to
// or below the ingredient's configured threshold.
func IngredientLowStock(ing model.Ingredient, availableQty int) bool {
	return availableQty <= ing.LowStockThresholdQty
}

// IngredientRow is the stable wire shape for an ingredient listing.
type IngredientRow struct {
	ID                   uint64 `json:"id"`
	Name                 string `json:"name"`
	OnHandQty            int    `json:"on_hand_qty"`
	ActiveReservedQty     int    `json:"active_reserved_qty"`
	AvailableQty         int    `json:"available_qty"`
	LowStockThresholdQty int    `json:"low_stock_threshold_qty"`
	IsOut                bool   `json:"is_out"`
	LowStock             bool   `json:"low_stock"`
}

// ProjectIngredients builds the listing rows for every ingredient in the
// snapshot, in the order given.
func ProjectIngredients(snap Snapshot) []IngredientRow {
	rows := make([]IngredientRow, 0, len(snap.Ingredients))
	for _, ing := range snap.Ingredients {
		reserved := snap.ActiveReservedByID[ing.ID]
		avail := IngredientAvailableQty(ing, reserved)
		rows = append(rows, IngredientRow{
			ID:                   ing.ID,
			Name:                 ing.Name,
			OnHandQty:            ing.OnHandQty,
			ActiveReservedQty:     reserved,
			AvailableQty:         avail,
			LowStockThresholdQty: ing.LowStockThresholdQty,
			IsOut:                ing.IsOut,
			LowStock:             IngredientLowStock(ing, avail),
		})
	}
	return rows
}

// MenuRow is the stable wire shape for a menu listing.
type MenuRow struct {
	ID         uint64  `json:"id"`
	Name       string  `json:"name"`
	PriceCents uint32  `json:"price_cents"`
	Category   *string `json:"category"`
	Allergens  *string `json:"allergens"`
	Available  bool    `json:"available"`
	LowStock   bool    `json:"low_stock"`
	Reason     *string `json:"reason"`
}

// ProjectMenu builds the listing rows for every menu item, deriving
// availability and the deterministic failing-ingredient reason from the
// recipes that reference it and the ingredient snapshot.
//
// recipes need not be pre-sorted; ProjectMenu sorts a copy per menu item by
// (ingredient_id, recipe_id) before evaluating, so the first failure found
// always names the lowest-id ingredient.
func ProjectMenu(menuItems []model.MenuItem, recipes []model.Recipe, ingredientsByID map[uint64]model.Ingredient, activeReservedByID map[uint64]int) []MenuRow {
	byMenuItem := make(map[uint64][]model.Recipe)
	for _, rc := range recipes {
		byMenuItem[rc.MenuItemID] = append(byMenuItem[rc.MenuItemID], rc)
	}

	rows := make([]MenuRow, 0, len(menuItems))
	for _, mi := range menuItems {
		ordered := append([]model.Recipe(nil), byMenuItem[mi.ID]...)
		sort.Slice(ordered, func(i, j int) bool {
			if ordered[i].IngredientID != ordered[j].IngredientID {
				return ordered[i].IngredientID < ordered[j].IngredientID
			}
			return ordered[i].ID < ordered[j].ID
		})

		available := true
		lowStock := false
		var reason *string

		for _, rc := range ordered {
			ing, ok := ingredientsByID[rc.IngredientID]
			if !ok {
				continue
			}
			reserved := activeReservedByID[ing.ID]
			avail := IngredientAvailableQty(ing, reserved)
			if IngredientLowStock(ing, avail) {
				lowStock = true
			}
			if avail < rc.QtyRequired && reason == nil {
				available = false
				msg := fmt.Sprintf("Insufficient %s", ing.Name)
				reason = &msg
			}
		}

		rows = append(rows, MenuRow{
			ID:         mi.ID,
			Name:       mi.Name,
			PriceCents: mi.PriceCents,
			Category:   mi.Category,
			Allergens:  mi.Allergens,
			Available:  available,
			LowStock:   lowStock,
			Reason:     reason,
		})
	}
	return rows
}

// RequiredByIngredient aggregates Recipe.QtyRequired x requested item qty
// across a normalized item list, keyed by ingredient id.
func RequiredByIngredient(recipes []model.Recipe, qtyByMenuItem map[uint64]int) map[uint64]int {
	out := make(map[uint64]int)
	for _, rc := range recipes {
		qty, ok := qtyByMenuItem[rc.MenuItemID]
		if !ok {
			continue
		}
		out[rc.IngredientID] += rc.QtyRequired * qty
	}
	return out
}

// InsufficientEntry is one failing ingredient in a create/update rejection,
// matching spec.md's insufficient-ingredients envelope.
type InsufficientEntry struct {
	IngredientID   uint64 `json:"ingredient_id"`
	IngredientName string `json:"ingredient_name"`
	RequiredQty    int    `json:"required_qty"`
	AvailableQty   int    `json:"available_qty"`
	IsOut          bool   `json:"is_out"`
	Message        string `json:"message"`
}

// InsufficientIngredients evaluates each required ingredient against its
// projected availability and returns the failing entries in ascending
// ingredient-id order. An empty result means the plan can be fulfilled.
func InsufficientIngredients(ingredientsByID map[uint64]model.Ingredient, activeReservedByID map[uint64]int, required map[uint64]int) []InsufficientEntry {
	ids := make([]uint64, 0, len(required))
	for id := range required {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var out []InsufficientEntry
	for _, id := range ids {
		ing := ingredientsByID[id]
		reserved := activeReservedByID[id]
		avail := IngredientAvailableQty(ing, reserved)
		need := required[id]
		if avail < need {
			out = append(out, InsufficientEntry{
				IngredientID:   id,
				IngredientName: ing.Name,
				RequiredQty:    need,
				AvailableQty:   avail,
				IsOut:          ing.IsOut,
				Message:        fmt.Sprintf("Insufficient %s", ing.Name),
			})
		}
	}
	return out
}
