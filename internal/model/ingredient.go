package model

// Ingredient is a single stocked item the kitchen tracks. On_hand_qty is the
// physical count in the walk-in; is_out is a manual kitchen override that
// forces availability to zero regardless of on_hand_qty (e.g. spoiled batch
// pulled before the count is corrected).
//
// Fields:
//  ID                   – primary key.
//  Name                 – unique display name (e.g. "Tomato").
//  OnHandQty            – ingredients.on_hand_qty, must stay >= 0.
//  LowStockThresholdQty – ingredients.low_stock_threshold_qty.
//  IsOut                – ingredients.is_out, kitchen-set unavailability flag.
type Ingredient struct {
	ID                   uint64 // ingredients.id
	Name                 string // ingredients.name
	OnHandQty            int    // ingredients.on_hand_qty
	LowStockThresholdQty int    // ingredients.low_stock_threshold_qty
	IsOut                bool   // ingredients.is_out
}

// MenuItem is a sellable dish. Immutable in the core: the kitchen never
// edits price or composition through the reservation engine.
//
// Fields:
//  ID         – primary key.
//  Name       – unique display name.
//  PriceCents – price in integer cents.
//  Category   – optional grouping shown to customers.
//  Allergens  – optional free-text allergen note.
type MenuItem struct {
	ID         uint64  // menu_items.id
	Name       string  // menu_items.name
	PriceCents uint32  // menu_items.price_cents
	Category   *string // menu_items.category (nullable)
	Allergens  *string // menu_items.allergens (nullable)
}

// Recipe ties a MenuItem to the Ingredients it consumes and how much of
// each. At most one row per (menu_item_id, ingredient_id).
//
// Fields:
//  ID           – primary key.
//  MenuItemID   – recipes.menu_item_id.
//  IngredientID – recipes.ingredient_id.
//  QtyRequired  – recipes.qty_required, >= 1.
type Recipe struct {
	ID           uint64 // recipes.id
	MenuItemID   uint64 // recipes.menu_item_id
	IngredientID uint64 // recipes.ingredient_id
	QtyRequired  int    // recipes.qty_required
}
