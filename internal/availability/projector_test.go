package availability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jomkit/kitchensync/internal/model"
)

func TestIngredientAvailableQty_OutOfStockIsZero(t *testing.T) {
	ing := model.Ingredient{OnHandQty: 40, IsOut: true}
	assert.Equal(t, 0, IngredientAvailableQty(ing, 5))
}

func TestIngredientAvailableQty_SubtractsActiveReserved(t *testing.T) {
	ing := model.Ingredient{OnHandQty: 40, IsOut: false}
	assert.Equal(t, 30, IngredientAvailableQty(ing, 10))
}

func TestIngredientLowStock_AtOrBelowThreshold(t *testing.T) {
	ing := model.Ingredient{LowStockThresholdQty: 8}
	assert.True(t, IngredientLowStock(ing, 8))
	assert.True(t, IngredientLowStock(ing, 3))
	assert.False(t, IngredientLowStock(ing, 9))
}

func TestProjectIngredients_ComputesAllFields(t *testing.T) {
	snap := Snapshot{
		Ingredients: []model.Ingredient{
			{ID: 1, Name: "Bun", OnHandQty: 40, LowStockThresholdQty: 8},
			{ID: 2, Name: "Cheese", OnHandQty: 10, LowStockThresholdQty: 5, IsOut: true},
		},
		ActiveReservedByID: map[uint64]int{1: 35},
	}
	rows := ProjectIngredients(snap)
	require.Len(t, rows, 2)
	assert.Equal(t, 5, rows[0].AvailableQty)
	assert.True(t, rows[0].LowStock)
	assert.Equal(t, 0, rows[1].AvailableQty)
	assert.True(t, rows[1].IsOut)
}

func menuFixture() ([]model.MenuItem, []model.Recipe, map[uint64]model.Ingredient) {
	menuItems := []model.MenuItem{{ID: 100, Name: "Veggie Burger", PriceCents: 1199}}
	recipes := []model.Recipe{
		{ID: 1, MenuItemID: 100, IngredientID: 10, QtyRequired: 1}, // Bun
		{ID: 2, MenuItemID: 100, IngredientID: 11, QtyRequired: 2}, // Lettuce
		{ID: 3, MenuItemID: 100, IngredientID: 12, QtyRequired: 2}, // Tomato
	}
	ingredients := map[uint64]model.Ingredient{
		10: {ID: 10, Name: "Bun", OnHandQty: 40, LowStockThresholdQty: 8},
		11: {ID: 11, Name: "Lettuce", OnHandQty: 20, LowStockThresholdQty: 5},
		12: {ID: 12, Name: "Tomato", OnHandQty: 1, LowStockThresholdQty: 5},
	}
	return menuItems, recipes, ingredients
}

func TestProjectMenu_AvailableWhenAllIngredientsSuffice(t *testing.T) {
	menuItems, recipes, ingredients := menuFixture()
	ingredients[12] = model.Ingredient{ID: 12, Name: "Tomato", OnHandQty: 20, LowStockThresholdQty: 5}
	rows := ProjectMenu(menuItems, recipes, ingredients, nil)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].Available)
	assert.Nil(t, rows[0].Reason)
}

func TestProjectMenu_ReasonNamesFirstFailingIngredientByIDOrder(t *testing.T) {
	menuItems, recipes, ingredients := menuFixture()
	// Tomato (id 12) has only 1 on hand but needs 2 -> first failure by
	// ascending ingredient_id among those that actually fail.
	rows := ProjectMenu(menuItems, recipes, ingredients, nil)
	require.Len(t, rows, 1)
	assert.False(t, rows[0].Available)
	require.NotNil(t, rows[0].Reason)
	assert.Equal(t, "Insufficient Tomato", *rows[0].Reason)
}

func TestProjectMenu_LowStockIsOrAcrossIngredientsIndependentOfReason(t *testing.T) {
	menuItems, recipes, ingredients := menuFixture()
	// Bun (id 10) is low stock but still sufficient; Tomato (id 12) fails.
	// low_stock must reflect Bun's low-stock state even though Bun isn't
	// the reported reason.
	ingredients[10] = model.Ingredient{ID: 10, Name: "Bun", OnHandQty: 5, LowStockThresholdQty: 8}
	rows := ProjectMenu(menuItems, recipes, ingredients, nil)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].LowStock)
	require.NotNil(t, rows[0].Reason)
	assert.Equal(t, "Insufficient Tomato", *rows[0].Reason)
}

func TestRequiredByIngredient_AggregatesAcrossMenuItems(t *testing.T) {
	recipes := []model.Recipe{
		{MenuItemID: 1, IngredientID: 10, QtyRequired: 1},
		{MenuItemID: 2, IngredientID: 10, QtyRequired: 1},
		{MenuItemID: 2, IngredientID: 11, QtyRequired: 2},
	}
	required := RequiredByIngredient(recipes, map[uint64]int{1: 2, 2: 3})
	assert.Equal(t, 2+3, required[10])
	assert.Equal(t, 6, required[11])
}

func TestInsufficientIngredients_OnlyReportsShortfallsInAscendingOrder(t *testing.T) {
	ingredientsByID := map[uint64]model.Ingredient{
		1: {ID: 1, Name: "Bun", OnHandQty: 10},
		2: {ID: 2, Name: "Patty", OnHandQty: 1},
	}
	required := map[uint64]int{1: 5, 2: 5}
	out := InsufficientIngredients(ingredientsByID, nil, required)
	require.Len(t, out, 1)
	assert.Equal(t, uint64(2), out[0].IngredientID)
	assert.Equal(t, 5, out[0].RequiredQty)
	assert.Equal(t, 1, out[0].AvailableQty)
}
