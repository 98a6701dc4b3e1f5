package repository

import (
	"context"
	"database/sql"

	"github.com/jomkit/kitchensync/internal/model"
)

// RecipeRepo provides read access to the recipes table: the bill of
// ingredients for each menu item.
type RecipeRepo struct {
	DB *sql.DB
}

func NewRecipeRepo(db *sql.DB) *RecipeRepo { return &RecipeRepo{DB: db} }

// ListAll returns every recipe row ordered by (menu_item_id, ingredient_id).
func (r *RecipeRepo) ListAll(ctx context.Context) ([]model.Recipe, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, menu_item_id, ingredient_id, qty_required FROM recipes ORDER BY menu_item_id, ingredient_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Recipe
	for rows.Next() {
		var rc model.Recipe
		if err := rows.Scan(&rc.ID, &rc.MenuItemID, &rc.IngredientID, &rc.QtyRequired); err != nil {
			return nil, err
		}
		out = append(out, rc)
	}
	return out, rows.Err()
}

// ByMenuItemIDsTx returns recipes for the given menu item ids, within a
// transaction, ordered by (menu_item_id, ingredient_id) so downstream
// aggregation sees a deterministic order.
func (r *RecipeRepo) ByMenuItemIDsTx(ctx context.Context, tx *sql.Tx, menuItemIDs []uint64) ([]model.Recipe, error) {
	if len(menuItemIDs) == 0 {
		return nil, nil
	}
	placeholders := make([]string, len(menuItemIDs))
	args := make([]interface{}, len(menuItemIDs))
	for i, id := range menuItemIDs {
		placeholders[i] = "?"
		args[i] = id
	}
	q := `SELECT id, menu_item_id, ingredient_id, qty_required
	      FROM recipes
	      WHERE menu_item_id IN (` + inClause(placeholders) + `)
	      ORDER BY menu_item_id, ingredient_id`
	rows, err := tx.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Recipe
	for rows.Next() {
		var rc model.Recipe
		if err := rows.Scan(&rc.ID, &rc.MenuItemID, &rc.IngredientID, &rc.QtyRequired); err != nil {
			return nil, err
		}
		out = append(out, rc)
	}
	return out, rows.Err()
}
