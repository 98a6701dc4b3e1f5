package repository

import (
	"context"
	"database/sql"

	"github.com/jomkit/kitchensync/internal/model"
)

// MenuItemRepo provides read access to the menu_items table. Menu items
// are immutable through the reservation engine, so no update/delete
// methods are exposed here.
type MenuItemRepo struct {
	DB *sql.DB
}

func NewMenuItemRepo(db *sql.DB) *MenuItemRepo { return &MenuItemRepo{DB: db} }

func (r *MenuItemRepo) ListAll(ctx context.Context) ([]model.MenuItem, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, name, price_cents, category, allergens FROM menu_items ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.MenuItem
	for rows.Next() {
		var mi model.MenuItem
		var category, allergens sql.NullString
		if err := rows.Scan(&mi.ID, &mi.Name, &mi.PriceCents, &category, &allergens); err != nil {
			return nil, err
		}
		if category.Valid {
			v := category.String
			mi.Category = &v
		}
		if allergens.Valid {
			v := allergens.String
			mi.Allergens = &v
		}
		out = append(out, mi)
	}
	return out, rows.Err()
}

func (r *MenuItemRepo) GetByID(ctx context.Context, id uint64) (model.MenuItem, error) {
	var mi model.MenuItem
	var category, allergens sql.NullString
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, name, price_cents, category, allergens FROM menu_items WHERE id = ?`, id,
	).Scan(&mi.ID, &mi.Name, &mi.PriceCents, &category, &allergens)
	if err != nil {
		return mi, err
	}
	if category.Valid {
		v := category.String
		mi.Category = &v
	}
	if allergens.Valid {
		v := allergens.String
		mi.Allergens = &v
	}
	return mi, nil
}

// GetByIDsTx fetches menu items by id within a transaction, preserving no
// particular order; callers that need ordering re-sort the result.
func (r *MenuItemRepo) GetByIDsTx(ctx context.Context, tx *sql.Tx, ids []uint64) (map[uint64]model.MenuItem, error) {
	out := make(map[uint64]model.MenuItem, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	placeholders := make([]string, len(ids))
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}
	q := `SELECT id, name, price_cents, category, allergens FROM menu_items WHERE id IN (` + inClause(placeholders) + `)`
	rows, err := tx.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var mi model.MenuItem
		var category, allergens sql.NullString
		if err := rows.Scan(&mi.ID, &mi.Name, &mi.PriceCents, &category, &allergens); err != nil {
			return nil, err
		}
		if category.Valid {
			v := category.String
			mi.Category = &v
		}
		if allergens.Valid {
			v := allergens.String
			mi.Allergens = &v
		}
		out[mi.ID] = mi
	}
	return out, rows.Err()
}
