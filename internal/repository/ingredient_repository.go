package repository

import (
	"context"
	"database/sql"
	"sort"
	"strings"

	"github.com/jomkit/kitchensync/internal/model"
)

// IngredientRepo provides CRUD and locking operations over the ingredients
// table.
type IngredientRepo struct {
	DB *sql.DB
}

func NewIngredientRepo(db *sql.DB) *IngredientRepo { return &IngredientRepo{DB: db} }

// ListAll returns every ingredient ordered by id.
func (r *IngredientRepo) ListAll(ctx context.Context) ([]model.Ingredient, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, name, on_hand_qty, low_stock_threshold_qty, is_out FROM ingredients ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Ingredient
	for rows.Next() {
		var ing model.Ingredient
		if err := rows.Scan(&ing.ID, &ing.Name, &ing.OnHandQty, &ing.LowStockThresholdQty, &ing.IsOut); err != nil {
			return nil, err
		}
		out = append(out, ing)
	}
	return out, rows.Err()
}

// GetByID fetches a single ingredient without locking.
func (r *IngredientRepo) GetByID(ctx context.Context, id uint64) (model.Ingredient, error) {
	var ing model.Ingredient
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, name, on_hand_qty, low_stock_threshold_qty, is_out FROM ingredients WHERE id = ?`, id,
	).Scan(&ing.ID, &ing.Name, &ing.OnHandQty, &ing.LowStockThresholdQty, &ing.IsOut)
	return ing, err
}

// LockIngredientsAscendingTx locks the given ingredient ids with
// SELECT ... FOR UPDATE, always in ascending id order regardless of the
// order ids were requested in. This is the deadlock-avoidance discipline:
// two transactions that both touch overlapping ingredient sets always
// acquire row locks in the same order.
func (r *IngredientRepo) LockIngredientsAscendingTx(ctx context.Context, tx *sql.Tx, ids []uint64) ([]model.Ingredient, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	sorted := append([]uint64(nil), ids...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	placeholders := make([]string, len(sorted))
	args := make([]interface{}, len(sorted))
	for i, id := range sorted {
		placeholders[i] = "?"
		args[i] = id
	}
	q := `SELECT id, name, on_hand_qty, low_stock_threshold_qty, is_out
	      FROM ingredients
	      WHERE id IN (` + strings.Join(placeholders, ",") + `)
	      ORDER BY id
	      FOR UPDATE`
	rows, err := tx.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Ingredient
	for rows.Next() {
		var ing model.Ingredient
		if err := rows.Scan(&ing.ID, &ing.Name, &ing.OnHandQty, &ing.LowStockThresholdQty, &ing.IsOut); err != nil {
			return nil, err
		}
		out = append(out, ing)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ActiveReservedQtyTx sums qty_reserved across active, non-expired
// reservations for each of the given ingredient ids. excludeReservationID,
// when non-zero, omits that reservation's own rows (used by Update to
// recompute availability net of the reservation being edited).
func (r *IngredientRepo) ActiveReservedQtyTx(ctx context.Context, tx *sql.Tx, ingredientIDs []uint64, excludeReservationID uint64) (map[uint64]int, error) {
	out := make(map[uint64]int, len(ingredientIDs))
	if len(ingredientIDs) == 0 {
		return out, nil
	}
	placeholders := make([]string, len(ingredientIDs))
	args := make([]interface{}, 0, len(ingredientIDs)+2)
	for i, id := range ingredientIDs {
		placeholders[i] = "?"
		args = append(args, id)
	}
	q := `SELECT ri.ingredient_id, SUM(ri.qty_reserved)
	      FROM reservation_ingredients ri
	      JOIN reservations r ON r.id = ri.reservation_id
	      WHERE r.status = ? AND r.expires_at > UTC_TIMESTAMP() AND ri.ingredient_id IN (` + strings.Join(placeholders, ",") + `)`
	args = append([]interface{}{model.ReservationActive}, args...)
	if excludeReservationID != 0 {
		q += ` AND r.id <> ?`
		args = append(args, excludeReservationID)
	}
	q += ` GROUP BY ri.ingredient_id`
	rows, err := tx.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var id uint64
		var sum int
		if err := rows.Scan(&id, &sum); err != nil {
			return nil, err
		}
		out[id] = sum
	}
	return out, rows.Err()
}

// ActiveReservedQtyAll sums qty_reserved across all active reservations,
// grouped by ingredient id, without a transaction. Used to build a
// read-only availability snapshot for GET /ingredients and GET /menu.
func (r *IngredientRepo) ActiveReservedQtyAll(ctx context.Context) (map[uint64]int, error) {
	out := make(map[uint64]int)
	rows, err := r.DB.QueryContext(ctx,
		`SELECT ingredient_id, SUM(qty_reserved)
		 FROM reservation_ingredients ri
		 JOIN reservations r ON r.id = ri.reservation_id
		 WHERE r.status = ? AND r.expires_at > UTC_TIMESTAMP()
		 GROUP BY ingredient_id`, model.ReservationActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var id uint64
		var sum int
		if err := rows.Scan(&id, &sum); err != nil {
			return nil, err
		}
		out[id] = sum
	}
	return out, rows.Err()
}

// UpdateStockTx applies a kitchen-initiated on_hand_qty/is_out edit.
func (r *IngredientRepo) UpdateStockTx(ctx context.Context, tx *sql.Tx, id uint64, onHandQty int, isOut bool) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE ingredients SET on_hand_qty = ?, is_out = ? WHERE id = ?`, onHandQty, isOut, id)
	return err
}
