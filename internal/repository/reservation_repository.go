package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/jomkit/kitchensync/internal/model"
)

// ReservationRepo provides CRUD operations for reservations and their
// owned items/ingredient holds. All mutating methods take an explicit
// transaction; the caller commits or rolls back.
type ReservationRepo struct {
	DB *sql.DB
}

func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{DB: db} }

// CreateTx inserts a new reservation row and populates its generated id,
// created_at, updated_at on the passed struct.
func (r *ReservationRepo) CreateTx(ctx context.Context, tx *sql.Tx, res *model.Reservation) error {
	result, err := tx.ExecContext(ctx,
		`INSERT INTO reservations (user_id, status, expires_at) VALUES (?, ?, ?)`,
		res.UserID, res.Status, res.ExpiresAt)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)
	return tx.QueryRowContext(ctx,
		`SELECT created_at, updated_at FROM reservations WHERE id = ?`, res.ID,
	).Scan(&res.CreatedAt, &res.UpdatedAt)
}

// LockReservationForUpdateTx locks a single reservation row and returns its
// current state.
func (r *ReservationRepo) LockReservationForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Reservation, error) {
	var res model.Reservation
	err := tx.QueryRowContext(ctx,
		`SELECT id, user_id, status, created_at, expires_at, updated_at FROM reservations WHERE id = ? FOR UPDATE`,
		id,
	).Scan(&res.ID, &res.UserID, &res.Status, &res.CreatedAt, &res.ExpiresAt, &res.UpdatedAt)
	return res, err
}

// GetByID fetches a reservation without locking.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (model.Reservation, error) {
	var res model.Reservation
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, user_id, status, created_at, expires_at, updated_at FROM reservations WHERE id = ?`, id,
	).Scan(&res.ID, &res.UserID, &res.Status, &res.CreatedAt, &res.ExpiresAt, &res.UpdatedAt)
	return res, err
}

// UpdateStatusTx flips a reservation's status and bumps updated_at.
func (r *ReservationRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, id uint64, status string) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE reservations SET status = ?, updated_at = UTC_TIMESTAMP() WHERE id = ?`, status, id)
	return err
}

// UpdateExpiresAtTx changes the hold deadline, used on Update when the TTL
// is refreshed.
func (r *ReservationRepo) UpdateExpiresAtTx(ctx context.Context, tx *sql.Tx, id uint64, expiresAt time.Time) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE reservations SET expires_at = ?, updated_at = UTC_TIMESTAMP() WHERE id = ?`, expiresAt, id)
	return err
}

// ReplaceItemsTx deletes all existing reservation_items for a reservation
// and inserts the replacement set. Called on both Create and Update since
// the engine always rewrites the order wholesale.
func (r *ReservationRepo) ReplaceItemsTx(ctx context.Context, tx *sql.Tx, reservationID uint64, items []model.ReservationItem) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM reservation_items WHERE reservation_id = ?`, reservationID); err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	q := `INSERT INTO reservation_items (reservation_id, menu_item_id, qty, notes) VALUES `
	args := make([]interface{}, 0, len(items)*4)
	for i, it := range items {
		if i > 0 {
			q += ","
		}
		q += "(?, ?, ?, ?)"
		args = append(args, reservationID, it.MenuItemID, it.Qty, it.Notes)
	}
	_, err := tx.ExecContext(ctx, q, args...)
	return err
}

// ReplaceIngredientsTx deletes all existing reservation_ingredients for a
// reservation and inserts the replacement set, derived from the new items
// via recipe expansion.
func (r *ReservationRepo) ReplaceIngredientsTx(ctx context.Context, tx *sql.Tx, reservationID uint64, holds []model.ReservationIngredient) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM reservation_ingredients WHERE reservation_id = ?`, reservationID); err != nil {
		return err
	}
	if len(holds) == 0 {
		return nil
	}
	q := `INSERT INTO reservation_ingredients (reservation_id, ingredient_id, qty_reserved) VALUES `
	args := make([]interface{}, 0, len(holds)*3)
	for i, h := range holds {
		if i > 0 {
			q += ","
		}
		q += "(?, ?, ?)"
		args = append(args, reservationID, h.IngredientID, h.QtyReserved)
	}
	_, err := tx.ExecContext(ctx, q, args...)
	return err
}

// ItemsByReservationIDTx returns the order lines for a reservation.
func (r *ReservationRepo) ItemsByReservationIDTx(ctx context.Context, tx *sql.Tx, reservationID uint64) ([]model.ReservationItem, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT id, reservation_id, menu_item_id, qty, notes FROM reservation_items WHERE reservation_id = ? ORDER BY menu_item_id`,
		reservationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.ReservationItem
	for rows.Next() {
		var it model.ReservationItem
		var notes sql.NullString
		if err := rows.Scan(&it.ID, &it.ReservationID, &it.MenuItemID, &it.Qty, &notes); err != nil {
			return nil, err
		}
		if notes.Valid {
			v := notes.String
			it.Notes = &v
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// ItemsByReservationID is the non-transactional counterpart, used by the
// commit handler to build the reservation.committed audit event.
func (r *ReservationRepo) ItemsByReservationID(ctx context.Context, reservationID uint64) ([]model.ReservationItem, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, reservation_id, menu_item_id, qty, notes FROM reservation_items WHERE reservation_id = ? ORDER BY menu_item_id`,
		reservationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.ReservationItem
	for rows.Next() {
		var it model.ReservationItem
		var notes sql.NullString
		if err := rows.Scan(&it.ID, &it.ReservationID, &it.MenuItemID, &it.Qty, &notes); err != nil {
			return nil, err
		}
		if notes.Valid {
			v := notes.String
			it.Notes = &v
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// ListByUser returns all reservations belonging to a user, newest first.
func (r *ReservationRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Reservation, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, user_id, status, created_at, expires_at, updated_at FROM reservations WHERE user_id = ? ORDER BY created_at DESC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Reservation
	for rows.Next() {
		var res model.Reservation
		if err := rows.Scan(&res.ID, &res.UserID, &res.Status, &res.CreatedAt, &res.ExpiresAt, &res.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

// LockExpiredActiveTx locks (and returns) active reservations whose
// expires_at has already passed, for the sweeper to flip to expired. limit
// bounds the batch size per sweep tick.
func (r *ReservationRepo) LockExpiredActiveTx(ctx context.Context, tx *sql.Tx, limit int) ([]model.Reservation, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT id, user_id, status, created_at, expires_at, updated_at
		 FROM reservations
		 WHERE status = ? AND expires_at < UTC_TIMESTAMP()
		 ORDER BY id
		 LIMIT ?
		 FOR UPDATE`,
		model.ReservationActive, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Reservation
	for rows.Next() {
		var res model.Reservation
		if err := rows.Scan(&res.ID, &res.UserID, &res.Status, &res.CreatedAt, &res.ExpiresAt, &res.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}
