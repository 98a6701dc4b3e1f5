// Package reservation implements the reservation lifecycle engine (C3):
// create, update, commit and release, each as a single transaction that
// locks ingredient and reservation rows, re-projects availability under
// those locks, and only then mutates. Grounded on the teacher's
// begin/lock/check/mutate/commit transaction shape.
package reservation

import (
	"context"
	"database/sql"
	"time"

	"github.com/jomkit/kitchensync/internal/apierror"
	"github.com/jomkit/kitchensync/internal/availability"
	"github.com/jomkit/kitchensync/internal/model"
	"github.com/jomkit/kitchensync/internal/notifier"
	"github.com/jomkit/kitchensync/internal/repository"
	"github.com/jomkit/kitchensync/internal/runtimeparams"
)

// Engine wires together the entity store, the runtime parameter registry
// and the change notifier into the four transactional reservation
// operations (create, update, commit, release).
type Engine struct {
	DB           *sql.DB
	Ingredients  *repository.IngredientRepo
	MenuItems    *repository.MenuItemRepo
	Recipes      *repository.RecipeRepo
	Reservations *repository.ReservationRepo
	Params       *runtimeparams.Registry
	Notifier     *notifier.Hub
}

// Result is the stable response shape for create/update.
type Result struct {
	ID        uint64    `json:"id"`
	Status    string    `json:"status"`
	ExpiresAt time.Time `json:"expires_at"`
}

// StatusResult is the stable response shape for commit/release.
type StatusResult struct {
	ID     uint64 `json:"id"`
	Status string `json:"status"`
}

// InsufficientError carries the 409 INSUFFICIENT_INGREDIENTS payload.
type InsufficientError struct {
	Entries []availability.InsufficientEntry
}

func (e *InsufficientError) Error() string { return "insufficient ingredients" }

// planReservation loads menu items and recipes for a normalized item list,
// validating every referenced menu item exists, and returns the aggregated
// ingredient requirement.
func (e *Engine) planReservation(ctx context.Context, tx *sql.Tx, items []ItemInput) (map[uint64]model.MenuItem, map[uint64]int, *apierror.Error) {
	menuItemIDs := make([]uint64, len(items))
	qtyByMenuItem := make(map[uint64]int, len(items))
	for i, it := range items {
		menuItemIDs[i] = it.MenuItemID
		qtyByMenuItem[it.MenuItemID] = it.Qty
	}

	menuItemsByID, err := e.MenuItems.GetByIDsTx(ctx, tx, menuItemIDs)
	if err != nil {
		return nil, nil, apierror.New(apierror.Internal, err.Error())
	}
	var missing []uint64
	for _, id := range menuItemIDs {
		if _, ok := menuItemsByID[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return nil, nil, apierror.New(apierror.Validation, "unknown menu_item_id")
	}

	recipes, err := e.Recipes.ByMenuItemIDsTx(ctx, tx, menuItemIDs)
	if err != nil {
		return nil, nil, apierror.New(apierror.Internal, err.Error())
	}

	required := availability.RequiredByIngredient(recipes, qtyByMenuItem)
	return menuItemsByID, required, nil
}

// checkAvailabilityAndBuildHolds locks the required ingredient ids ascending,
// aggregates active-reserved quantity (excluding excludeReservationID when
// non-zero), and either returns the insufficient list or the ingredient
// holds to persist.
func (e *Engine) checkAvailabilityAndBuildHolds(ctx context.Context, tx *sql.Tx, required map[uint64]int, excludeReservationID uint64) ([]model.ReservationIngredient, []availability.InsufficientEntry, error) {
	ids := make([]uint64, 0, len(required))
	for id := range required {
		ids = append(ids, id)
	}
	ingredients, err := e.Ingredients.LockIngredientsAscendingTx(ctx, tx, ids)
	if err != nil {
		return nil, nil, err
	}
	ingredientsByID := make(map[uint64]model.Ingredient, len(ingredients))
	for _, ing := range ingredients {
		ingredientsByID[ing.ID] = ing
	}

	activeReserved, err := e.Ingredients.ActiveReservedQtyTx(ctx, tx, ids, excludeReservationID)
	if err != nil {
		return nil, nil, err
	}

	insufficient := availability.InsufficientIngredients(ingredientsByID, activeReserved, required)
	if len(insufficient) > 0 {
		return nil, insufficient, nil
	}

	holds := make([]model.ReservationIngredient, 0, len(required))
	for id, qty := range required {
		holds = append(holds, model.ReservationIngredient{IngredientID: id, QtyReserved: qty})
	}
	return holds, nil, nil
}

func itemsFromInputs(reservationID uint64, items []ItemInput) []model.ReservationItem {
	out := make([]model.ReservationItem, 0, len(items))
	for _, it := range items {
		out = append(out, model.ReservationItem{
			ReservationID: reservationID,
			MenuItemID:    it.MenuItemID,
			Qty:           it.Qty,
			Notes:         it.Notes,
		})
	}
	return out
}

func withHoldsReservationID(reservationID uint64, holds []model.ReservationIngredient) []model.ReservationIngredient {
	out := make([]model.ReservationIngredient, len(holds))
	for i, h := range holds {
		h.ReservationID = reservationID
		out[i] = h
	}
	return out
}

// Create opens a transaction, normalizes and plans the requested items,
// locks the required ingredients ascending, and either rejects with
// INSUFFICIENT_INGREDIENTS or inserts the reservation and its owned rows.
func (e *Engine) Create(ctx context.Context, userID uint64, rawItems []ItemInput) (*Result, *apierror.Error, *InsufficientError) {
	items, verr := NormalizeItems(rawItems)
	if verr != nil {
		return nil, verr, nil
	}

	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, apierror.New(apierror.Internal, err.Error()), nil
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	_, required, verr := e.planReservation(ctx, tx, items)
	if verr != nil {
		return nil, verr, nil
	}

	holds, insufficient, err := e.checkAvailabilityAndBuildHolds(ctx, tx, required, 0)
	if err != nil {
		return nil, apierror.New(apierror.Internal, err.Error()), nil
	}
	if insufficient != nil {
		return nil, nil, &InsufficientError{Entries: insufficient}
	}

	ttl := e.Params.TTL()
	now := time.Now().UTC()
	res := &model.Reservation{
		UserID:    userID,
		Status:    model.ReservationActive,
		ExpiresAt: now.Add(ttl),
	}
	if err := e.Reservations.CreateTx(ctx, tx, res); err != nil {
		return nil, apierror.New(apierror.Internal, err.Error()), nil
	}
	if err := e.Reservations.ReplaceItemsTx(ctx, tx, res.ID, itemsFromInputs(res.ID, items)); err != nil {
		return nil, apierror.New(apierror.Internal, err.Error()), nil
	}
	if err := e.Reservations.ReplaceIngredientsTx(ctx, tx, res.ID, withHoldsReservationID(res.ID, holds)); err != nil {
		return nil, apierror.New(apierror.Internal, err.Error()), nil
	}

	if err := tx.Commit(); err != nil {
		return nil, apierror.New(apierror.Internal, err.Error()), nil
	}
	committed = true

	e.Notifier.Broadcast()
	return &Result{ID: res.ID, Status: res.Status, ExpiresAt: res.ExpiresAt}, nil, nil
}

// currentIngredientIDs returns the ingredient ids currently held by a
// reservation, used by Update to build the lock union.
func (e *Engine) currentIngredientIDs(ctx context.Context, tx *sql.Tx, reservationID uint64) ([]uint64, error) {
	rows, err := tx.QueryContext(ctx, `SELECT ingredient_id FROM reservation_ingredients WHERE reservation_id = ?`, reservationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []uint64
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func unionIDs(a, b []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(a)+len(b))
	var out []uint64
	for _, id := range a {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	for _, id := range b {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out
}

// Update re-plans a reservation's items in place (spec.md §4.3.3).
func (e *Engine) Update(ctx context.Context, reservationID uint64, rawItems []ItemInput) (*Result, *apierror.Error, *InsufficientError) {
	items, verr := NormalizeItems(rawItems)
	if verr != nil {
		return nil, verr, nil
	}

	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, apierror.New(apierror.Internal, err.Error()), nil
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, err := e.Reservations.LockReservationForUpdateTx(ctx, tx, reservationID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apierror.New(apierror.NotFound, "reservation not found"), nil
		}
		return nil, apierror.New(apierror.Internal, err.Error()), nil
	}

	now := time.Now().UTC()
	if res.Status != model.ReservationActive {
		return nil, apierror.New(apierror.Conflict, "reservation is not active"), nil
	}
	if !res.ExpiresAt.After(now) {
		if err := e.Reservations.UpdateStatusTx(ctx, tx, res.ID, model.ReservationExpired); err != nil {
			return nil, apierror.New(apierror.Internal, err.Error()), nil
		}
		if err := tx.Commit(); err != nil {
			return nil, apierror.New(apierror.Internal, err.Error()), nil
		}
		committed = true
		e.Notifier.Broadcast()
		return nil, apierror.New(apierror.Conflict, "reservation expired"), nil
	}

	_, required, verr := e.planReservation(ctx, tx, items)
	if verr != nil {
		return nil, verr, nil
	}

	currentIDs, err := e.currentIngredientIDs(ctx, tx, res.ID)
	if err != nil {
		return nil, apierror.New(apierror.Internal, err.Error()), nil
	}
	requiredIDs := make([]uint64, 0, len(required))
	for id := range required {
		requiredIDs = append(requiredIDs, id)
	}
	lockIDs := unionIDs(currentIDs, requiredIDs)

	ingredients, err := e.Ingredients.LockIngredientsAscendingTx(ctx, tx, lockIDs)
	if err != nil {
		return nil, apierror.New(apierror.Internal, err.Error()), nil
	}
	ingredientsByID := make(map[uint64]model.Ingredient, len(ingredients))
	for _, ing := range ingredients {
		ingredientsByID[ing.ID] = ing
	}
	activeReserved, err := e.Ingredients.ActiveReservedQtyTx(ctx, tx, lockIDs, res.ID)
	if err != nil {
		return nil, apierror.New(apierror.Internal, err.Error()), nil
	}
	insufficient := availability.InsufficientIngredients(ingredientsByID, activeReserved, required)
	if len(insufficient) > 0 {
		return nil, nil, &InsufficientError{Entries: insufficient}
	}

	holds := make([]model.ReservationIngredient, 0, len(required))
	for id, qty := range required {
		holds = append(holds, model.ReservationIngredient{ReservationID: res.ID, IngredientID: id, QtyReserved: qty})
	}

	ttl := e.Params.TTL()
	newExpiry := now.Add(ttl)
	if err := e.Reservations.UpdateExpiresAtTx(ctx, tx, res.ID, newExpiry); err != nil {
		return nil, apierror.New(apierror.Internal, err.Error()), nil
	}
	if err := e.Reservations.ReplaceItemsTx(ctx, tx, res.ID, itemsFromInputs(res.ID, items)); err != nil {
		return nil, apierror.New(apierror.Internal, err.Error()), nil
	}
	if err := e.Reservations.ReplaceIngredientsTx(ctx, tx, res.ID, holds); err != nil {
		return nil, apierror.New(apierror.Internal, err.Error()), nil
	}

	if err := tx.Commit(); err != nil {
		return nil, apierror.New(apierror.Internal, err.Error()), nil
	}
	committed = true

	e.Notifier.Broadcast()
	return &Result{ID: res.ID, Status: model.ReservationActive, ExpiresAt: newExpiry}, nil, nil
}

// Commit finalizes a reservation: decrements on_hand_qty for every held
// ingredient and flips status to committed (spec.md §4.3.4). Idempotent on
// an already-committed reservation.
func (e *Engine) Commit(ctx context.Context, reservationID uint64) (*StatusResult, *apierror.Error) {
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, apierror.New(apierror.Internal, err.Error())
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, err := e.Reservations.LockReservationForUpdateTx(ctx, tx, reservationID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apierror.New(apierror.NotFound, "reservation not found")
		}
		return nil, apierror.New(apierror.Internal, err.Error())
	}

	switch res.Status {
	case model.ReservationCommitted:
		return &StatusResult{ID: res.ID, Status: model.ReservationCommitted}, nil
	case model.ReservationReleased, model.ReservationExpired:
		return nil, apierror.New(apierror.Conflict, "reservation is not active")
	}

	now := time.Now().UTC()
	if !res.ExpiresAt.After(now) {
		if err := e.Reservations.UpdateStatusTx(ctx, tx, res.ID, model.ReservationExpired); err != nil {
			return nil, apierror.New(apierror.Internal, err.Error())
		}
		if err := tx.Commit(); err != nil {
			return nil, apierror.New(apierror.Internal, err.Error())
		}
		committed = true
		e.Notifier.Broadcast()
		return nil, apierror.New(apierror.Conflict, "reservation expired")
	}

	holds, err := e.reservationIngredientsTx(ctx, tx, res.ID)
	if err != nil {
		return nil, apierror.New(apierror.Internal, err.Error())
	}
	ids := make([]uint64, 0, len(holds))
	for _, h := range holds {
		ids = append(ids, h.IngredientID)
	}
	ingredients, err := e.Ingredients.LockIngredientsAscendingTx(ctx, tx, ids)
	if err != nil {
		return nil, apierror.New(apierror.Internal, err.Error())
	}
	ingredientsByID := make(map[uint64]model.Ingredient, len(ingredients))
	for _, ing := range ingredients {
		ingredientsByID[ing.ID] = ing
	}
	for _, h := range holds {
		ing, ok := ingredientsByID[h.IngredientID]
		if !ok {
			return nil, apierror.New(apierror.Internal, "held ingredient vanished")
		}
		next := ing.OnHandQty - h.QtyReserved
		if next < 0 {
			// Invariant breach: a committed reservation's own holds should
			// never exceed on-hand stock. Never silently clamp — surface
			// as a fatal internal error, per spec.md §7.
			return nil, apierror.New(apierror.Internal, "commit would drive on_hand_qty negative")
		}
		if err := e.Ingredients.UpdateStockTx(ctx, tx, h.IngredientID, next, ing.IsOut); err != nil {
			return nil, apierror.New(apierror.Internal, err.Error())
		}
	}

	if err := e.Reservations.UpdateStatusTx(ctx, tx, res.ID, model.ReservationCommitted); err != nil {
		return nil, apierror.New(apierror.Internal, err.Error())
	}
	if err := tx.Commit(); err != nil {
		return nil, apierror.New(apierror.Internal, err.Error())
	}
	committed = true

	e.Notifier.Broadcast()
	return &StatusResult{ID: res.ID, Status: model.ReservationCommitted}, nil
}

// Release abandons an active reservation, or transitions it to expired if
// its deadline has already passed (spec.md §4.3.5). Idempotent on an
// already-released or already-expired reservation.
func (e *Engine) Release(ctx context.Context, reservationID uint64) (*StatusResult, *apierror.Error) {
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, apierror.New(apierror.Internal, err.Error())
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, err := e.Reservations.LockReservationForUpdateTx(ctx, tx, reservationID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apierror.New(apierror.NotFound, "reservation not found")
		}
		return nil, apierror.New(apierror.Internal, err.Error())
	}

	switch res.Status {
	case model.ReservationCommitted:
		return nil, apierror.New(apierror.Conflict, "reservation already committed")
	case model.ReservationReleased, model.ReservationExpired:
		return &StatusResult{ID: res.ID, Status: res.Status}, nil
	}

	nextStatus := model.ReservationReleased
	if !res.ExpiresAt.After(time.Now().UTC()) {
		nextStatus = model.ReservationExpired
	}
	if err := e.Reservations.UpdateStatusTx(ctx, tx, res.ID, nextStatus); err != nil {
		return nil, apierror.New(apierror.Internal, err.Error())
	}
	if err := tx.Commit(); err != nil {
		return nil, apierror.New(apierror.Internal, err.Error())
	}
	committed = true

	e.Notifier.Broadcast()
	return &StatusResult{ID: res.ID, Status: nextStatus}, nil
}

func (e *Engine) reservationIngredientsTx(ctx context.Context, tx *sql.Tx, reservationID uint64) ([]model.ReservationIngredient, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT id, reservation_id, ingredient_id, qty_reserved FROM reservation_ingredients WHERE reservation_id = ?`,
		reservationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.ReservationIngredient
	for rows.Next() {
		var h model.ReservationIngredient
		if err := rows.Scan(&h.ID, &h.ReservationID, &h.IngredientID, &h.QtyReserved); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}
