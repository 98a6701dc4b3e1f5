package model

import "time"

// Reservation status values. Terminal states never transition again
// (spec.md §4.3.6).
const (
	ReservationActive    = "active"
	ReservationCommitted = "committed"
	ReservationReleased  = "released"
	ReservationExpired   = "expired"
)

// Reservation is the aggregate root for a customer's in-flight or resolved
// order. It owns its ReservationItems and ReservationIngredients, which are
// rewritten wholesale on Update and never mutated in isolation.
//
// Fields:
//  ID        – primary key.
//  UserID    – user who placed the reservation.
//  Status    – one of active, committed, released, expired.
//  CreatedAt – creation timestamp.
//  ExpiresAt – absolute instant the hold lapses if not committed/released.
//  UpdatedAt – last transition timestamp.
type Reservation struct {
	ID        uint64    // reservations.id
	UserID    uint64    // reservations.user_id
	Status    string    // reservations.status
	CreatedAt time.Time // reservations.created_at
	ExpiresAt time.Time // reservations.expires_at
	UpdatedAt time.Time // reservations.updated_at
}

// ReservationItem is one line of a reservation's order: a menu item and how
// many were requested. At most one row per (reservation_id, menu_item_id).
//
// Fields:
//  ID            – primary key.
//  ReservationID – owning reservation.
//  MenuItemID    – menu item ordered.
//  Qty           – quantity ordered, >= 1.
//  Notes         – optional free-text note (e.g. "no onions").
type ReservationItem struct {
	ID            uint64  // reservation_items.id
	ReservationID uint64  // reservation_items.reservation_id
	MenuItemID    uint64  // reservation_items.menu_item_id
	Qty           int     // reservation_items.qty
	Notes         *string // reservation_items.notes (nullable)
}

// ReservationIngredient is the provisional hold a reservation places on an
// ingredient, derived from Recipe x ReservationItem at create/update time.
// At most one row per (reservation_id, ingredient_id).
//
// Fields:
//  ID            – primary key.
//  ReservationID – owning reservation.
//  IngredientID  – ingredient held.
//  QtyReserved   – amount held, >= 1.
type ReservationIngredient struct {
	ID            uint64 // reservation_ingredients.id
	ReservationID uint64 // reservation_ingredients.reservation_id
	IngredientID  uint64 // reservation_ingredients.ingredient_id
	QtyReserved   int    // reservation_ingredients.qty_reserved
}
