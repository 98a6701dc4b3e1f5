package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/jomkit/kitchensync/internal/availability"
	"github.com/jomkit/kitchensync/internal/model"
	"github.com/jomkit/kitchensync/internal/notifier"
	"github.com/jomkit/kitchensync/internal/repository"
)

// IngredientHandler serves the ingredient listing and the kitchen-only
// stock edit.
type IngredientHandler struct {
	DB          *sql.DB
	Ingredients *repository.IngredientRepo
	Notifier    *notifier.Hub
}

func NewIngredientHandler(db *sql.DB, ingredients *repository.IngredientRepo, hub *notifier.Hub) *IngredientHandler {
	if db == nil || ingredients == nil || hub == nil {
		panic("nil dependency passed to NewIngredientHandler")
	}
	return &IngredientHandler{DB: db, Ingredients: ingredients, Notifier: hub}
}

// List serves GET /ingredients: a point-in-time availability snapshot, no
// auth required.
func (h *IngredientHandler) List(c echo.Context) error {
	ctx := c.Request().Context()
	ings, err := h.Ingredients.ListAll(ctx)
	if err != nil {
		return writeInternal(c, err)
	}
	reserved, err := h.Ingredients.ActiveReservedQtyAll(ctx)
	if err != nil {
		return writeInternal(c, err)
	}
	rows := availability.ProjectIngredients(availability.Snapshot{Ingredients: ings, ActiveReservedByID: reserved})
	return c.JSON(http.StatusOK, rows)
}

type ingredientPatchReq struct {
	OnHandQty *int  `json:"on_hand_qty"`
	IsOut     *bool `json:"is_out"`
}

// Update handles PATCH /ingredients/{id} (role=kitchen). Only the fields
// present in the body change; on_hand_qty must be non-negative. The row
// lock mirrors the one commit takes, since both mutate on_hand_qty
// (spec.md §5).
func (h *IngredientHandler) Update(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid ingredient id"})
	}
	var req ingredientPatchReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.OnHandQty == nil && req.IsOut == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "provide on_hand_qty and/or is_out"})
	}
	if req.OnHandQty != nil && *req.OnHandQty < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "on_hand_qty must be non-negative"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	tx, err := h.DB.BeginTx(ctx, nil)
	if err != nil {
		return writeInternal(c, err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	locked, err := h.Ingredients.LockIngredientsAscendingTx(ctx, tx, []uint64{id})
	if err != nil {
		return writeInternal(c, err)
	}
	if len(locked) == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "ingredient not found"})
	}
	ing := locked[0]
	if req.OnHandQty != nil {
		ing.OnHandQty = *req.OnHandQty
	}
	if req.IsOut != nil {
		ing.IsOut = *req.IsOut
	}
	if err := h.Ingredients.UpdateStockTx(ctx, tx, ing.ID, ing.OnHandQty, ing.IsOut); err != nil {
		return writeInternal(c, err)
	}
	reserved, err := h.Ingredients.ActiveReservedQtyTx(ctx, tx, []uint64{ing.ID}, 0)
	if err != nil {
		return writeInternal(c, err)
	}

	if err := tx.Commit(); err != nil {
		return writeInternal(c, err)
	}
	committed = true

	h.Notifier.Broadcast()

	rows := availability.ProjectIngredients(availability.Snapshot{
		Ingredients:        []model.Ingredient{ing},
		ActiveReservedByID: reserved,
	})
	return c.JSON(http.StatusOK, rows[0])
}
