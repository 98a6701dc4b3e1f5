package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jomkit/kitchensync/internal/availability"
	"github.com/jomkit/kitchensync/internal/model"
	"github.com/jomkit/kitchensync/internal/repository"
)

// MenuHandler serves the public menu listing, projected against the
// current ingredient snapshot.
type MenuHandler struct {
	MenuItems   *repository.MenuItemRepo
	Recipes     *repository.RecipeRepo
	Ingredients *repository.IngredientRepo
}

func NewMenuHandler(menuItems *repository.MenuItemRepo, recipes *repository.RecipeRepo, ingredients *repository.IngredientRepo) *MenuHandler {
	if menuItems == nil || recipes == nil || ingredients == nil {
		panic("nil dependency passed to NewMenuHandler")
	}
	return &MenuHandler{MenuItems: menuItems, Recipes: recipes, Ingredients: ingredients}
}

// List handles GET /menu, no auth required.
func (h *MenuHandler) List(c echo.Context) error {
	ctx := c.Request().Context()
	items, err := h.MenuItems.ListAll(ctx)
	if err != nil {
		return writeInternal(c, err)
	}
	recipes, err := h.Recipes.ListAll(ctx)
	if err != nil {
		return writeInternal(c, err)
	}
	ings, err := h.Ingredients.ListAll(ctx)
	if err != nil {
		return writeInternal(c, err)
	}
	reserved, err := h.Ingredients.ActiveReservedQtyAll(ctx)
	if err != nil {
		return writeInternal(c, err)
	}
	ingredientsByID := make(map[uint64]model.Ingredient, len(ings))
	for _, ing := range ings {
		ingredientsByID[ing.ID] = ing
	}
	rows := availability.ProjectMenu(items, recipes, ingredientsByID, reserved)
	return c.JSON(http.StatusOK, rows)
}
