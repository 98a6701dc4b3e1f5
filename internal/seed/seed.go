// Package seed populates a fresh database with the fixed cast of users,
// ingredients, menu items, and recipes a demo or test environment needs.
// Every statement is idempotent (insert-or-skip on a unique key) so Run can
// be invoked against an already-seeded database without duplicating rows.
package seed

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jomkit/kitchensync/internal/utils"
)

type user struct {
	email    string
	password string
	role     string
}

type ingredient struct {
	name      string
	onHandQty int
	lowStock  int
}

type menuItem struct {
	name       string
	priceCents uint32
}

type recipeLine struct {
	menuItem   string
	ingredient string
	qty        int
}

var users = []user{
	{"alex@kitchensync.local", "online-pass-123", "online"},
	{"blair@kitchensync.local", "foh-pass-123", "foh"},
	{"casey@kitchensync.local", "kitchen-pass-123", "kitchen"},
}

var ingredients = []ingredient{
	{"Bun", 40, 8},
	{"Patty", 30, 6},
	{"Lettuce", 20, 5},
	{"Tomato", 20, 5},
	{"Cheese", 25, 5},
}

var menuItems = []menuItem{
	{"Classic Burger", 1299},
	{"Cheeseburger", 1399},
	{"Veggie Burger", 1199},
}

var recipes = []recipeLine{
	{"Classic Burger", "Bun", 1},
	{"Classic Burger", "Patty", 1},
	{"Classic Burger", "Lettuce", 1},
	{"Classic Burger", "Tomato", 1},

	{"Cheeseburger", "Bun", 1},
	{"Cheeseburger", "Patty", 1},
	{"Cheeseburger", "Cheese", 1},

	{"Veggie Burger", "Bun", 1},
	{"Veggie Burger", "Lettuce", 2},
	{"Veggie Burger", "Tomato", 2},
}

// Run seeds users, ingredients, menu items, and recipes. bcryptCost controls
// the cost of the seeded users' password hashes (config.Config.BcryptCost).
func Run(ctx context.Context, db *sql.DB, bcryptCost int) error {
	for _, u := range users {
		hash, err := utils.HashPassword(u.password, bcryptCost)
		if err != nil {
			return fmt.Errorf("hash password for %s: %w", u.email, err)
		}
		if _, err := db.ExecContext(ctx,
			`INSERT INTO users (email, password_hash, role, is_active)
			 VALUES (?, ?, ?, true)
			 ON DUPLICATE KEY UPDATE email = email`,
			u.email, hash, u.role); err != nil {
			return fmt.Errorf("seed user %s: %w", u.email, err)
		}
	}

	ingredientIDs := make(map[string]uint64, len(ingredients))
	for _, ing := range ingredients {
		if _, err := db.ExecContext(ctx,
			`INSERT INTO ingredients (name, on_hand_qty, low_stock_threshold_qty, is_out)
			 VALUES (?, ?, ?, false)
			 ON DUPLICATE KEY UPDATE name = name`,
			ing.name, ing.onHandQty, ing.lowStock); err != nil {
			return fmt.Errorf("seed ingredient %s: %w", ing.name, err)
		}
		var id uint64
		if err := db.QueryRowContext(ctx, `SELECT id FROM ingredients WHERE name = ?`, ing.name).Scan(&id); err != nil {
			return fmt.Errorf("lookup ingredient %s: %w", ing.name, err)
		}
		ingredientIDs[ing.name] = id
	}

	menuItemIDs := make(map[string]uint64, len(menuItems))
	for _, mi := range menuItems {
		if _, err := db.ExecContext(ctx,
			`INSERT INTO menu_items (name, price_cents)
			 VALUES (?, ?)
			 ON DUPLICATE KEY UPDATE name = name`,
			mi.name, mi.priceCents); err != nil {
			return fmt.Errorf("seed menu item %s: %w", mi.name, err)
		}
		var id uint64
		if err := db.QueryRowContext(ctx, `SELECT id FROM menu_items WHERE name = ?`, mi.name).Scan(&id); err != nil {
			return fmt.Errorf("lookup menu item %s: %w", mi.name, err)
		}
		menuItemIDs[mi.name] = id
	}

	for _, rc := range recipes {
		menuItemID, ok := menuItemIDs[rc.menuItem]
		if !ok {
			return fmt.Errorf("recipe references unknown menu item %q", rc.menuItem)
		}
		ingredientID, ok := ingredientIDs[rc.ingredient]
		if !ok {
			return fmt.Errorf("recipe references unknown ingredient %q", rc.ingredient)
		}
		if _, err := db.ExecContext(ctx,
			`INSERT INTO recipes (menu_item_id, ingredient_id, qty_required)
			 VALUES (?, ?, ?)
			 ON DUPLICATE KEY UPDATE qty_required = qty_required`,
			menuItemID, ingredientID, rc.qty); err != nil {
			return fmt.Errorf("seed recipe %s/%s: %w", rc.menuItem, rc.ingredient, err)
		}
	}

	return nil
}
