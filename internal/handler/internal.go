package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jomkit/kitchensync/internal/expiration"
)

// InternalHandler exposes operator-only endpoints gated by a shared secret
// header rather than a user session.
type InternalHandler struct {
	Secret  string
	Sweeper *expiration.Sweeper
}

func NewInternalHandler(secret string, sweeper *expiration.Sweeper) *InternalHandler {
	if secret == "" || sweeper == nil {
		panic("nil/empty dependency passed to NewInternalHandler")
	}
	return &InternalHandler{Secret: secret, Sweeper: sweeper}
}

// ExpireOnce handles POST /internal/expire_once, driving a single sweep pass
// on demand (e.g. from a cron outside the process). Authenticated by the
// X-Internal-Secret header rather than a bearer token since callers are not
// KitchenSync users.
func (h *InternalHandler) ExpireOnce(c echo.Context) error {
	if c.Request().Header.Get("X-Internal-Secret") != h.Secret {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	n, err := h.Sweeper.Once(c.Request().Context())
	if err != nil {
		return writeInternal(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "ok", "expired_count": n})
}
