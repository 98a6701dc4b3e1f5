package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/jomkit/kitchensync/internal/notifier"
)

// WSHandler adapts notifier.Hub's net/http upgrade to an echo.HandlerFunc.
type WSHandler struct {
	Hub *notifier.Hub
}

func NewWSHandler(hub *notifier.Hub) *WSHandler {
	if hub == nil {
		panic("nil hub passed to NewWSHandler")
	}
	return &WSHandler{Hub: hub}
}

// Serve handles GET /ws: no auth, transport-only relay of stateChanged.
func (h *WSHandler) Serve(c echo.Context) error {
	return h.Hub.ServeWS(c.Response(), c.Request())
}
