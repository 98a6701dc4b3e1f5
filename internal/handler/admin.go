package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jomkit/kitchensync/internal/runtimeparams"
)

// AdminHandler exposes the runtime-tunable reservation TTL and warning
// threshold.
type AdminHandler struct {
	Params *runtimeparams.Registry
}

func NewAdminHandler(params *runtimeparams.Registry) *AdminHandler {
	if params == nil {
		panic("nil registry passed to NewAdminHandler")
	}
	return &AdminHandler{Params: params}
}

// GetReservationTTL handles GET /admin/reservation-ttl (role∈{online,foh}).
func (h *AdminHandler) GetReservationTTL(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Params.Describe())
}

type reservationTTLPatchReq struct {
	TTLSeconds              *int `json:"ttl_seconds"`
	WarningThresholdSeconds *int `json:"warning_threshold_seconds"`
}

// PatchReservationTTL handles PATCH /admin/reservation-ttl (role=foh).
func (h *AdminHandler) PatchReservationTTL(c echo.Context) error {
	var req reservationTTLPatchReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.TTLSeconds == nil && req.WarningThresholdSeconds == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "provide ttl_seconds and/or warning_threshold_seconds"})
	}
	if req.TTLSeconds != nil {
		if err := h.Params.SetTTLSeconds(*req.TTLSeconds); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
	}
	if req.WarningThresholdSeconds != nil {
		if err := h.Params.SetWarningSeconds(*req.WarningThresholdSeconds); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
	}
	return c.JSON(http.StatusOK, h.Params.Describe())
}
