package handler

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/jomkit/kitchensync/internal/queue"
	"github.com/jomkit/kitchensync/internal/repository"
	"github.com/jomkit/kitchensync/internal/reservation"
)

// ReservationHandler exposes the reservation lifecycle operations. All
// error-kind-to-status mapping is delegated to the engine's *apierror.Error
// return value.
type ReservationHandler struct {
	Engine       *reservation.Engine
	Reservations *repository.ReservationRepo
	RabbitMQURL  string
}

func NewReservationHandler(engine *reservation.Engine, reservations *repository.ReservationRepo, rabbitMQURL string) *ReservationHandler {
	if engine == nil || reservations == nil {
		panic("nil dependency passed to NewReservationHandler")
	}
	return &ReservationHandler{Engine: engine, Reservations: reservations, RabbitMQURL: rabbitMQURL}
}

type reservationItemReq struct {
	MenuItemID uint64  `json:"menu_item_id"`
	Qty        int     `json:"qty"`
	Notes      *string `json:"notes"`
}

type reservationReq struct {
	Items []reservationItemReq `json:"items"`
}

func (req reservationReq) toItemInputs() []reservation.ItemInput {
	out := make([]reservation.ItemInput, len(req.Items))
	for i, it := range req.Items {
		out[i] = reservation.ItemInput{MenuItemID: it.MenuItemID, Qty: it.Qty, Notes: it.Notes}
	}
	return out
}

// Create handles POST /reservations (role∈{online,foh}).
func (h *ReservationHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req reservationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	result, apiErr, insufficient := h.Engine.Create(c.Request().Context(), userID, req.toItemInputs())
	if insufficient != nil {
		return writeInsufficient(c, insufficient)
	}
	if apiErr != nil {
		return writeAPIError(c, apiErr)
	}
	return c.JSON(http.StatusCreated, result)
}

// Update handles PATCH /reservations/{id} (role∈{online,foh}).
func (h *ReservationHandler) Update(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	var req reservationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	result, apiErr, insufficient := h.Engine.Update(c.Request().Context(), id, req.toItemInputs())
	if insufficient != nil {
		return writeInsufficient(c, insufficient)
	}
	if apiErr != nil {
		return writeAPIError(c, apiErr)
	}
	return c.JSON(http.StatusOK, result)
}

// Commit handles POST /reservations/{id}/commit (role∈{online,foh}).
func (h *ReservationHandler) Commit(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	result, apiErr := h.Engine.Commit(c.Request().Context(), id)
	if apiErr != nil {
		return writeAPIError(c, apiErr)
	}
	go h.publishCommitted(id)
	return c.JSON(http.StatusOK, result)
}

// publishCommitted ships an audit event for a just-committed reservation.
// It runs detached from the request so a broker outage never delays the
// response; failures are logged, not surfaced to the client.
func (h *ReservationHandler) publishCommitted(reservationID uint64) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	res, err := h.Reservations.GetByID(ctx, reservationID)
	if err != nil {
		log.Printf("reservation-publish: lookup failed for %d: %v", reservationID, err)
		return
	}
	items, err := h.Reservations.ItemsByReservationID(ctx, reservationID)
	if err != nil {
		log.Printf("reservation-publish: items lookup failed for %d: %v", reservationID, err)
		return
	}
	eventItems := make([]queue.CommittedEventItem, len(items))
	for i, it := range items {
		eventItems[i] = queue.CommittedEventItem{MenuItemID: it.MenuItemID, Qty: it.Qty}
	}
	event := queue.ReservationCommittedEvent{
		ReservationID: res.ID,
		UserID:        res.UserID,
		Items:         eventItems,
		CommittedAt:   time.Now().UTC().Format(time.RFC3339),
	}
	if err := queue.PublishCommitted(ctx, h.RabbitMQURL, event); err != nil {
		log.Printf("reservation-publish: publish failed for %d: %v", reservationID, err)
	}
}

// Release handles POST /reservations/{id}/release (role∈{online,foh}).
func (h *ReservationHandler) Release(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	result, apiErr := h.Engine.Release(c.Request().Context(), id)
	if apiErr != nil {
		return writeAPIError(c, apiErr)
	}
	return c.JSON(http.StatusOK, result)
}
