package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/jomkit/kitchensync/internal/apierror"
	"github.com/jomkit/kitchensync/internal/reservation"
)

// getUserID extracts the user_id claim injected by middleware.JWTAuth. JWT
// claims decode through jwt.MapClaims as float64, so the common case is the
// float64 branch; the others cover values set directly in tests.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

func requestID(c echo.Context) string {
	if v, ok := c.Get("request_id").(string); ok {
		return v
	}
	return ""
}

// writeAPIError renders an *apierror.Error as the {error, code, request_id}
// envelope of spec.md §7.
func writeAPIError(c echo.Context, err *apierror.Error) error {
	return c.JSON(apierror.HTTPStatus(err.Kind), apierror.Envelope{
		Error:     err.Message,
		Code:      err.Kind,
		RequestID: requestID(c),
	})
}

// writeInsufficient renders the 409 INSUFFICIENT_INGREDIENTS envelope, which
// carries an extra errors:[...] array alongside the standard fields.
func writeInsufficient(c echo.Context, ins *reservation.InsufficientError) error {
	return c.JSON(http.StatusConflict, echo.Map{
		"error":      "insufficient ingredients",
		"code":       apierror.InsufficientIngredients,
		"request_id": requestID(c),
		"errors":     ins.Entries,
	})
}

func writeInternal(c echo.Context, err error) error {
	return c.JSON(http.StatusInternalServerError, apierror.Envelope{
		Error:     err.Error(),
		Code:      apierror.Internal,
		RequestID: requestID(c),
	})
}
