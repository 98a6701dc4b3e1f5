package apierror

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus_MapsEveryKind(t *testing.T) {
	cases := map[Kind]int{
		Validation:              http.StatusBadRequest,
		ValueOutOfRange:         http.StatusBadRequest,
		Unauthorized:            http.StatusUnauthorized,
		Forbidden:               http.StatusForbidden,
		NotFound:                http.StatusNotFound,
		Conflict:                http.StatusConflict,
		InsufficientIngredients: http.StatusConflict,
		Internal:                http.StatusInternalServerError,
	}
	for kind, status := range cases {
		assert.Equal(t, status, HTTPStatus(kind), "kind=%s", kind)
	}
}

func TestHTTPStatus_UnknownKindDefaultsToInternal(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(Kind("BOGUS")))
}

func TestNew_BuildsErrorWithMessage(t *testing.T) {
	err := New(NotFound, "reservation not found")
	assert.Equal(t, NotFound, err.Kind)
	assert.Equal(t, "reservation not found", err.Error())
}

func TestDefaultCodeForStatus_RoundTripsHTTPStatus(t *testing.T) {
	cases := map[int]Kind{
		http.StatusBadRequest:          Validation,
		http.StatusUnauthorized:        Unauthorized,
		http.StatusForbidden:           Forbidden,
		http.StatusNotFound:            NotFound,
		http.StatusConflict:            Conflict,
		http.StatusInternalServerError: Internal,
	}
	for status, kind := range cases {
		assert.Equal(t, kind, DefaultCodeForStatus(status))
	}
}
