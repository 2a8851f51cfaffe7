package server

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"weekly-planner/internal/app"
	"weekly-planner/internal/menu"
	"weekly-planner/internal/planner"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondWithJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondWithJSON(rec, http.StatusCreated, map[string]string{"hello": "world"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"hello":"world"}`, rec.Body.String())
}

func TestHandleError_StatusMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"NotFound", fmt.Errorf("week x: %w", app.ErrNotFound), http.StatusNotFound},
		{"InvalidInput", fmt.Errorf("%w: bad day", ErrInvalidInput), http.StatusBadRequest},
		{"GenerationInFlight", planner.ErrGenerationInFlight, http.StatusConflict},
		{"Unknown", fmt.Errorf("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			HandleError(rec, tc.err)
			assert.Equal(t, tc.code, rec.Code)
			assert.Contains(t, rec.Body.String(), "error")
		})
	}
}

func TestDecodeJSONBody(t *testing.T) {
	type payload struct {
		Name string `json:"name" validate:"required"`
	}

	t.Run("Valid", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/", bytes.NewBufferString(`{"name":"Paella"}`))
		var p payload
		require.NoError(t, DecodeJSONBody(req, &p))
		assert.Equal(t, "Paella", p.Name)
	})

	t.Run("MalformedJSON", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/", bytes.NewBufferString(`{`))
		var p payload
		assert.ErrorIs(t, DecodeJSONBody(req, &p), ErrInvalidInput)
	})

	t.Run("FailsValidation", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/", bytes.NewBufferString(`{}`))
		var p payload
		err := DecodeJSONBody(req, &p)
		assert.ErrorIs(t, err, ErrInvalidInput)
		assert.Contains(t, err.Error(), "name")
	})

	t.Run("ListPayloadSkipsValidation", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/", bytes.NewBufferString(`[{"id":"1","name":"X"}]`))
		var dishes []menu.Dish
		require.NoError(t, DecodeJSONBody(req, &dishes))
		assert.Len(t, dishes, 1)
	})
}

func TestParseDirection(t *testing.T) {
	dir, err := parseDirection("up")
	require.NoError(t, err)
	assert.Equal(t, menu.MoveUp, dir)

	dir, err = parseDirection("down")
	require.NoError(t, err)
	assert.Equal(t, menu.MoveDown, dir)

	_, err = parseDirection("sideways")
	assert.ErrorIs(t, err, ErrInvalidInput)
}
