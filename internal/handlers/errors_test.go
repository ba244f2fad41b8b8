package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/shop-booking/internal/domain/booking"
	"github.com/BruksfildServices01/shop-booking/internal/domain/pricing"
	shopdomain "github.com/BruksfildServices01/shop-booking/internal/domain/shop"
	"github.com/BruksfildServices01/shop-booking/internal/httperr"
)

func TestRespondErrorMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		err    error
		status int
		code   string
	}{
		{domain.ErrSlotAlreadyBooked, http.StatusConflict, "slot_already_booked"},
		{domain.ErrInvalidStateTransition, http.StatusConflict, "invalid_state_transition"},
		{shopdomain.ErrSlotInUse, http.StatusConflict, "slot_in_use"},
		{fmt.Errorf("%w: negative tax", pricing.ErrInvalidConfiguration), http.StatusUnprocessableEntity, "invalid_configuration"},
		{domain.ErrForbidden, http.StatusForbidden, "forbidden"},
		{domain.ErrBookingNotFound, http.StatusNotFound, "booking_not_found"},
		{httperr.ErrBusiness("widget_not_found"), http.StatusNotFound, "widget_not_found"},
		{domain.ErrSlotInPast, http.StatusBadRequest, "slot_in_past"},
		{pricing.ErrInvalidMethod, http.StatusBadRequest, "invalid_method"},
		{errors.New("connection refused"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			respondError(c, zap.NewNop(), tt.err)

			assert.Equal(t, tt.status, w.Code)

			var body httperr.HTTPError
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.code, body.Code)
			assert.NotEmpty(t, body.Message)
		})
	}
}

func TestBookingIDParam(t *testing.T) {
	gin.SetMode(gin.TestMode)

	for _, raw := range []string{"abc", "0", "-3"} {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Params = gin.Params{{Key: "id", Value: raw}}

		_, ok := bookingID(c)
		assert.False(t, ok, raw)
		assert.Equal(t, http.StatusBadRequest, w.Code, raw)
	}

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Params = gin.Params{{Key: "id", Value: "42"}}
	id, ok := bookingID(c)
	assert.True(t, ok)
	assert.Equal(t, uint(42), id)
}
