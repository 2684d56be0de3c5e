package controller

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/tene-backend/internal/app/model"
	"github.com/ikkim/tene-backend/internal/app/service"
	apperrors "github.com/ikkim/tene-backend/internal/errors"
	"github.com/ikkim/tene-backend/pkg/orderapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func checkoutBody() gin.H {
	return gin.H{
		"customer_type": "individual",
		"name":          "Nino",
		"surname":       "Beridze",
		"email":         "nino@example.com",
		"id_number":     "01001010101",
		"phone_number":  "+995555000000",
		"address":       "12 Rustaveli Ave, Tbilisi",
		"delivery_type": "delivery",
		"delivery_time": "same_day",
	}
}

func TestCheckoutController_Success(t *testing.T) {
	s := setupControllerTest(t)
	s.addBlackBin(t, 2)

	w := s.do(t, http.MethodPost, "/checkout", checkoutBody())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	body := decode[struct {
		Order model.PlacedOrder `json:"order"`
	}](t, w)
	assert.Equal(t, "ord-1", body.Order.OrderID)
	assert.Equal(t, float64(157), body.Order.TotalAmount)
	assert.Equal(t, 1, s.orders.calls)

	w = s.do(t, http.MethodGet, "/cart", nil)
	assert.Empty(t, decode[service.CartView](t, w).Items)
}

func TestCheckoutController_EmptyCart(t *testing.T) {
	s := setupControllerTest(t)

	w := s.do(t, http.MethodPost, "/checkout", checkoutBody())
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apperrors.CartEmpty, decode[apperrors.ErrorResponse](t, w).Error)
	assert.Zero(t, s.orders.calls)
}

func TestCheckoutController_InvalidFields(t *testing.T) {
	s := setupControllerTest(t)
	s.addBlackBin(t, 1)

	body := checkoutBody()
	body["email"] = "not-an-email"
	delete(body, "surname")

	w := s.do(t, http.MethodPost, "/checkout", body)
	require.Equal(t, http.StatusBadRequest, w.Code)

	resp := decode[apperrors.ValidationError](t, w)
	assert.Equal(t, apperrors.ValidationInvalidInput, resp.Error)
	assert.Contains(t, resp.Fields, "email")
	assert.Contains(t, resp.Fields, "surname")
}

func TestCheckoutController_OrderServiceErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"rejected", orderapi.ErrOrderRejected, http.StatusUnprocessableEntity, apperrors.CheckoutRejected},
		{"unreachable", orderapi.ErrNetworkError, http.StatusBadGateway, apperrors.CheckoutUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := setupControllerTest(t)
			s.addBlackBin(t, 1)
			s.orders.err = tt.err

			w := s.do(t, http.MethodPost, "/checkout", checkoutBody())
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantCode, decode[apperrors.ErrorResponse](t, w).Error)

			w = s.do(t, http.MethodGet, "/cart", nil)
			assert.Len(t, decode[service.CartView](t, w).Items, 1)
		})
	}
}
