package controller

import (
	"fmt"
	"net/http"
	"testing"

	apperrors "github.com/ikkim/tene-backend/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductController_GetAllProducts(t *testing.T) {
	s := setupControllerTest(t)

	w := s.do(t, http.MethodGet, "/products", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decode[map[string]interface{}](t, w)
	assert.Equal(t, float64(1), body["count"])

	w = s.do(t, http.MethodGet, "/products?product_type=container", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(0), decode[map[string]interface{}](t, w)["count"])

	w = s.do(t, http.MethodGet, "/products?product_type=spaceship", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProductController_GetProductByID(t *testing.T) {
	s := setupControllerTest(t)

	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantCode   string
	}{
		{"existing", fmt.Sprintf("/products/%d", s.bin.ID), http.StatusOK, ""},
		{"missing", "/products/9999", http.StatusNotFound, apperrors.ProductNotFound},
		{"malformed", "/products/abc", http.StatusBadRequest, apperrors.ValidationInvalidID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, http.MethodGet, tt.path, nil)
			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, decode[apperrors.ErrorResponse](t, w).Error)
			}
		})
	}
}
