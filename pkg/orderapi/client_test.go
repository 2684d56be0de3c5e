package orderapi

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRequest() CheckoutRequest {
	return CheckoutRequest{
		Items:        []CheckoutItem{{ProductID: 7, Quantity: 2, Color: "black"}},
		CustomerType: "individual",
		Name:         "Nino",
		Surname:      "Beridze",
		Email:        "nino@example.com",
		IDNumber:     "01001010101",
		PhoneNumber:  "+995555000000",
		Address:      "Tbilisi",
		DeliveryType: "delivery",
		DeliveryTime: "next_day",
	}
}

func TestNewClient_RequiresBaseURL(t *testing.T) {
	_, err := NewClient(Config{})
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestClient_Checkout(t *testing.T) {
	var got CheckoutRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/checkout", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(body, &got))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"order_id":"ord-1","status":"pending","amount":15698,"payment_url":"https://pay.example/ord-1"}`))
	}))
	defer srv.Close()

	client, err := NewClient(Config{BaseURL: srv.URL + "/api/"})
	require.NoError(t, err)

	resp, err := client.Checkout(context.Background(), sampleRequest())
	require.NoError(t, err)
	assert.Equal(t, "ord-1", resp.OrderID)
	assert.Equal(t, int64(15698), resp.Amount)
	assert.Equal(t, "https://pay.example/ord-1", resp.PaymentURL)
	assert.Equal(t, sampleRequest(), got)
}

func TestClient_Checkout_StatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{"bad request", http.StatusBadRequest, ErrInvalidRequest},
		{"conflict", http.StatusConflict, ErrOrderRejected},
		{"unprocessable", http.StatusUnprocessableEntity, ErrOrderRejected},
		{"server error", http.StatusBadGateway, ErrServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(`{"code":"OUT_OF_STOCK","message":"not enough stock"}`))
			}))
			defer srv.Close()

			client, err := NewClient(Config{BaseURL: srv.URL})
			require.NoError(t, err)

			_, err = client.Checkout(context.Background(), sampleRequest())
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestClient_Checkout_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	client, err := NewClient(Config{BaseURL: url})
	require.NoError(t, err)

	_, err = client.Checkout(context.Background(), sampleRequest())
	assert.ErrorIs(t, err, ErrNetworkError)
}

func TestClient_Checkout_EmptyItems(t *testing.T) {
	client, err := NewClient(Config{BaseURL: "http://unused"})
	require.NoError(t, err)

	req := sampleRequest()
	req.Items = nil
	_, err = client.Checkout(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidRequest)
}
