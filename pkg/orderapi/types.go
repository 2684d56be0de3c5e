package orderapi

import "fmt"

// CheckoutItem is one cart line sent for ordering
type CheckoutItem struct {
	ProductID uint   `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Color     string `json:"color"`
}

// CheckoutRequest is the body of POST /checkout
type CheckoutRequest struct {
	Items        []CheckoutItem `json:"items"`
	CustomerType string         `json:"customer_type"`
	Name         string         `json:"name"`
	Surname      string         `json:"surname"`
	Email        string         `json:"email"`
	IDNumber     string         `json:"id_number"`
	PhoneNumber  string         `json:"phone_number"`
	Address      string         `json:"address"`
	DeliveryType string         `json:"delivery_type"`
	DeliveryTime string         `json:"delivery_time"`
}

// CheckoutResponse is what the order service answers with on success
type CheckoutResponse struct {
	OrderID    string `json:"order_id"`
	Status     string `json:"status"` // pending, processing, approved, declined, expired
	Amount     int64  `json:"amount"` // minor units
	PaymentURL string `json:"payment_url,omitempty"`
}

// ErrorResponse represents an error response from the order service
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *ErrorResponse) Error() string {
	return fmt.Sprintf("order service error: code=%s, message=%s", e.Code, e.Message)
}
