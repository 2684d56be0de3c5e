package model

type CustomerType string
type DeliveryType string
type DeliveryTime string

const (
	CustomerIndividual CustomerType = "individual" // private person
	CustomerLegal      CustomerType = "legal"      // company, invoiced

	DeliveryCourier DeliveryType = "delivery" // courier to address
	DeliveryPickup  DeliveryType = "pickup"   // pickup at store

	DeliverySameDay DeliveryTime = "same_day"
	DeliveryNextDay DeliveryTime = "next_day"
)

// CheckoutFields is what the shopper fills in on the checkout form
type CheckoutFields struct {
	CustomerType CustomerType `json:"customer_type" validate:"required,oneof=individual legal"`
	Name         string       `json:"name" validate:"required"`
	Surname      string       `json:"surname" validate:"required"`
	Email        string       `json:"email" validate:"required,email"`
	IDNumber     string       `json:"id_number" validate:"required"`
	PhoneNumber  string       `json:"phone_number" validate:"required"`
	Address      string       `json:"address" validate:"required_if=DeliveryType delivery"`
	DeliveryType DeliveryType `json:"delivery_type" validate:"required,oneof=delivery pickup"`
	DeliveryTime DeliveryTime `json:"delivery_time" validate:"required,oneof=same_day next_day"`
}

// PlacedOrder is the accepted order returned to the shopper
type PlacedOrder struct {
	OrderID     string  `json:"order_id"`
	Status      string  `json:"status"`
	TotalAmount float64 `json:"total_amount"`
	PaymentURL  string  `json:"payment_url,omitempty"`
}
