package service

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/ikkim/tene-backend/internal/app/model"
	"github.com/ikkim/tene-backend/internal/cart"
	"github.com/ikkim/tene-backend/pkg/logger"
	"github.com/ikkim/tene-backend/pkg/orderapi"
	"github.com/shopspring/decimal"
)

var (
	ErrEmptyCart          = errors.New("cart is empty")
	ErrCheckoutInProgress = errors.New("checkout already in progress")
)

// CheckoutValidationError lists the checkout fields that failed validation,
// keyed by their JSON name
type CheckoutValidationError struct {
	Fields map[string]string
}

func (e *CheckoutValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return "invalid checkout fields: " + strings.Join(names, ", ")
}

// OrderPlacer submits orders to the external order service
type OrderPlacer interface {
	Checkout(ctx context.Context, req orderapi.CheckoutRequest) (*orderapi.CheckoutResponse, error)
}

type CheckoutService interface {
	Checkout(ctx context.Context, sessionID string, fields model.CheckoutFields) (*model.PlacedOrder, error)
}

type checkoutService struct {
	registry *cart.Registry
	orders   OrderPlacer
	validate *validator.Validate

	mu       sync.Mutex
	inFlight map[string]struct{}
}

func NewCheckoutService(registry *cart.Registry, orders OrderPlacer) CheckoutService {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &checkoutService{
		registry: registry,
		orders:   orders,
		validate: validate,
		inFlight: make(map[string]struct{}),
	}
}

// Checkout places an order for the session's cart. The cart is cleared only
// after the order service accepts the order.
func (s *checkoutService) Checkout(ctx context.Context, sessionID string, fields model.CheckoutFields) (*model.PlacedOrder, error) {
	if err := s.validateFields(fields); err != nil {
		return nil, err
	}

	if !s.begin(sessionID) {
		return nil, ErrCheckoutInProgress
	}
	defer s.end(sessionID)

	store, release := s.registry.Acquire(sessionID)
	defer release()
	items := store.Items()
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	req := buildCheckoutRequest(items, fields)

	logger.Info("Submitting order", map[string]interface{}{
		"session_id": sessionID,
		"lines":      len(req.Items),
		"delivery":   fields.DeliveryType,
	})

	resp, err := s.orders.Checkout(ctx, req)
	if err != nil {
		logger.Error("Order placement failed", err, map[string]interface{}{
			"session_id": sessionID,
		})
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	store.ClearCart()

	logger.Info("Order placed", map[string]interface{}{
		"session_id": sessionID,
		"order_id":   resp.OrderID,
		"status":     resp.Status,
	})

	return &model.PlacedOrder{
		OrderID:     resp.OrderID,
		Status:      resp.Status,
		TotalAmount: decimal.New(resp.Amount, -2).InexactFloat64(),
		PaymentURL:  resp.PaymentURL,
	}, nil
}

func (s *checkoutService) validateFields(fields model.CheckoutFields) error {
	err := s.validate.Struct(fields)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := &CheckoutValidationError{Fields: make(map[string]string, len(verrs))}
	for _, fe := range verrs {
		out.Fields[fe.Field()] = fieldMessage(fe)
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_if":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return "is invalid"
	}
}

func (s *checkoutService) begin(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[sessionID]; busy {
		return false
	}
	s.inFlight[sessionID] = struct{}{}
	return true
}

func (s *checkoutService) end(sessionID string) {
	s.mu.Lock()
	delete(s.inFlight, sessionID)
	s.mu.Unlock()
}

func buildCheckoutRequest(items []model.LineItem, fields model.CheckoutFields) orderapi.CheckoutRequest {
	lines := make([]orderapi.CheckoutItem, 0, len(items))
	for _, item := range items {
		lines = append(lines, orderapi.CheckoutItem{
			ProductID: item.Product.ID,
			Quantity:  item.Quantity,
			Color:     item.SelectedColor,
		})
	}

	return orderapi.CheckoutRequest{
		Items:        lines,
		CustomerType: string(fields.CustomerType),
		Name:         fields.Name,
		Surname:      fields.Surname,
		Email:        fields.Email,
		IDNumber:     fields.IDNumber,
		PhoneNumber:  fields.PhoneNumber,
		Address:      fields.Address,
		DeliveryType: string(fields.DeliveryType),
		DeliveryTime: string(fields.DeliveryTime),
	}
}
