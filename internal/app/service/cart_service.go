package service

import (
	"errors"

	"github.com/ikkim/tene-backend/internal/app/model"
	"github.com/ikkim/tene-backend/internal/cart"
	"github.com/ikkim/tene-backend/internal/pricing"
	"github.com/ikkim/tene-backend/pkg/logger"
	"github.com/shopspring/decimal"
)

var (
	ErrCartItemNotFound = errors.New("cart item not found")
	ErrInvalidVariant   = errors.New("color or image is not offered by the product")
	ErrOutOfStock       = errors.New("product is out of stock")
)

// AddItemInput is what the storefront sends when a product is put in the cart
type AddItemInput struct {
	ProductID uint
	Quantity  int
	Color     string
	ImageID   string
}

// PriceSummary is the price block of a cart view
type PriceSummary struct {
	ItemCount  int     `json:"item_count"`
	Subtotal   float64 `json:"subtotal"`
	Discount   float64 `json:"discount"`
	Total      float64 `json:"total"`
	Delivery   float64 `json:"delivery"`
	GrandTotal float64 `json:"grand_total"`
}

// CartLine is a line item with its computed prices
type CartLine struct {
	model.LineItem
	UnitPrice float64 `json:"unit_price"`
	LineTotal float64 `json:"line_total"`
}

// CartView is the cart as the storefront renders it
type CartView struct {
	Items          []CartLine      `json:"items"`
	Summary        PriceSummary    `json:"summary"`
	PendingRemoval *model.LineItem `json:"pending_removal"`
}

// Broadcaster pushes a payload to every connection of a session
type Broadcaster interface {
	SendToSession(sessionID string, payload interface{}) error
}

type CartService interface {
	GetCart(sessionID string) CartView
	AddItem(sessionID string, input AddItemInput) (CartView, error)
	UpdateQuantity(sessionID string, key model.ItemKey, quantity int) CartView
	RemoveItem(sessionID string, key model.ItemKey) CartView
	ClearCart(sessionID string) CartView
	OpenDeleteModal(sessionID string, key model.ItemKey) (CartView, error)
	CloseDeleteModal(sessionID string) CartView
	ConfirmDelete(sessionID string) CartView
}

type cartService struct {
	registry       *cart.Registry
	productService ProductService
	delivery       decimal.Decimal
}

// NewCartService serves carts from registry. When broadcaster is non-nil every
// cart change is pushed to the session's live connections.
func NewCartService(registry *cart.Registry, productService ProductService, deliveryPrice float64, broadcaster Broadcaster) CartService {
	s := &cartService{
		registry:       registry,
		productService: productService,
		delivery:       decimal.NewFromFloat(deliveryPrice),
	}

	if broadcaster != nil {
		registry.OnCreate(func(sessionID string, store *cart.Store) {
			store.Subscribe(func(state cart.State) {
				if err := broadcaster.SendToSession(sessionID, s.view(state)); err != nil {
					logger.Warn("Failed to broadcast cart update", map[string]interface{}{
						"session_id": sessionID,
						"error":      err.Error(),
					})
				}
			})
		})
	}
	return s
}

func (s *cartService) GetCart(sessionID string) CartView {
	store, release := s.registry.Acquire(sessionID)
	defer release()
	return s.view(store.GetState())
}

func (s *cartService) AddItem(sessionID string, input AddItemInput) (CartView, error) {
	product, err := s.productService.GetProductByID(input.ProductID)
	if err != nil {
		return CartView{}, err
	}

	if !variantOffered(product, input.Color, input.ImageID) {
		logger.Warn("Cannot add to cart: variant not offered", map[string]interface{}{
			"session_id": sessionID,
			"product_id": input.ProductID,
			"color":      input.Color,
			"image_id":   input.ImageID,
		})
		return CartView{}, ErrInvalidVariant
	}
	if product.Quantity < 1 {
		return CartView{}, ErrOutOfStock
	}

	quantity := input.Quantity
	if quantity < 1 {
		quantity = 1
	}
	if quantity > product.Quantity {
		quantity = product.Quantity
	}

	item := model.LineItem{
		Product:         product.Snapshot(),
		Quantity:        quantity,
		SelectedColor:   input.Color,
		SelectedImageID: input.ImageID,
	}
	if input.ImageID != "" {
		item.SelectedImageExtension = product.ImageExtension(input.ImageID)
	}

	store, release := s.registry.Acquire(sessionID)
	defer release()
	store.AddItem(item)

	logger.Info("Item added to cart", map[string]interface{}{
		"session_id": sessionID,
		"product_id": input.ProductID,
		"color":      input.Color,
		"quantity":   quantity,
	})
	return s.view(store.GetState()), nil
}

// variantOffered accepts an empty choice only for products without variants
func variantOffered(product *model.Product, color, imageID string) bool {
	colorOK := product.HasColor(color) || (len(product.Colors) == 0 && color == "")
	imageOK := product.HasImage(imageID) || (len(product.ImageIDs) == 0 && imageID == "")
	return colorOK && imageOK
}

func (s *cartService) UpdateQuantity(sessionID string, key model.ItemKey, quantity int) CartView {
	store, release := s.registry.Acquire(sessionID)
	defer release()
	store.UpdateQuantity(key.ProductID, key.Color, key.ImageID, quantity)
	return s.view(store.GetState())
}

func (s *cartService) RemoveItem(sessionID string, key model.ItemKey) CartView {
	store, release := s.registry.Acquire(sessionID)
	defer release()
	store.RemoveItem(key.ProductID, key.Color, key.ImageID)

	logger.Info("Item removed from cart", map[string]interface{}{
		"session_id": sessionID,
		"product_id": key.ProductID,
		"color":      key.Color,
	})
	return s.view(store.GetState())
}

func (s *cartService) ClearCart(sessionID string) CartView {
	store, release := s.registry.Acquire(sessionID)
	defer release()
	store.ClearCart()

	logger.Info("Cart cleared", map[string]interface{}{
		"session_id": sessionID,
	})
	return s.view(store.GetState())
}

// OpenDeleteModal stages the cart line named by key for removal
func (s *cartService) OpenDeleteModal(sessionID string, key model.ItemKey) (CartView, error) {
	store, release := s.registry.Acquire(sessionID)
	defer release()
	for _, item := range store.Items() {
		if item.Matches(key.ProductID, key.Color, key.ImageID) {
			store.OpenDeleteModal(item)
			return s.view(store.GetState()), nil
		}
	}
	return CartView{}, ErrCartItemNotFound
}

func (s *cartService) CloseDeleteModal(sessionID string) CartView {
	store, release := s.registry.Acquire(sessionID)
	defer release()
	store.CloseDeleteModal()
	return s.view(store.GetState())
}

func (s *cartService) ConfirmDelete(sessionID string) CartView {
	store, release := s.registry.Acquire(sessionID)
	defer release()
	store.ConfirmDelete()
	return s.view(store.GetState())
}

func (s *cartService) view(state cart.State) CartView {
	lines := make([]CartLine, 0, len(state.Items))
	for _, item := range state.Items {
		lines = append(lines, CartLine{
			LineItem:  item,
			UnitPrice: pricing.ItemUnitPrice(item).InexactFloat64(),
			LineTotal: pricing.LineTotal(item).InexactFloat64(),
		})
	}

	summary := pricing.Summarize(state.Items, s.delivery)
	v := CartView{
		Items: lines,
		Summary: PriceSummary{
			ItemCount:  summary.ItemCount,
			Subtotal:   summary.Subtotal.InexactFloat64(),
			Discount:   summary.Discount.InexactFloat64(),
			Total:      summary.Total.InexactFloat64(),
			Delivery:   summary.Delivery.InexactFloat64(),
			GrandTotal: summary.GrandTotal.InexactFloat64(),
		},
	}
	if pending, ok := cart.PendingItem(state.Deletion); ok {
		v.PendingRemoval = &pending
	}
	return v
}
