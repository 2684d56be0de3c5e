package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/tene-backend/internal/app/model"
	"github.com/ikkim/tene-backend/internal/app/service"
	apperrors "github.com/ikkim/tene-backend/internal/errors"
	"github.com/ikkim/tene-backend/internal/middleware"
)

type CartController struct {
	cartService service.CartService
}

func NewCartController(cartService service.CartService) *CartController {
	return &CartController{
		cartService: cartService,
	}
}

type AddToCartRequest struct {
	ProductID uint   `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"gte=0"`
	Color     string `json:"color"`
	ImageID   string `json:"image_id"`
}

type UpdateCartRequest struct {
	model.ItemKey
	Quantity int `json:"quantity"`
}

// sessionOrAbort is set by middleware.CartSession on every cart route
func sessionOrAbort(c *gin.Context) (string, bool) {
	sessionID, ok := middleware.GetSessionID(c)
	if !ok {
		apperrors.InternalError(c, "Cart session missing")
	}
	return sessionID, ok
}

// GetCart returns the session's cart
// GET /api/v1/cart
func (ctrl *CartController) GetCart(c *gin.Context) {
	sessionID, ok := sessionOrAbort(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, ctrl.cartService.GetCart(sessionID))
}

// AddToCart puts a product variant in the cart
// POST /api/v1/cart/items
func (ctrl *CartController) AddToCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	sessionID, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid add to cart request", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	view, err := ctrl.cartService.AddItem(sessionID, service.AddItemInput{
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
		Color:     req.Color,
		ImageID:   req.ImageID,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			apperrors.NotFound(c, apperrors.CartProductNotFound, "Product not found")
		case errors.Is(err, service.ErrInvalidVariant):
			apperrors.BadRequest(c, apperrors.CartInvalidVariant, "Selected color or image is not available for this product")
		case errors.Is(err, service.ErrOutOfStock):
			apperrors.Conflict(c, apperrors.CartOutOfStock, "Product is out of stock")
		default:
			log.Error("Failed to add item to cart", err, map[string]interface{}{
				"session_id": sessionID,
				"product_id": req.ProductID,
			})
			info := apperrors.ParseError(err, "cart")
			apperrors.RespondWithError(c, http.StatusInternalServerError, info.Code, info.Message)
		}
		return
	}

	c.JSON(http.StatusOK, view)
}

// UpdateCartItem sets the quantity of a cart line
// PUT /api/v1/cart/items
func (ctrl *CartController) UpdateCartItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	sessionID, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	var req UpdateCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid update cart request", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	c.JSON(http.StatusOK, ctrl.cartService.UpdateQuantity(sessionID, req.ItemKey, req.Quantity))
}

// RemoveFromCart drops a cart line
// DELETE /api/v1/cart/items?product_id=&color=&image_id=
func (ctrl *CartController) RemoveFromCart(c *gin.Context) {
	sessionID, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	var key model.ItemKey
	if err := c.ShouldBindQuery(&key); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "product_id is required")
		return
	}

	c.JSON(http.StatusOK, ctrl.cartService.RemoveItem(sessionID, key))
}

// ClearCart empties the cart
// DELETE /api/v1/cart
func (ctrl *CartController) ClearCart(c *gin.Context) {
	sessionID, ok := sessionOrAbort(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, ctrl.cartService.ClearCart(sessionID))
}

// OpenDeletion stages a cart line for removal
// POST /api/v1/cart/deletion
func (ctrl *CartController) OpenDeletion(c *gin.Context) {
	sessionID, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	var key model.ItemKey
	if err := c.ShouldBindJSON(&key); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	view, err := ctrl.cartService.OpenDeleteModal(sessionID, key)
	if err != nil {
		if errors.Is(err, service.ErrCartItemNotFound) {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "Cart item not found")
			return
		}
		apperrors.InternalError(c, "")
		return
	}
	c.JSON(http.StatusOK, view)
}

// CancelDeletion dismisses the pending removal
// DELETE /api/v1/cart/deletion
func (ctrl *CartController) CancelDeletion(c *gin.Context) {
	sessionID, ok := sessionOrAbort(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, ctrl.cartService.CloseDeleteModal(sessionID))
}

// ConfirmDeletion removes the pending cart line
// POST /api/v1/cart/deletion/confirm
func (ctrl *CartController) ConfirmDeletion(c *gin.Context) {
	sessionID, ok := sessionOrAbort(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, ctrl.cartService.ConfirmDelete(sessionID))
}
