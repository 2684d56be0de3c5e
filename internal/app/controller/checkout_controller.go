package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/tene-backend/internal/app/model"
	"github.com/ikkim/tene-backend/internal/app/service"
	apperrors "github.com/ikkim/tene-backend/internal/errors"
	"github.com/ikkim/tene-backend/internal/middleware"
	"github.com/ikkim/tene-backend/pkg/orderapi"
)

type CheckoutController struct {
	checkoutService service.CheckoutService
}

func NewCheckoutController(checkoutService service.CheckoutService) *CheckoutController {
	return &CheckoutController{
		checkoutService: checkoutService,
	}
}

// Checkout places an order for the session's cart
// POST /api/v1/checkout
func (ctrl *CheckoutController) Checkout(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	sessionID, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	var fields model.CheckoutFields
	if err := c.ShouldBindJSON(&fields); err != nil {
		log.Warn("Invalid checkout request", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	order, err := ctrl.checkoutService.Checkout(c.Request.Context(), sessionID, fields)
	if err != nil {
		var verr *service.CheckoutValidationError
		switch {
		case errors.As(err, &verr):
			apperrors.RespondWithValidationError(c, verr.Fields)
		case errors.Is(err, service.ErrEmptyCart):
			apperrors.BadRequest(c, apperrors.CartEmpty, "Your cart is empty")
		case errors.Is(err, service.ErrCheckoutInProgress):
			apperrors.Conflict(c, apperrors.ResourceConflict, "Checkout already in progress")
		case errors.Is(err, orderapi.ErrOrderRejected), errors.Is(err, orderapi.ErrInvalidRequest):
			apperrors.UnprocessableEntity(c, apperrors.CheckoutRejected, "The order could not be placed")
		case errors.Is(err, orderapi.ErrNetworkError), errors.Is(err, orderapi.ErrServiceUnavailable):
			apperrors.BadGateway(c, apperrors.CheckoutUnavailable, "Ordering is temporarily unavailable. Please try again later")
		default:
			log.Error("Checkout failed", err, map[string]interface{}{
				"session_id": sessionID,
			})
			apperrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"order": order,
	})
}
