package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/tene-backend/config"
	"github.com/ikkim/tene-backend/internal/app/controller"
	"github.com/ikkim/tene-backend/internal/middleware"
)

type Router struct {
	productController    *controller.ProductController
	cartController       *controller.CartController
	checkoutController   *controller.CheckoutController
	cartStreamController *controller.CartStreamController
	config               *config.Config
}

func NewRouter(
	productController *controller.ProductController,
	cartController *controller.CartController,
	checkoutController *controller.CheckoutController,
	cartStreamController *controller.CartStreamController,
	cfg *config.Config,
) *Router {
	return &Router{
		productController:    productController,
		cartController:       cartController,
		checkoutController:   checkoutController,
		cartStreamController: cartStreamController,
		config:               cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORS(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "tene cart API is running",
			"storage": r.config.Cart.Storage,
		})
	})

	v1 := router.Group("/api/v1")
	{
		products := v1.Group("/products")
		{
			products.GET("", r.productController.GetAllProducts)
			products.GET("/:id", r.productController.GetProductByID)
		}

		session := middleware.CartSession(r.config.Server.Environment == "production")

		cart := v1.Group("/cart", session)
		{
			cart.GET("", r.cartController.GetCart)
			cart.DELETE("", r.cartController.ClearCart)
			cart.POST("/items", r.cartController.AddToCart)
			cart.PUT("/items", r.cartController.UpdateCartItem)
			cart.DELETE("/items", r.cartController.RemoveFromCart)
			cart.POST("/deletion", r.cartController.OpenDeletion)
			cart.DELETE("/deletion", r.cartController.CancelDeletion)
			cart.POST("/deletion/confirm", r.cartController.ConfirmDeletion)
			cart.GET("/ws", r.cartStreamController.Stream)
		}

		v1.POST("/checkout", session, r.checkoutController.Checkout)
	}

	return router
}
