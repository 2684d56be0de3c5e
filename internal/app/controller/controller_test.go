package controller

import (
	"bytes"
	"context"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/ikkim/tene-backend/internal/app/model"
	"github.com/ikkim/tene-backend/internal/app/repository"
	"github.com/ikkim/tene-backend/internal/app/service"
	"github.com/ikkim/tene-backend/internal/cart"
	"github.com/ikkim/tene-backend/internal/db"
	"github.com/ikkim/tene-backend/internal/middleware"
	"github.com/ikkim/tene-backend/pkg/orderapi"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

const testSession = "device-test-1"

type stubOrderPlacer struct {
	calls int
	resp  *orderapi.CheckoutResponse
	err   error
}

func (s *stubOrderPlacer) Checkout(_ context.Context, _ orderapi.CheckoutRequest) (*orderapi.CheckoutResponse, error) {
	s.calls++
	return s.resp, s.err
}

type testServer struct {
	router   *gin.Engine
	products service.ProductService
	carts    service.CartService
	orders   *stubOrderPlacer
	bin      *model.Product
}

func setupControllerTest(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	storage := cart.NewMemoryStorage()
	registry := cart.NewRegistry(func(sessionID string) cart.Persistence {
		return cart.NewStoragePersistence(storage, cart.SessionKey(cart.DefaultStorageKey, sessionID))
	})

	productService := service.NewProductService(repository.NewProductRepository(testDB))
	cartService := service.NewCartService(registry, productService, 5, nil)
	orders := &stubOrderPlacer{resp: &orderapi.CheckoutResponse{OrderID: "ord-1", Status: "pending", Amount: 15700}}
	checkoutService := service.NewCheckoutService(registry, orders)

	bin := &model.Product{
		Name:        "Pedal Bin 30L",
		Price:       76,
		Colors:      pq.StringArray{"black", "white"},
		Quantity:    5,
		ImageIDs:    pq.StringArray{"img-black", "img-white"},
		ProductType: model.ProductTypeBin,
	}
	require.NoError(t, productService.CreateProduct(bin))

	productController := NewProductController(productService)
	cartController := NewCartController(cartService)
	checkoutController := NewCheckoutController(checkoutService)

	router := gin.New()
	router.Use(middleware.CartSession(false))
	router.GET("/products", productController.GetAllProducts)
	router.GET("/products/:id", productController.GetProductByID)
	router.GET("/cart", cartController.GetCart)
	router.DELETE("/cart", cartController.ClearCart)
	router.POST("/cart/items", cartController.AddToCart)
	router.PUT("/cart/items", cartController.UpdateCartItem)
	router.DELETE("/cart/items", cartController.RemoveFromCart)
	router.POST("/cart/deletion", cartController.OpenDeletion)
	router.DELETE("/cart/deletion", cartController.CancelDeletion)
	router.POST("/cart/deletion/confirm", cartController.ConfirmDeletion)
	router.POST("/checkout", checkoutController.Checkout)

	return &testServer{
		router:   router,
		products: productService,
		carts:    cartService,
		orders:   orders,
		bin:      bin,
	}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.SessionHeader, testSession)

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}
