package service

import (
	"sync"
	"testing"

	"github.com/ikkim/tene-backend/internal/app/model"
	"github.com/ikkim/tene-backend/internal/app/repository"
	"github.com/ikkim/tene-backend/internal/cart"
	"github.com/ikkim/tene-backend/internal/db"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	products ProductService
	registry *cart.Registry
	storage  *cart.MemoryStorage
}

func setupServiceTest(t *testing.T) *testEnv {
	t.Helper()
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	storage := cart.NewMemoryStorage()
	registry := cart.NewRegistry(func(sessionID string) cart.Persistence {
		return cart.NewStoragePersistence(storage, cart.SessionKey(cart.DefaultStorageKey, sessionID))
	})

	return &testEnv{
		products: NewProductService(repository.NewProductRepository(testDB)),
		registry: registry,
		storage:  storage,
	}
}

func (e *testEnv) createBin(t *testing.T, quantity int) *model.Product {
	t.Helper()
	product := &model.Product{
		Name:            "Pedal Bin 30L",
		Price:           76,
		Discount:        0,
		Colors:          pq.StringArray{"black", "white"},
		Quantity:        quantity,
		ImageIDs:        pq.StringArray{"img-black", "img-white"},
		ImageExtensions: map[string]string{"img-black": "png"},
		ProductType:     model.ProductTypeBin,
	}
	require.NoError(t, e.products.CreateProduct(product))
	return product
}

func (e *testEnv) createBox(t *testing.T) *model.Product {
	t.Helper()
	product := &model.Product{
		Name:        "Storage Box 12L",
		Price:       137.17,
		Discount:    10,
		Quantity:    40,
		ProductType: model.ProductTypeContainer,
	}
	require.NoError(t, e.products.CreateProduct(product))
	return product
}

type recordingBroadcaster struct {
	mu       sync.Mutex
	sessions []string
	payloads []interface{}
}

func (b *recordingBroadcaster) SendToSession(sessionID string, payload interface{}) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sessions = append(b.sessions, sessionID)
	b.payloads = append(b.payloads, payload)
	return nil
}

func (b *recordingBroadcaster) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.payloads)
}
