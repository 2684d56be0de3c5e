package cart

import (
	"sync"

	"github.com/goccy/go-json"
	"github.com/ikkim/tene-backend/internal/app/model"
	"github.com/ikkim/tene-backend/pkg/logger"
)

// DefaultStorageKey is the key a single-device cart is stored under
const DefaultStorageKey = "tene_cart"

// Persistence is where a Store hydrates from and writes through to.
// Neither method reports failure; a cart that cannot be loaded starts empty.
type Persistence interface {
	Load() []model.LineItem
	Save(items []model.LineItem)
}

// KeyValueStorage is a synchronous string store addressed by key
type KeyValueStorage interface {
	GetItem(key string) (value string, ok bool, err error)
	SetItem(key, value string) error
}

// SessionKey namespaces a storage key per shopper session
func SessionKey(prefix, sessionID string) string {
	if sessionID == "" {
		return prefix
	}
	return prefix + ":" + sessionID
}

type storagePersistence struct {
	storage KeyValueStorage
	key     string
}

// NewStoragePersistence serializes carts as a JSON array under key.
// A nil storage makes every load empty and every save a no-op.
func NewStoragePersistence(storage KeyValueStorage, key string) Persistence {
	return &storagePersistence{storage: storage, key: key}
}

func (p *storagePersistence) Load() []model.LineItem {
	if p.storage == nil {
		return []model.LineItem{}
	}

	raw, ok, err := p.storage.GetItem(p.key)
	if err != nil {
		logger.Warn("Cart storage unavailable, starting with empty cart", map[string]interface{}{
			"key":   p.key,
			"error": err.Error(),
		})
		return []model.LineItem{}
	}
	if !ok || raw == "" {
		return []model.LineItem{}
	}

	var items []model.LineItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		logger.Warn("Discarding unreadable cart payload", map[string]interface{}{
			"key":   p.key,
			"error": err.Error(),
		})
		return []model.LineItem{}
	}
	if items == nil {
		return []model.LineItem{}
	}
	return items
}

func (p *storagePersistence) Save(items []model.LineItem) {
	if p.storage == nil {
		return
	}
	if items == nil {
		items = []model.LineItem{}
	}

	payload, err := json.Marshal(items)
	if err != nil {
		logger.Error("Failed to encode cart", err, map[string]interface{}{
			"key": p.key,
		})
		return
	}

	if err := p.storage.SetItem(p.key, string(payload)); err != nil {
		logger.Error("Failed to save cart", err, map[string]interface{}{
			"key":   p.key,
			"items": len(items),
		})
	}
}

// MemoryStorage keeps values in process memory
type MemoryStorage struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{values: make(map[string]string)}
}

func (m *MemoryStorage) GetItem(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryStorage) SetItem(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}
