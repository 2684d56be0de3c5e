// Package cart holds a shopper's cart: its line items, the derived totals
// and the confirm-before-remove workflow. Every change is written through
// to a Persistence before listeners are notified.
package cart

import (
	"sync"

	"github.com/ikkim/tene-backend/internal/app/model"
	"github.com/ikkim/tene-backend/internal/pricing"
	"github.com/shopspring/decimal"
)

// State is a point-in-time copy of a cart
type State struct {
	Items         []model.LineItem
	Deletion      DeletionState
	ItemCount     int
	TotalPrice    decimal.Decimal
	TotalDiscount decimal.Decimal
}

// Listener receives the cart state after each change
type Listener func(State)

type Store struct {
	mu          sync.Mutex
	items       []model.LineItem
	deletion    DeletionState
	persistence Persistence

	listeners map[uint64]Listener
	nextID    uint64

	// states waiting for delivery, in mutation order
	pending     []State
	dispatching bool
}

// NewStore hydrates a cart from persistence. A nil persistence keeps the
// cart in memory only.
func NewStore(persistence Persistence) *Store {
	if persistence == nil {
		persistence = NewStoragePersistence(nil, "")
	}
	return &Store{
		items:       normalize(persistence.Load()),
		deletion:    Idle{},
		persistence: persistence,
		listeners:   make(map[uint64]Listener),
	}
}

// AddItem merges into the slot with the same product, color and image, or
// appends a new slot. On merge the new item's fields win and the quantity is
// the sum, capped at the new snapshot's available quantity.
func (s *Store) AddItem(item model.LineItem) {
	s.mutate(func() {
		s.items = addItem(s.items, cloneItem(item))
	})
}

// RemoveItem drops the matching slot; absent slots are ignored
func (s *Store) RemoveItem(productID uint, color, imageID string) {
	s.mutate(func() {
		s.items = removeItem(s.items, productID, color, imageID)
	})
}

// UpdateQuantity sets the slot's quantity, clamped to [1, available]
func (s *Store) UpdateQuantity(productID uint, color, imageID string, quantity int) {
	s.mutate(func() {
		for i := range s.items {
			if s.items[i].Matches(productID, color, imageID) {
				s.items[i].Quantity = clampQuantity(quantity, s.items[i].Product.Quantity)
				return
			}
		}
	})
}

// ClearCart empties the cart
func (s *Store) ClearCart() {
	s.mutate(func() {
		s.items = []model.LineItem{}
	})
}

// OpenDeleteModal asks for confirmation before removing item
func (s *Store) OpenDeleteModal(item model.LineItem) {
	s.transition(func() change {
		s.deletion = ConfirmingRemoval{Item: cloneItem(item)}
		return deletionChanged
	})
}

// CloseDeleteModal abandons a pending removal
func (s *Store) CloseDeleteModal() {
	s.transition(func() change {
		if _, ok := s.deletion.(Idle); ok {
			return noChange
		}
		s.deletion = Idle{}
		return deletionChanged
	})
}

// ConfirmDelete removes the pending item. Without a pending item it does nothing.
func (s *Store) ConfirmDelete() {
	s.transition(func() change {
		pending, ok := PendingItem(s.deletion)
		if !ok {
			return noChange
		}
		s.items = removeItem(s.items, pending.Product.ID, pending.SelectedColor, pending.SelectedImageID)
		s.deletion = Idle{}
		return itemsChanged
	})
}

// Items returns a copy of the cart lines in insertion order
func (s *Store) Items() []model.LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneItems(s.items)
}

// Deletion returns the removal workflow state
func (s *Store) Deletion() DeletionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deletion
}

func (s *Store) ItemCount() int {
	return pricing.ItemCount(s.Items())
}

func (s *Store) TotalPrice() decimal.Decimal {
	return pricing.TotalPrice(s.Items())
}

func (s *Store) TotalDiscount() decimal.Decimal {
	return pricing.TotalDiscount(s.Items())
}

// GetState returns the items, the removal state and the derived totals
func (s *Store) GetState() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

// Subscribe registers l for change notifications and returns its cancel func
func (s *Store) Subscribe(l Listener) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

type change int

const (
	noChange change = iota
	deletionChanged
	itemsChanged
)

// mutate applies an item change, writes it through and notifies
func (s *Store) mutate(fn func()) {
	s.transition(func() change {
		fn()
		return itemsChanged
	})
}

// transition applies fn under the lock. Item changes are saved before the
// lock is released, so saves land in mutation order. States are queued in the
// same order and delivered by a single dispatcher; a mutation made while
// another call is dispatching (including from a listener) is delivered by that
// call. Listeners run outside the lock and may read or mutate the store.
func (s *Store) transition(fn func() change) {
	s.mu.Lock()
	c := fn()
	if c == noChange {
		s.mu.Unlock()
		return
	}
	if c == itemsChanged {
		s.persistence.Save(cloneItems(s.items))
	}
	s.pending = append(s.pending, s.stateLocked())
	if s.dispatching {
		s.mu.Unlock()
		return
	}
	s.dispatching = true
	s.mu.Unlock()

	s.dispatch()
}

// dispatch drains the pending queue; only one goroutine runs it at a time
func (s *Store) dispatch() {
	for {
		s.mu.Lock()
		if len(s.pending) == 0 {
			s.dispatching = false
			s.mu.Unlock()
			return
		}
		state := s.pending[0]
		s.pending = s.pending[1:]
		listeners := make([]Listener, 0, len(s.listeners))
		for _, l := range s.listeners {
			listeners = append(listeners, l)
		}
		s.mu.Unlock()

		for _, l := range listeners {
			l(state)
		}
	}
}

func (s *Store) stateLocked() State {
	items := cloneItems(s.items)
	return State{
		Items:         items,
		Deletion:      s.deletion,
		ItemCount:     pricing.ItemCount(items),
		TotalPrice:    pricing.TotalPrice(items),
		TotalDiscount: pricing.TotalDiscount(items),
	}
}

func addItem(items []model.LineItem, item model.LineItem) []model.LineItem {
	for i := range items {
		if items[i].Matches(item.Product.ID, item.SelectedColor, item.SelectedImageID) {
			merged := item
			merged.Quantity = clampQuantity(items[i].Quantity+item.Quantity, item.Product.Quantity)
			items[i] = merged
			return items
		}
	}
	item.Quantity = clampQuantity(item.Quantity, item.Product.Quantity)
	return append(items, item)
}

func removeItem(items []model.LineItem, productID uint, color, imageID string) []model.LineItem {
	kept := items[:0]
	for _, item := range items {
		if !item.Matches(productID, color, imageID) {
			kept = append(kept, item)
		}
	}
	return kept
}

// clampQuantity bounds q to [1, available]; the floor wins when nothing is available
func clampQuantity(q, available int) int {
	if q > available {
		q = available
	}
	if q < 1 {
		q = 1
	}
	return q
}

// normalize folds duplicate slots and clamps quantities of a loaded cart
func normalize(items []model.LineItem) []model.LineItem {
	out := make([]model.LineItem, 0, len(items))
	for _, item := range items {
		out = addItem(out, item)
	}
	return out
}

func cloneItem(item model.LineItem) model.LineItem {
	item.Product.Colors = cloneStrings(item.Product.Colors)
	item.Product.ImageIDs = cloneStrings(item.Product.ImageIDs)
	return item
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func cloneItems(items []model.LineItem) []model.LineItem {
	out := make([]model.LineItem, len(items))
	for i, item := range items {
		out[i] = cloneItem(item)
	}
	return out
}
