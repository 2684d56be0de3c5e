package cart

import "github.com/ikkim/tene-backend/internal/app/model"

// DeletionState is the two-step removal workflow: Idle or ConfirmingRemoval.
type DeletionState interface {
	deletionState()
}

// Idle means no removal is awaiting confirmation
type Idle struct{}

// ConfirmingRemoval holds the item the shopper was asked about
type ConfirmingRemoval struct {
	Item model.LineItem
}

func (Idle) deletionState()              {}
func (ConfirmingRemoval) deletionState() {}

// PendingItem returns the item awaiting confirmation, if any
func PendingItem(state DeletionState) (model.LineItem, bool) {
	if c, ok := state.(ConfirmingRemoval); ok {
		return c.Item, true
	}
	return model.LineItem{}, false
}
