package repository

import (
	"context"

	"github.com/sgubproject/listd/internal/model"
)

// ItemRepository manages a user's personal item collection. Every operation
// is scoped to the given user id; no call can observe another user's items.
type ItemRepository interface {
	// List returns the user's items, empty if they have none.
	List(ctx context.Context, userID string) ([]model.Item, error)
	// Add appends a new item to the user's collection.
	Add(ctx context.Context, userID, text string) (*model.Item, error)
	// Update replaces the text of an item in the user's collection.
	Update(ctx context.Context, userID, itemID, text string) (*model.Item, error)
	// Remove deletes an item from the user's collection.
	Remove(ctx context.Context, userID, itemID string) error
}
