package file

import (
	"context"

	"github.com/sgubproject/listd/internal/errs"
	"github.com/sgubproject/listd/internal/model"
	"github.com/sgubproject/listd/internal/repository"
	"github.com/sgubproject/listd/internal/store"
)

// ItemRepo manages per-user item collections over the document store.
type ItemRepo struct {
	store *store.Store
}

var _ repository.ItemRepository = (*ItemRepo)(nil)

// NewItemRepo constructs the repository.
func NewItemRepo(st *store.Store) *ItemRepo {
	return &ItemRepo{store: st}
}

// List returns the user's items, empty if they have none.
func (r *ItemRepo) List(ctx context.Context, userID string) ([]model.Item, error) {
	doc, err := r.store.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	items := doc.ItemsByUserID[userID]
	if items == nil {
		items = []model.Item{}
	}
	return items, nil
}

// Add appends a new item to the user's collection.
func (r *ItemRepo) Add(ctx context.Context, userID, text string) (*model.Item, error) {
	created := model.Item{ID: newID(), Text: text}
	_, err := r.store.Mutate(ctx, func(doc *model.Document) error {
		doc.ItemsByUserID[userID] = append(doc.ItemsByUserID[userID], created)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// Update replaces the text of an item within the user's collection only.
// An id belonging to another user is a not-found, never a cross-user write.
func (r *ItemRepo) Update(ctx context.Context, userID, itemID, text string) (*model.Item, error) {
	var updated model.Item
	_, err := r.store.Mutate(ctx, func(doc *model.Document) error {
		items := doc.ItemsByUserID[userID]
		for i := range items {
			if items[i].ID == itemID {
				items[i].Text = text
				updated = items[i]
				return nil
			}
		}
		return errs.New(errs.NotFound, "item not found")
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Remove deletes an item from the user's collection.
func (r *ItemRepo) Remove(ctx context.Context, userID, itemID string) error {
	_, err := r.store.Mutate(ctx, func(doc *model.Document) error {
		items := doc.ItemsByUserID[userID]
		kept := items[:0]
		for i := range items {
			if items[i].ID != itemID {
				kept = append(kept, items[i])
			}
		}
		if len(kept) == len(items) {
			return errs.New(errs.NotFound, "item not found")
		}
		doc.ItemsByUserID[userID] = kept
		return nil
	})
	return err
}
