package service

import (
	"context"
	"strings"

	"github.com/sgubproject/listd/internal/errs"
	"github.com/sgubproject/listd/internal/model"
	"github.com/sgubproject/listd/internal/repository"
)

// ItemService defines operations over the caller's own item list. Text is
// bounded by the configured maximum; longer input is truncated and reported.
type ItemService interface {
	// List returns the caller's items.
	List(ctx context.Context, userID string) ([]model.Item, error)
	// Add appends an item, reporting whether the text was truncated.
	Add(ctx context.Context, userID, text string) (*model.Item, bool, error)
	// Update replaces an item's text, reporting whether it was truncated.
	Update(ctx context.Context, userID, itemID, text string) (*model.Item, bool, error)
	// Remove deletes an item.
	Remove(ctx context.Context, userID, itemID string) error
}

type ItemServiceImpl struct {
	repo       repository.ItemRepository
	maxTextLen int
}

var _ ItemService = (*ItemServiceImpl)(nil)

// NewItemService constructs ItemService with the text length policy.
func NewItemService(repo repository.ItemRepository, maxTextLen int) *ItemServiceImpl {
	if maxTextLen <= 0 {
		maxTextLen = 512
	}
	return &ItemServiceImpl{repo: repo, maxTextLen: maxTextLen}
}

// boundText validates and length-bounds item text.
func (s *ItemServiceImpl) boundText(text string) (string, bool, error) {
	if strings.TrimSpace(text) == "" {
		return "", false, errs.New(errs.Validation, "text required")
	}
	r := []rune(text)
	if len(r) > s.maxTextLen {
		return string(r[:s.maxTextLen]), true, nil
	}
	return text, false, nil
}

// List returns the caller's items.
func (s *ItemServiceImpl) List(ctx context.Context, userID string) ([]model.Item, error) {
	return s.repo.List(ctx, userID)
}

// Add appends an item to the caller's list.
func (s *ItemServiceImpl) Add(ctx context.Context, userID, text string) (*model.Item, bool, error) {
	text, truncated, err := s.boundText(text)
	if err != nil {
		return nil, false, err
	}
	it, err := s.repo.Add(ctx, userID, text)
	return it, truncated, err
}

// Update replaces an item's text within the caller's list only.
func (s *ItemServiceImpl) Update(ctx context.Context, userID, itemID, text string) (*model.Item, bool, error) {
	if itemID == "" {
		return nil, false, errs.New(errs.Validation, "id required")
	}
	text, truncated, err := s.boundText(text)
	if err != nil {
		return nil, false, err
	}
	it, err := s.repo.Update(ctx, userID, itemID, text)
	return it, truncated, err
}

// Remove deletes an item from the caller's list.
func (s *ItemServiceImpl) Remove(ctx context.Context, userID, itemID string) error {
	if itemID == "" {
		return errs.New(errs.Validation, "id required")
	}
	return s.repo.Remove(ctx, userID, itemID)
}
