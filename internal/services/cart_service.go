package services

import (
	"context"
	"fmt"

	"pethaul/internal/models"
	"pethaul/internal/repositories"
)

// CartService manages the shopping cart of the caller.
type CartService struct {
	carts repositories.CartRepository
	items repositories.ItemRepository
}

func NewCartService(carts repositories.CartRepository, items repositories.ItemRepository) *CartService {
	return &CartService{carts: carts, items: items}
}

func (s *CartService) Items(ctx context.Context, principal models.Principal) ([]models.CartItem, error) {
	return s.carts.Items(ctx, principal.UserID)
}

// Add puts count units of an item in the cart, on top of what is already there.
func (s *CartService) Add(ctx context.Context, principal models.Principal, itemID string, count int) error {
	if itemID == "" || count <= 0 {
		return fmt.Errorf("itemId and a positive count are required: %w", ErrInvalidRequest)
	}
	if _, err := s.items.GetByID(ctx, itemID); err != nil {
		return err
	}
	return s.carts.Add(ctx, principal.UserID, itemID, count)
}

func (s *CartService) Update(ctx context.Context, principal models.Principal, itemID string, count int) error {
	if count <= 0 {
		return fmt.Errorf("count must be a positive integer: %w", ErrInvalidRequest)
	}
	return s.carts.SetCount(ctx, principal.UserID, itemID, count)
}

func (s *CartService) Remove(ctx context.Context, principal models.Principal, itemID string) error {
	return s.carts.Remove(ctx, principal.UserID, itemID)
}
