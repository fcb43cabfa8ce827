package services

import (
	"context"
	"fmt"

	"pethaul/internal/models"
	"pethaul/internal/repositories"
)

// ItemService handles business logic related to the catalog.
type ItemService struct {
	repo repositories.ItemRepository
}

// NewItemService creates a new ItemService.
func NewItemService(repo repositories.ItemRepository) *ItemService {
	return &ItemService{
		repo: repo,
	}
}

// ListItems retrieves one page of items and its pagination metadata.
func (s *ItemService) ListItems(ctx context.Context, filter repositories.ItemFilter) ([]models.Item, models.Pagination, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 10
	}
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, models.Pagination{}, err
	}
	return items, models.NewPagination(total, filter.Page, filter.Limit), nil
}

// GetItem retrieves a single item by its ID.
func (s *ItemService) GetItem(ctx context.Context, id string) (*models.Item, error) {
	return s.repo.GetByID(ctx, id)
}

func markRepresentative(images []models.ItemImage) {
	for i := range images {
		images[i].Representative = i == 0
	}
}

// CreateItem creates a new item. The first image becomes the representative one.
func (s *ItemService) CreateItem(ctx context.Context, item *models.Item) error {
	if item.StockNumber < 0 || item.Price < 0 {
		return fmt.Errorf("price and stock must not be negative: %w", ErrInvalidRequest)
	}
	markRepresentative(item.Images)
	return s.repo.Create(ctx, item)
}

// UpdateItem updates an existing item.
func (s *ItemService) UpdateItem(ctx context.Context, item *models.Item) error {
	if item.StockNumber < 0 || item.Price < 0 {
		return fmt.Errorf("price and stock must not be negative: %w", ErrInvalidRequest)
	}
	if item.SellStatus == "" {
		item.SellStatus = models.SellStatusSell
	}
	markRepresentative(item.Images)
	return s.repo.Update(ctx, item)
}

// DeleteItem deletes an item by its ID.
func (s *ItemService) DeleteItem(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
