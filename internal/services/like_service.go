package services

import (
	"context"

	"pethaul/internal/models"
	"pethaul/internal/repositories"
)

// LikeService toggles and lists liked items.
type LikeService struct {
	likes repositories.LikeRepository
	items repositories.ItemRepository
}

func NewLikeService(likes repositories.LikeRepository, items repositories.ItemRepository) *LikeService {
	return &LikeService{likes: likes, items: items}
}

// Toggle likes the item, or removes the like. It reports the new state.
func (s *LikeService) Toggle(ctx context.Context, principal models.Principal, itemID string) (bool, error) {
	if _, err := s.items.GetByID(ctx, itemID); err != nil {
		return false, err
	}
	return s.likes.Toggle(ctx, principal.UserID, itemID)
}

func (s *LikeService) Items(ctx context.Context, principal models.Principal) ([]models.Item, error) {
	return s.likes.Items(ctx, principal.UserID)
}
