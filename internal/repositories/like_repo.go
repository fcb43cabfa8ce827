package repositories

import (
	"context"
	"fmt"

	"pethaul/internal/models"

	"gorm.io/gorm"
)

// LikeRepository defines the interface for like data access.
type LikeRepository interface {
	Toggle(ctx context.Context, userID, itemID string) (bool, error)
	Items(ctx context.Context, userID string) ([]models.Item, error)
}

// GORMLikeRepository is a GORM implementation of LikeRepository.
type GORMLikeRepository struct {
	db *gorm.DB
}

func NewGORMLikeRepository(db *gorm.DB) *GORMLikeRepository {
	return &GORMLikeRepository{db: db}
}

// Toggle removes the like when present and creates it otherwise. It reports
// whether the item is liked afterwards.
func (r *GORMLikeRepository) Toggle(ctx context.Context, userID, itemID string) (bool, error) {
	liked := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND item_id = ?", userID, itemID).Delete(&models.Like{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}
		liked = true
		return tx.Omit("Item").Create(&models.Like{UserID: userID, ItemID: itemID}).Error
	})
	if err != nil {
		return false, fmt.Errorf("failed to toggle like of item %s: %w", itemID, err)
	}
	return liked, nil
}

// Items returns the items a user liked, most recent first.
func (r *GORMLikeRepository) Items(ctx context.Context, userID string) ([]models.Item, error) {
	var likes []models.Like
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Preload("Item").
		Preload("Item.Images").
		Order("created_at DESC").
		Find(&likes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list likes of user %s: %w", userID, err)
	}

	items := make([]models.Item, 0, len(likes))
	for _, like := range likes {
		if like.Item != nil {
			items = append(items, *like.Item)
		}
	}
	return items, nil
}
