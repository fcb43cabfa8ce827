package repositories

import (
	"context"
	"errors"
	"fmt"

	"pethaul/internal/models"

	"gorm.io/gorm"
)

// CartRepository defines the interface for cart data access.
type CartRepository interface {
	Items(ctx context.Context, userID string) ([]models.CartItem, error)
	Add(ctx context.Context, userID, itemID string, count int) error
	SetCount(ctx context.Context, userID, itemID string, count int) error
	Remove(ctx context.Context, userID, itemID string) error
}

// GORMCartRepository is a GORM implementation of CartRepository.
type GORMCartRepository struct {
	db *gorm.DB
}

func NewGORMCartRepository(db *gorm.DB) *GORMCartRepository {
	return &GORMCartRepository{db: db}
}

// Items returns the cart lines of a user with item and images. A user without
// a cart has no lines.
func (r *GORMCartRepository) Items(ctx context.Context, userID string) ([]models.CartItem, error) {
	var lines []models.CartItem
	err := r.db.WithContext(ctx).
		Joins("JOIN carts ON carts.id = cart_items.cart_id").
		Where("carts.user_id = ?", userID).
		Preload("Item").
		Preload("Item.Images").
		Order("cart_items.updated_at DESC").
		Find(&lines).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list cart of user %s: %w", userID, err)
	}
	return lines, nil
}

// Add creates the cart if needed and adds count units of itemID to it.
func (r *GORMCartRepository) Add(ctx context.Context, userID, itemID string, count int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cart := models.Cart{UserID: userID}
		if err := tx.Where("user_id = ?", userID).FirstOrCreate(&cart).Error; err != nil {
			return fmt.Errorf("failed to get cart of user %s: %w", userID, err)
		}

		var line models.CartItem
		err := tx.Where("cart_id = ? AND item_id = ?", cart.ID, itemID).First(&line).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			line = models.CartItem{CartID: cart.ID, ItemID: itemID, Count: count}
			if err := tx.Omit("Item").Create(&line).Error; err != nil {
				return fmt.Errorf("failed to add item %s to cart: %w", itemID, err)
			}
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read cart line: %w", err)
		}
		if err := tx.Model(&line).UpdateColumn("count", gorm.Expr("count + ?", count)).Error; err != nil {
			return fmt.Errorf("failed to add item %s to cart: %w", itemID, err)
		}
		return nil
	})
}

// SetCount overwrites the count of an existing line.
func (r *GORMCartRepository) SetCount(ctx context.Context, userID, itemID string, count int) error {
	res := r.db.WithContext(ctx).
		Model(&models.CartItem{}).
		Where("item_id = ? AND cart_id IN (?)", itemID, r.db.Model(&models.Cart{}).Select("id").Where("user_id = ?", userID)).
		Update("count", count)
	if res.Error != nil {
		return fmt.Errorf("failed to update cart line: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("cart item %s: %w", itemID, ErrNotFound)
	}
	return nil
}

// Remove deletes a line from the cart.
func (r *GORMCartRepository) Remove(ctx context.Context, userID, itemID string) error {
	res := r.db.WithContext(ctx).
		Where("item_id = ? AND cart_id IN (?)", itemID, r.db.Model(&models.Cart{}).Select("id").Where("user_id = ?", userID)).
		Delete(&models.CartItem{})
	if res.Error != nil {
		return fmt.Errorf("failed to remove cart line: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("cart item %s: %w", itemID, ErrNotFound)
	}
	return nil
}
