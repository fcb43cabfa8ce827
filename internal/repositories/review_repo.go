package repositories

import (
	"context"
	"errors"
	"fmt"

	"pethaul/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReviewRepository defines the interface for review data access.
type ReviewRepository interface {
	ListByUser(ctx context.Context, userID string) ([]models.Review, error)
	GetByID(ctx context.Context, id string) (*models.Review, error)
	Create(ctx context.Context, review *models.Review) error
	Update(ctx context.Context, review *models.Review) error
}

// GORMReviewRepository is a GORM implementation of ReviewRepository.
type GORMReviewRepository struct {
	db *gorm.DB
}

func NewGORMReviewRepository(db *gorm.DB) *GORMReviewRepository {
	return &GORMReviewRepository{db: db}
}

// ListByUser returns the reviews written by userID, newest first, with the
// reviewed item and its images. Items removed from the catalog still show.
func (r *GORMReviewRepository) ListByUser(ctx context.Context, userID string) ([]models.Review, error) {
	var reviews []models.Review
	err := r.db.WithContext(ctx).
		Preload("Images").
		Preload("Item", func(db *gorm.DB) *gorm.DB {
			return db.Unscoped()
		}).
		Preload("Item.Images").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews of user %s: %w", userID, err)
	}
	return reviews, nil
}

func (r *GORMReviewRepository) GetByID(ctx context.Context, id string) (*models.Review, error) {
	var review models.Review
	if err := r.db.WithContext(ctx).Preload("Images").First(&review, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("review with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get review by ID %s: %w", id, err)
	}
	return &review, nil
}

// Create inserts the review and its images.
func (r *GORMReviewRepository) Create(ctx context.Context, review *models.Review) error {
	if err := r.db.WithContext(ctx).Omit("Item", "User").Create(review).Error; err != nil {
		return fmt.Errorf("failed to create review: %w", err)
	}
	return nil
}

// Update overwrites the date, content and rating. When images are given
// they replace the existing ones.
func (r *GORMReviewRepository) Update(ctx context.Context, review *models.Review) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Review{}).Where("id = ?", review.ID).
			Select("review_date", "content", "rating", "updated_at").
			Updates(review)
		if res.Error != nil {
			return fmt.Errorf("failed to update review: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("review with ID %s: %w", review.ID, ErrNotFound)
		}
		if review.Images == nil {
			return nil
		}
		if err := tx.Where("review_id = ?", review.ID).Delete(&models.ReviewImage{}).Error; err != nil {
			return fmt.Errorf("failed to replace images of review %s: %w", review.ID, err)
		}
		if len(review.Images) == 0 {
			return nil
		}
		for i := range review.Images {
			review.Images[i].ID = ""
			review.Images[i].ReviewID = review.ID
		}
		if err := tx.Omit(clause.Associations).Create(&review.Images).Error; err != nil {
			return fmt.Errorf("failed to replace images of review %s: %w", review.ID, err)
		}
		return nil
	})
}
