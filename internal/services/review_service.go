package services

import (
	"context"
	"fmt"
	"time"

	"pethaul/internal/models"
	"pethaul/internal/repositories"
)

// ReviewService handles item reviews.
type ReviewService struct {
	reviews repositories.ReviewRepository
	items   repositories.ItemRepository
	now     func() time.Time
}

func NewReviewService(reviews repositories.ReviewRepository, items repositories.ItemRepository) *ReviewService {
	return &ReviewService{reviews: reviews, items: items, now: time.Now}
}

func (s *ReviewService) validate(review *models.Review) error {
	if review.Content == "" {
		return fmt.Errorf("reviewContent is required: %w", ErrInvalidRequest)
	}
	if review.Rating < 1 || review.Rating > 5 {
		return fmt.Errorf("rating must be between 1 and 5 (got %d): %w", review.Rating, ErrInvalidRequest)
	}
	if review.ReviewDate.IsZero() {
		review.ReviewDate = s.now()
	}
	return nil
}

// Create stores a review of an existing item written by the caller.
func (s *ReviewService) Create(ctx context.Context, principal models.Principal, review *models.Review) error {
	if review.ItemID == "" {
		return fmt.Errorf("itemId is required: %w", ErrInvalidRequest)
	}
	if err := s.validate(review); err != nil {
		return err
	}
	if _, err := s.items.GetByID(ctx, review.ItemID); err != nil {
		return err
	}
	review.ID = ""
	review.UserID = principal.UserID
	return s.reviews.Create(ctx, review)
}

// Update edits one of the caller's reviews. The reviewed item never changes.
func (s *ReviewService) Update(ctx context.Context, principal models.Principal, id string, review *models.Review) error {
	if err := s.validate(review); err != nil {
		return err
	}
	existing, err := s.reviews.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing.UserID != principal.UserID {
		return fmt.Errorf("review %s: %w", id, ErrForbidden)
	}
	review.ID = id
	review.ItemID = existing.ItemID
	review.UserID = existing.UserID
	return s.reviews.Update(ctx, review)
}

// ListByUser returns every review written by userID.
func (s *ReviewService) ListByUser(ctx context.Context, userID string) ([]models.Review, error) {
	return s.reviews.ListByUser(ctx, userID)
}
