package services_test

import (
	"context"
	"testing"
	"time"

	"pethaul/internal/database"
	"pethaul/internal/models"
	"pethaul/internal/repositories"
	"pethaul/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReviewService(t *testing.T) {
	ctx := context.Background()
	db := database.OpenTest(t)
	items := repositories.NewGORMItemRepository(db)
	svc := services.NewReviewService(repositories.NewGORMReviewRepository(db), items)
	author := seedUser(t, db, "author@example.com", models.RoleUser)
	other := seedUser(t, db, "other@example.com", models.RoleUser)
	item := seedItem(t, db, "Scratching post", 4500, 3, "https://img.example.com/post.png")

	review := &models.Review{
		ItemID:  item.ID,
		Content: "My cat loves it",
		Rating:  5,
		Images:  []models.ReviewImage{{ImgURL: "https://img.example.com/review.png"}},
	}
	require.NoError(t, svc.Create(ctx, principalOf(author), review))
	assert.Equal(t, author.ID, review.UserID)
	assert.False(t, review.ReviewDate.IsZero())

	// The item detail embeds its reviews with their author.
	detail, err := items.GetByID(ctx, item.ID)
	require.NoError(t, err)
	require.Len(t, detail.Reviews, 1)
	assert.Equal(t, "My cat loves it", detail.Reviews[0].Content)
	require.Len(t, detail.Reviews[0].Images, 1)
	require.NotNil(t, detail.Reviews[0].User)
	assert.Equal(t, author.Name, detail.Reviews[0].User.Name)

	edit := &models.Review{Content: "Still great", Rating: 4, ReviewDate: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)}
	assert.ErrorIs(t, svc.Update(ctx, principalOf(other), review.ID, edit), services.ErrForbidden)
	require.NoError(t, svc.Update(ctx, principalOf(author), review.ID, edit))

	require.NoError(t, db.Delete(&models.Item{}, "id = ?", item.ID).Error)
	reviews, err := svc.ListByUser(ctx, author.ID)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, "Still great", reviews[0].Content)
	assert.Equal(t, 4, reviews[0].Rating)
	assert.Len(t, reviews[0].Images, 1, "images are kept when the update carries none")
	require.NotNil(t, reviews[0].Item, "reviews of removed items keep their item")
	assert.Equal(t, "Scratching post", reviews[0].Item.Name)

	reviews, err = svc.ListByUser(ctx, other.ID)
	require.NoError(t, err)
	assert.Empty(t, reviews)
}

func TestReviewService_Validation(t *testing.T) {
	ctx := context.Background()
	db := database.OpenTest(t)
	svc := services.NewReviewService(repositories.NewGORMReviewRepository(db), repositories.NewGORMItemRepository(db))
	author := principalOf(seedUser(t, db, "author@example.com", models.RoleUser))
	item := seedItem(t, db, "Litter box", 3000, 3)

	cases := []struct {
		name   string
		review *models.Review
		target error
	}{
		{"no item", &models.Review{Content: "ok", Rating: 3}, services.ErrInvalidRequest},
		{"no content", &models.Review{ItemID: item.ID, Rating: 3}, services.ErrInvalidRequest},
		{"rating too low", &models.Review{ItemID: item.ID, Content: "meh", Rating: 0}, services.ErrInvalidRequest},
		{"rating too high", &models.Review{ItemID: item.ID, Content: "wow", Rating: 6}, services.ErrInvalidRequest},
		{"unknown item", &models.Review{ItemID: "missing", Content: "?", Rating: 3}, services.ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, svc.Create(ctx, author, tc.review), tc.target)
		})
	}

	var n int64
	require.NoError(t, db.Model(&models.Review{}).Count(&n).Error)
	assert.Zero(t, n)
	assert.ErrorIs(t, svc.Update(ctx, author, "missing", &models.Review{Content: "x", Rating: 1}), services.ErrNotFound)
}
