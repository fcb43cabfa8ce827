package repositories_test

import (
	"context"
	"encoding/json"
	"testing"

	"pethaul/internal/database"
	"pethaul/internal/models"
	"pethaul/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func categoryNames(item models.Item) []string {
	names := make([]string, 0, len(item.Categories))
	for _, c := range item.Categories {
		names = append(names, c.Name)
	}
	return names
}

func TestGORMItemRepository_Categories(t *testing.T) {
	ctx := context.Background()
	db := database.OpenTest(t)
	repo := repositories.NewGORMItemRepository(db)

	food := &models.Item{Name: "Dry food", Price: 1200, StockNumber: 10, Categories: []models.Category{{Name: "dog"}, {Name: "food"}, {Name: "dog"}}}
	require.NoError(t, repo.Create(ctx, food))
	assert.ElementsMatch(t, []string{"dog", "food"}, categoryNames(*food))

	toy := &models.Item{Name: "Rope toy", Price: 300, StockNumber: 10, Categories: []models.Category{{Name: "dog"}, {Name: "toy"}}}
	require.NoError(t, repo.Create(ctx, toy))
	plain := &models.Item{Name: "Dry cat food", Price: 1100, StockNumber: 10}
	require.NoError(t, repo.Create(ctx, plain))

	// Existing names are reused.
	var categories int64
	require.NoError(t, db.Model(&models.Category{}).Count(&categories).Error)
	assert.Equal(t, int64(3), categories)

	items, total, err := repo.List(ctx, repositories.ItemFilter{Categories: []string{"dog"}})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, items, 2)

	items, total, err = repo.List(ctx, repositories.ItemFilter{Categories: []string{"food", "toy"}, SearchTerm: "food"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Equal(t, food.ID, items[0].ID)
	assert.ElementsMatch(t, []string{"dog", "food"}, categoryNames(items[0]))

	items, total, err = repo.List(ctx, repositories.ItemFilter{SearchTerm: "food"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, items, 2)

	// Categories are replaced only when the update carries them.
	update := &models.Item{ID: toy.ID, Name: "Rope toy", Price: 350, StockNumber: 9}
	require.NoError(t, repo.Update(ctx, update))
	got, err := repo.GetByID(ctx, toy.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"dog", "toy"}, categoryNames(*got))

	update.Categories = []models.Category{{Name: "cat"}}
	require.NoError(t, repo.Update(ctx, update))
	got, err = repo.GetByID(ctx, toy.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"cat"}, categoryNames(*got))

	update.Categories = []models.Category{}
	require.NoError(t, repo.Update(ctx, update))
	got, err = repo.GetByID(ctx, toy.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Categories)
}

func TestCategory_UnmarshalJSON(t *testing.T) {
	var item models.Item
	require.NoError(t, json.Unmarshal([]byte(`{"itemNm":"Bed","categories":[" dog ",{"categoryName":"bed"}]}`), &item))
	assert.Equal(t, []string{"dog", "bed"}, categoryNames(item))
}
