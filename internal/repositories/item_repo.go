package repositories

import (
	"context"
	"errors"
	"fmt"

	"pethaul/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ItemFilter narrows an item listing. Categories keeps items carrying at
// least one of the named categories.
type ItemFilter struct {
	SearchTerm string
	Categories []string
	Page       int
	Limit      int
}

// ItemRepository defines the interface for catalog data access.
type ItemRepository interface {
	List(ctx context.Context, filter ItemFilter) ([]models.Item, int64, error)
	GetByID(ctx context.Context, id string) (*models.Item, error)
	Create(ctx context.Context, item *models.Item) error
	Update(ctx context.Context, item *models.Item) error
	Delete(ctx context.Context, id string) error
}

// GORMItemRepository is a GORM implementation of ItemRepository.
type GORMItemRepository struct {
	db *gorm.DB
}

// NewGORMItemRepository creates a new instance of GORMItemRepository.
func NewGORMItemRepository(db *gorm.DB) *GORMItemRepository {
	return &GORMItemRepository{db: db}
}

func (r *GORMItemRepository) matching(filter ItemFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if filter.SearchTerm != "" {
			db = db.Where("items.name LIKE ?", "%"+filter.SearchTerm+"%")
		}
		if len(filter.Categories) > 0 {
			tagged := r.db.Table("item_categories").
				Select("item_categories.item_id").
				Joins("JOIN categories ON categories.id = item_categories.category_id").
				Where("categories.name IN ?", filter.Categories)
			db = db.Where("items.id IN (?)", tagged)
		}
		return db
	}
}

// List retrieves one page of items, newest first, and the total match count.
func (r *GORMItemRepository) List(ctx context.Context, filter ItemFilter) ([]models.Item, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Item{}).Scopes(r.matching(filter)).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count items: %w", err)
	}

	q := r.db.WithContext(ctx).
		Preload("Images").
		Preload("Categories").
		Scopes(r.matching(filter)).
		Order("items.created_at DESC, items.id DESC")
	if filter.Limit > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		q = q.Limit(filter.Limit).Offset((page - 1) * filter.Limit)
	}

	var items []models.Item
	if err := q.Find(&items).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list items: %w", err)
	}
	return items, total, nil
}

// GetByID retrieves a single item with its images, categories and reviews.
func (r *GORMItemRepository) GetByID(ctx context.Context, id string) (*models.Item, error) {
	var item models.Item
	err := r.db.WithContext(ctx).
		Preload("Images").
		Preload("Categories").
		Preload("Reviews", func(db *gorm.DB) *gorm.DB {
			return db.Order("reviews.created_at DESC")
		}).
		Preload("Reviews.Images").
		Preload("Reviews.User", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "name")
		}).
		First(&item, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("item with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get item by ID %s: %w", id, err)
	}
	return &item, nil
}

// resolveCategories finds or creates a category for every distinct name.
func resolveCategories(tx *gorm.DB, requested []models.Category) ([]models.Category, error) {
	seen := make(map[string]bool, len(requested))
	out := make([]models.Category, 0, len(requested))
	for _, c := range requested {
		if c.Name == "" || seen[c.Name] {
			continue
		}
		seen[c.Name] = true
		category := models.Category{Name: c.Name}
		if err := tx.Where("name = ?", c.Name).FirstOrCreate(&category).Error; err != nil {
			return nil, fmt.Errorf("failed to resolve category %q: %w", c.Name, err)
		}
		out = append(out, category)
	}
	return out, nil
}

func replaceCategories(tx *gorm.DB, itemID string, requested []models.Category) ([]models.Category, error) {
	categories, err := resolveCategories(tx, requested)
	if err != nil {
		return nil, err
	}
	assoc := tx.Model(&models.Item{ID: itemID}).Association("Categories")
	if len(categories) == 0 {
		err = assoc.Clear()
	} else {
		err = assoc.Replace(categories)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to link categories of item %s: %w", itemID, err)
	}
	return categories, nil
}

// Create inserts the item, its images and its category links. Unknown
// category names are created on the way.
func (r *GORMItemRepository) Create(ctx context.Context, item *models.Item) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		requested := item.Categories
		item.Categories = nil
		if err := tx.Omit("Categories", "Reviews").Create(item).Error; err != nil {
			return fmt.Errorf("failed to create item: %w", err)
		}
		categories, err := replaceCategories(tx, item.ID, requested)
		if err != nil {
			return err
		}
		item.Categories = categories
		return nil
	})
}

// Update overwrites the item fields. When images are given they replace the
// existing ones.
func (r *GORMItemRepository) Update(ctx context.Context, item *models.Item) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Item{}).Where("id = ?", item.ID).Select(
			"name", "price", "stock_number", "sell_status", "summary", "detail",
		).Updates(item)
		if res.Error != nil {
			return fmt.Errorf("failed to update item: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("item with ID %s: %w", item.ID, ErrNotFound)
		}
		if item.Categories != nil {
			categories, err := replaceCategories(tx, item.ID, item.Categories)
			if err != nil {
				return err
			}
			item.Categories = categories
		}
		if item.Images == nil {
			return nil
		}
		if err := tx.Where("item_id = ?", item.ID).Delete(&models.ItemImage{}).Error; err != nil {
			return fmt.Errorf("failed to replace images of item %s: %w", item.ID, err)
		}
		if len(item.Images) == 0 {
			return nil
		}
		for i := range item.Images {
			item.Images[i].ID = ""
			item.Images[i].ItemID = item.ID
		}
		if err := tx.Omit(clause.Associations).Create(&item.Images).Error; err != nil {
			return fmt.Errorf("failed to replace images of item %s: %w", item.ID, err)
		}
		return nil
	})
}

// Delete soft-deletes an item so that past orders keep their references.
func (r *GORMItemRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.Item{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("item with ID %s: %w", id, ErrNotFound)
	}
	return nil
}
