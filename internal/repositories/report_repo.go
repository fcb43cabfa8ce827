package repositories

import (
	"context"
	"fmt"
	"time"

	"pethaul/internal/models"

	"gorm.io/gorm"
)

// ReportRepository runs read-only aggregations over items and orders.
// Cancelled orders never count.
type ReportRepository interface {
	TopSellers(ctx context.Context, limit int) ([]models.ItemSales, error)
	OrderCounts(ctx context.Context, from, to time.Time, limit int) ([]models.ItemSales, error)
	ItemTotals(ctx context.Context, since time.Time) ([]models.ItemSales, error)
	Newest(ctx context.Context, limit int) ([]models.Item, error)
	RepresentativeImages(ctx context.Context, itemIDs []string) (map[string]string, error)
}

// GORMReportRepository is a GORM implementation of ReportRepository.
type GORMReportRepository struct {
	db *gorm.DB
}

func NewGORMReportRepository(db *gorm.DB) *GORMReportRepository {
	return &GORMReportRepository{db: db}
}

func (r *GORMReportRepository) salesBase(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("order_items").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Joins("JOIN items ON items.id = order_items.item_id").
		Where("orders.order_status <> ?", models.OrderStatusCancel).
		Where("items.deleted_at IS NULL").
		Group("items.id, items.name, items.price, items.sell_status")
}

// TopSellers sums the ordered units per item over all time.
func (r *GORMReportRepository) TopSellers(ctx context.Context, limit int) ([]models.ItemSales, error) {
	q := r.salesBase(ctx).
		Select("items.id AS item_id, items.name AS name, items.price AS price, items.sell_status AS sell_status, SUM(order_items.count) AS sell_count").
		Order("sell_count DESC, items.id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var rows []models.ItemSales
	if err := q.Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate sales: %w", err)
	}
	return rows, nil
}

// OrderCounts counts distinct orders per item placed in [from, to].
func (r *GORMReportRepository) OrderCounts(ctx context.Context, from, to time.Time, limit int) ([]models.ItemSales, error) {
	q := r.salesBase(ctx).
		Select("items.id AS item_id, items.name AS name, items.price AS price, items.sell_status AS sell_status, COUNT(DISTINCT order_items.order_id) AS order_count").
		Where("orders.order_date >= ? AND orders.order_date <= ?", from, to).
		Order("order_count DESC, items.id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var rows []models.ItemSales
	if err := q.Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate order counts: %w", err)
	}
	return rows, nil
}

// ItemTotals sums the ordered units and counts the distinct orders per item
// for orders placed at or after since. A zero since covers all orders.
func (r *GORMReportRepository) ItemTotals(ctx context.Context, since time.Time) ([]models.ItemSales, error) {
	q := r.salesBase(ctx).
		Select("items.id AS item_id, items.name AS name, items.price AS price, items.sell_status AS sell_status, " +
			"SUM(order_items.count) AS sell_count, COUNT(DISTINCT order_items.order_id) AS order_count").
		Order("sell_count DESC, items.id ASC")
	if !since.IsZero() {
		q = q.Where("orders.order_date >= ?", since)
	}

	var rows []models.ItemSales
	if err := q.Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate item totals: %w", err)
	}
	return rows, nil
}

// Newest returns the most recently created items with their images.
func (r *GORMReportRepository) Newest(ctx context.Context, limit int) ([]models.Item, error) {
	q := r.db.WithContext(ctx).Preload("Images").Order("created_at DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var items []models.Item
	if err := q.Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list newest items: %w", err)
	}
	return items, nil
}

// RepresentativeImages maps item ids to the URL of their representative image.
func (r *GORMReportRepository) RepresentativeImages(ctx context.Context, itemIDs []string) (map[string]string, error) {
	out := make(map[string]string, len(itemIDs))
	if len(itemIDs) == 0 {
		return out, nil
	}

	var images []models.ItemImage
	if err := r.db.WithContext(ctx).Where("item_id IN ? AND representative = ?", itemIDs, true).Find(&images).Error; err != nil {
		return nil, fmt.Errorf("failed to load representative images: %w", err)
	}
	for _, im := range images {
		out[im.ItemID] = im.ImgURL
	}
	return out, nil
}
