package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pethaul/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	WithTx(tx *gorm.DB) OrderRepository
	Create(ctx context.Context, order *models.Order) error
	CreateLine(ctx context.Context, line *models.OrderItem) error
	ListByUser(ctx context.Context, userID string, page, limit int) ([]models.Order, int64, error)
	FindOwned(ctx context.Context, id, userID string) (*models.Order, error)
	LockOwned(ctx context.Context, id, userID string) (*models.Order, error)
	Lock(ctx context.Context, id string) (*models.Order, error)
	Lines(ctx context.Context, orderID string) ([]models.OrderItem, error)
	MarkCancelled(ctx context.Context, id string) error
	UpdateStatus(ctx context.Context, id string, status models.OrderStatus) error
	ListSince(ctx context.Context, since time.Time, bySales bool) ([]models.Order, error)
}

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{db: db}
}

// WithTx returns a repository that issues its statements on tx.
func (r *GORMOrderRepository) WithTx(tx *gorm.DB) OrderRepository {
	return &GORMOrderRepository{db: tx}
}

// Create inserts the order row only. Lines are added with CreateLine.
func (r *GORMOrderRepository) Create(ctx context.Context, order *models.Order) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(order).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// CreateLine inserts one order line.
func (r *GORMOrderRepository) CreateLine(ctx context.Context, line *models.OrderItem) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(line).Error; err != nil {
		return fmt.Errorf("failed to create order line for item %s: %w", line.ItemID, err)
	}
	return nil
}

func withLines(db *gorm.DB) *gorm.DB {
	return db.
		Preload("OrderItems", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_items.created_at ASC, order_items.id ASC")
		}).
		Preload("OrderItems.Item", func(db *gorm.DB) *gorm.DB {
			return db.Unscoped()
		}).
		Preload("OrderItems.Item.Images", "representative = ?", true)
}

// ListByUser returns the orders of userID, newest first. A non-positive limit
// returns every order.
func (r *GORMOrderRepository) ListByUser(ctx context.Context, userID string, page, limit int) ([]models.Order, int64, error) {
	base := r.db.WithContext(ctx).Model(&models.Order{}).Where("user_id = ?", userID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count orders of user %s: %w", userID, err)
	}

	q := withLines(r.db.WithContext(ctx)).
		Where("user_id = ?", userID).
		Order("order_date DESC, id DESC")
	if limit > 0 {
		if page < 1 {
			page = 1
		}
		q = q.Limit(limit).Offset((page - 1) * limit)
	}

	var orders []models.Order
	if err := q.Find(&orders).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list orders of user %s: %w", userID, err)
	}
	return orders, total, nil
}

// FindOwned returns the order with its lines when it belongs to userID.
func (r *GORMOrderRepository) FindOwned(ctx context.Context, id, userID string) (*models.Order, error) {
	var order models.Order
	err := withLines(r.db.WithContext(ctx)).
		Where("id = ? AND user_id = ?", id, userID).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get order %s: %w", id, err)
	}
	return &order, nil
}

// LockOwned reads the order row of userID with a row lock held until the
// transaction ends.
func (r *GORMOrderRepository) LockOwned(ctx context.Context, id, userID string) (*models.Order, error) {
	return r.lock(ctx, r.db.Where("id = ? AND user_id = ?", id, userID), id)
}

// Lock reads any order row with a row lock.
func (r *GORMOrderRepository) Lock(ctx context.Context, id string) (*models.Order, error) {
	return r.lock(ctx, r.db.Where("id = ?", id), id)
}

func (r *GORMOrderRepository) lock(ctx context.Context, q *gorm.DB, id string) (*models.Order, error) {
	var order models.Order
	err := q.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to lock order %s: %w", id, err)
	}
	return &order, nil
}

// Lines returns the lines of an order.
func (r *GORMOrderRepository) Lines(ctx context.Context, orderID string) ([]models.OrderItem, error) {
	var lines []models.OrderItem
	if err := r.db.WithContext(ctx).Where("order_id = ?", orderID).Order("created_at ASC, id ASC").Find(&lines).Error; err != nil {
		return nil, fmt.Errorf("failed to load lines of order %s: %w", orderID, err)
	}
	return lines, nil
}

// MarkCancelled flips the order to CANCEL unless it already is.
func (r *GORMOrderRepository) MarkCancelled(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND order_status <> ?", id, models.OrderStatusCancel).
		Update("order_status", models.OrderStatusCancel)
	if res.Error != nil {
		return fmt.Errorf("failed to cancel order %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("order %s already cancelled: %w", id, ErrStaleState)
	}
	return nil
}

// UpdateStatus sets the order status unconditionally. Callers lock the row
// first with Lock.
func (r *GORMOrderRepository) UpdateStatus(ctx context.Context, id string, status models.OrderStatus) error {
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Update("order_status", status)
	if res.Error != nil {
		return fmt.Errorf("failed to update status of order %s: %w", id, res.Error)
	}
	return nil
}

// ListSince returns every order placed at or after since, with buyer and
// lines. A zero since returns all orders. Orders come newest first, or by
// units ordered when bySales is set.
func (r *GORMOrderRepository) ListSince(ctx context.Context, since time.Time, bySales bool) ([]models.Order, error) {
	q := withLines(r.db.WithContext(ctx)).Preload("User")
	if bySales {
		q = q.Order("(SELECT COALESCE(SUM(order_items.count), 0) FROM order_items WHERE order_items.order_id = orders.id) DESC")
	}
	q = q.Order("order_date DESC, id DESC")
	if !since.IsZero() {
		q = q.Where("order_date >= ?", since)
	}

	var orders []models.Order
	if err := q.Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}
