package repositories

import (
	"context"
	"errors"
	"fmt"

	"pethaul/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Availability is the result of a stock check for one item.
type Availability struct {
	Item       *models.Item
	Sufficient bool
}

// InventoryLedger owns Item.StockNumber. Every method is meant to run inside
// the caller's transaction (see WithTx).
type InventoryLedger interface {
	WithTx(tx *gorm.DB) InventoryLedger
	CheckAvailable(ctx context.Context, itemID string, quantity int) (*Availability, error)
	Decrement(ctx context.Context, itemID string, quantity int) error
	Increment(ctx context.Context, itemID string, quantity int) error
}

// GORMInventoryLedger is a GORM implementation of InventoryLedger.
type GORMInventoryLedger struct {
	db *gorm.DB
}

// NewGORMInventoryLedger creates a ledger bound to db.
func NewGORMInventoryLedger(db *gorm.DB) *GORMInventoryLedger {
	return &GORMInventoryLedger{db: db}
}

// WithTx returns a ledger that issues its statements on tx.
func (l *GORMInventoryLedger) WithTx(tx *gorm.DB) InventoryLedger {
	return &GORMInventoryLedger{db: tx}
}

// CheckAvailable reads the item with a row lock held until the transaction ends.
func (l *GORMInventoryLedger) CheckAvailable(ctx context.Context, itemID string, quantity int) (*Availability, error) {
	var item models.Item
	err := l.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&item, "id = ?", itemID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("item %s: %w", itemID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to read stock of item %s: %w", itemID, err)
	}
	return &Availability{Item: &item, Sufficient: item.StockNumber >= quantity}, nil
}

// Decrement subtracts quantity from the item stock only if enough stock is left.
func (l *GORMInventoryLedger) Decrement(ctx context.Context, itemID string, quantity int) error {
	res := l.db.WithContext(ctx).
		Model(&models.Item{}).
		Where("id = ? AND stock_number >= ?", itemID, quantity).
		UpdateColumn("stock_number", gorm.Expr("stock_number - ?", quantity))
	if res.Error != nil {
		return fmt.Errorf("failed to decrement stock of item %s: %w", itemID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("item %s (requested: %d): %w", itemID, quantity, ErrInsufficientStock)
	}
	return nil
}

// Increment adds quantity back to the item stock. Soft-deleted items are
// restocked too so that cancelling an old order never fails.
func (l *GORMInventoryLedger) Increment(ctx context.Context, itemID string, quantity int) error {
	res := l.db.WithContext(ctx).
		Unscoped().
		Model(&models.Item{}).
		Where("id = ?", itemID).
		UpdateColumn("stock_number", gorm.Expr("stock_number + ?", quantity))
	if res.Error != nil {
		return fmt.Errorf("failed to increment stock of item %s: %w", itemID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("item %s: %w", itemID, ErrNotFound)
	}
	return nil
}
