package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"pethaul/internal/models"
	"pethaul/internal/repositories"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// OrderLine is one requested line of a new order. UnitPrice is the price the
// client saw and is stored as the order price snapshot.
type OrderLine struct {
	ItemID    string
	UnitPrice int64
	Quantity  int
}

// OrderService handles order placement, cancellation and status changes.
type OrderService struct {
	db     *gorm.DB
	orders repositories.OrderRepository
	ledger repositories.InventoryLedger
	events EventPublisher
	log    logrus.FieldLogger
	now    func() time.Time
}

// NewOrderService creates a new OrderService. db opens the transactions the
// repositories join through WithTx. events may be nil.
func NewOrderService(db *gorm.DB, orders repositories.OrderRepository, ledger repositories.InventoryLedger, events EventPublisher, log logrus.FieldLogger) *OrderService {
	return &OrderService{
		db:     db,
		orders: orders,
		ledger: ledger,
		events: events,
		log:    log,
		now:    time.Now,
	}
}

// WithClock replaces the time source used for order dates.
func (s *OrderService) WithClock(now func() time.Time) *OrderService {
	s.now = now
	return s
}

// itemQuantities sums quantities per item and returns the item ids in
// ascending order. Rows are always locked in that order so that two
// transactions touching the same items cannot wait on each other.
func itemQuantities(ids []string, quantities []int) ([]string, map[string]int) {
	totals := make(map[string]int, len(ids))
	order := make([]string, 0, len(ids))
	for i, id := range ids {
		if _, ok := totals[id]; !ok {
			order = append(order, id)
		}
		totals[id] += quantities[i]
	}
	sort.Strings(order)
	return order, totals
}

// CreateOrder checks stock for every line, then creates the order, its lines
// and the matching stock decrements in one transaction.
func (s *OrderService) CreateOrder(ctx context.Context, principal models.Principal, lines []OrderLine) (*models.Order, error) {
	if principal.UserID == "" {
		return nil, fmt.Errorf("missing principal: %w", ErrInvalidRequest)
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("order has no items: %w", ErrInvalidRequest)
	}
	for _, line := range lines {
		if line.ItemID == "" || line.Quantity <= 0 || line.UnitPrice < 0 {
			return nil, fmt.Errorf("invalid line for item %q (quantity: %d): %w", line.ItemID, line.Quantity, ErrInvalidRequest)
		}
	}

	ids := make([]string, len(lines))
	quantities := make([]int, len(lines))
	for i, line := range lines {
		ids[i], quantities[i] = line.ItemID, line.Quantity
	}
	itemIDs, requested := itemQuantities(ids, quantities)

	order := &models.Order{
		UserID:      principal.UserID,
		OrderDate:   s.now(),
		OrderStatus: models.OrderStatusOrder,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		orders := s.orders.WithTx(tx)
		ledger := s.ledger.WithTx(tx)

		for _, id := range itemIDs {
			avail, err := ledger.CheckAvailable(ctx, id, requested[id])
			if err != nil {
				return err
			}
			if !avail.Sufficient {
				return fmt.Errorf("item %s (requested: %d, available: %d): %w",
					avail.Item.Name, requested[id], avail.Item.StockNumber, ErrInsufficientStock)
			}
		}

		if err := orders.Create(ctx, order); err != nil {
			return err
		}

		order.OrderItems = make([]models.OrderItem, 0, len(lines))
		for _, line := range lines {
			oi := models.OrderItem{
				OrderID:    order.ID,
				ItemID:     line.ItemID,
				OrderPrice: line.UnitPrice * int64(line.Quantity),
				Count:      line.Quantity,
			}
			if err := orders.CreateLine(ctx, &oi); err != nil {
				return err
			}
			// Conditional decrement, kept as a guard behind the locked check.
			if err := ledger.Decrement(ctx, line.ItemID, line.Quantity); err != nil {
				return err
			}
			order.OrderItems = append(order.OrderItems, oi)
		}
		return nil
	})
	if err != nil {
		s.log.WithError(err).WithField("user_id", principal.UserID).Info("order creation rejected")
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"order_id": order.ID, "user_id": order.UserID, "lines": len(order.OrderItems)}).Info("order created")
	publishOrderEvent(s.events, s.log, EventOrderCreated, order.ID, order.UserID, string(order.OrderStatus))
	return order, nil
}

// ListOrders returns the orders of the caller. A non-positive limit disables
// pagination.
func (s *OrderService) ListOrders(ctx context.Context, principal models.Principal, page, limit int) ([]models.Order, int64, error) {
	return s.orders.ListByUser(ctx, principal.UserID, page, limit)
}

// GetOrder returns one order of the caller. Orders of other users are
// reported as not found.
func (s *OrderService) GetOrder(ctx context.Context, principal models.Principal, id string) (*models.Order, error) {
	return s.orders.FindOwned(ctx, id, principal.UserID)
}

// CancelOrder restores the stock of every line and marks the order CANCEL.
// An order can be cancelled only once.
func (s *OrderService) CancelOrder(ctx context.Context, principal models.Principal, id string) error {
	var order *models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		orders := s.orders.WithTx(tx)
		ledger := s.ledger.WithTx(tx)

		var err error
		order, err = orders.LockOwned(ctx, id, principal.UserID)
		if err != nil {
			return err
		}
		if order.OrderStatus == models.OrderStatusCancel {
			return fmt.Errorf("order %s is already cancelled: %w", id, ErrInvalidState)
		}
		if err := orders.MarkCancelled(ctx, order.ID); err != nil {
			if errors.Is(err, repositories.ErrStaleState) {
				return fmt.Errorf("order %s is already cancelled: %w", id, ErrInvalidState)
			}
			return err
		}

		lines, err := orders.Lines(ctx, order.ID)
		if err != nil {
			return err
		}
		ids := make([]string, len(lines))
		counts := make([]int, len(lines))
		for i, line := range lines {
			ids[i], counts[i] = line.ItemID, line.Count
		}
		itemIDs, restock := itemQuantities(ids, counts)
		for _, id := range itemIDs {
			if err := ledger.Increment(ctx, id, restock[id]); err != nil {
				return err
			}
		}
		order.OrderStatus = models.OrderStatusCancel
		return nil
	})
	if err != nil {
		return err
	}

	s.log.WithFields(logrus.Fields{"order_id": order.ID, "user_id": order.UserID}).Info("order cancelled")
	publishOrderEvent(s.events, s.log, EventOrderCancelled, order.ID, order.UserID, string(order.OrderStatus))
	return nil
}

// SetStatus is the administrative status override. It is not scoped to an
// owner and never touches stock, even when the target is CANCEL; use
// CancelOrder to cancel with restock.
func (s *OrderService) SetStatus(ctx context.Context, id, status string) (*models.Order, error) {
	target := models.OrderStatus(strings.ToUpper(strings.TrimSpace(status)))
	if !target.Valid() {
		return nil, fmt.Errorf("unknown order status %q: %w", status, ErrInvalidRequest)
	}

	var order *models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		orders := s.orders.WithTx(tx)

		var err error
		order, err = orders.Lock(ctx, id)
		if err != nil {
			return err
		}
		if order.OrderStatus.Terminal() {
			return fmt.Errorf("order %s is %s: %w", id, order.OrderStatus, ErrInvalidState)
		}
		if err := orders.UpdateStatus(ctx, id, target); err != nil {
			return err
		}
		order.OrderStatus = target
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"order_id": order.ID, "status": target}).Info("order status changed")
	publishOrderEvent(s.events, s.log, EventOrderStatusChanged, order.ID, order.UserID, string(target))
	return order, nil
}
