package services_test

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"pethaul/internal/models"
	"pethaul/internal/repositories"
	"pethaul/internal/services"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedUser(t *testing.T, db *gorm.DB, email, role string) *models.User {
	t.Helper()
	user := &models.User{Email: email, Name: email, Password: "x", Role: role}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedItem(t *testing.T, db *gorm.DB, name string, price int64, stock int, images ...string) *models.Item {
	t.Helper()
	item := &models.Item{Name: name, Price: price, StockNumber: stock}
	for i, url := range images {
		item.Images = append(item.Images, models.ItemImage{ImgURL: url, Representative: i == 0})
	}
	require.NoError(t, db.Create(item).Error)
	return item
}

func stockOf(t *testing.T, db *gorm.DB, itemID string) int {
	t.Helper()
	var item models.Item
	require.NoError(t, db.Unscoped().First(&item, "id = ?", itemID).Error)
	return item.StockNumber
}

func orderServiceFor(db *gorm.DB, events services.EventPublisher) *services.OrderService {
	return services.NewOrderService(db, repositories.NewGORMOrderRepository(db), repositories.NewGORMInventoryLedger(db), events, quietLogger())
}

func reportServiceFor(db *gorm.DB, cache services.ReportCache, ttl time.Duration) *services.ReportService {
	return services.NewReportService(repositories.NewGORMReportRepository(db), repositories.NewGORMOrderRepository(db), cache, ttl, quietLogger())
}

func principalOf(u *models.User) models.Principal {
	return models.Principal{UserID: u.ID, Role: u.Role}
}

// tickingClock returns a time source that advances one minute per call.
func tickingClock(start time.Time) func() time.Time {
	var mu sync.Mutex
	current := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		current = current.Add(time.Minute)
		return current
	}
}

// recordingPublisher keeps every published event in memory.
type recordingPublisher struct {
	mu     sync.Mutex
	events []services.OrderEvent
	fail   bool
}

func (p *recordingPublisher) Publish(routingKey string, body []byte) error {
	if p.fail {
		return errors.New("broker unavailable")
	}
	var event services.OrderEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}
