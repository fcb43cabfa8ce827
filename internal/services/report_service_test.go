package services_test

import (
	"context"
	"testing"
	"time"

	"pethaul/internal/database"
	"pethaul/internal/models"
	"pethaul/internal/services"
	"pethaul/pkg/rediscache"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// MockReportCache is a mock implementation of services.ReportCache
type MockReportCache struct {
	mock.Mock
}

func (m *MockReportCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	args := m.Called(ctx, key, dest)
	return args.Bool(0), args.Error(1)
}

func (m *MockReportCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

var reportNow = time.Date(2024, 5, 15, 15, 0, 0, 0, time.Local)

func seedOrder(t *testing.T, db *gorm.DB, user *models.User, at time.Time, status models.OrderStatus, lines ...models.OrderItem) *models.Order {
	t.Helper()
	order := &models.Order{UserID: user.ID, OrderDate: at, OrderStatus: status, OrderItems: lines}
	require.NoError(t, db.Create(order).Error)
	return order
}

func line(item *models.Item, count int) models.OrderItem {
	return models.OrderItem{ItemID: item.ID, Count: count, OrderPrice: item.Price * int64(count)}
}

type reportFixture struct {
	db            *gorm.DB
	a, b, c, gone *models.Item
}

func newReportFixture(t *testing.T) reportFixture {
	t.Helper()
	db := database.OpenTest(t)
	buyer := seedUser(t, db, "buyer@example.com", models.RoleUser)
	f := reportFixture{
		db:   db,
		a:    seedItem(t, db, "Ball", 100, 50, "https://img.example.com/ball.png", "https://img.example.com/ball-2.png"),
		b:    seedItem(t, db, "Brush", 200, 50),
		c:    seedItem(t, db, "Crate", 300, 50),
		gone: seedItem(t, db, "Discontinued", 400, 50),
	}

	today := func(h int) time.Time { return time.Date(2024, 5, 15, h, 0, 0, 0, time.Local) }
	seedOrder(t, db, buyer, today(10), models.OrderStatusOrder, line(f.a, 2), line(f.b, 1))
	seedOrder(t, db, buyer, today(11), models.OrderStatusReady, line(f.a, 1))
	seedOrder(t, db, buyer, reportNow.AddDate(0, 0, -10), models.OrderStatusDelivered, line(f.b, 5), line(f.c, 1))
	seedOrder(t, db, buyer, reportNow.AddDate(0, 0, -40), models.OrderStatusDelivered, line(f.c, 10))
	seedOrder(t, db, buyer, today(12), models.OrderStatusCancel, line(f.b, 100))
	seedOrder(t, db, buyer, today(13), models.OrderStatusOrder, line(f.gone, 50))
	require.NoError(t, db.Delete(&models.Item{}, "id = ?", f.gone.ID).Error)
	return f
}

func salesByID(rows []models.ItemSales) map[string]models.ItemSales {
	out := make(map[string]models.ItemSales, len(rows))
	for _, r := range rows {
		out[r.ItemID] = r
	}
	return out
}

func TestReportService_MainReport(t *testing.T) {
	f := newReportFixture(t)
	svc := reportServiceFor(f.db, nil, time.Minute).WithClock(func() time.Time { return reportNow })

	report, err := svc.MainReport(context.Background(), 5)
	require.NoError(t, err)

	// Cancelled orders and deleted items never count.
	require.Len(t, report.TopSales, 3)
	assert.Equal(t, []string{f.c.ID, f.b.ID, f.a.ID},
		[]string{report.TopSales[0].ItemID, report.TopSales[1].ItemID, report.TopSales[2].ItemID})
	assert.Equal(t, int64(11), report.TopSales[0].SellCount)
	assert.Equal(t, int64(6), report.TopSales[1].SellCount)
	assert.Equal(t, int64(3), report.TopSales[2].SellCount)
	assert.Equal(t, "https://img.example.com/ball.png", report.TopSales[2].ImgURL)

	require.Len(t, report.TopToday, 2)
	assert.Equal(t, f.a.ID, report.TopToday[0].ItemID)
	assert.Equal(t, int64(2), report.TopToday[0].OrderCount)
	assert.Equal(t, int64(1), report.TopToday[1].OrderCount)

	month := salesByID(report.TopMonth)
	require.Len(t, month, 3)
	assert.Equal(t, int64(2), month[f.a.ID].OrderCount)
	assert.Equal(t, int64(2), month[f.b.ID].OrderCount)
	assert.Equal(t, int64(1), month[f.c.ID].OrderCount, "the 40 day old order is outside the window")

	require.Len(t, report.NewItems, 3)
	for _, item := range report.NewItems {
		assert.NotEqual(t, f.gone.ID, item.ID)
	}
}

func TestReportService_MainReport_Limit(t *testing.T) {
	f := newReportFixture(t)
	svc := reportServiceFor(f.db, nil, time.Minute).WithClock(func() time.Time { return reportNow })

	report, err := svc.MainReport(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, report.TopSales, 1)
	assert.Len(t, report.TopToday, 1)
	assert.Len(t, report.TopMonth, 1)
	assert.Len(t, report.NewItems, 1)
}

func TestReportService_MainReport_UsesCache(t *testing.T) {
	ctx := context.Background()
	db := database.OpenTest(t)
	cache := new(MockReportCache)
	svc := reportServiceFor(db, cache, 2*time.Minute)

	cached := models.MainReport{TopSales: []models.ItemSales{{ItemID: "cached", Name: "From cache"}}}
	cache.On("Get", ctx, "report:main:5", mock.AnythingOfType("*models.MainReport")).
		Run(func(args mock.Arguments) {
			*args.Get(2).(*models.MainReport) = cached
		}).
		Return(true, nil).Once()

	report, err := svc.MainReport(ctx, 5)
	require.NoError(t, err)
	require.Len(t, report.TopSales, 1)
	assert.Equal(t, "cached", report.TopSales[0].ItemID)
	cache.AssertExpectations(t)
	cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestReportService_MainReport_FillsCacheOnMiss(t *testing.T) {
	ctx := context.Background()
	f := newReportFixture(t)
	cache := new(MockReportCache)
	svc := reportServiceFor(f.db, cache, 2*time.Minute).WithClock(func() time.Time { return reportNow })

	cache.On("Get", ctx, "report:main:3", mock.Anything).Return(false, nil).Once()
	cache.On("Set", ctx, "report:main:3", mock.AnythingOfType("*models.MainReport"), 2*time.Minute).Return(nil).Once()

	report, err := svc.MainReport(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, report.TopSales, 3)
	cache.AssertExpectations(t)
}

func TestReportService_AdminReport(t *testing.T) {
	ctx := context.Background()
	f := newReportFixture(t)
	svc := reportServiceFor(f.db, nil, time.Minute).WithClock(func() time.Time { return reportNow })

	report, err := svc.AdminReport(ctx, services.SortOrderDate)
	require.NoError(t, err)
	byDate := report.Orders
	require.Len(t, byDate, 6)
	for i := 1; i < len(byDate); i++ {
		assert.False(t, byDate[i].OrderDate.After(byDate[i-1].OrderDate), "orders must be newest first")
	}
	require.NotNil(t, byDate[0].User)
	assert.Equal(t, "buyer@example.com", byDate[0].User.Email)

	// Per-item totals skip cancelled orders and deleted items.
	require.Len(t, report.Items, 3)
	assert.Equal(t, f.c.ID, report.Items[0].ItemID)
	totals := salesByID(report.Items)
	assert.Equal(t, int64(11), totals[f.c.ID].SellCount)
	assert.Equal(t, int64(2), totals[f.c.ID].OrderCount)
	assert.Equal(t, int64(6), totals[f.b.ID].SellCount)
	assert.Equal(t, int64(3), totals[f.a.ID].SellCount)
	assert.Equal(t, int64(2), totals[f.a.ID].OrderCount)

	report, err = svc.AdminReport(ctx, services.SortSalesCount)
	require.NoError(t, err)
	bySales := report.Orders
	require.Len(t, bySales, 6)
	for i := 1; i < len(bySales); i++ {
		assert.GreaterOrEqual(t, bySales[i-1].TotalCount(), bySales[i].TotalCount())
	}
	assert.Equal(t, 100, bySales[0].TotalCount())

	// Only the orders placed today remain; yesterday's window starts at the
	// previous midnight.
	report, err = svc.AdminReport(ctx, services.SortYesterday)
	require.NoError(t, err)
	assert.Len(t, report.Orders, 4)
	recentTotals := salesByID(report.Items)
	require.Len(t, recentTotals, 2)
	assert.Equal(t, int64(3), recentTotals[f.a.ID].SellCount)
	assert.Equal(t, int64(1), recentTotals[f.b.ID].SellCount)

	_, err = svc.AdminReport(ctx, "price")
	assert.ErrorIs(t, err, services.ErrInvalidRequest)
}

func TestReportService_AdminReport_Empty(t *testing.T) {
	db := database.OpenTest(t)
	svc := reportServiceFor(db, nil, time.Minute)

	_, err := svc.AdminReport(context.Background(), services.SortOrderDate)
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestReportService_MainReport_RedisRoundTrip(t *testing.T) {
	ctx := context.Background()
	f := newReportFixture(t)
	mr := miniredis.RunT(t)
	cache, err := rediscache.New(ctx, mr.Addr())
	require.NoError(t, err)
	defer cache.Close()

	svc := reportServiceFor(f.db, cache, time.Minute).WithClock(func() time.Time { return reportNow })
	fresh, err := svc.MainReport(ctx, 5)
	require.NoError(t, err)

	// New orders stay invisible until the cached entry expires.
	buyer := seedUser(t, f.db, "late@example.com", models.RoleUser)
	seedOrder(t, f.db, buyer, reportNow.Add(-time.Minute), models.OrderStatusOrder, line(f.a, 500))

	cached, err := svc.MainReport(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, fresh.TopSales, cached.TopSales)

	mr.FastForward(2 * time.Minute)
	recomputed, err := svc.MainReport(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, f.a.ID, recomputed.TopSales[0].ItemID)
}
