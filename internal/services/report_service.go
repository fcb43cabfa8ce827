package services

import (
	"context"
	"fmt"
	"time"

	"pethaul/internal/models"
	"pethaul/internal/repositories"

	"github.com/sirupsen/logrus"
)

const (
	SortSalesCount = "salesCount"
	SortOrderDate  = "orderDate"
	SortYesterday  = "yesterday"

	trailingWindow = 30 * 24 * time.Hour
)

// ReportCache stores serialized report results for a short time.
type ReportCache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// ReportService serves the read-only dashboards of the storefront and admin.
type ReportService struct {
	reports repositories.ReportRepository
	orders  repositories.OrderRepository
	cache   ReportCache
	ttl     time.Duration
	log     logrus.FieldLogger
	now     func() time.Time
}

// NewReportService creates a new ReportService. cache may be nil.
func NewReportService(reports repositories.ReportRepository, orders repositories.OrderRepository, cache ReportCache, ttl time.Duration, log logrus.FieldLogger) *ReportService {
	return &ReportService{
		reports: reports,
		orders:  orders,
		cache:   cache,
		ttl:     ttl,
		log:     log,
		now:     time.Now,
	}
}

// WithClock replaces the time source used for date windows.
func (s *ReportService) WithClock(now func() time.Time) *ReportService {
	s.now = now
	return s
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// MainReport returns top sellers of all time, items ordered most today and in
// the trailing 30 days, and the newest items.
func (s *ReportService) MainReport(ctx context.Context, limit int) (*models.MainReport, error) {
	key := fmt.Sprintf("report:main:%d", limit)
	if s.cache != nil {
		var cached models.MainReport
		hit, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			s.log.WithError(err).Warn("report cache read failed")
		} else if hit {
			return &cached, nil
		}
	}

	now := s.now()
	report := &models.MainReport{}
	var err error
	if report.TopSales, err = s.reports.TopSellers(ctx, limit); err != nil {
		return nil, err
	}
	if report.TopToday, err = s.reports.OrderCounts(ctx, startOfDay(now), now, limit); err != nil {
		return nil, err
	}
	if report.TopMonth, err = s.reports.OrderCounts(ctx, now.Add(-trailingWindow), now, limit); err != nil {
		return nil, err
	}
	if report.NewItems, err = s.reports.Newest(ctx, limit); err != nil {
		return nil, err
	}
	if err := s.attachImages(ctx, report.TopSales, report.TopToday, report.TopMonth); err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, report, s.ttl); err != nil {
			s.log.WithError(err).Warn("report cache write failed")
		}
	}
	return report, nil
}

func (s *ReportService) attachImages(ctx context.Context, groups ...[]models.ItemSales) error {
	var ids []string
	seen := map[string]bool{}
	for _, rows := range groups {
		for _, row := range rows {
			if !seen[row.ItemID] {
				seen[row.ItemID] = true
				ids = append(ids, row.ItemID)
			}
		}
	}
	images, err := s.reports.RepresentativeImages(ctx, ids)
	if err != nil {
		return err
	}
	for _, rows := range groups {
		for i := range rows {
			rows[i].ImgURL = images[rows[i].ItemID]
		}
	}
	return nil
}

// AdminReport groups the orders of a window with per-item totals. sortBy is
// one of salesCount, orderDate (default) or yesterday. salesCount orders the
// listing by units ordered; yesterday keeps only orders placed since the
// previous midnight.
func (s *ReportService) AdminReport(ctx context.Context, sortBy string) (*models.AdminReport, error) {
	var since time.Time
	switch sortBy {
	case "", SortOrderDate, SortSalesCount:
	case SortYesterday:
		since = startOfDay(s.now()).AddDate(0, 0, -1)
	default:
		return nil, fmt.Errorf("unknown sort %q: %w", sortBy, ErrInvalidRequest)
	}

	orders, err := s.orders.ListSince(ctx, since, sortBy == SortSalesCount)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, fmt.Errorf("no orders: %w", ErrNotFound)
	}

	items, err := s.reports.ItemTotals(ctx, since)
	if err != nil {
		return nil, err
	}
	return &models.AdminReport{Orders: orders, Items: items}, nil
}
