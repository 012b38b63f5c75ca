package reports

import (
	"context"
	"fmt"
	"time"

	"stockpilot/internal/core/apperror"
	"stockpilot/internal/core/id"
	"stockpilot/internal/core/types"
)

// Service provides report generation operations.
type Service struct {
	repo Repository
}

// NewService creates a new reports service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func validatePeriod(from, to time.Time) error {
	if from.IsZero() || to.IsZero() {
		return apperror.NewValidation("fromDate and toDate are required")
	}
	if from.After(to) {
		return apperror.NewValidation("fromDate must be before toDate")
	}
	return nil
}

// GetSalesSummary aggregates posted sales and returns over a period.
func (s *Service) GetSalesSummary(ctx context.Context, filter SalesSummaryFilter) (*SalesSummary, error) {
	if err := validatePeriod(filter.FromDate, filter.ToDate); err != nil {
		return nil, err
	}

	summary, err := s.repo.GetSalesSummary(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("get sales summary: %w", err)
	}

	summary.NetRevenue = summary.GrossRevenue.Sub(summary.RefundsAmount)
	if summary.SalesCount > 0 {
		summary.AverageSale = types.RoundMoney(
			summary.GrossRevenue.Div(types.NewMoney(float64(summary.SalesCount))))
	} else {
		summary.AverageSale = types.Zero()
	}

	return summary, nil
}

// GetRevenueByDay returns a continuous daily revenue series. Days with
// no sales are filled in with zero points.
func (s *Service) GetRevenueByDay(ctx context.Context, fromDate, toDate time.Time, storeID *id.ID) ([]RevenuePoint, error) {
	if err := validatePeriod(fromDate, toDate); err != nil {
		return nil, err
	}

	points, err := s.repo.GetRevenueByDay(ctx, fromDate, toDate, storeID)
	if err != nil {
		return nil, fmt.Errorf("get revenue by day: %w", err)
	}

	return fillDays(fromDate, toDate, points), nil
}

// fillDays expands a sparse day series into a continuous one.
func fillDays(from, to time.Time, points []RevenuePoint) []RevenuePoint {
	byDay := make(map[string]RevenuePoint, len(points))
	for _, p := range points {
		byDay[p.Date.Format("2006-01-02")] = p
	}

	from = from.Truncate(24 * time.Hour)
	to = to.Truncate(24 * time.Hour)

	var out []RevenuePoint
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if p, ok := byDay[d.Format("2006-01-02")]; ok {
			out = append(out, p)
			continue
		}
		out = append(out, RevenuePoint{Date: d, Revenue: types.Zero()})
	}
	return out
}

// GetTopProducts returns best-selling variants over a period.
func (s *Service) GetTopProducts(ctx context.Context, filter TopProductsFilter) ([]TopProductItem, error) {
	if err := validatePeriod(filter.FromDate, filter.ToDate); err != nil {
		return nil, err
	}

	if filter.Limit <= 0 {
		filter.Limit = 10
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}

	items, err := s.repo.GetTopProducts(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("get top products: %w", err)
	}

	return items, nil
}

// GetStockBalance generates the stock balance report.
func (s *Service) GetStockBalance(ctx context.Context, filter StockBalanceFilter) (*StockBalanceReport, error) {
	if filter.Limit <= 0 {
		filter.Limit = 100
	}
	if filter.Limit > 1000 {
		filter.Limit = 1000
	}

	report, err := s.repo.GetStockBalanceReport(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("get stock balance report: %w", err)
	}

	return report, nil
}
