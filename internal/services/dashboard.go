package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"kharcha/internal/core"
	"kharcha/internal/ports"
)

// DashboardSnapshot bundles everything the dashboard view needs for one
// month.
type DashboardSnapshot struct {
	Overview core.MonthOverview    `json:"overview"`
	Daily    []core.DailyTotal     `json:"daily"`
	Weekly   []core.WeekdayAverage `json:"weekly"`
}

// DashboardService assembles chart series from the expense log.
type DashboardService struct {
	lister   ports.ExpenseLister
	overview ports.OverviewReader
}

func NewDashboardService(lister ports.ExpenseLister, overview ports.OverviewReader) *DashboardService {
	return &DashboardService{lister: lister, overview: overview}
}

// Daily returns the per-day totals for one month.
func (s *DashboardService) Daily(ctx context.Context, year, month int) ([]core.DailyTotal, error) {
	expenses, err := s.lister.ListMonth(ctx, year, month)
	if err != nil {
		return nil, fmt.Errorf("list month: %w", err)
	}
	return dailyTotals(expenses), nil
}

// Weekly returns per-weekday averages over the whole history.
func (s *DashboardService) Weekly(ctx context.Context) ([]core.WeekdayAverage, error) {
	expenses, err := s.lister.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list all: %w", err)
	}
	return buildWeekly(expenses).AverageByDay, nil
}

// Snapshot fetches the month overview, daily series, and weekday averages
// concurrently.
func (s *DashboardService) Snapshot(ctx context.Context, year, month int) (DashboardSnapshot, error) {
	var snapshot DashboardSnapshot

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		overview, err := s.overview.MonthOverview(ctx, year, month)
		if err != nil {
			return fmt.Errorf("month overview: %w", err)
		}
		snapshot.Overview = overview
		return nil
	})
	g.Go(func() error {
		daily, err := s.Daily(ctx, year, month)
		if err != nil {
			return err
		}
		snapshot.Daily = daily
		return nil
	})
	g.Go(func() error {
		weekly, err := s.Weekly(ctx)
		if err != nil {
			return err
		}
		snapshot.Weekly = weekly
		return nil
	})

	if err := g.Wait(); err != nil {
		return DashboardSnapshot{}, err
	}
	return snapshot, nil
}
