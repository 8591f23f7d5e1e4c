package service

import (
	"context"
	"fmt"
	"time"

	"buxta-backend/internal/domains/dashboard/model"
	"buxta-backend/internal/domains/dashboard/repository"
	ordermodel "buxta-backend/internal/domains/order/model"
	"buxta-backend/internal/shared"
	"buxta-backend/internal/shared/utils"
	"buxta-backend/pkg/cache"
	"buxta-backend/pkg/logger"
)

const (
	statsCacheTTL = 2 * time.Minute
	salesCacheTTL = 5 * time.Minute
)

type ServiceInterface interface {
	Stats(ctx context.Context) (*model.Stats, error)
	// SalesData returns one point per day for the last period days, today included.
	// Periods outside model.SalesPeriods fall back to the default.
	SalesData(ctx context.Context, period int) (*model.SalesData, error)
}

type dashboardService struct {
	repo  repository.Repository
	cache cache.Cache
	now   func() time.Time
}

func NewDashboardService(repo repository.Repository, c cache.Cache) ServiceInterface {
	return &dashboardService{repo: repo, cache: c, now: time.Now}
}

func (s *dashboardService) Stats(ctx context.Context) (*model.Stats, error) {
	var cached model.Stats
	if s.readCache(ctx, shared.DashboardStatsCacheKey, &cached) {
		return &cached, nil
	}

	stats, err := s.repo.Counters(ctx, ordermodel.RevenueStatuses)
	if err != nil {
		return nil, err
	}
	if stats.RecentOrders, err = s.repo.RecentOrders(ctx, model.RecentOrdersLimit); err != nil {
		return nil, err
	}
	if stats.TopBooks, err = s.repo.Bestsellers(ctx, model.BestsellersLimit); err != nil {
		return nil, err
	}
	if stats.LowStockBooks, err = s.repo.LowStockBooks(ctx, model.LowStockLimit); err != nil {
		return nil, err
	}

	s.writeCache(ctx, shared.DashboardStatsCacheKey, stats, statsCacheTTL)
	return stats, nil
}

func (s *dashboardService) SalesData(ctx context.Context, period int) (*model.SalesData, error) {
	if !model.ValidPeriod(period) {
		period = model.DefaultSalesPeriod
	}
	key := fmt.Sprintf(shared.DashboardSalesCacheKey, period)

	var cached model.SalesData
	if s.readCache(ctx, key, &cached) {
		return &cached, nil
	}

	now := s.now()
	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	start := end.AddDate(0, 0, -period)

	daily, err := s.repo.DailySales(ctx, ordermodel.RevenueStatuses, start, end)
	if err != nil {
		return nil, err
	}

	data := &model.SalesData{Period: period, Points: make([]model.SalesPoint, 0, period+1)}
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		date := day.Format(utils.DateLayout)
		sales, _ := daily[date].Float64()
		data.Points = append(data.Points, model.SalesPoint{Date: date, Sales: sales})
	}

	s.writeCache(ctx, key, data, salesCacheTTL)
	return data, nil
}

func (s *dashboardService) readCache(ctx context.Context, key string, dest interface{}) bool {
	found, err := s.cache.Get(ctx, key, dest)
	if err != nil {
		logger.Warn("dashboard cache read failed", map[string]interface{}{"key": key, "error": err.Error()})
		return false
	}
	return found
}

func (s *dashboardService) writeCache(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if err := s.cache.Set(ctx, key, value, ttl); err != nil {
		logger.Warn("dashboard cache write failed", map[string]interface{}{"key": key, "error": err.Error()})
	}
}
