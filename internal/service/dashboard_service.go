package service

import (
	"context"
	"time"

	"github.com/karlion-shop/internal/cache"
	"github.com/karlion-shop/internal/models"
	"github.com/karlion-shop/internal/repository"

	"github.com/shopspring/decimal"
)

const dashboardCacheTTL = 45 * time.Second

// DashboardService 仪表盘服务
// 说明：聚合后台首页核心经营数据。
type DashboardService struct {
	repo repository.DashboardRepository
}

// NewDashboardService 创建仪表盘服务
func NewDashboardService(repo repository.DashboardRepository) *DashboardService {
	return &DashboardService{repo: repo}
}

// OrderStats 订单统计
type OrderStats struct {
	TotalOrders     int64        `json:"total_orders"`
	PaidOrders      int64        `json:"paid_orders"`
	DeliveredOrders int64        `json:"delivered_orders"`
	PendingOrders   int64        `json:"pending_orders"`
	TotalRevenue    models.Money `json:"total_revenue"`
}

// GetOrderStats 获取订单统计；短 TTL 缓存避免后台轮询打穿数据库
func (s *DashboardService) GetOrderStats(ctx context.Context, forceRefresh bool) (*OrderStats, error) {
	if s == nil || s.repo == nil {
		return &OrderStats{}, nil
	}

	const cacheKey = "dashboard:order_stats"
	if !forceRefresh {
		var cached OrderStats
		hit, cacheErr := cache.GetJSON(ctx, cacheKey, &cached)
		if cacheErr == nil && hit {
			return &cached, nil
		}
	}

	row, err := s.repo.GetOrderStats()
	if err != nil {
		return nil, err
	}

	stats := &OrderStats{
		TotalOrders:     row.TotalOrders,
		PaidOrders:      row.PaidOrders,
		DeliveredOrders: row.DeliveredOrders,
		PendingOrders:   row.PendingOrders,
		TotalRevenue:    models.NewMoneyFromDecimal(decimal.NewFromFloat(row.TotalRevenue)),
	}

	_ = cache.SetJSON(ctx, cacheKey, stats, dashboardCacheTTL)
	return stats, nil
}
