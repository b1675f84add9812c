package repository

import (
	"github.com/karlion-shop/internal/models"

	"gorm.io/gorm"
)

// DashboardRepository 订单统计聚合查询接口
// 说明：仅聚合统计数据，不承载业务规则。
type DashboardRepository interface {
	GetOrderStats() (OrderStatsRow, error)
}

// OrderStatsRow 订单统计原始结果
type OrderStatsRow struct {
	TotalOrders     int64
	PaidOrders      int64
	DeliveredOrders int64
	PendingOrders   int64
	TotalRevenue    float64
}

// GormDashboardRepository GORM 聚合实现
type GormDashboardRepository struct {
	db *gorm.DB
}

// NewDashboardRepository 创建统计仓库
func NewDashboardRepository(db *gorm.DB) *GormDashboardRepository {
	return &GormDashboardRepository{db: db}
}

// GetOrderStats 获取订单总览统计；pending 口径为未支付订单
func (r *GormDashboardRepository) GetOrderStats() (OrderStatsRow, error) {
	result := OrderStatsRow{}

	orderBase := func() *gorm.DB {
		return r.db.Model(&models.Order{})
	}

	if err := orderBase().Count(&result.TotalOrders).Error; err != nil {
		return result, err
	}
	if err := orderBase().Where("is_paid = ?", true).Count(&result.PaidOrders).Error; err != nil {
		return result, err
	}
	if err := orderBase().Where("is_delivered = ?", true).Count(&result.DeliveredOrders).Error; err != nil {
		return result, err
	}
	if err := orderBase().Where("is_paid = ?", false).Count(&result.PendingOrders).Error; err != nil {
		return result, err
	}

	if err := orderBase().
		Where("is_paid = ?", true).
		Select("COALESCE(SUM(total_price), 0)").
		Scan(&result.TotalRevenue).Error; err != nil {
		return result, err
	}

	return result, nil
}
