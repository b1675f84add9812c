package service

import (
	"strings"

	"github.com/karlion-shop/internal/constants"
	"github.com/karlion-shop/internal/models"
	"github.com/karlion-shop/internal/repository"
)

// AdminOrderListInput 管理端订单列表输入
type AdminOrderListInput struct {
	Page     int
	PageSize int
	Bucket   string
	OrderNo  string
	UserID   uint
}

// ListOrdersByUser 用户订单列表
func (s *OrderService) ListOrdersByUser(userID uint, page, pageSize int) ([]models.Order, int64, error) {
	if userID == 0 {
		return nil, 0, ErrUserNotFound
	}
	orders, total, err := s.orderRepo.List(repository.OrderListFilter{
		Page:     page,
		PageSize: pageSize,
		UserID:   userID,
		OrderBy:  "created_at desc",
	})
	if err != nil {
		return nil, 0, ErrOrderFetchFailed
	}
	return orders, total, nil
}

// ListOrdersForAdmin 管理端订单列表。
// bucket 取值：pending（未支付）、paid（已支付，按支付时间倒序）、
// delivered（已送达，按送达时间倒序）、cancelled，或具体订单状态；空值为全部。
func (s *OrderService) ListOrdersForAdmin(input AdminOrderListInput) ([]models.Order, int64, error) {
	filter := repository.OrderListFilter{
		Page:     input.Page,
		PageSize: input.PageSize,
		OrderNo:  strings.TrimSpace(input.OrderNo),
		UserID:   input.UserID,
		OrderBy:  "created_at desc",
	}

	bucket := strings.ToLower(strings.TrimSpace(input.Bucket))
	switch bucket {
	case "":
	case "pending":
		notPaid := false
		filter.IsPaid = &notPaid
	case "paid":
		paid := true
		filter.IsPaid = &paid
		filter.OrderBy = "paid_at desc"
	case "delivered":
		delivered := true
		filter.IsDelivered = &delivered
		filter.OrderBy = "delivered_at desc"
	case "cancelled":
		filter.Status = constants.OrderStatusCancelled
	default:
		if !isOrderStatusKnown(input.Bucket) {
			return nil, 0, ErrOrderStatusInvalid
		}
		filter.Status = input.Bucket
	}

	orders, total, err := s.orderRepo.List(filter)
	if err != nil {
		return nil, 0, ErrOrderFetchFailed
	}
	return orders, total, nil
}

// ListRecentOrders 最近订单；limit 非法时回退配置值
func (s *OrderService) ListRecentOrders(limit int) ([]models.Order, error) {
	if limit <= 0 {
		limit = s.recentLimit
	}
	orders, err := s.orderRepo.ListRecent(limit)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	return orders, nil
}

// GetOrderForAdmin 管理端订单详情
func (s *OrderService) GetOrderForAdmin(orderID uint) (*models.Order, error) {
	if orderID == 0 {
		return nil, ErrOrderNotFound
	}
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}
