package admin

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/karlion-shop/internal/http/response"
	"github.com/karlion-shop/internal/models"
	"github.com/karlion-shop/internal/service"

	"github.com/gin-gonic/gin"
)

// AdminOrderListItem 管理端订单列表返回
type AdminOrderListItem struct {
	models.Order
	UserEmail string `json:"user_email,omitempty"`
	UserName  string `json:"user_name,omitempty"`
}

// AdminListOrders 管理端订单列表；bucket 支持 pending/paid/delivered/cancelled
func (h *Handler) AdminListOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	bucket := strings.TrimSpace(c.Query("bucket"))
	orderNo := strings.TrimSpace(c.Query("order_no"))
	userID, _ := strconv.ParseUint(c.Query("user_id"), 10, 64)

	orders, total, err := h.OrderService.ListOrdersForAdmin(service.AdminOrderListInput{
		Page:     page,
		PageSize: pageSize,
		Bucket:   bucket,
		OrderNo:  orderNo,
		UserID:   uint(userID),
	})
	if err != nil {
		if errors.Is(err, service.ErrOrderStatusInvalid) {
			respondError(c, response.CodeBadRequest, "error.order_status_invalid", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.order_fetch_failed", err)
		return
	}

	items, err := h.decorateOrdersWithUsers(orders)
	if err != nil {
		respondError(c, response.CodeInternal, "error.order_fetch_failed", err)
		return
	}

	pagination := response.BuildPagination(page, pageSize, total)
	response.SuccessWithPage(c, items, pagination)
}

// AdminRecentOrders 管理端最近订单
func (h *Handler) AdminRecentOrders(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	orders, err := h.OrderService.ListRecentOrders(limit)
	if err != nil {
		respondError(c, response.CodeInternal, "error.order_fetch_failed", err)
		return
	}

	items, err := h.decorateOrdersWithUsers(orders)
	if err != nil {
		respondError(c, response.CodeInternal, "error.order_fetch_failed", err)
		return
	}

	response.Success(c, items)
}

// AdminGetOrder 管理端订单详情
func (h *Handler) AdminGetOrder(c *gin.Context) {
	orderID, ok := parseOrderIDParam(c)
	if !ok {
		return
	}

	order, err := h.OrderService.GetOrderForAdmin(orderID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			respondError(c, response.CodeNotFound, "error.order_not_found", nil)
		default:
			respondError(c, response.CodeInternal, "error.order_fetch_failed", err)
		}
		return
	}

	item := AdminOrderListItem{Order: *order}
	if order.UserID != 0 {
		user, err := h.UserRepo.GetByID(order.UserID)
		if err != nil {
			respondError(c, response.CodeInternal, "error.order_fetch_failed", err)
			return
		}
		if user != nil {
			item.UserEmail = user.Email
			item.UserName = user.Name
		}
	}

	response.Success(c, item)
}

// AdminUpdateOrderRequest 管理端更新订单请求
type AdminUpdateOrderRequest struct {
	Status          *string                 `json:"status"`
	PaymentMethod   *string                 `json:"payment_method"`
	ShippingAddress *models.ShippingAddress `json:"shipping_address"`
	ItemPrice       *models.Money           `json:"item_price"`
	ShippingPrice   *models.Money           `json:"shipping_price"`
	TotalPrice      *models.Money           `json:"total_price"`
}

// AdminUpdateOrder 管理端更新订单
func (h *Handler) AdminUpdateOrder(c *gin.Context) {
	orderID, ok := parseOrderIDParam(c)
	if !ok {
		return
	}

	var req AdminUpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	order, err := h.OrderService.AdminUpdateOrder(orderID, service.AdminUpdateOrderInput{
		Status:          req.Status,
		PaymentMethod:   req.PaymentMethod,
		ShippingAddress: req.ShippingAddress,
		ItemPrice:       req.ItemPrice,
		ShippingPrice:   req.ShippingPrice,
		TotalPrice:      req.TotalPrice,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			respondError(c, response.CodeNotFound, "error.order_not_found", nil)
		case errors.Is(err, service.ErrOrderStatusInvalid):
			respondError(c, response.CodeBadRequest, "error.order_status_invalid", nil)
		case errors.Is(err, service.ErrPaymentMethodInvalid):
			respondError(c, response.CodeBadRequest, "error.order_payment_invalid", nil)
		case errors.Is(err, service.ErrOrderAmountMismatch):
			respondError(c, response.CodeBadRequest, "error.order_amount_mismatch", nil)
		default:
			respondError(c, response.CodeInternal, "error.order_update_failed", err)
		}
		return
	}

	response.Success(c, order)
}

// AdminMarkOrderPaid 管理端标记订单已支付（线下收款等场景）
func (h *Handler) AdminMarkOrderPaid(c *gin.Context) {
	orderID, ok := parseOrderIDParam(c)
	if !ok {
		return
	}

	adminID, ok := getAdminID(c)
	if !ok {
		return
	}

	order, err := h.OrderService.MarkPaid(orderID, models.PaymentResult{
		Status:     "admin_confirmed",
		UpdateTime: time.Now().Format(time.RFC3339),
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			respondError(c, response.CodeNotFound, "error.order_not_found", nil)
		case errors.Is(err, service.ErrOrderLocked):
			respondError(c, response.CodeConflict, "error.order_locked", nil)
		default:
			respondError(c, response.CodeInternal, "error.order_update_failed", err)
		}
		return
	}

	requestLog(c).Infow("admin_order_marked_paid",
		"operator_user_id", adminID,
		"order_id", order.ID,
		"order_no", order.OrderNo,
	)
	response.Success(c, order)
}

// AdminMarkOrderDelivered 管理端标记订单已送达
func (h *Handler) AdminMarkOrderDelivered(c *gin.Context) {
	orderID, ok := parseOrderIDParam(c)
	if !ok {
		return
	}

	adminID, ok := getAdminID(c)
	if !ok {
		return
	}

	order, err := h.OrderService.MarkDelivered(orderID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			respondError(c, response.CodeNotFound, "error.order_not_found", nil)
		case errors.Is(err, service.ErrOrderLocked):
			respondError(c, response.CodeConflict, "error.order_locked", nil)
		case errors.Is(err, service.ErrOrderStatusInvalid):
			respondError(c, response.CodeBadRequest, "error.order_status_invalid", nil)
		default:
			respondError(c, response.CodeInternal, "error.order_update_failed", err)
		}
		return
	}

	requestLog(c).Infow("admin_order_marked_delivered",
		"operator_user_id", adminID,
		"order_id", order.ID,
		"order_no", order.OrderNo,
	)
	response.Success(c, order)
}

// AdminDeleteOrder 管理端删除订单（硬删除，连同订单项）
func (h *Handler) AdminDeleteOrder(c *gin.Context) {
	orderID, ok := parseOrderIDParam(c)
	if !ok {
		return
	}

	adminID, ok := getAdminID(c)
	if !ok {
		return
	}

	if err := h.OrderService.DeleteOrder(orderID); err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			respondError(c, response.CodeNotFound, "error.order_not_found", nil)
		default:
			respondError(c, response.CodeInternal, "error.order_delete_failed", err)
		}
		return
	}

	requestLog(c).Infow("admin_order_deleted",
		"operator_user_id", adminID,
		"order_id", orderID,
	)
	response.Success(c, gin.H{"deleted": true})
}

func (h *Handler) decorateOrdersWithUsers(orders []models.Order) ([]AdminOrderListItem, error) {
	userIDs := make([]uint, 0, len(orders))
	seen := map[uint]struct{}{}
	for _, order := range orders {
		if order.UserID == 0 {
			continue
		}
		if _, ok := seen[order.UserID]; ok {
			continue
		}
		seen[order.UserID] = struct{}{}
		userIDs = append(userIDs, order.UserID)
	}

	userMap := map[uint]models.User{}
	if len(userIDs) > 0 {
		users, err := h.UserRepo.ListByIDs(userIDs)
		if err != nil {
			return nil, err
		}
		for _, user := range users {
			userMap[user.ID] = user
		}
	}

	items := make([]AdminOrderListItem, 0, len(orders))
	for _, order := range orders {
		item := AdminOrderListItem{Order: order}
		if user, ok := userMap[order.UserID]; ok {
			item.UserEmail = user.Email
			item.UserName = user.Name
		}
		items = append(items, item)
	}
	return items, nil
}

func parseOrderIDParam(c *gin.Context) (uint, bool) {
	orderID, err := strconv.ParseUint(strings.TrimSpace(c.Param("id")), 10, 64)
	if err != nil || orderID == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return 0, false
	}
	return uint(orderID), true
}
