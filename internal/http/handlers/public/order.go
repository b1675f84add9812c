package public

import (
	"strconv"
	"strings"

	"github.com/karlion-shop/internal/http/response"
	"github.com/karlion-shop/internal/models"
	"github.com/karlion-shop/internal/service"

	"github.com/gin-gonic/gin"
)

// OrderItemRequest 订单项请求
type OrderItemRequest struct {
	ProductID uint         `json:"product_id" binding:"required"`
	Name      string       `json:"name"`
	Size      string       `json:"size"`
	UnitPrice models.Money `json:"unit_price"`
	Quantity  int          `json:"quantity" binding:"required"`
	Image     string       `json:"image"`
}

// ShippingAddressRequest 收货地址请求
type ShippingAddressRequest struct {
	Address    string `json:"address" binding:"required"`
	City       string `json:"city" binding:"required"`
	PostalCode string `json:"postal_code" binding:"required"`
	Country    string `json:"country" binding:"required"`
}

// CreateOrderRequest 创建订单请求
type CreateOrderRequest struct {
	Items           []OrderItemRequest     `json:"items" binding:"required"`
	ShippingAddress ShippingAddressRequest `json:"shipping_address" binding:"required"`
	PaymentMethod   string                 `json:"payment_method" binding:"required"`
	ItemPrice       models.Money           `json:"item_price"`
	ShippingPrice   *models.Money          `json:"shipping_price"`
	TotalPrice      models.Money           `json:"total_price"`
	ClearCart       bool                   `json:"clear_cart"`
}

// CreateOrder 创建订单
func (h *Handler) CreateOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	items := make([]service.CreateOrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, service.CreateOrderItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Size:      item.Size,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
			Image:     item.Image,
		})
	}

	order, err := h.OrderService.CreateOrder(service.CreateOrderInput{
		UserID: uid,
		Items:  items,
		ShippingAddress: models.ShippingAddress{
			Address:    req.ShippingAddress.Address,
			City:       req.ShippingAddress.City,
			PostalCode: req.ShippingAddress.PostalCode,
			Country:    req.ShippingAddress.Country,
		},
		PaymentMethod: req.PaymentMethod,
		ItemPrice:     req.ItemPrice,
		ShippingPrice: req.ShippingPrice,
		TotalPrice:    req.TotalPrice,
		ClearCart:     req.ClearCart,
	})
	if err != nil {
		respondOrderCreateError(c, err)
		return
	}

	response.Success(c, order)
}

// ListOrders 获取当前用户订单列表
func (h *Handler) ListOrders(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	orders, total, err := h.OrderService.ListOrdersByUser(uid, page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "error.order_fetch_failed", err)
		return
	}

	pagination := response.BuildPagination(page, pageSize, total)
	response.SuccessWithPage(c, orders, pagination)
}

// GetOrder 获取订单详情
func (h *Handler) GetOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || orderID == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	order, err := h.OrderService.GetOrderForUser(uint(orderID), uid)
	if err != nil {
		respondOrderAccessError(c, err)
		return
	}

	response.Success(c, order)
}

// GetOrderByOrderNo 按订单号获取订单详情
func (h *Handler) GetOrderByOrderNo(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	orderNo := strings.TrimSpace(c.Param("order_no"))
	if orderNo == "" {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	order, err := h.OrderService.GetOrderByOrderNoForUser(orderNo, uid)
	if err != nil {
		respondOrderAccessError(c, err)
		return
	}

	response.Success(c, order)
}

// UpdateOrderRequest 用户更新订单请求（缺省字段不更新）
type UpdateOrderRequest struct {
	Items           []OrderItemRequest      `json:"items"`
	ShippingAddress *ShippingAddressRequest `json:"shipping_address"`
	PaymentMethod   *string                 `json:"payment_method"`
	ItemPrice       *models.Money           `json:"item_price"`
	ShippingPrice   *models.Money           `json:"shipping_price"`
	TotalPrice      *models.Money           `json:"total_price"`
}

// UpdateOrder 更新自己的订单；已支付或已送达后不可修改
func (h *Handler) UpdateOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || orderID == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	var req UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	input := service.OwnerUpdateOrderInput{
		PaymentMethod: req.PaymentMethod,
		ItemPrice:     req.ItemPrice,
		ShippingPrice: req.ShippingPrice,
		TotalPrice:    req.TotalPrice,
	}
	if req.ShippingAddress != nil {
		input.ShippingAddress = &models.ShippingAddress{
			Address:    req.ShippingAddress.Address,
			City:       req.ShippingAddress.City,
			PostalCode: req.ShippingAddress.PostalCode,
			Country:    req.ShippingAddress.Country,
		}
	}
	for _, item := range req.Items {
		input.Items = append(input.Items, service.CreateOrderItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Size:      item.Size,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
			Image:     item.Image,
		})
	}

	order, err := h.OrderService.UpdateOrderByOwner(uint(orderID), uid, input)
	if err != nil {
		respondOrderOwnerUpdateError(c, err)
		return
	}

	response.Success(c, order)
}

// CancelOrder 取消自己的订单；仅未支付的待处理订单可取消
func (h *Handler) CancelOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || orderID == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	order, err := h.OrderService.CancelOrderByOwner(uint(orderID), uid)
	if err != nil {
		respondOrderMutateError(c, err)
		return
	}

	response.Success(c, order)
}
