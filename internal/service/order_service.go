package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/karlion-shop/internal/config"
	"github.com/karlion-shop/internal/constants"
	"github.com/karlion-shop/internal/logger"
	"github.com/karlion-shop/internal/models"
	"github.com/karlion-shop/internal/queue"
	"github.com/karlion-shop/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderService 订单服务
type OrderService struct {
	orderRepo       repository.OrderRepository
	productRepo     repository.ProductRepository
	cartRepo        repository.CartRepository
	queueClient     *queue.Client
	defaultShipping models.Money
	recentLimit     int
}

// NewOrderService 创建订单服务
func NewOrderService(orderRepo repository.OrderRepository, productRepo repository.ProductRepository, cartRepo repository.CartRepository, queueClient *queue.Client, cfg config.OrderConfig) *OrderService {
	defaultShipping, err := models.NewMoneyFromString(cfg.DefaultShippingPrice)
	if err != nil {
		logger.Warnw("order_default_shipping_price_invalid",
			"value", cfg.DefaultShippingPrice,
			"error", err,
		)
		defaultShipping = models.NewMoneyFromDecimal(decimal.Zero)
	}
	recentLimit := cfg.RecentLimit
	if recentLimit <= 0 {
		recentLimit = 10
	}
	return &OrderService{
		orderRepo:       orderRepo,
		productRepo:     productRepo,
		cartRepo:        cartRepo,
		queueClient:     queueClient,
		defaultShipping: defaultShipping,
		recentLimit:     recentLimit,
	}
}

// CreateOrderItem 创建订单项输入
type CreateOrderItem struct {
	ProductID uint
	Name      string
	Size      string
	UnitPrice models.Money
	Quantity  int
	Image     string
}

// CreateOrderInput 创建订单输入
type CreateOrderInput struct {
	UserID          uint
	Items           []CreateOrderItem
	ShippingAddress models.ShippingAddress
	PaymentMethod   string
	ItemPrice       models.Money
	ShippingPrice   *models.Money
	TotalPrice      models.Money
	ClearCart       bool
}

// CreateOrder 创建订单；下单与清空购物车在同一事务内完成
func (s *OrderService) CreateOrder(input CreateOrderInput) (*models.Order, error) {
	if input.UserID == 0 {
		return nil, ErrUserNotFound
	}
	if len(input.Items) == 0 {
		return nil, ErrOrderEmptyItems
	}
	if !isPaymentMethodSupported(input.PaymentMethod) {
		return nil, ErrPaymentMethodInvalid
	}

	now := time.Now()
	orderItems, itemTotal, err := s.snapshotOrderItems(input.Items, now)
	if err != nil {
		return nil, err
	}

	shippingPrice := s.defaultShipping
	if input.ShippingPrice != nil {
		shippingPrice = *input.ShippingPrice
	}
	if !input.ItemPrice.Decimal.Equal(itemTotal) {
		return nil, ErrOrderAmountMismatch
	}
	if !input.ItemPrice.Decimal.Add(shippingPrice.Decimal).Round(2).Equal(input.TotalPrice.Decimal) {
		return nil, ErrOrderAmountMismatch
	}

	order := &models.Order{
		OrderNo:         generateOrderNo(),
		UserID:          input.UserID,
		Status:          constants.OrderStatusPending,
		ShippingAddress: input.ShippingAddress,
		PaymentMethod:   normalizePaymentMethod(input.PaymentMethod),
		ItemPrice:       input.ItemPrice,
		ShippingPrice:   shippingPrice,
		TotalPrice:      input.TotalPrice,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		if err := orderRepo.Create(order, orderItems); err != nil {
			return err
		}
		if input.ClearCart && s.cartRepo != nil {
			if err := s.cartRepo.WithTx(tx).ClearByUser(input.UserID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logger.Errorw("order_create_failed",
			"user_id", input.UserID,
			"order_no", order.OrderNo,
			"error", err,
		)
		return nil, ErrOrderCreateFailed
	}

	order.Items = orderItems
	return order, nil
}

// GetOrderForUser 获取订单详情（仅限本人）
func (s *OrderService) GetOrderForUser(orderID, userID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.UserID != userID {
		return nil, ErrOrderAccessDenied
	}
	return order, nil
}

// GetOrderByOrderNoForUser 按订单号获取订单详情（仅限本人）
func (s *OrderService) GetOrderByOrderNoForUser(orderNo string, userID uint) (*models.Order, error) {
	orderNo = strings.TrimSpace(orderNo)
	if orderNo == "" {
		return nil, ErrOrderNotFound
	}
	order, err := s.orderRepo.GetByOrderNo(orderNo)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.UserID != userID {
		return nil, ErrOrderAccessDenied
	}
	return order, nil
}

// CancelOrderByOwner 用户取消订单；仅限未支付的待处理订单
func (s *OrderService) CancelOrderByOwner(orderID, userID uint) (*models.Order, error) {
	order, err := s.GetOrderForUser(orderID, userID)
	if err != nil {
		return nil, err
	}
	if order.Status == constants.OrderStatusCancelled {
		return order, nil
	}
	if order.IsPaid || order.Status != constants.OrderStatusPending {
		return nil, ErrOrderLocked
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":       constants.OrderStatusCancelled,
		"cancelled_at": now,
		"updated_at":   now,
	}
	if err := s.orderRepo.Updates(order.ID, updates); err != nil {
		return nil, ErrOrderUpdateFailed
	}
	order.Status = constants.OrderStatusCancelled
	order.CancelledAt = &now
	order.UpdatedAt = now

	s.notifyOrderStatus(order.ID, constants.OrderStatusCancelled)
	return order, nil
}

// snapshotOrderItems 校验订单项并生成快照，返回快照与商品小计。
// 快照字段缺省时回填商品当前信息，生成后不再跟随商品变动。
func (s *OrderService) snapshotOrderItems(items []CreateOrderItem, now time.Time) ([]models.OrderItem, decimal.Decimal, error) {
	itemTotal := decimal.Zero
	snapshots := make([]models.OrderItem, 0, len(items))
	for _, item := range items {
		if item.ProductID == 0 || item.Quantity < 1 {
			return nil, decimal.Zero, ErrInvalidOrderItem
		}
		product, err := s.productRepo.GetByID(item.ProductID)
		if err != nil {
			return nil, decimal.Zero, err
		}
		if product == nil {
			return nil, decimal.Zero, ErrProductNotFound
		}
		if !product.IsActive {
			return nil, decimal.Zero, ErrProductNotAvailable
		}

		name := strings.TrimSpace(item.Name)
		if name == "" {
			name = product.Name
		}
		unitPrice := item.UnitPrice
		if unitPrice.Decimal.IsZero() {
			unitPrice = product.Price
		}
		image := strings.TrimSpace(item.Image)
		if image == "" && len(product.Images) > 0 {
			image = product.Images[0]
		}

		itemTotal = itemTotal.Add(unitPrice.Decimal.Mul(decimal.NewFromInt(int64(item.Quantity)))).Round(2)
		snapshots = append(snapshots, models.OrderItem{
			ProductID: item.ProductID,
			Name:      name,
			Size:      strings.TrimSpace(item.Size),
			UnitPrice: unitPrice,
			Quantity:  item.Quantity,
			Image:     image,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	return snapshots, itemTotal, nil
}

// OwnerUpdateOrderInput 用户订单更新输入（nil / 空表示不更新）
type OwnerUpdateOrderInput struct {
	ShippingAddress *models.ShippingAddress
	PaymentMethod   *string
	Items           []CreateOrderItem
	ItemPrice       *models.Money
	ShippingPrice   *models.Money
	TotalPrice      *models.Money
}

// UpdateOrderByOwner 用户更新自己的订单；仅限未支付的待处理订单。
// 订单项非空时整体替换快照，金额按更新后的值重新校验一致性。
func (s *OrderService) UpdateOrderByOwner(orderID, userID uint, input OwnerUpdateOrderInput) (*models.Order, error) {
	order, err := s.GetOrderForUser(orderID, userID)
	if err != nil {
		return nil, err
	}
	if order.IsPaid || order.IsDelivered || order.Status != constants.OrderStatusPending {
		return nil, ErrOrderLocked
	}

	now := time.Now()
	updates := map[string]interface{}{
		"updated_at": now,
	}

	var replacementItems []models.OrderItem
	itemPrice := order.ItemPrice.Decimal
	shippingPrice := order.ShippingPrice.Decimal
	totalPrice := order.TotalPrice.Decimal

	if len(input.Items) > 0 {
		snapshots, itemTotal, err := s.snapshotOrderItems(input.Items, now)
		if err != nil {
			return nil, err
		}
		replacementItems = snapshots
		itemPrice = itemTotal
	}
	if input.ItemPrice != nil {
		itemPrice = input.ItemPrice.Decimal
	}
	if input.ShippingPrice != nil {
		shippingPrice = input.ShippingPrice.Decimal
	}
	if input.TotalPrice != nil {
		totalPrice = input.TotalPrice.Decimal
	}
	if replacementItems != nil && input.TotalPrice == nil {
		// 替换订单项且未显式传入总价时按快照重算
		totalPrice = itemPrice.Add(shippingPrice).Round(2)
	}
	if !itemPrice.Add(shippingPrice).Round(2).Equal(totalPrice) {
		return nil, ErrOrderAmountMismatch
	}
	updates["item_price"] = models.NewMoneyFromDecimal(itemPrice)
	updates["shipping_price"] = models.NewMoneyFromDecimal(shippingPrice)
	updates["total_price"] = models.NewMoneyFromDecimal(totalPrice)

	if input.PaymentMethod != nil {
		if !isPaymentMethodSupported(*input.PaymentMethod) {
			return nil, ErrPaymentMethodInvalid
		}
		updates["payment_method"] = normalizePaymentMethod(*input.PaymentMethod)
	}
	if input.ShippingAddress != nil {
		updates["shipping_address"] = strings.TrimSpace(input.ShippingAddress.Address)
		updates["shipping_city"] = strings.TrimSpace(input.ShippingAddress.City)
		updates["shipping_postal_code"] = strings.TrimSpace(input.ShippingAddress.PostalCode)
		updates["shipping_country"] = strings.TrimSpace(input.ShippingAddress.Country)
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		if err := orderRepo.Updates(order.ID, updates); err != nil {
			return err
		}
		if replacementItems != nil {
			if err := orderRepo.ReplaceItems(order.ID, replacementItems); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logger.Errorw("order_owner_update_failed",
			"order_id", order.ID,
			"user_id", userID,
			"error", err,
		)
		return nil, ErrOrderUpdateFailed
	}

	updated, err := s.orderRepo.GetByID(order.ID)
	if err != nil || updated == nil {
		return nil, ErrOrderFetchFailed
	}
	return updated, nil
}

// MarkPaid 标记订单已支付；重复标记为幂等空操作
func (s *OrderService) MarkPaid(orderID uint, result models.PaymentResult) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.IsPaid {
		return order, nil
	}
	if order.Status == constants.OrderStatusCancelled {
		return nil, ErrOrderLocked
	}

	// 支付只落支付标记与回执快照，状态流转由管理端另行推进
	now := time.Now()
	updates := map[string]interface{}{
		"is_paid":               true,
		"paid_at":               now,
		"payment_txn_id":        strings.TrimSpace(result.TxnID),
		"payment_status":        strings.TrimSpace(result.Status),
		"payment_update_time":   strings.TrimSpace(result.UpdateTime),
		"payment_email_address": strings.TrimSpace(result.EmailAddress),
		"updated_at":            now,
	}
	if err := s.orderRepo.Updates(order.ID, updates); err != nil {
		return nil, ErrOrderUpdateFailed
	}
	order.IsPaid = true
	order.PaidAt = &now
	order.PaymentResult = result
	order.UpdatedAt = now

	s.notifyOrderStatus(order.ID, orderEventPaid)
	return order, nil
}

// MarkDelivered 标记订单已送达；重复标记为幂等空操作。
// 送达不依赖支付状态，货到付款订单先送达后收款。
func (s *OrderService) MarkDelivered(orderID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.IsDelivered {
		return order, nil
	}
	if order.Status == constants.OrderStatusCancelled {
		return nil, ErrOrderLocked
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":       constants.OrderStatusDelivered,
		"is_delivered": true,
		"delivered_at": now,
		"updated_at":   now,
	}
	if err := s.orderRepo.Updates(order.ID, updates); err != nil {
		return nil, ErrOrderUpdateFailed
	}
	order.Status = constants.OrderStatusDelivered
	order.IsDelivered = true
	order.DeliveredAt = &now
	order.UpdatedAt = now

	s.notifyOrderStatus(order.ID, constants.OrderStatusDelivered)
	return order, nil
}

// AdminUpdateOrderInput 管理端订单更新输入（nil 表示不更新）
type AdminUpdateOrderInput struct {
	Status          *string
	PaymentMethod   *string
	ShippingAddress *models.ShippingAddress
	ItemPrice       *models.Money
	ShippingPrice   *models.Money
	TotalPrice      *models.Money
}

// AdminUpdateOrder 管理端更新订单。
// 状态字段不走状态机校验，只要求取值合法；送达/取消会同步相应的时间戳字段。
func (s *OrderService) AdminUpdateOrder(orderID uint, input AdminUpdateOrderInput) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	now := time.Now()
	updates := map[string]interface{}{
		"updated_at": now,
	}
	statusChanged := ""

	if input.Status != nil {
		target := strings.TrimSpace(*input.Status)
		if !isOrderStatusKnown(target) {
			return nil, ErrOrderStatusInvalid
		}
		if target != order.Status {
			updates["status"] = target
			statusChanged = target
			switch target {
			case constants.OrderStatusDelivered:
				updates["is_delivered"] = true
				updates["delivered_at"] = now
			case constants.OrderStatusCancelled:
				updates["cancelled_at"] = now
			}
		}
	}
	if input.PaymentMethod != nil {
		if !isPaymentMethodSupported(*input.PaymentMethod) {
			return nil, ErrPaymentMethodInvalid
		}
		updates["payment_method"] = normalizePaymentMethod(*input.PaymentMethod)
	}
	if input.ShippingAddress != nil {
		updates["shipping_address"] = strings.TrimSpace(input.ShippingAddress.Address)
		updates["shipping_city"] = strings.TrimSpace(input.ShippingAddress.City)
		updates["shipping_postal_code"] = strings.TrimSpace(input.ShippingAddress.PostalCode)
		updates["shipping_country"] = strings.TrimSpace(input.ShippingAddress.Country)
	}
	if input.ItemPrice != nil || input.ShippingPrice != nil || input.TotalPrice != nil {
		itemPrice := order.ItemPrice.Decimal
		shippingPrice := order.ShippingPrice.Decimal
		totalPrice := order.TotalPrice.Decimal
		if input.ItemPrice != nil {
			itemPrice = input.ItemPrice.Decimal
		}
		if input.ShippingPrice != nil {
			shippingPrice = input.ShippingPrice.Decimal
		}
		if input.TotalPrice != nil {
			totalPrice = input.TotalPrice.Decimal
		}
		if !itemPrice.Add(shippingPrice).Round(2).Equal(totalPrice) {
			return nil, ErrOrderAmountMismatch
		}
		updates["item_price"] = models.NewMoneyFromDecimal(itemPrice)
		updates["shipping_price"] = models.NewMoneyFromDecimal(shippingPrice)
		updates["total_price"] = models.NewMoneyFromDecimal(totalPrice)
	}

	if err := s.orderRepo.Updates(order.ID, updates); err != nil {
		return nil, ErrOrderUpdateFailed
	}

	updated, err := s.orderRepo.GetByID(order.ID)
	if err != nil || updated == nil {
		return nil, ErrOrderFetchFailed
	}
	if statusChanged != "" {
		s.notifyOrderStatus(updated.ID, statusChanged)
	}
	return updated, nil
}

// DeleteOrder 物理删除订单及订单项
func (s *OrderService) DeleteOrder(orderID uint) error {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return ErrOrderFetchFailed
	}
	if order == nil {
		return ErrOrderNotFound
	}
	return s.orderRepo.HardDelete(order.ID)
}

// notifyOrderStatus 入队状态邮件任务；失败仅记录日志，不影响主流程
func (s *OrderService) notifyOrderStatus(orderID uint, status string) {
	if _, err := enqueueOrderStatusEmailTaskIfEligible(s.orderRepo, s.queueClient, orderID, status); err != nil {
		logger.Warnw("order_enqueue_status_email_failed",
			"order_id", orderID,
			"status", status,
			"error", err,
		)
	}
}

func generateOrderNo() string {
	now := time.Now().Format("20060102150405")
	return fmt.Sprintf("KS%s%s", now, randNumeric(6))
}

func randNumeric(length int) string {
	var b strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			b.WriteString("0")
			continue
		}
		b.WriteString(fmt.Sprintf("%d", n.Int64()))
	}
	return b.String()
}
