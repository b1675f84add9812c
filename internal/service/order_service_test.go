package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/karlion-shop/internal/config"
	"github.com/karlion-shop/internal/constants"
	"github.com/karlion-shop/internal/models"
	"github.com/karlion-shop/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupOrderServiceTest(t *testing.T) (*OrderService, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:order_service_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Product{}, &models.CartItem{}, &models.Order{}, &models.OrderItem{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	svc := NewOrderService(
		repository.NewOrderRepository(db),
		repository.NewProductRepository(db),
		repository.NewCartRepository(db),
		nil,
		config.OrderConfig{DefaultShippingPrice: "10.00", RecentLimit: 5},
	)
	return svc, db
}

func createOrderTestUser(t *testing.T, db *gorm.DB, email string) models.User {
	t.Helper()

	row := models.User{
		Name:         "tester",
		Email:        email,
		PasswordHash: "hash",
		Role:         constants.RoleUser,
		Status:       constants.UserStatusActive,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	if err := db.Create(&row).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	return row
}

func createOrderTestProduct(t *testing.T, db *gorm.DB, name string, price string, active bool) models.Product {
	t.Helper()

	amount, err := models.NewMoneyFromString(price)
	if err != nil {
		t.Fatalf("parse price failed: %v", err)
	}
	row := models.Product{
		Name:          name,
		Price:         amount,
		OriginalPrice: amount,
		Stock:         100,
		Page:          constants.ProductPageMen,
		IsActive:      active,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	if err := db.Create(&row).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return row
}

func mustMoney(t *testing.T, value string) models.Money {
	t.Helper()
	amount, err := models.NewMoneyFromString(value)
	if err != nil {
		t.Fatalf("parse money failed: %v", err)
	}
	return amount
}

func buildCreateOrderInput(t *testing.T, userID uint, product models.Product, quantity int) CreateOrderInput {
	t.Helper()

	itemPrice := models.NewMoneyFromDecimal(product.Price.Decimal.Mul(decimal.NewFromInt(int64(quantity))))
	totalPrice := models.NewMoneyFromDecimal(itemPrice.Decimal.Add(decimal.RequireFromString("10.00")))
	return CreateOrderInput{
		UserID: userID,
		Items: []CreateOrderItem{
			{ProductID: product.ID, Quantity: quantity},
		},
		ShippingAddress: models.ShippingAddress{
			Address:    "1 Main St",
			City:       "Pune",
			PostalCode: "411001",
			Country:    "India",
		},
		PaymentMethod: constants.PaymentMethodCOD,
		ItemPrice:     itemPrice,
		TotalPrice:    totalPrice,
		ClearCart:     true,
	}
}

func TestCreateOrderClearsCart(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	user := createOrderTestUser(t, db, "order-create@example.com")
	product := createOrderTestProduct(t, db, "Shirt", "25.00", true)

	cartItem := models.CartItem{
		UserID:    user.ID,
		ProductID: product.ID,
		Quantity:  2,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := db.Create(&cartItem).Error; err != nil {
		t.Fatalf("seed cart failed: %v", err)
	}

	order, err := svc.CreateOrder(buildCreateOrderInput(t, user.ID, product, 2))
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	if order.Status != constants.OrderStatusPending {
		t.Fatalf("expected status Pending, got %s", order.Status)
	}
	if order.OrderNo == "" {
		t.Fatalf("expected order no generated")
	}
	if !order.ShippingPrice.Decimal.Equal(decimal.RequireFromString("10.00")) {
		t.Fatalf("expected default shipping 10.00, got %s", order.ShippingPrice.String())
	}
	if len(order.Items) != 1 || order.Items[0].Name != "Shirt" {
		t.Fatalf("unexpected order items: %+v", order.Items)
	}

	var cartCount int64
	if err := db.Model(&models.CartItem{}).Where("user_id = ?", user.ID).Count(&cartCount).Error; err != nil {
		t.Fatalf("count cart failed: %v", err)
	}
	if cartCount != 0 {
		t.Fatalf("expected empty cart after order, got %d items", cartCount)
	}
}

func TestCreateOrderEmptyItems(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	user := createOrderTestUser(t, db, "order-empty@example.com")

	_, err := svc.CreateOrder(CreateOrderInput{
		UserID:        user.ID,
		PaymentMethod: constants.PaymentMethodCOD,
	})
	if !errors.Is(err, ErrOrderEmptyItems) {
		t.Fatalf("expected ErrOrderEmptyItems, got %v", err)
	}
}

func TestCreateOrderAmountMismatch(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	user := createOrderTestUser(t, db, "order-amount@example.com")
	product := createOrderTestProduct(t, db, "Shirt", "25.00", true)

	input := buildCreateOrderInput(t, user.ID, product, 2)
	input.TotalPrice = mustMoney(t, "999.00")
	if _, err := svc.CreateOrder(input); !errors.Is(err, ErrOrderAmountMismatch) {
		t.Fatalf("expected ErrOrderAmountMismatch, got %v", err)
	}
}

func TestCreateOrderUnsupportedPayment(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	user := createOrderTestUser(t, db, "order-payment@example.com")
	product := createOrderTestProduct(t, db, "Shirt", "25.00", true)

	input := buildCreateOrderInput(t, user.ID, product, 1)
	input.PaymentMethod = "Bitcoin"
	if _, err := svc.CreateOrder(input); !errors.Is(err, ErrPaymentMethodInvalid) {
		t.Fatalf("expected ErrPaymentMethodInvalid, got %v", err)
	}
}

func TestCreateOrderInactiveProduct(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	user := createOrderTestUser(t, db, "order-inactive@example.com")
	product := createOrderTestProduct(t, db, "Shirt", "25.00", false)

	if _, err := svc.CreateOrder(buildCreateOrderInput(t, user.ID, product, 1)); !errors.Is(err, ErrProductNotAvailable) {
		t.Fatalf("expected ErrProductNotAvailable, got %v", err)
	}
}

func TestMarkPaidIdempotent(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	user := createOrderTestUser(t, db, "order-paid@example.com")
	product := createOrderTestProduct(t, db, "Shirt", "25.00", true)

	order, err := svc.CreateOrder(buildCreateOrderInput(t, user.ID, product, 1))
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	paid, err := svc.MarkPaid(order.ID, models.PaymentResult{TxnID: "txn-1", Status: "COMPLETED"})
	if err != nil {
		t.Fatalf("mark paid failed: %v", err)
	}
	if !paid.IsPaid || paid.PaidAt == nil {
		t.Fatalf("expected paid order, got %+v", paid)
	}
	if paid.Status != constants.OrderStatusPending {
		t.Fatalf("expected status untouched by payment, got %s", paid.Status)
	}

	again, err := svc.MarkPaid(order.ID, models.PaymentResult{TxnID: "txn-2"})
	if err != nil {
		t.Fatalf("repeat mark paid failed: %v", err)
	}
	if again.PaymentResult.TxnID != "txn-1" {
		t.Fatalf("expected first payment snapshot kept, got %s", again.PaymentResult.TxnID)
	}
	if again.PaidAt.Unix() != paid.PaidAt.Unix() {
		t.Fatalf("expected paid_at unchanged on repeat call")
	}
}

func TestMarkDeliveredFlow(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	user := createOrderTestUser(t, db, "order-delivered@example.com")
	product := createOrderTestProduct(t, db, "Shirt", "25.00", true)

	order, err := svc.CreateOrder(buildCreateOrderInput(t, user.ID, product, 1))
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	// 货到付款订单未支付也可送达
	delivered, err := svc.MarkDelivered(order.ID)
	if err != nil {
		t.Fatalf("mark delivered failed: %v", err)
	}
	if !delivered.IsDelivered || delivered.DeliveredAt == nil || delivered.Status != constants.OrderStatusDelivered {
		t.Fatalf("unexpected delivered order: %+v", delivered)
	}
	if delivered.IsPaid {
		t.Fatalf("delivery must not flip the paid flag")
	}

	again, err := svc.MarkDelivered(order.ID)
	if err != nil {
		t.Fatalf("repeat mark delivered failed: %v", err)
	}
	if again.DeliveredAt.Unix() != delivered.DeliveredAt.Unix() {
		t.Fatalf("expected delivered_at unchanged on repeat call")
	}

	cancelOrder, err := svc.CreateOrder(buildCreateOrderInput(t, user.ID, product, 1))
	if err != nil {
		t.Fatalf("create second order failed: %v", err)
	}
	if _, err := svc.CancelOrderByOwner(cancelOrder.ID, user.ID); err != nil {
		t.Fatalf("cancel order failed: %v", err)
	}
	if _, err := svc.MarkDelivered(cancelOrder.ID); !errors.Is(err, ErrOrderLocked) {
		t.Fatalf("expected ErrOrderLocked for cancelled order, got %v", err)
	}
}

func TestCancelOrderByOwner(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	user := createOrderTestUser(t, db, "order-cancel@example.com")
	other := createOrderTestUser(t, db, "order-cancel-other@example.com")
	product := createOrderTestProduct(t, db, "Shirt", "25.00", true)

	order, err := svc.CreateOrder(buildCreateOrderInput(t, user.ID, product, 1))
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	if _, err := svc.CancelOrderByOwner(order.ID, other.ID); !errors.Is(err, ErrOrderAccessDenied) {
		t.Fatalf("expected ErrOrderAccessDenied, got %v", err)
	}

	cancelled, err := svc.CancelOrderByOwner(order.ID, user.ID)
	if err != nil {
		t.Fatalf("cancel order failed: %v", err)
	}
	if cancelled.Status != constants.OrderStatusCancelled || cancelled.CancelledAt == nil {
		t.Fatalf("unexpected cancelled order: %+v", cancelled)
	}

	// 再次取消为幂等空操作
	if _, err := svc.CancelOrderByOwner(order.ID, user.ID); err != nil {
		t.Fatalf("repeat cancel failed: %v", err)
	}

	paidOrder, err := svc.CreateOrder(buildCreateOrderInput(t, user.ID, product, 1))
	if err != nil {
		t.Fatalf("create second order failed: %v", err)
	}
	if _, err := svc.MarkPaid(paidOrder.ID, models.PaymentResult{TxnID: "txn-1"}); err != nil {
		t.Fatalf("mark paid failed: %v", err)
	}
	if _, err := svc.CancelOrderByOwner(paidOrder.ID, user.ID); !errors.Is(err, ErrOrderLocked) {
		t.Fatalf("expected ErrOrderLocked for paid order, got %v", err)
	}
}

func TestUpdateOrderByOwner(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	user := createOrderTestUser(t, db, "order-edit@example.com")
	other := createOrderTestUser(t, db, "order-edit-other@example.com")
	product := createOrderTestProduct(t, db, "Shirt", "25.00", true)

	order, err := svc.CreateOrder(buildCreateOrderInput(t, user.ID, product, 1))
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	if _, err := svc.UpdateOrderByOwner(order.ID, other.ID, OwnerUpdateOrderInput{}); !errors.Is(err, ErrOrderAccessDenied) {
		t.Fatalf("expected ErrOrderAccessDenied, got %v", err)
	}

	updated, err := svc.UpdateOrderByOwner(order.ID, user.ID, OwnerUpdateOrderInput{
		ShippingAddress: &models.ShippingAddress{
			Address:    "2 New Ave",
			City:       "Mumbai",
			PostalCode: "400001",
			Country:    "India",
		},
	})
	if err != nil {
		t.Fatalf("owner update failed: %v", err)
	}
	if updated.ShippingAddress.City != "Mumbai" {
		t.Fatalf("expected shipping city updated, got %s", updated.ShippingAddress.City)
	}

	// 替换订单项后金额按快照重算
	updated, err = svc.UpdateOrderByOwner(order.ID, user.ID, OwnerUpdateOrderInput{
		Items: []CreateOrderItem{{ProductID: product.ID, Quantity: 3}},
	})
	if err != nil {
		t.Fatalf("owner item replace failed: %v", err)
	}
	if len(updated.Items) != 1 || updated.Items[0].Quantity != 3 {
		t.Fatalf("expected replaced items, got %+v", updated.Items)
	}
	if !updated.TotalPrice.Decimal.Equal(decimal.RequireFromString("85.00")) {
		t.Fatalf("expected total 85.00 after replace, got %s", updated.TotalPrice.String())
	}

	mismatch := mustMoney(t, "1.00")
	if _, err := svc.UpdateOrderByOwner(order.ID, user.ID, OwnerUpdateOrderInput{TotalPrice: &mismatch}); !errors.Is(err, ErrOrderAmountMismatch) {
		t.Fatalf("expected ErrOrderAmountMismatch, got %v", err)
	}

	if _, err := svc.MarkPaid(order.ID, models.PaymentResult{TxnID: "txn-1"}); err != nil {
		t.Fatalf("mark paid failed: %v", err)
	}
	if _, err := svc.UpdateOrderByOwner(order.ID, user.ID, OwnerUpdateOrderInput{}); !errors.Is(err, ErrOrderLocked) {
		t.Fatalf("expected ErrOrderLocked after payment, got %v", err)
	}
}

func TestAdminUpdateOrderStatus(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	user := createOrderTestUser(t, db, "order-admin@example.com")
	product := createOrderTestProduct(t, db, "Shirt", "25.00", true)

	order, err := svc.CreateOrder(buildCreateOrderInput(t, user.ID, product, 1))
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	unknown := "Lost"
	if _, err := svc.AdminUpdateOrder(order.ID, AdminUpdateOrderInput{Status: &unknown}); !errors.Is(err, ErrOrderStatusInvalid) {
		t.Fatalf("expected ErrOrderStatusInvalid, got %v", err)
	}

	// 管理端状态修改不做状态机约束，Pending 可直接置为 Shipped
	shipped := constants.OrderStatusShipped
	updated, err := svc.AdminUpdateOrder(order.ID, AdminUpdateOrderInput{Status: &shipped})
	if err != nil {
		t.Fatalf("admin update failed: %v", err)
	}
	if updated.Status != constants.OrderStatusShipped {
		t.Fatalf("expected Shipped, got %s", updated.Status)
	}

	delivered := constants.OrderStatusDelivered
	updated, err = svc.AdminUpdateOrder(order.ID, AdminUpdateOrderInput{Status: &delivered})
	if err != nil {
		t.Fatalf("admin update to delivered failed: %v", err)
	}
	if !updated.IsDelivered || updated.DeliveredAt == nil {
		t.Fatalf("expected delivered flags synced, got %+v", updated)
	}
}

func TestDeleteOrderHardDeletesItems(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	user := createOrderTestUser(t, db, "order-delete@example.com")
	product := createOrderTestProduct(t, db, "Shirt", "25.00", true)

	order, err := svc.CreateOrder(buildCreateOrderInput(t, user.ID, product, 1))
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	if err := svc.DeleteOrder(order.ID); err != nil {
		t.Fatalf("delete order failed: %v", err)
	}

	var orderCount, itemCount int64
	if err := db.Unscoped().Model(&models.Order{}).Where("id = ?", order.ID).Count(&orderCount).Error; err != nil {
		t.Fatalf("count orders failed: %v", err)
	}
	if err := db.Unscoped().Model(&models.OrderItem{}).Where("order_id = ?", order.ID).Count(&itemCount).Error; err != nil {
		t.Fatalf("count items failed: %v", err)
	}
	if orderCount != 0 || itemCount != 0 {
		t.Fatalf("expected hard delete, got orders=%d items=%d", orderCount, itemCount)
	}

	if err := svc.DeleteOrder(order.ID); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestListOrdersForAdminBuckets(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	user := createOrderTestUser(t, db, "order-buckets@example.com")
	product := createOrderTestProduct(t, db, "Shirt", "25.00", true)

	first, err := svc.CreateOrder(buildCreateOrderInput(t, user.ID, product, 1))
	if err != nil {
		t.Fatalf("create first order failed: %v", err)
	}
	second, err := svc.CreateOrder(buildCreateOrderInput(t, user.ID, product, 2))
	if err != nil {
		t.Fatalf("create second order failed: %v", err)
	}
	if _, err := svc.MarkPaid(second.ID, models.PaymentResult{TxnID: "txn-1"}); err != nil {
		t.Fatalf("mark paid failed: %v", err)
	}

	pending, total, err := svc.ListOrdersForAdmin(AdminOrderListInput{Bucket: "pending"})
	if err != nil {
		t.Fatalf("list pending failed: %v", err)
	}
	if total != 1 || len(pending) != 1 || pending[0].ID != first.ID {
		t.Fatalf("unexpected pending bucket: total=%d", total)
	}

	paid, total, err := svc.ListOrdersForAdmin(AdminOrderListInput{Bucket: "paid"})
	if err != nil {
		t.Fatalf("list paid failed: %v", err)
	}
	if total != 1 || len(paid) != 1 || paid[0].ID != second.ID {
		t.Fatalf("unexpected paid bucket: total=%d", total)
	}

	if _, _, err := svc.ListOrdersForAdmin(AdminOrderListInput{Bucket: "weird"}); !errors.Is(err, ErrOrderStatusInvalid) {
		t.Fatalf("expected ErrOrderStatusInvalid for unknown bucket, got %v", err)
	}
}

func TestIsOrderStatusKnown(t *testing.T) {
	for _, status := range []string{
		constants.OrderStatusPending,
		constants.OrderStatusProcessing,
		constants.OrderStatusShipped,
		constants.OrderStatusDelivered,
		constants.OrderStatusCancelled,
	} {
		if !isOrderStatusKnown(status) {
			t.Fatalf("status %s should be known", status)
		}
	}
	if isOrderStatusKnown("Lost") || isOrderStatusKnown("") {
		t.Fatalf("unknown statuses should be rejected")
	}
}
