package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/karlion-shop/internal/constants"
	"github.com/karlion-shop/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupOrderRepositoryTest(t *testing.T) (*GormOrderRepository, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:order_repo_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Order{}, &models.OrderItem{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return NewOrderRepository(db), db
}

func createRepoTestOrder(t *testing.T, repo *GormOrderRepository, userID uint, orderNo string, paid bool) models.Order {
	t.Helper()

	total, err := models.NewMoneyFromString("25.00")
	if err != nil {
		t.Fatalf("parse money failed: %v", err)
	}
	order := models.Order{
		OrderNo:       orderNo,
		UserID:        userID,
		Status:        constants.OrderStatusPending,
		PaymentMethod: constants.PaymentMethodCOD,
		ItemPrice:     total,
		TotalPrice:    total,
		IsPaid:        paid,
	}
	if paid {
		order.Status = constants.OrderStatusProcessing
		now := time.Now()
		order.PaidAt = &now
	}
	items := []models.OrderItem{
		{ProductID: 1, Name: "Shirt", UnitPrice: total, Quantity: 1},
	}
	if err := repo.Create(&order, items); err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	return order
}

func TestOrderRepositoryCreateAssignsItems(t *testing.T) {
	repo, _ := setupOrderRepositoryTest(t)

	order := createRepoTestOrder(t, repo, 7, "KS-0001", false)

	got, err := repo.GetByID(order.ID)
	if err != nil {
		t.Fatalf("get order failed: %v", err)
	}
	if got == nil {
		t.Fatalf("order should exist")
	}
	if len(got.Items) != 1 {
		t.Fatalf("items want 1 got %d", len(got.Items))
	}
	if got.Items[0].OrderID != order.ID {
		t.Fatalf("item order_id want %d got %d", order.ID, got.Items[0].OrderID)
	}
}

func TestOrderRepositoryGetByIDAndUserScopesOwner(t *testing.T) {
	repo, _ := setupOrderRepositoryTest(t)

	order := createRepoTestOrder(t, repo, 7, "KS-0002", false)

	got, err := repo.GetByIDAndUser(order.ID, 7)
	if err != nil || got == nil {
		t.Fatalf("owner lookup failed: %v, order %v", err, got)
	}

	other, err := repo.GetByIDAndUser(order.ID, 8)
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if other != nil {
		t.Fatalf("foreign user should not see order")
	}
}

func TestOrderRepositoryListFiltersByPaid(t *testing.T) {
	repo, _ := setupOrderRepositoryTest(t)

	createRepoTestOrder(t, repo, 1, "KS-0003", false)
	createRepoTestOrder(t, repo, 1, "KS-0004", true)
	createRepoTestOrder(t, repo, 2, "KS-0005", true)

	paid := true
	orders, total, err := repo.List(OrderListFilter{Page: 1, PageSize: 10, IsPaid: &paid})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 2 || len(orders) != 2 {
		t.Fatalf("paid orders want 2 got total=%d len=%d", total, len(orders))
	}

	orders, total, err = repo.List(OrderListFilter{Page: 1, PageSize: 10, UserID: 2})
	if err != nil {
		t.Fatalf("list by user failed: %v", err)
	}
	if total != 1 || orders[0].OrderNo != "KS-0005" {
		t.Fatalf("user filter mismatch: total=%d", total)
	}
}

func TestOrderRepositoryOrderByClauseFallback(t *testing.T) {
	if got := orderByClause("paid_at desc"); got != "paid_at desc" {
		t.Fatalf("allowed clause should pass through, got %s", got)
	}
	if got := orderByClause("name; DROP TABLE orders"); got != "created_at desc" {
		t.Fatalf("unknown clause should fall back, got %s", got)
	}
}

func TestOrderRepositoryResolveReceiver(t *testing.T) {
	repo, db := setupOrderRepositoryTest(t)

	user := models.User{Name: " Jane ", Email: " jane@example.com "}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	order := createRepoTestOrder(t, repo, user.ID, "KS-0006", false)

	email, name, err := repo.ResolveReceiverByOrderID(order.ID)
	if err != nil {
		t.Fatalf("resolve receiver failed: %v", err)
	}
	if email != "jane@example.com" || name != "Jane" {
		t.Fatalf("receiver mismatch: email=%q name=%q", email, name)
	}

	email, name, err = repo.ResolveReceiverByOrderID(9999)
	if err != nil || email != "" || name != "" {
		t.Fatalf("missing order should resolve to empty receiver, got %q %q %v", email, name, err)
	}
}

func TestOrderRepositoryHardDeleteRemovesItems(t *testing.T) {
	repo, db := setupOrderRepositoryTest(t)

	order := createRepoTestOrder(t, repo, 3, "KS-0007", false)

	if err := repo.HardDelete(order.ID); err != nil {
		t.Fatalf("hard delete failed: %v", err)
	}

	got, err := repo.GetByID(order.ID)
	if err != nil {
		t.Fatalf("get after delete failed: %v", err)
	}
	if got != nil {
		t.Fatalf("order should be gone")
	}

	var itemCount int64
	if err := db.Unscoped().Model(&models.OrderItem{}).Where("order_id = ?", order.ID).Count(&itemCount).Error; err != nil {
		t.Fatalf("count items failed: %v", err)
	}
	if itemCount != 0 {
		t.Fatalf("order items should be hard deleted, got %d", itemCount)
	}
}
