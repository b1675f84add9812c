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

func setupDashboardRepositoryTest(t *testing.T) (*GormDashboardRepository, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:dashboard_repo_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Order{}, &models.OrderItem{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return NewDashboardRepository(db), db
}

func createStatsOrder(t *testing.T, db *gorm.DB, orderNo, total string, paid, delivered bool) {
	t.Helper()

	amount, err := models.NewMoneyFromString(total)
	if err != nil {
		t.Fatalf("parse money failed: %v", err)
	}
	order := models.Order{
		OrderNo:       orderNo,
		UserID:        1,
		Status:        constants.OrderStatusPending,
		PaymentMethod: constants.PaymentMethodCOD,
		TotalPrice:    amount,
		IsPaid:        paid,
		IsDelivered:   delivered,
	}
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}
}

func TestDashboardRepositoryGetOrderStats(t *testing.T) {
	repo, db := setupDashboardRepositoryTest(t)

	createStatsOrder(t, db, "KS-S-01", "10.00", false, false)
	createStatsOrder(t, db, "KS-S-02", "20.00", true, false)
	createStatsOrder(t, db, "KS-S-03", "30.00", true, true)

	stats, err := repo.GetOrderStats()
	if err != nil {
		t.Fatalf("get stats failed: %v", err)
	}
	if stats.TotalOrders != 3 {
		t.Fatalf("total orders want 3 got %d", stats.TotalOrders)
	}
	if stats.PaidOrders != 2 {
		t.Fatalf("paid orders want 2 got %d", stats.PaidOrders)
	}
	if stats.DeliveredOrders != 1 {
		t.Fatalf("delivered orders want 1 got %d", stats.DeliveredOrders)
	}
	if stats.PendingOrders != 1 {
		t.Fatalf("pending orders want 1 got %d", stats.PendingOrders)
	}
	if stats.TotalRevenue != 50.0 {
		t.Fatalf("revenue want 50.00 got %.2f", stats.TotalRevenue)
	}
}

func TestDashboardRepositoryGetOrderStatsEmpty(t *testing.T) {
	repo, _ := setupDashboardRepositoryTest(t)

	stats, err := repo.GetOrderStats()
	if err != nil {
		t.Fatalf("get stats failed: %v", err)
	}
	if stats.TotalOrders != 0 || stats.TotalRevenue != 0 {
		t.Fatalf("empty database should yield zero stats, got %+v", stats)
	}
}
