package worker

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/karlion-shop/internal/models"
	"github.com/karlion-shop/internal/provider"
	"github.com/karlion-shop/internal/queue"
	"github.com/karlion-shop/internal/repository"
	"github.com/karlion-shop/internal/service"

	"github.com/glebarez/sqlite"
	"github.com/hibiken/asynq"
	"gorm.io/gorm"
)

func setupConsumerTest(t *testing.T) (*Consumer, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:worker_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Order{}, &models.OrderItem{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	container := &provider.Container{
		OrderRepo: repository.NewOrderRepository(db),
		UserRepo:  repository.NewUserRepository(db),
	}
	return NewConsumer(container), db
}

func newOrderStatusEmailTask(t *testing.T, payload queue.OrderStatusEmailPayload) *asynq.Task {
	t.Helper()

	task, err := queue.NewOrderStatusEmailTask(payload)
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	return task
}

func TestConsumerRegisterNilMux(t *testing.T) {
	NewConsumer(nil).Register(nil)
}

func TestHandleOrderStatusEmailBadPayload(t *testing.T) {
	consumer, _ := setupConsumerTest(t)

	task := asynq.NewTask(queue.TaskOrderStatusEmail, []byte("{not-json"))
	if err := consumer.handleOrderStatusEmail(context.Background(), task); err == nil {
		t.Fatalf("expected unmarshal error for malformed payload")
	}
}

func TestHandleOrderStatusEmailZeroOrderID(t *testing.T) {
	consumer, _ := setupConsumerTest(t)

	task := newOrderStatusEmailTask(t, queue.OrderStatusEmailPayload{OrderID: 0})
	if err := consumer.handleOrderStatusEmail(context.Background(), task); err != nil {
		t.Fatalf("zero order id should be skipped, got %v", err)
	}
}

func TestHandleOrderStatusEmailOrderNotFound(t *testing.T) {
	consumer, _ := setupConsumerTest(t)

	task := newOrderStatusEmailTask(t, queue.OrderStatusEmailPayload{OrderID: 999})
	if err := consumer.handleOrderStatusEmail(context.Background(), task); err != nil {
		t.Fatalf("missing order should be skipped, got %v", err)
	}
}

func TestHandleOrderStatusEmailSkipEmptyReceiver(t *testing.T) {
	consumer, db := setupConsumerTest(t)

	user := models.User{Name: "Worker User", Email: ""}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	order := models.Order{UserID: user.ID, OrderNo: "KS-20260831-0001", Status: "Processing"}
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	task := newOrderStatusEmailTask(t, queue.OrderStatusEmailPayload{OrderID: order.ID, Status: "Processing"})
	if err := consumer.handleOrderStatusEmail(context.Background(), task); err != nil {
		t.Fatalf("empty receiver should be skipped, got %v", err)
	}
}

func TestHandleOrderStatusEmailDisabledEmailService(t *testing.T) {
	consumer, db := setupConsumerTest(t)
	consumer.EmailService = service.NewEmailService(nil)

	user := models.User{Name: "Worker User", Email: "worker@example.com"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	order := models.Order{UserID: user.ID, OrderNo: "KS-20260831-0002", Status: "Shipped"}
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	task := newOrderStatusEmailTask(t, queue.OrderStatusEmailPayload{OrderID: order.ID, Status: "Shipped"})
	err := consumer.handleOrderStatusEmail(context.Background(), task)
	if !errors.Is(err, service.ErrEmailServiceDisabled) {
		t.Fatalf("expected disabled email error, got %v", err)
	}
}
