package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/karlion-shop/internal/constants"
	"github.com/karlion-shop/internal/models"
	"github.com/karlion-shop/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupCartServiceTest(t *testing.T) (*CartService, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:cart_service_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Product{}, &models.CartItem{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return NewCartService(repository.NewCartRepository(db), repository.NewProductRepository(db)), db
}

func createCartTestProduct(t *testing.T, db *gorm.DB, name string, active bool) models.Product {
	t.Helper()

	price, err := models.NewMoneyFromString("19.90")
	if err != nil {
		t.Fatalf("parse price failed: %v", err)
	}
	row := models.Product{
		Name:          name,
		Price:         price,
		OriginalPrice: price,
		Stock:         10,
		Page:          constants.ProductPageWomen,
		IsActive:      active,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	if err := db.Create(&row).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return row
}

func TestUpsertItemReplacesQuantity(t *testing.T) {
	svc, db := setupCartServiceTest(t)
	product := createCartTestProduct(t, db, "Dress", true)

	if err := svc.UpsertItem(UpsertCartItemInput{UserID: 1, ProductID: product.ID, Quantity: 2}); err != nil {
		t.Fatalf("first upsert failed: %v", err)
	}
	if err := svc.UpsertItem(UpsertCartItemInput{UserID: 1, ProductID: product.ID, Quantity: 5}); err != nil {
		t.Fatalf("second upsert failed: %v", err)
	}

	var items []models.CartItem
	if err := db.Where("user_id = ?", 1).Find(&items).Error; err != nil {
		t.Fatalf("load cart failed: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected single cart row, got %d", len(items))
	}
	if items[0].Quantity != 5 {
		t.Fatalf("expected quantity replaced to 5, got %d", items[0].Quantity)
	}
}

func TestUpsertItemValidation(t *testing.T) {
	svc, db := setupCartServiceTest(t)
	active := createCartTestProduct(t, db, "Dress", true)
	inactive := createCartTestProduct(t, db, "Old Dress", false)

	if err := svc.UpsertItem(UpsertCartItemInput{UserID: 1, ProductID: active.ID, Quantity: 0}); !errors.Is(err, ErrCartQuantityInvalid) {
		t.Fatalf("expected ErrCartQuantityInvalid, got %v", err)
	}
	if err := svc.UpsertItem(UpsertCartItemInput{UserID: 1, ProductID: inactive.ID, Quantity: 1}); !errors.Is(err, ErrProductNotAvailable) {
		t.Fatalf("expected ErrProductNotAvailable, got %v", err)
	}
	if err := svc.UpsertItem(UpsertCartItemInput{UserID: 1, ProductID: 9999, Quantity: 1}); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestListByUserPrunesInactiveProducts(t *testing.T) {
	svc, db := setupCartServiceTest(t)
	active := createCartTestProduct(t, db, "Dress", true)
	retired := createCartTestProduct(t, db, "Retired", true)

	if err := svc.UpsertItem(UpsertCartItemInput{UserID: 1, ProductID: active.ID, Quantity: 3}); err != nil {
		t.Fatalf("upsert active failed: %v", err)
	}
	if err := svc.UpsertItem(UpsertCartItemInput{UserID: 1, ProductID: retired.ID, Quantity: 1}); err != nil {
		t.Fatalf("upsert retired failed: %v", err)
	}

	if err := db.Model(&models.Product{}).Where("id = ?", retired.ID).Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate product failed: %v", err)
	}

	details, err := svc.ListByUser(1)
	if err != nil {
		t.Fatalf("list cart failed: %v", err)
	}
	if len(details) != 1 || details[0].ProductID != active.ID {
		t.Fatalf("expected only active product, got %+v", details)
	}
	if details[0].LineTotal.String() != "59.70" {
		t.Fatalf("expected line total 59.70, got %s", details[0].LineTotal.String())
	}

	var count int64
	if err := db.Model(&models.CartItem{}).Where("user_id = ?", 1).Count(&count).Error; err != nil {
		t.Fatalf("count cart failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected stale cart row pruned, got %d rows", count)
	}
}

func TestRemoveAndClear(t *testing.T) {
	svc, db := setupCartServiceTest(t)
	first := createCartTestProduct(t, db, "Dress", true)
	second := createCartTestProduct(t, db, "Skirt", true)

	if err := svc.UpsertItem(UpsertCartItemInput{UserID: 1, ProductID: first.ID, Quantity: 1}); err != nil {
		t.Fatalf("upsert first failed: %v", err)
	}
	if err := svc.UpsertItem(UpsertCartItemInput{UserID: 1, ProductID: second.ID, Quantity: 1}); err != nil {
		t.Fatalf("upsert second failed: %v", err)
	}

	if err := svc.RemoveItem(1, first.ID); err != nil {
		t.Fatalf("remove item failed: %v", err)
	}
	details, err := svc.ListByUser(1)
	if err != nil {
		t.Fatalf("list cart failed: %v", err)
	}
	if len(details) != 1 || details[0].ProductID != second.ID {
		t.Fatalf("unexpected cart after remove: %+v", details)
	}

	if err := svc.Clear(1); err != nil {
		t.Fatalf("clear cart failed: %v", err)
	}
	details, err = svc.ListByUser(1)
	if err != nil {
		t.Fatalf("list cart failed: %v", err)
	}
	if len(details) != 0 {
		t.Fatalf("expected empty cart, got %+v", details)
	}
}
