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

func setupUserServiceTest(t *testing.T) (*UserService, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:user_service_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return NewUserService(repository.NewUserRepository(db), nil), db
}

func createServiceTestUser(t *testing.T, db *gorm.DB, email string) models.User {
	t.Helper()

	user := models.User{
		Name:   "Test User",
		Email:  email,
		Role:   constants.RoleUser,
		Status: constants.UserStatusActive,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	return user
}

func stringPointer(value string) *string {
	return &value
}

func TestGetUserNotFound(t *testing.T) {
	svc, _ := setupUserServiceTest(t)

	if _, err := svc.GetUser(0); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("zero id should be not found, got %v", err)
	}
	if _, err := svc.GetUser(777); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("missing user should be not found, got %v", err)
	}
}

func TestUpdateUserRejectsDuplicateEmail(t *testing.T) {
	svc, db := setupUserServiceTest(t)

	createServiceTestUser(t, db, "taken@example.com")
	target := createServiceTestUser(t, db, "target@example.com")

	_, err := svc.UpdateUser(target.ID, AdminUpdateUserInput{Email: stringPointer("taken@example.com")})
	if !errors.Is(err, ErrEmailExists) {
		t.Fatalf("duplicate email should conflict, got %v", err)
	}
}

func TestUpdateUserValidatesRoleAndStatus(t *testing.T) {
	svc, db := setupUserServiceTest(t)

	user := createServiceTestUser(t, db, "user@example.com")

	if _, err := svc.UpdateUser(user.ID, AdminUpdateUserInput{Role: stringPointer("superhero")}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown role should be rejected, got %v", err)
	}
	if _, err := svc.UpdateUser(user.ID, AdminUpdateUserInput{Status: stringPointer("frozen")}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown status should be rejected, got %v", err)
	}

	updated, err := svc.UpdateUser(user.ID, AdminUpdateUserInput{Role: stringPointer(" Admin ")})
	if err != nil {
		t.Fatalf("promote failed: %v", err)
	}
	if updated.Role != constants.RoleAdmin {
		t.Fatalf("role want admin got %s", updated.Role)
	}
}

func TestUpdateUserDisableInvalidatesTokens(t *testing.T) {
	svc, db := setupUserServiceTest(t)

	user := createServiceTestUser(t, db, "user@example.com")
	baseVersion := user.TokenVersion

	updated, err := svc.UpdateUser(user.ID, AdminUpdateUserInput{Status: stringPointer(constants.UserStatusDisabled)})
	if err != nil {
		t.Fatalf("disable failed: %v", err)
	}
	if updated.Status != constants.UserStatusDisabled {
		t.Fatalf("status want disabled got %s", updated.Status)
	}
	if updated.TokenVersion != baseVersion+1 || updated.TokenInvalidBefore == nil {
		t.Fatalf("disabling should invalidate existing tokens: version=%d invalid_before=%v", updated.TokenVersion, updated.TokenInvalidBefore)
	}
}

func TestSetUserStatusRoundTrip(t *testing.T) {
	svc, db := setupUserServiceTest(t)

	user := createServiceTestUser(t, db, "user@example.com")

	if _, err := svc.SetUserStatus(user.ID, "bogus"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("bogus status should be rejected, got %v", err)
	}

	disabled, err := svc.SetUserStatus(user.ID, " Disabled ")
	if err != nil {
		t.Fatalf("disable failed: %v", err)
	}
	if disabled.Status != constants.UserStatusDisabled {
		t.Fatalf("status want disabled got %s", disabled.Status)
	}

	enabled, err := svc.SetUserStatus(user.ID, constants.UserStatusActive)
	if err != nil {
		t.Fatalf("enable failed: %v", err)
	}
	if enabled.Status != constants.UserStatusActive {
		t.Fatalf("status want active got %s", enabled.Status)
	}
}

func TestDeleteUserSoftDeletes(t *testing.T) {
	svc, db := setupUserServiceTest(t)

	user := createServiceTestUser(t, db, "user@example.com")

	if err := svc.DeleteUser(user.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := svc.GetUser(user.ID); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("deleted user should be hidden, got %v", err)
	}

	var count int64
	if err := db.Unscoped().Model(&models.User{}).Where("id = ?", user.ID).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("soft delete should keep the row, got %d", count)
	}

	if err := svc.DeleteUser(999); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("deleting missing user should be not found, got %v", err)
	}
}
