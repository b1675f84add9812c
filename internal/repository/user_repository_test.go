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

func setupUserRepositoryTest(t *testing.T) *GormUserRepository {
	t.Helper()

	dsn := fmt.Sprintf("file:user_repo_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return NewUserRepository(db)
}

func createRepoTestUser(t *testing.T, repo *GormUserRepository, name, email, role string) models.User {
	t.Helper()

	user := models.User{
		Name:   name,
		Email:  email,
		Role:   role,
		Status: constants.UserStatusActive,
	}
	if err := repo.Create(&user); err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	return user
}

func TestUserRepositoryListFilters(t *testing.T) {
	repo := setupUserRepositoryTest(t)

	createRepoTestUser(t, repo, "Alice", "alice@example.com", constants.RoleUser)
	createRepoTestUser(t, repo, "Bob", "bob@example.com", constants.RoleAdmin)
	createRepoTestUser(t, repo, "Alina", "alina@example.com", constants.RoleUser)

	users, total, err := repo.List(UserListFilter{Page: 1, PageSize: 10, Keyword: "ali"})
	if err != nil {
		t.Fatalf("list by keyword failed: %v", err)
	}
	if total != 2 || len(users) != 2 {
		t.Fatalf("keyword filter want 2 got total=%d len=%d", total, len(users))
	}

	users, total, err = repo.List(UserListFilter{Page: 1, PageSize: 10, Role: constants.RoleAdmin})
	if err != nil {
		t.Fatalf("list by role failed: %v", err)
	}
	if total != 1 || users[0].Email != "bob@example.com" {
		t.Fatalf("role filter mismatch: total=%d", total)
	}
}

func TestUserRepositoryListByIDs(t *testing.T) {
	repo := setupUserRepositoryTest(t)

	alice := createRepoTestUser(t, repo, "Alice", "alice@example.com", constants.RoleUser)
	bob := createRepoTestUser(t, repo, "Bob", "bob@example.com", constants.RoleUser)

	users, err := repo.ListByIDs([]uint{alice.ID, bob.ID, 999})
	if err != nil {
		t.Fatalf("list by ids failed: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("want 2 users got %d", len(users))
	}

	users, err = repo.ListByIDs(nil)
	if err != nil {
		t.Fatalf("empty ids should not fail: %v", err)
	}
	if len(users) != 0 {
		t.Fatalf("empty ids should return no users, got %d", len(users))
	}
}

func TestUserRepositoryUpdateStatusDisableInvalidatesTokens(t *testing.T) {
	repo := setupUserRepositoryTest(t)

	user := createRepoTestUser(t, repo, "Alice", "alice@example.com", constants.RoleUser)
	if user.TokenInvalidBefore != nil {
		t.Fatalf("new user should have no token_invalid_before")
	}
	baseVersion := user.TokenVersion

	if err := repo.UpdateStatus(user.ID, constants.UserStatusDisabled); err != nil {
		t.Fatalf("disable failed: %v", err)
	}

	got, err := repo.GetByID(user.ID)
	if err != nil || got == nil {
		t.Fatalf("reload user failed: %v", err)
	}
	if got.Status != constants.UserStatusDisabled {
		t.Fatalf("status want disabled got %s", got.Status)
	}
	if got.TokenInvalidBefore == nil {
		t.Fatalf("disabling should stamp token_invalid_before")
	}
	if got.TokenVersion != baseVersion+1 {
		t.Fatalf("token version want %d got %d", baseVersion+1, got.TokenVersion)
	}

	// 重新启用不应再次拉高版本号
	if err := repo.UpdateStatus(user.ID, constants.UserStatusActive); err != nil {
		t.Fatalf("enable failed: %v", err)
	}
	got, err = repo.GetByID(user.ID)
	if err != nil || got == nil {
		t.Fatalf("reload user failed: %v", err)
	}
	if got.Status != constants.UserStatusActive {
		t.Fatalf("status want active got %s", got.Status)
	}
	if got.TokenVersion != baseVersion+1 {
		t.Fatalf("enable should not bump token version, got %d", got.TokenVersion)
	}
}

func TestUserRepositoryGetByEmailMissing(t *testing.T) {
	repo := setupUserRepositoryTest(t)

	user, err := repo.GetByEmail("ghost@example.com")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if user != nil {
		t.Fatalf("missing user should be nil, got %+v", user)
	}
}
