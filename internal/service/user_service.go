package service

import (
	"context"
	"strings"
	"time"

	"github.com/karlion-shop/internal/authz"
	"github.com/karlion-shop/internal/cache"
	"github.com/karlion-shop/internal/constants"
	"github.com/karlion-shop/internal/models"
	"github.com/karlion-shop/internal/repository"
)

// UserService 用户管理服务（管理端）
type UserService struct {
	userRepo repository.UserRepository
	authzSvc *authz.Service
}

// NewUserService 创建用户管理服务
func NewUserService(userRepo repository.UserRepository, authzSvc *authz.Service) *UserService {
	return &UserService{
		userRepo: userRepo,
		authzSvc: authzSvc,
	}
}

// ListUsers 用户列表
func (s *UserService) ListUsers(filter repository.UserListFilter) ([]models.User, int64, error) {
	return s.userRepo.List(filter)
}

// GetUser 用户详情
func (s *UserService) GetUser(userID uint) (*models.User, error) {
	if userID == 0 {
		return nil, ErrUserNotFound
	}
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// AdminUpdateUserInput 管理端用户更新输入（nil 表示不更新）
type AdminUpdateUserInput struct {
	Name    *string
	Email   *string
	Phone   *string
	Address *string
	Role    *string
	Status  *string
}

// UpdateUser 管理端更新用户
func (s *UserService) UpdateUser(userID uint, input AdminUpdateUserInput) (*models.User, error) {
	user, err := s.GetUser(userID)
	if err != nil {
		return nil, err
	}

	if input.Email != nil {
		normalized, err := normalizeEmail(*input.Email)
		if err != nil {
			return nil, err
		}
		if !strings.EqualFold(normalized, user.Email) {
			exist, err := s.userRepo.GetByEmail(normalized)
			if err != nil {
				return nil, err
			}
			if exist != nil && exist.ID != user.ID {
				return nil, ErrEmailExists
			}
			user.Email = normalized
		}
	}
	if input.Name != nil {
		trimmed := strings.TrimSpace(*input.Name)
		if trimmed != "" {
			user.Name = trimmed
		}
	}
	if input.Phone != nil {
		user.Phone = strings.TrimSpace(*input.Phone)
	}
	if input.Address != nil {
		user.Address = strings.TrimSpace(*input.Address)
	}

	roleChanged := false
	if input.Role != nil {
		role := strings.ToLower(strings.TrimSpace(*input.Role))
		if role != constants.RoleUser && role != constants.RoleAdmin {
			return nil, ErrNotFound
		}
		if role != user.Role {
			user.Role = role
			roleChanged = true
		}
	}

	statusChanged := false
	if input.Status != nil {
		status := strings.ToLower(strings.TrimSpace(*input.Status))
		if status != constants.UserStatusActive && status != constants.UserStatusDisabled {
			return nil, ErrNotFound
		}
		if status != user.Status {
			user.Status = status
			statusChanged = true
			if status == constants.UserStatusDisabled {
				now := time.Now()
				user.TokenVersion++
				user.TokenInvalidBefore = &now
			}
		}
	}

	user.UpdatedAt = time.Now()
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}

	if roleChanged {
		s.syncUserRole(user)
	}
	if roleChanged || statusChanged {
		_ = cache.SetUserAuthState(context.Background(), cache.BuildUserAuthState(user))
	}
	return user, nil
}

// SetUserStatus 启用/禁用用户
func (s *UserService) SetUserStatus(userID uint, status string) (*models.User, error) {
	normalized := strings.ToLower(strings.TrimSpace(status))
	if normalized != constants.UserStatusActive && normalized != constants.UserStatusDisabled {
		return nil, ErrNotFound
	}
	user, err := s.GetUser(userID)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.UpdateStatus(userID, normalized); err != nil {
		return nil, err
	}
	user, err = s.GetUser(userID)
	if err != nil {
		return nil, err
	}
	_ = cache.SetUserAuthState(context.Background(), cache.BuildUserAuthState(user))
	return user, nil
}

// DeleteUser 删除用户（软删除）
func (s *UserService) DeleteUser(userID uint) error {
	user, err := s.GetUser(userID)
	if err != nil {
		return err
	}
	if err := s.userRepo.Delete(user.ID); err != nil {
		return err
	}
	if s.authzSvc != nil {
		_ = s.authzSvc.SetUserRoles(user.ID, nil)
	}
	_ = cache.DelUserAuthState(context.Background(), user.ID)
	return nil
}

// syncUserRole 将用户角色同步到授权策略
func (s *UserService) syncUserRole(user *models.User) {
	if s.authzSvc == nil || user == nil {
		return
	}
	if user.Role == constants.RoleAdmin {
		_ = s.authzSvc.SetUserRoles(user.ID, []string{constants.RoleAdmin})
		return
	}
	_ = s.authzSvc.SetUserRoles(user.ID, nil)
}
