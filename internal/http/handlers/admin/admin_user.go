package admin

import (
	"errors"
	"strconv"
	"strings"

	"github.com/karlion-shop/internal/http/response"
	"github.com/karlion-shop/internal/repository"
	"github.com/karlion-shop/internal/service"

	"github.com/gin-gonic/gin"
)

// AdminUpdateUserRequest 管理员更新用户请求
type AdminUpdateUserRequest struct {
	Name    *string `json:"name"`
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
	Role    *string `json:"role"`
	Status  *string `json:"status"`
}

// AdminSetUserStatusRequest 更新用户状态请求
type AdminSetUserStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// AdminListUsers 获取用户列表
func (h *Handler) AdminListUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	users, total, err := h.UserService.ListUsers(repository.UserListFilter{
		Page:     page,
		PageSize: pageSize,
		Keyword:  strings.TrimSpace(c.Query("keyword")),
		Role:     strings.TrimSpace(c.Query("role")),
		Status:   strings.TrimSpace(c.Query("status")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.user_fetch_failed", err)
		return
	}

	pagination := response.BuildPagination(page, pageSize, total)
	response.SuccessWithPage(c, users, pagination)
}

// AdminGetUser 获取用户详情
func (h *Handler) AdminGetUser(c *gin.Context) {
	userID, ok := parseUserIDParam(c)
	if !ok {
		return
	}

	user, err := h.UserService.GetUser(userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			respondError(c, response.CodeNotFound, "error.user_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.user_fetch_failed", err)
		return
	}

	response.Success(c, user)
}

// AdminUpdateUser 更新用户信息
func (h *Handler) AdminUpdateUser(c *gin.Context) {
	userID, ok := parseUserIDParam(c)
	if !ok {
		return
	}

	var req AdminUpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	user, err := h.UserService.UpdateUser(userID, service.AdminUpdateUserInput{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
		Role:    req.Role,
		Status:  req.Status,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			respondError(c, response.CodeNotFound, "error.user_not_found", nil)
		case errors.Is(err, service.ErrInvalidEmail):
			respondError(c, response.CodeBadRequest, "error.email_invalid", nil)
		case errors.Is(err, service.ErrEmailExists):
			respondError(c, response.CodeBadRequest, "error.email_exists", nil)
		case errors.Is(err, service.ErrNotFound):
			respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		default:
			respondError(c, response.CodeInternal, "error.user_update_failed", err)
		}
		return
	}

	response.Success(c, user)
}

// AdminSetUserStatus 启用/禁用用户
func (h *Handler) AdminSetUserStatus(c *gin.Context) {
	userID, ok := parseUserIDParam(c)
	if !ok {
		return
	}

	adminID, ok := getAdminID(c)
	if !ok {
		return
	}

	var req AdminSetUserStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	user, err := h.UserService.SetUserStatus(userID, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			respondError(c, response.CodeNotFound, "error.user_not_found", nil)
		case errors.Is(err, service.ErrNotFound):
			respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		default:
			respondError(c, response.CodeInternal, "error.user_update_failed", err)
		}
		return
	}

	requestLog(c).Infow("admin_user_status_updated",
		"operator_user_id", adminID,
		"target_user_id", user.ID,
		"status", user.Status,
	)
	response.Success(c, user)
}

// AdminDeleteUser 删除用户
func (h *Handler) AdminDeleteUser(c *gin.Context) {
	userID, ok := parseUserIDParam(c)
	if !ok {
		return
	}

	adminID, ok := getAdminID(c)
	if !ok {
		return
	}
	if adminID == userID {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	if err := h.UserService.DeleteUser(userID); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			respondError(c, response.CodeNotFound, "error.user_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.user_delete_failed", err)
		return
	}

	requestLog(c).Infow("admin_user_deleted",
		"operator_user_id", adminID,
		"target_user_id", userID,
	)
	response.Success(c, gin.H{"deleted": true})
}

func parseUserIDParam(c *gin.Context) (uint, bool) {
	userID, err := strconv.ParseUint(strings.TrimSpace(c.Param("id")), 10, 64)
	if err != nil || userID == 0 {
		respondError(c, response.CodeBadRequest, "error.user_id_invalid", nil)
		return 0, false
	}
	return uint(userID), true
}
