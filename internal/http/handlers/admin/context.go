package admin

import (
	handlershared "github.com/karlion-shop/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
)

func getContextUintWithKeys(c *gin.Context, key, invalidKey, typeInvalidKey string) (uint, bool) {
	return handlershared.GetContextUintWithKeys(c, key, invalidKey, typeInvalidKey)
}

// getAdminID 管理端操作者即登录用户本身，角色校验由路由中间件完成。
func getAdminID(c *gin.Context) (uint, bool) {
	return getContextUintWithKeys(c, "user_id", "error.admin_id_invalid", "error.admin_id_type_invalid")
}
