package i18n

import (
	"fmt"
	"strings"

	"github.com/karlion-shop/internal/constants"

	"github.com/gin-gonic/gin"
)

// messages 按语言组织的文案目录
var messages = map[string]map[string]string{
	constants.LocaleEnUS: {
		"error.bad_request":            "Invalid request",
		"error.unauthorized":           "Authentication required",
		"error.forbidden":              "Permission denied",
		"error.not_found":              "Resource not found",
		"error.too_many_requests":      "Too many requests, please try again later",
		"error.internal_error":         "Internal server error",
		"error.invalid_token":          "Invalid or expired token",
		"error.token_revoked":          "Session has been revoked, please sign in again",
		"error.jwt_secret_missing":     "Authentication is not configured",
		"error.auth_header_missing":    "Authorization header is required",
		"error.auth_header_invalid":    "Authorization header is malformed",
		"error.user_id_invalid":        "Invalid user identity",
		"error.user_id_type_invalid":   "Unexpected user identity type",
		"error.admin_id_invalid":       "Invalid admin identity",
		"error.admin_id_type_invalid":  "Unexpected admin identity type",
		"error.user_disabled":          "Account is disabled",
		"error.user_not_found":         "User not found",
		"error.email_exists":           "Email is already registered",
		"error.email_invalid":          "Invalid email address",
		"error.invalid_credentials":    "Incorrect email or password",
		"error.password_too_short":     "Password must be at least %d characters",
		"error.password_too_weak":      "Password does not meet the required complexity",
		"error.password_old_invalid":   "Current password is incorrect",
		"error.profile_empty":          "Nothing to update",
		"error.register_failed":        "Registration failed",
		"error.login_failed":           "Login failed",
		"error.login_rate_limited":     "Too many login attempts, please retry in %d seconds",
		"error.rate_limited":           "Too many requests, please retry in %d seconds",
		"error.rate_limit_unavailable": "Rate limiter is unavailable",
		"error.user_fetch_failed":      "Failed to load user",
		"error.user_update_failed":     "Failed to update user",
		"error.user_delete_failed":     "Failed to delete user",
		"error.save_failed":            "Failed to save changes",
		"error.product_not_found":      "Product not found",
		"error.product_inactive":       "Product is not available",
		"error.product_invalid":        "Invalid product data",
		"error.product_fetch_failed":   "Failed to load products",
		"error.product_save_failed":    "Failed to save product",
		"error.product_delete_failed":  "Failed to delete product",
		"error.cart_quantity_invalid":  "Quantity must be at least 1",
		"error.cart_fetch_failed":      "Failed to load cart",
		"error.cart_update_failed":     "Failed to update cart",
		"error.order_not_found":        "Order not found",
		"error.order_access_denied":    "Order belongs to another account",
		"error.order_empty_items":      "Order must contain at least one item",
		"error.order_item_invalid":     "Invalid order item",
		"error.order_amount_mismatch":  "Order totals do not add up",
		"error.order_payment_invalid":  "Unsupported payment method",
		"error.order_locked":           "Order can no longer be modified",
		"error.order_status_invalid":   "Invalid order status change",
		"error.order_fetch_failed":     "Failed to load orders",
		"error.order_create_failed":    "Failed to create order",
		"error.order_update_failed":    "Failed to update order",
		"error.order_delete_failed":    "Failed to delete order",
		"error.stats_fetch_failed":     "Failed to load statistics",
		"order.status.pending":         "Pending",
		"order.status.processing":      "Processing",
		"order.status.shipped":         "Shipped",
		"order.status.delivered":       "Delivered",
		"order.status.cancelled":       "Cancelled",
		"order.status.paid":            "Paid",
		"email.order_status_subject":   "Your order %s is now %s",
		"email.order_status_body":      "Hello %s,\r\n\r\nThe status of your order %s changed to %s.\r\n\r\nThank you for shopping with us.",
	},
	constants.LocaleZhCN: {
		"error.bad_request":            "请求参数有误",
		"error.unauthorized":           "请先登录",
		"error.forbidden":              "没有操作权限",
		"error.not_found":              "资源不存在",
		"error.too_many_requests":      "请求过于频繁，请稍后再试",
		"error.internal_error":         "服务器内部错误",
		"error.invalid_token":          "登录凭证无效或已过期",
		"error.token_revoked":          "登录状态已失效，请重新登录",
		"error.jwt_secret_missing":     "鉴权服务未配置",
		"error.auth_header_missing":    "缺少鉴权请求头",
		"error.auth_header_invalid":    "鉴权请求头格式错误",
		"error.user_id_invalid":        "用户身份无效",
		"error.user_id_type_invalid":   "用户身份类型异常",
		"error.admin_id_invalid":       "管理员身份无效",
		"error.admin_id_type_invalid":  "管理员身份类型异常",
		"error.user_disabled":          "账号已被禁用",
		"error.user_not_found":         "用户不存在",
		"error.email_exists":           "邮箱已被注册",
		"error.email_invalid":          "邮箱格式不正确",
		"error.invalid_credentials":    "邮箱或密码错误",
		"error.password_too_short":     "密码长度不能少于 %d 位",
		"error.password_too_weak":      "密码复杂度不满足要求",
		"error.password_old_invalid":   "当前密码不正确",
		"error.profile_empty":          "没有需要更新的内容",
		"error.register_failed":        "注册失败",
		"error.login_failed":           "登录失败",
		"error.login_rate_limited":     "登录尝试过于频繁，请 %d 秒后再试",
		"error.rate_limited":           "请求过于频繁，请 %d 秒后再试",
		"error.rate_limit_unavailable": "限流服务暂不可用",
		"error.user_fetch_failed":      "获取用户失败",
		"error.user_update_failed":     "更新用户失败",
		"error.user_delete_failed":     "删除用户失败",
		"error.save_failed":            "保存失败",
		"error.product_not_found":      "商品不存在",
		"error.product_inactive":       "商品已下架",
		"error.product_invalid":        "商品数据不合法",
		"error.product_fetch_failed":   "获取商品失败",
		"error.product_save_failed":    "保存商品失败",
		"error.product_delete_failed":  "删除商品失败",
		"error.cart_quantity_invalid":  "数量不能小于 1",
		"error.cart_fetch_failed":      "获取购物车失败",
		"error.cart_update_failed":     "更新购物车失败",
		"error.order_not_found":        "订单不存在",
		"error.order_access_denied":    "订单属于其他账号",
		"error.order_empty_items":      "订单至少需要一个商品",
		"error.order_item_invalid":     "订单商品项不合法",
		"error.order_amount_mismatch":  "订单金额不一致",
		"error.order_payment_invalid":  "不支持的支付方式",
		"error.order_locked":           "订单已不可修改",
		"error.order_status_invalid":   "非法的订单状态变更",
		"error.order_fetch_failed":     "获取订单失败",
		"error.order_create_failed":    "创建订单失败",
		"error.order_update_failed":    "更新订单失败",
		"error.order_delete_failed":    "删除订单失败",
		"error.stats_fetch_failed":     "获取统计数据失败",
		"order.status.pending":         "待支付",
		"order.status.processing":      "处理中",
		"order.status.shipped":         "已发货",
		"order.status.delivered":       "已送达",
		"order.status.cancelled":       "已取消",
		"order.status.paid":            "已支付",
		"email.order_status_subject":   "您的订单 %s 状态更新为 %s",
		"email.order_status_body":      "%s 您好：\r\n\r\n您的订单 %s 状态已更新为 %s。\r\n\r\n感谢您的惠顾。",
	},
}

// T 按语言取文案；缺失时回退默认语言，再回退 key 本身
func T(locale, key string) string {
	if catalog, ok := messages[normalize(locale)]; ok {
		if msg, ok := catalog[key]; ok {
			return msg
		}
	}
	if msg, ok := messages[constants.LocaleEnUS][key]; ok {
		return msg
	}
	return key
}

// Sprintf 按语言取文案并格式化参数
func Sprintf(locale, key string, args ...interface{}) string {
	msg := T(locale, key)
	if len(args) == 0 {
		return msg
	}
	return fmt.Sprintf(msg, args...)
}

// ResolveLocale 解析请求语言：?locale= 优先，其次 Accept-Language
func ResolveLocale(c *gin.Context) string {
	if c == nil {
		return constants.LocaleEnUS
	}
	if locale := normalize(c.Query("locale")); locale != "" {
		return locale
	}
	header := c.GetHeader("Accept-Language")
	for _, part := range strings.Split(header, ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		if locale := normalize(tag); locale != "" {
			return locale
		}
	}
	return constants.LocaleEnUS
}

// normalize 归一化语言标签到受支持集合；不支持返回空串
func normalize(tag string) string {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return ""
	}
	lower := strings.ToLower(tag)
	for _, supported := range constants.SupportedLocales {
		if strings.EqualFold(tag, supported) {
			return supported
		}
	}
	switch {
	case strings.HasPrefix(lower, "zh"):
		return constants.LocaleZhCN
	case strings.HasPrefix(lower, "en"):
		return constants.LocaleEnUS
	}
	return ""
}
