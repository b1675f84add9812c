package service

import "errors"

// 服务层统一错误定义，供 HTTP 层映射为对应状态码与文案
var (
	ErrNotFound           = errors.New("资源不存在")
	ErrUserNotFound       = errors.New("用户不存在")
	ErrEmailExists        = errors.New("邮箱已被注册")
	ErrInvalidEmail       = errors.New("邮箱格式不正确")
	ErrInvalidCredentials = errors.New("邮箱或密码错误")
	ErrInvalidPassword    = errors.New("原密码不正确")
	ErrUserDisabled       = errors.New("账号已被禁用")
	ErrWeakPassword       = errors.New("密码不满足安全策略")
	ErrProfileEmpty       = errors.New("没有可更新的资料字段")

	ErrProductNotFound     = errors.New("商品不存在")
	ErrProductNotAvailable = errors.New("商品不可用")
	ErrProductInvalid      = errors.New("商品数据不合法")

	ErrCartQuantityInvalid = errors.New("购物车数量不合法")

	ErrInvalidOrderItem     = errors.New("订单项不合法")
	ErrOrderNotFound        = errors.New("订单不存在")
	ErrOrderAccessDenied    = errors.New("无权访问该订单")
	ErrOrderEmptyItems      = errors.New("订单不能为空")
	ErrOrderAmountMismatch  = errors.New("订单金额不一致")
	ErrPaymentMethodInvalid = errors.New("不支持的支付方式")
	ErrOrderLocked          = errors.New("订单已不可修改")
	ErrOrderStatusInvalid   = errors.New("订单状态不合法")
	ErrOrderFetchFailed     = errors.New("订单查询失败")
	ErrOrderCreateFailed    = errors.New("订单创建失败")
	ErrOrderUpdateFailed    = errors.New("订单更新失败")

	ErrEmailServiceDisabled      = errors.New("邮件服务未启用")
	ErrEmailServiceNotConfigured = errors.New("邮件服务未配置")
	ErrEmailRecipientRejected    = errors.New("收件邮箱被拒收")

	ErrQueueUnavailable = errors.New("队列服务不可用")
)
