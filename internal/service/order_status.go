package service

import (
	"strings"

	"github.com/karlion-shop/internal/constants"
)

// orderEventPaid 支付事件的通知标签，不属于订单状态枚举
const orderEventPaid = "Paid"

func isOrderStatusKnown(status string) bool {
	switch status {
	case constants.OrderStatusPending,
		constants.OrderStatusProcessing,
		constants.OrderStatusShipped,
		constants.OrderStatusDelivered,
		constants.OrderStatusCancelled:
		return true
	default:
		return false
	}
}

func isPaymentMethodSupported(method string) bool {
	normalized := strings.TrimSpace(method)
	for _, supported := range constants.SupportedPaymentMethods {
		if strings.EqualFold(normalized, supported) {
			return true
		}
	}
	return false
}

// normalizePaymentMethod 统一支付方式到规范大小写
func normalizePaymentMethod(method string) string {
	normalized := strings.TrimSpace(method)
	for _, supported := range constants.SupportedPaymentMethods {
		if strings.EqualFold(normalized, supported) {
			return supported
		}
	}
	return normalized
}
