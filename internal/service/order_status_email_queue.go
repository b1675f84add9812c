package service

import (
	"strings"

	"github.com/karlion-shop/internal/queue"
	"github.com/karlion-shop/internal/repository"
)

// enqueueOrderStatusEmailTaskIfEligible 按收件人情况决定是否入队状态邮件任务。
// 返回值 skipped 表示任务被跳过（例如订单没有可用收件邮箱）。
func enqueueOrderStatusEmailTaskIfEligible(orderRepo repository.OrderRepository, queueClient *queue.Client, orderID uint, status string) (skipped bool, err error) {
	if queueClient == nil || !queueClient.Enabled() || orderID == 0 {
		return true, nil
	}

	if orderRepo != nil {
		receiverEmail, _, lookupErr := orderRepo.ResolveReceiverByOrderID(orderID)
		if lookupErr == nil && strings.TrimSpace(receiverEmail) == "" {
			return true, nil
		}
	}

	if err := queueClient.EnqueueOrderStatusEmail(queue.OrderStatusEmailPayload{
		OrderID: orderID,
		Status:  strings.TrimSpace(status),
	}); err != nil {
		return false, err
	}
	return false, nil
}
