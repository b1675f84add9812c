package public

import (
	"errors"

	"github.com/karlion-shop/internal/http/response"
	"github.com/karlion-shop/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	key    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackKey string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.key, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackKey, err)
}

func concatMappedHandlerErrors(groups ...[]mappedHandlerError) []mappedHandlerError {
	total := 0
	for _, group := range groups {
		total += len(group)
	}
	result := make([]mappedHandlerError, 0, total)
	for _, group := range groups {
		result = append(result, group...)
	}
	return result
}

var orderCreateErrorRules = []mappedHandlerError{
	{target: service.ErrOrderEmptyItems, code: response.CodeBadRequest, key: "error.order_empty_items"},
	{target: service.ErrInvalidOrderItem, code: response.CodeBadRequest, key: "error.order_item_invalid"},
	{target: service.ErrOrderAmountMismatch, code: response.CodeBadRequest, key: "error.order_amount_mismatch"},
	{target: service.ErrPaymentMethodInvalid, code: response.CodeBadRequest, key: "error.order_payment_invalid"},
	{target: service.ErrProductNotFound, code: response.CodeBadRequest, key: "error.product_not_found"},
	{target: service.ErrProductNotAvailable, code: response.CodeBadRequest, key: "error.product_inactive"},
	{target: service.ErrUserNotFound, code: response.CodeUnauthorized, key: "error.unauthorized"},
}

var orderAccessErrorRules = []mappedHandlerError{
	{target: service.ErrOrderNotFound, code: response.CodeNotFound, key: "error.order_not_found"},
	{target: service.ErrOrderAccessDenied, code: response.CodeForbidden, key: "error.order_access_denied"},
}

var orderMutateErrorRules = []mappedHandlerError{
	{target: service.ErrOrderLocked, code: response.CodeConflict, key: "error.order_locked"},
	{target: service.ErrOrderStatusInvalid, code: response.CodeBadRequest, key: "error.order_status_invalid"},
}

var cartErrorRules = []mappedHandlerError{
	{target: service.ErrCartQuantityInvalid, code: response.CodeBadRequest, key: "error.cart_quantity_invalid"},
	{target: service.ErrProductNotFound, code: response.CodeBadRequest, key: "error.product_not_found"},
	{target: service.ErrProductNotAvailable, code: response.CodeBadRequest, key: "error.product_inactive"},
}

func respondOrderCreateError(c *gin.Context, err error) {
	respondWithMappedError(c, err, orderCreateErrorRules, response.CodeInternal, "error.order_create_failed")
}

func respondOrderAccessError(c *gin.Context, err error) {
	respondWithMappedError(c, err, orderAccessErrorRules, response.CodeInternal, "error.order_fetch_failed")
}

func respondOrderMutateError(c *gin.Context, err error) {
	respondWithMappedError(c, err, concatMappedHandlerErrors(orderAccessErrorRules, orderMutateErrorRules), response.CodeInternal, "error.order_update_failed")
}

func respondOrderOwnerUpdateError(c *gin.Context, err error) {
	respondWithMappedError(c, err, concatMappedHandlerErrors(orderAccessErrorRules, orderMutateErrorRules, orderCreateErrorRules), response.CodeInternal, "error.order_update_failed")
}

func respondCartError(c *gin.Context, err error) {
	respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "error.cart_update_failed")
}
