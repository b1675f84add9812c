package public

import (
	"errors"
	"strconv"
	"strings"

	"github.com/karlion-shop/internal/http/response"
	"github.com/karlion-shop/internal/repository"
	"github.com/karlion-shop/internal/service"

	"github.com/gin-gonic/gin"
)

// GetProducts 获取商品列表（仅上架商品）
func (h *Handler) GetProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	products, total, err := h.ProductService.ListProducts(repository.ProductListFilter{
		Page:        page,
		PageSize:    pageSize,
		Category:    strings.TrimSpace(c.Query("category")),
		ProductPage: strings.TrimSpace(c.Query("product_page")),
		Search:      strings.TrimSpace(c.Query("search")),
		OnlyActive:  true,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.product_fetch_failed", err)
		return
	}

	pagination := response.BuildPagination(page, pageSize, total)
	response.SuccessWithPage(c, products, pagination)
}

// GetProduct 获取商品详情
func (h *Handler) GetProduct(c *gin.Context) {
	productID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || productID == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	product, err := h.ProductService.GetActiveProduct(uint(productID))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			respondError(c, response.CodeNotFound, "error.product_not_found", nil)
		case errors.Is(err, service.ErrProductNotAvailable):
			respondError(c, response.CodeNotFound, "error.product_inactive", nil)
		default:
			respondError(c, response.CodeInternal, "error.product_fetch_failed", err)
		}
		return
	}

	response.Success(c, product)
}
