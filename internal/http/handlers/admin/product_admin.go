package admin

import (
	"errors"
	"strconv"
	"strings"

	"github.com/karlion-shop/internal/http/response"
	"github.com/karlion-shop/internal/models"
	"github.com/karlion-shop/internal/repository"
	"github.com/karlion-shop/internal/service"

	"github.com/gin-gonic/gin"
)

// AdminProductRequest 管理端商品创建/更新请求
type AdminProductRequest struct {
	Name          string       `json:"name" binding:"required"`
	Description   string       `json:"description"`
	Price         models.Money `json:"price"`
	OriginalPrice models.Money `json:"original_price"`
	Stock         int          `json:"stock"`
	Category      string       `json:"category"`
	Page          string       `json:"page"`
	Images        []string     `json:"images"`
	Sizes         []string     `json:"sizes"`
	IsActive      *bool        `json:"is_active"`
	SortOrder     *int         `json:"sort_order"`
}

func (r AdminProductRequest) toServiceInput() service.ProductInput {
	return service.ProductInput{
		Name:          r.Name,
		Description:   r.Description,
		Price:         r.Price,
		OriginalPrice: r.OriginalPrice,
		Stock:         r.Stock,
		Category:      r.Category,
		Page:          r.Page,
		Images:        r.Images,
		Sizes:         r.Sizes,
		IsActive:      r.IsActive,
		SortOrder:     r.SortOrder,
	}
}

// AdminListProducts 管理端商品列表（含下架商品）
func (h *Handler) AdminListProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	products, total, err := h.ProductService.ListProducts(repository.ProductListFilter{
		Page:        page,
		PageSize:    pageSize,
		Category:    strings.TrimSpace(c.Query("category")),
		ProductPage: strings.TrimSpace(c.Query("product_page")),
		Search:      strings.TrimSpace(c.Query("search")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.product_fetch_failed", err)
		return
	}

	pagination := response.BuildPagination(page, pageSize, total)
	response.SuccessWithPage(c, products, pagination)
}

// AdminGetProduct 管理端商品详情
func (h *Handler) AdminGetProduct(c *gin.Context) {
	productID, ok := parseProductIDParam(c)
	if !ok {
		return
	}

	product, err := h.ProductService.GetProduct(productID)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			respondError(c, response.CodeNotFound, "error.product_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.product_fetch_failed", err)
		return
	}

	response.Success(c, product)
}

// AdminCreateProduct 管理端创建商品
func (h *Handler) AdminCreateProduct(c *gin.Context) {
	var req AdminProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	product, err := h.ProductService.CreateProduct(req.toServiceInput())
	if err != nil {
		if errors.Is(err, service.ErrProductInvalid) {
			respondError(c, response.CodeBadRequest, "error.product_invalid", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.product_save_failed", err)
		return
	}

	response.Success(c, product)
}

// AdminUpdateProduct 管理端更新商品
func (h *Handler) AdminUpdateProduct(c *gin.Context) {
	productID, ok := parseProductIDParam(c)
	if !ok {
		return
	}

	var req AdminProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	product, err := h.ProductService.UpdateProduct(productID, req.toServiceInput())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			respondError(c, response.CodeNotFound, "error.product_not_found", nil)
		case errors.Is(err, service.ErrProductInvalid):
			respondError(c, response.CodeBadRequest, "error.product_invalid", nil)
		default:
			respondError(c, response.CodeInternal, "error.product_save_failed", err)
		}
		return
	}

	response.Success(c, product)
}

// AdminDeleteProduct 管理端删除商品（软删除）
func (h *Handler) AdminDeleteProduct(c *gin.Context) {
	productID, ok := parseProductIDParam(c)
	if !ok {
		return
	}

	adminID, ok := getAdminID(c)
	if !ok {
		return
	}

	if err := h.ProductService.DeleteProduct(productID); err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			respondError(c, response.CodeNotFound, "error.product_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.product_delete_failed", err)
		return
	}

	requestLog(c).Infow("admin_product_deleted",
		"operator_user_id", adminID,
		"product_id", productID,
	)
	response.Success(c, gin.H{"deleted": true})
}

func parseProductIDParam(c *gin.Context) (uint, bool) {
	productID, err := strconv.ParseUint(strings.TrimSpace(c.Param("id")), 10, 64)
	if err != nil || productID == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return 0, false
	}
	return uint(productID), true
}
