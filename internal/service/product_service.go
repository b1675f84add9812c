package service

import (
	"strings"
	"time"

	"github.com/karlion-shop/internal/constants"
	"github.com/karlion-shop/internal/models"
	"github.com/karlion-shop/internal/repository"

	"github.com/shopspring/decimal"
)

// ProductService 商品服务
type ProductService struct {
	productRepo repository.ProductRepository
}

// NewProductService 创建商品服务
func NewProductService(productRepo repository.ProductRepository) *ProductService {
	return &ProductService{productRepo: productRepo}
}

// ListProducts 商品列表
func (s *ProductService) ListProducts(filter repository.ProductListFilter) ([]models.Product, int64, error) {
	return s.productRepo.List(filter)
}

// GetProduct 商品详情
func (s *ProductService) GetProduct(productID uint) (*models.Product, error) {
	if productID == 0 {
		return nil, ErrProductNotFound
	}
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// GetActiveProduct 面向店面的商品详情（仅上架商品）
func (s *ProductService) GetActiveProduct(productID uint) (*models.Product, error) {
	product, err := s.GetProduct(productID)
	if err != nil {
		return nil, err
	}
	if !product.IsActive {
		return nil, ErrProductNotAvailable
	}
	return product, nil
}

// ProductInput 商品创建/更新输入
type ProductInput struct {
	Name          string
	Description   string
	Price         models.Money
	OriginalPrice models.Money
	Stock         int
	Category      string
	Page          string
	Images        []string
	Sizes         []string
	IsActive      *bool
	SortOrder     *int
}

// CreateProduct 创建商品
func (s *ProductService) CreateProduct(input ProductInput) (*models.Product, error) {
	if err := validateProductInput(input); err != nil {
		return nil, err
	}

	now := time.Now()
	product := &models.Product{
		Name:          strings.TrimSpace(input.Name),
		Description:   strings.TrimSpace(input.Description),
		Price:         input.Price,
		OriginalPrice: input.OriginalPrice,
		Stock:         input.Stock,
		Category:      strings.TrimSpace(input.Category),
		Page:          normalizeProductPage(input.Page),
		Images:        models.StringArray(input.Images),
		Sizes:         models.StringArray(input.Sizes),
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}
	if input.SortOrder != nil {
		product.SortOrder = *input.SortOrder
	}

	if err := s.productRepo.Create(product); err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateProduct 更新商品
func (s *ProductService) UpdateProduct(productID uint, input ProductInput) (*models.Product, error) {
	product, err := s.GetProduct(productID)
	if err != nil {
		return nil, err
	}
	if err := validateProductInput(input); err != nil {
		return nil, err
	}

	product.Name = strings.TrimSpace(input.Name)
	product.Description = strings.TrimSpace(input.Description)
	product.Price = input.Price
	product.OriginalPrice = input.OriginalPrice
	product.Stock = input.Stock
	product.Category = strings.TrimSpace(input.Category)
	product.Page = normalizeProductPage(input.Page)
	product.Images = models.StringArray(input.Images)
	product.Sizes = models.StringArray(input.Sizes)
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}
	if input.SortOrder != nil {
		product.SortOrder = *input.SortOrder
	}
	product.UpdatedAt = time.Now()

	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct 删除商品（软删除）
func (s *ProductService) DeleteProduct(productID uint) error {
	product, err := s.GetProduct(productID)
	if err != nil {
		return err
	}
	return s.productRepo.Delete(product.ID)
}

func validateProductInput(input ProductInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return ErrProductInvalid
	}
	if input.Price.Decimal.LessThan(decimal.Zero) || input.OriginalPrice.Decimal.LessThan(decimal.Zero) {
		return ErrProductInvalid
	}
	if input.Stock < 0 {
		return ErrProductInvalid
	}
	if strings.TrimSpace(input.Page) != "" && normalizeProductPage(input.Page) == "" {
		return ErrProductInvalid
	}
	return nil
}

// normalizeProductPage 归一化分区到规范取值；不支持返回空串
func normalizeProductPage(page string) string {
	normalized := strings.TrimSpace(page)
	for _, supported := range constants.SupportedProductPages {
		if strings.EqualFold(normalized, supported) {
			return supported
		}
	}
	return ""
}
