package main

import (
	"fmt"

	"github.com/karlion-shop/internal/config"
	"github.com/karlion-shop/internal/constants"
	"github.com/karlion-shop/internal/logger"
	"github.com/karlion-shop/internal/models"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 初始化默认管理员
	if err := models.InitDefaultAdmin(cfg.Admin.Email, cfg.Admin.Password); err != nil {
		stdLog.Printf("Failed to init default admin: %v", err)
	}

	products := []seedProduct{
		{
			Name:          "Classic Oxford Shirt",
			Description:   "Breathable cotton oxford shirt for everyday wear.",
			Price:         "39.99",
			OriginalPrice: "49.99",
			Stock:         120,
			Category:      "Shirts",
			Page:          constants.ProductPageMen,
			Images:        []string{"https://images.unsplash.com/photo-1596755094514-f87e34085b2c?w=800"},
			Sizes:         []string{"S", "M", "L", "XL"},
			SortOrder:     300,
		},
		{
			Name:          "Slim Fit Chinos",
			Description:   "Stretch twill chinos with a tapered leg.",
			Price:         "54.90",
			OriginalPrice: "64.90",
			Stock:         80,
			Category:      "Trousers",
			Page:          constants.ProductPageMen,
			Images:        []string{"https://images.unsplash.com/photo-1473966968600-fa801b869a1a?w=800"},
			Sizes:         []string{"30", "32", "34", "36"},
			SortOrder:     280,
		},
		{
			Name:          "Floral Summer Dress",
			Description:   "Lightweight midi dress with an all-over floral print.",
			Price:         "69.00",
			OriginalPrice: "89.00",
			Stock:         60,
			Category:      "Dresses",
			Page:          constants.ProductPageWomen,
			Images:        []string{"https://images.unsplash.com/photo-1595777457583-95e059d581b8?w=800"},
			Sizes:         []string{"XS", "S", "M", "L"},
			SortOrder:     300,
		},
		{
			Name:          "High-Waist Denim Jeans",
			Description:   "Vintage wash denim with a flattering high rise.",
			Price:         "59.50",
			OriginalPrice: "75.00",
			Stock:         95,
			Category:      "Jeans",
			Page:          constants.ProductPageWomen,
			Images:        []string{"https://images.unsplash.com/photo-1541099649105-f69ad21f3246?w=800"},
			Sizes:         []string{"25", "26", "27", "28", "29"},
			SortOrder:     260,
		},
		{
			Name:          "Dinosaur Print Hoodie",
			Description:   "Soft fleece hoodie kids will not want to take off.",
			Price:         "29.90",
			OriginalPrice: "35.90",
			Stock:         150,
			Category:      "Hoodies",
			Page:          constants.ProductPageKid,
			Images:        []string{"https://images.unsplash.com/photo-1519238263530-99bdd11df2ea?w=800"},
			Sizes:         []string{"4Y", "6Y", "8Y", "10Y"},
			SortOrder:     300,
		},
		{
			Name:          "Canvas Play Sneakers",
			Description:   "Durable low-top sneakers for the playground.",
			Price:         "24.50",
			OriginalPrice: "24.50",
			Stock:         200,
			Category:      "Shoes",
			Page:          constants.ProductPageKid,
			Images:        []string{"https://images.unsplash.com/photo-1514989940723-e8e51635b782?w=800"},
			Sizes:         []string{"28", "30", "32", "34"},
			SortOrder:     280,
		},
	}

	created, updated := 0, 0
	for _, item := range products {
		price, err := models.NewMoneyFromString(item.Price)
		if err != nil {
			stdLog.Printf("Skip product %s: bad price: %v", item.Name, err)
			continue
		}
		originalPrice, err := models.NewMoneyFromString(item.OriginalPrice)
		if err != nil {
			stdLog.Printf("Skip product %s: bad original price: %v", item.Name, err)
			continue
		}

		row := models.Product{
			Name:          item.Name,
			Description:   item.Description,
			Price:         price,
			OriginalPrice: originalPrice,
			Stock:         item.Stock,
			Category:      item.Category,
			Page:          item.Page,
			Images:        models.StringArray(item.Images),
			Sizes:         models.StringArray(item.Sizes),
			IsActive:      true,
			SortOrder:     item.SortOrder,
		}

		var existing models.Product
		if err := models.DB.Where("name = ?", item.Name).First(&existing).Error; err != nil {
			if err := models.DB.Create(&row).Error; err != nil {
				stdLog.Printf("Failed to create product %s: %v", item.Name, err)
				continue
			}
			created++
			stdLog.Printf("Created product: %s", item.Name)
			continue
		}

		existing.Description = row.Description
		existing.Price = row.Price
		existing.OriginalPrice = row.OriginalPrice
		existing.Stock = row.Stock
		existing.Category = row.Category
		existing.Page = row.Page
		existing.Images = row.Images
		existing.Sizes = row.Sizes
		existing.IsActive = row.IsActive
		existing.SortOrder = row.SortOrder
		if err := models.DB.Save(&existing).Error; err != nil {
			stdLog.Printf("Failed to update product %s: %v", item.Name, err)
			continue
		}
		updated++
		stdLog.Printf("Updated product: %s", item.Name)
	}

	fmt.Println("\nSeed finished.")
	fmt.Printf("- Products created: %d\n", created)
	fmt.Printf("- Products updated: %d\n", updated)
}

type seedProduct struct {
	Name          string
	Description   string
	Price         string
	OriginalPrice string
	Stock         int
	Category      string
	Page          string
	Images        []string
	Sizes         []string
	SortOrder     int
}
