package models

import (
	"time"

	"gorm.io/gorm"
)

// Product 商品表
type Product struct {
	ID            uint           `gorm:"primarykey" json:"id"`                                        // 主键
	Name          string         `gorm:"not null;index" json:"name"`                                  // 名称
	Description   string         `gorm:"type:text" json:"description"`                                // 描述
	Price         Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price"`          // 售价（折后价）
	OriginalPrice Money          `gorm:"type:decimal(20,2);not null;default:0" json:"original_price"` // 原价
	Stock         int            `gorm:"not null;default:0" json:"stock"`                             // 库存数量
	Category      string         `gorm:"type:varchar(100);index" json:"category"`                     // 分类
	Page          string         `gorm:"type:varchar(20);index" json:"page"`                          // 分区（Men/Women/Kid）
	Images        StringArray    `gorm:"type:json" json:"images"`                                     // 图片数组
	Sizes         StringArray    `gorm:"type:json" json:"sizes"`                                      // 可选尺码
	IsActive      bool           `gorm:"default:true;index" json:"is_active"`                         // 是否上架
	SortOrder     int            `gorm:"default:0;index" json:"sort_order"`                           // 排序权重
	CreatedAt     time.Time      `gorm:"index" json:"created_at"`                                     // 创建时间
	UpdatedAt     time.Time      `json:"updated_at"`                                                  // 更新时间
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`                                              // 软删除时间
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}
