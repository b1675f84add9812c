package models

import (
	"time"

	"gorm.io/gorm"
)

// ShippingAddress 收货地址（内嵌到订单）
type ShippingAddress struct {
	Address    string `gorm:"type:varchar(500)" json:"address"`    // 街道地址
	City       string `gorm:"type:varchar(100)" json:"city"`       // 城市
	PostalCode string `gorm:"type:varchar(32)" json:"postal_code"` // 邮编
	Country    string `gorm:"type:varchar(100)" json:"country"`    // 国家
}

// PaymentResult 支付结果快照（内嵌到订单，来自支付方回执）
type PaymentResult struct {
	TxnID        string `gorm:"type:varchar(100)" json:"id"`            // 支付方交易号
	Status       string `gorm:"type:varchar(50)" json:"status"`         // 支付方状态
	UpdateTime   string `gorm:"type:varchar(50)" json:"update_time"`    // 支付方更新时间
	EmailAddress string `gorm:"type:varchar(255)" json:"email_address"` // 付款人邮箱
}

// Order 订单表
type Order struct {
	ID              uint            `gorm:"primarykey" json:"id"`                                        // 主键
	OrderNo         string          `gorm:"uniqueIndex;not null" json:"order_no"`                        // 订单编号
	UserID          uint            `gorm:"index;not null" json:"user_id"`                               // 用户ID
	Status          string          `gorm:"index;not null" json:"status"`                                // 订单状态
	ShippingAddress ShippingAddress `gorm:"embedded;embeddedPrefix:shipping_" json:"shipping_address"`   // 收货地址
	PaymentMethod   string          `gorm:"type:varchar(20);not null" json:"payment_method"`             // 支付方式
	PaymentResult   PaymentResult   `gorm:"embedded;embeddedPrefix:payment_" json:"payment_result"`      // 支付结果
	ItemPrice       Money           `gorm:"type:decimal(20,2);not null;default:0" json:"item_price"`     // 商品金额
	ShippingPrice   Money           `gorm:"type:decimal(20,2);not null;default:0" json:"shipping_price"` // 运费
	TotalPrice      Money           `gorm:"type:decimal(20,2);not null;default:0" json:"total_price"`    // 订单总额
	IsPaid          bool            `gorm:"index;not null;default:false" json:"is_paid"`                 // 是否已支付
	PaidAt          *time.Time      `gorm:"index" json:"paid_at"`                                        // 支付时间
	IsDelivered     bool            `gorm:"index;not null;default:false" json:"is_delivered"`            // 是否已送达
	DeliveredAt     *time.Time      `gorm:"index" json:"delivered_at"`                                   // 送达时间
	CancelledAt     *time.Time      `gorm:"index" json:"cancelled_at"`                                   // 取消时间
	CreatedAt       time.Time       `gorm:"index" json:"created_at"`                                     // 创建时间
	UpdatedAt       time.Time       `gorm:"index" json:"updated_at"`                                     // 更新时间
	DeletedAt       gorm.DeletedAt  `gorm:"index" json:"-"`                                              // 软删除时间

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"` // 订单项
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}
