package constants

// 订单状态常量
const (
	OrderStatusPending    = "Pending"
	OrderStatusProcessing = "Processing"
	OrderStatusShipped    = "Shipped"
	OrderStatusDelivered  = "Delivered"
	OrderStatusCancelled  = "Cancelled"
)

// 支付方式常量
const (
	PaymentMethodCOD      = "COD"
	PaymentMethodRazorpay = "Razorpay"
	PaymentMethodStripe   = "Stripe"
	PaymentMethodPayPal   = "PayPal"
)

// 支持的支付方式顺序
var SupportedPaymentMethods = []string{
	PaymentMethodCOD,
	PaymentMethodRazorpay,
	PaymentMethodStripe,
	PaymentMethodPayPal,
}

// 用户角色常量
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// 用户状态常量
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// 商品分区常量
const (
	ProductPageMen   = "Men"
	ProductPageWomen = "Women"
	ProductPageKid   = "Kid"
)

// 支持的商品分区顺序
var SupportedProductPages = []string{ProductPageMen, ProductPageWomen, ProductPageKid}

// 队列常量
const (
	QueueDefault         = "default"
	TaskOrderStatusEmail = "order:status_email"
)

// 缓存默认配置常量
const (
	RedisPrefixDefault = "ks"
)

// 站点语言常量
const (
	LocaleEnUS = "en-US"
	LocaleZhCN = "zh-CN"
)

// 支持的站点语言顺序（含回退顺序）
var SupportedLocales = []string{LocaleEnUS, LocaleZhCN}
