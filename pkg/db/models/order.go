package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/flamoure/flamoure-backend/pkg/enums"
)

// Order is the customer-facing purchase record. Code is the short reference
// shared over WhatsApp (FLAM-XXXXXX).
type Order struct {
	ID             uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Code           string            `gorm:"column:code;not null;uniqueIndex:orders_code_key"`
	CustomerName   string            `gorm:"column:customer_name;not null"`
	CustomerPhone  string            `gorm:"column:customer_phone;not null"`
	Note           *string           `gorm:"column:note"`
	Status         enums.OrderStatus `gorm:"column:status;type:order_status;not null;default:'pending'"`
	Subtotal       int64             `gorm:"column:subtotal;not null"`
	BundleDiscount int64             `gorm:"column:bundle_discount;not null;default:0"`
	Total          int64             `gorm:"column:total;not null"`
	Currency       enums.Currency    `gorm:"column:currency;not null;default:'IDR'"`
	LineItems      []OrderLineItem   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
