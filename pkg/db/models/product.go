package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/flamoure/flamoure-backend/pkg/enums"
)

// Product represents a storefront listing. Photostrips are composed in the
// editor before purchase; merch carries a fixed unit price.
type Product struct {
	ID            uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Slug          string            `gorm:"column:slug;not null;uniqueIndex"`
	Name          string            `gorm:"column:name;not null"`
	Type          enums.ProductType `gorm:"column:type;type:product_type;not null"`
	Description   *string           `gorm:"column:description"`
	Price         int64             `gorm:"column:price;not null"`
	OriginalPrice *int64            `gorm:"column:original_price"`
	ImageURL      *string           `gorm:"column:image_url"`
	SlotCount     *int              `gorm:"column:slot_count"`
	SortOrder     int               `gorm:"column:sort_order;not null;default:0"`
	IsActive      bool              `gorm:"column:is_active;not null;default:true"`
	CreatedAt     time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
