package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	dbtypes "github.com/flamoure/flamoure-backend/pkg/db/types"
	"github.com/flamoure/flamoure-backend/pkg/enums"
)

// OrderLineItem snapshots one cart line at checkout time. Images preserves
// the customer's slot ordering for photostrip lines.
type OrderLineItem struct {
	ID          uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID     uuid.UUID         `gorm:"column:order_id;type:uuid;not null"`
	ProductID   *uuid.UUID        `gorm:"column:product_id;type:uuid"`
	ProductName string            `gorm:"column:product_name;not null"`
	ProductType enums.ProductType `gorm:"column:product_type;type:product_type;not null"`
	UnitPrice   int64             `gorm:"column:unit_price;not null"`
	Qty         int               `gorm:"column:qty;not null"`
	LineTotal   int64             `gorm:"column:line_total;not null"`
	Images      pq.StringArray    `gorm:"column:images;type:text[];not null;default:ARRAY[]::text[]"`
	UploadIDs   dbtypes.UUIDArray `gorm:"column:upload_ids;type:uuid[];not null;default:ARRAY[]::uuid[]"`
	CreatedAt   time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
