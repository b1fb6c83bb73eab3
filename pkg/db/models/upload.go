package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/flamoure/flamoure-backend/pkg/enums"
)

// Upload tracks a staged photostrip image in object storage. Uploads start
// under a pending prefix and move to the order's folder at checkout.
type Upload struct {
	ID          uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ObjectPath  string             `gorm:"column:object_path;not null;uniqueIndex"`
	PublicURL   string             `gorm:"column:public_url;not null"`
	ContentType string             `gorm:"column:content_type;not null"`
	SizeBytes   int64              `gorm:"column:size_bytes;not null"`
	Status      enums.UploadStatus `gorm:"column:status;type:upload_status;not null;default:'pending'"`
	OrderID     *uuid.UUID         `gorm:"column:order_id;type:uuid"`
	SessionID   *string            `gorm:"column:session_id"`
	CreatedAt   time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
