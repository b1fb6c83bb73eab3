package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/flamoure/flamoure-backend/pkg/db/models"
	"github.com/flamoure/flamoure-backend/pkg/enums"
	"github.com/flamoure/flamoure-backend/pkg/pagination"
)

// Repository defines persistence operations for orders and their lines.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error)
	CreateLineItems(ctx context.Context, items []models.OrderLineItem) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	FindByCode(ctx context.Context, code string) (*models.Order, error)
	CodeExists(ctx context.Context, code string) (bool, error)
	List(ctx context.Context, filters ListFilters, cursor *pagination.Cursor, limit int) ([]models.Order, error)
	ListForExport(ctx context.Context, filters ListFilters) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error
	SummaryTotals(ctx context.Context) (count int64, gross int64, err error)
	StatusCounts(ctx context.Context) (map[enums.OrderStatus]int64, error)
}
