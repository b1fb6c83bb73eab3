package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/flamoure/flamoure-backend/pkg/db/models"
	"github.com/flamoure/flamoure-backend/pkg/enums"
	"github.com/flamoure/flamoure-backend/pkg/pagination"
)

type LineItemDTO struct {
	ID          uuid.UUID  `json:"id"`
	ProductID   *uuid.UUID `json:"product_id,omitempty"`
	ProductName string     `json:"product_name"`
	ProductType string     `json:"product_type"`
	UnitPrice   int64      `json:"unit_price"`
	Qty         int        `json:"qty"`
	LineTotal   int64      `json:"line_total"`
	Images      []string   `json:"images,omitempty"`
}

type OrderDTO struct {
	ID             uuid.UUID     `json:"id"`
	Code           string        `json:"code"`
	CustomerName   string        `json:"customer_name"`
	CustomerPhone  string        `json:"customer_phone"`
	Note           *string       `json:"note,omitempty"`
	Status         string        `json:"status"`
	Subtotal       int64         `json:"subtotal"`
	BundleDiscount int64         `json:"bundle_discount"`
	Total          int64         `json:"total"`
	Currency       string        `json:"currency"`
	LineItems      []LineItemDTO `json:"line_items,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

type ListFilters struct {
	Status *enums.OrderStatus
	Query  string
	From   *time.Time
	To     *time.Time
}

type ListInput struct {
	Filters    ListFilters
	Pagination pagination.Params
}

type OrderList struct {
	Orders     []OrderDTO `json:"orders"`
	NextCursor string     `json:"next_cursor,omitempty"`
	HasMore    bool       `json:"has_more"`
}

type UpdateStatusInput struct {
	OrderID uuid.UUID
	Status  enums.OrderStatus
	AdminID *uuid.UUID
}

type SummaryDTO struct {
	OrderCount        int64                        `json:"order_count"`
	GrossRevenue      string                       `json:"gross_revenue"`
	AverageOrderValue string                       `json:"average_order_value"`
	Currency          string                       `json:"currency"`
	StatusCounts      map[enums.OrderStatus]int64 `json:"status_counts"`
}

func toLineItemDTO(item models.OrderLineItem) LineItemDTO {
	return LineItemDTO{
		ID:          item.ID,
		ProductID:   item.ProductID,
		ProductName: item.ProductName,
		ProductType: string(item.ProductType),
		UnitPrice:   item.UnitPrice,
		Qty:         item.Qty,
		LineTotal:   item.LineTotal,
		Images:      item.Images,
	}
}

func toOrderDTO(order *models.Order) OrderDTO {
	dto := OrderDTO{
		ID:             order.ID,
		Code:           order.Code,
		CustomerName:   order.CustomerName,
		CustomerPhone:  order.CustomerPhone,
		Note:           order.Note,
		Status:         order.Status.String(),
		Subtotal:       order.Subtotal,
		BundleDiscount: order.BundleDiscount,
		Total:          order.Total,
		Currency:       string(order.Currency),
		CreatedAt:      order.CreatedAt,
		UpdatedAt:      order.UpdatedAt,
	}
	for _, item := range order.LineItems {
		dto.LineItems = append(dto.LineItems, toLineItemDTO(item))
	}
	return dto
}
