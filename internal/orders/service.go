package orders

import (
	"archive/zip"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/flamoure/flamoure-backend/pkg/db/models"
	"github.com/flamoure/flamoure-backend/pkg/enums"
	pkgerrors "github.com/flamoure/flamoure-backend/pkg/errors"
	"github.com/flamoure/flamoure-backend/pkg/logger"
	"github.com/flamoure/flamoure-backend/pkg/outbox"
	"github.com/flamoure/flamoure-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type uploadLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Upload, error)
}

type objectDownloader interface {
	DownloadObject(ctx context.Context, bucket, object string) (io.ReadCloser, error)
	DefaultBucket() string
}

// Service exposes the admin-facing order operations.
type Service interface {
	Get(ctx context.Context, id uuid.UUID) (OrderDTO, error)
	GetByCode(ctx context.Context, code string) (OrderDTO, error)
	List(ctx context.Context, input ListInput) (OrderList, error)
	UpdateStatus(ctx context.Context, input UpdateStatusInput) (OrderDTO, error)
	Summary(ctx context.Context) (SummaryDTO, error)
	ExportCSV(ctx context.Context, filters ListFilters, w io.Writer) error
	ExportImagesZIP(ctx context.Context, orderID uuid.UUID, w io.Writer) error
}

type service struct {
	repo    Repository
	tx      txRunner
	outbox  outboxPublisher
	uploads uploadLoader
	storage objectDownloader
	logg    *logger.Logger
}

// NewService wires the order service. The upload loader and storage client
// are only exercised by the image export path.
func NewService(
	repo Repository,
	tx txRunner,
	outboxSvc outboxPublisher,
	uploads uploadLoader,
	storage objectDownloader,
	logg *logger.Logger,
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders service requires a repository")
	}
	if tx == nil {
		return nil, fmt.Errorf("orders service requires a transaction runner")
	}
	if outboxSvc == nil {
		return nil, fmt.Errorf("orders service requires an outbox publisher")
	}
	if uploads == nil {
		return nil, fmt.Errorf("orders service requires an upload loader")
	}
	if storage == nil {
		return nil, fmt.Errorf("orders service requires a storage client")
	}
	if logg == nil {
		return nil, fmt.Errorf("orders service requires a logger")
	}
	return &service{
		repo:    repo,
		tx:      tx,
		outbox:  outboxSvc,
		uploads: uploads,
		storage: storage,
		logg:    logg,
	}, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (OrderDTO, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return OrderDTO{}, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return OrderDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return toOrderDTO(order), nil
}

func (s *service) GetByCode(ctx context.Context, code string) (OrderDTO, error) {
	if code == "" {
		return OrderDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "order code is required")
	}
	order, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return OrderDTO{}, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return OrderDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return toOrderDTO(order), nil
}

func (s *service) List(ctx context.Context, input ListInput) (OrderList, error) {
	if input.Filters.Status != nil && !input.Filters.Status.IsValid() {
		return OrderList{}, pkgerrors.New(pkgerrors.CodeValidation, "unknown order status filter")
	}

	cursor, err := pagination.Parse(input.Pagination.Cursor)
	if err != nil {
		return OrderList{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	limit := pagination.NormalizeLimit(input.Pagination.Limit)

	rows, err := s.repo.List(ctx, input.Filters, cursor, pagination.LimitWithBuffer(limit))
	if err != nil {
		return OrderList{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}

	hasMore := len(rows) > limit
	if hasMore {
		rows = rows[:limit]
	}

	out := OrderList{HasMore: hasMore}
	for i := range rows {
		out.Orders = append(out.Orders, toOrderDTO(&rows[i]))
	}
	if hasMore && len(rows) > 0 {
		last := rows[len(rows)-1]
		out.NextCursor = pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}.Encode()
	}
	return out, nil
}

func (s *service) UpdateStatus(ctx context.Context, input UpdateStatusInput) (OrderDTO, error) {
	if !input.Status.IsValid() {
		return OrderDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "unknown order status")
	}

	var dto OrderDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := repo.FindByID(ctx, input.OrderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}

		if order.Status == input.Status {
			dto = toOrderDTO(order)
			return nil
		}
		if !order.Status.CanTransitionTo(input.Status) {
			return pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf(
				"cannot move order from %s to %s", order.Status, input.Status,
			))
		}

		if err := repo.UpdateStatus(ctx, order.ID, input.Status); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
		}

		eventType := enums.EventOrderStatusChanged
		if input.Status == enums.OrderStatusCancelled {
			eventType = enums.EventOrderCancelled
		}
		var actor *outbox.ActorRef
		if input.AdminID != nil {
			actor = &outbox.ActorRef{AdminID: input.AdminID.String()}
		}
		event := outbox.DomainEvent{
			EventType:     eventType,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Actor:         actor,
			Data: map[string]any{
				"orderCode": order.Code,
				"from":      order.Status.String(),
				"to":        input.Status.String(),
			},
			Version:    1,
			OccurredAt: time.Now(),
		}
		if err := s.outbox.Emit(ctx, tx, event); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "emit order event")
		}

		order.Status = input.Status
		dto = toOrderDTO(order)
		return nil
	})
	if err != nil {
		return OrderDTO{}, err
	}

	logCtx := s.logg.WithFields(ctx, map[string]any{
		"order_code": dto.Code,
		"status":     dto.Status,
	})
	s.logg.Info(logCtx, "order status updated")
	return dto, nil
}

func (s *service) Summary(ctx context.Context) (SummaryDTO, error) {
	count, gross, err := s.repo.SummaryTotals(ctx)
	if err != nil {
		return SummaryDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "aggregate orders")
	}
	counts, err := s.repo.StatusCounts(ctx)
	if err != nil {
		return SummaryDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count order statuses")
	}

	grossDec := decimal.NewFromInt(gross)
	aov := decimal.Zero
	if count > 0 {
		aov = grossDec.Div(decimal.NewFromInt(count)).Round(2)
	}
	return SummaryDTO{
		OrderCount:        count,
		GrossRevenue:      grossDec.String(),
		AverageOrderValue: aov.String(),
		Currency:          enums.CurrencyIDR.String(),
		StatusCounts:      counts,
	}, nil
}

var csvHeader = []string{
	"code", "customer_name", "customer_phone", "status",
	"subtotal", "bundle_discount", "total", "currency",
	"item_count", "created_at",
}

// ExportCSV streams every matching order as one CSV row.
func (s *service) ExportCSV(ctx context.Context, filters ListFilters, w io.Writer) error {
	rows, err := s.repo.ListForExport(ctx, filters)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders for export")
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "write export header")
	}
	for i := range rows {
		order := &rows[i]
		itemCount := 0
		for _, item := range order.LineItems {
			itemCount += item.Qty
		}
		record := []string{
			order.Code,
			order.CustomerName,
			order.CustomerPhone,
			order.Status.String(),
			strconv.FormatInt(order.Subtotal, 10),
			strconv.FormatInt(order.BundleDiscount, 10),
			strconv.FormatInt(order.Total, 10),
			string(order.Currency),
			strconv.Itoa(itemCount),
			order.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := writer.Write(record); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "write export row")
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "flush export")
	}
	return nil
}

// ExportImagesZIP bundles every uploaded image attached to the order into a
// zip archive, streamed straight from object storage.
func (s *service) ExportImagesZIP(ctx context.Context, orderID uuid.UUID, w io.Writer) error {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}

	var uploadIDs []uuid.UUID
	for _, item := range order.LineItems {
		uploadIDs = append(uploadIDs, item.UploadIDs...)
	}
	if len(uploadIDs) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "order has no uploaded images")
	}

	archive := zip.NewWriter(w)
	bucket := s.storage.DefaultBucket()
	for i, uploadID := range uploadIDs {
		upload, err := s.uploads.FindByID(ctx, uploadID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				logCtx := s.logg.WithFields(ctx, map[string]any{
					"order_code": order.Code,
					"upload_id":  uploadID.String(),
				})
				s.logg.Warn(logCtx, "skipping missing upload in image export")
				continue
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load upload")
		}

		if err := s.writeArchiveEntry(ctx, archive, bucket, i, upload); err != nil {
			return err
		}
	}
	if err := archive.Close(); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "finalize archive")
	}
	return nil
}

func (s *service) writeArchiveEntry(ctx context.Context, archive *zip.Writer, bucket string, index int, upload *models.Upload) error {
	body, err := s.storage.DownloadObject(ctx, bucket, upload.ObjectPath)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "download image")
	}
	defer body.Close()

	name := fmt.Sprintf("%02d-%s", index+1, path.Base(upload.ObjectPath))
	entry, err := archive.Create(name)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create archive entry")
	}
	if _, err := io.Copy(entry, body); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "write archive entry")
	}
	return nil
}
