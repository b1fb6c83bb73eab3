// Package checkout turns a priced cart into a persisted order, secures the
// customer's uploaded images, and hands the customer off to WhatsApp for
// payment.
package checkout

import (
	"context"
	"fmt"
	"path"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/flamoure/flamoure-backend/internal/cart"
	"github.com/flamoure/flamoure-backend/internal/orders"
	"github.com/flamoure/flamoure-backend/internal/pricing"
	"github.com/flamoure/flamoure-backend/pkg/config"
	"github.com/flamoure/flamoure-backend/pkg/db"
	"github.com/flamoure/flamoure-backend/pkg/db/models"
	dbtypes "github.com/flamoure/flamoure-backend/pkg/db/types"
	"github.com/flamoure/flamoure-backend/pkg/enums"
	pkgerrors "github.com/flamoure/flamoure-backend/pkg/errors"
	"github.com/flamoure/flamoure-backend/pkg/logger"
	"github.com/flamoure/flamoure-backend/pkg/metrics"
	"github.com/flamoure/flamoure-backend/pkg/outbox"
)

const codeAttempts = 5

var validate = validator.New()

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	EmitIfNotExists(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type cartStore interface {
	Load(ctx context.Context, sessionID string) (*cart.Document, error)
	Delete(ctx context.Context, sessionID string) error
}

type uploadStore interface {
	FindPendingBySession(ctx context.Context, sessionID string, ids []uuid.UUID) ([]models.Upload, error)
	AttachToOrderTx(ctx context.Context, tx *gorm.DB, id, orderID uuid.UUID, objectPath, publicURL string) error
}

type objectCopier interface {
	CopyObject(ctx context.Context, bucket, src, dst string) error
	PublicURL(bucket, object string) string
	DefaultBucket() string
}

type lastOrderWriter interface {
	SetLastOrderCode(ctx context.Context, sessionID, orderCode string) error
}

// SubmitInput carries the customer details captured on the checkout form.
type SubmitInput struct {
	SessionID     string  `json:"-"`
	CustomerName  string  `json:"customerName" validate:"required,min=2,max=100"`
	CustomerPhone string  `json:"customerPhone" validate:"required,min=8,max=20"`
	Note          *string `json:"note,omitempty" validate:"omitempty,max=500"`
}

// Result is returned to the storefront after a successful checkout.
type Result struct {
	OrderID        uuid.UUID `json:"orderId"`
	OrderCode      string    `json:"orderCode"`
	Subtotal       int64     `json:"subtotal"`
	BundleDiscount int64     `json:"bundleDiscount"`
	Total          int64     `json:"total"`
	Currency       string    `json:"currency"`
	WhatsAppURL    string    `json:"whatsappUrl"`
}

type Service interface {
	Submit(ctx context.Context, input SubmitInput) (Result, error)
}

type service struct {
	orders   orders.Repository
	carts    cartStore
	uploads  uploadStore
	storage  objectCopier
	outbox   outboxPublisher
	settings lastOrderWriter
	tx       txRunner
	cfg      config.CheckoutConfig
	rule     pricing.BundleRule
	checkout *metrics.CheckoutMetrics
	logg     *logger.Logger
}

func NewService(
	orderRepo orders.Repository,
	carts cartStore,
	uploads uploadStore,
	storage objectCopier,
	outboxSvc outboxPublisher,
	settings lastOrderWriter,
	tx txRunner,
	cfg config.CheckoutConfig,
	rule pricing.BundleRule,
	checkoutMetrics *metrics.CheckoutMetrics,
	logg *logger.Logger,
) (Service, error) {
	if orderRepo == nil {
		return nil, fmt.Errorf("checkout service requires an order repository")
	}
	if carts == nil {
		return nil, fmt.Errorf("checkout service requires a cart store")
	}
	if uploads == nil {
		return nil, fmt.Errorf("checkout service requires an upload store")
	}
	if storage == nil {
		return nil, fmt.Errorf("checkout service requires a storage client")
	}
	if outboxSvc == nil {
		return nil, fmt.Errorf("checkout service requires an outbox publisher")
	}
	if settings == nil {
		return nil, fmt.Errorf("checkout service requires a settings writer")
	}
	if tx == nil {
		return nil, fmt.Errorf("checkout service requires a transaction runner")
	}
	if cfg.AdminWhatsApp == "" {
		return nil, fmt.Errorf("checkout service requires an admin whatsapp number")
	}
	if checkoutMetrics == nil {
		return nil, fmt.Errorf("checkout service requires checkout metrics")
	}
	if logg == nil {
		return nil, fmt.Errorf("checkout service requires a logger")
	}
	return &service{
		orders:   orderRepo,
		carts:    carts,
		uploads:  uploads,
		storage:  storage,
		outbox:   outboxSvc,
		settings: settings,
		tx:       tx,
		cfg:      cfg,
		rule:     rule,
		checkout: checkoutMetrics,
		logg:     logg,
	}, nil
}

func (s *service) Submit(ctx context.Context, input SubmitInput) (Result, error) {
	result, err := s.submit(ctx, input)
	if err != nil {
		s.checkout.IncOrderCreated("failure")
		return Result{}, err
	}
	s.checkout.IncOrderCreated("success")
	s.checkout.AddBundleDiscount(result.BundleDiscount)
	return result, nil
}

func (s *service) submit(ctx context.Context, input SubmitInput) (Result, error) {
	if input.SessionID == "" {
		return Result{}, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	if err := validate.Struct(input); err != nil {
		return Result{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid checkout details")
	}

	doc, err := s.carts.Load(ctx, input.SessionID)
	if err != nil {
		return Result{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	if len(doc.Lines) == 0 {
		return Result{}, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	// Totals come from repricing the stored lines, never from the client.
	quote := quoteFor(doc, s.rule)

	code, err := s.uniqueCode(ctx)
	if err != nil {
		return Result{}, err
	}

	order := &models.Order{
		ID:             uuid.New(),
		Code:           code,
		CustomerName:   input.CustomerName,
		CustomerPhone:  input.CustomerPhone,
		Note:           input.Note,
		Status:         enums.OrderStatusPending,
		Subtotal:       quote.Subtotal,
		BundleDiscount: quote.BundleDiscount,
		Total:          quote.Total,
		Currency:       enums.CurrencyIDR,
	}
	items, uploadIDs := buildLineItems(order.ID, doc)

	// Object copies happen before the transaction opens. Copies are storage
	// round trips that would hold the tx open, and a rolled-back checkout
	// only strands objects under a code that is never reused.
	claims, err := s.copyUploads(ctx, input.SessionID, order.Code, uploadIDs)
	if err != nil {
		return Result{}, err
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.orders.WithTx(tx)
		if _, err := repo.CreateOrder(ctx, order); err != nil {
			if db.IsUniqueViolation(err, "orders_code_key") {
				return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "order code collision, retry checkout")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}
		if err := repo.CreateLineItems(ctx, items); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order lines")
		}

		// Attaches ride the same transaction: the rows carry a foreign key
		// to the order inserted above, and neither survives without the
		// other.
		for _, claim := range claims {
			if err := s.uploads.AttachToOrderTx(ctx, tx, claim.uploadID, order.ID, claim.objectPath, claim.publicURL); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "attach upload")
			}
		}

		event := outbox.DomainEvent{
			EventType:     enums.EventOrderCreated,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Actor:         &outbox.ActorRef{SessionID: input.SessionID},
			Data: map[string]any{
				"orderCode": order.Code,
				"total":     order.Total,
				"currency":  string(order.Currency),
				"lineCount": len(items),
			},
			Version:    1,
			OccurredAt: time.Now(),
		}
		if err := s.outbox.EmitIfNotExists(ctx, tx, event); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "emit order created event")
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	logCtx := s.logg.WithFields(ctx, map[string]any{
		"order_code": order.Code,
		"total":      order.Total,
		"lines":      len(items),
	})
	s.logg.Info(logCtx, "order created")

	if err := s.carts.Delete(ctx, input.SessionID); err != nil {
		s.logg.Error(logCtx, "clear cart after checkout", err)
	}
	if err := s.settings.SetLastOrderCode(ctx, input.SessionID, order.Code); err != nil {
		s.logg.Error(logCtx, "store last order pointer", err)
	}

	return Result{
		OrderID:        order.ID,
		OrderCode:      order.Code,
		Subtotal:       order.Subtotal,
		BundleDiscount: order.BundleDiscount,
		Total:          order.Total,
		Currency:       string(order.Currency),
		WhatsAppURL:    buildWhatsAppLink(s.cfg.AdminWhatsApp, order.Code, input.CustomerName, order.Total),
	}, nil
}

// uniqueCode retries generation against the orders table. The unique index
// still backstops the race between the check and the insert.
func (s *service) uniqueCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < codeAttempts; attempt++ {
		code, err := generateCode()
		if err != nil {
			return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate order code")
		}
		exists, err := s.orders.CodeExists(ctx, code)
		if err != nil {
			return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check order code")
		}
		if !exists {
			return code, nil
		}
	}
	return "", pkgerrors.New(pkgerrors.CodeInternal, "could not allocate an order code")
}

// quoteFor reprices the cart from its raw lines.
func quoteFor(doc *cart.Document, rule pricing.BundleRule) pricing.Quote {
	var items []pricing.LineItem
	for _, line := range doc.Lines {
		items = append(items, pricing.LineItem{
			ProductType: line.ProductType,
			UnitPrice:   line.UnitPrice,
			Qty:         line.Qty,
		})
	}
	return pricing.ComputeQuote(items, rule)
}

// buildLineItems snapshots cart lines into order rows. Photostrip image refs
// that parse as UUIDs are upload ids awaiting attachment; anything else
// (template asset paths) is carried verbatim.
func buildLineItems(orderID uuid.UUID, doc *cart.Document) ([]models.OrderLineItem, []uuid.UUID) {
	var items []models.OrderLineItem
	var allUploads []uuid.UUID
	seen := make(map[uuid.UUID]struct{})
	for _, line := range doc.Lines {
		lineUploads := make(dbtypes.UUIDArray, 0)
		for _, ref := range line.Images {
			if id, err := uuid.Parse(ref); err == nil {
				lineUploads = append(lineUploads, id)
				if _, ok := seen[id]; !ok {
					seen[id] = struct{}{}
					allUploads = append(allUploads, id)
				}
			}
		}

		productID := line.ProductID
		images := make(pq.StringArray, len(line.Images))
		copy(images, line.Images)
		items = append(items, models.OrderLineItem{
			ID:          uuid.New(),
			OrderID:     orderID,
			ProductID:   &productID,
			ProductName: line.ProductName,
			ProductType: line.ProductType,
			UnitPrice:   line.UnitPrice,
			Qty:         line.Qty,
			LineTotal:   line.UnitPrice * int64(line.Qty),
			Images:      images,
			UploadIDs:   lineUploads,
		})
	}
	return items, allUploads
}

// uploadClaim records one copied object awaiting its transactional attach.
type uploadClaim struct {
	uploadID   uuid.UUID
	objectPath string
	publicURL  string
}

// copyUploads copies the session's pending objects under the order's prefix
// and returns the claims to attach inside the checkout transaction. Copies
// fan out across a bounded worker pool since each one is a storage round
// trip.
func (s *service) copyUploads(ctx context.Context, sessionID, orderCode string, uploadIDs []uuid.UUID) ([]uploadClaim, error) {
	if len(uploadIDs) == 0 {
		return nil, nil
	}

	pending, err := s.uploads.FindPendingBySession(ctx, sessionID, uploadIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load pending uploads")
	}
	if len(pending) != len(uploadIDs) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart references images that were never uploaded")
	}

	bucket := s.storage.DefaultBucket()
	workers := s.cfg.UploadWorkers
	if workers < 1 {
		workers = 1
	}

	claims := make([]uploadClaim, len(pending))
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	var mu sync.Mutex
	var copyErr error
	for i := range pending {
		dst := fmt.Sprintf("orders/%s/%s", orderCode, path.Base(pending[i].ObjectPath))
		claims[i] = uploadClaim{
			uploadID:   pending[i].ID,
			objectPath: dst,
			publicURL:  s.storage.PublicURL(bucket, dst),
		}
		wg.Add(1)
		go func(src, dst string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			if err := s.storage.CopyObject(ctx, bucket, src, dst); err != nil {
				s.checkout.IncUploadFailure()
				mu.Lock()
				copyErr = multierr.Append(copyErr, fmt.Errorf("copy %s: %w", src, err))
				mu.Unlock()
			}
		}(pending[i].ObjectPath, dst)
	}
	wg.Wait()
	if copyErr != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, copyErr, "secure order images")
	}
	return claims, nil
}
