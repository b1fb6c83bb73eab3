// Package uploads stages photostrip images in object storage. Images land
// under a pending prefix scoped to the visitor session and are claimed by an
// order at checkout; anything never claimed ages out as orphaned.
package uploads

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/flamoure/flamoure-backend/pkg/db/models"
	"github.com/flamoure/flamoure-backend/pkg/enums"
)

// Repository wires upload persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new upload row.
func (r *Repository) Create(ctx context.Context, upload *models.Upload) (*models.Upload, error) {
	if err := r.db.WithContext(ctx).Create(upload).Error; err != nil {
		return nil, err
	}
	return upload, nil
}

// FindByID loads one upload row.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Upload, error) {
	var upload models.Upload
	if err := r.db.WithContext(ctx).First(&upload, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &upload, nil
}

// FindPendingBySession loads the listed uploads, restricted to pending rows
// owned by the session so one visitor can never claim another's images.
func (r *Repository) FindPendingBySession(ctx context.Context, sessionID string, ids []uuid.UUID) ([]models.Upload, error) {
	var rows []models.Upload
	if err := r.db.WithContext(ctx).
		Where("id IN ? AND session_id = ? AND status = ?", ids, sessionID, enums.UploadStatusPending).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// AttachToOrderTx marks an upload as claimed and rewrites its storage
// location inside tx, so the claim commits or rolls back with the order row
// it references.
func (r *Repository) AttachToOrderTx(ctx context.Context, tx *gorm.DB, id, orderID uuid.UUID, objectPath, publicURL string) error {
	if tx == nil {
		return errors.New("transaction required")
	}
	return tx.WithContext(ctx).
		Model(&models.Upload{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":      enums.UploadStatusAttached,
			"order_id":    orderID,
			"object_path": objectPath,
			"public_url":  publicURL,
		}).Error
}

// ListStalePending returns pending uploads older than the cutoff, for the
// orphan sweep.
func (r *Repository) ListStalePending(ctx context.Context, cutoff time.Time, limit int) ([]models.Upload, error) {
	var rows []models.Upload
	if err := r.db.WithContext(ctx).
		Where("status = ? AND created_at < ?", enums.UploadStatusPending, cutoff).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// MarkOrphaned flags uploads the sweep has deleted from storage.
func (r *Repository) MarkOrphaned(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.Upload{}).
		Where("id IN ?", ids).
		Update("status", enums.UploadStatusOrphaned).Error
}
