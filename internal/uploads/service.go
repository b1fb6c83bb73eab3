package uploads

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/flamoure/flamoure-backend/pkg/config"
	"github.com/flamoure/flamoure-backend/pkg/db/models"
	"github.com/flamoure/flamoure-backend/pkg/enums"
	pkgerrors "github.com/flamoure/flamoure-backend/pkg/errors"
)

// PendingPrefix is where staged images live until an order claims them.
const PendingPrefix = "pending"

var allowedContentTypes = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
	"image/gif":  "gif",
}

type objectSigner interface {
	SignedURL(bucket, object, contentType string, expires time.Duration) (string, error)
	UploadObject(ctx context.Context, bucket, object, contentType string, body io.Reader) error
	PublicURL(bucket, object string) string
	DefaultBucket() string
}

type uploadStore interface {
	Create(ctx context.Context, upload *models.Upload) (*models.Upload, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Upload, error)
}

// Service stages photostrip images. Upload streams the image through the
// API; RequestUpload hands the client a signed PUT slot for direct upload.
type Service interface {
	Upload(ctx context.Context, sessionID string, input UploadInput) (*models.Upload, error)
	RequestUpload(ctx context.Context, sessionID string, input RequestUploadInput) (*UploadGrant, error)
	GetBySession(ctx context.Context, sessionID string, id uuid.UUID) (*models.Upload, error)
}

type service struct {
	repo   uploadStore
	signer objectSigner
	gcs    config.GCSConfig
	media  config.MediaConfig
}

// NewService builds the uploads service.
func NewService(repo uploadStore, signer objectSigner, gcs config.GCSConfig, media config.MediaConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("upload repository required")
	}
	if signer == nil {
		return nil, fmt.Errorf("object signer required")
	}
	return &service{repo: repo, signer: signer, gcs: gcs, media: media}, nil
}

// UploadInput carries one multipart image plus its declared metadata.
type UploadInput struct {
	ContentType string
	SizeBytes   int64
	Body        io.Reader
}

// Upload validates and streams the image into the session's pending prefix,
// recording the row once the object is stored.
func (s *service) Upload(ctx context.Context, sessionID string, input UploadInput) (*models.Upload, error) {
	ext, err := s.validate(sessionID, input.ContentType, input.SizeBytes)
	if err != nil {
		return nil, err
	}
	if input.Body == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "image body is required")
	}

	bucket := s.signer.DefaultBucket()
	objectPath := fmt.Sprintf("%s/%s/%s.%s", PendingPrefix, sessionID, uuid.NewString(), ext)

	if err := s.signer.UploadObject(ctx, bucket, objectPath, input.ContentType, input.Body); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store image")
	}

	row := &models.Upload{
		ObjectPath:  objectPath,
		PublicURL:   s.signer.PublicURL(bucket, objectPath),
		ContentType: input.ContentType,
		SizeBytes:   input.SizeBytes,
		Status:      enums.UploadStatusPending,
		SessionID:   &sessionID,
	}
	saved, err := s.repo.Create(ctx, row)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record upload")
	}
	return saved, nil
}

// RequestUploadInput describes one image the client wants to stage.
type RequestUploadInput struct {
	ContentType string
	SizeBytes   int64
}

// UploadGrant is a one-shot signed PUT slot plus the row tracking it.
type UploadGrant struct {
	UploadID  uuid.UUID `json:"uploadId"`
	UploadURL string    `json:"uploadUrl"`
	PublicURL string    `json:"publicUrl"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// RequestUpload validates the image and returns a signed PUT URL under the
// session's pending prefix.
func (s *service) RequestUpload(ctx context.Context, sessionID string, input RequestUploadInput) (*UploadGrant, error) {
	ext, err := s.validate(sessionID, input.ContentType, input.SizeBytes)
	if err != nil {
		return nil, err
	}

	bucket := s.signer.DefaultBucket()
	objectPath := fmt.Sprintf("%s/%s/%s.%s", PendingPrefix, sessionID, uuid.NewString(), ext)

	signedURL, err := s.signer.SignedURL(bucket, objectPath, input.ContentType, s.gcs.UploadURLExpiry)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sign upload url")
	}
	publicURL := s.signer.PublicURL(bucket, objectPath)

	row := &models.Upload{
		ObjectPath:  objectPath,
		PublicURL:   publicURL,
		ContentType: input.ContentType,
		SizeBytes:   input.SizeBytes,
		Status:      enums.UploadStatusPending,
		SessionID:   &sessionID,
	}
	saved, err := s.repo.Create(ctx, row)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record upload")
	}

	return &UploadGrant{
		UploadID:  saved.ID,
		UploadURL: signedURL,
		PublicURL: publicURL,
		ExpiresAt: time.Now().UTC().Add(s.gcs.UploadURLExpiry),
	}, nil
}

func (s *service) validate(sessionID, contentType string, sizeBytes int64) (string, error) {
	if sessionID == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	ext, ok := allowedContentTypes[contentType]
	if !ok {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "unsupported image content type")
	}
	maxBytes := int64(s.media.MaxUploadMB) * 1024 * 1024
	if sizeBytes <= 0 || sizeBytes > maxBytes {
		return "", pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf(
			"image size must be between 1 byte and %d MB", s.media.MaxUploadMB))
	}
	return ext, nil
}

// GetBySession loads one upload, scoped to its owning session.
func (s *service) GetBySession(ctx context.Context, sessionID string, id uuid.UUID) (*models.Upload, error) {
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "upload not found")
	}
	if row.SessionID == nil || *row.SessionID != sessionID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "upload not found")
	}
	return row, nil
}
