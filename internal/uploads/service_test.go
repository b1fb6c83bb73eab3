package uploads

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/flamoure/flamoure-backend/pkg/config"
	"github.com/flamoure/flamoure-backend/pkg/db/models"
	pkgerrors "github.com/flamoure/flamoure-backend/pkg/errors"
)

type stubSigner struct {
	signErr   error
	uploadErr error
	stored    map[string]string
}

func (s *stubSigner) SignedURL(bucket, object, contentType string, expires time.Duration) (string, error) {
	if s.signErr != nil {
		return "", s.signErr
	}
	return "https://storage.googleapis.com/" + bucket + "/" + object + "?signed", nil
}

func (s *stubSigner) UploadObject(_ context.Context, bucket, object, _ string, body io.Reader) error {
	if s.uploadErr != nil {
		return s.uploadErr
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	if s.stored == nil {
		s.stored = map[string]string{}
	}
	s.stored[bucket+"/"+object] = string(data)
	return nil
}

func (s *stubSigner) PublicURL(bucket, object string) string {
	return "https://storage.googleapis.com/" + bucket + "/" + object
}

func (s *stubSigner) DefaultBucket() string {
	return "flamoure-media"
}

type stubUploadStore struct {
	created []*models.Upload
	byID    map[uuid.UUID]*models.Upload
}

func newStubUploadStore() *stubUploadStore {
	return &stubUploadStore{byID: map[uuid.UUID]*models.Upload{}}
}

func (s *stubUploadStore) Create(_ context.Context, upload *models.Upload) (*models.Upload, error) {
	upload.ID = uuid.New()
	s.created = append(s.created, upload)
	s.byID[upload.ID] = upload
	return upload, nil
}

func (s *stubUploadStore) FindByID(_ context.Context, id uuid.UUID) (*models.Upload, error) {
	row, ok := s.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return row, nil
}

func newTestService(t *testing.T, store *stubUploadStore, signer *stubSigner) Service {
	t.Helper()
	svc, err := NewService(store, signer,
		config.GCSConfig{BucketName: "flamoure-media", UploadURLExpiry: 15 * time.Minute},
		config.MediaConfig{MaxUploadMB: 20},
	)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestRequestUpload_GrantsPendingSlot(t *testing.T) {
	t.Parallel()

	store := newStubUploadStore()
	svc := newTestService(t, store, &stubSigner{})

	grant, err := svc.RequestUpload(context.Background(), "sess-1", RequestUploadInput{
		ContentType: "image/jpeg",
		SizeBytes:   1 << 20,
	})
	if err != nil {
		t.Fatalf("RequestUpload: %v", err)
	}
	if grant.UploadID == uuid.Nil {
		t.Fatal("expected generated upload id")
	}
	if !strings.Contains(grant.UploadURL, "?signed") {
		t.Fatalf("expected signed url, got %s", grant.UploadURL)
	}

	if len(store.created) != 1 {
		t.Fatalf("expected one upload row, got %d", len(store.created))
	}
	row := store.created[0]
	if !strings.HasPrefix(row.ObjectPath, PendingPrefix+"/sess-1/") {
		t.Fatalf("object path %q not under the session pending prefix", row.ObjectPath)
	}
	if !strings.HasSuffix(row.ObjectPath, ".jpg") {
		t.Fatalf("object path %q missing extension", row.ObjectPath)
	}
	if row.SessionID == nil || *row.SessionID != "sess-1" {
		t.Fatalf("upload row not bound to session: %+v", row)
	}
}

func TestUpload_StreamsToPendingPrefix(t *testing.T) {
	t.Parallel()

	store := newStubUploadStore()
	signer := &stubSigner{}
	svc := newTestService(t, store, signer)

	row, err := svc.Upload(context.Background(), "sess-1", UploadInput{
		ContentType: "image/gif",
		SizeBytes:   4,
		Body:        strings.NewReader("GIF8"),
	})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if !strings.HasPrefix(row.ObjectPath, PendingPrefix+"/sess-1/") || !strings.HasSuffix(row.ObjectPath, ".gif") {
		t.Fatalf("unexpected object path %q", row.ObjectPath)
	}

	stored, ok := signer.stored["flamoure-media/"+row.ObjectPath]
	if !ok || stored != "GIF8" {
		t.Fatalf("object body not stored: %+v", signer.stored)
	}

	// Missing body is rejected before touching storage.
	_, err = svc.Upload(context.Background(), "sess-1", UploadInput{ContentType: "image/png", SizeBytes: 4})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for nil body, got %v", err)
	}
}

func TestUpload_StorageFailure(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, newStubUploadStore(), &stubSigner{uploadErr: io.ErrUnexpectedEOF})
	_, err := svc.Upload(context.Background(), "sess-1", UploadInput{
		ContentType: "image/png",
		SizeBytes:   4,
		Body:        strings.NewReader("data"),
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestRequestUpload_Validation(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, newStubUploadStore(), &stubSigner{})
	ctx := context.Background()

	cases := []struct {
		name    string
		session string
		input   RequestUploadInput
	}{
		{"missing session", "", RequestUploadInput{ContentType: "image/png", SizeBytes: 100}},
		{"bad content type", "sess-1", RequestUploadInput{ContentType: "application/pdf", SizeBytes: 100}},
		{"zero size", "sess-1", RequestUploadInput{ContentType: "image/png", SizeBytes: 0}},
		{"oversized", "sess-1", RequestUploadInput{ContentType: "image/png", SizeBytes: 21 << 20}},
	}
	for _, tc := range cases {
		_, err := svc.RequestUpload(ctx, tc.session, tc.input)
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("%s: expected validation error, got %v", tc.name, err)
		}
	}
}

func TestRequestUpload_SignFailure(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, newStubUploadStore(), &stubSigner{signErr: context.DeadlineExceeded})
	_, err := svc.RequestUpload(context.Background(), "sess-1", RequestUploadInput{
		ContentType: "image/webp",
		SizeBytes:   100,
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestGetBySession_ScopedToOwner(t *testing.T) {
	t.Parallel()

	store := newStubUploadStore()
	svc := newTestService(t, store, &stubSigner{})
	ctx := context.Background()

	grant, err := svc.RequestUpload(ctx, "sess-1", RequestUploadInput{
		ContentType: "image/png",
		SizeBytes:   512,
	})
	if err != nil {
		t.Fatalf("RequestUpload: %v", err)
	}

	row, err := svc.GetBySession(ctx, "sess-1", grant.UploadID)
	if err != nil {
		t.Fatalf("GetBySession: %v", err)
	}
	if row.ID != grant.UploadID {
		t.Fatalf("loaded wrong row: %+v", row)
	}

	_, err = svc.GetBySession(ctx, "sess-2", grant.UploadID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for foreign session, got %v", err)
	}

	_, err = svc.GetBySession(ctx, "sess-1", uuid.New())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for unknown id, got %v", err)
	}
}
