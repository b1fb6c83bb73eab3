package cart

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	pkgerrors "github.com/flamoure/flamoure-backend/pkg/errors"
)

type cartStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	CartKey(sessionID string) string
}

// Repository persists cart documents keyed by session id. A missing document
// reads back as an empty cart; the TTL is refreshed on every write so active
// carts outlive their idle window.
type Repository struct {
	store cartStore
	ttl   time.Duration
}

// NewRepository builds a cart repository.
func NewRepository(store cartStore, ttl time.Duration) (*Repository, error) {
	if store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "cart store is required")
	}
	if ttl <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "cart ttl must be positive")
	}
	return &Repository{store: store, ttl: ttl}, nil
}

// Load reads the cart for a session, returning an empty document when none
// is stored.
func (r *Repository) Load(ctx context.Context, sessionID string) (*Document, error) {
	raw, err := r.store.Get(ctx, r.store.CartKey(sessionID))
	if err != nil {
		if err == redis.Nil {
			return &Document{SessionID: sessionID}, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	var doc Document
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode cart document")
	}
	doc.SessionID = sessionID
	return &doc, nil
}

// Save writes the cart and resets its TTL.
func (r *Repository) Save(ctx context.Context, doc *Document) error {
	doc.UpdatedAt = time.Now().UTC()
	payload, err := json.Marshal(doc)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode cart document")
	}
	if err := r.store.Set(ctx, r.store.CartKey(doc.SessionID), payload, r.ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart")
	}
	return nil
}

// Delete drops the cart. Deleting an absent cart is not an error.
func (r *Repository) Delete(ctx context.Context, sessionID string) error {
	if err := r.store.Del(ctx, r.store.CartKey(sessionID)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete cart")
	}
	return nil
}
