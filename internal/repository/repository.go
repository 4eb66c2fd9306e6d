package repository

import (
	"context"

	"github.com/utafrali/sportsstore/internal/domain"
)

// ProductRepository is the catalog store.
type ProductRepository interface {
	// List returns every product. Order is not guaranteed.
	List(ctx context.Context) ([]domain.Product, error)

	// GetByID returns apperrors.ErrNotFound when no product has id.
	GetByID(ctx context.Context, id int64) (*domain.Product, error)

	// Save inserts the product when its ID is 0, assigning the new ID,
	// and updates it otherwise. Updating a missing product returns ErrNotFound.
	Save(ctx context.Context, product *domain.Product) error

	// Delete removes the product and returns what was removed, or ErrNotFound.
	Delete(ctx context.Context, id int64) (*domain.Product, error)
}

// OrderRepository is the order store.
type OrderRepository interface {
	// SaveOrder stores the order and its lines atomically and assigns IDs.
	SaveOrder(ctx context.Context, order *domain.Order) error

	// List returns orders oldest first, excluding shipped ones unless includeShipped.
	List(ctx context.Context, includeShipped bool) ([]domain.Order, error)

	// GetByID returns the order with its lines, or ErrNotFound.
	GetByID(ctx context.Context, id int64) (*domain.Order, error)

	// MarkShipped flags the order as shipped. It returns ErrNotFound for an
	// unknown ID and is a no-op for an order that is already shipped.
	MarkShipped(ctx context.Context, id int64) error
}

// SessionStore keeps opaque per-visitor blobs.
type SessionStore interface {
	// Get returns apperrors.ErrNotFound when nothing is stored under key.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores data under key, replacing any previous value.
	Set(ctx context.Context, key string, data []byte) error
}

// UserRepository stores back-office accounts.
type UserRepository interface {
	// GetByUsername returns ErrNotFound when no account has username.
	GetByUsername(ctx context.Context, username string) (*domain.User, error)

	// Create inserts the user and assigns its ID. A taken username returns
	// an AlreadyExists error.
	Create(ctx context.Context, user *domain.User) error
}
