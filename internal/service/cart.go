package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/utafrali/sportsstore/internal/domain"
	"github.com/utafrali/sportsstore/internal/event"
	"github.com/utafrali/sportsstore/internal/repository"
	apperrors "github.com/utafrali/sportsstore/pkg/errors"
)

const cartKeyPrefix = "cart:"

// CartKey returns the session store key of a session's cart.
func CartKey(sessionID string) string {
	return cartKeyPrefix + sessionID
}

// CartManager loads session carts from the session store.
type CartManager struct {
	store  repository.SessionStore
	logger *slog.Logger
}

// NewCartManager creates a new cart manager.
func NewCartManager(store repository.SessionStore, logger *slog.Logger) *CartManager {
	return &CartManager{
		store:  store,
		logger: logger,
	}
}

// GetOrCreate returns the cart stored for sessionID. When nothing usable is
// stored (absent, unreadable or undecodable) a fresh empty cart is stored
// and returned; failing to store it is logged and not returned.
func (m *CartManager) GetOrCreate(ctx context.Context, sessionID string) (*SessionCart, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}

	sc := &SessionCart{
		cart:      domain.NewCart(),
		sessionID: sessionID,
		key:       CartKey(sessionID),
		store:     m.store,
	}

	data, err := m.store.Get(ctx, sc.key)
	switch {
	case err == nil:
		decodeErr := json.Unmarshal(data, sc.cart)
		if decodeErr == nil {
			return sc, nil
		}
		m.logger.WarnContext(ctx, "discarding undecodable cart",
			slog.String("session_id", sessionID),
			slog.String("error", decodeErr.Error()),
		)
		sc.cart = domain.NewCart()
	case errors.Is(err, apperrors.ErrNotFound):
	default:
		m.logger.WarnContext(ctx, "session store read failed, starting empty cart",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
	}

	if err := sc.persist(ctx); err != nil {
		m.logger.ErrorContext(ctx, "failed to store new cart",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
	}
	return sc, nil
}

// SessionCart is a cart bound to a session. Every mutation is written back
// to the session store under the same key.
type SessionCart struct {
	cart      *domain.Cart
	sessionID string
	key       string
	store     repository.SessionStore
}

// SessionID returns the owning session.
func (c *SessionCart) SessionID() string { return c.sessionID }

// Lines returns a copy of the lines in insertion order.
func (c *SessionCart) Lines() []domain.CartLine { return c.cart.Lines() }

// IsEmpty reports whether the cart has no lines.
func (c *SessionCart) IsEmpty() bool { return c.cart.IsEmpty() }

// ItemCount returns the total number of units.
func (c *SessionCart) ItemCount() int { return c.cart.ItemCount() }

// ComputeTotalValue returns the sum of line totals.
func (c *SessionCart) ComputeTotalValue() decimal.Decimal { return c.cart.ComputeTotalValue() }

// AddItem adds quantity units of product and persists the cart.
func (c *SessionCart) AddItem(ctx context.Context, product domain.Product, quantity int) error {
	c.cart.AddItem(product, quantity)
	return c.persist(ctx)
}

// RemoveLine removes the product's line and persists the cart.
func (c *SessionCart) RemoveLine(ctx context.Context, product domain.Product) error {
	c.cart.RemoveLine(product)
	return c.persist(ctx)
}

// Clear empties the cart and persists it.
func (c *SessionCart) Clear(ctx context.Context) error {
	c.cart.Clear()
	return c.persist(ctx)
}

// MarshalJSON encodes the underlying cart in the session format.
func (c *SessionCart) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.cart)
}

func (c *SessionCart) persist(ctx context.Context) error {
	data, err := json.Marshal(c.cart)
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}
	if err := c.store.Set(ctx, c.key, data); err != nil {
		return fmt.Errorf("store cart: %w", err)
	}
	return nil
}

// CartService implements the storefront cart operations.
type CartService struct {
	carts    *CartManager
	products repository.ProductRepository
	producer *event.Producer
	logger   *slog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(carts *CartManager, products repository.ProductRepository, producer *event.Producer, logger *slog.Logger) *CartService {
	return &CartService{
		carts:    carts,
		products: products,
		producer: producer,
		logger:   logger,
	}
}

// GetCart returns the session's cart, creating an empty one if needed.
func (s *CartService) GetCart(ctx context.Context, sessionID string) (*SessionCart, error) {
	return s.carts.GetOrCreate(ctx, sessionID)
}

// AddToCart adds quantity units of the product to the session's cart. An
// unknown product ID leaves the cart unchanged.
func (s *CartService) AddToCart(ctx context.Context, sessionID string, productID int64, quantity int) (*SessionCart, error) {
	if quantity < 1 {
		return nil, apperrors.InvalidInput("quantity must be at least 1")
	}

	cart, err := s.carts.GetOrCreate(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	product, err := s.lookup(ctx, productID)
	if err != nil || product == nil {
		return cart, err
	}

	if err := cart.AddItem(ctx, *product, quantity); err != nil {
		return nil, fmt.Errorf("add item: %w", err)
	}

	s.logger.InfoContext(ctx, "cart item added",
		slog.String("session_id", sessionID),
		slog.Int64("product_id", productID),
		slog.Int("quantity", quantity),
	)
	s.publishUpdated(ctx, cart)
	return cart, nil
}

// RemoveFromCart removes the product's line from the session's cart. An
// unknown product ID leaves the cart unchanged.
func (s *CartService) RemoveFromCart(ctx context.Context, sessionID string, productID int64) (*SessionCart, error) {
	cart, err := s.carts.GetOrCreate(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	product, err := s.lookup(ctx, productID)
	if err != nil || product == nil {
		return cart, err
	}

	if err := cart.RemoveLine(ctx, *product); err != nil {
		return nil, fmt.Errorf("remove line: %w", err)
	}

	s.logger.InfoContext(ctx, "cart line removed",
		slog.String("session_id", sessionID),
		slog.Int64("product_id", productID),
	)
	s.publishUpdated(ctx, cart)
	return cart, nil
}

// ClearCart empties the session's cart.
func (s *CartService) ClearCart(ctx context.Context, sessionID string) (*SessionCart, error) {
	cart, err := s.carts.GetOrCreate(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := cart.Clear(ctx); err != nil {
		return nil, fmt.Errorf("clear cart: %w", err)
	}
	s.publishUpdated(ctx, cart)
	return cart, nil
}

func (s *CartService) lookup(ctx context.Context, productID int64) (*domain.Product, error) {
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.logger.DebugContext(ctx, "ignoring unknown product", slog.Int64("product_id", productID))
			return nil, nil
		}
		return nil, fmt.Errorf("get product %d: %w", productID, err)
	}
	return product, nil
}

func (s *CartService) publishUpdated(ctx context.Context, cart *SessionCart) {
	if err := s.producer.PublishCartUpdated(ctx, cart.sessionID, cart.cart); err != nil {
		s.logger.WarnContext(ctx, "failed to publish cart.updated event",
			slog.String("session_id", cart.sessionID),
			slog.String("error", err.Error()),
		)
	}
}
