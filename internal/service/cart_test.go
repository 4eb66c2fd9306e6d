package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/sportsstore/internal/domain"
	"github.com/utafrali/sportsstore/internal/event"
	"github.com/utafrali/sportsstore/internal/repository/memory"
	apperrors "github.com/utafrali/sportsstore/pkg/errors"
)

type linePair struct {
	ProductID int64
	Quantity  int
}

func pairs(lines []domain.CartLine) []linePair {
	out := make([]linePair, len(lines))
	for i, l := range lines {
		out[i] = linePair{l.Product.ID, l.Quantity}
	}
	return out
}

func newTestCartService() (*CartService, *memory.SessionStore, *recordingPublisher) {
	store := memory.NewSessionStore()
	producer, pub := newTestProducer()
	products := memory.NewProductRepository(sampleCatalog()...)
	return NewCartService(NewCartManager(store, newTestLogger()), products, producer, newTestLogger()), store, pub
}

// --- CartManager ---

func TestCartManager_GetOrCreate_StoresEmptyCart(t *testing.T) {
	store := memory.NewSessionStore()
	m := NewCartManager(store, newTestLogger())
	ctx := context.Background()

	cart, err := m.GetOrCreate(ctx, "sess-1")
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())
	assert.Equal(t, "sess-1", cart.SessionID())

	data, err := store.Get(ctx, "cart:sess-1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"lines":[]}`, string(data))
}

func TestCartManager_RoundTrip(t *testing.T) {
	store := memory.NewSessionStore()
	m := NewCartManager(store, newTestLogger())
	ctx := context.Background()

	cart, err := m.GetOrCreate(ctx, "sess-1")
	require.NoError(t, err)
	require.NoError(t, cart.AddItem(ctx, product(2, "Surf board", "Watersports", "179"), 1))
	require.NoError(t, cart.AddItem(ctx, product(1, "Football", "Soccer", "25"), 2))
	require.NoError(t, cart.AddItem(ctx, product(2, "Surf board", "Watersports", "179"), 1))

	loaded, err := m.GetOrCreate(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, []linePair{{2, 2}, {1, 2}}, pairs(loaded.Lines()))
	assert.True(t, decimal.RequireFromString("408").Equal(loaded.ComputeTotalValue()))
	assert.Equal(t, 4, loaded.ItemCount())
}

func TestCartManager_SessionsAreIsolated(t *testing.T) {
	m := NewCartManager(memory.NewSessionStore(), newTestLogger())
	ctx := context.Background()

	a, _ := m.GetOrCreate(ctx, "a")
	require.NoError(t, a.AddItem(ctx, product(1, "Football", "Soccer", "25"), 1))

	b, err := m.GetOrCreate(ctx, "b")
	require.NoError(t, err)
	assert.True(t, b.IsEmpty())
}

func TestCartManager_UndecodablePayloadStartsFresh(t *testing.T) {
	store := memory.NewSessionStore()
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "cart:sess-1", []byte("not json")))

	cart, err := NewCartManager(store, newTestLogger()).GetOrCreate(ctx, "sess-1")
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())

	data, _ := store.Get(ctx, "cart:sess-1")
	assert.JSONEq(t, `{"lines":[]}`, string(data))
}

func TestCartManager_StoreReadFailureStartsFresh(t *testing.T) {
	store := new(mockSessionStore)
	ctx := context.Background()
	store.On("Get", ctx, "cart:sess-1").Return(nil, errors.New("redis: connection refused"))
	store.On("Set", ctx, "cart:sess-1", mock.Anything).Return(errors.New("redis: connection refused"))

	cart, err := NewCartManager(store, newTestLogger()).GetOrCreate(ctx, "sess-1")
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())
	store.AssertExpectations(t)
}

func TestCartManager_ExistingCartNotRewritten(t *testing.T) {
	store := new(mockSessionStore)
	ctx := context.Background()
	store.On("Get", ctx, "cart:sess-1").Return([]byte(`{"lines":[]}`), nil)

	_, err := NewCartManager(store, newTestLogger()).GetOrCreate(ctx, "sess-1")
	require.NoError(t, err)
	store.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything)
}

func TestCartManager_EmptySessionID(t *testing.T) {
	_, err := NewCartManager(memory.NewSessionStore(), newTestLogger()).GetOrCreate(context.Background(), "")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestSessionCart_MutationReturnsPersistenceError(t *testing.T) {
	store := new(mockSessionStore)
	ctx := context.Background()
	store.On("Get", ctx, "cart:sess-1").Return([]byte(`{"lines":[]}`), nil)
	store.On("Set", ctx, "cart:sess-1", mock.Anything).Return(errors.New("write failed"))

	cart, err := NewCartManager(store, newTestLogger()).GetOrCreate(ctx, "sess-1")
	require.NoError(t, err)

	err = cart.AddItem(ctx, product(1, "Football", "Soccer", "25"), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store cart")
	assert.Equal(t, 1, cart.ItemCount())
}

func TestSessionCart_MarshalJSON(t *testing.T) {
	cart, err := NewCartManager(memory.NewSessionStore(), newTestLogger()).GetOrCreate(context.Background(), "s")
	require.NoError(t, err)
	require.NoError(t, cart.AddItem(context.Background(), product(1, "Football", "Soccer", "25"), 2))

	data, err := json.Marshal(cart)
	require.NoError(t, err)

	var decoded domain.Cart
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, []linePair{{1, 2}}, pairs(decoded.Lines()))
}

// --- CartService ---

func TestCartService_AddToCart(t *testing.T) {
	svc, _, pub := newTestCartService()
	ctx := context.Background()

	_, err := svc.AddToCart(ctx, "sess-1", 1, 1)
	require.NoError(t, err)
	cart, err := svc.AddToCart(ctx, "sess-1", 1, 2)
	require.NoError(t, err)

	assert.Equal(t, []linePair{{1, 3}}, pairs(cart.Lines()))
	assert.Equal(t, []string{event.TopicCartUpdated, event.TopicCartUpdated}, pub.published())
}

func TestCartService_AddToCart_UnknownProductIsNoop(t *testing.T) {
	svc, _, pub := newTestCartService()

	cart, err := svc.AddToCart(context.Background(), "sess-1", 999, 1)
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())
	assert.Empty(t, pub.published())
}

func TestCartService_AddToCart_RejectsBadQuantity(t *testing.T) {
	svc, store, _ := newTestCartService()

	for _, q := range []int{0, -1} {
		_, err := svc.AddToCart(context.Background(), "sess-1", 1, q)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	}

	_, err := store.Get(context.Background(), "cart:sess-1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCartService_AddToCart_CatalogFailure(t *testing.T) {
	products := new(mockProductRepository)
	producer, _ := newTestProducer()
	svc := NewCartService(NewCartManager(memory.NewSessionStore(), newTestLogger()), products, producer, newTestLogger())
	ctx := context.Background()

	products.On("GetByID", ctx, int64(1)).Return(nil, errors.New("db down"))

	_, err := svc.AddToCart(ctx, "sess-1", 1, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "get product 1")
}

func TestCartService_RemoveFromCart(t *testing.T) {
	svc, _, _ := newTestCartService()
	ctx := context.Background()

	_, _ = svc.AddToCart(ctx, "sess-1", 1, 1)
	_, _ = svc.AddToCart(ctx, "sess-1", 2, 1)
	_, _ = svc.AddToCart(ctx, "sess-1", 3, 1)

	cart, err := svc.RemoveFromCart(ctx, "sess-1", 2)
	require.NoError(t, err)
	assert.Equal(t, []linePair{{1, 1}, {3, 1}}, pairs(cart.Lines()))

	cart, err = svc.RemoveFromCart(ctx, "sess-1", 999)
	require.NoError(t, err)
	assert.Len(t, cart.Lines(), 2)

	cart, err = svc.RemoveFromCart(ctx, "sess-1", 2)
	require.NoError(t, err)
	assert.Len(t, cart.Lines(), 2)
}

func TestCartService_ClearCart(t *testing.T) {
	svc, store, _ := newTestCartService()
	ctx := context.Background()

	_, _ = svc.AddToCart(ctx, "sess-1", 1, 1)
	cart, err := svc.ClearCart(ctx, "sess-1")
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())

	data, _ := store.Get(ctx, "cart:sess-1")
	assert.JSONEq(t, `{"lines":[]}`, string(data))
}

func TestCartService_PublishFailureIgnored(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("broker down")}
	products := memory.NewProductRepository(sampleCatalog()...)
	svc := NewCartService(NewCartManager(memory.NewSessionStore(), newTestLogger()), products, event.NewProducer(pub, newTestLogger()), newTestLogger())

	cart, err := svc.AddToCart(context.Background(), "sess-1", 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, cart.ItemCount())
}
