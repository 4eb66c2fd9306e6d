package http

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cartItems(resp CartResponse) map[string]int {
	out := make(map[string]int, len(resp.Lines))
	for _, l := range resp.Lines {
		out[l.Product.Name] = l.Quantity
	}
	return out
}

func TestGetCart_Empty(t *testing.T) {
	env := newTestEnv(t)

	rec := env.get(t, "/api/v1/cart")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))

	resp := decodeData[CartResponse](t, rec)
	assert.Equal(t, testSessionID, resp.SessionID)
	assert.Empty(t, resp.Lines)
	assert.Equal(t, 0, resp.ItemCount)
	assert.True(t, resp.TotalValue.IsZero())
}

func TestAddItem_JSON(t *testing.T) {
	env := newTestEnv(t)

	rec := env.postJSON(t, "/api/v1/cart/items", map[string]any{"product_id": 1, "quantity": 2, "return_url": "/products/Watersports/page/1"})
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeData[CartResponse](t, rec)
	assert.Equal(t, map[string]int{"Kayak": 2}, cartItems(resp))
	assert.Equal(t, "/products/Watersports/page/1", resp.ReturnURL)

	// Quantity defaults to 1 and accumulates on the existing line.
	rec = env.postJSON(t, "/api/v1/cart/items", map[string]any{"product_id": 1})
	require.Equal(t, http.StatusOK, rec.Code)
	resp = decodeData[CartResponse](t, rec)
	assert.Equal(t, map[string]int{"Kayak": 3}, cartItems(resp))
	assert.Equal(t, 3, resp.ItemCount)
	assert.Equal(t, "825", resp.TotalValue.String())
	assert.Equal(t, "/", resp.ReturnURL)
}

func TestAddItem_Form(t *testing.T) {
	env := newTestEnv(t)

	rec := env.postForm(t, "/api/v1/cart/items", url.Values{"product_id": {"3"}, "quantity": {"2"}})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.postForm(t, "/api/v1/cart/items", url.Values{"product_id": {"6"}})
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeData[CartResponse](t, env.get(t, "/api/v1/cart"))
	assert.Equal(t, map[string]int{"Soccer Ball": 2, "Running Shoes": 1}, cartItems(resp))
	assert.Equal(t, "134", resp.TotalValue.String())
	require.Len(t, resp.Lines, 2)
	assert.Equal(t, "Soccer Ball", resp.Lines[0].Product.Name)
}

func TestAddItem_UnknownProductIsNoop(t *testing.T) {
	env := newTestEnv(t)
	env.postJSON(t, "/api/v1/cart/items", map[string]any{"product_id": 2})

	rec := env.postJSON(t, "/api/v1/cart/items", map[string]any{"product_id": 99})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]int{"Lifejacket": 1}, cartItems(decodeData[CartResponse](t, rec)))
}

func TestAddItem_Invalid(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name string
		body any
		code string
	}{
		{"missing product", map[string]any{"quantity": 1}, "VALIDATION_ERROR"},
		{"negative quantity", map[string]any{"product_id": 1, "quantity": -2}, "VALIDATION_ERROR"},
		{"too many", map[string]any{"product_id": 1, "quantity": 101}, "VALIDATION_ERROR"},
		{"malformed", "{not json", "INVALID_INPUT"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := env.postJSON(t, "/api/v1/cart/items", tc.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tc.code, decodeError(t, rec).Code)
		})
	}

	assert.Empty(t, decodeData[CartResponse](t, env.get(t, "/api/v1/cart")).Lines)
}

func TestAddItem_UnsupportedMediaType(t *testing.T) {
	env := newTestEnv(t)

	req := newRequest(http.MethodPost, "/api/v1/cart/items", "<product id='1'/>")
	req.Header.Set("Content-Type", "application/xml")
	rec := env.do(t, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	assert.Equal(t, "UNSUPPORTED_MEDIA_TYPE", decodeError(t, rec).Code)
}

func TestRemoveItem(t *testing.T) {
	env := newTestEnv(t)
	env.postJSON(t, "/api/v1/cart/items", map[string]any{"product_id": 1})
	env.postJSON(t, "/api/v1/cart/items", map[string]any{"product_id": 4, "quantity": 3})

	rec := env.del(t, "/api/v1/cart/items/1?return_url=/cart")

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeData[CartResponse](t, rec)
	assert.Equal(t, map[string]int{"Corner Flags": 3}, cartItems(resp))
	assert.Equal(t, "/cart", resp.ReturnURL)

	// Unknown product and a product not in the cart both leave it unchanged.
	for _, target := range []string{"/api/v1/cart/items/99", "/api/v1/cart/items/2"} {
		rec = env.del(t, target)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, map[string]int{"Corner Flags": 3}, cartItems(decodeData[CartResponse](t, rec)))
	}

	rec = env.del(t, "/api/v1/cart/items/abc")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestClearCart(t *testing.T) {
	env := newTestEnv(t)
	env.postJSON(t, "/api/v1/cart/items", map[string]any{"product_id": 5})

	rec := env.del(t, "/api/v1/cart")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeData[CartResponse](t, rec).Lines)
	assert.Empty(t, decodeData[CartResponse](t, env.get(t, "/api/v1/cart")).Lines)
}

func TestCart_SessionsAreIsolated(t *testing.T) {
	env := newTestEnv(t)
	env.postJSON(t, "/api/v1/cart/items", map[string]any{"product_id": 1})

	req := newRequest(http.MethodGet, "/api/v1/cart", "")
	req.Header.Set(SessionHeader, "7d444840-9dc0-41b2-9a41-5b7a1c2b1a55")
	rec := env.do(t, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeData[CartResponse](t, rec).Lines)
}
