package http

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/sportsstore/internal/domain"
	"github.com/utafrali/sportsstore/internal/service"
)

func shippingJSON() map[string]any {
	return map[string]any{
		"name":     "Joe Bloggs",
		"line1":    "1 Main Street",
		"city":     "Springfield",
		"state":    "IL",
		"zip":      "62701",
		"country":  "USA",
		"giftwrap": true,
	}
}

func TestCheckout_Submitted(t *testing.T) {
	env := newTestEnv(t)
	env.postJSON(t, "/api/v1/cart/items", map[string]any{"product_id": 1, "quantity": 2})
	env.postJSON(t, "/api/v1/cart/items", map[string]any{"product_id": 3})

	rec := env.postJSON(t, "/api/v1/checkout", shippingJSON())

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	outcome := decodeData[domain.CheckoutOutcome](t, rec)
	assert.Equal(t, domain.CheckoutSubmitted, outcome.Status)
	require.NotNil(t, outcome.Order)
	assert.NotZero(t, outcome.Order.ID)
	assert.Equal(t, "Joe Bloggs", outcome.Order.Name)
	assert.True(t, outcome.Order.GiftWrap)
	require.Len(t, outcome.Order.Lines, 2)
	assert.Equal(t, "569.5", outcome.Order.Total().String())

	stored, err := env.orders.GetByID(context.Background(), outcome.Order.ID)
	require.NoError(t, err)
	assert.Equal(t, "Springfield", stored.City)

	assert.Empty(t, decodeData[CartResponse](t, env.get(t, "/api/v1/cart")).Lines)
}

func TestCheckout_Form(t *testing.T) {
	env := newTestEnv(t)
	env.postJSON(t, "/api/v1/cart/items", map[string]any{"product_id": 6})

	rec := env.postForm(t, "/api/v1/checkout", url.Values{
		"name":     {"Ann"},
		"line1":    {"2 High St"},
		"city":     {"Leeds"},
		"state":    {"West Yorkshire"},
		"country":  {"UK"},
		"giftwrap": {"false"},
	})

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	outcome := decodeData[domain.CheckoutOutcome](t, rec)
	assert.Equal(t, "Leeds", outcome.Order.City)
	assert.False(t, outcome.Order.GiftWrap)
}

func TestCheckout_EmptyCart(t *testing.T) {
	env := newTestEnv(t)

	rec := env.postJSON(t, "/api/v1/checkout", shippingJSON())

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	outcome := decodeData[domain.CheckoutOutcome](t, rec)
	assert.Equal(t, domain.CheckoutRejected, outcome.Status)
	assert.Equal(t, domain.EmptyCartMessage, outcome.Reason)
	assert.Nil(t, outcome.Order)
}

func TestCheckout_EmptyCartWinsOverInvalidDetails(t *testing.T) {
	env := newTestEnv(t)

	rec := env.postJSON(t, "/api/v1/checkout", map[string]any{"name": "Joe"})

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, domain.EmptyCartMessage, decodeData[domain.CheckoutOutcome](t, rec).Reason)
}

func TestCheckout_InvalidDetails(t *testing.T) {
	env := newTestEnv(t)
	env.postJSON(t, "/api/v1/cart/items", map[string]any{"product_id": 1})

	body := shippingJSON()
	delete(body, "line1")
	delete(body, "country")
	rec := env.postJSON(t, "/api/v1/checkout", body)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	outcome := decodeData[domain.CheckoutOutcome](t, rec)
	assert.Equal(t, service.InvalidDetailsReason, outcome.Reason)
	assert.Contains(t, outcome.FieldErrors, "Line1")
	assert.Contains(t, outcome.FieldErrors, "Country")

	// The cart survives a rejection.
	assert.Len(t, decodeData[CartResponse](t, env.get(t, "/api/v1/cart")).Lines, 1)
}

func TestCheckout_UnverifiedAddress(t *testing.T) {
	env := newTestEnv(t)
	env.verifier.fields = map[string]string{"zip": "does not match city"}
	env.postJSON(t, "/api/v1/cart/items", map[string]any{"product_id": 1})

	rec := env.postJSON(t, "/api/v1/checkout", shippingJSON())

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	outcome := decodeData[domain.CheckoutOutcome](t, rec)
	assert.Equal(t, service.UnverifiedAddressReason, outcome.Reason)
	assert.Equal(t, "does not match city", outcome.FieldErrors["zip"])
}

func TestCheckout_VerifierDownDoesNotBlock(t *testing.T) {
	env := newTestEnv(t)
	env.verifier.err = errors.New("connection refused")
	env.postJSON(t, "/api/v1/cart/items", map[string]any{"product_id": 1})

	rec := env.postJSON(t, "/api/v1/checkout", shippingJSON())

	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestCheckout_MalformedBody(t *testing.T) {
	env := newTestEnv(t)

	rec := env.postJSON(t, "/api/v1/checkout", "{oops")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_INPUT", decodeError(t, rec).Code)
}
