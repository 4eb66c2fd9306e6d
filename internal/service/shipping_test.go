package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/sportsstore/pkg/httpclient"
)

func newTestVerifier(t *testing.T, handler http.HandlerFunc) *HTTPShippingVerifier {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := httpclient.New(httpclient.Config{
		Timeout:      2 * time.Second,
		MaxRetries:   0,
		RetryWaitMin: time.Millisecond,
		RetryWaitMax: time.Millisecond,
	})
	cb := httpclient.DefaultCircuitBreakerConfig("shipping-verifier-" + t.Name())
	return NewHTTPShippingVerifier(srv.URL+"/verify", client, cb, newTestLogger())
}

func TestHTTPShippingVerifier_Accepts(t *testing.T) {
	var got verifyRequest
	v := newTestVerifier(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/verify", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusNoContent)
	})

	fields, err := v.Verify(context.Background(), validShipping())
	require.NoError(t, err)
	assert.Empty(t, fields)
	assert.Equal(t, "Springfield", got.City)
	assert.Equal(t, "USA", got.Country)
}

func TestHTTPShippingVerifier_RejectsWithFields(t *testing.T) {
	v := newTestVerifier(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error":{"code":"UNVERIFIABLE","message":"address rejected","fields":{"zip":"does not match city"}}}`))
	})

	fields, err := v.Verify(context.Background(), validShipping())
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"zip": "does not match city"}, fields)
}

func TestHTTPShippingVerifier_RejectsWithMessageOnly(t *testing.T) {
	v := newTestVerifier(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error":{"code":"UNVERIFIABLE","message":"unknown street"}}`))
	})

	fields, err := v.Verify(context.Background(), validShipping())
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"address": "unknown street"}, fields)
}

func TestHTTPShippingVerifier_RejectsWithoutEnvelope(t *testing.T) {
	v := newTestVerifier(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte("nope"))
	})

	fields, err := v.Verify(context.Background(), validShipping())
	require.NoError(t, err)
	assert.Equal(t, "could not be verified", fields["address"])
}

func TestHTTPShippingVerifier_ServerErrorIsUnavailable(t *testing.T) {
	v := newTestVerifier(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	fields, err := v.Verify(context.Background(), validShipping())
	require.Error(t, err)
	assert.Nil(t, fields)
}

func TestHTTPShippingVerifier_ClientErrorIsUnavailable(t *testing.T) {
	v := newTestVerifier(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"code":"UNAUTHORIZED","message":"bad key"}}`))
	})

	_, err := v.Verify(context.Background(), validShipping())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "shipping-verifier")
}

func TestHTTPShippingVerifier_Unreachable(t *testing.T) {
	client := httpclient.New(httpclient.Config{Timeout: time.Second})
	v := NewHTTPShippingVerifier("http://127.0.0.1:1/verify", client, httpclient.DefaultCircuitBreakerConfig(""), newTestLogger())

	_, err := v.Verify(context.Background(), validShipping())
	assert.Error(t, err)
}
