package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/utafrali/sportsstore/internal/domain"
	"github.com/utafrali/sportsstore/pkg/httpclient"
)

const shippingVerifierName = "shipping-verifier"

// HTTPShippingVerifier posts shipping details to an address verification
// service. 2xx accepts the address, 422 rejects it with the field errors of
// the response envelope, and anything else counts as unavailable.
type HTTPShippingVerifier struct {
	client *httpclient.CircuitBreakerClient
	url    string
	logger *slog.Logger
}

var _ ShippingVerifier = (*HTTPShippingVerifier)(nil)

// NewHTTPShippingVerifier creates a verifier calling url through a circuit breaker.
func NewHTTPShippingVerifier(url string, client *httpclient.Client, cbCfg httpclient.CircuitBreakerConfig, logger *slog.Logger) *HTTPShippingVerifier {
	if cbCfg.Name == "" {
		cbCfg.Name = shippingVerifierName
	}
	return &HTTPShippingVerifier{
		client: httpclient.NewCircuitBreakerClient(client, cbCfg, logger),
		url:    url,
		logger: logger,
	}
}

type verifyRequest struct {
	Name    string `json:"name"`
	Line1   string `json:"line1"`
	Line2   string `json:"line2,omitempty"`
	Line3   string `json:"line3,omitempty"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip,omitempty"`
	Country string `json:"country"`
}

// Verify implements ShippingVerifier.
func (v *HTTPShippingVerifier) Verify(ctx context.Context, shipping domain.ShippingDetails) (map[string]string, error) {
	resp, err := v.client.PostJSON(ctx, v.url, verifyRequest{
		Name:    shipping.Name,
		Line1:   shipping.Line1,
		Line2:   shipping.Line2,
		Line3:   shipping.Line3,
		City:    shipping.City,
		State:   shipping.State,
		Zip:     shipping.Zip,
		Country: shipping.Country,
	})
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", shippingVerifierName, err)
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		_ = resp.Body.Close()
		return nil, nil
	case resp.StatusCode == http.StatusUnprocessableEntity:
		downstream, _, err := httpclient.DecodeErrorBody(resp)
		if err != nil {
			return nil, fmt.Errorf("read %s response: %w", shippingVerifierName, err)
		}
		fields := map[string]string{}
		if downstream != nil {
			for k, msg := range downstream.Fields {
				fields[k] = msg
			}
			if len(fields) == 0 && downstream.Message != "" {
				fields["address"] = downstream.Message
			}
		}
		if len(fields) == 0 {
			fields["address"] = "could not be verified"
		}
		v.logger.InfoContext(ctx, "shipping address rejected", slog.Int("fields", len(fields)))
		return fields, nil
	default:
		return nil, httpclient.ParseResponseError(resp, shippingVerifierName)
	}
}
