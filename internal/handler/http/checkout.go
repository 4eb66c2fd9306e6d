package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/utafrali/sportsstore/internal/domain"
	"github.com/utafrali/sportsstore/internal/service"
	"github.com/utafrali/sportsstore/pkg/httputil"
	"github.com/utafrali/sportsstore/pkg/validator"
)

// CheckoutHandler turns the session cart into an order.
type CheckoutHandler struct {
	carts    *service.CartService
	checkout *service.CheckoutService
	logger   *slog.Logger
}

// NewCheckoutHandler creates a new checkout HTTP handler.
func NewCheckoutHandler(carts *service.CartService, checkout *service.CheckoutService, logger *slog.Logger) *CheckoutHandler {
	return &CheckoutHandler{carts: carts, checkout: checkout, logger: logger}
}

// Checkout handles POST /api/v1/checkout. The shipping details may be posted
// as JSON or as a form. Field errors do not short-circuit here; they are
// handed to the checkout workflow, which decides the outcome. A submitted
// order answers 201, a rejection 422.
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req service.CheckoutRequest
	if err := validator.DecodeRequest(r, &req.Shipping); err != nil {
		var valErr *validator.ValidationError
		if !errors.As(err, &valErr) {
			httputil.WriteValidationError(w, err)
			return
		}
		req.ValidationErrors = valErr.Fields()
	}

	cart, err := h.carts.GetCart(r.Context(), sessionID(r))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	outcome, err := h.checkout.Checkout(r.Context(), cart, req)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	status := http.StatusCreated
	if outcome.Status == domain.CheckoutRejected {
		status = http.StatusUnprocessableEntity
	}
	httputil.WriteData(w, status, outcome)
}
