package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/utafrali/sportsstore/internal/domain"
	"github.com/utafrali/sportsstore/internal/service"
	"github.com/utafrali/sportsstore/pkg/httputil"
	"github.com/utafrali/sportsstore/pkg/validator"
)

// CartHandler handles the session cart endpoints.
type CartHandler struct {
	service *service.CartService
	logger  *slog.Logger
}

// NewCartHandler creates a new cart HTTP handler.
func NewCartHandler(svc *service.CartService, logger *slog.Logger) *CartHandler {
	return &CartHandler{service: svc, logger: logger}
}

// AddItemRequest adds a product to the cart. It is accepted as JSON or as a
// form post.
type AddItemRequest struct {
	ProductID int64  `json:"product_id" form:"product_id" validate:"gt=0"`
	Quantity  int    `json:"quantity" form:"quantity" default:"1" validate:"gte=1,lte=100"`
	ReturnURL string `json:"return_url" form:"return_url" default:"/"`
}

// CartResponse is the cart summary.
type CartResponse struct {
	SessionID  string            `json:"session_id"`
	Lines      []domain.CartLine `json:"lines"`
	ItemCount  int               `json:"item_count"`
	TotalValue decimal.Decimal   `json:"total_value"`
	ReturnURL  string            `json:"return_url,omitempty"`
}

func newCartResponse(cart *service.SessionCart, returnURL string) CartResponse {
	return CartResponse{
		SessionID:  cart.SessionID(),
		Lines:      cart.Lines(),
		ItemCount:  cart.ItemCount(),
		TotalValue: cart.ComputeTotalValue(),
		ReturnURL:  returnURL,
	}
}

// GetCart handles GET /api/v1/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	cart, err := h.service.GetCart(r.Context(), sessionID(r))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, newCartResponse(cart, r.URL.Query().Get("return_url")))
}

// AddItem handles POST /api/v1/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req AddItemRequest
	if err := validator.DecodeRequest(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	cart, err := h.service.AddToCart(r.Context(), sessionID(r), req.ProductID, req.Quantity)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, newCartResponse(cart, req.ReturnURL))
}

// RemoveItem handles DELETE /api/v1/cart/items/{productId}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID, ok := httputil.ParseID(w, chi.URLParam(r, "productId"))
	if !ok {
		return
	}

	cart, err := h.service.RemoveFromCart(r.Context(), sessionID(r), productID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, newCartResponse(cart, r.URL.Query().Get("return_url")))
}

// ClearCart handles DELETE /api/v1/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	cart, err := h.service.ClearCart(r.Context(), sessionID(r))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, newCartResponse(cart, ""))
}
