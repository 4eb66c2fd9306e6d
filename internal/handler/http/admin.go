package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/utafrali/sportsstore/internal/domain"
	"github.com/utafrali/sportsstore/internal/service"
	apperrors "github.com/utafrali/sportsstore/pkg/errors"
	"github.com/utafrali/sportsstore/pkg/httputil"
	"github.com/utafrali/sportsstore/pkg/pagination"
	"github.com/utafrali/sportsstore/pkg/validator"
)

// AdminHandler serves the back-office catalog and order endpoints.
type AdminHandler struct {
	catalog *service.CatalogService
	orders  *service.OrderService
	logger  *slog.Logger
}

// NewAdminHandler creates a new admin HTTP handler.
func NewAdminHandler(catalog *service.CatalogService, orders *service.OrderService, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{catalog: catalog, orders: orders, logger: logger}
}

// ProductRequest is the body of a product create or update.
type ProductRequest struct {
	Name        string          `json:"name" validate:"required,max=200"`
	Description string          `json:"description" validate:"required,max=2000"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category" validate:"required,max=100"`
	ImageURL    string          `json:"image_url" validate:"omitempty,url"`
}

func (req ProductRequest) toProduct(id int64) *domain.Product {
	return &domain.Product{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
	}
}

// SeedResponse reports how many products a seed run inserted.
type SeedResponse struct {
	Inserted int `json:"inserted"`
}

// --- Products ---

// ListProducts handles GET /api/v1/admin/products
func (h *AdminHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.ListAll(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, products)
}

// GetProduct handles GET /api/v1/admin/products/{id}
func (h *AdminHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	product, err := h.catalog.GetProduct(r.Context(), id)
	h.writeProduct(w, r, id, product, err, http.StatusOK)
}

// CreateProduct handles POST /api/v1/admin/products
func (h *AdminHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req ProductRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	product, err := h.catalog.SaveProduct(r.Context(), req.toProduct(0))
	h.writeProduct(w, r, 0, product, err, http.StatusCreated)
}

// UpdateProduct handles PUT /api/v1/admin/products/{id}
func (h *AdminHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req ProductRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	product, err := h.catalog.SaveProduct(r.Context(), req.toProduct(id))
	h.writeProduct(w, r, id, product, err, http.StatusOK)
}

// DeleteProduct handles DELETE /api/v1/admin/products/{id}
func (h *AdminHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	product, err := h.catalog.DeleteProduct(r.Context(), id)
	h.writeProduct(w, r, id, product, err, http.StatusOK)
}

// Seed handles POST /api/v1/admin/seed
func (h *AdminHandler) Seed(w http.ResponseWriter, r *http.Request) {
	n, err := h.catalog.Seed(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, SeedResponse{Inserted: n})
}

// writeProduct maps the soft-miss convention of the catalog service (nil
// product, nil error) to 404.
func (h *AdminHandler) writeProduct(w http.ResponseWriter, r *http.Request, id int64, product *domain.Product, err error, status int) {
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	if product == nil {
		httputil.WriteError(w, r, apperrors.NotFound("product", strconv.FormatInt(id, 10)), h.logger)
		return
	}
	httputil.WriteData(w, status, product)
}

// --- Orders ---

// ListOrders handles GET /api/v1/admin/orders?include_shipped=&page=&per_page=
func (h *AdminHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	includeShipped, _ := strconv.ParseBool(r.URL.Query().Get("include_shipped"))

	orders, err := h.orders.ListOrders(r.Context(), includeShipped)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, pagination.Apply(orders, pagination.FromRequest(r)))
}

// GetOrder handles GET /api/v1/admin/orders/{id}
func (h *AdminHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	order, err := h.orders.GetOrder(r.Context(), id)
	h.writeOrder(w, r, id, order, err)
}

// ShipOrder handles POST /api/v1/admin/orders/{id}/ship
func (h *AdminHandler) ShipOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	order, err := h.orders.MarkShipped(r.Context(), id)
	h.writeOrder(w, r, id, order, err)
}

func (h *AdminHandler) writeOrder(w http.ResponseWriter, r *http.Request, id int64, order *domain.Order, err error) {
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	if order == nil {
		httputil.WriteError(w, r, apperrors.NotFound("order", strconv.FormatInt(id, 10)), h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, order)
}
