package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	apperrors "github.com/utafrali/sportsstore/pkg/errors"
	"github.com/utafrali/sportsstore/internal/service"
	"github.com/utafrali/sportsstore/pkg/httputil"
	"github.com/utafrali/sportsstore/pkg/validator"
)

// CatalogHandler serves the public product catalog.
type CatalogHandler struct {
	catalog *service.CatalogService
	logger  *slog.Logger
}

// NewCatalogHandler creates a new catalog HTTP handler.
func NewCatalogHandler(catalog *service.CatalogService, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, logger: logger}
}

// ListProductsQuery is the query string of a catalog listing.
type ListProductsQuery struct {
	Category string `form:"category"`
	Page     int    `form:"page" default:"1" validate:"gte=1"`
}

// CategoriesResponse is the navigation menu.
type CategoriesResponse struct {
	Categories []string `json:"categories"`
	Selected   string   `json:"selected,omitempty"`
}

// ListProducts handles GET /api/v1/products?category=&page=
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	var q ListProductsQuery
	if err := validator.DecodeForm(r.URL.Query(), &q); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}
	h.writeListing(w, r, q.Category, q.Page)
}

// ListCategoryPage handles GET /api/v1/products/{category}/page/{page}
func (h *CatalogHandler) ListCategoryPage(w http.ResponseWriter, r *http.Request) {
	page, err := strconv.Atoi(chi.URLParam(r, "page"))
	if err != nil || page < 1 {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_PARAMETER", Message: "invalid page: " + chi.URLParam(r, "page")},
		})
		return
	}
	h.writeListing(w, r, chi.URLParam(r, "category"), page)
}

func (h *CatalogHandler) writeListing(w http.ResponseWriter, r *http.Request, category string, page int) {
	listing, err := h.catalog.List(r.Context(), category, page)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, listing)
}

// GetProduct handles GET /api/v1/products/{id}
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	product, err := h.catalog.GetProduct(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	if product == nil {
		httputil.WriteError(w, r, apperrors.NotFound("product", strconv.FormatInt(id, 10)), h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, product)
}

// ListCategories handles GET /api/v1/categories?category=
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.Categories(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, CategoriesResponse{
		Categories: categories,
		Selected:   r.URL.Query().Get("category"),
	})
}
