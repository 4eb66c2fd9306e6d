package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/utafrali/sportsstore/internal/domain"
	"github.com/utafrali/sportsstore/internal/event"
	"github.com/utafrali/sportsstore/internal/repository"
	apperrors "github.com/utafrali/sportsstore/pkg/errors"
	"github.com/utafrali/sportsstore/pkg/pagination"
	"github.com/utafrali/sportsstore/pkg/validator"
)

// DefaultPageSize is the storefront page size when none is configured.
const DefaultPageSize = 4

// CatalogService implements product browsing and catalog administration.
type CatalogService struct {
	repo     repository.ProductRepository
	producer *event.Producer
	logger   *slog.Logger
	pageSize int
	seed     []domain.Product
}

// NewCatalogService creates a new catalog service. seed is the default
// catalog used by Seed; it may be empty.
func NewCatalogService(repo repository.ProductRepository, producer *event.Producer, logger *slog.Logger, pageSize int, seed []domain.Product) *CatalogService {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	return &CatalogService{
		repo:     repo,
		producer: producer,
		logger:   logger,
		pageSize: pageSize,
		seed:     seed,
	}
}

// PageSize returns the number of products per storefront page.
func (s *CatalogService) PageSize() int {
	return s.pageSize
}

// List returns one page of the catalog, optionally filtered to a single
// category. The filter is an exact, case-sensitive match and an empty
// category means no filter. Pages outside the valid range yield no products.
func (s *CatalogService) List(ctx context.Context, category string, page int) (*domain.ProductListing, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	return BuildListing(all, category, page, s.pageSize), nil
}

// BuildListing filters, orders and pages products. It does not modify all.
func BuildListing(all []domain.Product, category string, page, size int) *domain.ProductListing {
	filtered := make([]domain.Product, 0, len(all))
	for _, p := range all {
		if category == "" || p.Category == category {
			filtered = append(filtered, p)
		}
	}
	sort.SliceStable(filtered, func(i, j int) bool { return filtered[i].ID < filtered[j].ID })

	items, info := pagination.Paginate(filtered, page, size)
	return &domain.ProductListing{
		Products:        items,
		Paging:          info,
		Categories:      distinctCategories(all),
		CurrentCategory: category,
	}
}

// Categories returns the distinct categories of the whole catalog in ascending order.
func (s *CatalogService) Categories(ctx context.Context) ([]string, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return distinctCategories(all), nil
}

func distinctCategories(products []domain.Product) []string {
	seen := make(map[string]struct{}, len(products))
	out := make([]string, 0, len(products))
	for _, p := range products {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}
	sort.Strings(out)
	return out
}

// ListAll returns every product ordered by ID.
func (s *CatalogService) ListAll(ctx context.Context) ([]domain.Product, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return all, nil
}

// GetProduct returns the product, or nil when no product has id.
func (s *CatalogService) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product %d: %w", id, err)
	}
	return p, nil
}

// SaveProduct validates and stores p. A product with ID 0 is created. Updating
// a product that no longer exists returns nil without an error.
func (s *CatalogService) SaveProduct(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	if err := validator.Validate(p); err != nil {
		return nil, err
	}
	if !p.Price.GreaterThan(decimal.Zero) {
		return nil, apperrors.InvalidInput("price must be greater than 0")
	}

	if err := s.repo.Save(ctx, p); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("save product: %w", err)
	}

	s.logger.InfoContext(ctx, "product saved",
		slog.Int64("product_id", p.ID),
		slog.String("category", p.Category),
	)
	if err := s.producer.PublishProductSaved(ctx, p); err != nil {
		s.logger.WarnContext(ctx, "failed to publish product.saved event",
			slog.Int64("product_id", p.ID),
			slog.String("error", err.Error()),
		)
	}
	return p, nil
}

// DeleteProduct removes the product and returns it, or nil when no product has id.
func (s *CatalogService) DeleteProduct(ctx context.Context, id int64) (*domain.Product, error) {
	p, err := s.repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("delete product %d: %w", id, err)
	}

	s.logger.InfoContext(ctx, "product deleted", slog.Int64("product_id", id))
	if err := s.producer.PublishProductDeleted(ctx, p); err != nil {
		s.logger.WarnContext(ctx, "failed to publish product.deleted event",
			slog.Int64("product_id", id),
			slog.String("error", err.Error()),
		)
	}
	return p, nil
}

// Seed stores the default catalog when the catalog is empty and reports how
// many products were added.
func (s *CatalogService) Seed(ctx context.Context) (int, error) {
	existing, err := s.repo.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list products: %w", err)
	}
	if len(existing) > 0 {
		return 0, nil
	}

	for i := range s.seed {
		p := s.seed[i]
		p.ID = 0
		if err := s.repo.Save(ctx, &p); err != nil {
			return i, fmt.Errorf("seed product %q: %w", p.Name, err)
		}
	}

	s.logger.InfoContext(ctx, "catalog seeded", slog.Int("products", len(s.seed)))
	return len(s.seed), nil
}
