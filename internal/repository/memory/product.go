// Package memory holds in-process implementations of the repository
// interfaces. They back STORAGE_DRIVER=memory and service tests.
package memory

import (
	"context"
	"sync"

	"github.com/utafrali/sportsstore/internal/domain"
	"github.com/utafrali/sportsstore/internal/repository"
	apperrors "github.com/utafrali/sportsstore/pkg/errors"
)

// ProductRepository is a map-backed catalog store.
type ProductRepository struct {
	mu       sync.RWMutex
	products map[int64]domain.Product
	nextID   int64
}

var _ repository.ProductRepository = (*ProductRepository)(nil)

// NewProductRepository returns a store holding a copy of products. Products
// with a zero ID are assigned one.
func NewProductRepository(products ...domain.Product) *ProductRepository {
	r := &ProductRepository{products: make(map[int64]domain.Product, len(products))}
	for _, p := range products {
		if p.ID == 0 {
			r.nextID++
			p.ID = r.nextID
		}
		if p.ID > r.nextID {
			r.nextID = p.ID
		}
		r.products[p.ID] = p
	}
	return r
}

// List returns every product in map order.
func (r *ProductRepository) List(_ context.Context) ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, p)
	}
	return out, nil
}

func (r *ProductRepository) GetByID(_ context.Context, id int64) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.products[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &p, nil
}

func (r *ProductRepository) Save(_ context.Context, p *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p.IsNew() {
		r.nextID++
		p.ID = r.nextID
	} else if _, ok := r.products[p.ID]; !ok {
		return apperrors.ErrNotFound
	}
	r.products[p.ID] = *p
	return nil
}

func (r *ProductRepository) Delete(_ context.Context, id int64) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	delete(r.products, id)
	return &p, nil
}
