package adapters

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"revive-orders/internal/features/catalog/domain"
	"revive-orders/internal/features/catalog/ports"
)

// MemoryProductRepository implements ports.ProductRepository in process
// memory, used for local development when no MONGO_URI is configured.
type MemoryProductRepository struct {
	mu       sync.RWMutex
	products map[string]domain.Product
}

// NewMemoryProductRepository creates an empty MemoryProductRepository.
func NewMemoryProductRepository() *MemoryProductRepository {
	return &MemoryProductRepository{
		products: make(map[string]domain.Product),
	}
}

// Insert persists a new product.
func (r *MemoryProductRepository) Insert(ctx context.Context, product *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.products[product.ID] = cloneProduct(product)
	return nil
}

// FindByID retrieves a single product by id.
func (r *MemoryProductRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ports.ErrProductNotFound, id)
	}
	clone := cloneProduct(&product)
	return &clone, nil
}

// FindBySeller retrieves every product listed by the seller, newest first.
func (r *MemoryProductRepository) FindBySeller(ctx context.Context, sellerEmail string) ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	products := []domain.Product{}
	for _, product := range r.products {
		if product.SellerEmail == sellerEmail {
			products = append(products, cloneProduct(&product))
		}
	}
	sortNewestFirst(products)
	return products, nil
}

// FindByStatus retrieves every product in the given state, newest first.
func (r *MemoryProductRepository) FindByStatus(ctx context.Context, status domain.ProductStatus) ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	products := []domain.Product{}
	for _, product := range r.products {
		if product.Status == status {
			products = append(products, cloneProduct(&product))
		}
	}
	sortNewestFirst(products)
	return products, nil
}

// Save overwrites an existing product.
func (r *MemoryProductRepository) Save(ctx context.Context, product *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[product.ID]; !ok {
		return fmt.Errorf("%w: %s", ports.ErrProductNotFound, product.ID)
	}
	r.products[product.ID] = cloneProduct(product)
	return nil
}

// Delete removes a product.
func (r *MemoryProductRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return fmt.Errorf("%w: %s", ports.ErrProductNotFound, id)
	}
	delete(r.products, id)
	return nil
}

func sortNewestFirst(products []domain.Product) {
	sort.Slice(products, func(i, j int) bool {
		return products[i].CreatedAt.After(products[j].CreatedAt)
	})
}

func cloneProduct(p *domain.Product) domain.Product {
	clone := *p
	clone.Images = append([]string(nil), p.Images...)
	if p.SoldAt != nil {
		soldAt := *p.SoldAt
		clone.SoldAt = &soldAt
	}
	return clone
}
