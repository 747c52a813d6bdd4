package adapters

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"revive-orders/internal/features/catalog/domain"
	"revive-orders/internal/features/catalog/ports"
)

// MemoryCategoryRepository implements ports.CategoryRepository in process
// memory, used for local development when no MONGO_URI is configured.
type MemoryCategoryRepository struct {
	mu         sync.RWMutex
	categories map[string]domain.Category
}

// NewMemoryCategoryRepository creates an empty MemoryCategoryRepository.
func NewMemoryCategoryRepository() *MemoryCategoryRepository {
	return &MemoryCategoryRepository{
		categories: make(map[string]domain.Category),
	}
}

// Insert persists a new category after checking the name is free.
func (r *MemoryCategoryRepository) Insert(ctx context.Context, category *domain.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.categories {
		if existing.Name == category.Name {
			return fmt.Errorf("%w: %s", ports.ErrCategoryExists, category.Name)
		}
	}
	r.categories[category.ID] = *category
	return nil
}

// FindByID retrieves a single category by id.
func (r *MemoryCategoryRepository) FindByID(ctx context.Context, id string) (*domain.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	category, ok := r.categories[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ports.ErrCategoryNotFound, id)
	}
	return &category, nil
}

// FindAll retrieves every category, alphabetically.
func (r *MemoryCategoryRepository) FindAll(ctx context.Context) ([]domain.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	categories := []domain.Category{}
	for _, category := range r.categories {
		categories = append(categories, category)
	}
	sort.Slice(categories, func(i, j int) bool {
		return categories[i].Name < categories[j].Name
	})
	return categories, nil
}

// Save overwrites an existing category.
func (r *MemoryCategoryRepository) Save(ctx context.Context, category *domain.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.categories[category.ID]; !ok {
		return fmt.Errorf("%w: %s", ports.ErrCategoryNotFound, category.ID)
	}
	for id, existing := range r.categories {
		if id != category.ID && existing.Name == category.Name {
			return fmt.Errorf("%w: %s", ports.ErrCategoryExists, category.Name)
		}
	}
	r.categories[category.ID] = *category
	return nil
}

// Delete removes a category.
func (r *MemoryCategoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.categories[id]; !ok {
		return fmt.Errorf("%w: %s", ports.ErrCategoryNotFound, id)
	}
	delete(r.categories, id)
	return nil
}
