package ports

import (
	"context"
	"errors"

	"revive-orders/internal/features/catalog/domain"
)

// ErrProductNotFound is returned when a lookup matches no product.
var ErrProductNotFound = errors.New("product not found")

// ErrCategoryNotFound is returned when a lookup matches no category.
var ErrCategoryNotFound = errors.New("category not found")

// ErrCategoryExists is returned when a category name is already taken.
var ErrCategoryExists = errors.New("category already exists")

// ProductRepository is the persistence port for catalog listings.
type ProductRepository interface {
	// Insert persists a new product.
	Insert(ctx context.Context, product *domain.Product) error
	// FindByID retrieves a single product. Returns ErrProductNotFound on a
	// miss.
	FindByID(ctx context.Context, id string) (*domain.Product, error)
	// FindBySeller retrieves every product listed by the seller.
	FindBySeller(ctx context.Context, sellerEmail string) ([]domain.Product, error)
	// FindByStatus retrieves every product in the given state.
	FindByStatus(ctx context.Context, status domain.ProductStatus) ([]domain.Product, error)
	// Save overwrites an existing product. Returns ErrProductNotFound when
	// the product no longer exists.
	Save(ctx context.Context, product *domain.Product) error
	// Delete removes a product. Returns ErrProductNotFound on a miss.
	Delete(ctx context.Context, id string) error
}

// CategoryRepository is the persistence port for browsing categories.
type CategoryRepository interface {
	// Insert persists a new category. Returns ErrCategoryExists when the
	// name is already taken.
	Insert(ctx context.Context, category *domain.Category) error
	// FindByID retrieves a single category. Returns ErrCategoryNotFound on
	// a miss.
	FindByID(ctx context.Context, id string) (*domain.Category, error)
	// FindAll retrieves every category.
	FindAll(ctx context.Context) ([]domain.Category, error)
	// Save overwrites an existing category. Returns ErrCategoryNotFound
	// when the category no longer exists and ErrCategoryExists when the new
	// name collides with another category.
	Save(ctx context.Context, category *domain.Category) error
	// Delete removes a category. Returns ErrCategoryNotFound on a miss.
	Delete(ctx context.Context, id string) error
}
