package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"revive-orders/internal/core/logger"
	"revive-orders/internal/features/catalog/domain"
	"revive-orders/internal/features/catalog/ports"

	"go.uber.org/zap"
)

// ErrNotOwner is returned when a seller operates on someone else's listing.
var ErrNotOwner = errors.New("product belongs to another seller")

// CreateProductRequest carries the data needed to list a product.
type CreateProductRequest struct {
	SellerEmail string   `json:"seller_email"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Category    string   `json:"category"`
	Size        string   `json:"size"`
	Images      []string `json:"images"`
}

// CatalogService owns product listings: seller CRUD, moderation and the
// sold/released flips driven by the order lifecycle.
type CatalogService struct {
	repo ports.ProductRepository

	// now is the clock; replaced in tests.
	now func() time.Time
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(repo ports.ProductRepository) *CatalogService {
	return &CatalogService{
		repo: repo,
		now:  time.Now,
	}
}

// CreateProduct validates and persists a new listing in the pending state.
func (s *CatalogService) CreateProduct(ctx context.Context, req CreateProductRequest) (*domain.Product, error) {
	product, err := domain.NewProduct(req.SellerEmail, req.Name, req.Description, req.Category, req.Size, req.Price, req.Images, s.now())
	if err != nil {
		return nil, err
	}

	if err := s.repo.Insert(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	logger.Get().Info("Product listed",
		zap.String("product_id", product.ID),
		zap.String("seller_email", product.SellerEmail),
	)
	return product, nil
}

// GetProductByID retrieves a single product.
func (s *CatalogService) GetProductByID(ctx context.Context, id string) (*domain.Product, error) {
	return s.repo.FindByID(ctx, id)
}

// GetSellerProducts retrieves every listing owned by the seller.
func (s *CatalogService) GetSellerProducts(ctx context.Context, sellerEmail string) ([]domain.Product, error) {
	products, err := s.repo.FindBySeller(ctx, sellerEmail)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products for %s: %w", sellerEmail, err)
	}
	if products == nil {
		products = []domain.Product{}
	}
	return products, nil
}

// GetProductsByStatus retrieves the products in the given state, e.g. the
// approved storefront or the pending moderation queue.
func (s *CatalogService) GetProductsByStatus(ctx context.Context, status domain.ProductStatus) ([]domain.Product, error) {
	products, err := s.repo.FindByStatus(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s products: %w", status, err)
	}
	if products == nil {
		products = []domain.Product{}
	}
	return products, nil
}

// SetApproval moves a pending product to approved or rejected.
func (s *CatalogService) SetApproval(ctx context.Context, id string, approved bool) (*domain.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if approved {
		product.Status = domain.StatusApproved
	} else {
		product.Status = domain.StatusRejected
	}

	if err := s.repo.Save(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to persist moderation decision: %w", err)
	}

	logger.Get().Info("Product moderated",
		zap.String("product_id", product.ID),
		zap.String("status", string(product.Status)),
	)
	return product, nil
}

// DeleteProduct removes a listing after checking the caller owns it.
func (s *CatalogService) DeleteProduct(ctx context.Context, id, sellerEmail string) error {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if product.SellerEmail != sellerEmail {
		return fmt.Errorf("%w: %s", ErrNotOwner, id)
	}
	return s.repo.Delete(ctx, id)
}

// MarkSold flips every listed product into the sold state for the buyer.
// It is called by the order engine after an order is placed; failures are
// collected so a single missing product does not block the rest.
func (s *CatalogService) MarkSold(ctx context.Context, productIDs []string, buyerEmail string) error {
	var errs []error
	for _, id := range productIDs {
		product, err := s.repo.FindByID(ctx, id)
		if err != nil {
			errs = append(errs, fmt.Errorf("mark sold %s: %w", id, err))
			continue
		}
		product.MarkSold(buyerEmail, s.now())
		if err := s.repo.Save(ctx, product); err != nil {
			errs = append(errs, fmt.Errorf("mark sold %s: %w", id, err))
		}
	}
	return errors.Join(errs...)
}

// Release puts every listed product back on the storefront. It is called
// by the order engine after a cancellation or a completed return.
func (s *CatalogService) Release(ctx context.Context, productIDs []string) error {
	var errs []error
	for _, id := range productIDs {
		product, err := s.repo.FindByID(ctx, id)
		if err != nil {
			errs = append(errs, fmt.Errorf("release %s: %w", id, err))
			continue
		}
		if product.Status != domain.StatusSold {
			continue
		}
		product.Release()
		if err := s.repo.Save(ctx, product); err != nil {
			errs = append(errs, fmt.Errorf("release %s: %w", id, err))
		}
	}
	return errors.Join(errs...)
}
