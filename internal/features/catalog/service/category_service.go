package service

import (
	"context"
	"fmt"
	"time"

	"revive-orders/internal/core/logger"
	"revive-orders/internal/features/catalog/domain"
	"revive-orders/internal/features/catalog/ports"

	"go.uber.org/zap"
)

// CategoryService owns the browsing categories sellers tag listings with.
type CategoryService struct {
	repo ports.CategoryRepository

	// now is the clock; replaced in tests.
	now func() time.Time
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(repo ports.CategoryRepository) *CategoryService {
	return &CategoryService{
		repo: repo,
		now:  time.Now,
	}
}

// CreateCategory validates and persists a new category.
func (s *CategoryService) CreateCategory(ctx context.Context, name string) (*domain.Category, error) {
	category, err := domain.NewCategory(name, s.now())
	if err != nil {
		return nil, err
	}

	if err := s.repo.Insert(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	logger.Get().Info("Category created",
		zap.String("category_id", category.ID),
		zap.String("name", category.Name),
	)
	return category, nil
}

// GetCategories retrieves every category.
func (s *CategoryService) GetCategories(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch categories: %w", err)
	}
	if categories == nil {
		categories = []domain.Category{}
	}
	return categories, nil
}

// RenameCategory changes a category's name. Existing products keep the old
// name.
func (s *CategoryService) RenameCategory(ctx context.Context, id, name string) (*domain.Category, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidCategory)
	}

	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	category.Name = name

	if err := s.repo.Save(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to rename category: %w", err)
	}
	return category, nil
}

// DeleteCategory removes a category.
func (s *CategoryService) DeleteCategory(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
