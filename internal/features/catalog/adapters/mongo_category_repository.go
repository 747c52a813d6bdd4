package adapters

import (
	"context"
	"errors"
	"fmt"

	"revive-orders/internal/features/catalog/domain"
	"revive-orders/internal/features/catalog/ports"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const categoriesCollection = "categories"

// MongoCategoryRepository implements ports.CategoryRepository on a MongoDB
// collection.
type MongoCategoryRepository struct {
	col *mongo.Collection
}

// NewMongoCategoryRepository creates a new MongoCategoryRepository on the
// given database.
func NewMongoCategoryRepository(db *mongo.Database) *MongoCategoryRepository {
	return &MongoCategoryRepository{
		col: db.Collection(categoriesCollection),
	}
}

// Insert persists a new category document after checking the name is free.
func (r *MongoCategoryRepository) Insert(ctx context.Context, category *domain.Category) error {
	count, err := r.col.CountDocuments(ctx, bson.M{"name": category.Name})
	if err != nil {
		return fmt.Errorf("failed to check category name %s: %w", category.Name, err)
	}
	if count > 0 {
		return fmt.Errorf("%w: %s", ports.ErrCategoryExists, category.Name)
	}

	if _, err := r.col.InsertOne(ctx, category); err != nil {
		return fmt.Errorf("failed to insert category %s: %w", category.ID, err)
	}
	return nil
}

// FindByID retrieves a single category by id.
func (r *MongoCategoryRepository) FindByID(ctx context.Context, id string) (*domain.Category, error) {
	var category domain.Category
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&category)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: %s", ports.ErrCategoryNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find category %s: %w", id, err)
	}
	return &category, nil
}

// FindAll retrieves every category, alphabetically.
func (r *MongoCategoryRepository) FindAll(ctx context.Context) ([]domain.Category, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}

	var categories []domain.Category
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, fmt.Errorf("failed to decode categories: %w", err)
	}
	return categories, nil
}

// Save overwrites the stored category document.
func (r *MongoCategoryRepository) Save(ctx context.Context, category *domain.Category) error {
	count, err := r.col.CountDocuments(ctx, bson.M{"name": category.Name, "_id": bson.M{"$ne": category.ID}})
	if err != nil {
		return fmt.Errorf("failed to check category name %s: %w", category.Name, err)
	}
	if count > 0 {
		return fmt.Errorf("%w: %s", ports.ErrCategoryExists, category.Name)
	}

	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": category.ID}, category)
	if err != nil {
		return fmt.Errorf("failed to save category %s: %w", category.ID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: %s", ports.ErrCategoryNotFound, category.ID)
	}
	return nil
}

// Delete removes a category document.
func (r *MongoCategoryRepository) Delete(ctx context.Context, id string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete category %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("%w: %s", ports.ErrCategoryNotFound, id)
	}
	return nil
}
