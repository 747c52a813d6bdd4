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

const productsCollection = "products"

// MongoProductRepository implements ports.ProductRepository on a MongoDB
// collection.
type MongoProductRepository struct {
	col *mongo.Collection
}

// NewMongoProductRepository creates a new MongoProductRepository on the
// given database.
func NewMongoProductRepository(db *mongo.Database) *MongoProductRepository {
	return &MongoProductRepository{
		col: db.Collection(productsCollection),
	}
}

// Insert persists a new product document.
func (r *MongoProductRepository) Insert(ctx context.Context, product *domain.Product) error {
	if _, err := r.col.InsertOne(ctx, product); err != nil {
		return fmt.Errorf("failed to insert product %s: %w", product.ID, err)
	}
	return nil
}

// FindByID retrieves a single product by id.
func (r *MongoProductRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	var product domain.Product
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: %s", ports.ErrProductNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find product %s: %w", id, err)
	}
	return &product, nil
}

// FindBySeller retrieves every product listed by the seller, newest first.
func (r *MongoProductRepository) FindBySeller(ctx context.Context, sellerEmail string) ([]domain.Product, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.col.Find(ctx, bson.M{"seller_email": sellerEmail}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query products for %s: %w", sellerEmail, err)
	}

	var products []domain.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products for %s: %w", sellerEmail, err)
	}
	return products, nil
}

// FindByStatus retrieves every product in the given state, newest first.
func (r *MongoProductRepository) FindByStatus(ctx context.Context, status domain.ProductStatus) ([]domain.Product, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.col.Find(ctx, bson.M{"status": status}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s products: %w", status, err)
	}

	var products []domain.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode %s products: %w", status, err)
	}
	return products, nil
}

// Save overwrites the stored product document.
func (r *MongoProductRepository) Save(ctx context.Context, product *domain.Product) error {
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": product.ID}, product)
	if err != nil {
		return fmt.Errorf("failed to save product %s: %w", product.ID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: %s", ports.ErrProductNotFound, product.ID)
	}
	return nil
}

// Delete removes a product document.
func (r *MongoProductRepository) Delete(ctx context.Context, id string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete product %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("%w: %s", ports.ErrProductNotFound, id)
	}
	return nil
}
