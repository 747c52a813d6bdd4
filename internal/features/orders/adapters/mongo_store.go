package adapters

import (
	"context"
	"errors"
	"fmt"

	"revive-orders/internal/features/orders/domain"
	"revive-orders/internal/features/orders/ports"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const ordersCollection = "orders"

// MongoOrderStore implements ports.OrderStore on a MongoDB collection.
type MongoOrderStore struct {
	col *mongo.Collection
}

// NewMongoOrderStore creates a new MongoOrderStore on the given database.
func NewMongoOrderStore(db *mongo.Database) *MongoOrderStore {
	return &MongoOrderStore{
		col: db.Collection(ordersCollection),
	}
}

// Insert persists a newly created order document.
func (s *MongoOrderStore) Insert(ctx context.Context, order *domain.Order) error {
	if _, err := s.col.InsertOne(ctx, order); err != nil {
		return fmt.Errorf("failed to insert order %s: %w", order.ID, err)
	}
	return nil
}

// FindByID retrieves a single order by id.
func (s *MongoOrderStore) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	var order domain.Order
	err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: %s", ports.ErrOrderNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find order %s: %w", id, err)
	}
	return &order, nil
}

// FindByBuyer retrieves every order owned by the buyer, newest first.
func (s *MongoOrderStore) FindByBuyer(ctx context.Context, buyerEmail string) ([]domain.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "order_date", Value: -1}})
	cursor, err := s.col.Find(ctx, bson.M{"buyer_email": buyerEmail}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders for %s: %w", buyerEmail, err)
	}

	var orders []domain.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("failed to decode orders for %s: %w", buyerEmail, err)
	}
	return orders, nil
}

// FindActive retrieves every order in an automatically progressing state.
func (s *MongoOrderStore) FindActive(ctx context.Context) ([]domain.Order, error) {
	cursor, err := s.col.Find(ctx, bson.M{"status": bson.M{"$in": domain.ActiveStatuses()}})
	if err != nil {
		return nil, fmt.Errorf("failed to query active orders: %w", err)
	}

	var orders []domain.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("failed to decode active orders: %w", err)
	}
	return orders, nil
}

// Update replaces the stored document conditionally on the previous
// version, rejecting writes that lost against a concurrent transition.
func (s *MongoOrderStore) Update(ctx context.Context, order *domain.Order) error {
	filter := bson.M{"_id": order.ID, "version": order.Version - 1}
	res, err := s.col.ReplaceOne(ctx, filter, order)
	if err != nil {
		return fmt.Errorf("failed to update order %s: %w", order.ID, err)
	}
	if res.MatchedCount > 0 {
		return nil
	}

	// Zero matches is either a missing order or a lost race; look once more
	// to tell them apart.
	count, err := s.col.CountDocuments(ctx, bson.M{"_id": order.ID})
	if err != nil {
		return fmt.Errorf("failed to check order %s after conflicting update: %w", order.ID, err)
	}
	if count == 0 {
		return fmt.Errorf("%w: %s", ports.ErrOrderNotFound, order.ID)
	}
	return fmt.Errorf("%w: %s", ports.ErrVersionConflict, order.ID)
}
