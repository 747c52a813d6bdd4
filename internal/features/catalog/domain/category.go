package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidCategory is returned when a category request is malformed.
var ErrInvalidCategory = errors.New("invalid category request")

// Category is a browsing label for listings. Products reference it by name,
// so renaming a category does not touch existing products.
type Category struct {
	ID        string    `bson:"_id" json:"id"`
	Name      string    `bson:"name" json:"name"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// NewCategory validates the name and builds a Category.
func NewCategory(name string, now time.Time) (*Category, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidCategory)
	}

	return &Category{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: now,
	}, nil
}
