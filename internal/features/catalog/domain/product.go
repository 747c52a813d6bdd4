package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidProduct is returned when a product create request is malformed.
var ErrInvalidProduct = errors.New("invalid product request")

// ProductStatus is the moderation and sale state of a listing.
type ProductStatus string

const (
	// StatusPending is the initial state, awaiting moderation.
	StatusPending ProductStatus = "pending"
	// StatusApproved means the listing is visible and purchasable.
	StatusApproved ProductStatus = "approved"
	// StatusRejected means moderation declined the listing.
	StatusRejected ProductStatus = "rejected"
	// StatusSold means the product belongs to a placed order.
	StatusSold ProductStatus = "sold"
)

// Product is a single secondhand listing. Every product is unique stock:
// once sold it disappears from the storefront until the order is cancelled
// or returned.
type Product struct {
	ID          string        `bson:"_id" json:"id"`
	SellerEmail string        `bson:"seller_email" json:"seller_email"`
	Name        string        `bson:"name" json:"name"`
	Description string        `bson:"description" json:"description"`
	Price       float64       `bson:"price" json:"price"`
	Category    string        `bson:"category" json:"category"`
	Size        string        `bson:"size,omitempty" json:"size,omitempty"`
	Images      []string      `bson:"images" json:"images"`
	Status      ProductStatus `bson:"status" json:"status"`
	// BuyerEmail is set while the product belongs to an order.
	BuyerEmail string `bson:"buyer_email,omitempty" json:"buyer_email,omitempty"`
	// SoldAt is set when the product is flagged sold.
	SoldAt    *time.Time `bson:"sold_at,omitempty" json:"sold_at,omitempty"`
	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
}

// NewProduct validates the listing fields and builds a Product in the
// pending state.
func NewProduct(sellerEmail, name, description, category, size string, price float64, images []string, now time.Time) (*Product, error) {
	if sellerEmail == "" {
		return nil, fmt.Errorf("%w: seller email is required", ErrInvalidProduct)
	}
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidProduct)
	}
	if price <= 0 {
		return nil, fmt.Errorf("%w: price must be positive", ErrInvalidProduct)
	}

	return &Product{
		ID:          uuid.NewString(),
		SellerEmail: sellerEmail,
		Name:        name,
		Description: description,
		Price:       price,
		Category:    category,
		Size:        size,
		Images:      images,
		Status:      StatusPending,
		CreatedAt:   now,
	}, nil
}

// MarkSold flips the product into the sold state for the given buyer.
func (p *Product) MarkSold(buyerEmail string, now time.Time) {
	p.Status = StatusSold
	p.BuyerEmail = buyerEmail
	p.SoldAt = &now
}

// Release puts a sold product back on the storefront after a cancellation
// or a completed return.
func (p *Product) Release() {
	p.Status = StatusApproved
	p.BuyerEmail = ""
	p.SoldAt = nil
}

// Purchasable reports whether the product can enter a cart or an order.
func (p *Product) Purchasable() bool {
	return p.Status == StatusApproved
}
