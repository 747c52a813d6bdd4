package domain

import (
	"errors"
	"time"
)

// ErrEmptyCart is returned when checkout is attempted on an empty cart.
var ErrEmptyCart = errors.New("cart is empty")

// ErrItemNotInCart is returned when an operation targets a product the
// cart does not hold.
var ErrItemNotInCart = errors.New("product not in cart")

// CartItem is a product reference held in a cart. Product details are
// joined from the catalog at read time so price changes and moderation
// take effect immediately.
type CartItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// Cart is a buyer's pending selection, keyed by buyer email.
type Cart struct {
	BuyerEmail string     `json:"buyer_email"`
	Items      []CartItem `json:"items"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// NewCart creates an empty cart for the buyer.
func NewCart(buyerEmail string) *Cart {
	return &Cart{
		BuyerEmail: buyerEmail,
		Items:      []CartItem{},
	}
}

// Upsert adds quantity of the product, merging with an existing line.
func (c *Cart) Upsert(productID string, quantity int) {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items[i].Quantity += quantity
			return
		}
	}
	c.Items = append(c.Items, CartItem{ProductID: productID, Quantity: quantity})
}

// SetQuantity replaces the quantity of an existing line; zero or negative
// removes it.
func (c *Cart) SetQuantity(productID string, quantity int) error {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			if quantity <= 0 {
				c.Items = append(c.Items[:i], c.Items[i+1:]...)
			} else {
				c.Items[i].Quantity = quantity
			}
			return nil
		}
	}
	return ErrItemNotInCart
}

// Remove drops the product's line from the cart.
func (c *Cart) Remove(productID string) error {
	return c.SetQuantity(productID, 0)
}

// Empty reports whether the cart holds no items.
func (c *Cart) Empty() bool {
	return len(c.Items) == 0
}
