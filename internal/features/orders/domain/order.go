package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidOrder is returned when an order create request is malformed.
var ErrInvalidOrder = errors.New("invalid order request")

// OrderStatus represents the current state of an order.
type OrderStatus string

const (
	// StatusPlaced is the initial state of every order.
	StatusPlaced OrderStatus = "placed"
	// StatusShipped indicates the order has been handed to the carrier.
	StatusShipped OrderStatus = "shipped"
	// StatusInTransit indicates the order is on its way to the buyer.
	StatusInTransit OrderStatus = "in_transit"
	// StatusDelivered is a stable rest state; the order stays here unless a
	// return is requested.
	StatusDelivered OrderStatus = "delivered"
	// StatusCancelled is a terminal state reachable from placed and shipped.
	StatusCancelled OrderStatus = "cancelled"
	// StatusReturnRequested starts the return sub-flow.
	StatusReturnRequested OrderStatus = "return_requested"
	// StatusReturnPickupScheduled indicates a pickup has been scheduled.
	StatusReturnPickupScheduled OrderStatus = "return_pickup_scheduled"
	// StatusReturnPicked indicates the product has been collected.
	StatusReturnPicked OrderStatus = "return_picked"
	// StatusReturnInTransit indicates the product is on its way back.
	StatusReturnInTransit OrderStatus = "return_in_transit"
	// StatusReturned is the terminal state of the return sub-flow.
	StatusReturned OrderStatus = "returned"
)

// statusDescriptions are the human-readable tracking descriptions shown to
// buyers, one per status.
var statusDescriptions = map[OrderStatus]string{
	StatusPlaced:                "Order has been placed",
	StatusShipped:               "Order has been shipped",
	StatusInTransit:             "Order is in transit",
	StatusDelivered:             "Order has been delivered",
	StatusCancelled:             "Order has been cancelled",
	StatusReturnRequested:       "Return request initiated",
	StatusReturnPickupScheduled: "Return pickup scheduled",
	StatusReturnPicked:          "Product picked up for return",
	StatusReturnInTransit:       "Product in transit back to seller",
	StatusReturned:              "Product returned to seller",
}

// Known reports whether s is one of the defined order statuses.
func (s OrderStatus) Known() bool {
	_, ok := statusDescriptions[s]
	return ok
}

// Terminal reports whether s can never change again.
func (s OrderStatus) Terminal() bool {
	return s == StatusCancelled || s == StatusReturned
}

// InReturnFlow reports whether s belongs to the return sub-flow.
func (s OrderStatus) InReturnFlow() bool {
	return strings.HasPrefix(string(s), "return")
}

// Description returns the tracking description for s.
func (s OrderStatus) Description() string {
	if d, ok := statusDescriptions[s]; ok {
		return d
	}
	return fmt.Sprintf("Order status updated to %s", s)
}

// OrderItem is a line item snapshot taken at purchase time.
type OrderItem struct {
	// ProductID references the catalog product.
	ProductID string `bson:"product_id" json:"product_id"`
	// ProductName is the product name at the time of purchase.
	ProductName string `bson:"product_name" json:"product_name"`
	// Quantity is the number of units purchased.
	Quantity int `bson:"quantity" json:"quantity"`
	// Price is the unit price at the time of purchase.
	Price float64 `bson:"price" json:"price"`
	// Images holds the product image URLs.
	Images []string `bson:"images" json:"images"`
}

// ShippingAddress is the delivery address captured at creation.
type ShippingAddress struct {
	Name       string `bson:"name" json:"name"`
	Phone      string `bson:"phone,omitempty" json:"phone,omitempty"`
	Address    string `bson:"address" json:"address"`
	PostalCode string `bson:"postal_code" json:"postal_code"`
}

// TrackingEntry is a single entry in an order's append-only audit trail.
type TrackingEntry struct {
	// Status is the status the order entered.
	Status OrderStatus `bson:"status" json:"status"`
	// Timestamp is when the transition was recorded.
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
	// Description is the human-readable text for the transition.
	Description string `bson:"description" json:"description"`
}

// Order is a single buyer purchase with line items, status and audit trail.
// Only Status, CanCancel, CanReturn, TrackingHistory and Version mutate
// after creation; every other field is immutable.
type Order struct {
	// ID is the unique order identifier, assigned at creation.
	ID string `bson:"_id" json:"id"`
	// BuyerEmail identifies the owning buyer.
	BuyerEmail string `bson:"buyer_email" json:"buyer_email"`
	// OrderDate is the creation timestamp; it is the clock origin for
	// automatic forward progression.
	OrderDate time.Time `bson:"order_date" json:"order_date"`
	// Items are the purchased line items.
	Items []OrderItem `bson:"items" json:"items"`
	// TotalAmount is the order total computed at creation.
	TotalAmount float64 `bson:"total_amount" json:"total_amount"`
	// Status is the current lifecycle state.
	Status OrderStatus `bson:"status" json:"status"`
	// ShippingAddress is the delivery address captured at creation.
	ShippingAddress ShippingAddress `bson:"shipping_address" json:"shipping_address"`
	// PaymentMethod is an opaque payment descriptor captured at creation.
	PaymentMethod map[string]interface{} `bson:"payment_method" json:"payment_method"`
	// TrackingHistory is the append-only transition log; it always holds at
	// least the initial placed entry and its last entry matches Status.
	TrackingHistory []TrackingEntry `bson:"tracking_history" json:"tracking_history"`
	// CanCancel is true while the buyer may still cancel the order.
	CanCancel bool `bson:"can_cancel" json:"can_cancel"`
	// CanReturn is true from delivery until the return sub-flow resolves.
	CanReturn bool `bson:"can_return" json:"can_return"`
	// Version is the optimistic concurrency token; every applied transition
	// increments it and conditional updates are rejected on mismatch.
	Version int64 `bson:"version" json:"-"`
}

// NewOrder validates the create request fields and builds an Order in the
// placed state with its initial tracking entry. A zero totalAmount is
// recomputed from the line items; a positive one is trusted as-is since
// coupon discounts are applied upstream.
func NewOrder(buyerEmail string, items []OrderItem, totalAmount float64, shipping ShippingAddress, payment map[string]interface{}, now time.Time) (*Order, error) {
	if buyerEmail == "" {
		return nil, fmt.Errorf("%w: buyer email is required", ErrInvalidOrder)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: order must contain at least one item", ErrInvalidOrder)
	}
	for _, item := range items {
		if item.ProductID == "" {
			return nil, fmt.Errorf("%w: item product id is required", ErrInvalidOrder)
		}
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("%w: item quantity must be positive", ErrInvalidOrder)
		}
	}
	if shipping.Name == "" || shipping.Address == "" || shipping.PostalCode == "" {
		return nil, fmt.Errorf("%w: shipping address requires name, address and postal code", ErrInvalidOrder)
	}

	if totalAmount == 0 {
		for _, item := range items {
			totalAmount += item.Price * float64(item.Quantity)
		}
	}

	return &Order{
		ID:              uuid.NewString(),
		BuyerEmail:      buyerEmail,
		OrderDate:       now,
		Items:           items,
		TotalAmount:     totalAmount,
		Status:          StatusPlaced,
		ShippingAddress: shipping,
		PaymentMethod:   payment,
		TrackingHistory: []TrackingEntry{{
			Status:      StatusPlaced,
			Timestamp:   now,
			Description: StatusPlaced.Description(),
		}},
		CanCancel: true,
		CanReturn: false,
		Version:   1,
	}, nil
}

// Apply records a transition into next at time now: it appends exactly one
// tracking entry, recomputes the capability flags and bumps the version.
func (o *Order) Apply(next OrderStatus, now time.Time) {
	o.Status = next
	o.TrackingHistory = append(o.TrackingHistory, TrackingEntry{
		Status:      next,
		Timestamp:   now,
		Description: next.Description(),
	})
	o.CanCancel = next == StatusPlaced || next == StatusShipped
	o.CanReturn = next == StatusDelivered || (next.InReturnFlow() && next != StatusReturned)
	o.Version++
}

// ProductIDs returns the catalog ids of every line item.
func (o *Order) ProductIDs() []string {
	ids := make([]string, 0, len(o.Items))
	for _, item := range o.Items {
		ids = append(ids, item.ProductID)
	}
	return ids
}

// returnRequestedAt returns the timestamp of the most recent
// return_requested tracking entry, the clock origin for the return
// sub-flow.
func (o *Order) returnRequestedAt() (time.Time, bool) {
	for i := len(o.TrackingHistory) - 1; i >= 0; i-- {
		if o.TrackingHistory[i].Status == StatusReturnRequested {
			return o.TrackingHistory[i].Timestamp, true
		}
	}
	return time.Time{}, false
}
