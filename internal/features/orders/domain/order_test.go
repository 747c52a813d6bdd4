package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testItems() []OrderItem {
	return []OrderItem{{
		ProductID:   "p1",
		ProductName: "Blue Jeans",
		Quantity:    2,
		Price:       10.00,
		Images:      []string{"img1.jpg"},
	}}
}

func testShipping() ShippingAddress {
	return ShippingAddress{
		Name:       "Test Buyer",
		Phone:      "555-0100",
		Address:    "12 Main Street",
		PostalCode: "1000",
	}
}

// TestNewOrder_Success verifies a fresh order's initial state.
func TestNewOrder_Success(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	order, err := NewOrder("test@buyer.com", testItems(), 0, testShipping(), map[string]interface{}{"type": "card"}, now)
	require.NoError(t, err)

	assert.NotEmpty(t, order.ID)
	assert.Equal(t, "test@buyer.com", order.BuyerEmail)
	assert.Equal(t, 20.00, order.TotalAmount)
	assert.Equal(t, StatusPlaced, order.Status)
	assert.True(t, order.CanCancel)
	assert.False(t, order.CanReturn)
	require.Len(t, order.TrackingHistory, 1)
	assert.Equal(t, StatusPlaced, order.TrackingHistory[0].Status)
	assert.Equal(t, "Order has been placed", order.TrackingHistory[0].Description)
	assert.Equal(t, now, order.TrackingHistory[0].Timestamp)
	assert.Equal(t, int64(1), order.Version)
}

// TestNewOrder_UpstreamTotal verifies a discounted upstream total is kept.
func TestNewOrder_UpstreamTotal(t *testing.T) {
	order, err := NewOrder("test@buyer.com", testItems(), 15.00, testShipping(), nil, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 15.00, order.TotalAmount)
}

// TestNewOrder_Validation verifies malformed create requests are rejected.
func TestNewOrder_Validation(t *testing.T) {
	now := time.Now()

	_, err := NewOrder("", testItems(), 0, testShipping(), nil, now)
	assert.ErrorIs(t, err, ErrInvalidOrder)

	_, err = NewOrder("test@buyer.com", nil, 0, testShipping(), nil, now)
	assert.ErrorIs(t, err, ErrInvalidOrder)

	_, err = NewOrder("test@buyer.com", []OrderItem{{ProductID: "p1", Quantity: 0}}, 0, testShipping(), nil, now)
	assert.ErrorIs(t, err, ErrInvalidOrder)

	missingPostal := testShipping()
	missingPostal.PostalCode = ""
	_, err = NewOrder("test@buyer.com", testItems(), 0, missingPostal, nil, now)
	assert.ErrorIs(t, err, ErrInvalidOrder)
}

// TestOrder_Apply verifies every applied transition keeps the audit-trail
// invariants: exactly one appended entry, matching last status, recomputed
// flags and a bumped version.
func TestOrder_Apply(t *testing.T) {
	now := time.Now()
	order, err := NewOrder("test@buyer.com", testItems(), 0, testShipping(), nil, now)
	require.NoError(t, err)

	steps := []struct {
		next      OrderStatus
		canCancel bool
		canReturn bool
	}{
		{StatusShipped, true, false},
		{StatusInTransit, false, false},
		{StatusDelivered, false, true},
		{StatusReturnRequested, false, true},
		{StatusReturnPickupScheduled, false, true},
		{StatusReturnPicked, false, true},
		{StatusReturnInTransit, false, true},
		{StatusReturned, false, false},
	}

	for i, step := range steps {
		order.Apply(step.next, now.Add(time.Duration(i+1)*time.Minute))

		assert.Equal(t, step.next, order.Status)
		assert.Equal(t, step.canCancel, order.CanCancel, "can_cancel after %s", step.next)
		assert.Equal(t, step.canReturn, order.CanReturn, "can_return after %s", step.next)
		require.Len(t, order.TrackingHistory, i+2)
		assert.Equal(t, step.next, order.TrackingHistory[len(order.TrackingHistory)-1].Status)
		assert.Equal(t, int64(i+2), order.Version)
	}
}

func placedOrder(t *testing.T, orderDate time.Time) *Order {
	t.Helper()
	order, err := NewOrder("test@buyer.com", testItems(), 0, testShipping(), nil, orderDate)
	require.NoError(t, err)
	return order
}

// TestResolver_CancelWhilePermitted verifies a cancellation request wins
// while can_cancel holds.
func TestResolver_CancelWhilePermitted(t *testing.T) {
	r := NewResolver(30 * time.Second)
	orderDate := time.Now()
	order := placedOrder(t, orderDate)

	next, err := r.Resolve(order, StatusCancelled, orderDate.Add(time.Second))
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, next)

	// Still permitted from shipped.
	order.Apply(StatusShipped, orderDate.Add(30*time.Second))
	next, err = r.Resolve(order, StatusCancelled, orderDate.Add(31*time.Second))
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, next)
}

// TestResolver_CancelForbidden verifies cancellation fails once the order
// passed the cancellable states.
func TestResolver_CancelForbidden(t *testing.T) {
	r := NewResolver(30 * time.Second)
	orderDate := time.Now()
	order := placedOrder(t, orderDate)
	order.Apply(StatusShipped, orderDate)
	order.Apply(StatusInTransit, orderDate)

	_, err := r.Resolve(order, StatusCancelled, orderDate.Add(time.Minute))
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

// TestResolver_AutomaticProgression verifies the time thresholds of the
// forward flow, including that the requested status is ignored.
func TestResolver_AutomaticProgression(t *testing.T) {
	r := NewResolver(30 * time.Second)
	orderDate := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	order := placedOrder(t, orderDate)

	// Below the first threshold nothing moves.
	next, err := r.Resolve(order, StatusPlaced, orderDate.Add(29*time.Second))
	require.NoError(t, err)
	assert.Equal(t, StatusPlaced, next)

	// Past the first threshold the order ships, whatever was requested.
	next, err = r.Resolve(order, StatusPlaced, orderDate.Add(31*time.Second))
	require.NoError(t, err)
	assert.Equal(t, StatusShipped, next)

	order.Apply(StatusShipped, orderDate.Add(31*time.Second))

	next, err = r.Resolve(order, StatusPlaced, orderDate.Add(59*time.Second))
	require.NoError(t, err)
	assert.Equal(t, StatusShipped, next)

	next, err = r.Resolve(order, StatusPlaced, orderDate.Add(61*time.Second))
	require.NoError(t, err)
	assert.Equal(t, StatusInTransit, next)

	order.Apply(StatusInTransit, orderDate.Add(61*time.Second))

	next, err = r.Resolve(order, StatusPlaced, orderDate.Add(91*time.Second))
	require.NoError(t, err)
	assert.Equal(t, StatusDelivered, next)
}

// TestResolver_OneStepPerCall verifies that even long past every threshold
// a single call advances exactly one step, so no intermediate state is
// skipped.
func TestResolver_OneStepPerCall(t *testing.T) {
	r := NewResolver(30 * time.Second)
	orderDate := time.Now().Add(-time.Hour)
	order := placedOrder(t, orderDate)

	next, err := r.Resolve(order, StatusPlaced, time.Now())
	require.NoError(t, err)
	assert.Equal(t, StatusShipped, next)
}

// TestResolver_ReturnInitiation verifies the delivered-only return request.
func TestResolver_ReturnInitiation(t *testing.T) {
	r := NewResolver(30 * time.Second)
	orderDate := time.Now()
	order := placedOrder(t, orderDate)
	order.Apply(StatusShipped, orderDate)
	order.Apply(StatusInTransit, orderDate)
	order.Apply(StatusDelivered, orderDate)
	require.True(t, order.CanReturn)

	next, err := r.Resolve(order, StatusReturnRequested, orderDate.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, StatusReturnRequested, next)
}

// TestResolver_ReturnForbidden verifies a return request fails when
// can_return does not hold, in every such state.
func TestResolver_ReturnForbidden(t *testing.T) {
	r := NewResolver(30 * time.Second)
	orderDate := time.Now()

	cancelled := placedOrder(t, orderDate)
	cancelled.Apply(StatusCancelled, orderDate)
	_, err := r.Resolve(cancelled, StatusReturnRequested, orderDate.Add(time.Minute))
	assert.ErrorIs(t, err, ErrInvalidTransition)

	returned := placedOrder(t, orderDate)
	returned.Apply(StatusDelivered, orderDate)
	returned.Apply(StatusReturnRequested, orderDate)
	returned.Apply(StatusReturned, orderDate)
	_, err = r.Resolve(returned, StatusReturnRequested, orderDate.Add(time.Minute))
	assert.ErrorIs(t, err, ErrInvalidTransition)

	// Before delivery the request must error rather than be swallowed by
	// automatic progression, even when a forward step is due.
	for _, status := range []OrderStatus{StatusPlaced, StatusShipped, StatusInTransit} {
		order := placedOrder(t, orderDate)
		if status != StatusPlaced {
			order.Apply(status, orderDate)
		}
		_, err := r.Resolve(order, StatusReturnRequested, orderDate.Add(time.Hour))
		assert.ErrorIs(t, err, ErrInvalidTransition, "from %s", status)
	}
}

// TestResolver_ReturnFlowProgression verifies the return sub-flow advances
// on thresholds counted from the return request, not from the order date.
func TestResolver_ReturnFlowProgression(t *testing.T) {
	r := NewResolver(30 * time.Second)
	orderDate := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	requestedAt := orderDate.Add(24 * time.Hour)

	order := placedOrder(t, orderDate)
	order.Apply(StatusShipped, orderDate)
	order.Apply(StatusInTransit, orderDate)
	order.Apply(StatusDelivered, orderDate)
	order.Apply(StatusReturnRequested, requestedAt)

	// Thresholds are relative to requestedAt; a day after the order date
	// but one second after the request, nothing moves yet.
	next, err := r.Resolve(order, order.Status, requestedAt.Add(time.Second))
	require.NoError(t, err)
	assert.Equal(t, StatusReturnRequested, next)

	next, err = r.Resolve(order, order.Status, requestedAt.Add(31*time.Second))
	require.NoError(t, err)
	assert.Equal(t, StatusReturnPickupScheduled, next)

	order.Apply(StatusReturnPickupScheduled, requestedAt.Add(31*time.Second))
	order.Apply(StatusReturnPicked, requestedAt.Add(61*time.Second))
	order.Apply(StatusReturnInTransit, requestedAt.Add(91*time.Second))

	next, err = r.Resolve(order, order.Status, requestedAt.Add(121*time.Second))
	require.NoError(t, err)
	assert.Equal(t, StatusReturned, next)
}

// TestResolver_TerminalNoOp verifies terminal orders absorb plain status
// requests without error and without change.
func TestResolver_TerminalNoOp(t *testing.T) {
	r := NewResolver(30 * time.Second)
	orderDate := time.Now()

	for _, terminal := range []OrderStatus{StatusCancelled, StatusReturned} {
		order := placedOrder(t, orderDate)
		order.Apply(terminal, orderDate)

		next, err := r.Resolve(order, StatusPlaced, orderDate.Add(time.Hour))
		require.NoError(t, err)
		assert.Equal(t, terminal, next)
	}
}

// TestResolver_ManualEscapeHatch verifies a status outside the automatic
// flows is applied as requested from the delivered rest state.
func TestResolver_ManualEscapeHatch(t *testing.T) {
	r := NewResolver(30 * time.Second)
	orderDate := time.Now()
	order := placedOrder(t, orderDate)
	order.Apply(StatusDelivered, orderDate)

	next, err := r.Resolve(order, StatusDelivered, orderDate.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, StatusDelivered, next)
}

// TestResolver_UnknownStatus verifies unknown status strings are rejected.
func TestResolver_UnknownStatus(t *testing.T) {
	r := NewResolver(30 * time.Second)
	order := placedOrder(t, time.Now())

	_, err := r.Resolve(order, OrderStatus("exploded"), time.Now())
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

// TestOrderStatus_Helpers verifies the status classification helpers.
func TestOrderStatus_Helpers(t *testing.T) {
	assert.True(t, StatusCancelled.Terminal())
	assert.True(t, StatusReturned.Terminal())
	assert.False(t, StatusDelivered.Terminal())

	assert.True(t, StatusReturnPickupScheduled.InReturnFlow())
	assert.False(t, StatusShipped.InReturnFlow())

	assert.True(t, StatusInTransit.Known())
	assert.False(t, OrderStatus("bogus").Known())

	assert.Equal(t, "Product returned to seller", StatusReturned.Description())
}
