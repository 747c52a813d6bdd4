package adapters

import (
	"context"
	"testing"
	"time"

	"revive-orders/internal/features/orders/domain"
	"revive-orders/internal/features/orders/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStoredOrder(t *testing.T, buyerEmail string, orderDate time.Time) *domain.Order {
	t.Helper()
	order, err := domain.NewOrder(
		buyerEmail,
		[]domain.OrderItem{{ProductID: "p1", ProductName: "Linen Shirt", Quantity: 1, Price: 12.00}},
		0,
		domain.ShippingAddress{Name: "Test Buyer", Address: "12 Main Street", PostalCode: "1000"},
		nil,
		orderDate,
	)
	require.NoError(t, err)
	return order
}

// TestMemoryOrderStore_InsertAndFind verifies the basic round trip.
func TestMemoryOrderStore_InsertAndFind(t *testing.T) {
	store := NewMemoryOrderStore()
	order := newStoredOrder(t, "buyer@test.com", time.Now())

	require.NoError(t, store.Insert(context.Background(), order))

	got, err := store.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)
	assert.Equal(t, domain.StatusPlaced, got.Status)
}

// TestMemoryOrderStore_InsertDuplicate verifies duplicate ids are rejected.
func TestMemoryOrderStore_InsertDuplicate(t *testing.T) {
	store := NewMemoryOrderStore()
	order := newStoredOrder(t, "buyer@test.com", time.Now())

	require.NoError(t, store.Insert(context.Background(), order))
	assert.ErrorIs(t, store.Insert(context.Background(), order), ports.ErrNotPersisted)
}

// TestMemoryOrderStore_FindByID_NotFound verifies the miss error.
func TestMemoryOrderStore_FindByID_NotFound(t *testing.T) {
	store := NewMemoryOrderStore()

	_, err := store.FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ports.ErrOrderNotFound)
}

// TestMemoryOrderStore_FindByBuyer verifies buyer filtering and newest-first
// ordering.
func TestMemoryOrderStore_FindByBuyer(t *testing.T) {
	store := NewMemoryOrderStore()
	now := time.Now()

	older := newStoredOrder(t, "buyer@test.com", now.Add(-time.Hour))
	newer := newStoredOrder(t, "buyer@test.com", now)
	other := newStoredOrder(t, "other@test.com", now)

	require.NoError(t, store.Insert(context.Background(), older))
	require.NoError(t, store.Insert(context.Background(), newer))
	require.NoError(t, store.Insert(context.Background(), other))

	orders, err := store.FindByBuyer(context.Background(), "buyer@test.com")
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, newer.ID, orders[0].ID)
	assert.Equal(t, older.ID, orders[1].ID)

	orders, err = store.FindByBuyer(context.Background(), "stranger@test.com")
	require.NoError(t, err)
	assert.Empty(t, orders)
}

// TestMemoryOrderStore_FindActive verifies delivered and terminal orders are
// excluded from the poller sweep.
func TestMemoryOrderStore_FindActive(t *testing.T) {
	store := NewMemoryOrderStore()
	now := time.Now()

	placed := newStoredOrder(t, "buyer@test.com", now)
	delivered := newStoredOrder(t, "buyer@test.com", now)
	delivered.Apply(domain.StatusDelivered, now)
	cancelled := newStoredOrder(t, "buyer@test.com", now)
	cancelled.Apply(domain.StatusCancelled, now)
	returning := newStoredOrder(t, "buyer@test.com", now)
	returning.Apply(domain.StatusReturnRequested, now)

	for _, o := range []*domain.Order{placed, delivered, cancelled, returning} {
		require.NoError(t, store.Insert(context.Background(), o))
	}

	active, err := store.FindActive(context.Background())
	require.NoError(t, err)
	require.Len(t, active, 2)

	ids := map[string]bool{}
	for _, o := range active {
		ids[o.ID] = true
	}
	assert.True(t, ids[placed.ID])
	assert.True(t, ids[returning.ID])
}

// TestMemoryOrderStore_Update_VersionConflict verifies the conditional
// update contract: a stale writer loses.
func TestMemoryOrderStore_Update_VersionConflict(t *testing.T) {
	store := NewMemoryOrderStore()
	now := time.Now()
	order := newStoredOrder(t, "buyer@test.com", now)
	require.NoError(t, store.Insert(context.Background(), order))

	// Two readers of the same version race; one wins.
	first, err := store.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	second, err := store.FindByID(context.Background(), order.ID)
	require.NoError(t, err)

	first.Apply(domain.StatusShipped, now)
	require.NoError(t, store.Update(context.Background(), first))

	second.Apply(domain.StatusCancelled, now)
	assert.ErrorIs(t, store.Update(context.Background(), second), ports.ErrVersionConflict)

	got, err := store.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusShipped, got.Status)
}

// TestMemoryOrderStore_Update_NotFound verifies updates to unknown orders
// fail with the miss error.
func TestMemoryOrderStore_Update_NotFound(t *testing.T) {
	store := NewMemoryOrderStore()
	order := newStoredOrder(t, "buyer@test.com", time.Now())
	order.Apply(domain.StatusShipped, time.Now())

	assert.ErrorIs(t, store.Update(context.Background(), order), ports.ErrOrderNotFound)
}

// TestMemoryOrderStore_NoAliasing verifies stored state is isolated from
// caller mutations after a read.
func TestMemoryOrderStore_NoAliasing(t *testing.T) {
	store := NewMemoryOrderStore()
	now := time.Now()
	order := newStoredOrder(t, "buyer@test.com", now)
	order.PaymentMethod = map[string]interface{}{"type": "card"}
	require.NoError(t, store.Insert(context.Background(), order))

	got, err := store.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	got.TrackingHistory[0].Description = "tampered"
	got.Items[0].Price = 999
	got.PaymentMethod["type"] = "cash"

	fresh, err := store.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, "Order has been placed", fresh.TrackingHistory[0].Description)
	assert.Equal(t, 12.00, fresh.Items[0].Price)
	assert.Equal(t, "card", fresh.PaymentMethod["type"])
}
