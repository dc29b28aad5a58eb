package entity

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func orderFixture(t *testing.T) *Order {
	t.Helper()
	line := PricedCartItem{
		ProductID:             "p1",
		ProductCode:           "SKU1",
		ProductName:           "Widget",
		Quantity:              10,
		UnitPrice:             decimal.RequireFromString("10.00"),
		DiscountPercent:       decimal.RequireFromString("20"),
		UnitPriceWithDiscount: decimal.RequireFromString("8.00"),
		LineTotal:             decimal.RequireFromString("80.00"),
	}
	item, err := NewOrderItem(line)
	assert.NoError(t, err)
	order, err := NewOrder("u1", []OrderItem{*item}, "EUR", "")
	assert.NoError(t, err)
	return order
}

func TestNewOrder(t *testing.T) {
	order := orderFixture(t)

	assert.Equal(t, StatusPendingApproval, order.Status)
	assert.Equal(t, 1, order.Version)
	assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("80.00")))

	_, err := NewOrder("", []OrderItem{order.Items[0]}, "EUR", "")
	assert.Error(t, err)
	_, err = NewOrder("u1", nil, "EUR", "")
	assert.Error(t, err)
}

func TestOrder_UpdateStatus_StampsActorAndVersion(t *testing.T) {
	order := orderFixture(t)

	err := order.UpdateStatus(StatusApproved, "admin1", "")

	assert.NoError(t, err)
	assert.Equal(t, StatusApproved, order.Status)
	assert.Equal(t, "admin1", order.ApprovedBy)
	assert.NotNil(t, order.ApprovedAt)
	assert.Equal(t, 2, order.Version)
}

func TestOrder_UpdateStatus_FullLifecycle(t *testing.T) {
	order := orderFixture(t)

	assert.NoError(t, order.UpdateStatus(StatusApproved, "admin1", ""))
	assert.NoError(t, order.UpdateStatus(StatusConfirmed, "u1", ""))
	assert.NoError(t, order.UpdateStatus(StatusReadyForPickup, "admin1", ""))
	assert.NoError(t, order.UpdateStatus(StatusCompleted, "admin1", ""))

	assert.Equal(t, StatusCompleted, order.Status)
	assert.NotNil(t, order.ConfirmedAt)
	assert.NotNil(t, order.ReadyAt)
	assert.NotNil(t, order.CompletedAt)
	assert.Equal(t, 5, order.Version)
}

func TestOrder_UpdateStatus_InvalidTransition(t *testing.T) {
	order := orderFixture(t)

	err := order.UpdateStatus(StatusCompleted, "admin1", "")

	assert.Error(t, err)
	assert.Equal(t, StatusPendingApproval, order.Status)
	assert.Equal(t, 1, order.Version)
}

func TestOrder_UpdateStatus_TerminalStatesAreFinal(t *testing.T) {
	for _, terminal := range []OrderStatus{StatusRejected, StatusCompleted, StatusCancelled} {
		order := orderFixture(t)
		order.Status = terminal
		for _, next := range []OrderStatus{StatusApproved, StatusConfirmed, StatusCancelled} {
			if next == terminal {
				continue
			}
			assert.Error(t, order.UpdateStatus(next, "a", ""), "from %s to %s", terminal, next)
		}
	}
}

func TestOrder_UpdateStatus_RejectRecordsReason(t *testing.T) {
	order := orderFixture(t)

	assert.NoError(t, order.UpdateStatus(StatusRejected, "admin1", "out of stock"))
	assert.Equal(t, "admin1", order.RejectedBy)
	assert.Equal(t, "out of stock", order.StatusReason)
	assert.NotNil(t, order.RejectedAt)
}

func TestOrder_ApplyModifications(t *testing.T) {
	order := orderFixture(t)

	err := order.ApplyModifications(map[string]int{"p1": 4}, "admin1", "only 4 left")

	assert.NoError(t, err)
	assert.Equal(t, StatusModificationPending, order.Status)
	assert.Equal(t, 4, order.Items[0].Quantity)
	assert.NotNil(t, order.Items[0].OriginalQuantity)
	assert.Equal(t, 10, *order.Items[0].OriginalQuantity)
	assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("32.00")))
	assert.Equal(t, "only 4 left", order.AdminNote)
	assert.Equal(t, "admin1", order.ModifiedBy)
}

func TestOrder_ApplyModifications_OnlyWhilePending(t *testing.T) {
	order := orderFixture(t)
	_ = order.UpdateStatus(StatusApproved, "admin1", "")

	err := order.ApplyModifications(map[string]int{"p1": 4}, "admin1", "")

	assert.Error(t, err)
}

func TestOrder_ApplyModifications_UnknownProduct(t *testing.T) {
	order := orderFixture(t)

	err := order.ApplyModifications(map[string]int{"ghost": 2}, "admin1", "")

	assert.Error(t, err)
	assert.Equal(t, StatusPendingApproval, order.Status)
}

func TestOrderItem_SetQuantity_KeepsFirstOriginal(t *testing.T) {
	order := orderFixture(t)
	item := &order.Items[0]

	assert.NoError(t, item.SetQuantity(7))
	assert.NoError(t, item.SetQuantity(3))

	// The audit value is the pre-modification quantity, not the previous edit.
	assert.Equal(t, 10, *item.OriginalQuantity)
	assert.Equal(t, 3, item.Quantity)
	assert.True(t, item.LineTotal.Equal(decimal.RequireFromString("24.00")))
}

func TestOrder_CanBeCancelledBy(t *testing.T) {
	cases := []struct {
		status OrderStatus
		user   bool
		admin  bool
	}{
		{StatusPendingApproval, true, true},
		{StatusApproved, true, true},
		{StatusModificationPending, true, true},
		{StatusConfirmed, false, true},
		{StatusReadyForPickup, false, true},
		{StatusCompleted, false, false},
		{StatusRejected, false, false},
		{StatusCancelled, false, false},
	}

	for _, tc := range cases {
		order := orderFixture(t)
		order.Status = tc.status
		assert.Equal(t, tc.user, order.CanBeCancelledBy(false), "user cancel from %s", tc.status)
		assert.Equal(t, tc.admin, order.CanBeCancelledBy(true), "admin cancel from %s", tc.status)
	}
}
