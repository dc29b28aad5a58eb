package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCart_AddItem_MergesExistingLine(t *testing.T) {
	cart := NewCart("u1")

	assert.NoError(t, cart.AddItem("p1", 2))
	assert.NoError(t, cart.AddItem("p1", 3))
	assert.NoError(t, cart.AddItem("p2", 1))

	assert.Len(t, cart.Items, 2)
	item, _ := cart.GetItem("p1")
	assert.Equal(t, 5, item.Quantity)
}

func TestCart_AddItem_RejectsNonPositive(t *testing.T) {
	cart := NewCart("u1")

	assert.Error(t, cart.AddItem("p1", 0))
	assert.Error(t, cart.AddItem("p1", -1))
	assert.Empty(t, cart.Items)
}

func TestCart_UpdateItemQuantity(t *testing.T) {
	cart := NewCart("u1")
	_ = cart.AddItem("p1", 2)

	assert.NoError(t, cart.UpdateItemQuantity("p1", 7))
	item, _ := cart.GetItem("p1")
	assert.Equal(t, 7, item.Quantity)

	// Zero and below remove the line.
	assert.NoError(t, cart.UpdateItemQuantity("p1", 0))
	assert.Empty(t, cart.Items)

	assert.Error(t, cart.UpdateItemQuantity("ghost", 1))
}

func TestCart_RemoveItem(t *testing.T) {
	cart := NewCart("u1")
	_ = cart.AddItem("p1", 1)
	_ = cart.AddItem("p2", 1)

	assert.NoError(t, cart.RemoveItem("p1"))
	assert.Len(t, cart.Items, 1)
	assert.Equal(t, "p2", cart.Items[0].ProductID)

	assert.Error(t, cart.RemoveItem("p1"))
}

func TestCart_Clear(t *testing.T) {
	cart := NewCart("u1")
	_ = cart.AddItem("p1", 1)

	cart.Clear()

	assert.Empty(t, cart.Items)
}
