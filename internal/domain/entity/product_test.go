package entity

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func productWithTiers(t *testing.T) *Product {
	t.Helper()
	p, err := NewProduct("sku1", "Widget", decimal.RequireFromString("100.00"), "EUR", 50)
	assert.NoError(t, err)

	d5, err := NewBulkDiscount("d5", 5, decimal.RequireFromString("10"), nil, nil)
	assert.NoError(t, err)
	d10, err := NewBulkDiscount("d10", 10, decimal.RequireFromString("25"), nil, nil)
	assert.NoError(t, err)
	p.Discounts = []BulkDiscount{*d5, *d10}
	return p
}

func TestNewProduct_NormalizesCodeAndCurrency(t *testing.T) {
	p, err := NewProduct(" sku1 ", "Widget", decimal.RequireFromString("9.99"), "eur", 1)

	assert.NoError(t, err)
	assert.Equal(t, "SKU1", p.Code)
	assert.Equal(t, "EUR", p.Currency)
	assert.True(t, p.Active)
}

func TestNewProduct_Invalid(t *testing.T) {
	_, err := NewProduct("", "Widget", decimal.Zero, "EUR", 1)
	assert.Error(t, err)

	_, err = NewProduct("SKU1", "", decimal.Zero, "EUR", 1)
	assert.Error(t, err)

	_, err = NewProduct("SKU1", "Widget", decimal.RequireFromString("-1"), "EUR", 1)
	assert.Error(t, err)

	_, err = NewProduct("SKU1", "Widget", decimal.Zero, "EUR", -1)
	assert.Error(t, err)
}

func TestProduct_BestDiscountPercent_PicksHighestQualifying(t *testing.T) {
	p := productWithTiers(t)
	now := time.Now().UTC()

	assert.True(t, p.BestDiscountPercent(4, now).IsZero())
	assert.True(t, p.BestDiscountPercent(5, now).Equal(decimal.RequireFromString("10")))
	assert.True(t, p.BestDiscountPercent(10, now).Equal(decimal.RequireFromString("25")))
	assert.True(t, p.BestDiscountPercent(100, now).Equal(decimal.RequireFromString("25")))
}

func TestProduct_BestDiscountPercent_IgnoresInactiveAndExpired(t *testing.T) {
	p := productWithTiers(t)
	now := time.Now().UTC()

	p.Discounts[1].Active = false
	assert.True(t, p.BestDiscountPercent(10, now).Equal(decimal.RequireFromString("10")))

	past := now.Add(-time.Hour)
	p.Discounts[0].ValidUntil = &past
	assert.True(t, p.BestDiscountPercent(10, now).IsZero())
}

func TestProduct_BestDiscountPercent_ValidityWindow(t *testing.T) {
	now := time.Now().UTC()
	from := now.Add(-time.Hour)
	until := now.Add(time.Hour)

	p, _ := NewProduct("SKU1", "Widget", decimal.RequireFromString("100.00"), "EUR", 50)
	d, err := NewBulkDiscount("d1", 1, decimal.RequireFromString("50"), &from, &until)
	assert.NoError(t, err)
	p.Discounts = []BulkDiscount{*d}

	assert.True(t, p.BestDiscountPercent(1, now).Equal(decimal.RequireFromString("50")))
	assert.True(t, p.BestDiscountPercent(1, now.Add(2*time.Hour)).IsZero())
	assert.True(t, p.BestDiscountPercent(1, now.Add(-2*time.Hour)).IsZero())
}

func TestProduct_UnitPriceFor(t *testing.T) {
	p := productWithTiers(t)
	now := time.Now().UTC()

	unit, percent := p.UnitPriceFor(10, now)
	assert.True(t, percent.Equal(decimal.RequireFromString("25")))
	assert.True(t, unit.Equal(decimal.RequireFromString("75.00")), "got %s", unit)

	unit, percent = p.UnitPriceFor(1, now)
	assert.True(t, percent.IsZero())
	assert.True(t, unit.Equal(decimal.RequireFromString("100.00")))
}

func TestNewBulkDiscount_Invalid(t *testing.T) {
	_, err := NewBulkDiscount("d", 0, decimal.RequireFromString("10"), nil, nil)
	assert.Error(t, err)

	_, err = NewBulkDiscount("d", 1, decimal.RequireFromString("101"), nil, nil)
	assert.Error(t, err)

	_, err = NewBulkDiscount("d", 1, decimal.RequireFromString("-1"), nil, nil)
	assert.Error(t, err)

	now := time.Now().UTC()
	earlier := now.Add(-time.Hour)
	_, err = NewBulkDiscount("d", 1, decimal.RequireFromString("10"), &now, &earlier)
	assert.Error(t, err)
}

func TestProduct_RemoveDiscount(t *testing.T) {
	p := productWithTiers(t)

	assert.NoError(t, p.RemoveDiscount("d5"))
	assert.Len(t, p.Discounts, 1)
	assert.Equal(t, "d10", p.Discounts[0].ID)

	assert.Error(t, p.RemoveDiscount("ghost"))
}
