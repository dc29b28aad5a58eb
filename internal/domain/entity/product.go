package entity

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// BulkDiscount is a quantity-tier discount attached to a product. A tier
// applies when it is active, the current time falls inside its optional
// validity window and the purchased quantity reaches MinQuantity.
type BulkDiscount struct {
	ID              string
	MinQuantity     int
	DiscountPercent decimal.Decimal
	ValidFrom       *time.Time
	ValidUntil      *time.Time
	Active          bool
}

func NewBulkDiscount(id string, minQuantity int, percent decimal.Decimal, validFrom, validUntil *time.Time) (*BulkDiscount, error) {
	if minQuantity <= 0 {
		return nil, errors.New("minimum quantity must be positive")
	}
	if percent.IsNegative() || percent.GreaterThan(decimal.NewFromInt(100)) {
		return nil, errors.New("discount percent must be between 0 and 100")
	}
	if validFrom != nil && validUntil != nil && validUntil.Before(*validFrom) {
		return nil, errors.New("discount validity window is inverted")
	}
	return &BulkDiscount{
		ID:              id,
		MinQuantity:     minQuantity,
		DiscountPercent: percent,
		ValidFrom:       validFrom,
		ValidUntil:      validUntil,
		Active:          true,
	}, nil
}

func (d BulkDiscount) IsCurrentlyValid(now time.Time) bool {
	if !d.Active {
		return false
	}
	if d.ValidFrom != nil && now.Before(*d.ValidFrom) {
		return false
	}
	if d.ValidUntil != nil && now.After(*d.ValidUntil) {
		return false
	}
	return true
}

type Product struct {
	ID          string
	Code        string
	Name        string
	Description string
	Price       decimal.Decimal
	Currency    string
	Stock       int
	Active      bool
	Images      []string
	CategoryIDs []string
	Discounts   []BulkDiscount
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func NewProduct(code, name string, price decimal.Decimal, currency string, stock int) (*Product, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, errors.New("product code cannot be empty")
	}
	if strings.TrimSpace(name) == "" {
		return nil, errors.New("product name cannot be empty")
	}
	if price.IsNegative() {
		return nil, errors.New("product price cannot be negative")
	}
	if stock < 0 {
		return nil, errors.New("product stock cannot be negative")
	}
	if currency == "" {
		currency = "EUR"
	}
	now := time.Now().UTC()
	return &Product{
		Code:      code,
		Name:      name,
		Price:     price,
		Currency:  strings.ToUpper(currency),
		Stock:     stock,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// BestDiscountPercent returns the highest discount percent among the
// currently valid tiers whose MinQuantity is satisfied. Ties on MinQuantity
// do not matter: the winner is the greatest percent, not the greatest
// threshold. No qualifying tier yields zero.
func (p *Product) BestDiscountPercent(quantity int, now time.Time) decimal.Decimal {
	best := decimal.Zero
	for _, d := range p.Discounts {
		if !d.IsCurrentlyValid(now) {
			continue
		}
		if d.MinQuantity > quantity {
			continue
		}
		if d.DiscountPercent.GreaterThan(best) {
			best = d.DiscountPercent
		}
	}
	return best
}

// UnitPriceFor applies the best applicable tier to the list price.
func (p *Product) UnitPriceFor(quantity int, now time.Time) (unitPrice, percent decimal.Decimal) {
	percent = p.BestDiscountPercent(quantity, now)
	if percent.IsZero() {
		return p.Price, percent
	}
	factor := decimal.NewFromInt(1).Sub(percent.Div(decimal.NewFromInt(100)))
	return p.Price.Mul(factor), percent
}

func (p *Product) DiscountByID(discountID string) (*BulkDiscount, int) {
	for i := range p.Discounts {
		if p.Discounts[i].ID == discountID {
			return &p.Discounts[i], i
		}
	}
	return nil, -1
}

func (p *Product) AddDiscount(d BulkDiscount) {
	p.Discounts = append(p.Discounts, d)
	p.UpdatedAt = time.Now().UTC()
}

func (p *Product) RemoveDiscount(discountID string) error {
	_, idx := p.DiscountByID(discountID)
	if idx == -1 {
		return errors.New("discount not found on product")
	}
	p.Discounts = append(p.Discounts[:idx], p.Discounts[idx+1:]...)
	p.UpdatedAt = time.Now().UTC()
	return nil
}
