package entity

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	StatusPendingApproval     OrderStatus = "PENDING_APPROVAL"
	StatusApproved            OrderStatus = "APPROVED"
	StatusRejected            OrderStatus = "REJECTED"
	StatusConfirmed           OrderStatus = "CONFIRMED"
	StatusReadyForPickup      OrderStatus = "READY_FOR_PICKUP"
	StatusCompleted           OrderStatus = "COMPLETED"
	StatusCancelled           OrderStatus = "CANCELLED"
	StatusModificationPending OrderStatus = "MODIFICATION_PENDING"
)

var validTransitions = map[OrderStatus][]OrderStatus{
	StatusPendingApproval:     {StatusApproved, StatusRejected, StatusModificationPending, StatusCancelled},
	StatusApproved:            {StatusConfirmed, StatusCancelled},
	StatusConfirmed:           {StatusReadyForPickup, StatusCancelled},
	StatusReadyForPickup:      {StatusCompleted, StatusCancelled},
	StatusModificationPending: {StatusConfirmed, StatusRejected, StatusCancelled},
	StatusRejected:            {},
	StatusCompleted:           {},
	StatusCancelled:           {},
}

// OrderItem is an immutable snapshot of a cart line at checkout time:
// product code, name and resolved price are frozen so later catalog edits
// cannot change a placed order. OriginalQuantity is recorded the first time
// an admin edits the line, for audit.
type OrderItem struct {
	ProductID             string
	ProductCode           string
	ProductName           string
	Quantity              int
	OriginalQuantity      *int
	UnitPrice             decimal.Decimal
	DiscountPercent       decimal.Decimal
	UnitPriceWithDiscount decimal.Decimal
	LineTotal             decimal.Decimal
}

func NewOrderItem(line PricedCartItem) (*OrderItem, error) {
	if line.ProductID == "" {
		return nil, errors.New("product ID cannot be empty")
	}
	if line.ProductName == "" {
		return nil, errors.New("product name cannot be empty")
	}
	if line.Quantity <= 0 {
		return nil, errors.New("quantity must be positive")
	}
	if line.UnitPrice.IsNegative() {
		return nil, errors.New("unit price cannot be negative")
	}
	return &OrderItem{
		ProductID:             line.ProductID,
		ProductCode:           line.ProductCode,
		ProductName:           line.ProductName,
		Quantity:              line.Quantity,
		UnitPrice:             line.UnitPrice,
		DiscountPercent:       line.DiscountPercent,
		UnitPriceWithDiscount: line.UnitPriceWithDiscount,
		LineTotal:             line.LineTotal,
	}, nil
}

// SetQuantity changes the line quantity, keeping the first pre-modification
// value and recomputing the line total from the frozen discounted unit price.
func (i *OrderItem) SetQuantity(quantity int) error {
	if quantity <= 0 {
		return errors.New("quantity must be positive")
	}
	if i.OriginalQuantity == nil {
		original := i.Quantity
		i.OriginalQuantity = &original
	}
	i.Quantity = quantity
	i.LineTotal = i.UnitPriceWithDiscount.Mul(decimal.NewFromInt(int64(quantity)))
	return nil
}

type Order struct {
	ID           string
	UserID       string
	Items        []OrderItem
	Currency     string
	TotalAmount  decimal.Decimal
	Status       OrderStatus
	UserNote     string
	AdminNote    string
	StatusReason string

	ApprovedBy  string
	RejectedBy  string
	ModifiedBy  string
	CancelledBy string

	ApprovedAt  *time.Time
	RejectedAt  *time.Time
	ConfirmedAt *time.Time
	ReadyAt     *time.Time
	CompletedAt *time.Time
	CancelledAt *time.Time
	ModifiedAt  *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
	Version   int
}

func NewOrder(userID string, items []OrderItem, currency, userNote string) (*Order, error) {
	if userID == "" {
		return nil, errors.New("user ID cannot be empty")
	}
	if len(items) == 0 {
		return nil, errors.New("order must contain at least one item")
	}

	now := time.Now().UTC()
	order := &Order{
		UserID:    userID,
		Items:     items,
		Currency:  currency,
		Status:    StatusPendingApproval,
		UserNote:  userNote,
		CreatedAt: now,
		UpdatedAt: now,
		Version:   1,
	}
	order.RecalculateTotal()
	return order, nil
}

func (o *Order) RecalculateTotal() {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.LineTotal)
	}
	o.TotalAmount = total
}

func (o *Order) CanTransitionTo(newStatus OrderStatus) bool {
	allowed, ok := validTransitions[o.Status]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == newStatus {
			return true
		}
	}
	return false
}

// CanBeCancelledBy reports whether the given actor may still cancel. Users
// can back out before fulfilment starts; admins can cancel anything that is
// not already in a terminal state.
func (o *Order) CanBeCancelledBy(isAdmin bool) bool {
	if isAdmin {
		return o.CanTransitionTo(StatusCancelled)
	}
	switch o.Status {
	case StatusPendingApproval, StatusApproved, StatusModificationPending:
		return true
	default:
		return false
	}
}

// UpdateStatus walks the transition table and stamps the matching timestamp
// and actor for the target status.
func (o *Order) UpdateStatus(newStatus OrderStatus, actorID, reason string) error {
	if o.Status == newStatus {
		return nil
	}
	if !o.CanTransitionTo(newStatus) {
		return fmt.Errorf("invalid status transition from %s to %s", o.Status, newStatus)
	}

	now := time.Now().UTC()
	switch newStatus {
	case StatusApproved:
		o.ApprovedAt = &now
		o.ApprovedBy = actorID
	case StatusRejected:
		o.RejectedAt = &now
		o.RejectedBy = actorID
		o.StatusReason = reason
	case StatusConfirmed:
		o.ConfirmedAt = &now
	case StatusReadyForPickup:
		o.ReadyAt = &now
	case StatusCompleted:
		o.CompletedAt = &now
	case StatusCancelled:
		o.CancelledAt = &now
		o.CancelledBy = actorID
		o.StatusReason = reason
	case StatusModificationPending:
		o.ModifiedAt = &now
		o.ModifiedBy = actorID
	}

	o.Status = newStatus
	o.UpdatedAt = now
	o.Version++
	return nil
}

// ItemByProductID looks a snapshot line up by its product reference.
func (o *Order) ItemByProductID(productID string) (*OrderItem, int) {
	for i := range o.Items {
		if o.Items[i].ProductID == productID {
			return &o.Items[i], i
		}
	}
	return nil, -1
}

// ApplyModifications edits line quantities on a pending order and moves it
// to MODIFICATION_PENDING for the user to accept or reject. Only allowed
// while the order still awaits approval.
func (o *Order) ApplyModifications(quantities map[string]int, adminID, note string) error {
	if o.Status != StatusPendingApproval {
		return fmt.Errorf("order in status %s cannot be modified", o.Status)
	}
	if len(quantities) == 0 {
		return errors.New("no quantity changes provided")
	}

	for productID, quantity := range quantities {
		item, _ := o.ItemByProductID(productID)
		if item == nil {
			return fmt.Errorf("product %s is not part of the order", productID)
		}
		if err := item.SetQuantity(quantity); err != nil {
			return err
		}
	}

	o.RecalculateTotal()
	o.AdminNote = note
	return o.UpdateStatus(StatusModificationPending, adminID, "")
}
