package mongo

import (
	"fmt"
	"time"

	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/domain/entity"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Persistence models are kept apart from the domain entities because
// monetary values travel as decimal.Decimal in the domain and as plain
// strings in the documents.

type bulkDiscountModel struct {
	ID              string     `bson:"id"`
	MinQuantity     int        `bson:"min_quantity"`
	DiscountPercent string     `bson:"discount_percent"`
	ValidFrom       *time.Time `bson:"valid_from,omitempty"`
	ValidUntil      *time.Time `bson:"valid_until,omitempty"`
	Active          bool       `bson:"active"`
}

type productModel struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty"`
	Code        string              `bson:"code"`
	Name        string              `bson:"name"`
	Description string              `bson:"description,omitempty"`
	Price       string              `bson:"price"`
	Currency    string              `bson:"currency"`
	Stock       int                 `bson:"stock"`
	Active      bool                `bson:"active"`
	Images      []string            `bson:"images,omitempty"`
	CategoryIDs []string            `bson:"category_ids,omitempty"`
	Discounts   []bulkDiscountModel `bson:"discounts,omitempty"`
	CreatedAt   time.Time           `bson:"created_at"`
	UpdatedAt   time.Time           `bson:"updated_at"`
}

func toProductModel(p *entity.Product) (*productModel, error) {
	m := &productModel{
		Code:        p.Code,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price.String(),
		Currency:    p.Currency,
		Stock:       p.Stock,
		Active:      p.Active,
		Images:      p.Images,
		CategoryIDs: p.CategoryIDs,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if p.ID != "" {
		objID, err := primitive.ObjectIDFromHex(p.ID)
		if err != nil {
			return nil, fmt.Errorf("invalid product ID %q: %w", p.ID, err)
		}
		m.ID = objID
	}
	for _, d := range p.Discounts {
		m.Discounts = append(m.Discounts, bulkDiscountModel{
			ID:              d.ID,
			MinQuantity:     d.MinQuantity,
			DiscountPercent: d.DiscountPercent.String(),
			ValidFrom:       d.ValidFrom,
			ValidUntil:      d.ValidUntil,
			Active:          d.Active,
		})
	}
	return m, nil
}

func (m *productModel) toEntity() (*entity.Product, error) {
	price, err := decimal.NewFromString(m.Price)
	if err != nil {
		return nil, fmt.Errorf("corrupt price %q on product %s: %w", m.Price, m.ID.Hex(), err)
	}
	p := &entity.Product{
		ID:          m.ID.Hex(),
		Code:        m.Code,
		Name:        m.Name,
		Description: m.Description,
		Price:       price,
		Currency:    m.Currency,
		Stock:       m.Stock,
		Active:      m.Active,
		Images:      m.Images,
		CategoryIDs: m.CategoryIDs,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
	for _, d := range m.Discounts {
		percent, err := decimal.NewFromString(d.DiscountPercent)
		if err != nil {
			return nil, fmt.Errorf("corrupt discount percent %q on product %s: %w", d.DiscountPercent, m.ID.Hex(), err)
		}
		p.Discounts = append(p.Discounts, entity.BulkDiscount{
			ID:              d.ID,
			MinQuantity:     d.MinQuantity,
			DiscountPercent: percent,
			ValidFrom:       d.ValidFrom,
			ValidUntil:      d.ValidUntil,
			Active:          d.Active,
		})
	}
	return p, nil
}

type orderItemModel struct {
	ProductID             string `bson:"product_id"`
	ProductCode           string `bson:"product_code"`
	ProductName           string `bson:"product_name"`
	Quantity              int    `bson:"quantity"`
	OriginalQuantity      *int   `bson:"original_quantity,omitempty"`
	UnitPrice             string `bson:"unit_price"`
	DiscountPercent       string `bson:"discount_percent"`
	UnitPriceWithDiscount string `bson:"unit_price_with_discount"`
	LineTotal             string `bson:"line_total"`
}

type orderModel struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	UserID       string             `bson:"user_id"`
	Items        []orderItemModel   `bson:"items"`
	Currency     string             `bson:"currency"`
	TotalAmount  string             `bson:"total_amount"`
	Status       string             `bson:"status"`
	UserNote     string             `bson:"user_note,omitempty"`
	AdminNote    string             `bson:"admin_note,omitempty"`
	StatusReason string             `bson:"status_reason,omitempty"`
	ApprovedBy   string             `bson:"approved_by,omitempty"`
	RejectedBy   string             `bson:"rejected_by,omitempty"`
	ModifiedBy   string             `bson:"modified_by,omitempty"`
	CancelledBy  string             `bson:"cancelled_by,omitempty"`
	ApprovedAt   *time.Time         `bson:"approved_at,omitempty"`
	RejectedAt   *time.Time         `bson:"rejected_at,omitempty"`
	ConfirmedAt  *time.Time         `bson:"confirmed_at,omitempty"`
	ReadyAt      *time.Time         `bson:"ready_at,omitempty"`
	CompletedAt  *time.Time         `bson:"completed_at,omitempty"`
	CancelledAt  *time.Time         `bson:"cancelled_at,omitempty"`
	ModifiedAt   *time.Time         `bson:"modified_at,omitempty"`
	CreatedAt    time.Time          `bson:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at"`
	Version      int                `bson:"version"`
}

func toOrderModel(o *entity.Order) (*orderModel, error) {
	m := &orderModel{
		UserID:       o.UserID,
		Currency:     o.Currency,
		TotalAmount:  o.TotalAmount.String(),
		Status:       string(o.Status),
		UserNote:     o.UserNote,
		AdminNote:    o.AdminNote,
		StatusReason: o.StatusReason,
		ApprovedBy:   o.ApprovedBy,
		RejectedBy:   o.RejectedBy,
		ModifiedBy:   o.ModifiedBy,
		CancelledBy:  o.CancelledBy,
		ApprovedAt:   o.ApprovedAt,
		RejectedAt:   o.RejectedAt,
		ConfirmedAt:  o.ConfirmedAt,
		ReadyAt:      o.ReadyAt,
		CompletedAt:  o.CompletedAt,
		CancelledAt:  o.CancelledAt,
		ModifiedAt:   o.ModifiedAt,
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
		Version:      o.Version,
	}
	if o.ID != "" {
		objID, err := primitive.ObjectIDFromHex(o.ID)
		if err != nil {
			return nil, fmt.Errorf("invalid order ID %q: %w", o.ID, err)
		}
		m.ID = objID
	}
	for _, item := range o.Items {
		m.Items = append(m.Items, orderItemModel{
			ProductID:             item.ProductID,
			ProductCode:           item.ProductCode,
			ProductName:           item.ProductName,
			Quantity:              item.Quantity,
			OriginalQuantity:      item.OriginalQuantity,
			UnitPrice:             item.UnitPrice.String(),
			DiscountPercent:       item.DiscountPercent.String(),
			UnitPriceWithDiscount: item.UnitPriceWithDiscount.String(),
			LineTotal:             item.LineTotal.String(),
		})
	}
	return m, nil
}

func (m *orderModel) toEntity() (*entity.Order, error) {
	total, err := decimal.NewFromString(m.TotalAmount)
	if err != nil {
		return nil, fmt.Errorf("corrupt total %q on order %s: %w", m.TotalAmount, m.ID.Hex(), err)
	}
	o := &entity.Order{
		ID:           m.ID.Hex(),
		UserID:       m.UserID,
		Currency:     m.Currency,
		TotalAmount:  total,
		Status:       entity.OrderStatus(m.Status),
		UserNote:     m.UserNote,
		AdminNote:    m.AdminNote,
		StatusReason: m.StatusReason,
		ApprovedBy:   m.ApprovedBy,
		RejectedBy:   m.RejectedBy,
		ModifiedBy:   m.ModifiedBy,
		CancelledBy:  m.CancelledBy,
		ApprovedAt:   m.ApprovedAt,
		RejectedAt:   m.RejectedAt,
		ConfirmedAt:  m.ConfirmedAt,
		ReadyAt:      m.ReadyAt,
		CompletedAt:  m.CompletedAt,
		CancelledAt:  m.CancelledAt,
		ModifiedAt:   m.ModifiedAt,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
		Version:      m.Version,
	}
	for _, item := range m.Items {
		unitPrice, err := decimal.NewFromString(item.UnitPrice)
		if err != nil {
			return nil, fmt.Errorf("corrupt unit price on order %s: %w", m.ID.Hex(), err)
		}
		percent, err := decimal.NewFromString(item.DiscountPercent)
		if err != nil {
			return nil, fmt.Errorf("corrupt discount percent on order %s: %w", m.ID.Hex(), err)
		}
		discounted, err := decimal.NewFromString(item.UnitPriceWithDiscount)
		if err != nil {
			return nil, fmt.Errorf("corrupt discounted price on order %s: %w", m.ID.Hex(), err)
		}
		lineTotal, err := decimal.NewFromString(item.LineTotal)
		if err != nil {
			return nil, fmt.Errorf("corrupt line total on order %s: %w", m.ID.Hex(), err)
		}
		o.Items = append(o.Items, entity.OrderItem{
			ProductID:             item.ProductID,
			ProductCode:           item.ProductCode,
			ProductName:           item.ProductName,
			Quantity:              item.Quantity,
			OriginalQuantity:      item.OriginalQuantity,
			UnitPrice:             unitPrice,
			DiscountPercent:       percent,
			UnitPriceWithDiscount: discounted,
			LineTotal:             lineTotal,
		})
	}
	return o, nil
}

type userModel struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty"`
	Email               string             `bson:"email"`
	Name                string             `bson:"name,omitempty"`
	PasswordHash        string             `bson:"password_hash"`
	Role                string             `bson:"role"`
	Active              bool               `bson:"active"`
	DiscountPercent     *string            `bson:"discount_percent,omitempty"`
	FailedLoginAttempts int                `bson:"failed_login_attempts"`
	LockedUntil         *time.Time         `bson:"locked_until,omitempty"`
	CreatedAt           time.Time          `bson:"created_at"`
	UpdatedAt           time.Time          `bson:"updated_at"`
}

func toUserModel(u *entity.User) (*userModel, error) {
	m := &userModel{
		Email:               u.Email,
		Name:                u.Name,
		PasswordHash:        u.PasswordHash,
		Role:                u.Role,
		Active:              u.Active,
		FailedLoginAttempts: u.FailedLoginAttempts,
		LockedUntil:         u.LockedUntil,
		CreatedAt:           u.CreatedAt,
		UpdatedAt:           u.UpdatedAt,
	}
	if u.ID != "" {
		objID, err := primitive.ObjectIDFromHex(u.ID)
		if err != nil {
			return nil, fmt.Errorf("invalid user ID %q: %w", u.ID, err)
		}
		m.ID = objID
	}
	if u.DiscountPercent != nil {
		s := u.DiscountPercent.String()
		m.DiscountPercent = &s
	}
	return m, nil
}

func (m *userModel) toEntity() (*entity.User, error) {
	u := &entity.User{
		ID:                  m.ID.Hex(),
		Email:               m.Email,
		Name:                m.Name,
		PasswordHash:        m.PasswordHash,
		Role:                m.Role,
		Active:              m.Active,
		FailedLoginAttempts: m.FailedLoginAttempts,
		LockedUntil:         m.LockedUntil,
		CreatedAt:           m.CreatedAt,
		UpdatedAt:           m.UpdatedAt,
	}
	if m.DiscountPercent != nil {
		percent, err := decimal.NewFromString(*m.DiscountPercent)
		if err != nil {
			return nil, fmt.Errorf("corrupt discount percent on user %s: %w", m.ID.Hex(), err)
		}
		u.DiscountPercent = &percent
	}
	return u, nil
}
