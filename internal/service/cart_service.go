package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/domain"
	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/domain/entity"
	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/platform/logger"
	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/repository"
	"github.com/shopspring/decimal"
)

const defaultCartTTL = 168 * time.Hour

type CartService interface {
	AddItem(ctx context.Context, userID, productID string, quantity int) (*entity.PricedCart, error)
	UpdateItemQuantity(ctx context.Context, userID, productID string, newQuantity int) (*entity.PricedCart, error)
	RemoveItem(ctx context.Context, userID, productID string) (*entity.PricedCart, error)
	GetCart(ctx context.Context, userID string) (*entity.PricedCart, error)
	ClearCart(ctx context.Context, userID string) error
}

type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	log         logger.Logger
	cartTTL     time.Duration
}

func NewCartService(
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	log logger.Logger,
	cartTTL time.Duration,
) CartService {
	if cartTTL <= 0 {
		cartTTL = defaultCartTTL
	}
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		log:         log,
		cartTTL:     cartTTL,
	}
}

// priceCart resolves each raw cart line against the catalog and applies the
// best bulk tier per line. Lines referencing missing or inactive products
// are skipped rather than failing the whole cart.
func (s *cartService) priceCart(ctx context.Context, cart *entity.Cart) (*entity.PricedCart, error) {
	priced := &entity.PricedCart{
		UserID:   cart.UserID,
		Items:    make([]entity.PricedCartItem, 0, len(cart.Items)),
		Total:    decimal.Zero,
		Currency: "EUR",
	}
	if len(cart.Items) == 0 {
		return priced, nil
	}

	ids := make([]string, 0, len(cart.Items))
	for _, item := range cart.Items {
		ids = append(ids, item.ProductID)
	}
	products, err := s.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("could not load cart products: %w", err)
	}

	byID := make(map[string]*entity.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	now := time.Now().UTC()
	for _, item := range cart.Items {
		product, ok := byID[item.ProductID]
		if !ok || !product.Active {
			s.log.Warnf("Skipping cart line for unavailable product %s (user %s)", item.ProductID, cart.UserID)
			continue
		}

		discounted, percent := product.UnitPriceFor(item.Quantity, now)
		lineTotal := discounted.Mul(decimal.NewFromInt(int64(item.Quantity)))
		priced.Items = append(priced.Items, entity.PricedCartItem{
			ProductID:             product.ID,
			ProductCode:           product.Code,
			ProductName:           product.Name,
			Quantity:              item.Quantity,
			UnitPrice:             product.Price,
			DiscountPercent:       percent,
			UnitPriceWithDiscount: discounted,
			LineTotal:             lineTotal,
		})
		priced.Total = priced.Total.Add(lineTotal)
		priced.Currency = product.Currency
	}
	return priced, nil
}

func (s *cartService) AddItem(ctx context.Context, userID, productID string, quantity int) (*entity.PricedCart, error) {
	if quantity <= 0 {
		return nil, domain.NewValidation("quantity must be positive")
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.NewNotFound("product %s not found", productID)
		}
		return nil, fmt.Errorf("could not check product: %w", err)
	}
	if !product.Active {
		return nil, domain.NewValidation("product %s is not available", product.Code)
	}

	cart, err := s.cartRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("could not retrieve cart: %w", err)
	}

	requested := quantity
	if existing, _ := cart.GetItem(productID); existing != nil {
		requested += existing.Quantity
	}
	if product.Stock < requested {
		return nil, domain.NewValidation("insufficient stock for product %s: %d available", product.Code, product.Stock)
	}

	if err := cart.AddItem(productID, quantity); err != nil {
		return nil, domain.NewValidation("%s", err.Error())
	}
	if err := s.cartRepo.Save(ctx, cart, s.cartTTL); err != nil {
		return nil, fmt.Errorf("could not save cart: %w", err)
	}

	s.log.Infof("Added %d x product %s to cart of user %s", quantity, productID, userID)
	return s.priceCart(ctx, cart)
}

func (s *cartService) UpdateItemQuantity(ctx context.Context, userID, productID string, newQuantity int) (*entity.PricedCart, error) {
	cart, err := s.cartRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("could not retrieve cart: %w", err)
	}

	if newQuantity > 0 {
		product, err := s.productRepo.GetByID(ctx, productID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, domain.NewNotFound("product %s not found", productID)
			}
			return nil, fmt.Errorf("could not check product: %w", err)
		}
		if product.Stock < newQuantity {
			return nil, domain.NewValidation("insufficient stock for product %s: %d available", product.Code, product.Stock)
		}
	}

	if err := cart.UpdateItemQuantity(productID, newQuantity); err != nil {
		return nil, domain.NewNotFound("product %s is not in the cart", productID)
	}
	if err := s.cartRepo.Save(ctx, cart, s.cartTTL); err != nil {
		return nil, fmt.Errorf("could not save cart: %w", err)
	}
	return s.priceCart(ctx, cart)
}

func (s *cartService) RemoveItem(ctx context.Context, userID, productID string) (*entity.PricedCart, error) {
	cart, err := s.cartRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("could not retrieve cart: %w", err)
	}

	if err := cart.RemoveItem(productID); err != nil {
		return nil, domain.NewNotFound("product %s is not in the cart", productID)
	}
	if err := s.cartRepo.Save(ctx, cart, s.cartTTL); err != nil {
		return nil, fmt.Errorf("could not save cart: %w", err)
	}
	return s.priceCart(ctx, cart)
}

func (s *cartService) GetCart(ctx context.Context, userID string) (*entity.PricedCart, error) {
	cart, err := s.cartRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("could not retrieve cart: %w", err)
	}
	return s.priceCart(ctx, cart)
}

func (s *cartService) ClearCart(ctx context.Context, userID string) error {
	if err := s.cartRepo.DeleteByUserID(ctx, userID); err != nil {
		return fmt.Errorf("could not clear cart: %w", err)
	}
	s.log.Infof("Cleared cart of user %s", userID)
	return nil
}
