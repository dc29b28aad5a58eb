package service

import (
	"context"
	"testing"
	"time"

	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/domain"
	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/domain/entity"
	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/platform/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func testProduct(id, code string, price string, stock int) entity.Product {
	p, _ := entity.NewProduct(code, code+" name", decimal.RequireFromString(price), "EUR", stock)
	p.ID = id
	return *p
}

func withTier(p entity.Product, minQty int, percent string) entity.Product {
	d, _ := entity.NewBulkDiscount("tier-"+percent, minQty, decimal.RequireFromString(percent), nil, nil)
	p.Discounts = append(p.Discounts, *d)
	return p
}

func TestCartService_GetCart_AppliesBestTier(t *testing.T) {
	cartRepo := new(MockCartRepository)
	productRepo := new(MockProductRepository)
	svc := NewCartService(cartRepo, productRepo, logger.NewNop(), time.Hour)

	product := withTier(withTier(testProduct("p1", "SKU1", "10.00", 100), 5, "10"), 10, "20")
	cart := entity.NewCart("u1")
	_ = cart.AddItem("p1", 10)

	cartRepo.On("GetByUserID", mock.Anything, "u1").Return(cart, nil)
	productRepo.On("GetByIDs", mock.Anything, []string{"p1"}).Return([]entity.Product{product}, nil)

	priced, err := svc.GetCart(context.Background(), "u1")

	assert.NoError(t, err)
	assert.Len(t, priced.Items, 1)
	line := priced.Items[0]
	assert.True(t, line.DiscountPercent.Equal(decimal.RequireFromString("20")))
	assert.True(t, line.UnitPriceWithDiscount.Equal(decimal.RequireFromString("8.00")), "got %s", line.UnitPriceWithDiscount)
	assert.True(t, line.LineTotal.Equal(decimal.RequireFromString("80.00")), "got %s", line.LineTotal)
	assert.True(t, priced.Total.Equal(decimal.RequireFromString("80.00")))
}

func TestCartService_GetCart_NoQualifyingTier(t *testing.T) {
	cartRepo := new(MockCartRepository)
	productRepo := new(MockProductRepository)
	svc := NewCartService(cartRepo, productRepo, logger.NewNop(), time.Hour)

	product := withTier(testProduct("p1", "SKU1", "10.00", 100), 5, "10")
	cart := entity.NewCart("u1")
	_ = cart.AddItem("p1", 2)

	cartRepo.On("GetByUserID", mock.Anything, "u1").Return(cart, nil)
	productRepo.On("GetByIDs", mock.Anything, []string{"p1"}).Return([]entity.Product{product}, nil)

	priced, err := svc.GetCart(context.Background(), "u1")

	assert.NoError(t, err)
	assert.True(t, priced.Items[0].DiscountPercent.IsZero())
	assert.True(t, priced.Total.Equal(decimal.RequireFromString("20.00")))
}

func TestCartService_GetCart_SkipsInactiveProducts(t *testing.T) {
	cartRepo := new(MockCartRepository)
	productRepo := new(MockProductRepository)
	svc := NewCartService(cartRepo, productRepo, logger.NewNop(), time.Hour)

	active := testProduct("p1", "SKU1", "5.00", 10)
	inactive := testProduct("p2", "SKU2", "7.00", 10)
	inactive.Active = false

	cart := entity.NewCart("u1")
	_ = cart.AddItem("p1", 1)
	_ = cart.AddItem("p2", 1)

	cartRepo.On("GetByUserID", mock.Anything, "u1").Return(cart, nil)
	productRepo.On("GetByIDs", mock.Anything, mock.Anything).Return([]entity.Product{active, inactive}, nil)

	priced, err := svc.GetCart(context.Background(), "u1")

	assert.NoError(t, err)
	assert.Len(t, priced.Items, 1)
	assert.Equal(t, "p1", priced.Items[0].ProductID)
}

func TestCartService_AddItem_MergesQuantities(t *testing.T) {
	cartRepo := new(MockCartRepository)
	productRepo := new(MockProductRepository)
	svc := NewCartService(cartRepo, productRepo, logger.NewNop(), time.Hour)

	product := testProduct("p1", "SKU1", "10.00", 100)
	cart := entity.NewCart("u1")
	_ = cart.AddItem("p1", 3)

	productRepo.On("GetByID", mock.Anything, "p1").Return(&product, nil)
	productRepo.On("GetByIDs", mock.Anything, mock.Anything).Return([]entity.Product{product}, nil)
	cartRepo.On("GetByUserID", mock.Anything, "u1").Return(cart, nil)
	cartRepo.On("Save", mock.Anything, mock.Anything, time.Hour).Return(nil)

	priced, err := svc.AddItem(context.Background(), "u1", "p1", 2)

	assert.NoError(t, err)
	assert.Equal(t, 5, priced.Items[0].Quantity)
}

func TestCartService_AddItem_InsufficientStock(t *testing.T) {
	cartRepo := new(MockCartRepository)
	productRepo := new(MockProductRepository)
	svc := NewCartService(cartRepo, productRepo, logger.NewNop(), time.Hour)

	product := testProduct("p1", "SKU1", "10.00", 4)
	cart := entity.NewCart("u1")
	_ = cart.AddItem("p1", 3)

	productRepo.On("GetByID", mock.Anything, "p1").Return(&product, nil)
	cartRepo.On("GetByUserID", mock.Anything, "u1").Return(cart, nil)

	_, err := svc.AddItem(context.Background(), "u1", "p1", 2)

	assert.Error(t, err)
	assert.IsType(t, &domain.ValidationError{}, err)
	cartRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
}

func TestCartService_AddItem_InactiveProductRejected(t *testing.T) {
	cartRepo := new(MockCartRepository)
	productRepo := new(MockProductRepository)
	svc := NewCartService(cartRepo, productRepo, logger.NewNop(), time.Hour)

	product := testProduct("p1", "SKU1", "10.00", 10)
	product.Active = false
	productRepo.On("GetByID", mock.Anything, "p1").Return(&product, nil)

	_, err := svc.AddItem(context.Background(), "u1", "p1", 1)

	assert.Error(t, err)
	assert.IsType(t, &domain.ValidationError{}, err)
}

func TestCartService_UpdateItemQuantity_ZeroRemoves(t *testing.T) {
	cartRepo := new(MockCartRepository)
	productRepo := new(MockProductRepository)
	svc := NewCartService(cartRepo, productRepo, logger.NewNop(), time.Hour)

	cart := entity.NewCart("u1")
	_ = cart.AddItem("p1", 3)

	cartRepo.On("GetByUserID", mock.Anything, "u1").Return(cart, nil)
	cartRepo.On("Save", mock.Anything, mock.Anything, time.Hour).Return(nil)
	productRepo.On("GetByIDs", mock.Anything, mock.Anything).Return([]entity.Product{}, nil)

	priced, err := svc.UpdateItemQuantity(context.Background(), "u1", "p1", 0)

	assert.NoError(t, err)
	assert.Empty(t, priced.Items)
}

func TestCartService_ClearCart(t *testing.T) {
	cartRepo := new(MockCartRepository)
	productRepo := new(MockProductRepository)
	svc := NewCartService(cartRepo, productRepo, logger.NewNop(), time.Hour)

	cartRepo.On("DeleteByUserID", mock.Anything, "u1").Return(nil)

	assert.NoError(t, svc.ClearCart(context.Background(), "u1"))
	cartRepo.AssertExpectations(t)
}
