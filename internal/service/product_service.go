package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/adapter/storage/minio"
	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/domain"
	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/domain/entity"
	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/platform/logger"
	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateProductInput struct {
	Code        string
	Name        string
	Description string
	Price       decimal.Decimal
	Currency    string
	Stock       int
	CategoryIDs []string
}

type UpdateProductInput struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Currency    *string
	Stock       *int
}

type DiscountInput struct {
	MinQuantity     int
	DiscountPercent decimal.Decimal
	ValidFrom       *time.Time
	ValidUntil      *time.Time
	Active          *bool
}

type ProductService interface {
	Create(ctx context.Context, input CreateProductInput) (*entity.Product, error)
	GetByID(ctx context.Context, productID string) (*entity.Product, error)
	Update(ctx context.Context, productID string, input UpdateProductInput) (*entity.Product, error)
	// Deactivate is the soft delete: the product disappears from the
	// storefront but survives in order snapshots.
	Deactivate(ctx context.Context, productID string) error
	Activate(ctx context.Context, productID string) error
	List(ctx context.Context, params repository.ListProductsParams) (*repository.ListProductsResult, error)
	SetCategories(ctx context.Context, productID string, categoryIDs []string) (*entity.Product, error)

	AddDiscount(ctx context.Context, productID string, input DiscountInput) (*entity.Product, error)
	UpdateDiscount(ctx context.Context, productID, discountID string, input DiscountInput) (*entity.Product, error)
	RemoveDiscount(ctx context.Context, productID, discountID string) (*entity.Product, error)

	UploadImage(ctx context.Context, productID, fileName string, data []byte) (*entity.Product, error)
	RemoveImage(ctx context.Context, productID, imageURL string) (*entity.Product, error)
}

type productService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	images       minio.ImageStore
	log          logger.Logger
}

func NewProductService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	images minio.ImageStore,
	log logger.Logger,
) ProductService {
	return &productService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		images:       images,
		log:          log,
	}
}

func (s *productService) getProduct(ctx context.Context, productID string) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.NewNotFound("product %s not found", productID)
		}
		return nil, fmt.Errorf("could not load product %s: %w", productID, err)
	}
	return product, nil
}

func (s *productService) checkCategories(ctx context.Context, categoryIDs []string) error {
	for _, id := range categoryIDs {
		if _, err := s.categoryRepo.GetByID(ctx, id); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return domain.NewValidation("category %s does not exist", id)
			}
			return fmt.Errorf("could not check category %s: %w", id, err)
		}
	}
	return nil
}

func (s *productService) Create(ctx context.Context, input CreateProductInput) (*entity.Product, error) {
	product, err := entity.NewProduct(input.Code, input.Name, input.Price, input.Currency, input.Stock)
	if err != nil {
		return nil, domain.NewValidation("%s", err.Error())
	}
	product.Description = input.Description

	if len(input.CategoryIDs) > 0 {
		if err := s.checkCategories(ctx, input.CategoryIDs); err != nil {
			return nil, err
		}
		product.CategoryIDs = input.CategoryIDs
	}

	id, err := s.productRepo.Create(ctx, product)
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil, domain.NewConflict("product code %s is already in use", product.Code)
		}
		return nil, fmt.Errorf("could not create product: %w", err)
	}
	product.ID = id

	s.log.Infof("Product %s created with code %s", id, product.Code)
	return product, nil
}

func (s *productService) GetByID(ctx context.Context, productID string) (*entity.Product, error) {
	return s.getProduct(ctx, productID)
}

func (s *productService) Update(ctx context.Context, productID string, input UpdateProductInput) (*entity.Product, error) {
	product, err := s.getProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, domain.NewValidation("product name cannot be empty")
		}
		product.Name = *input.Name
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return nil, domain.NewValidation("product price cannot be negative")
		}
		product.Price = *input.Price
	}
	if input.Currency != nil && *input.Currency != "" {
		product.Currency = *input.Currency
	}
	if input.Stock != nil {
		if *input.Stock < 0 {
			return nil, domain.NewValidation("product stock cannot be negative")
		}
		product.Stock = *input.Stock
	}
	product.UpdatedAt = time.Now().UTC()

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("could not update product %s: %w", productID, err)
	}
	return product, nil
}

func (s *productService) Deactivate(ctx context.Context, productID string) error {
	if err := s.productRepo.SetActive(ctx, productID, false); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.NewNotFound("product %s not found", productID)
		}
		return fmt.Errorf("could not deactivate product %s: %w", productID, err)
	}
	s.log.Infof("Product %s deactivated", productID)
	return nil
}

func (s *productService) Activate(ctx context.Context, productID string) error {
	if err := s.productRepo.SetActive(ctx, productID, true); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.NewNotFound("product %s not found", productID)
		}
		return fmt.Errorf("could not activate product %s: %w", productID, err)
	}
	return nil
}

func (s *productService) List(ctx context.Context, params repository.ListProductsParams) (*repository.ListProductsResult, error) {
	return s.productRepo.List(ctx, params)
}

func (s *productService) SetCategories(ctx context.Context, productID string, categoryIDs []string) (*entity.Product, error) {
	product, err := s.getProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if err := s.checkCategories(ctx, categoryIDs); err != nil {
		return nil, err
	}

	product.CategoryIDs = categoryIDs
	product.UpdatedAt = time.Now().UTC()
	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("could not update product categories: %w", err)
	}
	return product, nil
}

func (s *productService) AddDiscount(ctx context.Context, productID string, input DiscountInput) (*entity.Product, error) {
	product, err := s.getProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	discount, err := entity.NewBulkDiscount(uuid.New().String(), input.MinQuantity, input.DiscountPercent, input.ValidFrom, input.ValidUntil)
	if err != nil {
		return nil, domain.NewValidation("%s", err.Error())
	}
	if input.Active != nil {
		discount.Active = *input.Active
	}
	product.AddDiscount(*discount)

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("could not add discount to product %s: %w", productID, err)
	}
	s.log.Infof("Discount %s added to product %s (min %d, %s%%)", discount.ID, productID, discount.MinQuantity, discount.DiscountPercent)
	return product, nil
}

func (s *productService) UpdateDiscount(ctx context.Context, productID, discountID string, input DiscountInput) (*entity.Product, error) {
	product, err := s.getProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	discount, idx := product.DiscountByID(discountID)
	if idx == -1 {
		return nil, domain.NewNotFound("discount %s not found on product %s", discountID, productID)
	}

	updated, err := entity.NewBulkDiscount(discount.ID, input.MinQuantity, input.DiscountPercent, input.ValidFrom, input.ValidUntil)
	if err != nil {
		return nil, domain.NewValidation("%s", err.Error())
	}
	if input.Active != nil {
		updated.Active = *input.Active
	}
	product.Discounts[idx] = *updated
	product.UpdatedAt = time.Now().UTC()

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("could not update discount on product %s: %w", productID, err)
	}
	return product, nil
}

func (s *productService) RemoveDiscount(ctx context.Context, productID, discountID string) (*entity.Product, error) {
	product, err := s.getProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if err := product.RemoveDiscount(discountID); err != nil {
		return nil, domain.NewNotFound("discount %s not found on product %s", discountID, productID)
	}
	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("could not remove discount from product %s: %w", productID, err)
	}
	return product, nil
}

func (s *productService) UploadImage(ctx context.Context, productID, fileName string, data []byte) (*entity.Product, error) {
	if len(data) == 0 {
		return nil, domain.NewValidation("image payload is empty")
	}

	product, err := s.getProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	url, err := s.images.Upload(ctx, fileName, data)
	if err != nil {
		return nil, fmt.Errorf("could not upload image: %w", err)
	}

	product.Images = append(product.Images, url)
	product.UpdatedAt = time.Now().UTC()
	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("could not attach image to product %s: %w", productID, err)
	}
	return product, nil
}

func (s *productService) RemoveImage(ctx context.Context, productID, imageURL string) (*entity.Product, error) {
	product, err := s.getProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	found := false
	images := make([]string, 0, len(product.Images))
	for _, url := range product.Images {
		if url == imageURL {
			found = true
			continue
		}
		images = append(images, url)
	}
	if !found {
		return nil, domain.NewNotFound("image is not attached to product %s", productID)
	}

	if err := s.images.Remove(ctx, imageURL); err != nil {
		s.log.Warnf("Failed to remove stored image %s: %v", imageURL, err)
	}

	product.Images = images
	product.UpdatedAt = time.Now().UTC()
	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("could not detach image from product %s: %w", productID, err)
	}
	return product, nil
}
