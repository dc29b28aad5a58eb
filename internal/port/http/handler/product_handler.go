package handler

import (
	"io"
	"net/http"
	"time"

	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/platform/logger"
	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/repository"
	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

const maxImageSize = 10 << 20 // 10 MiB

type ProductHandler struct {
	products service.ProductService
	log      logger.Logger
}

func NewProductHandler(products service.ProductService, log logger.Logger) *ProductHandler {
	return &ProductHandler{products: products, log: log}
}

type createProductRequest struct {
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Currency    string          `json:"currency"`
	Stock       int             `json:"stock"`
	CategoryIDs []string        `json:"category_ids"`
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if !decodeBody(w, r, &req) {
		return
	}

	product, err := h.products.Create(r.Context(), service.CreateProductInput{
		Code:        req.Code,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Currency:    req.Currency,
		Stock:       req.Stock,
		CategoryIDs: req.CategoryIDs,
	})
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, product)
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	product, err := h.products.GetByID(r.Context(), chi.URLParam(r, "productID"))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

type updateProductRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Currency    *string          `json:"currency"`
	Stock       *int             `json:"stock"`
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateProductRequest
	if !decodeBody(w, r, &req) {
		return
	}

	product, err := h.products.Update(r.Context(), chi.URLParam(r, "productID"), service.UpdateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Currency:    req.Currency,
		Stock:       req.Stock,
	})
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

func (h *ProductHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	if err := h.products.Deactivate(r.Context(), chi.URLParam(r, "productID")); err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (h *ProductHandler) Activate(w http.ResponseWriter, r *http.Request) {
	if err := h.products.Activate(r.Context(), chi.URLParam(r, "productID")); err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	onlyActive := r.URL.Query().Get("include_inactive") != "true"
	result, err := h.products.List(r.Context(), repository.ListProductsParams{
		Query:      r.URL.Query().Get("q"),
		CategoryID: r.URL.Query().Get("category_id"),
		OnlyActive: onlyActive,
		Page:       queryInt(r, "page", 1),
		PageSize:   queryInt(r, "page_size", 20),
		SortBy:     r.URL.Query().Get("sort_by"),
		SortDir:    r.URL.Query().Get("sort_dir"),
	})
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type setCategoriesRequest struct {
	CategoryIDs []string `json:"category_ids"`
}

func (h *ProductHandler) SetCategories(w http.ResponseWriter, r *http.Request) {
	var req setCategoriesRequest
	if !decodeBody(w, r, &req) {
		return
	}

	product, err := h.products.SetCategories(r.Context(), chi.URLParam(r, "productID"), req.CategoryIDs)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

type discountRequest struct {
	MinQuantity     int             `json:"min_quantity"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	ValidFrom       *time.Time      `json:"valid_from"`
	ValidUntil      *time.Time      `json:"valid_until"`
	Active          *bool           `json:"active"`
}

func (r discountRequest) toInput() service.DiscountInput {
	return service.DiscountInput{
		MinQuantity:     r.MinQuantity,
		DiscountPercent: r.DiscountPercent,
		ValidFrom:       r.ValidFrom,
		ValidUntil:      r.ValidUntil,
		Active:          r.Active,
	}
}

func (h *ProductHandler) AddDiscount(w http.ResponseWriter, r *http.Request) {
	var req discountRequest
	if !decodeBody(w, r, &req) {
		return
	}

	product, err := h.products.AddDiscount(r.Context(), chi.URLParam(r, "productID"), req.toInput())
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, product)
}

func (h *ProductHandler) UpdateDiscount(w http.ResponseWriter, r *http.Request) {
	var req discountRequest
	if !decodeBody(w, r, &req) {
		return
	}

	product, err := h.products.UpdateDiscount(r.Context(), chi.URLParam(r, "productID"), chi.URLParam(r, "discountID"), req.toInput())
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

func (h *ProductHandler) RemoveDiscount(w http.ResponseWriter, r *http.Request) {
	product, err := h.products.RemoveDiscount(r.Context(), chi.URLParam(r, "productID"), chi.URLParam(r, "discountID"))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

func (h *ProductHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxImageSize); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid multipart form"})
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "image file is required"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxImageSize))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "could not read image"})
		return
	}

	product, err := h.products.UploadImage(r.Context(), chi.URLParam(r, "productID"), header.Filename, data)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, product)
}

type removeImageRequest struct {
	URL string `json:"url"`
}

func (h *ProductHandler) RemoveImage(w http.ResponseWriter, r *http.Request) {
	var req removeImageRequest
	if !decodeBody(w, r, &req) {
		return
	}

	product, err := h.products.RemoveImage(r.Context(), chi.URLParam(r, "productID"), req.URL)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}
