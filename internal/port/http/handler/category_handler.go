package handler

import (
	"net/http"

	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/platform/logger"
	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/repository"
	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/service"
	"github.com/go-chi/chi/v5"
)

type CategoryHandler struct {
	categories service.CategoryService
	log        logger.Logger
}

func NewCategoryHandler(categories service.CategoryService, log logger.Logger) *CategoryHandler {
	return &CategoryHandler{categories: categories, log: log}
}

type categoryRequest struct {
	Name      string   `json:"name"`
	Slug      string   `json:"slug"`
	ParentIDs []string `json:"parent_ids"`
}

func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if !decodeBody(w, r, &req) {
		return
	}

	category, err := h.categories.Create(r.Context(), req.Name, req.Slug, req.ParentIDs)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, category)
}

func (h *CategoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	tree, err := h.categories.Get(r.Context(), chi.URLParam(r, "categoryID"))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, tree)
}

func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if !decodeBody(w, r, &req) {
		return
	}

	category, err := h.categories.Update(r.Context(), chi.URLParam(r, "categoryID"), req.Name, req.Slug)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, category)
}

type assignParentsRequest struct {
	ParentIDs []string `json:"parent_ids"`
}

func (h *CategoryHandler) AssignParents(w http.ResponseWriter, r *http.Request) {
	var req assignParentsRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.categories.AssignParents(r.Context(), chi.URLParam(r, "categoryID"), req.ParentIDs); err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (h *CategoryHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	if err := h.categories.Deactivate(r.Context(), chi.URLParam(r, "categoryID")); err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	onlyActive := r.URL.Query().Get("include_inactive") != "true"
	result, err := h.categories.List(r.Context(), repository.ListCategoriesParams{
		OnlyActive: onlyActive,
		Page:       queryInt(r, "page", 1),
		PageSize:   queryInt(r, "page_size", 50),
		SortBy:     r.URL.Query().Get("sort_by"),
		SortDir:    r.URL.Query().Get("sort_dir"),
	})
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
