package handler

import (
	"net/http"
	"time"

	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/domain/entity"
	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/platform/logger"
	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/port/http/middleware"
	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/repository"
	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

// userResponse never leaks the password hash or lockout state.
type userResponse struct {
	ID              string           `json:"id"`
	Email           string           `json:"email"`
	Name            string           `json:"name"`
	Role            string           `json:"role"`
	Active          bool             `json:"active"`
	DiscountPercent *decimal.Decimal `json:"discount_percent,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
}

func newUserResponse(u *entity.User) userResponse {
	return userResponse{
		ID:              u.ID,
		Email:           u.Email,
		Name:            u.Name,
		Role:            u.Role,
		Active:          u.Active,
		DiscountPercent: u.DiscountPercent,
		CreatedAt:       u.CreatedAt,
	}
}

type UserHandler struct {
	users service.UserService
	log   logger.Logger
}

func NewUserHandler(users service.UserService, log logger.Logger) *UserHandler {
	return &UserHandler{users: users, log: log}
}

func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.GetProfile(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, newUserResponse(user))
}

type updateProfileRequest struct {
	Name *string `json:"name"`
}

func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user, err := h.users.UpdateProfile(r.Context(), middleware.UserID(r.Context()), service.UpdateProfileInput{Name: req.Name})
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, newUserResponse(user))
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.users.ChangePassword(r.Context(), middleware.UserID(r.Context()), req.CurrentPassword, req.NewPassword); err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "password updated"})
}

type adminCreateUserRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (h *UserHandler) AdminCreateUser(w http.ResponseWriter, r *http.Request) {
	var req adminCreateUserRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user, err := h.users.CreateUser(r.Context(), req.Email, req.Name, req.Password, req.Role)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, newUserResponse(user))
}

func (h *UserHandler) AdminGetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.GetUser(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, newUserResponse(user))
}

type adminUpdateUserRequest struct {
	Name            *string          `json:"name"`
	Role            *string          `json:"role"`
	DiscountPercent *decimal.Decimal `json:"discount_percent"`
}

func (h *UserHandler) AdminUpdateUser(w http.ResponseWriter, r *http.Request) {
	var req adminUpdateUserRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user, err := h.users.UpdateUser(r.Context(), chi.URLParam(r, "userID"), service.AdminUpdateUserInput{
		Name:            req.Name,
		Role:            req.Role,
		DiscountPercent: req.DiscountPercent,
	})
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, newUserResponse(user))
}

type setActiveRequest struct {
	Active bool `json:"active"`
}

func (h *UserHandler) AdminSetUserActive(w http.ResponseWriter, r *http.Request) {
	var req setActiveRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.users.SetActive(r.Context(), chi.URLParam(r, "userID"), req.Active); err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

type userListResponse struct {
	Users       []userResponse `json:"users"`
	TotalCount  int64          `json:"total_count"`
	CurrentPage int            `json:"current_page"`
	PageSize    int            `json:"page_size"`
	TotalPages  int            `json:"total_pages"`
}

func (h *UserHandler) AdminListUsers(w http.ResponseWriter, r *http.Request) {
	result, err := h.users.List(r.Context(), repository.ListUsersParams{
		Query:    r.URL.Query().Get("q"),
		Role:     r.URL.Query().Get("role"),
		Page:     queryInt(r, "page", 1),
		PageSize: queryInt(r, "page_size", 20),
		SortBy:   r.URL.Query().Get("sort_by"),
		SortDir:  r.URL.Query().Get("sort_dir"),
	})
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	resp := userListResponse{
		Users:       make([]userResponse, 0, len(result.Users)),
		TotalCount:  result.TotalCount,
		CurrentPage: result.CurrentPage,
		PageSize:    result.PageSize,
		TotalPages:  result.TotalPages,
	}
	for i := range result.Users {
		resp.Users = append(resp.Users, newUserResponse(&result.Users[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}
