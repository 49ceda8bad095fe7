package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/daap14/billing/internal/api/middleware"
	"github.com/daap14/billing/internal/api/response"
	"github.com/daap14/billing/internal/api/validation"
	"github.com/daap14/billing/internal/auth"
)

type userResponse struct {
	ID            int64   `json:"id"`
	Email         string  `json:"email"`
	Name          string  `json:"name"`
	EmailVerified bool    `json:"emailVerified"`
	IsAdmin       bool    `json:"isAdmin"`
	Locale        string  `json:"locale"`
	Timezone      *string `json:"timezone,omitempty"`
	CreatedAt     string  `json:"createdAt"`
	UpdatedAt     string  `json:"updatedAt"`
}

type userWithKeyResponse struct {
	userResponse
	PersonalTeamID int64  `json:"personalTeamId"`
	ApiKey         string `json:"apiKey"`
}

type identityResponse struct {
	ID      int64  `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	IsAdmin bool   `json:"isAdmin"`
}

func toUserResponse(u *auth.User) userResponse {
	return userResponse{
		ID:            u.ID,
		Email:         u.Email,
		Name:          u.Name,
		EmailVerified: u.EmailVerified,
		IsAdmin:       u.IsAdmin,
		Locale:        u.Locale,
		Timezone:      u.Timezone,
		CreatedAt:     u.CreatedAt.UTC().Format(timeLayout),
		UpdatedAt:     u.UpdatedAt.UTC().Format(timeLayout),
	}
}

// UserProvisioner creates users with their personal team and API key.
type UserProvisioner interface {
	CreateUser(ctx context.Context, nu auth.NewUser) (*auth.Provisioned, error)
}

// UserHandler handles user endpoints.
type UserHandler struct {
	provisioner UserProvisioner
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(provisioner UserProvisioner) *UserHandler {
	return &UserHandler{provisioner: provisioner}
}

// Create handles POST /users.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req validation.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, response.CodeInvalidJSON, "Request body must be valid JSON", requestID)
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	req.Name = strings.TrimSpace(req.Name)

	if fieldErrors := validation.ValidateCreateUserRequest(req); len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, response.CodeValidation, "Input validation failed", fieldErrors, requestID)
		return
	}

	p, err := h.provisioner.CreateUser(r.Context(), auth.NewUser{
		Email:    req.Email,
		Name:     req.Name,
		Locale:   req.Locale,
		Timezone: req.Timezone,
		IsAdmin:  req.IsAdmin,
	})
	if err != nil {
		if errors.Is(err, auth.ErrDuplicateEmail) {
			response.Err(w, http.StatusConflict, response.CodeDuplicateEmail, "A user with this email already exists", requestID)
			return
		}
		slog.Error("failed to create user", "error", err)
		response.Err(w, http.StatusInternalServerError, response.CodeInternal, "Failed to create user", requestID)
		return
	}

	response.Success(w, http.StatusCreated, userWithKeyResponse{
		userResponse:   toUserResponse(p.User),
		PersonalTeamID: p.TeamID,
		ApiKey:         p.APIKey,
	}, requestID)
}

// Me handles GET /users/me.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	identity := middleware.GetIdentity(r.Context())
	if identity == nil {
		response.Err(w, http.StatusUnauthorized, response.CodeUnauthorized, "API key is required", requestID)
		return
	}

	response.Success(w, http.StatusOK, identityResponse{
		ID:      identity.UserID,
		Email:   identity.Email,
		Name:    identity.Name,
		IsAdmin: identity.IsAdmin,
	}, requestID)
}
