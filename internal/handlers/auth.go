package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/nivkatz/toystore/internal/auth"
	"github.com/nivkatz/toystore/internal/models"
	pkghttp "github.com/nivkatz/toystore/pkg/http"
)

// AuthServiceInterface defines the interface for auth business logic
type AuthServiceInterface interface {
	Login(ctx context.Context, username, password string) (*models.User, error)
	Signup(ctx context.Context, username, password, fullname string) (*models.User, error)
	IssueSessionToken(user *models.User) (string, error)
	ValidateSessionToken(token string) *models.TokenClaims
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	service AuthServiceInterface
	cookies auth.CookieConfig
}

func NewAuthHandler(service AuthServiceInterface, cookies auth.CookieConfig) *AuthHandler {
	return &AuthHandler{
		service: service,
		cookies: cookies,
	}
}

// Request DTOs

// LoginRequest represents the request body for login
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// SignupRequest represents the request body for signup
type SignupRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Password string `json:"password" validate:"required"`
	Fullname string `json:"fullname" validate:"required,min=1"`
}

// Login authenticates a user and sets the session cookie.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	user, err := h.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, models.ErrUnauthorized) {
			// Uniform message: never reveal whether the username exists.
			pkghttp.WriteUnauthorized(w, "Invalid credentials")
			return
		}
		pkghttp.WriteInternalError(w, "Cannot process request")
		return
	}

	token, err := h.service.IssueSessionToken(user)
	if err != nil {
		pkghttp.WriteInternalError(w, "Cannot process request")
		return
	}

	auth.SetLoginTokenCookie(w, token, h.cookies)
	pkghttp.WriteJSON(w, http.StatusOK, user)
}

// Signup registers a new account and logs it in immediately.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Fullname = strings.TrimSpace(req.Fullname)

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	user, err := h.service.Signup(r.Context(), req.Username, req.Password, req.Fullname)
	if err != nil {
		if errors.Is(err, models.ErrBadRequest) {
			pkghttp.WriteBadRequest(w, "Invalid signup data")
			return
		}
		// A taken username surfaces as a generic signup failure.
		pkghttp.WriteInternalError(w, "Signup failed")
		return
	}

	token, err := h.service.IssueSessionToken(user)
	if err != nil {
		pkghttp.WriteInternalError(w, "Signup failed")
		return
	}

	auth.SetLoginTokenCookie(w, token, h.cookies)
	pkghttp.WriteJSON(w, http.StatusOK, user)
}

// Logout clears the session cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	auth.ClearLoginTokenCookie(w, h.cookies)
	pkghttp.WriteJSON(w, http.StatusOK, map[string]string{"msg": "Logged out successfully"})
}
