package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/nivkatz/toystore/internal/auth"
	"github.com/nivkatz/toystore/internal/models"
	"github.com/nivkatz/toystore/internal/query"
	pkghttp "github.com/nivkatz/toystore/pkg/http"
)

// ToyServiceInterface defines the interface for catalog business logic
type ToyServiceInterface interface {
	Query(ctx context.Context, spec query.Spec) ([]models.Toy, error)
	GetToyByID(ctx context.Context, id string) (*models.Toy, error)
	CreateToy(ctx context.Context, toy *models.Toy) (*models.Toy, error)
	UpdateToy(ctx context.Context, id string, toy *models.Toy) (*models.Toy, error)
	DeleteToy(ctx context.Context, id string) error
	AddMessage(ctx context.Context, toyID, text string, author models.TokenClaims) (*models.ToyMsg, error)
	RemoveMessage(ctx context.Context, toyID, msgID string) error
}

// ToyHandler handles catalog HTTP requests
type ToyHandler struct {
	service ToyServiceInterface
}

func NewToyHandler(service ToyServiceInterface) *ToyHandler {
	return &ToyHandler{service: service}
}

// Request DTOs

// ToyRequest represents the request body for creating or updating a toy.
// Price and InStock are pointers so that absent and zero-valued fields are
// distinguishable.
type ToyRequest struct {
	Name    string   `json:"name" validate:"required"`
	Price   *float64 `json:"price" validate:"required,gte=0"`
	InStock *bool    `json:"inStock" validate:"required"`
	Labels  []string `json:"labels"`
	ImgURL  string   `json:"imgUrl"`
}

// AddMsgRequest represents the request body for posting a message
type AddMsgRequest struct {
	Text string `json:"text" validate:"required"`
}

func (req *ToyRequest) toModel() *models.Toy {
	return &models.Toy{
		Name:    req.Name,
		Price:   *req.Price,
		InStock: *req.InStock,
		Labels:  req.Labels,
		ImgURL:  req.ImgURL,
	}
}

// ListToys runs the query engine over the catalog.
func (h *ToyHandler) ListToys(w http.ResponseWriter, r *http.Request) {
	spec := query.ParseSpec(r.URL.Query())

	toys, err := h.service.Query(r.Context(), spec)
	if err != nil {
		pkghttp.WriteInternalError(w, "Cannot process request")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, toys)
}

func (h *ToyHandler) GetToy(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !isValidID(id) {
		pkghttp.WriteBadRequest(w, "Invalid toy ID format")
		return
	}

	toy, err := h.service.GetToyByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, "Toy not found")
			return
		}
		pkghttp.WriteInternalError(w, "Cannot process request")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, toy)
}

func (h *ToyHandler) CreateToy(w http.ResponseWriter, r *http.Request) {
	var req ToyRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid toy data")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	toy, err := h.service.CreateToy(r.Context(), req.toModel())
	if err != nil {
		if errors.Is(err, models.ErrBadRequest) {
			pkghttp.WriteBadRequest(w, "Invalid toy data")
			return
		}
		pkghttp.WriteInternalError(w, "Could not save resource")
		return
	}

	pkghttp.WriteJSON(w, http.StatusCreated, toy)
}

func (h *ToyHandler) UpdateToy(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !isValidID(id) {
		pkghttp.WriteBadRequest(w, "Invalid toy ID format")
		return
	}

	var req ToyRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid toy data")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	toy, err := h.service.UpdateToy(r.Context(), id, req.toModel())
	if err != nil {
		switch {
		case errors.Is(err, models.ErrBadRequest):
			pkghttp.WriteBadRequest(w, "Invalid toy data")
		case errors.Is(err, models.ErrNotFound):
			pkghttp.WriteNotFound(w, "Toy not found")
		default:
			pkghttp.WriteInternalError(w, "Could not update resource")
		}
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, toy)
}

func (h *ToyHandler) DeleteToy(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !isValidID(id) {
		pkghttp.WriteBadRequest(w, "Invalid toy ID format")
		return
	}

	if err := h.service.DeleteToy(r.Context(), id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, "Toy not found")
			return
		}
		pkghttp.WriteInternalError(w, "Cannot process request")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]string{"toyId": id})
}

func (h *ToyHandler) AddMsg(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !isValidID(id) {
		pkghttp.WriteBadRequest(w, "Invalid toy ID format")
		return
	}

	var req AddMsgRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Message text is required")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, "Message text is required")
		return
	}

	// RequireAuth guarantees claims are present here.
	claims := auth.GetUserFromContext(r)

	msg, err := h.service.AddMessage(r.Context(), id, req.Text, *claims)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrBadRequest):
			pkghttp.WriteBadRequest(w, "Message text is required")
		case errors.Is(err, models.ErrNotFound):
			pkghttp.WriteNotFound(w, "Toy not found")
		default:
			pkghttp.WriteInternalError(w, "Failed to add message")
		}
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, msg)
}

func (h *ToyHandler) RemoveMsg(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	msgID := chi.URLParam(r, "msgId")

	if !isValidID(id) || !isValidID(msgID) {
		pkghttp.WriteBadRequest(w, "Invalid ID format")
		return
	}

	if err := h.service.RemoveMessage(r.Context(), id, msgID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, "Message not found")
			return
		}
		pkghttp.WriteInternalError(w, "Failed to remove message")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]string{"removedId": msgID})
}

// isValidID reports whether id is a well-formed UUID.
func isValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
