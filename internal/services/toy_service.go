package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nivkatz/toystore/internal/models"
	"github.com/nivkatz/toystore/internal/query"
)

// ToyRepository defines the interface for toy data access
type ToyRepository interface {
	List(ctx context.Context) ([]models.Toy, error)
	GetByID(ctx context.Context, id string) (*models.Toy, error)
	Create(ctx context.Context, toy *models.Toy) (*models.Toy, error)
	Update(ctx context.Context, id string, toy *models.Toy) (*models.Toy, error)
	Delete(ctx context.Context, id string) error
	AppendMessage(ctx context.Context, toyID string, msg *models.ToyMsg) error
	RemoveMessage(ctx context.Context, toyID, msgID string) error
}

// ToyService handles catalog business logic. Queries run the pure engine
// over a repository snapshot; mutations delegate atomicity to the store.
type ToyService struct {
	repo   ToyRepository
	logger *slog.Logger
}

func NewToyService(repo ToyRepository, logger *slog.Logger) *ToyService {
	return &ToyService{
		repo:   repo,
		logger: logger,
	}
}

// Query returns one bounded page of the catalog for the given spec.
func (s *ToyService) Query(ctx context.Context, spec query.Spec) ([]models.Toy, error) {
	snapshot, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("failed to load toy snapshot", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	return query.Apply(snapshot, spec), nil
}

func (s *ToyService) GetToyByID(ctx context.Context, id string) (*models.Toy, error) {
	toy, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.logger.Info("toy not found", slog.String("toy_id", id))
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to get toy", slog.String("toy_id", id), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	return toy, nil
}

// CreateToy validates and persists a new toy. The id, timestamps and empty
// label/message sequences are assigned here, not by the caller.
func (s *ToyService) CreateToy(ctx context.Context, toy *models.Toy) (*models.Toy, error) {
	toy.Name = strings.TrimSpace(toy.Name)
	if toy.Name == "" || toy.Price < 0 {
		return nil, models.ErrBadRequest
	}

	created, err := s.repo.Create(ctx, toy)
	if err != nil {
		s.logger.Error("failed to create toy", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("toy created", slog.String("toy_id", created.ID))
	return created, nil
}

// UpdateToy replaces the mutable fields of an existing toy. CreatedAt and
// the message sequence are preserved.
func (s *ToyService) UpdateToy(ctx context.Context, id string, toy *models.Toy) (*models.Toy, error) {
	toy.Name = strings.TrimSpace(toy.Name)
	if toy.Name == "" || toy.Price < 0 {
		return nil, models.ErrBadRequest
	}

	updated, err := s.repo.Update(ctx, id, toy)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.logger.Info("toy not found", slog.String("toy_id", id))
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to update toy", slog.String("toy_id", id), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("toy updated", slog.String("toy_id", id))
	return updated, nil
}

func (s *ToyService) DeleteToy(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.logger.Info("toy not found", slog.String("toy_id", id))
			return models.ErrNotFound
		}
		s.logger.Error("failed to delete toy", slog.String("toy_id", id), slog.Any("error", err))
		return models.ErrInternalServer
	}

	s.logger.Info("toy deleted", slog.String("toy_id", id))
	return nil
}

// AddMessage appends a discussion message authored by the given claims.
func (s *ToyService) AddMessage(ctx context.Context, toyID, text string, author models.TokenClaims) (*models.ToyMsg, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, models.ErrBadRequest
	}

	msg := &models.ToyMsg{
		ID:        uuid.New().String(),
		Text:      text,
		AuthorBy:  author,
		CreatedAt: time.Now(),
	}

	if err := s.repo.AppendMessage(ctx, toyID, msg); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.logger.Info("toy not found for message", slog.String("toy_id", toyID))
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to add message", slog.String("toy_id", toyID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("message added", slog.String("toy_id", toyID), slog.String("msg_id", msg.ID))
	return msg, nil
}

func (s *ToyService) RemoveMessage(ctx context.Context, toyID, msgID string) error {
	if err := s.repo.RemoveMessage(ctx, toyID, msgID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.logger.Info("message not found", slog.String("toy_id", toyID), slog.String("msg_id", msgID))
			return models.ErrNotFound
		}
		s.logger.Error("failed to remove message", slog.String("toy_id", toyID), slog.Any("error", err))
		return models.ErrInternalServer
	}

	s.logger.Info("message removed", slog.String("toy_id", toyID), slog.String("msg_id", msgID))
	return nil
}
