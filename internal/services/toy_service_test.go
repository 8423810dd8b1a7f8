package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nivkatz/toystore/internal/models"
	"github.com/nivkatz/toystore/internal/query"
)

func TestToyService_Query(t *testing.T) {
	ctx := context.Background()

	snapshot := []models.Toy{
		{ID: "t1", Name: "Robot", Price: 30, InStock: true, Labels: []string{"Battery Powered"}},
		{ID: "t2", Name: "Doll", Price: 10, InStock: false},
		{ID: "t3", Name: "Ball", Price: 5, InStock: true},
		{ID: "t4", Name: "Puzzle", Price: 15, InStock: true},
	}

	repo := &MockToyRepository{
		ListFunc: func(ctx context.Context) ([]models.Toy, error) {
			return snapshot, nil
		},
	}
	service := NewToyService(repo, testLogger())

	t.Run("applies filter sort and page over snapshot", func(t *testing.T) {
		inStock := true
		spec := query.Spec{
			Filter: query.Filter{InStock: &inStock, MinPrice: 0, MaxPrice: 20},
			Sort:   query.Sort{Field: query.FieldPrice, Dir: query.SortAsc},
			Page:   query.Page{Index: 0, Size: 3},
		}

		toys, err := service.Query(ctx, spec)

		require.NoError(t, err)
		require.Len(t, toys, 2)
		assert.Equal(t, "Ball", toys[0].Name)
		assert.Equal(t, "Puzzle", toys[1].Name)
	})

	t.Run("repo failure maps to internal error", func(t *testing.T) {
		failing := &MockToyRepository{
			ListFunc: func(ctx context.Context) ([]models.Toy, error) {
				return nil, models.ErrInternalServer
			},
		}
		service := NewToyService(failing, testLogger())

		_, err := service.Query(ctx, query.Spec{Page: query.Page{Size: query.DefaultPageSize}})

		assert.ErrorIs(t, err, models.ErrInternalServer)
	})
}

func TestToyService_CreateToy(t *testing.T) {
	ctx := context.Background()

	t.Run("valid toy", func(t *testing.T) {
		repo := &MockToyRepository{
			CreateFunc: func(ctx context.Context, toy *models.Toy) (*models.Toy, error) {
				toy.ID = "created-1"
				return toy, nil
			},
		}
		service := NewToyService(repo, testLogger())

		created, err := service.CreateToy(ctx, &models.Toy{Name: "Kite", Price: 8, InStock: true})

		require.NoError(t, err)
		assert.Equal(t, "created-1", created.ID)
		assert.Equal(t, "Kite", created.Name)
	})

	t.Run("trims the name before validating", func(t *testing.T) {
		repo := &MockToyRepository{
			CreateFunc: func(ctx context.Context, toy *models.Toy) (*models.Toy, error) {
				assert.Equal(t, "Kite", toy.Name)
				return toy, nil
			},
		}
		service := NewToyService(repo, testLogger())

		_, err := service.CreateToy(ctx, &models.Toy{Name: "  Kite  ", Price: 8})

		require.NoError(t, err)
	})

	t.Run("blank name rejected", func(t *testing.T) {
		service := NewToyService(&MockToyRepository{}, testLogger())

		_, err := service.CreateToy(ctx, &models.Toy{Name: "   ", Price: 8})

		assert.ErrorIs(t, err, models.ErrBadRequest)
	})

	t.Run("negative price rejected", func(t *testing.T) {
		service := NewToyService(&MockToyRepository{}, testLogger())

		_, err := service.CreateToy(ctx, &models.Toy{Name: "Kite", Price: -1})

		assert.ErrorIs(t, err, models.ErrBadRequest)
	})
}

func TestToyService_UpdateToy(t *testing.T) {
	ctx := context.Background()

	t.Run("missing toy", func(t *testing.T) {
		repo := &MockToyRepository{
			UpdateFunc: func(ctx context.Context, id string, toy *models.Toy) (*models.Toy, error) {
				return nil, models.ErrNotFound
			},
		}
		service := NewToyService(repo, testLogger())

		_, err := service.UpdateToy(ctx, "missing", &models.Toy{Name: "Kite", Price: 8})

		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("invalid payload rejected before the store is hit", func(t *testing.T) {
		repo := &MockToyRepository{
			UpdateFunc: func(ctx context.Context, id string, toy *models.Toy) (*models.Toy, error) {
				t.Fatal("update should not reach the repository")
				return nil, nil
			},
		}
		service := NewToyService(repo, testLogger())

		_, err := service.UpdateToy(ctx, "t1", &models.Toy{Name: "", Price: 8})

		assert.ErrorIs(t, err, models.ErrBadRequest)
	})
}

func TestToyService_DeleteToy(t *testing.T) {
	ctx := context.Background()

	t.Run("missing toy", func(t *testing.T) {
		repo := &MockToyRepository{
			DeleteFunc: func(ctx context.Context, id string) error {
				return models.ErrNotFound
			},
		}
		service := NewToyService(repo, testLogger())

		assert.ErrorIs(t, service.DeleteToy(ctx, "missing"), models.ErrNotFound)
	})

	t.Run("existing toy", func(t *testing.T) {
		repo := &MockToyRepository{
			DeleteFunc: func(ctx context.Context, id string) error {
				assert.Equal(t, "t1", id)
				return nil
			},
		}
		service := NewToyService(repo, testLogger())

		assert.NoError(t, service.DeleteToy(ctx, "t1"))
	})
}

func TestToyService_AddMessage(t *testing.T) {
	ctx := context.Background()
	author := models.TokenClaims{ID: "user-1", Fullname: "Alice A", IsAdmin: false}

	t.Run("assigns id author and timestamp", func(t *testing.T) {
		var appended *models.ToyMsg
		repo := &MockToyRepository{
			AppendMessageFunc: func(ctx context.Context, toyID string, msg *models.ToyMsg) error {
				assert.Equal(t, "t1", toyID)
				appended = msg
				return nil
			},
		}
		service := NewToyService(repo, testLogger())

		before := time.Now()
		msg, err := service.AddMessage(ctx, "t1", "  great toy  ", author)

		require.NoError(t, err)
		require.NotNil(t, appended)
		assert.Equal(t, appended.ID, msg.ID)
		assert.NotEmpty(t, msg.ID)
		assert.Equal(t, "great toy", msg.Text)
		assert.Equal(t, author, msg.AuthorBy)
		assert.False(t, msg.CreatedAt.Before(before))
	})

	t.Run("empty text rejected", func(t *testing.T) {
		service := NewToyService(&MockToyRepository{}, testLogger())

		_, err := service.AddMessage(ctx, "t1", "   ", author)

		assert.ErrorIs(t, err, models.ErrBadRequest)
	})

	t.Run("missing toy", func(t *testing.T) {
		repo := &MockToyRepository{
			AppendMessageFunc: func(ctx context.Context, toyID string, msg *models.ToyMsg) error {
				return models.ErrNotFound
			},
		}
		service := NewToyService(repo, testLogger())

		_, err := service.AddMessage(ctx, "missing", "hello", author)

		assert.ErrorIs(t, err, models.ErrNotFound)
	})
}

func TestToyService_RemoveMessage(t *testing.T) {
	ctx := context.Background()

	t.Run("missing message", func(t *testing.T) {
		repo := &MockToyRepository{
			RemoveMessageFunc: func(ctx context.Context, toyID, msgID string) error {
				return models.ErrNotFound
			},
		}
		service := NewToyService(repo, testLogger())

		assert.ErrorIs(t, service.RemoveMessage(ctx, "t1", "missing"), models.ErrNotFound)
	})

	t.Run("existing message", func(t *testing.T) {
		repo := &MockToyRepository{
			RemoveMessageFunc: func(ctx context.Context, toyID, msgID string) error {
				assert.Equal(t, "t1", toyID)
				assert.Equal(t, "m1", msgID)
				return nil
			},
		}
		service := NewToyService(repo, testLogger())

		assert.NoError(t, service.RemoveMessage(ctx, "t1", "m1"))
	})
}
