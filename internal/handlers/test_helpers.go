package handlers

import (
	"context"
	"time"

	"github.com/nivkatz/toystore/internal/models"
	"github.com/nivkatz/toystore/internal/query"
)

// MockAuthService implements AuthServiceInterface for testing
type MockAuthService struct {
	LoginFunc                func(ctx context.Context, username, password string) (*models.User, error)
	SignupFunc               func(ctx context.Context, username, password, fullname string) (*models.User, error)
	IssueSessionTokenFunc    func(user *models.User) (string, error)
	ValidateSessionTokenFunc func(token string) *models.TokenClaims
}

func (m *MockAuthService) Login(ctx context.Context, username, password string) (*models.User, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, username, password)
	}
	return nil, models.ErrUnauthorized
}

func (m *MockAuthService) Signup(ctx context.Context, username, password, fullname string) (*models.User, error) {
	if m.SignupFunc != nil {
		return m.SignupFunc(ctx, username, password, fullname)
	}
	return nil, models.ErrInternalServer
}

func (m *MockAuthService) IssueSessionToken(user *models.User) (string, error) {
	if m.IssueSessionTokenFunc != nil {
		return m.IssueSessionTokenFunc(user)
	}
	return "test-token", nil
}

func (m *MockAuthService) ValidateSessionToken(token string) *models.TokenClaims {
	if m.ValidateSessionTokenFunc != nil {
		return m.ValidateSessionTokenFunc(token)
	}
	return nil
}

// MockToyService implements ToyServiceInterface for testing
type MockToyService struct {
	QueryFunc         func(ctx context.Context, spec query.Spec) ([]models.Toy, error)
	GetToyByIDFunc    func(ctx context.Context, id string) (*models.Toy, error)
	CreateToyFunc     func(ctx context.Context, toy *models.Toy) (*models.Toy, error)
	UpdateToyFunc     func(ctx context.Context, id string, toy *models.Toy) (*models.Toy, error)
	DeleteToyFunc     func(ctx context.Context, id string) error
	AddMessageFunc    func(ctx context.Context, toyID, text string, author models.TokenClaims) (*models.ToyMsg, error)
	RemoveMessageFunc func(ctx context.Context, toyID, msgID string) error
}

func (m *MockToyService) Query(ctx context.Context, spec query.Spec) ([]models.Toy, error) {
	if m.QueryFunc != nil {
		return m.QueryFunc(ctx, spec)
	}
	return []models.Toy{}, nil
}

func (m *MockToyService) GetToyByID(ctx context.Context, id string) (*models.Toy, error) {
	if m.GetToyByIDFunc != nil {
		return m.GetToyByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockToyService) CreateToy(ctx context.Context, toy *models.Toy) (*models.Toy, error) {
	if m.CreateToyFunc != nil {
		return m.CreateToyFunc(ctx, toy)
	}
	return nil, models.ErrInternalServer
}

func (m *MockToyService) UpdateToy(ctx context.Context, id string, toy *models.Toy) (*models.Toy, error) {
	if m.UpdateToyFunc != nil {
		return m.UpdateToyFunc(ctx, id, toy)
	}
	return nil, models.ErrInternalServer
}

func (m *MockToyService) DeleteToy(ctx context.Context, id string) error {
	if m.DeleteToyFunc != nil {
		return m.DeleteToyFunc(ctx, id)
	}
	return nil
}

func (m *MockToyService) AddMessage(ctx context.Context, toyID, text string, author models.TokenClaims) (*models.ToyMsg, error) {
	if m.AddMessageFunc != nil {
		return m.AddMessageFunc(ctx, toyID, text, author)
	}
	return nil, models.ErrInternalServer
}

func (m *MockToyService) RemoveMessage(ctx context.Context, toyID, msgID string) error {
	if m.RemoveMessageFunc != nil {
		return m.RemoveMessageFunc(ctx, toyID, msgID)
	}
	return nil
}

// MockUserService implements UserServiceInterface for testing
type MockUserService struct {
	GetUserByIDFunc func(ctx context.Context, id string) (*models.User, error)
	ListUsersFunc   func(ctx context.Context) ([]*models.User, error)
	UpdateUserFunc  func(ctx context.Context, id string, user *models.User) (*models.User, error)
	DeleteUserFunc  func(ctx context.Context, id string) error
}

func (m *MockUserService) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	if m.GetUserByIDFunc != nil {
		return m.GetUserByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserService) ListUsers(ctx context.Context) ([]*models.User, error) {
	if m.ListUsersFunc != nil {
		return m.ListUsersFunc(ctx)
	}
	return []*models.User{}, nil
}

func (m *MockUserService) UpdateUser(ctx context.Context, id string, user *models.User) (*models.User, error) {
	if m.UpdateUserFunc != nil {
		return m.UpdateUserFunc(ctx, id, user)
	}
	return nil, models.ErrInternalServer
}

func (m *MockUserService) DeleteUser(ctx context.Context, id string) error {
	if m.DeleteUserFunc != nil {
		return m.DeleteUserFunc(ctx, id)
	}
	return nil
}

// NewTestUser creates a user model for testing
func NewTestUser(id, username, fullname string) *models.User {
	now := time.Now()
	return &models.User{
		ID:        id,
		Username:  username,
		Fullname:  fullname,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewTestToy creates a toy model for testing
func NewTestToy(id, name string, price float64) *models.Toy {
	now := time.Now()
	return &models.Toy{
		ID:        id,
		Name:      name,
		Price:     price,
		InStock:   true,
		Labels:    []string{},
		Messages:  []models.ToyMsg{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}
