package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nivkatz/toystore/internal/models"
	pkgauth "github.com/nivkatz/toystore/pkg/auth"
)

// MockUserRepository implements UserRepository for testing
type MockUserRepository struct {
	GetByIDFunc           func(ctx context.Context, id string) (*models.User, error)
	GetByUsernameFunc     func(ctx context.Context, username string) (*models.User, error)
	ListFunc              func(ctx context.Context) ([]*models.User, error)
	CreateFunc            func(ctx context.Context, user *models.User, passwordHash string) (*models.User, error)
	UpdateFunc            func(ctx context.Context, id string, user *models.User) (*models.User, error)
	DeleteFunc            func(ctx context.Context, id string) error
	VerifyCredentialsFunc func(ctx context.Context, username, password string) (*models.User, error)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	if m.GetByUsernameFunc != nil {
		return m.GetByUsernameFunc(ctx, username)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserRepository) List(ctx context.Context) ([]*models.User, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return []*models.User{}, nil
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User, passwordHash string) (*models.User, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user, passwordHash)
	}
	return nil, models.ErrInternalServer
}

func (m *MockUserRepository) Update(ctx context.Context, id string, user *models.User) (*models.User, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, user)
	}
	return nil, models.ErrInternalServer
}

func (m *MockUserRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockUserRepository) VerifyCredentials(ctx context.Context, username, password string) (*models.User, error) {
	if m.VerifyCredentialsFunc != nil {
		return m.VerifyCredentialsFunc(ctx, username, password)
	}
	return nil, models.ErrUnauthorized
}

// MockToyRepository implements ToyRepository for testing
type MockToyRepository struct {
	ListFunc          func(ctx context.Context) ([]models.Toy, error)
	GetByIDFunc       func(ctx context.Context, id string) (*models.Toy, error)
	CreateFunc        func(ctx context.Context, toy *models.Toy) (*models.Toy, error)
	UpdateFunc        func(ctx context.Context, id string, toy *models.Toy) (*models.Toy, error)
	DeleteFunc        func(ctx context.Context, id string) error
	AppendMessageFunc func(ctx context.Context, toyID string, msg *models.ToyMsg) error
	RemoveMessageFunc func(ctx context.Context, toyID, msgID string) error
}

func (m *MockToyRepository) List(ctx context.Context) ([]models.Toy, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return []models.Toy{}, nil
}

func (m *MockToyRepository) GetByID(ctx context.Context, id string) (*models.Toy, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockToyRepository) Create(ctx context.Context, toy *models.Toy) (*models.Toy, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, toy)
	}
	return nil, models.ErrInternalServer
}

func (m *MockToyRepository) Update(ctx context.Context, id string, toy *models.Toy) (*models.Toy, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, toy)
	}
	return nil, models.ErrInternalServer
}

func (m *MockToyRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockToyRepository) AppendMessage(ctx context.Context, toyID string, msg *models.ToyMsg) error {
	if m.AppendMessageFunc != nil {
		return m.AppendMessageFunc(ctx, toyID, msg)
	}
	return nil
}

func (m *MockToyRepository) RemoveMessage(ctx context.Context, toyID, msgID string) error {
	if m.RemoveMessageFunc != nil {
		return m.RemoveMessageFunc(ctx, toyID, msgID)
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

// memoryCredentialStore is an in-memory CredentialStore doing real bcrypt
// work, for exercising the signup/login flow end to end.
type memoryCredentialStore struct {
	mu     sync.Mutex
	users  map[string]*models.User
	hashes map[string]string
}

func newMemoryCredentialStore() *memoryCredentialStore {
	return &memoryCredentialStore{
		users:  make(map[string]*models.User),
		hashes: make(map[string]string),
	}
}

func (s *memoryCredentialStore) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[username]
	if !ok {
		return nil, models.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (s *memoryCredentialStore) Create(ctx context.Context, user *models.User, passwordHash string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.Username]; ok {
		return nil, models.ErrConflict
	}

	user.ID = uuid.New().String()
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	copied := *user
	s.users[user.Username] = &copied
	s.hashes[user.Username] = passwordHash

	return user, nil
}

func (s *memoryCredentialStore) VerifyCredentials(ctx context.Context, username, password string) (*models.User, error) {
	s.mu.Lock()
	user, ok := s.users[username]
	hash := s.hashes[username]
	s.mu.Unlock()

	if !ok {
		pkgauth.BurnCompare(password)
		return nil, models.ErrUnauthorized
	}

	if err := pkgauth.ComparePassword(hash, password); err != nil {
		return nil, models.ErrUnauthorized
	}

	copied := *user
	return &copied, nil
}
