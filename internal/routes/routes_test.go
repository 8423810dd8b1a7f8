package routes

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nivkatz/toystore/internal/auth"
	"github.com/nivkatz/toystore/internal/handlers"
	"github.com/nivkatz/toystore/internal/models"
	"github.com/nivkatz/toystore/internal/query"
	"github.com/nivkatz/toystore/internal/services"
)

const routesToyID = "3f9b2c41-88a1-4a2f-9c41-1b2a3c4d5e6f"

// toyServiceStub satisfies the catalog interface with fixed happy-path
// responses; these tests exercise the route guards, not the service.
type toyServiceStub struct{}

func (toyServiceStub) Query(ctx context.Context, spec query.Spec) ([]models.Toy, error) {
	return []models.Toy{}, nil
}

func (toyServiceStub) GetToyByID(ctx context.Context, id string) (*models.Toy, error) {
	return &models.Toy{ID: id, Name: "Robot"}, nil
}

func (toyServiceStub) CreateToy(ctx context.Context, toy *models.Toy) (*models.Toy, error) {
	toy.ID = routesToyID
	return toy, nil
}

func (toyServiceStub) UpdateToy(ctx context.Context, id string, toy *models.Toy) (*models.Toy, error) {
	toy.ID = id
	return toy, nil
}

func (toyServiceStub) DeleteToy(ctx context.Context, id string) error { return nil }

func (toyServiceStub) AddMessage(ctx context.Context, toyID, text string, author models.TokenClaims) (*models.ToyMsg, error) {
	return &models.ToyMsg{ID: "m1", Text: text, AuthorBy: author}, nil
}

func (toyServiceStub) RemoveMessage(ctx context.Context, toyID, msgID string) error { return nil }

type userServiceStub struct{}

func (userServiceStub) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return &models.User{ID: id, Username: "alice"}, nil
}

func (userServiceStub) ListUsers(ctx context.Context) ([]*models.User, error) {
	return []*models.User{}, nil
}

func (userServiceStub) UpdateUser(ctx context.Context, id string, user *models.User) (*models.User, error) {
	return &models.User{ID: id}, nil
}

func (userServiceStub) DeleteUser(ctx context.Context, id string) error { return nil }

// testServer wires the full route tree with a real token codec, so the
// session cookie path from issue to guard is exercised end to end.
type testServer struct {
	router *chi.Mux
	auth   *services.AuthService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	codec, err := auth.NewTokenCodec("route-test-secret-0123456789abcdef")
	require.NoError(t, err)

	authService := services.NewAuthService(nil, codec, logger)
	cookieConfig := auth.CookieConfig{MaxAge: time.Hour}

	router := chi.NewRouter()
	RegisterRoutes(
		router,
		handlers.NewAuthHandler(authService, cookieConfig),
		handlers.NewToyHandler(toyServiceStub{}),
		handlers.NewUserHandler(userServiceStub{}),
		authService,
	)

	return &testServer{router: router, auth: authService}
}

func (s *testServer) request(t *testing.T, method, target, body string, claims *models.TokenClaims) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, target, reader)

	if claims != nil {
		token, err := s.auth.IssueSessionToken(&models.User{
			ID:       claims.ID,
			Fullname: claims.Fullname,
			IsAdmin:  claims.IsAdmin,
		})
		require.NoError(t, err)
		req.AddCookie(&http.Cookie{Name: auth.LoginTokenCookie, Value: token})
	}

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

var (
	memberClaims = &models.TokenClaims{ID: "user-1", Fullname: "Alice A"}
	adminClaims  = &models.TokenClaims{ID: "admin-1", Fullname: "Admin", IsAdmin: true}
)

func TestRoutes_PublicCatalogReads(t *testing.T) {
	server := newTestServer(t)

	rec := server.request(t, http.MethodGet, "/api/toy", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = server.request(t, http.MethodGet, "/api/toy/"+routesToyID, "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRoutes_CatalogWriteRequiresSession(t *testing.T) {
	server := newTestServer(t)
	body := `{"name":"Kite","price":8,"inStock":true}`

	t.Run("anonymous create is rejected", func(t *testing.T) {
		rec := server.request(t, http.MethodPost, "/api/toy", body, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("tampered cookie is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/toy", strings.NewReader(body))
		req.AddCookie(&http.Cookie{Name: auth.LoginTokenCookie, Value: "tampered"})
		rec := httptest.NewRecorder()

		server.router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("member create succeeds", func(t *testing.T) {
		rec := server.request(t, http.MethodPost, "/api/toy", body, memberClaims)
		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("member update succeeds", func(t *testing.T) {
		rec := server.request(t, http.MethodPut, "/api/toy/"+routesToyID, body, memberClaims)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("member can post a message", func(t *testing.T) {
		rec := server.request(t, http.MethodPost, "/api/toy/"+routesToyID+"/msg", `{"text":"nice"}`, memberClaims)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestRoutes_AdminOnlyMutations(t *testing.T) {
	server := newTestServer(t)
	msgPath := "/api/toy/" + routesToyID + "/msg/7a1b2c3d-4e5f-6071-8293-a4b5c6d7e8f9"

	t.Run("anonymous delete gets 401 not 403", func(t *testing.T) {
		rec := server.request(t, http.MethodDelete, "/api/toy/"+routesToyID, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("member delete gets 403", func(t *testing.T) {
		rec := server.request(t, http.MethodDelete, "/api/toy/"+routesToyID, "", memberClaims)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("admin delete succeeds", func(t *testing.T) {
		rec := server.request(t, http.MethodDelete, "/api/toy/"+routesToyID, "", adminClaims)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("member message removal gets 403", func(t *testing.T) {
		rec := server.request(t, http.MethodDelete, msgPath, "", memberClaims)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("admin message removal succeeds", func(t *testing.T) {
		rec := server.request(t, http.MethodDelete, msgPath, "", adminClaims)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestRoutes_UserGuards(t *testing.T) {
	server := newTestServer(t)
	userPath := "/api/user/c1a2b3d4-e5f6-4789-a0b1-c2d3e4f5a6b7"

	t.Run("anonymous update is rejected", func(t *testing.T) {
		rec := server.request(t, http.MethodPut, userPath, `{"fullname":"New Name"}`, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("member update succeeds", func(t *testing.T) {
		rec := server.request(t, http.MethodPut, userPath, `{"fullname":"New Name"}`, memberClaims)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("member delete gets 403", func(t *testing.T) {
		rec := server.request(t, http.MethodDelete, userPath, "", memberClaims)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("admin delete succeeds", func(t *testing.T) {
		rec := server.request(t, http.MethodDelete, userPath, "", adminClaims)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestRoutes_Logout(t *testing.T) {
	server := newTestServer(t)

	rec := server.request(t, http.MethodPost, "/api/auth/logout", "", memberClaims)

	assert.Equal(t, http.StatusOK, rec.Code)

	var cleared bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.LoginTokenCookie && c.MaxAge < 0 {
			cleared = true
		}
	}
	assert.True(t, cleared)
}
