package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nivkatz/toystore/internal/models"
)

// stubValidator resolves tokens from a fixed map.
type stubValidator struct {
	sessions map[string]*models.TokenClaims
}

func (s *stubValidator) ValidateSessionToken(token string) *models.TokenClaims {
	return s.sessions[token]
}

func newSessionChain(validator SessionValidator, guards ...func(http.Handler) http.Handler) http.Handler {
	var handler http.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	for i := len(guards) - 1; i >= 0; i-- {
		handler = guards[i](handler)
	}
	return WithSession(validator)(handler)
}

func requestWithToken(token string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/toy", nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: LoginTokenCookie, Value: token})
	}
	return req
}

func TestRequireAuth_NoCookie(t *testing.T) {
	handler := newSessionChain(&stubValidator{}, RequireAuth)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestWithToken(""))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuth_InvalidToken(t *testing.T) {
	handler := newSessionChain(&stubValidator{}, RequireAuth)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestWithToken("garbage"))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuth_ValidToken(t *testing.T) {
	validator := &stubValidator{sessions: map[string]*models.TokenClaims{
		"good": {ID: "u1", Fullname: "Alice A"},
	}}
	handler := newSessionChain(validator, RequireAuth)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestWithToken("good"))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAdmin_NonAdmin(t *testing.T) {
	validator := &stubValidator{sessions: map[string]*models.TokenClaims{
		"user": {ID: "u1", IsAdmin: false},
	}}
	handler := newSessionChain(validator, RequireAuth, RequireAdmin)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestWithToken("user"))

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireAdmin_Admin(t *testing.T) {
	validator := &stubValidator{sessions: map[string]*models.TokenClaims{
		"admin": {ID: "u1", IsAdmin: true},
	}}
	handler := newSessionChain(validator, RequireAuth, RequireAdmin)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestWithToken("admin"))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAuthBeforeAdmin_AnonymousGets401Not403(t *testing.T) {
	// Authentication short-circuits before authorization is evaluated.
	handler := newSessionChain(&stubValidator{}, RequireAuth, RequireAdmin)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestWithToken(""))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestWithSession_InjectsClaimsIntoContext(t *testing.T) {
	validator := &stubValidator{sessions: map[string]*models.TokenClaims{
		"good": {ID: "u1", Fullname: "Alice A", IsAdmin: true},
	}}

	var seen *models.TokenClaims
	handler := WithSession(validator)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetUserFromContext(r)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), requestWithToken("good"))

	require.NotNil(t, seen)
	assert.Equal(t, "u1", seen.ID)
	assert.True(t, seen.IsAdmin)
}
