// AngelaMos | 2026
// handler_test.go

package user

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/tournament-backend/internal/auth"
	"github.com/carterperez-dev/tournament-backend/internal/config"
	"github.com/carterperez-dev/tournament-backend/internal/middleware"
)

type profileFixture struct {
	router http.Handler
	svc    *Service
	jwt    *auth.JWTManager
}

func newProfileFixture(t *testing.T) *profileFixture {
	t.Helper()

	jwt, err := auth.NewJWTManager(config.JWTConfig{
		AccessTokenSecret:  "access-secret-for-tests-0123456789abcdef",
		RefreshTokenSecret: "refresh-secret-for-tests-0123456789abcdef",
		AccessTokenExpire:  time.Minute,
		RefreshTokenExpire: time.Hour,
		Issuer:             "tournament-api",
		Audience:           "tournament-api",
	})
	require.NoError(t, err)

	svc := NewService(newMemoryRepository(), 8)

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		NewHandler(svc).RegisterRoutes(r, middleware.Authenticator(jwt))
	})

	return &profileFixture{router: r, svc: svc, jwt: jwt}
}

func (f *profileFixture) tokenFor(t *testing.T, id int64, role string) string {
	t.Helper()

	token, err := f.jwt.CreateAccessToken(auth.Claims{
		UserID: id,
		Mail:   fmt.Sprintf("user%d@example.com", id),
		Role:   role,
	})
	require.NoError(t, err)
	return token
}

func (f *profileFixture) do(
	t *testing.T,
	method, path string,
	body any,
	token string,
) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestListAndGetProfiles(t *testing.T) {
	f := newProfileFixture(t)
	seedUser(t, f.svc, "ada@example.com")

	rec := f.do(t, http.MethodGet, "/api/profiles", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var list []UserResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.NotContains(t, rec.Body.String(), "password")

	rec = f.do(t, http.MethodGet, "/api/profiles/ada@example.com", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/profiles/nobody@example.com", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEditProfileOwnership(t *testing.T) {
	f := newProfileFixture(t)
	ada := seedUser(t, f.svc, "ada@example.com")
	path := fmt.Sprintf("/api/profiles/%d/edit", ada.ID)
	body := map[string]any{"nickname": "countess"}

	rec := f.do(t, http.MethodPatch, path, body, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.do(t, http.MethodPatch, path, body, f.tokenFor(t, ada.ID+10, ""))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = f.do(t, http.MethodPatch, path, body, f.tokenFor(t, ada.ID, ""))
	require.Equal(t, http.StatusOK, rec.Code)

	var updated UserResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, "countess", updated.Nickname)
	assert.Equal(t, "Ada", updated.Firstname)

	rec = f.do(t, http.MethodPatch, "/api/profiles/abc/edit", body, f.tokenFor(t, ada.ID, ""))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEditPasswordValidatesLength(t *testing.T) {
	f := newProfileFixture(t)
	ada := seedUser(t, f.svc, "ada@example.com")
	path := fmt.Sprintf("/api/profiles/%d/edit-pwd", ada.ID)
	token := f.tokenFor(t, ada.ID, "")

	rec := f.do(t, http.MethodPatch, path, map[string]string{"password": "short"}, token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "at least 8 characters")

	rec = f.do(t, http.MethodPatch, path, map[string]string{"password": "long-enough-now"}, token)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHonorPointEndpoints(t *testing.T) {
	f := newProfileFixture(t)
	ada := seedUser(t, f.svc, "ada@example.com")
	path := fmt.Sprintf("/api/profiles/%d/honor-point", ada.ID)
	token := f.tokenFor(t, ada.ID+1, "")

	rec := f.do(t, http.MethodPost, path, nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var resp HonorPointResponse
	for _, want := range []int{-1, -2} {
		rec = f.do(t, http.MethodDelete, path, nil, token)
		require.Equal(t, http.StatusOK, rec.Code)
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, want, resp.HonorPoint)
	}

	rec = f.do(t, http.MethodPost, path, nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, -1, resp.HonorPoint)
	assert.Equal(t, ada.ID, resp.ID)

	rec = f.do(t, http.MethodPost, "/api/profiles/999/honor-point", nil, token)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(t, http.MethodPost, path, nil, f.tokenFor(t, ada.ID, ""))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "own honor points")
}

func TestDeleteProfileByMail(t *testing.T) {
	f := newProfileFixture(t)
	ada := seedUser(t, f.svc, "ada@example.com")
	token := f.tokenFor(t, ada.ID, "")

	rec := f.do(t, http.MethodDelete, "/api/profiles/ada@example.com/delete", nil, token)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/profiles/ada@example.com", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(t, http.MethodDelete, "/api/profiles/ada@example.com/delete", nil, token)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
