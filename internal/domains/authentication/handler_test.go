package authentication_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"modulith/internal/api"
	"modulith/internal/domains/authentication"
	"modulith/internal/registry"
	"modulith/pkg/auth"
	"modulith/pkg/logger"
	"modulith/pkg/storage/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.Setup(logger.DevelopmentEnvironment)
	m.Run()
}

// newTestMux mounts the authentication domain behind the bearer-auth
// middleware, the way the API server does at startup.
func newTestMux(t *testing.T) *http.ServeMux {
	t.Helper()

	tokens, err := auth.NewTokenManager(auth.TokenManagerOptions{
		Secret:     "test-secret",
		Issuer:     "modulith-test",
		AccessTTL:  time.Minute,
		RefreshTTL: time.Hour,
	})
	require.NoError(t, err)

	svc := authentication.New(memory.New(), authentication.Options{TokenManager: tokens})

	mux := http.NewServeMux()
	router := registry.NewRouter(mux, api.WithBearerAuth(tokens))
	authentication.NewDomain(svc).MountRoutes(router)

	return mux
}

func doJSON(t *testing.T, mux *http.ServeMux, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	return rec
}

func TestHandler_Register(t *testing.T) {
	t.Parallel()

	mux := newTestMux(t)

	rec := doJSON(t, mux, http.MethodPost, "/v1/auth/register", "",
		`{"username":"alice","email":"alice@example.com","password":"secret-password"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var user authentication.UserResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
	assert.Equal(t, "alice", user.Username)
	assert.False(t, user.ID.IsZero())

	// duplicate registration conflicts
	rec = doJSON(t, mux, http.MethodPost, "/v1/auth/register", "",
		`{"username":"alice","email":"alice@example.com","password":"secret-password"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	// malformed body
	rec = doJSON(t, mux, http.MethodPost, "/v1/auth/register", "", `{"username":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_LoginAndMe(t *testing.T) {
	t.Parallel()

	mux := newTestMux(t)

	rec := doJSON(t, mux, http.MethodPost, "/v1/auth/register", "",
		`{"username":"alice","email":"alice@example.com","password":"secret-password"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, mux, http.MethodPost, "/v1/auth/login", "",
		`{"login":"alice","password":"secret-password"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var pair authentication.TokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pair))
	assert.Equal(t, "bearer", pair.TokenType)
	require.NotEmpty(t, pair.AccessToken)

	// protected routes reject missing and garbage tokens
	rec = doJSON(t, mux, http.MethodGet, "/v1/users/me", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, mux, http.MethodGet, "/v1/users/me", "garbage", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// refresh tokens are not accepted as access tokens
	rec = doJSON(t, mux, http.MethodGet, "/v1/users/me", pair.RefreshToken, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, mux, http.MethodGet, "/v1/users/me", pair.AccessToken, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var me authentication.UserResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &me))
	assert.Equal(t, "alice", me.Username)
}

func TestHandler_Users(t *testing.T) {
	t.Parallel()

	mux := newTestMux(t)

	rec := doJSON(t, mux, http.MethodPost, "/v1/auth/register", "",
		`{"username":"alice","email":"alice@example.com","password":"secret-password"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var alice authentication.UserResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &alice))

	rec = doJSON(t, mux, http.MethodPost, "/v1/auth/login", "",
		`{"login":"alice","password":"secret-password"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var pair authentication.TokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pair))
	token := pair.AccessToken

	rec = doJSON(t, mux, http.MethodGet, "/v1/users", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list authentication.UserListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list.Items, 1)

	rec = doJSON(t, mux, http.MethodGet, "/v1/users?limit=0", token, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, mux, http.MethodGet, "/v1/users/not-a-uuid", token, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, mux, http.MethodGet, "/v1/users/"+alice.ID.String(), token, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, mux, http.MethodDelete, "/v1/users/"+alice.ID.String(), token, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, mux, http.MethodGet, "/v1/users/"+alice.ID.String(), token, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
