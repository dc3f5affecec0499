package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/flixhub/apiserver/internal/auth"
	"github.com/flixhub/apiserver/internal/services"
	"github.com/flixhub/apiserver/internal/store"
	"github.com/flixhub/apiserver/types"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type memoryAccountRepo struct {
	nextID int
	users  map[int]types.User
}

func newMemoryAccountRepo() *memoryAccountRepo {
	return &memoryAccountRepo{users: make(map[int]types.User)}
}

func (r *memoryAccountRepo) GetByID(ctx context.Context, id int) (types.User, error) {
	user, ok := r.users[id]
	if !ok {
		return types.User{}, store.ErrNotFound
	}
	return user, nil
}

func (r *memoryAccountRepo) GetByEmail(ctx context.Context, email string) (types.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (r *memoryAccountRepo) Create(ctx context.Context, user types.User) (types.User, error) {
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return types.User{}, store.ErrDuplicate
		}
	}
	r.nextID++
	user.ID = r.nextID
	r.users[user.ID] = user
	return user, nil
}

func (r *memoryAccountRepo) RecordLoginFailure(ctx context.Context, id, threshold int, lockUntil time.Time) (int, *time.Time, error) {
	user, ok := r.users[id]
	if !ok {
		return 0, nil, store.ErrNotFound
	}
	user.FailedLoginAttempts++
	if user.FailedLoginAttempts >= threshold {
		until := lockUntil
		user.LockedUntil = &until
	}
	r.users[id] = user
	return user.FailedLoginAttempts, user.LockedUntil, nil
}

func (r *memoryAccountRepo) ResetLoginFailures(ctx context.Context, id int) error {
	user, ok := r.users[id]
	if !ok {
		return store.ErrNotFound
	}
	user.FailedLoginAttempts = 0
	user.LockedUntil = nil
	r.users[id] = user
	return nil
}

func newAuthTestRouter() (*chi.Mux, *memoryAccountRepo) {
	repo := newMemoryAccountRepo()
	hasher := auth.NewPasswordHasher(bcrypt.MinCost, 2)
	lockout := auth.NewLockoutPolicy(5, 10*time.Minute)
	codec := auth.NewTokenCodec("test-secret", time.Hour)
	authService := services.NewAuthService(repo, hasher, lockout, codec, nil)

	router := chi.NewRouter()
	AuthRouter(router, authService, nil)
	return router, repo
}

func postJSON(t *testing.T, router http.Handler, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRegisterEndpoint(t *testing.T) {
	router, _ := newAuthTestRouter()

	rec := postJSON(t, router, "/register", RegisterRequest{
		Email:    "alice@example.com",
		Password: "Sup3rSecret",
		Name:     "Alice",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var result services.AuthResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&result))
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, "alice@example.com", result.User.Email)
	assert.Empty(t, result.User.PasswordHash, "password hash must never serialize")
}

func TestRegisterEndpoint_WeakPassword(t *testing.T) {
	router, _ := newAuthTestRouter()

	rec := postJSON(t, router, "/register", RegisterRequest{
		Email:    "alice@example.com",
		Password: "short",
		Name:     "Alice",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "password must be at least 8 characters", resp.Error)
}

func TestRegisterEndpoint_MissingFields(t *testing.T) {
	router, _ := newAuthTestRouter()

	rec := postJSON(t, router, "/register", RegisterRequest{Email: "alice@example.com"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegisterEndpoint_DuplicateEmail(t *testing.T) {
	router, _ := newAuthTestRouter()

	first := postJSON(t, router, "/register", RegisterRequest{
		Email: "alice@example.com", Password: "Sup3rSecret", Name: "Alice",
	})
	require.Equal(t, http.StatusCreated, first.Code)

	second := postJSON(t, router, "/register", RegisterRequest{
		Email: "alice@example.com", Password: "An0therPass", Name: "Imposter",
	})
	assert.Equal(t, http.StatusConflict, second.Code)
}

func TestLoginEndpoint(t *testing.T) {
	router, _ := newAuthTestRouter()

	rec := postJSON(t, router, "/register", RegisterRequest{
		Email: "alice@example.com", Password: "Sup3rSecret", Name: "Alice",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	login := postJSON(t, router, "/login", LoginRequest{
		Email: "alice@example.com", Password: "Sup3rSecret",
	})
	require.Equal(t, http.StatusOK, login.Code)

	var result services.AuthResult
	require.NoError(t, json.NewDecoder(login.Body).Decode(&result))
	assert.NotEmpty(t, result.Token)
}

func TestLoginEndpoint_SameErrorForUnknownAndWrong(t *testing.T) {
	router, _ := newAuthTestRouter()

	rec := postJSON(t, router, "/register", RegisterRequest{
		Email: "alice@example.com", Password: "Sup3rSecret", Name: "Alice",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	wrongPass := postJSON(t, router, "/login", LoginRequest{
		Email: "alice@example.com", Password: "WrongPass1",
	})
	unknown := postJSON(t, router, "/login", LoginRequest{
		Email: "nobody@example.com", Password: "WrongPass1",
	})

	assert.Equal(t, http.StatusUnauthorized, wrongPass.Code)
	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.Equal(t, unknown.Body.String(), wrongPass.Body.String())
}

func TestLoginEndpoint_Lockout(t *testing.T) {
	router, _ := newAuthTestRouter()

	rec := postJSON(t, router, "/register", RegisterRequest{
		Email: "alice@example.com", Password: "Sup3rSecret", Name: "Alice",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	for i := 0; i < 5; i++ {
		attempt := postJSON(t, router, "/login", LoginRequest{
			Email: "alice@example.com", Password: "WrongPass1",
		})
		require.Equal(t, http.StatusUnauthorized, attempt.Code, "attempt %d", i+1)
	}

	locked := postJSON(t, router, "/login", LoginRequest{
		Email: "alice@example.com", Password: "Sup3rSecret",
	})
	assert.Equal(t, http.StatusForbidden, locked.Code)
}
