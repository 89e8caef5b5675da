package tests

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	httpadapter "github.com/vijaynvb/fullstackapp/internal/adapter/http"
	"github.com/vijaynvb/fullstackapp/internal/adapter/http/handlers"
	"github.com/vijaynvb/fullstackapp/internal/adapter/http/middleware"
	"github.com/vijaynvb/fullstackapp/internal/core/domain"
	"github.com/vijaynvb/fullstackapp/pkg/apierrors"
	"github.com/vijaynvb/fullstackapp/pkg/translator"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const validToken = "valid-token"

var (
	createdAt = time.Date(2026, 2, 13, 10, 20, 30, 0, time.UTC)
	updatedAt = time.Date(2026, 2, 13, 11, 20, 30, 0, time.UTC)

	alice = domain.User{
		ID: "u-alice", Username: "alice", Email: "alice@example.com", FirstName: "Alice", LastName: "Martin",
		Role: domain.RoleUser, Active: true, PasswordHash: "secret-hash", CreatedAt: createdAt, UpdatedAt: updatedAt,
	}
	admin = domain.User{
		ID: "u-admin", Username: "admin", Email: "admin@example.com", FirstName: "Ada", LastName: "Min",
		Role: domain.RoleAdmin, Active: true, CreatedAt: createdAt, UpdatedAt: updatedAt,
	}
)

type harness struct {
	router   *gin.Engine
	tasks    *taskServiceMock
	comments *commentServiceMock
	auth     *authServiceMock
	users    *userServiceMock
	dbPing   error
}

// newHarness wires the real routes and middleware around service mocks. Requests sent
// with validToken authenticate as caller.
func newHarness(t *testing.T, caller domain.User) *harness {
	t.Helper()

	h := &harness{
		tasks:    new(taskServiceMock),
		comments: new(commentServiceMock),
		auth:     new(authServiceMock),
		users:    new(userServiceMock),
	}
	h.auth.On("Validate", mock.Anything, validToken).Return(caller, nil).Maybe()
	h.auth.On("Validate", mock.Anything, mock.Anything).Return(domain.User{}, domain.ErrUnauthenticated).Maybe()

	health := handlers.NewHealthHandler("database", handlers.PingFunc(func(context.Context) error { return h.dbPing }))
	h.router = gin.New()
	httpadapter.RegisterRoutes(h.router, httpadapter.Handlers{
		Health:   health,
		Auth:     handlers.NewAuthHandler(h.auth),
		Users:    handlers.NewUserHandler(h.users),
		Tasks:    handlers.NewTaskHandler(h.tasks, 25, 100),
		Comments: handlers.NewCommentHandler(h.comments),
	}, h.auth)

	t.Cleanup(func() {
		h.tasks.AssertExpectations(t)
		h.comments.AssertExpectations(t)
		h.users.AssertExpectations(t)
	})
	return h
}

type requestOption func(*http.Request)

func withLang(lang string) requestOption {
	return func(r *http.Request) { r.Header.Set("Accept-Language", lang) }
}

func withIdentity(token, userID string) requestOption {
	return func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
		r.Header.Set(middleware.HeaderUserID, userID)
	}
}

func anonymous() requestOption {
	return func(r *http.Request) {
		r.Header.Del("Authorization")
		r.Header.Del(middleware.HeaderUserID)
	}
}

// do sends an authenticated request as the harness caller unless options override it.
func (h *harness) do(method, path, body string, callerID string, opts ...requestOption) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept-Language", translator.LanguageEn)
	withIdentity(validToken, callerID)(req)
	for _, opt := range opts {
		opt(req)
	}

	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	return rec
}

func decodeJSON[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var got T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got), rec.Body.String())
	return got
}

func requireAPIError(t *testing.T, rec *httptest.ResponseRecorder, status int, kind apierrors.Kind, message string) apierrors.JsonErr {
	t.Helper()

	require.Equal(t, status, rec.Code, rec.Body.String())
	got := decodeJSON[apierrors.JsonErr](t, rec)
	require.Equal(t, kind, got.ErrorKind)
	require.Equal(t, message, got.Message)
	require.NotEmpty(t, got.Timestamp)
	return got
}

var errDatabaseDown = errors.New("db is down")
