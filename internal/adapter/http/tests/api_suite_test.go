package tests

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/vijaynvb/fullstackapp/internal/adapter/crypto"
	dbadapter "github.com/vijaynvb/fullstackapp/internal/adapter/db"
	httpadapter "github.com/vijaynvb/fullstackapp/internal/adapter/http"
	"github.com/vijaynvb/fullstackapp/internal/adapter/http/dto"
	"github.com/vijaynvb/fullstackapp/internal/adapter/http/handlers"
	"github.com/vijaynvb/fullstackapp/internal/adapter/http/middleware"
	appservice "github.com/vijaynvb/fullstackapp/internal/app/service"
	"github.com/vijaynvb/fullstackapp/internal/core/domain"
	"github.com/vijaynvb/fullstackapp/pkg/apierrors"

	"github.com/gin-gonic/gin"
)

const seedPassword = "password123"

var seedAccounts = []appservice.SeedUser{
	{Username: "admin", Email: "admin@example.com", FirstName: "Ada", LastName: "Admin", Password: seedPassword, Role: domain.RoleAdmin},
	{Username: "manager", Email: "manager@example.com", FirstName: "Max", LastName: "Manager", Password: seedPassword, Role: domain.RoleManager},
	{Username: "alice", Email: "alice@example.com", FirstName: "Alice", LastName: "Martin", Password: seedPassword, Role: domain.RoleUser},
	{Username: "bob", Email: "bob@example.com", FirstName: "Bob", LastName: "Durand", Password: seedPassword, Role: domain.RoleUser},
	{Username: "carol", Email: "carol@example.com", FirstName: "Carol", LastName: "Petit", Password: seedPassword, Role: domain.RoleUser},
}

// session is a logged-in caller: the bearer token plus the identity header value.
type session struct {
	token  string
	userID string
}

// apiSuite runs the full stack (router, services, SQL repositories) against the suite
// database, with notifications captured in memory.
type apiSuite struct {
	IntegrationSuiteBase

	router   *gin.Engine
	notifier *recordingNotifier
	policy   domain.Policy
}

func (s *apiSuite) SetupTest() {
	s.ResetDatabase()
	ctx := context.Background()

	userRepository := dbadapter.NewUserRepository(s.DB)
	taskRepository := dbadapter.NewTaskRepository(s.DB)
	historyRepository := dbadapter.NewHistoryRepository(s.DB)
	commentRepository := dbadapter.NewCommentRepository(s.DB)
	sessions := dbadapter.NewSessionRepository(s.DB)
	hasher := crypto.NewBcryptHasher(4)
	s.notifier = &recordingNotifier{}

	s.Require().NoError(appservice.SeedUsers(ctx, userRepository, hasher, seedAccounts))

	authService, err := appservice.NewAuthService(userRepository, sessions, sessions, hasher, s.notifier, appservice.AuthServiceConfig{})
	s.Require().NoError(err)
	taskService := appservice.NewTaskService(taskRepository, historyRepository, commentRepository, userRepository, s.notifier,
		appservice.TaskServiceConfig{Policy: s.policy, MaxPageSize: 50})
	commentService := appservice.NewCommentService(taskRepository, commentRepository, s.policy, nil)
	userService := appservice.NewUserService(userRepository, sessions, s.policy, nil)

	router := gin.New()
	httpadapter.RegisterRoutes(router, httpadapter.Handlers{
		Health:   handlers.NewHealthHandler("database", handlers.PingFunc(s.DB.PingContext)),
		Auth:     handlers.NewAuthHandler(authService),
		Users:    handlers.NewUserHandler(userService),
		Tasks:    handlers.NewTaskHandler(taskService, 20, 50),
		Comments: handlers.NewCommentHandler(commentService),
	}, authService)
	s.router = router
}

func (s *apiSuite) request(method, path, body string, as *session) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if as != nil {
		req.Header.Set("Authorization", "Bearer "+as.token)
		req.Header.Set(middleware.HeaderUserID, as.userID)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *apiSuite) login(username string) *session {
	return s.loginWith(username, seedPassword)
}

func (s *apiSuite) loginWith(username, password string) *session {
	rec := s.request(http.MethodPost, "/api/v1/auth/login",
		`{"type":"INTERNAL","username":"`+username+`","password":"`+password+`"}`, nil)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	got := decode[dto.AuthResponse](s, rec)
	s.Require().NotEmpty(got.Token)
	return &session{token: got.Token, userID: got.User.ID}
}

func (s *apiSuite) createTask(as *session, body string) dto.TaskItem {
	rec := s.request(http.MethodPost, "/api/v1/tasks", body, as)
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	return decode[dto.TaskItem](s, rec)
}

func (s *apiSuite) history(as *session, taskID string) []dto.HistoryEntryItem {
	rec := s.request(http.MethodGet, "/api/v1/tasks/"+taskID+"/history", "", as)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	return decode[[]dto.HistoryEntryItem](s, rec)
}

func (s *apiSuite) requireError(rec *httptest.ResponseRecorder, status int, kind apierrors.Kind) apierrors.JsonErr {
	s.Require().Equal(status, rec.Code, rec.Body.String())
	got := decode[apierrors.JsonErr](s, rec)
	s.Require().Equal(kind, got.ErrorKind)
	s.Require().NotEmpty(got.Message)
	_, err := time.Parse(time.RFC3339, got.Timestamp)
	s.Require().NoError(err)
	return got
}

func decode[T any](s *apiSuite, rec *httptest.ResponseRecorder) T {
	var got T
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &got), rec.Body.String())
	return got
}

func actions(entries []dto.HistoryEntryItem) []string {
	out := make([]string, 0, len(entries))
	for _, entry := range entries {
		out = append(out, entry.Action)
	}
	return out
}
