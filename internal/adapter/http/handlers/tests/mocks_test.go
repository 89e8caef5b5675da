package tests

import (
	"context"

	"github.com/vijaynvb/fullstackapp/internal/core/domain"
	"github.com/vijaynvb/fullstackapp/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type taskServiceMock struct {
	mock.Mock
}

var _ ports.TaskService = (*taskServiceMock)(nil)

func (m *taskServiceMock) CreateTask(ctx context.Context, caller domain.User, input domain.CreateTaskInput) (domain.Task, error) {
	args := m.Called(ctx, caller, input)
	return args.Get(0).(domain.Task), args.Error(1)
}

func (m *taskServiceMock) GetTask(ctx context.Context, caller domain.User, taskID string) (domain.TaskDetail, error) {
	args := m.Called(ctx, caller, taskID)
	return args.Get(0).(domain.TaskDetail), args.Error(1)
}

func (m *taskServiceMock) UpdateTask(ctx context.Context, caller domain.User, taskID string, input domain.UpdateTaskInput) (domain.Task, error) {
	args := m.Called(ctx, caller, taskID, input)
	return args.Get(0).(domain.Task), args.Error(1)
}

func (m *taskServiceMock) DeleteTask(ctx context.Context, caller domain.User, taskID string) error {
	return m.Called(ctx, caller, taskID).Error(0)
}

func (m *taskServiceMock) AssignTask(ctx context.Context, caller domain.User, taskID, assigneeID string, notify bool) (domain.Task, error) {
	args := m.Called(ctx, caller, taskID, assigneeID, notify)
	return args.Get(0).(domain.Task), args.Error(1)
}

func (m *taskServiceMock) ChangeStatus(ctx context.Context, caller domain.User, taskID string, status domain.TaskStatus, notify bool) (domain.Task, error) {
	args := m.Called(ctx, caller, taskID, status, notify)
	return args.Get(0).(domain.Task), args.Error(1)
}

func (m *taskServiceMock) ListTasks(ctx context.Context, caller domain.User, query domain.TaskQuery) (domain.Page[domain.Task], error) {
	args := m.Called(ctx, caller, query)
	return args.Get(0).(domain.Page[domain.Task]), args.Error(1)
}

func (m *taskServiceMock) ListHistory(ctx context.Context, caller domain.User, taskID string) ([]domain.HistoryEntry, error) {
	args := m.Called(ctx, caller, taskID)

	var entries []domain.HistoryEntry
	if value := args.Get(0); value != nil {
		entries = value.([]domain.HistoryEntry)
	}
	return entries, args.Error(1)
}

type commentServiceMock struct {
	mock.Mock
}

var _ ports.CommentService = (*commentServiceMock)(nil)

func (m *commentServiceMock) AddComment(ctx context.Context, caller domain.User, taskID, text string) (domain.Comment, error) {
	args := m.Called(ctx, caller, taskID, text)
	return args.Get(0).(domain.Comment), args.Error(1)
}

func (m *commentServiceMock) EditComment(ctx context.Context, caller domain.User, taskID, commentID, text string) (domain.Comment, error) {
	args := m.Called(ctx, caller, taskID, commentID, text)
	return args.Get(0).(domain.Comment), args.Error(1)
}

func (m *commentServiceMock) DeleteComment(ctx context.Context, caller domain.User, taskID, commentID string) error {
	return m.Called(ctx, caller, taskID, commentID).Error(0)
}

type authServiceMock struct {
	mock.Mock
}

var _ ports.AuthService = (*authServiceMock)(nil)

func (m *authServiceMock) Signup(ctx context.Context, input domain.SignupInput) (domain.IssuedSession, error) {
	args := m.Called(ctx, input)
	return args.Get(0).(domain.IssuedSession), args.Error(1)
}

func (m *authServiceMock) Authenticate(ctx context.Context, input domain.LoginInput) (domain.IssuedSession, error) {
	args := m.Called(ctx, input)
	return args.Get(0).(domain.IssuedSession), args.Error(1)
}

func (m *authServiceMock) Validate(ctx context.Context, token string) (domain.User, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *authServiceMock) Logout(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

func (m *authServiceMock) Refresh(ctx context.Context, token string) (domain.IssuedSession, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(domain.IssuedSession), args.Error(1)
}

func (m *authServiceMock) RequestPasswordReset(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

func (m *authServiceMock) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	return m.Called(ctx, token, newPassword).Error(0)
}

type userServiceMock struct {
	mock.Mock
}

var _ ports.UserService = (*userServiceMock)(nil)

func (m *userServiceMock) ListUsers(ctx context.Context, caller domain.User) ([]domain.User, error) {
	args := m.Called(ctx, caller)

	var users []domain.User
	if value := args.Get(0); value != nil {
		users = value.([]domain.User)
	}
	return users, args.Error(1)
}

func (m *userServiceMock) GetUser(ctx context.Context, caller domain.User, id string) (domain.User, error) {
	args := m.Called(ctx, caller, id)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *userServiceMock) UpdateUser(ctx context.Context, caller domain.User, id string, input domain.UserUpdateInput) (domain.User, error) {
	args := m.Called(ctx, caller, id, input)
	return args.Get(0).(domain.User), args.Error(1)
}
