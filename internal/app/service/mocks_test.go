package service

import (
	"context"
	"time"

	"github.com/vijaynvb/fullstackapp/internal/core/domain"

	"github.com/stretchr/testify/mock"
)

type taskRepositoryMock struct {
	mock.Mock
}

func (m *taskRepositoryMock) Create(ctx context.Context, task domain.Task, entries []domain.HistoryEntry) error {
	return m.Called(ctx, task, entries).Error(0)
}

func (m *taskRepositoryMock) Update(ctx context.Context, task domain.Task, expectedVersion int64, entries []domain.HistoryEntry) error {
	return m.Called(ctx, task, expectedVersion, entries).Error(0)
}

func (m *taskRepositoryMock) Delete(ctx context.Context, taskID string, expectedVersion int64, entry domain.HistoryEntry) error {
	return m.Called(ctx, taskID, expectedVersion, entry).Error(0)
}

func (m *taskRepositoryMock) FindByID(ctx context.Context, id string) (domain.Task, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Task), args.Error(1)
}

func (m *taskRepositoryMock) List(ctx context.Context, query domain.TaskQuery) ([]domain.Task, int64, error) {
	args := m.Called(ctx, query)

	var tasks []domain.Task
	if value := args.Get(0); value != nil {
		tasks = value.([]domain.Task)
	}
	return tasks, args.Get(1).(int64), args.Error(2)
}

type historyRepositoryMock struct {
	mock.Mock
}

func (m *historyRepositoryMock) ListByTask(ctx context.Context, taskID string) ([]domain.HistoryEntry, error) {
	args := m.Called(ctx, taskID)

	var entries []domain.HistoryEntry
	if value := args.Get(0); value != nil {
		entries = value.([]domain.HistoryEntry)
	}
	return entries, args.Error(1)
}

type commentRepositoryMock struct {
	mock.Mock
}

func (m *commentRepositoryMock) Create(ctx context.Context, comment domain.Comment) error {
	return m.Called(ctx, comment).Error(0)
}

func (m *commentRepositoryMock) Update(ctx context.Context, comment domain.Comment) error {
	return m.Called(ctx, comment).Error(0)
}

func (m *commentRepositoryMock) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *commentRepositoryMock) FindByID(ctx context.Context, id string) (domain.Comment, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Comment), args.Error(1)
}

func (m *commentRepositoryMock) ListByTask(ctx context.Context, taskID string) ([]domain.Comment, error) {
	args := m.Called(ctx, taskID)

	var comments []domain.Comment
	if value := args.Get(0); value != nil {
		comments = value.([]domain.Comment)
	}
	return comments, args.Error(1)
}

type userRepositoryMock struct {
	mock.Mock
}

func (m *userRepositoryMock) Create(ctx context.Context, user domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *userRepositoryMock) FindByID(ctx context.Context, id string) (domain.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *userRepositoryMock) FindByLogin(ctx context.Context, login string) (domain.User, error) {
	args := m.Called(ctx, login)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *userRepositoryMock) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *userRepositoryMock) List(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)

	var users []domain.User
	if value := args.Get(0); value != nil {
		users = value.([]domain.User)
	}
	return users, args.Error(1)
}

func (m *userRepositoryMock) UpdateRoleAndActive(ctx context.Context, id string, role domain.Role, active bool, updatedAt time.Time) error {
	return m.Called(ctx, id, role, active, updatedAt).Error(0)
}

func (m *userRepositoryMock) UpdatePassword(ctx context.Context, id, passwordHash string, updatedAt time.Time) error {
	return m.Called(ctx, id, passwordHash, updatedAt).Error(0)
}

type sessionStoreMock struct {
	mock.Mock
}

func (m *sessionStoreMock) Save(ctx context.Context, session domain.Session) error {
	return m.Called(ctx, session).Error(0)
}

func (m *sessionStoreMock) FindByTokenHash(ctx context.Context, tokenHash string) (domain.Session, error) {
	args := m.Called(ctx, tokenHash)
	return args.Get(0).(domain.Session), args.Error(1)
}

func (m *sessionStoreMock) Delete(ctx context.Context, tokenHash string) error {
	return m.Called(ctx, tokenHash).Error(0)
}

func (m *sessionStoreMock) DeleteByUser(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

type resetTokenStoreMock struct {
	mock.Mock
}

func (m *resetTokenStoreMock) SaveResetToken(ctx context.Context, token domain.PasswordResetToken) error {
	return m.Called(ctx, token).Error(0)
}

func (m *resetTokenStoreMock) FindResetToken(ctx context.Context, tokenHash string) (domain.PasswordResetToken, error) {
	args := m.Called(ctx, tokenHash)
	return args.Get(0).(domain.PasswordResetToken), args.Error(1)
}

func (m *resetTokenStoreMock) MarkResetTokenUsed(ctx context.Context, tokenHash string, usedAt time.Time) error {
	return m.Called(ctx, tokenHash, usedAt).Error(0)
}

type notifierMock struct {
	mock.Mock
}

func (m *notifierMock) Notify(ctx context.Context, n domain.Notification) {
	m.Called(ctx, n)
}

// plainHasher keeps tests fast; "hashed:" + password is the stored form.
type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

func (plainHasher) Verify(password, hash string) bool {
	return hash == "hashed:"+password
}

var fixedNow = time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)

func clock() time.Time {
	return fixedNow
}

func testUser(id string, role domain.Role) domain.User {
	return domain.User{
		ID:        id,
		Username:  id,
		Email:     id + "@example.com",
		FirstName: "Test",
		LastName:  "User",
		Role:      role,
		Active:    true,
	}
}

func testTask(id string, creator domain.User) domain.Task {
	created := fixedNow.Add(-48 * time.Hour)
	return domain.Task{
		ID:        id,
		Title:     "Write report",
		Status:    domain.TaskStatusTodo,
		Priority:  domain.TaskPriorityMedium,
		CreatedBy: creator,
		Tags:      []string{},
		CreatedAt: created,
		UpdatedAt: created,
		Version:   1,
	}
}
