package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vijaynvb/fullstackapp/internal/core/domain"
	"github.com/vijaynvb/fullstackapp/internal/core/ports"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type TaskServiceConfig struct {
	Policy      domain.Policy
	MaxPageSize int
	Now         func() time.Time
}

type TaskService struct {
	taskRepository    ports.TaskRepository
	historyRepository ports.HistoryRepository
	commentRepository ports.CommentRepository
	userRepository    ports.UserRepository
	notifier          ports.Notifier
	recorder          *HistoryRecorder
	policy            domain.Policy
	maxPageSize       int
	now               func() time.Time
}

func NewTaskService(
	taskRepository ports.TaskRepository,
	historyRepository ports.HistoryRepository,
	commentRepository ports.CommentRepository,
	userRepository ports.UserRepository,
	notifier ports.Notifier,
	cfg TaskServiceConfig,
) *TaskService {
	if cfg.MaxPageSize <= 0 {
		cfg.MaxPageSize = domain.MaxPageSize
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &TaskService{
		taskRepository:    taskRepository,
		historyRepository: historyRepository,
		commentRepository: commentRepository,
		userRepository:    userRepository,
		notifier:          notifier,
		recorder:          NewHistoryRecorder(),
		policy:            cfg.Policy,
		maxPageSize:       cfg.MaxPageSize,
		now:               cfg.Now,
	}
}

var _ ports.TaskService = (*TaskService)(nil)

func (s *TaskService) CreateTask(ctx context.Context, caller domain.User, input domain.CreateTaskInput) (domain.Task, error) {
	if !s.policy.CanCreate(caller) {
		return domain.Task{}, domain.ErrForbidden
	}

	title, err := domain.NormalizeTitle(input.Title)
	if err != nil {
		return domain.Task{}, err
	}
	if err := domain.ValidateDescription(input.Description); err != nil {
		return domain.Task{}, err
	}

	status := domain.TaskStatusTodo
	if input.Status != nil {
		if !input.Status.Valid() {
			return domain.Task{}, domain.NewValidationError("status", domain.ReasonInvalid)
		}
		status = *input.Status
	}

	priority := domain.TaskPriorityMedium
	if input.Priority != nil {
		if !input.Priority.Valid() {
			return domain.Task{}, domain.NewValidationError("priority", domain.ReasonInvalid)
		}
		priority = *input.Priority
	}

	tags, err := domain.NormalizeTags(input.Tags)
	if err != nil {
		return domain.Task{}, err
	}

	var assignee *domain.User
	if input.AssigneeID != nil {
		user, err := s.resolveAssignee(ctx, *input.AssigneeID)
		if err != nil {
			return domain.Task{}, err
		}
		assignee = &user
	}

	now := domain.StorageTime(s.now())
	task := domain.Task{
		ID:          uuid.NewString(),
		Title:       title,
		Description: input.Description,
		Status:      status,
		Priority:    priority,
		DueDate:     storagePtr(input.DueDate),
		Assignee:    assignee,
		CreatedBy:   caller,
		Tags:        tags,
		CreatedAt:   now,
		UpdatedAt:   now,
		Version:     1,
	}

	entry := s.recorder.Created(task, caller, now)
	if err := s.taskRepository.Create(ctx, task, []domain.HistoryEntry{entry}); err != nil {
		return domain.Task{}, fmt.Errorf("create task: %w", err)
	}
	zap.L().Info("task created", zap.String("task_id", task.ID), zap.String("user_id", caller.ID))

	if assignee != nil {
		s.notify(ctx, domain.NotificationTaskAssigned, task, caller, nil)
	}
	return task.WithOverdue(now), nil
}

func (s *TaskService) GetTask(ctx context.Context, caller domain.User, taskID string) (domain.TaskDetail, error) {
	task, err := s.taskRepository.FindByID(ctx, taskID)
	if err != nil {
		return domain.TaskDetail{}, err
	}
	if !s.policy.CanView(caller, task) {
		return domain.TaskDetail{}, domain.ErrForbidden
	}

	var (
		comments []domain.Comment
		history  []domain.HistoryEntry
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		comments, err = s.commentRepository.ListByTask(gctx, taskID)
		return err
	})
	g.Go(func() error {
		var err error
		history, err = s.historyRepository.ListByTask(gctx, taskID)
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.TaskDetail{}, fmt.Errorf("load task detail: %w", err)
	}

	return domain.TaskDetail{
		Task:     task.WithOverdue(s.now()),
		Comments: comments,
		History:  history,
	}, nil
}

// UpdateTask applies a partial update. Every changed field yields one history entry and
// nothing is written unless the whole request validates.
func (s *TaskService) UpdateTask(ctx context.Context, caller domain.User, taskID string, input domain.UpdateTaskInput) (domain.Task, error) {
	task, err := s.taskRepository.FindByID(ctx, taskID)
	if err != nil {
		return domain.Task{}, err
	}
	if err := s.authorizeUpdate(caller, task, input); err != nil {
		return domain.Task{}, err
	}

	now := domain.StorageTime(s.now())
	at := domain.NextUpdatedAt(task.UpdatedAt, now)
	updated := task
	var entries []domain.HistoryEntry

	if input.Title != nil {
		title, err := domain.NormalizeTitle(*input.Title)
		if err != nil {
			return domain.Task{}, err
		}
		if title != task.Title {
			updated.Title = title
			entries = append(entries, s.recorder.FieldUpdated(task.ID, FieldTitle, stringPtr(task.Title), stringPtr(title), caller, at))
		}
	}

	if input.DescriptionSet {
		if err := domain.ValidateDescription(input.Description); err != nil {
			return domain.Task{}, err
		}
		if !sameStringPtr(task.Description, input.Description) {
			updated.Description = input.Description
			entries = append(entries, s.recorder.FieldUpdated(task.ID, FieldDescription, task.Description, input.Description, caller, at))
		}
	}

	if input.Priority != nil {
		if !input.Priority.Valid() {
			return domain.Task{}, domain.NewValidationError("priority", domain.ReasonInvalid)
		}
		if *input.Priority != task.Priority {
			updated.Priority = *input.Priority
			entries = append(entries, s.recorder.FieldUpdated(task.ID, FieldPriority, stringPtr(string(task.Priority)), stringPtr(string(*input.Priority)), caller, at))
		}
	}

	if input.DueDateSet {
		dueDate := storagePtr(input.DueDate)
		if !sameTimePtr(task.DueDate, dueDate) {
			updated.DueDate = dueDate
			entries = append(entries, s.recorder.FieldUpdated(task.ID, FieldDueDate, timeValue(task.DueDate), timeValue(dueDate), caller, at))
		}
	}

	if input.TagsSet {
		tags, err := domain.NormalizeTags(input.Tags)
		if err != nil {
			return domain.Task{}, err
		}
		if !domain.SameTags(task.Tags, tags) {
			updated.Tags = tags
			entries = append(entries, s.recorder.FieldUpdated(task.ID, FieldTags, tagsValue(task.Tags), tagsValue(tags), caller, at))
		}
	}

	// Status and assignee arrive with the rest of the form, so an unchanged value is
	// not a transition here.
	if input.Status != nil && *input.Status != task.Status {
		if !input.Status.Valid() {
			return domain.Task{}, domain.NewValidationError("status", domain.ReasonInvalid)
		}
		if !task.Status.CanTransitionTo(*input.Status) {
			return domain.Task{}, domain.ErrInvalidTransition
		}
		updated.Status = *input.Status
		entries = append(entries, s.recorder.StatusChanged(task.ID, task.Status, *input.Status, caller, at))
	}

	if input.AssigneeID != nil && *input.AssigneeID != task.AssigneeID() {
		assignee, err := s.resolveAssignee(ctx, *input.AssigneeID)
		if err != nil {
			return domain.Task{}, err
		}
		updated.Assignee = &assignee
		entries = append(entries, s.recorder.Assigned(task.ID, task.Assignee, &assignee, caller, at))
	}

	if len(entries) == 0 {
		return task.WithOverdue(now), nil
	}

	updated.UpdatedAt = at
	updated.Version = task.Version + 1
	if err := s.taskRepository.Update(ctx, updated, task.Version, entries); err != nil {
		return domain.Task{}, fmt.Errorf("update task: %w", err)
	}
	zap.L().Info("task updated",
		zap.String("task_id", task.ID),
		zap.String("user_id", caller.ID),
		zap.Int("changes", len(entries)),
	)
	return updated.WithOverdue(now), nil
}

func (s *TaskService) DeleteTask(ctx context.Context, caller domain.User, taskID string) error {
	task, err := s.taskRepository.FindByID(ctx, taskID)
	if err != nil {
		return err
	}
	if !s.policy.CanDelete(caller, task) {
		return domain.ErrForbidden
	}

	at := domain.NextUpdatedAt(task.UpdatedAt, s.now())
	entry := s.recorder.Deleted(task, caller, at)
	if err := s.taskRepository.Delete(ctx, task.ID, task.Version, entry); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	zap.L().Info("task deleted", zap.String("task_id", task.ID), zap.String("user_id", caller.ID))
	return nil
}

// AssignTask replaces the assignee. Re-assigning the current assignee is still recorded.
func (s *TaskService) AssignTask(ctx context.Context, caller domain.User, taskID, assigneeID string, notify bool) (domain.Task, error) {
	task, err := s.taskRepository.FindByID(ctx, taskID)
	if err != nil {
		return domain.Task{}, err
	}
	if !s.policy.CanAssign(caller, task) {
		return domain.Task{}, domain.ErrForbidden
	}
	if assigneeID == "" {
		return domain.Task{}, domain.NewValidationError("assigneeId", domain.ReasonRequired)
	}
	assignee, err := s.resolveAssignee(ctx, assigneeID)
	if err != nil {
		return domain.Task{}, err
	}

	now := domain.StorageTime(s.now())
	updated := task
	updated.Assignee = &assignee
	updated.UpdatedAt = domain.NextUpdatedAt(task.UpdatedAt, now)
	updated.Version = task.Version + 1

	entry := s.recorder.Assigned(task.ID, task.Assignee, &assignee, caller, updated.UpdatedAt)
	if err := s.taskRepository.Update(ctx, updated, task.Version, []domain.HistoryEntry{entry}); err != nil {
		return domain.Task{}, fmt.Errorf("assign task: %w", err)
	}
	zap.L().Info("task assigned",
		zap.String("task_id", task.ID),
		zap.String("assignee_id", assignee.ID),
		zap.String("user_id", caller.ID),
	)

	if notify {
		s.notify(ctx, domain.NotificationTaskAssigned, updated, caller, nil)
	}
	return updated.WithOverdue(now), nil
}

func (s *TaskService) ChangeStatus(ctx context.Context, caller domain.User, taskID string, status domain.TaskStatus, notify bool) (domain.Task, error) {
	task, err := s.taskRepository.FindByID(ctx, taskID)
	if err != nil {
		return domain.Task{}, err
	}
	if !s.policy.CanChangeStatus(caller, task) {
		return domain.Task{}, domain.ErrForbidden
	}
	if !status.Valid() {
		return domain.Task{}, domain.NewValidationError("status", domain.ReasonInvalid)
	}
	if !task.Status.CanTransitionTo(status) {
		return domain.Task{}, domain.ErrInvalidTransition
	}

	now := domain.StorageTime(s.now())
	updated := task
	updated.Status = status
	updated.UpdatedAt = domain.NextUpdatedAt(task.UpdatedAt, now)
	updated.Version = task.Version + 1

	entry := s.recorder.StatusChanged(task.ID, task.Status, status, caller, updated.UpdatedAt)
	if err := s.taskRepository.Update(ctx, updated, task.Version, []domain.HistoryEntry{entry}); err != nil {
		return domain.Task{}, fmt.Errorf("change task status: %w", err)
	}
	zap.L().Info("task status changed",
		zap.String("task_id", task.ID),
		zap.String("from", string(task.Status)),
		zap.String("to", string(status)),
		zap.String("user_id", caller.ID),
	)

	if notify && updated.Assignee != nil {
		s.notify(ctx, domain.NotificationStatusChanged, updated, caller, map[string]string{
			"oldStatus": string(task.Status),
			"newStatus": string(status),
		})
	}
	return updated.WithOverdue(now), nil
}

func (s *TaskService) ListTasks(ctx context.Context, caller domain.User, query domain.TaskQuery) (domain.Page[domain.Task], error) {
	if err := query.Validate(s.maxPageSize); err != nil {
		return domain.Page[domain.Task]{}, err
	}

	query.VisibleTo = nil
	if !s.policy.SeesAllTasks(caller) {
		query.VisibleTo = &caller.ID
	}
	query.Now = domain.StorageTime(s.now())

	tasks, total, err := s.taskRepository.List(ctx, query)
	if err != nil {
		return domain.Page[domain.Task]{}, fmt.Errorf("list tasks: %w", err)
	}
	for i := range tasks {
		tasks[i] = tasks[i].WithOverdue(query.Now)
	}
	return domain.NewPage(tasks, query.Page, total), nil
}

// ListHistory returns the audit trail of a task, including tasks that were deleted.
func (s *TaskService) ListHistory(ctx context.Context, caller domain.User, taskID string) ([]domain.HistoryEntry, error) {
	var current *domain.Task
	task, err := s.taskRepository.FindByID(ctx, taskID)
	switch {
	case err == nil:
		current = &task
	case !errors.Is(err, domain.ErrTaskNotFound):
		return nil, err
	}

	entries, err := s.historyRepository.ListByTask(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("list task history: %w", err)
	}
	if current == nil && len(entries) == 0 {
		return nil, domain.ErrTaskNotFound
	}
	if !s.policy.CanViewHistory(caller, current, entries) {
		return nil, domain.ErrForbidden
	}
	return entries, nil
}

func (s *TaskService) authorizeUpdate(caller domain.User, task domain.Task, input domain.UpdateTaskInput) error {
	touchesFields := input.Title != nil || input.DescriptionSet || input.Priority != nil ||
		input.DueDateSet || input.TagsSet
	if touchesFields && !s.policy.CanUpdate(caller, task) {
		return domain.ErrForbidden
	}
	if input.Status != nil && !s.policy.CanChangeStatus(caller, task) {
		return domain.ErrForbidden
	}
	if input.AssigneeID != nil && !s.policy.CanAssign(caller, task) {
		return domain.ErrForbidden
	}
	return nil
}

func (s *TaskService) resolveAssignee(ctx context.Context, id string) (domain.User, error) {
	if id == "" {
		return domain.User{}, domain.NewValidationError("assigneeId", domain.ReasonRequired)
	}
	user, err := s.userRepository.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, err
	}
	if !user.Active {
		return domain.User{}, domain.NewValidationError("assigneeId", domain.ReasonInactive)
	}
	return user, nil
}

func (s *TaskService) notify(ctx context.Context, kind domain.NotificationKind, task domain.Task, actor domain.User, data map[string]string) {
	if task.Assignee == nil {
		return
	}
	if data == nil {
		data = map[string]string{}
	}
	data["actorId"] = actor.ID
	data["actorUsername"] = actor.Username
	s.notifier.Notify(ctx, domain.Notification{
		ID:          uuid.NewString(),
		Kind:        kind,
		RecipientID: task.Assignee.ID,
		Email:       task.Assignee.Email,
		TaskID:      task.ID,
		Subject:     task.Title,
		Data:        data,
		OccurredAt:  task.UpdatedAt,
	})
}

func storagePtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	value := domain.StorageTime(*t)
	return &value
}
