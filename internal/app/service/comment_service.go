package service

import (
	"context"
	"fmt"
	"time"

	"github.com/vijaynvb/fullstackapp/internal/core/domain"
	"github.com/vijaynvb/fullstackapp/internal/core/ports"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CommentService struct {
	taskRepository    ports.TaskRepository
	commentRepository ports.CommentRepository
	policy            domain.Policy
	now               func() time.Time
}

func NewCommentService(
	taskRepository ports.TaskRepository,
	commentRepository ports.CommentRepository,
	policy domain.Policy,
	now func() time.Time,
) *CommentService {
	if now == nil {
		now = time.Now
	}
	return &CommentService{
		taskRepository:    taskRepository,
		commentRepository: commentRepository,
		policy:            policy,
		now:               now,
	}
}

var _ ports.CommentService = (*CommentService)(nil)

func (s *CommentService) AddComment(ctx context.Context, caller domain.User, taskID, text string) (domain.Comment, error) {
	task, err := s.taskRepository.FindByID(ctx, taskID)
	if err != nil {
		return domain.Comment{}, err
	}
	if !s.policy.CanComment(caller, task) {
		return domain.Comment{}, domain.ErrForbidden
	}
	value, err := domain.NormalizeCommentText(text)
	if err != nil {
		return domain.Comment{}, err
	}

	comment := domain.Comment{
		ID:        uuid.NewString(),
		TaskID:    task.ID,
		Text:      value,
		Author:    caller,
		CreatedAt: domain.StorageTime(s.now()),
	}
	if err := s.commentRepository.Create(ctx, comment); err != nil {
		return domain.Comment{}, fmt.Errorf("create comment: %w", err)
	}
	zap.L().Info("comment added", zap.String("task_id", task.ID), zap.String("comment_id", comment.ID))
	return comment, nil
}

func (s *CommentService) EditComment(ctx context.Context, caller domain.User, taskID, commentID, text string) (domain.Comment, error) {
	comment, err := s.findComment(ctx, caller, taskID, commentID)
	if err != nil {
		return domain.Comment{}, err
	}
	now := domain.StorageTime(s.now())
	if !s.policy.CanEditComment(caller, comment, now) {
		return domain.Comment{}, domain.ErrForbidden
	}
	value, err := domain.NormalizeCommentText(text)
	if err != nil {
		return domain.Comment{}, err
	}

	comment.Text = value
	comment.UpdatedAt = &now
	if err := s.commentRepository.Update(ctx, comment); err != nil {
		return domain.Comment{}, fmt.Errorf("update comment: %w", err)
	}
	return comment, nil
}

func (s *CommentService) DeleteComment(ctx context.Context, caller domain.User, taskID, commentID string) error {
	comment, err := s.findComment(ctx, caller, taskID, commentID)
	if err != nil {
		return err
	}
	if !s.policy.CanDeleteComment(caller, comment) {
		return domain.ErrForbidden
	}
	if err := s.commentRepository.Delete(ctx, comment.ID); err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	zap.L().Info("comment deleted", zap.String("task_id", taskID), zap.String("comment_id", comment.ID))
	return nil
}

// findComment loads a comment of a task the caller can see. A comment that belongs to
// another task is reported as missing.
func (s *CommentService) findComment(ctx context.Context, caller domain.User, taskID, commentID string) (domain.Comment, error) {
	task, err := s.taskRepository.FindByID(ctx, taskID)
	if err != nil {
		return domain.Comment{}, err
	}
	if !s.policy.CanView(caller, task) {
		return domain.Comment{}, domain.ErrForbidden
	}
	comment, err := s.commentRepository.FindByID(ctx, commentID)
	if err != nil {
		return domain.Comment{}, err
	}
	if comment.TaskID != task.ID {
		return domain.Comment{}, domain.ErrCommentNotFound
	}
	return comment, nil
}
