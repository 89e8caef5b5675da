package db

import (
	"context"
	"testing"
	"time"

	"github.com/vijaynvb/fullstackapp/internal/core/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestCommentRepository_Lifecycle(t *testing.T) {
	f := newTaskFixture(t)
	task := createTask(t, f.tasks, f.alice, "Discussed")

	second := domain.Comment{ID: uuid.NewString(), TaskID: task.ID, Text: "second", Author: f.alice, CreatedAt: baseTime.Add(time.Minute)}
	first := domain.Comment{ID: uuid.NewString(), TaskID: task.ID, Text: "first", Author: f.bob, CreatedAt: baseTime}
	require.NoError(t, f.comments.Create(context.Background(), second))
	require.NoError(t, f.comments.Create(context.Background(), first))

	comments, err := f.comments.ListByTask(context.Background(), task.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	require.Equal(t, "first", comments[0].Text)
	require.Equal(t, "bob", comments[0].Author.Username)
	require.Nil(t, comments[0].UpdatedAt)

	editedAt := baseTime.Add(time.Hour)
	first.Text = "first, edited"
	first.UpdatedAt = &editedAt
	require.NoError(t, f.comments.Update(context.Background(), first))

	got, err := f.comments.FindByID(context.Background(), first.ID)
	require.NoError(t, err)
	require.Equal(t, "first, edited", got.Text)
	require.NotNil(t, got.UpdatedAt)
	require.True(t, editedAt.Equal(*got.UpdatedAt))

	require.NoError(t, f.comments.Delete(context.Background(), first.ID))
	_, err = f.comments.FindByID(context.Background(), first.ID)
	require.ErrorIs(t, err, domain.ErrCommentNotFound)
	require.ErrorIs(t, f.comments.Delete(context.Background(), first.ID), domain.ErrCommentNotFound)
	require.ErrorIs(t, f.comments.Update(context.Background(), first), domain.ErrCommentNotFound)
}
