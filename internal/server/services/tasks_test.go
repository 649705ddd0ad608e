package services

import (
	"context"
	"strings"
	"testing"

	"github.com/dmitrijs2005/tasktracker/internal/common"
	"github.com/dmitrijs2005/tasktracker/internal/dbx"
	"github.com/dmitrijs2005/tasktracker/internal/server/models"
	"github.com/dmitrijs2005/tasktracker/internal/server/repositories/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sp(s string) *string { return &s }

func TestTaskCreate_DefaultsAndOwner(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "alice", "a@x.com")

	task, err := f.tasks.Create(context.Background(), alice.User.ID, CreateTaskInput{Title: "  buy milk  "})
	require.NoError(t, err)
	assert.Equal(t, "buy milk", task.Title)
	assert.Equal(t, models.TaskStatusTodo, task.Status)
	assert.Equal(t, alice.User.ID, task.UserID)
	assert.Nil(t, task.Description)
	assert.False(t, task.CreatedAt.IsZero())
}

func TestTaskCreate_StatusAndDescription(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "alice", "a@x.com")

	task, err := f.tasks.Create(context.Background(), alice.User.ID, CreateTaskInput{
		Title:       "write report",
		Description: sp(" quarterly "),
		Status:      sp("in-progress"),
	})
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusInProgress, task.Status)
	require.NotNil(t, task.Description)
	assert.Equal(t, "quarterly", *task.Description)
}

func TestTaskCreate_Validation(t *testing.T) {
	tests := []struct {
		name  string
		in    CreateTaskInput
		field string
	}{
		{"empty title", CreateTaskInput{Title: "   "}, "title"},
		{"long title", CreateTaskInput{Title: strings.Repeat("x", 201)}, "title"},
		{"long description", CreateTaskInput{Title: "t", Description: sp(strings.Repeat("d", 5001))}, "description"},
		{"bad status", CreateTaskInput{Title: "t", Status: sp("later")}, "status"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			_, err := f.tasks.Create(context.Background(), "owner", tt.in)

			var ve *common.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
			assert.Equal(t, 0, f.rm.TaskStore().Count())
		})
	}
}

func TestTaskCreate_TitleBoundary(t *testing.T) {
	f := newFixture(t)
	_, err := f.tasks.Create(context.Background(), "owner", CreateTaskInput{Title: strings.Repeat("é", 200)})
	assert.NoError(t, err)
}

func TestTaskList_FilterAndOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice", "a@x.com")
	bob := f.register(t, "bob", "b@x.com")

	t1, err := f.tasks.Create(ctx, alice.User.ID, CreateTaskInput{Title: "one"})
	require.NoError(t, err)
	t2, err := f.tasks.Create(ctx, alice.User.ID, CreateTaskInput{Title: "two", Status: sp("done")})
	require.NoError(t, err)
	t3, err := f.tasks.Create(ctx, alice.User.ID, CreateTaskInput{Title: "three", Status: sp("done")})
	require.NoError(t, err)
	_, err = f.tasks.Create(ctx, bob.User.ID, CreateTaskInput{Title: "bob's", Status: sp("done")})
	require.NoError(t, err)

	all, err := f.tasks.List(ctx, alice.User.ID, nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{t3.ID, t2.ID, t1.ID}, []string{all[0].ID, all[1].ID, all[2].ID})

	done, err := f.tasks.List(ctx, alice.User.ID, sp("done"))
	require.NoError(t, err)
	require.Len(t, done, 2)
	assert.Equal(t, t3.ID, done[0].ID)
	assert.Equal(t, t2.ID, done[1].ID)

	empty, err := f.tasks.List(ctx, alice.User.ID, sp(""))
	require.NoError(t, err)
	assert.Len(t, empty, 3)

	_, err = f.tasks.List(ctx, alice.User.ID, sp("someday"))
	assert.ErrorIs(t, err, common.ErrorValidation)
}

func TestTasks_InvisibleToOtherUsers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice", "a@x.com")
	bob := f.register(t, "bob", "b@x.com")

	task, err := f.tasks.Create(ctx, alice.User.ID, CreateTaskInput{Title: "private"})
	require.NoError(t, err)

	_, err = f.tasks.Get(ctx, bob.User.ID, task.ID)
	assert.ErrorIs(t, err, common.ErrorNotFound)

	_, err = f.tasks.Update(ctx, bob.User.ID, task.ID, UpdateTaskInput{Title: sp("mine now")})
	assert.ErrorIs(t, err, common.ErrorNotFound)

	err = f.tasks.Delete(ctx, bob.User.ID, task.ID)
	assert.ErrorIs(t, err, common.ErrorNotFound)

	got, err := f.tasks.Get(ctx, alice.User.ID, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "private", got.Title)

	list, err := f.tasks.List(ctx, bob.User.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestTaskGet_MissingAndMalformedID(t *testing.T) {
	f := newFixture(t)

	_, err := f.tasks.Get(context.Background(), "owner", "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	_, err = f.tasks.Get(context.Background(), "owner", "42")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestTaskUpdate_Partial(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice", "a@x.com")

	task, err := f.tasks.Create(ctx, alice.User.ID, CreateTaskInput{Title: "draft", Description: sp("notes")})
	require.NoError(t, err)

	updated, err := f.tasks.Update(ctx, alice.User.ID, task.ID, UpdateTaskInput{Status: sp("in progress")})
	require.NoError(t, err)
	assert.Equal(t, "draft", updated.Title)
	assert.Equal(t, models.TaskStatusInProgress, updated.Status)
	require.NotNil(t, updated.Description)
	assert.Equal(t, "notes", *updated.Description)

	updated, err = f.tasks.Update(ctx, alice.User.ID, task.ID, UpdateTaskInput{Title: sp("final"), Description: sp("")})
	require.NoError(t, err)
	assert.Equal(t, "final", updated.Title)
	assert.Nil(t, updated.Description)
	assert.Equal(t, models.TaskStatusInProgress, updated.Status)
}

func TestTaskUpdate_EmptyPatchReturnsTask(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice", "a@x.com")

	task, err := f.tasks.Create(ctx, alice.User.ID, CreateTaskInput{Title: "same"})
	require.NoError(t, err)

	got, err := f.tasks.Update(ctx, alice.User.ID, task.ID, UpdateTaskInput{})
	require.NoError(t, err)
	assert.Equal(t, task, got)
}

func TestTaskUpdate_InvalidStatusDoesNotMutate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice", "a@x.com")

	task, err := f.tasks.Create(ctx, alice.User.ID, CreateTaskInput{Title: "keep"})
	require.NoError(t, err)

	_, err = f.tasks.Update(ctx, alice.User.ID, task.ID, UpdateTaskInput{Title: sp("changed"), Status: sp("blocked")})
	var ve *common.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "status", ve.Field)

	got, err := f.tasks.Get(ctx, alice.User.ID, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "keep", got.Title)
	assert.Equal(t, models.TaskStatusTodo, got.Status)
}

func TestTaskUpdate_EmptyTitleRejected(t *testing.T) {
	f := newFixture(t)
	_, err := f.tasks.Update(context.Background(), "owner", "00000000-0000-0000-0000-000000000000", UpdateTaskInput{Title: sp(" ")})
	assert.ErrorIs(t, err, common.ErrorValidation)
}

func TestTaskDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice", "a@x.com")

	task, err := f.tasks.Create(ctx, alice.User.ID, CreateTaskInput{Title: "gone soon"})
	require.NoError(t, err)

	require.NoError(t, f.tasks.Delete(ctx, alice.User.ID, task.ID))
	assert.Equal(t, 0, f.rm.TaskStore().Count())

	assert.ErrorIs(t, f.tasks.Delete(ctx, alice.User.ID, task.ID), common.ErrorNotFound)
}

func TestTaskService_StorageErrors(t *testing.T) {
	rm := &failingManager{tasks: brokenTasks{Repository: memory.NewTasksRepository(), err: errBoom}}
	s := NewTaskService(dbx.NopExecutor{}, rm)
	ctx := context.Background()
	id := "00000000-0000-0000-0000-000000000001"

	_, err := s.List(ctx, "owner", nil)
	assert.ErrorIs(t, err, errBoom)

	_, err = s.Get(ctx, "owner", id)
	assert.ErrorIs(t, err, errBoom)
	assert.NotErrorIs(t, err, common.ErrorNotFound)

	_, err = s.Create(ctx, "owner", CreateTaskInput{Title: "t"})
	assert.ErrorIs(t, err, errBoom)

	_, err = s.Update(ctx, "owner", id, UpdateTaskInput{Title: sp("t")})
	assert.ErrorIs(t, err, errBoom)

	err = s.Delete(ctx, "owner", id)
	assert.ErrorIs(t, err, errBoom)
}
