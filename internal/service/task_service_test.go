package service_test

import (
	"context"
	"testing"
	"time"

	"tasktracker/internal/model"
	"tasktracker/internal/repository"
	"tasktracker/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newUUID() uuid.UUID { return uuid.New() }

type taskTestEnv struct {
	db    *gorm.DB
	tasks *service.TaskService
	users *service.UserService
	owner *model.User
	other *model.User
}

func setupTaskTestEnv(t *testing.T) taskTestEnv {
	t.Helper()

	db := setupDB(t)
	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	users := service.NewUserService(userRepo)
	tasks := service.NewTaskService(taskRepo, userRepo)

	owner := registerUser(t, users, "Owner", "owner@x.com", "password1")
	other := registerUser(t, users, "Other", "other@x.com", "password2")

	return taskTestEnv{db: db, tasks: tasks, users: users, owner: owner, other: other}
}

func (e taskTestEnv) createTask(t *testing.T, input service.TaskCreate) *model.Task {
	t.Helper()
	task, err := e.tasks.Create(context.Background(), e.owner.ID, input)
	require.NoError(t, err)
	return task
}

func TestTaskService_Create_DefaultsToPending(t *testing.T) {
	env := setupTaskTestEnv(t)

	task := env.createTask(t, service.TaskCreate{Title: "Write report"})

	assert.Equal(t, model.StatusPending, task.Status)
	assert.Equal(t, env.owner.ID, task.OwnerID)
	assert.Nil(t, task.AssignedToID)
	assert.False(t, task.CreatedAt.IsZero())
}

func TestTaskService_Create_WithAssignee(t *testing.T) {
	env := setupTaskTestEnv(t)

	task := env.createTask(t, service.TaskCreate{
		Title:        "Write report",
		AssignedToID: &env.other.ID,
	})

	require.NotNil(t, task.AssignedToID)
	assert.Equal(t, env.other.ID, *task.AssignedToID)
}

func TestTaskService_Create_AssigneeNotFound(t *testing.T) {
	env := setupTaskTestEnv(t)

	missing := newUUID()
	_, err := env.tasks.Create(context.Background(), env.owner.ID, service.TaskCreate{
		Title:        "Write report",
		AssignedToID: &missing,
	})
	assert.ErrorIs(t, err, service.ErrAssigneeNotFound)

	// Nothing was persisted
	var count int64
	require.NoError(t, env.db.Model(&model.Task{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestTaskService_Get_VisibilityMatrix(t *testing.T) {
	env := setupTaskTestEnv(t)

	task := env.createTask(t, service.TaskCreate{
		Title:        "Write report",
		AssignedToID: &env.other.ID,
	})

	// Owner sees it
	_, err := env.tasks.Get(context.Background(), task.ID, env.owner.ID)
	assert.NoError(t, err)

	// Assignee sees it
	_, err = env.tasks.Get(context.Background(), task.ID, env.other.ID)
	assert.NoError(t, err)

	// A third party does not
	stranger := registerUser(t, env.users, "Stranger", "stranger@x.com", "password3")
	_, err = env.tasks.Get(context.Background(), task.ID, stranger.ID)
	assert.ErrorIs(t, err, service.ErrForbidden)
}

func TestTaskService_Get_NotFound(t *testing.T) {
	env := setupTaskTestEnv(t)

	_, err := env.tasks.Get(context.Background(), newUUID(), env.owner.ID)
	assert.ErrorIs(t, err, service.ErrTaskNotFound)
}

func TestTaskService_ListOwned(t *testing.T) {
	env := setupTaskTestEnv(t)

	env.createTask(t, service.TaskCreate{Title: "First"})
	second := env.createTask(t, service.TaskCreate{Title: "Second"})

	status := model.StatusCompleted
	_, err := env.tasks.Update(context.Background(), second.ID, env.owner.ID, service.TaskUpdate{Status: &status})
	require.NoError(t, err)

	all, err := env.tasks.ListOwned(context.Background(), env.owner.ID, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	completed, err := env.tasks.ListOwned(context.Background(), env.owner.ID, model.StatusCompleted)
	require.NoError(t, err)
	require.Len(t, completed, 1)
	assert.Equal(t, "Second", completed[0].Title)

	// Another user's list is empty
	none, err := env.tasks.ListOwned(context.Background(), env.other.ID, "")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestTaskService_ListOwned_InvalidStatus(t *testing.T) {
	env := setupTaskTestEnv(t)

	_, err := env.tasks.ListOwned(context.Background(), env.owner.ID, "archived")
	assert.ErrorIs(t, err, service.ErrInvalidStatus)
}

func TestTaskService_ListAssigned(t *testing.T) {
	env := setupTaskTestEnv(t)

	env.createTask(t, service.TaskCreate{Title: "Own work"})
	delegated := env.createTask(t, service.TaskCreate{
		Title:        "Delegated",
		AssignedToID: &env.other.ID,
	})

	assigned, err := env.tasks.ListAssigned(context.Background(), env.other.ID)
	require.NoError(t, err)
	require.Len(t, assigned, 1)
	assert.Equal(t, delegated.ID, assigned[0].ID)
}

func TestTaskService_Update_Partial(t *testing.T) {
	env := setupTaskTestEnv(t)

	due := time.Now().UTC().Add(48 * time.Hour)
	task := env.createTask(t, service.TaskCreate{
		Title:       "Write report",
		Description: "Quarterly numbers",
		DueDate:     &due,
	})

	updated, err := env.tasks.Update(context.Background(), task.ID, env.owner.ID, service.TaskUpdate{
		Title: strPtr("Write the report"),
	})
	require.NoError(t, err)

	// Unset fields stay as they were
	assert.Equal(t, "Write the report", updated.Title)
	assert.Equal(t, "Quarterly numbers", updated.Description)
	assert.Equal(t, model.StatusPending, updated.Status)
	require.NotNil(t, updated.DueDate)
	assert.WithinDuration(t, due, *updated.DueDate, time.Second)
}

func TestTaskService_Update_StatusTransitionsAreFree(t *testing.T) {
	env := setupTaskTestEnv(t)

	task := env.createTask(t, service.TaskCreate{Title: "Write report"})

	// Any status is reachable from any other, completed included
	for _, status := range []string{
		model.StatusCompleted,
		model.StatusPending,
		model.StatusInProgress,
		model.StatusPending,
	} {
		s := status
		updated, err := env.tasks.Update(context.Background(), task.ID, env.owner.ID, service.TaskUpdate{Status: &s})
		require.NoError(t, err)
		assert.Equal(t, status, updated.Status)
	}
}

func TestTaskService_Update_InvalidStatus(t *testing.T) {
	env := setupTaskTestEnv(t)

	task := env.createTask(t, service.TaskCreate{Title: "Write report"})

	_, err := env.tasks.Update(context.Background(), task.ID, env.owner.ID, service.TaskUpdate{
		Status: strPtr("archived"),
	})
	assert.ErrorIs(t, err, service.ErrInvalidStatus)
}

func TestTaskService_Update_AssigneeMayNotMutate(t *testing.T) {
	env := setupTaskTestEnv(t)

	task := env.createTask(t, service.TaskCreate{
		Title:        "Write report",
		AssignedToID: &env.other.ID,
	})

	_, err := env.tasks.Update(context.Background(), task.ID, env.other.ID, service.TaskUpdate{
		Title: strPtr("Hijacked"),
	})
	assert.ErrorIs(t, err, service.ErrForbidden)
}

func TestTaskService_Update_AssigneeNotFound(t *testing.T) {
	env := setupTaskTestEnv(t)

	task := env.createTask(t, service.TaskCreate{Title: "Write report"})

	missing := newUUID()
	_, err := env.tasks.Update(context.Background(), task.ID, env.owner.ID, service.TaskUpdate{
		AssignedToID: &missing,
	})
	assert.ErrorIs(t, err, service.ErrAssigneeNotFound)
}

func TestTaskService_Update_RefreshesUpdatedAt(t *testing.T) {
	env := setupTaskTestEnv(t)

	task := env.createTask(t, service.TaskCreate{Title: "Write report"})
	before := task.UpdatedAt

	time.Sleep(10 * time.Millisecond)

	updated, err := env.tasks.Update(context.Background(), task.ID, env.owner.ID, service.TaskUpdate{
		Title: strPtr("Write the report"),
	})
	require.NoError(t, err)
	assert.True(t, updated.UpdatedAt.After(before))
}

func TestTaskService_Delete(t *testing.T) {
	env := setupTaskTestEnv(t)

	task := env.createTask(t, service.TaskCreate{Title: "Write report"})

	require.NoError(t, env.tasks.Delete(context.Background(), task.ID, env.owner.ID))

	_, err := env.tasks.Get(context.Background(), task.ID, env.owner.ID)
	assert.ErrorIs(t, err, service.ErrTaskNotFound)
}

func TestTaskService_Delete_OwnerOnly(t *testing.T) {
	env := setupTaskTestEnv(t)

	task := env.createTask(t, service.TaskCreate{
		Title:        "Write report",
		AssignedToID: &env.other.ID,
	})

	// Even the assignee may not delete
	err := env.tasks.Delete(context.Background(), task.ID, env.other.ID)
	assert.ErrorIs(t, err, service.ErrForbidden)

	err = env.tasks.Delete(context.Background(), newUUID(), env.owner.ID)
	assert.ErrorIs(t, err, service.ErrTaskNotFound)
}
