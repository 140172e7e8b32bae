package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"tasktracker/internal/model"
	"tasktracker/internal/repository"
)

var (
	ErrTaskNotFound     = errors.New("task not found")
	ErrForbidden        = errors.New("permission denied")
	ErrAssigneeNotFound = errors.New("assigned user not found")
	ErrInvalidStatus    = errors.New("invalid task status")
)

// TaskService holds the business rules for tasks: who may see,
// change, or delete them, and how assignments are validated.
type TaskService struct {
	taskRepo *repository.TaskRepository
	userRepo *repository.UserRepository
}

func NewTaskService(taskRepo *repository.TaskRepository, userRepo *repository.UserRepository) *TaskService {
	return &TaskService{taskRepo: taskRepo, userRepo: userRepo}
}

// TaskCreate is the data required to create a task.
type TaskCreate struct {
	Title        string
	Description  string
	DueDate      *time.Time
	AssignedToID *uuid.UUID
}

// TaskUpdate carries a partial update; nil fields are left untouched.
type TaskUpdate struct {
	Title        *string
	Description  *string
	Status       *string
	DueDate      *time.Time
	AssignedToID *uuid.UUID
}

// Create stores a new task owned by ownerID. Status always starts as
// pending. If an assignee is given it must be an existing user.
func (s *TaskService) Create(ctx context.Context, ownerID uuid.UUID, input TaskCreate) (*model.Task, error) {
	if input.AssignedToID != nil {
		if err := s.checkAssignee(ctx, *input.AssignedToID); err != nil {
			return nil, err
		}
	}

	task := &model.Task{
		ID:           uuid.New(),
		Title:        input.Title,
		Description:  input.Description,
		Status:       model.StatusPending,
		OwnerID:      ownerID,
		AssignedToID: input.AssignedToID,
		DueDate:      input.DueDate,
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return task, nil
}

// Get returns a task if the caller is its owner or its assignee.
func (s *TaskService) Get(ctx context.Context, taskID, callerID uuid.UUID) (*model.Task, error) {
	task, err := s.fetch(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.OwnerID != callerID && !isAssignee(task, callerID) {
		return nil, ErrForbidden
	}
	return task, nil
}

// ListOwned returns the caller's own tasks, optionally filtered to a
// single status. An empty status means no filter.
func (s *TaskService) ListOwned(ctx context.Context, callerID uuid.UUID, status string) ([]model.Task, error) {
	if status != "" && !model.ValidStatus(status) {
		return nil, ErrInvalidStatus
	}
	tasks, err := s.taskRepo.GetByOwner(ctx, callerID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// ListAssigned returns the tasks delegated to the caller.
func (s *TaskService) ListAssigned(ctx context.Context, callerID uuid.UUID) ([]model.Task, error) {
	tasks, err := s.taskRepo.GetByAssignee(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// Update applies the supplied fields to a task. Only the owner may
// update; the assignee has read-only visibility. Status may move
// freely between the three values.
func (s *TaskService) Update(ctx context.Context, taskID, callerID uuid.UUID, update TaskUpdate) (*model.Task, error) {
	task, err := s.fetch(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.OwnerID != callerID {
		return nil, ErrForbidden
	}

	if update.Status != nil && !model.ValidStatus(*update.Status) {
		return nil, ErrInvalidStatus
	}
	if update.AssignedToID != nil {
		if err := s.checkAssignee(ctx, *update.AssignedToID); err != nil {
			return nil, err
		}
		task.AssignedToID = update.AssignedToID
	}
	if update.Title != nil {
		task.Title = *update.Title
	}
	if update.Description != nil {
		task.Description = *update.Description
	}
	if update.Status != nil {
		task.Status = *update.Status
	}
	if update.DueDate != nil {
		task.DueDate = update.DueDate
	}

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return task, nil
}

// Delete removes a task. Only the owner may delete.
func (s *TaskService) Delete(ctx context.Context, taskID, callerID uuid.UUID) error {
	task, err := s.fetch(ctx, taskID)
	if err != nil {
		return err
	}
	if task.OwnerID != callerID {
		return ErrForbidden
	}

	if err := s.taskRepo.Delete(ctx, taskID); err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

func (s *TaskService) fetch(ctx context.Context, taskID uuid.UUID) (*model.Task, error) {
	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to fetch task: %w", err)
	}
	return task, nil
}

func (s *TaskService) checkAssignee(ctx context.Context, userID uuid.UUID) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to check assignee: %w", err)
	}
	if user == nil {
		return ErrAssigneeNotFound
	}
	return nil
}

func isAssignee(task *model.Task, userID uuid.UUID) bool {
	return task.AssignedToID != nil && *task.AssignedToID == userID
}
