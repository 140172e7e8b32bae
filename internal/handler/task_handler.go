package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"tasktracker/internal/service"
)

type TaskHandler struct {
	tasks *service.TaskService
}

func NewTaskHandler(tasks *service.TaskService) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

type taskCreateRequest struct {
	Title        string     `json:"title" binding:"required"`
	Description  string     `json:"description"`
	DueDate      *time.Time `json:"due_date"`
	AssignedToID *uuid.UUID `json:"assigned_to_id"`
}

type taskUpdateRequest struct {
	Title        *string    `json:"title" binding:"omitempty,min=1"`
	Description  *string    `json:"description"`
	Status       *string    `json:"status" binding:"omitempty,oneof=pending in_progress completed"`
	DueDate      *time.Time `json:"due_date"`
	AssignedToID *uuid.UUID `json:"assigned_to_id"`
}

// Create creates a task owned by the caller.
func (h *TaskHandler) Create(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}

	var req taskCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid input"})
		return
	}

	task, err := h.tasks.Create(c.Request.Context(), caller, service.TaskCreate{
		Title:        req.Title,
		Description:  req.Description,
		DueDate:      req.DueDate,
		AssignedToID: req.AssignedToID,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toTaskResponse(task))
}

// GetByID returns a task visible to the caller as owner or assignee.
func (h *TaskHandler) GetByID(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	task, err := h.tasks.Get(c.Request.Context(), id, caller)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toTaskResponse(task))
}

// List returns the caller's own tasks, optionally filtered by the
// status query parameter.
func (h *TaskHandler) List(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}

	tasks, err := h.tasks.ListOwned(c.Request.Context(), caller, c.Query("status"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toTaskResponses(tasks))
}

// ListAssigned returns the tasks delegated to the caller.
func (h *TaskHandler) ListAssigned(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}

	tasks, err := h.tasks.ListAssigned(c.Request.Context(), caller)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toTaskResponses(tasks))
}

// Update applies a partial update to a task owned by the caller.
func (h *TaskHandler) Update(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req taskUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid input"})
		return
	}

	task, err := h.tasks.Update(c.Request.Context(), id, caller, service.TaskUpdate{
		Title:        req.Title,
		Description:  req.Description,
		Status:       req.Status,
		DueDate:      req.DueDate,
		AssignedToID: req.AssignedToID,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toTaskResponse(task))
}

// Delete removes a task owned by the caller.
func (h *TaskHandler) Delete(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.tasks.Delete(c.Request.Context(), id, caller); err != nil {
		respondServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
