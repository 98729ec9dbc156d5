package handler

import (
	"errors"
	"io"
	"net/http"
	"time"

	"taskify/internal/model"
	"taskify/internal/repository"

	"github.com/gin-gonic/gin"
)

type TaskHandler struct {
	repo repository.TaskStore
	now  func() time.Time
}

func NewTaskHandler(repo repository.TaskStore) *TaskHandler {
	useJSONFieldNames()
	return &TaskHandler{
		repo: repo,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// TaskRequest is the body of both create and update. Absent fields stay nil.
type TaskRequest struct {
	TaskName        *string  `json:"task_name"`
	TaskDescription *string  `json:"task_description"`
	DueDate         *string  `json:"due_date" example:"2024-06-30"`
	Priority        *string  `json:"priority" binding:"omitempty,oneof=Low Medium High"`
	Status          *string  `json:"status" binding:"omitempty,oneof=Pending Completed"`
	Category        *string  `json:"category"`
	EstimatedTime   *float64 `json:"estimated_time" binding:"omitempty,gte=0"`
	ActualTime      *float64 `json:"actual_time" binding:"omitempty,gte=0"`
	Notes           *string  `json:"notes"`
	CompletedAt     *string  `json:"completed_at"`
	AssignedTo      *string  `json:"assigned_to"`
	Tags            *string  `json:"tags"`
}

type TaskListResponse struct {
	Tasks []model.Task `json:"tasks"`
}

type TaskResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Task    *model.Task `json:"task"`
}

const (
	msgTaskNameRequired = "Task name is required"
	msgTaskNotFound     = "Task not found"
	msgInvalidUserID    = "Invalid user ID"
)

// dateLayouts are tried in order when parsing due_date and completed_at.
var dateLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"}

func parseDate(field, raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, errors.New("Invalid value for " + field)
}

// toPatch validates the request and converts it into a TaskPatch.
func (req TaskRequest) toPatch() (model.TaskPatch, error) {
	patch := model.TaskPatch{
		TaskName:        req.TaskName,
		TaskDescription: req.TaskDescription,
		Category:        req.Category,
		EstimatedTime:   req.EstimatedTime,
		ActualTime:      req.ActualTime,
		Notes:           req.Notes,
		AssignedTo:      req.AssignedTo,
		Tags:            req.Tags,
	}
	if req.TaskName != nil && *req.TaskName == "" {
		return patch, errors.New(msgTaskNameRequired)
	}
	if req.Priority != nil {
		p := model.Priority(*req.Priority)
		patch.Priority = &p
	}
	if req.Status != nil {
		s := model.Status(*req.Status)
		patch.Status = &s
	}

	var err error
	if req.DueDate != nil {
		if patch.DueDate, err = parseDate("due_date", *req.DueDate); err != nil {
			return patch, err
		}
	}
	if req.CompletedAt != nil {
		if patch.CompletedAt, err = parseDate("completed_at", *req.CompletedAt); err != nil {
			return patch, err
		}
	}
	return patch, nil
}

// List godoc
// @Summary      List every task owned by a user
// @Tags         Tasks
// @Produce      json
// @Param        user_id  path      string  true  "Owner ID"
// @Success      200      {object}  TaskListResponse
// @Failure      500      {object}  ErrorResponse
// @Router       /api/usersTasks/{user_id} [get]
func (h *TaskHandler) List(c *gin.Context) {
	tasks, err := h.repo.ListByOwner(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		respondStoreFailure(c, "list_tasks", err)
		return
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	c.JSON(http.StatusOK, TaskListResponse{Tasks: tasks})
}

// Create godoc
// @Summary      Add a task for a user
// @Tags         Tasks
// @Accept       json
// @Produce      json
// @Param        user_id  path      string       true  "Owner ID"
// @Param        body     body      TaskRequest  true  "Task fields; task_name is required"
// @Success      200      {object}  TaskResponse
// @Failure      400      {object}  ErrorResponse
// @Failure      500      {object}  ErrorResponse
// @Router       /api/usersTasks/{user_id} [post]
func (h *TaskHandler) Create(c *gin.Context) {
	var req TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if isMissingInput(err) {
			respondError(c, http.StatusBadRequest, msgTaskNameRequired)
			return
		}
		respondError(c, http.StatusBadRequest, bindErrorMessage(err))
		return
	}
	if req.TaskName == nil || *req.TaskName == "" {
		respondError(c, http.StatusBadRequest, msgTaskNameRequired)
		return
	}

	patch, err := req.toPatch()
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	now := h.now()
	task := model.NewTask(c.Param("user_id"), *req.TaskName, now)
	applyCreateFields(task, patch)

	if err := h.repo.Create(c.Request.Context(), task); err != nil {
		if errors.Is(err, repository.ErrInvalidID) {
			respondError(c, http.StatusBadRequest, msgInvalidUserID)
			return
		}
		respondStoreFailure(c, "create_task", err)
		return
	}

	c.JSON(http.StatusOK, TaskResponse{
		Success: true,
		Message: "Task added successfully",
		Task:    task,
	})
}

// applyCreateFields copies the optional fields supplied at creation over the defaults.
func applyCreateFields(task *model.Task, p model.TaskPatch) {
	if p.TaskDescription != nil {
		task.TaskDescription = *p.TaskDescription
	}
	task.DueDate = p.DueDate
	if p.Priority != nil {
		task.Priority = *p.Priority
	}
	if p.Status != nil {
		task.Status = *p.Status
	}
	if p.Category != nil {
		task.Category = *p.Category
	}
	if p.EstimatedTime != nil {
		task.EstimatedTime = *p.EstimatedTime
	}
	task.ActualTime = p.ActualTime
	if p.Notes != nil {
		task.Notes = *p.Notes
	}
	task.CompletedAt = p.CompletedAt
	if p.AssignedTo != nil && *p.AssignedTo != "" {
		task.AssignedTo = *p.AssignedTo
	}
	if p.Tags != nil {
		task.Tags = *p.Tags
	}
}

// Update godoc
// @Summary      Partially update a task owned by a user
// @Tags         Tasks
// @Accept       json
// @Produce      json
// @Param        user_id  path      string       true  "Owner ID"
// @Param        taskId   path      string       true  "Task ID"
// @Param        body     body      TaskRequest  true  "Fields to change"
// @Success      200      {object}  TaskResponse
// @Failure      400      {object}  ErrorResponse
// @Failure      404      {object}  ErrorResponse
// @Failure      500      {object}  ErrorResponse
// @Router       /api/usersTasks/{user_id}/{taskId} [patch]
func (h *TaskHandler) Update(c *gin.Context) {
	var req TaskRequest
	// An empty body is an empty patch: only updated_at moves.
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		respondError(c, http.StatusBadRequest, bindErrorMessage(err))
		return
	}

	patch, err := req.toPatch()
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	task, err := h.repo.UpdateOwned(c.Request.Context(), c.Param("user_id"), c.Param("taskId"), patch, h.now())
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			respondError(c, http.StatusNotFound, msgTaskNotFound)
			return
		}
		respondStoreFailure(c, "update_task", err)
		return
	}

	c.JSON(http.StatusOK, TaskResponse{
		Success: true,
		Message: "Task updated successfully",
		Task:    task,
	})
}

// Delete godoc
// @Summary      Delete a task owned by a user
// @Tags         Tasks
// @Produce      json
// @Param        user_id  path      string  true  "Owner ID"
// @Param        taskId   path      string  true  "Task ID"
// @Success      200      {object}  MessageResponse
// @Failure      404      {object}  ErrorResponse
// @Failure      500      {object}  ErrorResponse
// @Router       /api/usersTasks/{user_id}/{taskId} [delete]
func (h *TaskHandler) Delete(c *gin.Context) {
	err := h.repo.DeleteOwned(c.Request.Context(), c.Param("user_id"), c.Param("taskId"))
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			respondError(c, http.StatusNotFound, msgTaskNotFound)
			return
		}
		respondStoreFailure(c, "delete_task", err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{
		Success: true,
		Message: "Task deleted successfully",
	})
}
