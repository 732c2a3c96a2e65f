package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/Ye-Yu-Mo/task-view/internal/model"
	"github.com/Ye-Yu-Mo/task-view/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type TaskHandler struct {
	taskRepo   repository.TaskRepositoryInterface
	inviteRepo repository.InviteRepositoryInterface
}

func NewTaskHandler(taskRepo repository.TaskRepositoryInterface, inviteRepo repository.InviteRepositoryInterface) *TaskHandler {
	return &TaskHandler{
		taskRepo:   taskRepo,
		inviteRepo: inviteRepo,
	}
}

// CreateTaskRequest представляет запрос на создание задачи
type CreateTaskRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description *string `json:"description"`
	CreatorID   string  `json:"creator_id" binding:"required,uuid"`
	InviteID    string  `json:"invite_id" binding:"required,uuid"`
}

// UpdateTaskRequest представляет запрос на частичное обновление задачи
type UpdateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status" binding:"omitempty,taskstatus"`
	ExecutorID  *string `json:"executor_id" binding:"omitempty,uuid"`
}

// UpdateTaskStatusRequest представляет запрос на смену статуса задачи
type UpdateTaskStatusRequest struct {
	Status string `json:"status" binding:"required,taskstatus"`
}

// Create создает новую задачу в рамках приглашения
//
// @Summary Create a task
// @Tags Tasks
// @Accept json
// @Produce json
// @Param request body CreateTaskRequest true "Task"
// @Success 201 {object} TaskResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/tasks [post]
func (h *TaskHandler) Create(c *gin.Context) {
	// Парсим запрос
	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title must not be empty"})
		return
	}
	creatorID, err := uuid.Parse(req.CreatorID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid creator ID"})
		return
	}
	inviteID, err := uuid.Parse(req.InviteID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid invite ID"})
		return
	}

	// Проверяем, что приглашение принадлежит создателю
	if _, err = h.inviteRepo.GetOwnedBy(c.Request.Context(), inviteID, creatorID); err != nil {
		if errors.Is(err, repository.ErrInviteNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invite not found or does not belong to creator"})
			return
		}
		internalError(c, "DB error", err)
		return
	}

	// Создаем новую задачу
	now := time.Now().UTC()
	task := &model.Task{
		ID:          uuid.New(),
		Title:       req.Title,
		Description: req.Description,
		Status:      model.TaskStatusTodo,
		CreatorID:   creatorID,
		InviteID:    inviteID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	// Сохраняем задачу в БД
	created, err := h.taskRepo.Create(c.Request.Context(), task)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidReference) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invite not found or does not belong to creator"})
			return
		}
		internalError(c, "Failed to create task", err)
		return
	}

	c.JSON(http.StatusCreated, newTaskResponse(created))
}

// ListByInvite получает все задачи приглашения
//
// @Summary List tasks of an invite
// @Tags Tasks
// @Accept json
// @Produce json
// @Param invite_id path string true "Invite ID"
// @Success 200 {object} TaskListResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/tasks/{invite_id} [get]
func (h *TaskHandler) ListByInvite(c *gin.Context) {
	inviteID, err := uuid.Parse(c.Param("invite_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid invite ID"})
		return
	}

	tasks, err := h.taskRepo.ListByInvite(c.Request.Context(), inviteID)
	if err != nil {
		internalError(c, "Failed to get tasks", err)
		return
	}

	c.JSON(http.StatusOK, newTaskListResponse(tasks))
}

// Update частично обновляет задачу
//
// @Summary Partially update a task
// @Tags Tasks
// @Accept json
// @Produce json
// @Param task_id path string true "Task ID"
// @Param request body UpdateTaskRequest true "Fields to change"
// @Success 200 {object} TaskResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/task/{task_id} [put]
func (h *TaskHandler) Update(c *gin.Context) {
	// Парсим ID задачи из URL
	taskID, err := uuid.Parse(c.Param("task_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID"})
		return
	}

	// Парсим запрос
	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title must not be empty"})
		return
	}
	if req.Status != nil && !model.TaskStatus(*req.Status).Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}
	var executorID *uuid.UUID
	if req.ExecutorID != nil {
		id, err := uuid.Parse(*req.ExecutorID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid executor ID"})
			return
		}
		executorID = &id
	}

	// Применяем изменения внутри транзакции репозитория
	task, err := h.taskRepo.Update(c.Request.Context(), taskID, func(task *model.Task) error {
		if req.Title != nil {
			task.Title = *req.Title
		}
		if req.Description != nil {
			task.Description = req.Description
		}
		if req.Status != nil {
			if err := task.SetStatus(model.TaskStatus(*req.Status)); err != nil {
				return err
			}
		}
		if executorID != nil {
			task.ExecutorID = executorID
		}
		task.UpdatedAt = time.Now().UTC()
		return nil
	})
	if err != nil {
		writeTaskUpdateError(c, err)
		return
	}

	c.JSON(http.StatusOK, newTaskResponse(task))
}

// UpdateStatus меняет только статус задачи
//
// @Summary Change task status
// @Tags Tasks
// @Accept json
// @Produce json
// @Param task_id path string true "Task ID"
// @Param request body UpdateTaskStatusRequest true "New status"
// @Success 200 {object} TaskResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/task/{task_id}/status [put]
func (h *TaskHandler) UpdateStatus(c *gin.Context) {
	taskID, err := uuid.Parse(c.Param("task_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID"})
		return
	}

	var req UpdateTaskStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}

	task, err := h.taskRepo.Update(c.Request.Context(), taskID, func(task *model.Task) error {
		if err := task.SetStatus(model.TaskStatus(req.Status)); err != nil {
			return err
		}
		task.UpdatedAt = time.Now().UTC()
		return nil
	})
	if err != nil {
		writeTaskUpdateError(c, err)
		return
	}

	c.JSON(http.StatusOK, newTaskResponse(task))
}

// Delete удаляет задачу
//
// @Summary Delete a task
// @Tags Tasks
// @Accept json
// @Produce json
// @Param task_id path string true "Task ID"
// @Success 204
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/task/{task_id} [delete]
func (h *TaskHandler) Delete(c *gin.Context) {
	taskID, err := uuid.Parse(c.Param("task_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID"})
		return
	}

	if err := h.taskRepo.Delete(c.Request.Context(), taskID); err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
			return
		}
		internalError(c, "Failed to delete task", err)
		return
	}

	c.Status(http.StatusNoContent)
}

func writeTaskUpdateError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrTaskNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
	case errors.Is(err, model.ErrInvalidStatus), errors.Is(err, model.ErrInvalidTransition):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
	case errors.Is(err, repository.ErrInvalidReference):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Executor not found"})
	default:
		internalError(c, "Failed to update task", err)
	}
}
