package handler

import (
	"log"
	"net/http"
	"time"

	"github.com/Ye-Yu-Mo/task-view/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ErrorResponse представляет тело ответа с ошибкой
type ErrorResponse struct {
	Error string `json:"error"`
}

// UserResponse представляет публичные данные пользователя (без хеша пароля)
type UserResponse struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at"`
}

// InviteResponse представляет ответ с данными приглашения
type InviteResponse struct {
	ID         string  `json:"id"`
	Code       string  `json:"code"`
	CreatorID  string  `json:"creator_id"`
	ExecutorID *string `json:"executor_id"`
	Status     string  `json:"status"`
	CreatedAt  string  `json:"created_at"`
	UsedAt     *string `json:"used_at"`
}

type InviteListResponse struct {
	Invites []InviteResponse `json:"invites"`
}

// TaskResponse представляет ответ с данными задачи
type TaskResponse struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Status      string  `json:"status"`
	CreatorID   string  `json:"creator_id"`
	ExecutorID  *string `json:"executor_id"`
	InviteID    string  `json:"invite_id"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

type TaskListResponse struct {
	Tasks []TaskResponse `json:"tasks"`
}

// formatTime возвращает время в RFC 3339 (UTC)
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func formatOptionalTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t)
	return &s
}

func formatOptionalID(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

func newUserResponse(u *model.User) UserResponse {
	return UserResponse{
		ID:        u.ID.String(),
		Username:  u.Username,
		Email:     u.Email,
		Role:      string(u.Role),
		CreatedAt: formatTime(u.CreatedAt),
	}
}

func newInviteResponse(i *model.Invite) InviteResponse {
	return InviteResponse{
		ID:         i.ID.String(),
		Code:       i.Code,
		CreatorID:  i.CreatorID.String(),
		ExecutorID: formatOptionalID(i.ExecutorID),
		Status:     string(i.Status),
		CreatedAt:  formatTime(i.CreatedAt),
		UsedAt:     formatOptionalTime(i.UsedAt),
	}
}

func newInviteListResponse(invites []model.Invite) InviteListResponse {
	resp := InviteListResponse{Invites: make([]InviteResponse, 0, len(invites))}
	for i := range invites {
		resp.Invites = append(resp.Invites, newInviteResponse(&invites[i]))
	}
	return resp
}

func newTaskResponse(t *model.Task) TaskResponse {
	return TaskResponse{
		ID:          t.ID.String(),
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		CreatorID:   t.CreatorID.String(),
		ExecutorID:  formatOptionalID(t.ExecutorID),
		InviteID:    t.InviteID.String(),
		CreatedAt:   formatTime(t.CreatedAt),
		UpdatedAt:   formatTime(t.UpdatedAt),
	}
}

func newTaskListResponse(tasks []model.Task) TaskListResponse {
	resp := TaskListResponse{Tasks: make([]TaskResponse, 0, len(tasks))}
	for i := range tasks {
		resp.Tasks = append(resp.Tasks, newTaskResponse(&tasks[i]))
	}
	return resp
}

// internalError logs err and answers 500 with msg
func internalError(c *gin.Context, msg string, err error) {
	log.Printf("❌ %s %s: %v", c.Request.Method, c.FullPath(), err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
}
