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

type InviteHandler struct {
	inviteRepo repository.InviteRepositoryInterface
	userRepo   repository.UserRepositoryInterface
}

func NewInviteHandler(inviteRepo repository.InviteRepositoryInterface, userRepo repository.UserRepositoryInterface) *InviteHandler {
	return &InviteHandler{
		inviteRepo: inviteRepo,
		userRepo:   userRepo,
	}
}

// CreateInviteRequest представляет запрос на создание приглашения
type CreateInviteRequest struct {
	CreatorID string `json:"creator_id" binding:"required,uuid"`
}

// UseInviteRequest представляет запрос на активацию приглашения по коду
type UseInviteRequest struct {
	Code       string `json:"code" binding:"required"`
	ExecutorID string `json:"executor_id" binding:"required,uuid"`
}

// UseInviteResponse представляет ответ на активацию приглашения
type UseInviteResponse struct {
	Message string         `json:"message"`
	Invite  InviteResponse `json:"invite"`
}

// Create создает новое приглашение от имени создателя
//
// @Summary Create an invite
// @Tags Invites
// @Accept json
// @Produce json
// @Param request body CreateInviteRequest true "Creator"
// @Success 201 {object} InviteResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/invites [post]
func (h *InviteHandler) Create(c *gin.Context) {
	var req CreateInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	creatorID, err := uuid.Parse(req.CreatorID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid creator ID"})
		return
	}

	// Проверяем, что пользователь существует и имеет роль creator
	if _, err = h.userRepo.GetByIDAndRole(c.Request.Context(), creatorID, model.RoleCreator); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Creator not found or user is not a creator"})
			return
		}
		internalError(c, "DB error", err)
		return
	}

	invite := model.NewInvite(creatorID, time.Now().UTC())
	if err = h.inviteRepo.Create(c.Request.Context(), invite); err != nil {
		internalError(c, "Failed to create invite", err)
		return
	}

	c.JSON(http.StatusCreated, newInviteResponse(invite))
}

// Use привязывает исполнителя к приглашению и помечает его как использованное
//
// @Summary Redeem an invite code
// @Tags Invites
// @Accept json
// @Produce json
// @Param request body UseInviteRequest true "Code and executor"
// @Success 200 {object} UseInviteResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/invites/use [post]
func (h *InviteHandler) Use(c *gin.Context) {
	var req UseInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	executorID, err := uuid.Parse(req.ExecutorID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid executor ID"})
		return
	}
	code := strings.ToUpper(strings.TrimSpace(req.Code))

	// Проверяем, что пользователь существует и имеет роль executor
	if _, err = h.userRepo.GetByIDAndRole(c.Request.Context(), executorID, model.RoleExecutor); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Executor not found or user is not an executor"})
			return
		}
		internalError(c, "DB error", err)
		return
	}

	invite, err := h.inviteRepo.Redeem(c.Request.Context(), code, executorID, time.Now().UTC())
	if err != nil {
		if errors.Is(err, repository.ErrInviteNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Invite not found or already used"})
			return
		}
		internalError(c, "Failed to use invite", err)
		return
	}

	c.JSON(http.StatusOK, UseInviteResponse{
		Message: "Invite used successfully",
		Invite:  newInviteResponse(invite),
	})
}

// ListByCreator возвращает все приглашения, созданные пользователем
//
// @Summary List invites created by a user
// @Tags Invites
// @Accept json
// @Produce json
// @Param user_id path string true "Creator ID"
// @Success 200 {object} InviteListResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/invites/{user_id} [get]
func (h *InviteHandler) ListByCreator(c *gin.Context) {
	creatorID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	invites, err := h.inviteRepo.ListByCreator(c.Request.Context(), creatorID)
	if err != nil {
		internalError(c, "Failed to get invites", err)
		return
	}

	c.JSON(http.StatusOK, newInviteListResponse(invites))
}

// ListByExecutor возвращает все приглашения, активированные исполнителем
//
// @Summary List invites redeemed by an executor
// @Tags Invites
// @Accept json
// @Produce json
// @Param executor_id path string true "Executor ID"
// @Success 200 {object} InviteListResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/invites/executor/{executor_id} [get]
func (h *InviteHandler) ListByExecutor(c *gin.Context) {
	executorID, err := uuid.Parse(c.Param("executor_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid executor ID"})
		return
	}

	invites, err := h.inviteRepo.ListByExecutor(c.Request.Context(), executorID)
	if err != nil {
		internalError(c, "Failed to get invites", err)
		return
	}

	c.JSON(http.StatusOK, newInviteListResponse(invites))
}

// GetByID получает приглашение по ID
//
// @Summary Get an invite
// @Tags Invites
// @Accept json
// @Produce json
// @Param invite_id path string true "Invite ID"
// @Success 200 {object} InviteResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/invite/{invite_id} [get]
func (h *InviteHandler) GetByID(c *gin.Context) {
	inviteID, err := uuid.Parse(c.Param("invite_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid invite ID"})
		return
	}

	invite, err := h.inviteRepo.GetByID(c.Request.Context(), inviteID)
	if err != nil {
		if errors.Is(err, repository.ErrInviteNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Invite not found"})
			return
		}
		internalError(c, "Failed to get invite", err)
		return
	}

	c.JSON(http.StatusOK, newInviteResponse(invite))
}
