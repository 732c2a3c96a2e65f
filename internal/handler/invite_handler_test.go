package handler_test

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/Ye-Yu-Mo/task-view/internal/handler"
	"github.com/Ye-Yu-Mo/task-view/internal/model"
	"github.com/Ye-Yu-Mo/task-view/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupInviteTest(t *testing.T) (*gin.Engine, *MockInviteRepository, *MockUserRepository) {
	gin.SetMode(gin.TestMode)
	require.NoError(t, handler.RegisterValidators())

	r := gin.New()
	inviteRepo := new(MockInviteRepository)
	userRepo := new(MockUserRepository)
	inviteHandler := handler.NewInviteHandler(inviteRepo, userRepo)

	r.POST("/invites", inviteHandler.Create)
	r.POST("/invites/use", inviteHandler.Use)
	r.GET("/invites/:user_id", inviteHandler.ListByCreator)
	r.GET("/invites/executor/:executor_id", inviteHandler.ListByExecutor)
	r.GET("/invite/:invite_id", inviteHandler.GetByID)
	return r, inviteRepo, userRepo
}

func TestCreateInvite_Success(t *testing.T) {
	// Arrange
	router, inviteRepo, userRepo := setupInviteTest(t)
	creatorID := uuid.New()

	userRepo.On("GetByIDAndRole", mock.Anything, creatorID, model.RoleCreator).
		Return(&model.User{ID: creatorID, Role: model.RoleCreator}, nil)
	inviteRepo.On("Create", mock.Anything, mock.MatchedBy(func(i *model.Invite) bool {
		return i.CreatorID == creatorID && i.Status == model.InviteStatusPending
	})).Return(nil)

	// Act
	resp := performJSON(router, http.MethodPost, "/invites", handler.CreateInviteRequest{CreatorID: creatorID.String()})

	// Assert
	assert.Equal(t, http.StatusCreated, resp.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &response))
	assert.Equal(t, "pending", response["status"])
	assert.Equal(t, creatorID.String(), response["creator_id"])
	assert.Regexp(t, `^[0-9A-F]{8}$`, response["code"])
	assert.Nil(t, response["executor_id"])
	assert.Nil(t, response["used_at"])
	assert.Contains(t, response, "used_at")

	inviteRepo.AssertExpectations(t)
	userRepo.AssertExpectations(t)
}

func TestCreateInvite_NotACreator(t *testing.T) {
	// Arrange
	router, inviteRepo, userRepo := setupInviteTest(t)
	executorID := uuid.New()

	userRepo.On("GetByIDAndRole", mock.Anything, executorID, model.RoleCreator).Return(nil, repository.ErrUserNotFound)

	// Act
	resp := performJSON(router, http.MethodPost, "/invites", handler.CreateInviteRequest{CreatorID: executorID.String()})

	// Assert: приглашение не создается
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	inviteRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateInvite_MalformedCreatorID(t *testing.T) {
	router, inviteRepo, userRepo := setupInviteTest(t)

	resp := performJSON(router, http.MethodPost, "/invites", `{"creator_id":"42"}`)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	userRepo.AssertNotCalled(t, "GetByIDAndRole", mock.Anything, mock.Anything, mock.Anything)
	inviteRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUseInvite_Success(t *testing.T) {
	// Arrange
	router, inviteRepo, userRepo := setupInviteTest(t)
	executorID := uuid.New()
	usedAt := time.Now().UTC()
	redeemed := &model.Invite{
		ID:         uuid.New(),
		Code:       "ABCDEF12",
		CreatorID:  uuid.New(),
		ExecutorID: &executorID,
		Status:     model.InviteStatusUsed,
		CreatedAt:  usedAt.Add(-time.Hour),
		UsedAt:     &usedAt,
	}

	userRepo.On("GetByIDAndRole", mock.Anything, executorID, model.RoleExecutor).
		Return(&model.User{ID: executorID, Role: model.RoleExecutor}, nil)
	// Код нормализуется к верхнему регистру
	inviteRepo.On("Redeem", mock.Anything, "ABCDEF12", executorID, mock.AnythingOfType("time.Time")).Return(redeemed, nil)

	// Act
	resp := performJSON(router, http.MethodPost, "/invites/use", handler.UseInviteRequest{
		Code:       " abcdef12 ",
		ExecutorID: executorID.String(),
	})

	// Assert
	assert.Equal(t, http.StatusOK, resp.Code)

	var response handler.UseInviteResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &response))
	assert.NotEmpty(t, response.Message)
	assert.Equal(t, "used", response.Invite.Status)
	require.NotNil(t, response.Invite.ExecutorID)
	assert.Equal(t, executorID.String(), *response.Invite.ExecutorID)
	require.NotNil(t, response.Invite.UsedAt)

	inviteRepo.AssertExpectations(t)
	userRepo.AssertExpectations(t)
}

func TestUseInvite_AlreadyUsed(t *testing.T) {
	// Arrange
	router, inviteRepo, userRepo := setupInviteTest(t)
	executorID := uuid.New()

	userRepo.On("GetByIDAndRole", mock.Anything, executorID, model.RoleExecutor).
		Return(&model.User{ID: executorID, Role: model.RoleExecutor}, nil)
	inviteRepo.On("Redeem", mock.Anything, "ABCDEF12", executorID, mock.Anything).Return(nil, repository.ErrInviteNotFound)

	// Act
	resp := performJSON(router, http.MethodPost, "/invites/use", handler.UseInviteRequest{
		Code:       "ABCDEF12",
		ExecutorID: executorID.String(),
	})

	// Assert
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, "Invite not found or already used", decodeError(resp))
}

func TestUseInvite_NotAnExecutor(t *testing.T) {
	router, inviteRepo, userRepo := setupInviteTest(t)
	creatorID := uuid.New()

	userRepo.On("GetByIDAndRole", mock.Anything, creatorID, model.RoleExecutor).Return(nil, repository.ErrUserNotFound)

	resp := performJSON(router, http.MethodPost, "/invites/use", handler.UseInviteRequest{
		Code:       "ABCDEF12",
		ExecutorID: creatorID.String(),
	})

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	inviteRepo.AssertNotCalled(t, "Redeem", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestListInvites(t *testing.T) {
	// Arrange
	router, inviteRepo, _ := setupInviteTest(t)
	creatorID := uuid.New()
	executorID := uuid.New()
	now := time.Now().UTC()

	inviteRepo.On("ListByCreator", mock.Anything, creatorID).Return([]model.Invite{
		{ID: uuid.New(), Code: "AAAAAAAA", CreatorID: creatorID, Status: model.InviteStatusPending, CreatedAt: now},
		{ID: uuid.New(), Code: "BBBBBBBB", CreatorID: creatorID, Status: model.InviteStatusUsed, ExecutorID: &executorID, CreatedAt: now, UsedAt: &now},
	}, nil)
	inviteRepo.On("ListByExecutor", mock.Anything, executorID).Return([]model.Invite{}, nil)

	// Act
	byCreator := performJSON(router, http.MethodGet, "/invites/"+creatorID.String(), nil)
	byExecutor := performJSON(router, http.MethodGet, "/invites/executor/"+executorID.String(), nil)

	// Assert
	assert.Equal(t, http.StatusOK, byCreator.Code)
	var created handler.InviteListResponse
	require.NoError(t, json.Unmarshal(byCreator.Body.Bytes(), &created))
	assert.Len(t, created.Invites, 2)

	assert.Equal(t, http.StatusOK, byExecutor.Code)
	assert.JSONEq(t, `{"invites":[]}`, byExecutor.Body.String())

	inviteRepo.AssertExpectations(t)
}

func TestGetInvite(t *testing.T) {
	router, inviteRepo, _ := setupInviteTest(t)
	invite := model.NewInvite(uuid.New(), time.Now().UTC())
	unknown := uuid.New()

	inviteRepo.On("GetByID", mock.Anything, invite.ID).Return(invite, nil)
	inviteRepo.On("GetByID", mock.Anything, unknown).Return(nil, repository.ErrInviteNotFound)

	resp := performJSON(router, http.MethodGet, "/invite/"+invite.ID.String(), nil)
	assert.Equal(t, http.StatusOK, resp.Code)

	resp = performJSON(router, http.MethodGet, "/invite/"+unknown.String(), nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp = performJSON(router, http.MethodGet, "/invite/nope", nil)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}
