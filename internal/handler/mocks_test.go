package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"time"

	"github.com/Ye-Yu-Mo/task-view/internal/handler"
	"github.com/Ye-Yu-Mo/task-view/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// Мок репозитория пользователей
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	args := m.Called(ctx, username, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	user := args.Get(0)
	if user == nil {
		return nil, args.Error(1)
	}
	return user.(*model.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	user := args.Get(0)
	if user == nil {
		return nil, args.Error(1)
	}
	return user.(*model.User), args.Error(1)
}

func (m *MockUserRepository) GetByIDAndRole(ctx context.Context, id uuid.UUID, role model.Role) (*model.User, error) {
	args := m.Called(ctx, id, role)
	user := args.Get(0)
	if user == nil {
		return nil, args.Error(1)
	}
	return user.(*model.User), args.Error(1)
}

// Мок репозитория приглашений
type MockInviteRepository struct {
	mock.Mock
}

func (m *MockInviteRepository) Create(ctx context.Context, invite *model.Invite) error {
	args := m.Called(ctx, invite)
	return args.Error(0)
}

func (m *MockInviteRepository) Redeem(ctx context.Context, code string, executorID uuid.UUID, at time.Time) (*model.Invite, error) {
	args := m.Called(ctx, code, executorID, at)
	invite := args.Get(0)
	if invite == nil {
		return nil, args.Error(1)
	}
	return invite.(*model.Invite), args.Error(1)
}

func (m *MockInviteRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Invite, error) {
	args := m.Called(ctx, id)
	invite := args.Get(0)
	if invite == nil {
		return nil, args.Error(1)
	}
	return invite.(*model.Invite), args.Error(1)
}

func (m *MockInviteRepository) GetOwnedBy(ctx context.Context, id, creatorID uuid.UUID) (*model.Invite, error) {
	args := m.Called(ctx, id, creatorID)
	invite := args.Get(0)
	if invite == nil {
		return nil, args.Error(1)
	}
	return invite.(*model.Invite), args.Error(1)
}

func (m *MockInviteRepository) ListByCreator(ctx context.Context, creatorID uuid.UUID) ([]model.Invite, error) {
	args := m.Called(ctx, creatorID)
	invites := args.Get(0)
	if invites == nil {
		return nil, args.Error(1)
	}
	return invites.([]model.Invite), args.Error(1)
}

func (m *MockInviteRepository) ListByExecutor(ctx context.Context, executorID uuid.UUID) ([]model.Invite, error) {
	args := m.Called(ctx, executorID)
	invites := args.Get(0)
	if invites == nil {
		return nil, args.Error(1)
	}
	return invites.([]model.Invite), args.Error(1)
}

// Мок репозитория задач
type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) Create(ctx context.Context, task *model.Task) (*model.Task, error) {
	args := m.Called(ctx, task)
	created := args.Get(0)
	if created == nil {
		return nil, args.Error(1)
	}
	return created.(*model.Task), args.Error(1)
}

func (m *MockTaskRepository) ListByInvite(ctx context.Context, inviteID uuid.UUID) ([]model.Task, error) {
	args := m.Called(ctx, inviteID)
	tasks := args.Get(0)
	if tasks == nil {
		return nil, args.Error(1)
	}
	return tasks.([]model.Task), args.Error(1)
}

// Update applies the mutation to the stored task given in the first return
// value, mirroring the transactional behavior of the real repository.
func (m *MockTaskRepository) Update(ctx context.Context, id uuid.UUID, apply func(task *model.Task) error) (*model.Task, error) {
	args := m.Called(ctx, id)
	stored := args.Get(0)
	if stored == nil {
		return nil, args.Error(1)
	}
	task := *stored.(*model.Task)
	if err := apply(&task); err != nil {
		return nil, err
	}
	return &task, args.Error(1)
}

func (m *MockTaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func performJSON(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			_ = json.NewEncoder(&buf).Encode(body)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func decodeError(resp *httptest.ResponseRecorder) string {
	var body handler.ErrorResponse
	_ = json.Unmarshal(resp.Body.Bytes(), &body)
	return body.Error
}
