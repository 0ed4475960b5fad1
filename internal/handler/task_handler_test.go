package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"planora/internal/auth"
	apperrors "planora/internal/errors"
	"planora/internal/model"
	"planora/internal/service"
)

type testValidator struct {
	validator *validator.Validate
}

func (tv *testValidator) Validate(i interface{}) error {
	return tv.validator.Struct(i)
}

func newTestContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = &testValidator{validator: validator.New()}

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func authenticate(c echo.Context, userID uuid.UUID) {
	c.Set(auth.ContextKey, &jwt.Token{Claims: &auth.Claims{UserID: userID}})
}

// MockTaskService is a mock implementation of service.TaskService.
type MockTaskService struct {
	mock.Mock
}

func (m *MockTaskService) List(ctx context.Context, ownerID uuid.UUID) ([]model.Task, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Task), args.Error(1)
}

func (m *MockTaskService) ListPage(ctx context.Context, ownerID uuid.UUID, page, limit int) (*service.TaskPage, error) {
	args := m.Called(ctx, ownerID, page, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.TaskPage), args.Error(1)
}

func (m *MockTaskService) Create(ctx context.Context, ownerID uuid.UUID, in service.CreateTaskInput) (*model.Task, error) {
	args := m.Called(ctx, ownerID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Task), args.Error(1)
}

func (m *MockTaskService) Update(ctx context.Context, ownerID, taskID uuid.UUID, in service.UpdateTaskInput) (*model.Task, error) {
	args := m.Called(ctx, ownerID, taskID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Task), args.Error(1)
}

func (m *MockTaskService) Delete(ctx context.Context, ownerID, taskID uuid.UUID) error {
	args := m.Called(ctx, ownerID, taskID)
	return args.Error(0)
}

func TestTaskHandler_List_Unpaginated(t *testing.T) {
	userID := uuid.New()
	mockSvc := new(MockTaskService)
	mockSvc.On("List", mock.Anything, userID).Return([]model.Task{{Title: "Buy milk"}}, nil)

	c, rec := newTestContext(http.MethodGet, "/api/tasks", "")
	authenticate(c, userID)

	require.NoError(t, NewTaskHandler(mockSvc).List(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	// bare array, no page envelope
	var tasks []model.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tasks))
	require.Len(t, tasks, 1)
	assert.Equal(t, "Buy milk", tasks[0].Title)

	mockSvc.AssertNotCalled(t, "ListPage", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestTaskHandler_List_Paginated(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name      string
		query     string
		wantPage  int
		wantLimit int
	}{
		{name: "both params", query: "page=2&limit=5", wantPage: 2, wantLimit: 5},
		{name: "page only gets default limit", query: "page=3", wantPage: 3, wantLimit: 10},
		{name: "limit only gets default page", query: "limit=7", wantPage: 1, wantLimit: 7},
		{name: "unparseable values fall back", query: "page=abc&limit=-4", wantPage: 1, wantLimit: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := new(MockTaskService)
			mockSvc.On("ListPage", mock.Anything, userID, tt.wantPage, tt.wantLimit).Return(&service.TaskPage{
				Data:        []model.Task{},
				CurrentPage: tt.wantPage,
				TotalPages:  1,
			}, nil)

			c, rec := newTestContext(http.MethodGet, "/api/tasks?"+tt.query, "")
			authenticate(c, userID)

			require.NoError(t, NewTaskHandler(mockSvc).List(c))
			assert.Equal(t, http.StatusOK, rec.Code)

			var page service.TaskPage
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
			assert.Equal(t, tt.wantPage, page.CurrentPage)

			mockSvc.AssertExpectations(t)
		})
	}
}

func TestTaskHandler_List_NoIdentity(t *testing.T) {
	mockSvc := new(MockTaskService)
	c, _ := newTestContext(http.MethodGet, "/api/tasks", "")

	err := NewTaskHandler(mockSvc).List(c)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestTaskHandler_Create(t *testing.T) {
	userID := uuid.New()

	t.Run("success with bare date", func(t *testing.T) {
		mockSvc := new(MockTaskService)
		wantDue := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
		mockSvc.On("Create", mock.Anything, userID, service.CreateTaskInput{
			Title:   "Buy milk",
			DueDate: wantDue,
		}).Return(&model.Task{ID: uuid.New(), UserID: userID, Title: "Buy milk", DueDate: wantDue}, nil)

		c, rec := newTestContext(http.MethodPost, "/api/tasks", `{"title":"Buy milk","dueDate":"2025-01-10"}`)
		authenticate(c, userID)

		require.NoError(t, NewTaskHandler(mockSvc).Create(c))
		assert.Equal(t, http.StatusCreated, rec.Code)
		mockSvc.AssertExpectations(t)
	})

	t.Run("missing title rejected before the service", func(t *testing.T) {
		mockSvc := new(MockTaskService)
		c, _ := newTestContext(http.MethodPost, "/api/tasks", `{"dueDate":"2025-01-10"}`)
		authenticate(c, userID)

		err := NewTaskHandler(mockSvc).Create(c)
		httpErr, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusBadRequest, httpErr.Code)
		mockSvc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unparseable due date rejected", func(t *testing.T) {
		mockSvc := new(MockTaskService)
		c, _ := newTestContext(http.MethodPost, "/api/tasks", `{"title":"Buy milk","dueDate":"tomorrow"}`)
		authenticate(c, userID)

		err := NewTaskHandler(mockSvc).Create(c)
		httpErr, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusBadRequest, httpErr.Code)
	})
}

func TestTaskHandler_Update(t *testing.T) {
	userID := uuid.New()
	taskID := uuid.New()

	t.Run("partial update passes only supplied fields", func(t *testing.T) {
		mockSvc := new(MockTaskService)
		completed := true
		mockSvc.On("Update", mock.Anything, userID, taskID, service.UpdateTaskInput{
			Completed: &completed,
		}).Return(&model.Task{ID: taskID, UserID: userID, Completed: true}, nil)

		c, rec := newTestContext(http.MethodPut, "/api/tasks/"+taskID.String(), `{"completed":true}`)
		c.SetParamNames("id")
		c.SetParamValues(taskID.String())
		authenticate(c, userID)

		require.NoError(t, NewTaskHandler(mockSvc).Update(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		mockSvc.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		mockSvc := new(MockTaskService)
		mockSvc.On("Update", mock.Anything, userID, taskID, mock.Anything).
			Return(nil, apperrors.ErrTaskNotFound)

		c, _ := newTestContext(http.MethodPut, "/api/tasks/"+taskID.String(), `{"title":"x"}`)
		c.SetParamNames("id")
		c.SetParamValues(taskID.String())
		authenticate(c, userID)

		err := NewTaskHandler(mockSvc).Update(c)
		httpErr, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusNotFound, httpErr.Code)
	})

	t.Run("invalid id", func(t *testing.T) {
		mockSvc := new(MockTaskService)
		c, _ := newTestContext(http.MethodPut, "/api/tasks/not-a-uuid", `{"title":"x"}`)
		c.SetParamNames("id")
		c.SetParamValues("not-a-uuid")
		authenticate(c, userID)

		err := NewTaskHandler(mockSvc).Update(c)
		httpErr, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusBadRequest, httpErr.Code)
	})
}

func TestTaskHandler_Delete(t *testing.T) {
	userID := uuid.New()
	taskID := uuid.New()

	t.Run("success", func(t *testing.T) {
		mockSvc := new(MockTaskService)
		mockSvc.On("Delete", mock.Anything, userID, taskID).Return(nil)

		c, rec := newTestContext(http.MethodDelete, "/api/tasks/"+taskID.String(), "")
		c.SetParamNames("id")
		c.SetParamValues(taskID.String())
		authenticate(c, userID)

		require.NoError(t, NewTaskHandler(mockSvc).Delete(c))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("not found", func(t *testing.T) {
		mockSvc := new(MockTaskService)
		mockSvc.On("Delete", mock.Anything, userID, taskID).Return(apperrors.ErrTaskNotFound)

		c, _ := newTestContext(http.MethodDelete, "/api/tasks/"+taskID.String(), "")
		c.SetParamNames("id")
		c.SetParamValues(taskID.String())
		authenticate(c, userID)

		err := NewTaskHandler(mockSvc).Delete(c)
		httpErr, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusNotFound, httpErr.Code)
	})
}
