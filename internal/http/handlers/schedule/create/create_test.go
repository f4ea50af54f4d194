package create

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/mallangdev/boss-scheduler/internal/models"
)

// MockService реализует интерфейс create.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Create(ctx context.Context, req models.DummySchedule) (*models.Schedule, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Schedule), args.Error(1)
}

func TestCreateHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	validBody := models.DummySchedule{
		ScheduleTitle: "주간 레이드",
		BossName:      "카브라칸",
		Days:          []string{"토", "일"},
		StartTime:     "21:00",
		Type:          "weekly",
		UserID:        "uid-1",
	}

	tests := []struct {
		name           string
		requestBody    any
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:        "успешное создание",
			requestBody: validBody,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, mock.AnythingOfType("models.DummySchedule")).
					Return(&models.Schedule{ID: "sched-1", ScheduleTitle: "주간 레이드"}, nil).Once()
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   `"id":"sched-1"`,
		},
		{
			name:           "некорректный JSON",
			requestBody:    "not a json",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"invalid request body"`,
		},
		{
			name: "отсутствует обязательное поле",
			requestBody: models.DummySchedule{
				BossName:  "카브라칸",
				StartTime: "21:00",
				Type:      "weekly",
				UserID:    "uid-1",
			},
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `field ScheduleTitle is a required field`,
		},
		{
			name: "недопустимый тип повторения",
			requestBody: models.DummySchedule{
				ScheduleTitle: "주간 레이드",
				BossName:      "카브라칸",
				StartTime:     "21:00",
				Type:          "monthly",
				UserID:        "uid-1",
			},
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `field Type must be one of: daily weekly`,
		},
		{
			name: "отсутствует userId",
			requestBody: models.DummySchedule{
				ScheduleTitle: "주간 레이드",
				BossName:      "카브라칸",
				StartTime:     "21:00",
				Type:          "weekly",
			},
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"unauthorized"`,
		},
		{
			name:        "ошибка хранилища",
			requestBody: validBody,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, mock.AnythingOfType("models.DummySchedule")).
					Return(nil, errors.New("store unavailable")).Once()
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"could not create schedule"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			var body bytes.Buffer
			if s, ok := tt.requestBody.(string); ok {
				body.WriteString(s)
			} else {
				assert.NoError(t, json.NewEncoder(&body).Encode(tt.requestBody))
			}

			req := httptest.NewRequest(http.MethodPost, "/schedules", &body)
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
