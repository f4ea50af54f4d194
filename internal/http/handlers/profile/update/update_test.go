package update

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/mallangdev/boss-scheduler/internal/http/middlewarectx"
	"github.com/mallangdev/boss-scheduler/internal/models"
)

// MockService реализует интерфейс update.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) UpdateProfile(ctx context.Context, uid string, patch models.ProfilePatch) error {
	return m.Called(ctx, uid, patch).Error(0)
}

func TestUpdateHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		uid            string
		requestBody    string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:        "обновление никнейма",
			uid:         "uid-1",
			requestBody: `{"nickname":"renamed"}`,
			setupMock: func(m *MockService) {
				m.On("UpdateProfile", mock.Anything, "uid-1", mock.MatchedBy(func(p models.ProfilePatch) bool {
					return p.Nickname != nil && *p.Nickname == "renamed" && p.ProfileImageURL == nil
				})).Return(nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status":"OK"}`,
		},
		{
			name:           "нет идентичности в контексте",
			uid:            "",
			requestBody:    `{"nickname":"renamed"}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"unauthorized"`,
		},
		{
			name:           "пустой патч",
			uid:            "uid-1",
			requestBody:    `{}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"nothing to update"`,
		},
		{
			name:           "некорректный JSON",
			uid:            "uid-1",
			requestBody:    `not a json`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"invalid request body"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPatch, "/profile", bytes.NewBufferString(tt.requestBody))
			if tt.uid != "" {
				req = req.WithContext(context.WithValue(req.Context(), middlewarectx.UserUID, tt.uid))
			}

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
