package upload

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mallangdev/boss-scheduler/internal/http/middlewarectx"
	"github.com/mallangdev/boss-scheduler/internal/models"
)

// MockBlobStore реализует интерфейс upload.BlobStore
type MockBlobStore struct {
	mock.Mock
}

func (m *MockBlobStore) Upload(ctx context.Context, name string, r io.Reader) (string, error) {
	args := m.Called(ctx, name, r)
	return args.String(0), args.Error(1)
}

// MockService реализует интерфейс upload.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) UpdateProfile(ctx context.Context, uid string, patch models.ProfilePatch) error {
	return m.Called(ctx, uid, patch).Error(0)
}

func multipartBody(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestUploadHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		uid            string
		field          string
		setupMocks     func(*MockBlobStore, *MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:  "успешная загрузка",
			uid:   "uid-1",
			field: "image",
			setupMocks: func(blobs *MockBlobStore, service *MockService) {
				blobs.On("Upload", mock.Anything, "profile_images/uid-1/avatar.png", mock.Anything).
					Return("https://storage.googleapis.com/bucket/profile_images/uid-1/avatar.png", nil).Once()
				service.On("UpdateProfile", mock.Anything, "uid-1", mock.MatchedBy(func(p models.ProfilePatch) bool {
					return p.ProfileImageURL != nil && strings.HasSuffix(*p.ProfileImageURL, "avatar.png")
				})).Return(nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"profileImageUrl"`,
		},
		{
			name:           "нет идентичности в контексте",
			uid:            "",
			field:          "image",
			setupMocks:     func(_ *MockBlobStore, _ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"unauthorized"`,
		},
		{
			name:           "отсутствует поле image",
			uid:            "uid-1",
			field:          "attachment",
			setupMocks:     func(_ *MockBlobStore, _ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"image file is required"`,
		},
		{
			name:  "ошибка blob-хранилища",
			uid:   "uid-1",
			field: "image",
			setupMocks: func(blobs *MockBlobStore, _ *MockService) {
				blobs.On("Upload", mock.Anything, mock.Anything, mock.Anything).
					Return("", errors.New("bucket unavailable")).Once()
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"could not upload image"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blobs := new(MockBlobStore)
			service := new(MockService)
			tt.setupMocks(blobs, service)

			handler := New(logger, blobs, service)

			body, contentType := multipartBody(t, tt.field, "avatar.png", []byte("png-bytes"))
			req := httptest.NewRequest(http.MethodPost, "/api/v1/profile/image", body)
			req.Header.Set("Content-Type", contentType)
			if tt.uid != "" {
				req = req.WithContext(context.WithValue(req.Context(), middlewarectx.UserUID, tt.uid))
			}
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			assert.Contains(t, rr.Body.String(), tt.expectedBody)
			blobs.AssertExpectations(t)
			service.AssertExpectations(t)
		})
	}
}
