package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mallangdev/boss-scheduler/internal/cache"
	"github.com/mallangdev/boss-scheduler/internal/lib/jwt"
	"github.com/mallangdev/boss-scheduler/internal/lib/password"
	"github.com/mallangdev/boss-scheduler/internal/models"
	storage "github.com/mallangdev/boss-scheduler/internal/storage/firestore"
)

type UsersMock struct{ mock.Mock }

func (m *UsersMock) CreateUser(ctx context.Context, uid string, user models.User) error {
	return m.Called(ctx, uid, user).Error(0)
}
func (m *UsersMock) GetUser(ctx context.Context, uid string) (*models.User, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
func (m *UsersMock) GetUserByNickname(ctx context.Context, nickname string) (*models.User, error) {
	args := m.Called(ctx, nickname)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
func (m *UsersMock) UpdateProfile(ctx context.Context, uid string, patch models.ProfilePatch) error {
	return m.Called(ctx, uid, patch).Error(0)
}

type CacheMock struct{ mock.Mock }

func (m *CacheMock) Invalidate(key string) error {
	return m.Called(key).Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func newServiceWithCache(users *UsersMock, c *CacheMock) *AuthService {
	maker := jwt.NewMaker("test_secret_key_1234567890", time.Hour)
	return NewAuthService(users, maker, c, newNoopLogger())
}

func newService(users *UsersMock) *AuthService {
	c := new(CacheMock)
	c.On("Invalidate", mock.Anything).Return(nil).Maybe()
	return newServiceWithCache(users, c)
}

func notFoundErr() error {
	return fmt.Errorf("wrapped: %w", storage.ErrNotFound)
}

func TestAuthService_Register(t *testing.T) {
	users := new(UsersMock)
	users.On("GetUserByNickname", mock.Anything, "guildmaster").Return(nil, notFoundErr()).Once()
	users.On("CreateUser", mock.Anything, mock.AnythingOfType("string"), mock.MatchedBy(func(u models.User) bool {
		// пароль уходит в хранилище только в виде хэша
		return u.Nickname == "guildmaster" &&
			u.PasswordHash != "secret123" &&
			password.CompareHash(u.PasswordHash, "secret123") == nil &&
			u.ProfileImageURL == nil
	})).Return(nil).Once()

	svc := newService(users)
	uid, token, err := svc.Register(context.Background(), "guildmaster", "secret123")

	require.NoError(t, err)
	assert.NotEmpty(t, uid)
	assert.NotEmpty(t, token)

	claims, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, uid, claims.UID)
	assert.Equal(t, "guildmaster", claims.Nickname)
	users.AssertExpectations(t)
}

func TestAuthService_Register_NicknameTaken(t *testing.T) {
	users := new(UsersMock)
	users.On("GetUserByNickname", mock.Anything, "guildmaster").
		Return(&models.User{UID: "uid-1", Nickname: "guildmaster"}, nil).Once()

	svc := newService(users)
	_, _, err := svc.Register(context.Background(), "guildmaster", "secret123")

	assert.ErrorIs(t, err, ErrNicknameTaken)
	users.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything, mock.Anything)
}

func TestAuthService_Login(t *testing.T) {
	hash, err := password.GetHash("secret123")
	require.NoError(t, err)

	stored := &models.User{UID: "uid-1", Nickname: "guildmaster", PasswordHash: hash}

	tests := []struct {
		name       string
		nickname   string
		password   string
		setupMocks func(u *UsersMock)
		wantErr    error
	}{
		{
			name:     "success",
			nickname: "guildmaster",
			password: "secret123",
			setupMocks: func(u *UsersMock) {
				u.On("GetUserByNickname", mock.Anything, "guildmaster").Return(stored, nil).Once()
			},
		},
		{
			name:     "wrong password",
			nickname: "guildmaster",
			password: "wrong",
			setupMocks: func(u *UsersMock) {
				u.On("GetUserByNickname", mock.Anything, "guildmaster").Return(stored, nil).Once()
			},
			wantErr: ErrInvalidCredentials,
		},
		{
			name:     "unknown nickname",
			nickname: "nobody",
			password: "secret123",
			setupMocks: func(u *UsersMock) {
				u.On("GetUserByNickname", mock.Anything, "nobody").Return(nil, notFoundErr()).Once()
			},
			wantErr: ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(UsersMock)
			tt.setupMocks(users)

			svc := newService(users)
			uid, token, err := svc.Login(context.Background(), tt.nickname, tt.password)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "uid-1", uid)
				assert.NotEmpty(t, token)
			}
			users.AssertExpectations(t)
		})
	}
}

func TestAuthService_UpdateProfile(t *testing.T) {
	nickname := "renamed"
	patch := models.ProfilePatch{Nickname: &nickname}

	users := new(UsersMock)
	users.On("UpdateProfile", mock.Anything, "uid-1", patch).Return(nil).Once()

	// смена никнейма сбрасывает кешированное отображаемое имя
	c := new(CacheMock)
	c.On("Invalidate", cache.NicknameKey("uid-1")).Return(nil).Once()

	svc := newServiceWithCache(users, c)
	assert.NoError(t, svc.UpdateProfile(context.Background(), "uid-1", patch))
	users.AssertExpectations(t)
	c.AssertExpectations(t)
}

func TestAuthService_UpdateProfile_ImageOnly(t *testing.T) {
	url := "https://storage.googleapis.com/bucket/profile_images/uid-1/avatar.png"
	patch := models.ProfilePatch{ProfileImageURL: &url}

	users := new(UsersMock)
	users.On("UpdateProfile", mock.Anything, "uid-1", patch).Return(nil).Once()

	c := new(CacheMock)

	svc := newServiceWithCache(users, c)
	assert.NoError(t, svc.UpdateProfile(context.Background(), "uid-1", patch))
	c.AssertNotCalled(t, "Invalidate", mock.Anything)
}

func TestAuthService_UpdateProfile_CacheFailureIgnored(t *testing.T) {
	nickname := "renamed"
	patch := models.ProfilePatch{Nickname: &nickname}

	users := new(UsersMock)
	users.On("UpdateProfile", mock.Anything, "uid-1", patch).Return(nil).Once()

	c := new(CacheMock)
	c.On("Invalidate", cache.NicknameKey("uid-1")).Return(errors.New("redis down")).Once()

	svc := newServiceWithCache(users, c)
	assert.NoError(t, svc.UpdateProfile(context.Background(), "uid-1", patch))
	c.AssertExpectations(t)
}

func TestAuthService_UpdateProfile_UserMissing(t *testing.T) {
	nickname := "renamed"
	patch := models.ProfilePatch{Nickname: &nickname}

	users := new(UsersMock)
	users.On("UpdateProfile", mock.Anything, "uid-gone", patch).Return(notFoundErr()).Once()

	c := new(CacheMock)

	svc := newServiceWithCache(users, c)
	assert.ErrorIs(t, svc.UpdateProfile(context.Background(), "uid-gone", patch), ErrUserNotFound)
	c.AssertNotCalled(t, "Invalidate", mock.Anything)
}
