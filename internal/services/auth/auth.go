// Package services содержит логику бизнес-уровня для работы с пользователями:
// регистрацию, вход, проверку токенов и обновление профиля.
package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mallangdev/boss-scheduler/internal/cache"
	"github.com/mallangdev/boss-scheduler/internal/lib/jwt"
	"github.com/mallangdev/boss-scheduler/internal/lib/password"
	"github.com/mallangdev/boss-scheduler/internal/lib/sl"
	"github.com/mallangdev/boss-scheduler/internal/models"
	storage "github.com/mallangdev/boss-scheduler/internal/storage/firestore"
)

// Ошибки бизнес-уровня аутентификации.
var (
	// ErrNicknameTaken — никнейм уже занят другим пользователем.
	ErrNicknameTaken = errors.New("nickname already taken")
	// ErrInvalidCredentials — неизвестный никнейм или неверный пароль.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserNotFound — пользователь с указанным uid не существует.
	ErrUserNotFound = errors.New("user not found")
)

// UserRepository описывает контракт для работы с пользователями в хранилище.
type UserRepository interface {
	// CreateUser сохраняет нового пользователя под заданным uid.
	CreateUser(ctx context.Context, uid string, user models.User) error
	// GetUser возвращает пользователя по uid или ошибку, оборачивающую storage.ErrNotFound.
	GetUser(ctx context.Context, uid string) (*models.User, error)
	// GetUserByNickname возвращает пользователя по никнейму.
	GetUserByNickname(ctx context.Context, nickname string) (*models.User, error)
	// UpdateProfile частично обновляет поля профиля.
	UpdateProfile(ctx context.Context, uid string, patch models.ProfilePatch) error
}

// Cache описывает инвалидацию кешированных данных профиля.
type Cache interface {
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(key string) error
}

// AuthService отвечает за регистрацию, авторизацию, проверку JWT и профиль.
type AuthService struct {
	users    UserRepository
	jwtMaker jwt.Maker
	cache    Cache
	log      *slog.Logger
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, jwtMaker jwt.Maker, cache Cache, log *slog.Logger) *AuthService {
	return &AuthService{
		users:    users,
		jwtMaker: jwtMaker,
		cache:    cache,
		log:      log,
	}
}

// Register создает нового пользователя и возвращает его uid и токен.
// Идентичность отвязана от никнейма: uid генерируется сервером, никнейм —
// изменяемый атрибут с проверкой уникальности. Пароль сохраняется
// только в виде bcrypt-хэша.
func (s *AuthService) Register(ctx context.Context, nickname, rawPassword string) (uid, token string, err error) {
	_, err = s.users.GetUserByNickname(ctx, nickname)
	if err == nil {
		return "", "", ErrNicknameTaken
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return "", "", err
	}

	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return "", "", err
	}

	uid = uuid.New().String()
	user := models.User{
		Nickname:        nickname,
		PasswordHash:    hashed,
		ProfileImageURL: nil,
		CreatedAt:       time.Now().UTC(),
	}
	if err := s.users.CreateUser(ctx, uid, user); err != nil {
		return "", "", err
	}

	token, err = s.jwtMaker.GenerateToken(uid, nickname)
	if err != nil {
		return "", "", err
	}

	s.log.Info("registered new user", slog.String("uid", uid))
	return uid, token, nil
}

// Login проверяет пароль пользователя и генерирует JWT.
// Неизвестный никнейм и неверный пароль неразличимы для вызывающего.
func (s *AuthService) Login(ctx context.Context, nickname, rawPassword string) (uid, token string, err error) {
	user, err := s.users.GetUserByNickname(ctx, nickname)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", "", ErrInvalidCredentials
		}
		return "", "", err
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", "", ErrInvalidCredentials
	}

	token, err = s.jwtMaker.GenerateToken(user.UID, user.Nickname)
	if err != nil {
		return "", "", err
	}
	return user.UID, token, nil
}

// ValidateToken проверяет JWT и возвращает claims, если токен корректен.
func (s *AuthService) ValidateToken(_ context.Context, token string) (*jwt.CustomClaims, error) {
	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		s.log.Debug("token validation failed", sl.Err(err))
		return nil, err
	}
	return claims, nil
}

// UpdateProfile применяет частичное обновление профиля пользователя.
// При смене никнейма кешированное отображаемое имя инвалидируется,
// чтобы списки участников не отдавали устаревший никнейм.
func (s *AuthService) UpdateProfile(ctx context.Context, uid string, patch models.ProfilePatch) error {
	if err := s.users.UpdateProfile(ctx, uid, patch); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if patch.Nickname != nil {
		if err := s.cache.Invalidate(cache.NicknameKey(uid)); err != nil {
			s.log.Warn("failed to invalidate cached nickname", slog.String("uid", uid), sl.Err(err))
		}
	}

	s.log.Info("profile updated", slog.String("uid", uid))
	return nil
}
