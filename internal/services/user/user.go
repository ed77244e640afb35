// Package services содержит логику бизнес-уровня для работы с пользователями.
package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/magabrotheeeer/subscription-tracker/internal/lib/apperr"
	"github.com/magabrotheeeer/subscription-tracker/internal/lib/password"
	"github.com/magabrotheeeer/subscription-tracker/internal/models"
)

// Ограничения на учетные данные.
const (
	MinUsernameLen = 3
	MaxUsernameLen = 50
	MinPasswordLen = 6
)

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// SaveUser сохраняет пользователя и возвращает запись с ID и датой создания.
	SaveUser(ctx context.Context, user models.User) (models.User, error)

	// GetUserByUsername возвращает пользователя по имени или nil, если не найден.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// UserService отвечает за регистрацию и поиск пользователей.
type UserService struct {
	users UserRepository
	log   *slog.Logger
}

// NewUserService создает новый экземпляр UserService.
func NewUserService(users UserRepository, log *slog.Logger) *UserService {
	return &UserService{
		users: users,
		log:   log,
	}
}

// Register создает нового пользователя с хэшированием пароля.
// Занятое имя дает apperr.ConflictError.
func (s *UserService) Register(ctx context.Context, username, rawPassword string) (models.User, error) {
	username = strings.TrimSpace(username)
	if n := utf8.RuneCountInString(username); n < MinUsernameLen || n > MaxUsernameLen {
		return models.User{}, apperr.Invalid("username", "must be between 3 and 50 characters")
	}
	if utf8.RuneCountInString(rawPassword) < MinPasswordLen {
		return models.User{}, apperr.Invalid("password", "must be at least 6 characters")
	}

	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		if errors.Is(err, password.ErrTooLong) {
			return models.User{}, apperr.Invalid("password", "must be at most 72 bytes")
		}
		return models.User{}, err
	}

	user, err := s.users.SaveUser(ctx, models.User{
		Username: username,
		Password: hashed,
	})
	if err != nil {
		return models.User{}, err
	}
	s.log.Info("registered user", slog.String("user_id", user.ID))
	return user, nil
}

// GetByUsername возвращает пользователя по имени или apperr.NotFoundError.
func (s *UserService) GetByUsername(ctx context.Context, username string) (models.User, error) {
	username = strings.TrimSpace(username)
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return models.User{}, err
	}
	if user == nil {
		return models.User{}, apperr.NotFound("user", username)
	}
	return *user, nil
}
