package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/subscription-tracker/internal/lib/apperr"
	"github.com/magabrotheeeer/subscription-tracker/internal/models"
)

// SaveUser вставляет пользователя или обновляет существующего по ID.
// Пустой ID заменяется новым UUID. Занятый username дает apperr.ConflictError.
func (s *Storage) SaveUser(ctx context.Context, user models.User) (models.User, error) {
	const op = "storage.SaveUser"
	if err := checkCtx(ctx, op); err != nil {
		return models.User{}, err
	}

	if user.ID == "" {
		user.ID = uuid.NewString()
	}

	query := `INSERT INTO users (id, username, password)
			  VALUES ($1, $2, $3)
			  ON CONFLICT (id) DO UPDATE
			      SET username = EXCLUDED.username, password = EXCLUDED.password
			  RETURNING created_at`
	err := s.DB.QueryRowContext(ctx, query, user.ID, user.Username, user.Password).Scan(&user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, apperr.Conflict("username", user.Username)
		}
		return models.User{}, apperr.Store(op, err)
	}
	return user, nil
}

// GetUserByID возвращает пользователя по ID или nil, если его нет.
func (s *Storage) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	const op = "storage.GetUserByID"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT id, username, password, created_at
			  FROM users
			  WHERE id = $1`
	return s.scanUser(s.DB.QueryRowContext(ctx, query, id), op)
}

// GetUserByUsername возвращает пользователя по username или nil, если его нет.
func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "storage.GetUserByUsername"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT id, username, password, created_at
			  FROM users
			  WHERE username = $1`
	return s.scanUser(s.DB.QueryRowContext(ctx, query, username), op)
}

func (s *Storage) scanUser(row *sql.Row, op string) (*models.User, error) {
	var u models.User
	if err := row.Scan(&u.ID, &u.Username, &u.Password, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, apperr.Store(op, err)
	}
	return &u, nil
}
