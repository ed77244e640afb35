package repository

import (
	"context"
	"database/sql"
	"errors"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/magabrotheeeer/subscription-tracker/internal/lib/apperr"
	"github.com/magabrotheeeer/subscription-tracker/internal/models"
)

const subscriptionColumns = `id, user_id, service_name, plan_type, next_renewal_date, amount, currency`

type scanner interface {
	Scan(dest ...any) error
}

func scanSubscription(row scanner) (models.Subscription, error) {
	var s models.Subscription
	err := row.Scan(&s.ID, &s.UserID, &s.ServiceName, &s.PlanType,
		&s.NextRenewalDate, &s.Amount, &s.Currency)
	return s, err
}

// SaveSubscription вставляет подписку (ID == 0) или перезаписывает существующую.
// user_id при обновлении не меняется. Возвращает сохраненную запись.
func (s *Storage) SaveSubscription(ctx context.Context, sub models.Subscription) (models.Subscription, error) {
	const op = "storage.SaveSubscription"
	if err := checkCtx(ctx, op); err != nil {
		return models.Subscription{}, err
	}

	var row *sql.Row
	if sub.ID == 0 {
		query := `INSERT INTO subscriptions (user_id, service_name, plan_type,
				      next_renewal_date, amount, currency)
				  VALUES ($1, $2, $3, $4, $5, $6)
				  RETURNING ` + subscriptionColumns
		row = s.DB.QueryRowContext(ctx, query,
			sub.UserID, sub.ServiceName, sub.PlanType, sub.NextRenewalDate, sub.Amount, sub.Currency)
	} else {
		query := `UPDATE subscriptions
				  SET service_name = $1, plan_type = $2, next_renewal_date = $3,
				      amount = $4, currency = $5
				  WHERE id = $6
				  RETURNING ` + subscriptionColumns
		row = s.DB.QueryRowContext(ctx, query,
			sub.ServiceName, sub.PlanType, sub.NextRenewalDate, sub.Amount, sub.Currency, sub.ID)
	}

	saved, err := scanSubscription(row)
	switch {
	case err == nil:
		return saved, nil
	case errors.Is(err, sql.ErrNoRows):
		return models.Subscription{}, apperr.NotFound("subscription", strconv.FormatInt(sub.ID, 10))
	case isForeignKeyViolation(err):
		return models.Subscription{}, apperr.NotFound("user", sub.UserID)
	case isCheckViolation(err):
		return models.Subscription{}, apperr.Invalid("subscription", "violates a table constraint")
	default:
		return models.Subscription{}, apperr.Store(op, err)
	}
}

// FindSubscriptionByID возвращает подписку или nil, если записи нет.
func (s *Storage) FindSubscriptionByID(ctx context.Context, id int64) (*models.Subscription, error) {
	const op = "storage.FindSubscriptionByID"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + subscriptionColumns + `
			  FROM subscriptions
			  WHERE id = $1`
	sub, err := scanSubscription(s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, apperr.Store(op, err)
	}
	return &sub, nil
}

// FindSubscriptionsByUser возвращает все подписки пользователя.
func (s *Storage) FindSubscriptionsByUser(ctx context.Context, userID string) ([]models.Subscription, error) {
	const op = "storage.FindSubscriptionsByUser"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + subscriptionColumns + `
			  FROM subscriptions
			  WHERE user_id = $1
			  ORDER BY id`
	return s.querySubscriptions(ctx, op, query, userID)
}

// FindSubscriptionsByUserAndDateRange возвращает подписки пользователя,
// у которых next_renewal_date лежит в [start, end] включительно.
// Подписки без даты продления не попадают в выборку.
func (s *Storage) FindSubscriptionsByUserAndDateRange(ctx context.Context, userID string, start, end models.Date) ([]models.Subscription, error) {
	const op = "storage.FindSubscriptionsByUserAndDateRange"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + subscriptionColumns + `
			  FROM subscriptions
			  WHERE user_id = $1
			    AND next_renewal_date BETWEEN $2 AND $3
			  ORDER BY next_renewal_date, id`
	return s.querySubscriptions(ctx, op, query, userID, start, end)
}

// ListSubscriptions возвращает все подписки с пагинацией.
func (s *Storage) ListSubscriptions(ctx context.Context, limit, offset int) ([]models.Subscription, error) {
	const op = "storage.ListSubscriptions"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + subscriptionColumns + `
			  FROM subscriptions
			  ORDER BY id
			  LIMIT $1 OFFSET $2`
	return s.querySubscriptions(ctx, op, query, limit, offset)
}

func (s *Storage) querySubscriptions(ctx context.Context, op, query string, args ...any) ([]models.Subscription, error) {
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperr.Store(op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]models.Subscription, 0)
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, apperr.Store(op, err)
		}
		result = append(result, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Store(op, err)
	}
	return result, nil
}

// DeleteSubscription удаляет подписку. false означает, что записи не было.
func (s *Storage) DeleteSubscription(ctx context.Context, id int64) (bool, error) {
	const op = "storage.DeleteSubscription"
	if err := checkCtx(ctx, op); err != nil {
		return false, err
	}

	result, err := s.DB.ExecContext(ctx, `DELETE FROM subscriptions WHERE id = $1`, id)
	if err != nil {
		return false, apperr.Store(op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, apperr.Store(op, err)
	}
	return rowsAffected > 0, nil
}

// SubscriptionExists проверяет наличие подписки с указанным ID.
func (s *Storage) SubscriptionExists(ctx context.Context, id int64) (bool, error) {
	const op = "storage.SubscriptionExists"
	if err := checkCtx(ctx, op); err != nil {
		return false, err
	}

	var exists bool
	err := s.DB.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM subscriptions WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, apperr.Store(op, err)
	}
	return exists, nil
}

// SumAmountByUser считает сумму amount по всем подпискам пользователя одним запросом,
// поэтому результат соответствует одному снимку данных. Без подписок результат равен нулю.
func (s *Storage) SumAmountByUser(ctx context.Context, userID string) (decimal.Decimal, error) {
	const op = "storage.SumAmountByUser"
	if err := checkCtx(ctx, op); err != nil {
		return decimal.Zero, err
	}

	var total decimal.Decimal
	err := s.DB.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM subscriptions WHERE user_id = $1`, userID).Scan(&total)
	if err != nil {
		return decimal.Zero, apperr.Store(op, err)
	}
	return total, nil
}
