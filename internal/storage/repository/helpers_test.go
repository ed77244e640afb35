package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/magabrotheeeer/subscription-tracker/internal/migrations"
	"github.com/magabrotheeeer/subscription-tracker/internal/models"
)

// TestDataFactory создает тестовые записи напрямую через SQL.
type TestDataFactory struct {
	storage *Storage
}

// NewTestDataFactory создает новую фабрику тестовых данных.
func NewTestDataFactory(storage *Storage) *TestDataFactory {
	return &TestDataFactory{storage: storage}
}

// CreateUser вставляет пользователя и возвращает его ID.
func (f *TestDataFactory) CreateUser(t *testing.T, username string) string {
	id := uuid.NewString()
	_, err := f.storage.DB.Exec(`INSERT INTO users (id, username, password) VALUES ($1, $2, $3)`,
		id, username, "secret")
	require.NoError(t, err)
	return id
}

// CreateSubscription вставляет подписку и возвращает ее ID.
func (f *TestDataFactory) CreateSubscription(t *testing.T, userID, serviceName, amount string, renewal models.Date) int64 {
	var id int64
	err := f.storage.DB.QueryRow(`INSERT INTO subscriptions
		(user_id, service_name, plan_type, next_renewal_date, amount, currency)
		VALUES ($1, $2, 'Basic', $3, $4, 'USD') RETURNING id`,
		userID, serviceName, renewal, decimal.RequireFromString(amount)).Scan(&id)
	require.NoError(t, err)
	return id
}

// CountSubscriptions возвращает число строк с указанным ID.
func (f *TestDataFactory) CountSubscriptions(t *testing.T, id int64) int {
	var count int
	err := f.storage.DB.QueryRow(`SELECT COUNT(*) FROM subscriptions WHERE id = $1`, id).Scan(&count)
	require.NoError(t, err)
	return count
}

// setupTestDatabase поднимает PostgreSQL в контейнере и накатывает миграции.
func setupTestDatabase(t *testing.T) *Storage {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres container test in short mode")
	}
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err, "failed to start container")
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	storage, err := New(dsn)
	require.NoError(t, err, "failed to create storage")
	t.Cleanup(func() { _ = storage.Close() })

	migrationsPath, err := filepath.Abs("../../../migrations")
	require.NoError(t, err)
	require.NoError(t, migrations.Run(storage.DB, migrationsPath))

	return storage
}
