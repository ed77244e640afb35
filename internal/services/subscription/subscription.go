// Package services содержит бизнес-логику для управления подписками:
// проверку инвариантов, кеширование и аналитику (ближайшие продления, общая сумма).
package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/magabrotheeeer/subscription-tracker/internal/lib/apperr"
	"github.com/magabrotheeeer/subscription-tracker/internal/lib/clock"
	"github.com/magabrotheeeer/subscription-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-tracker/internal/models"
)

// RenewalWindowDays длина окна ближайших продлений в днях (включительно с обеих сторон).
const RenewalWindowDays = 7

// ReadFillTTL ограничивает время жизни записи, попавшей в кеш при чтении
// из хранилища. Такая запись может пережить параллельное удаление.
const ReadFillTTL = time.Minute

// Параметры пагинации ListAll.
const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// UserProvider ищет владельца подписки.
type UserProvider interface {
	// GetUserByID возвращает пользователя или nil, если его нет.
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// SubscriptionRepository определяет методы для работы с подписками в хранилище.
type SubscriptionRepository interface {
	// SaveSubscription вставляет (ID == 0) или перезаписывает подписку.
	SaveSubscription(ctx context.Context, sub models.Subscription) (models.Subscription, error)
	// FindSubscriptionByID возвращает подписку или nil.
	FindSubscriptionByID(ctx context.Context, id int64) (*models.Subscription, error)
	FindSubscriptionsByUser(ctx context.Context, userID string) ([]models.Subscription, error)
	// FindSubscriptionsByUserAndDateRange ищет по next_renewal_date в [start, end].
	FindSubscriptionsByUserAndDateRange(ctx context.Context, userID string, start, end models.Date) ([]models.Subscription, error)
	ListSubscriptions(ctx context.Context, limit, offset int) ([]models.Subscription, error)
	// DeleteSubscription удаляет запись; false, если ее не было.
	DeleteSubscription(ctx context.Context, id int64) (bool, error)
	SubscriptionExists(ctx context.Context, id int64) (bool, error)
	// SumAmountByUser возвращает сумму amount, ноль при отсутствии подписок.
	SumAmountByUser(ctx context.Context, userID string) (decimal.Decimal, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(ctx context.Context, key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(ctx context.Context, key string) error
}

// SubscriptionService реализует бизнес-логику работы с подписками, включая кеширование.
type SubscriptionService struct {
	users    UserProvider
	repo     SubscriptionRepository
	cache    Cache
	cacheTTL time.Duration
	clock    clock.Clock
	log      *slog.Logger
}

// NewSubscriptionService создает новый экземпляр SubscriptionService.
// Если clk равен nil, используется системное время.
func NewSubscriptionService(users UserProvider, repo SubscriptionRepository, cache Cache,
	cacheTTL time.Duration, clk clock.Clock, log *slog.Logger) *SubscriptionService {
	if clk == nil {
		clk = clock.Real{}
	}
	return &SubscriptionService{
		users:    users,
		repo:     repo,
		cache:    cache,
		cacheTTL: cacheTTL,
		clock:    clk,
		log:      log,
	}
}

func cacheKey(id int64) string {
	return fmt.Sprintf("subscription:%d", id)
}

// Create создает подписку для существующего пользователя.
func (s *SubscriptionService) Create(ctx context.Context, userID string, draft models.Draft) (models.Subscription, error) {
	const op = "services.subscription.Create"
	log := s.log.With(slog.String("op", op), slog.String("user_id", userID))

	if err := s.requireUser(ctx, userID); err != nil {
		return models.Subscription{}, err
	}

	sub := models.NewSubscription(userID, draft)
	if err := sub.Validate(); err != nil {
		return models.Subscription{}, err
	}

	saved, err := s.repo.SaveSubscription(ctx, sub)
	if err != nil {
		return models.Subscription{}, err
	}
	log.Info("created new subscription", slog.Int64("id", saved.ID))

	s.cacheSet(ctx, saved)
	return saved, nil
}

// GetByID возвращает подписку по ID, используя кеш или репозиторий.
func (s *SubscriptionService) GetByID(ctx context.Context, id int64) (models.Subscription, error) {
	var cached models.Subscription
	found, err := s.cache.Get(ctx, cacheKey(id), &cached)
	if err != nil {
		s.log.Warn("failed to read from cache", slog.String("key", cacheKey(id)), sl.Err(err))
	}
	if found {
		return cached, nil
	}

	sub, err := s.repo.FindSubscriptionByID(ctx, id)
	if err != nil {
		return models.Subscription{}, err
	}
	if sub == nil {
		return models.Subscription{}, apperr.NotFound("subscription", strconv.FormatInt(id, 10))
	}

	s.cacheSetTTL(ctx, *sub, s.readFillTTL())
	return *sub, nil
}

// ListByUser возвращает все подписки пользователя. Неизвестный пользователь
// дает пустой список.
func (s *SubscriptionService) ListByUser(ctx context.Context, userID string) ([]models.Subscription, error) {
	if !validUserID(userID) {
		return []models.Subscription{}, nil
	}
	return s.repo.FindSubscriptionsByUser(ctx, userID)
}

// ListAll возвращает все подписки с пагинацией.
func (s *SubscriptionService) ListAll(ctx context.Context, limit, offset int) ([]models.Subscription, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListSubscriptions(ctx, limit, offset)
}

// Update перезаписывает изменяемые поля подписки. ID и владелец не меняются.
func (s *SubscriptionService) Update(ctx context.Context, id int64, patch models.Draft) (models.Subscription, error) {
	const op = "services.subscription.Update"
	log := s.log.With(slog.String("op", op), slog.Int64("id", id))

	current, err := s.repo.FindSubscriptionByID(ctx, id)
	if err != nil {
		return models.Subscription{}, err
	}
	if current == nil {
		return models.Subscription{}, apperr.NotFound("subscription", strconv.FormatInt(id, 10))
	}

	merged := *current
	merged.Apply(patch)
	if err := merged.Validate(); err != nil {
		return models.Subscription{}, err
	}

	saved, err := s.repo.SaveSubscription(ctx, merged)
	if err != nil {
		return models.Subscription{}, err
	}
	log.Info("updated subscription in storage")

	s.cacheSet(ctx, saved)
	return saved, nil
}

// Delete удаляет подписку и инвалидирует кеш. Повторное удаление дает NotFound.
func (s *SubscriptionService) Delete(ctx context.Context, id int64) error {
	const op = "services.subscription.Delete"
	notFound := apperr.NotFound("subscription", strconv.FormatInt(id, 10))

	exists, err := s.repo.SubscriptionExists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return notFound
	}

	deleted, err := s.repo.DeleteSubscription(ctx, id)
	if err != nil {
		return err
	}
	if err := s.cache.Invalidate(ctx, cacheKey(id)); err != nil {
		s.log.Warn("failed to remove from cache", slog.String("key", cacheKey(id)), sl.Err(err))
	}
	if !deleted {
		// запись удалили между проверкой и удалением
		return notFound
	}

	s.log.Info("deleted subscription", slog.String("op", op), slog.Int64("id", id))
	return nil
}

// UpcomingRenewals возвращает подписки пользователя с датой продления
// в [сегодня, сегодня+7] включительно. "Сегодня" берется из часов сервиса
// на момент вызова и не кешируется.
func (s *SubscriptionService) UpcomingRenewals(ctx context.Context, userID string) ([]models.Subscription, error) {
	if !validUserID(userID) {
		return []models.Subscription{}, nil
	}
	today := models.DateOf(s.clock.Now())
	return s.repo.FindSubscriptionsByUserAndDateRange(ctx, userID, today, today.AddDays(RenewalWindowDays))
}

// TotalAmount возвращает точную сумму amount по всем подпискам пользователя.
func (s *SubscriptionService) TotalAmount(ctx context.Context, userID string) (decimal.Decimal, error) {
	if !validUserID(userID) {
		return decimal.Zero, nil
	}
	return s.repo.SumAmountByUser(ctx, userID)
}

func (s *SubscriptionService) requireUser(ctx context.Context, userID string) error {
	if !validUserID(userID) {
		return apperr.NotFound("user", userID)
	}
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return apperr.NotFound("user", userID)
	}
	return nil
}

func (s *SubscriptionService) cacheSet(ctx context.Context, sub models.Subscription) {
	s.cacheSetTTL(ctx, sub, s.cacheTTL)
}

func (s *SubscriptionService) cacheSetTTL(ctx context.Context, sub models.Subscription, ttl time.Duration) {
	if err := s.cache.Set(ctx, cacheKey(sub.ID), sub, ttl); err != nil {
		s.log.Warn("failed to cache subscription", slog.String("key", cacheKey(sub.ID)), sl.Err(err))
	}
}

func (s *SubscriptionService) readFillTTL() time.Duration {
	if s.cacheTTL > 0 && s.cacheTTL < ReadFillTTL {
		return s.cacheTTL
	}
	return ReadFillTTL
}

// validUserID отсекает ID, которые заведомо не могут существовать в хранилище.
func validUserID(id string) bool {
	return uuid.Validate(id) == nil
}
