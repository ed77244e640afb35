package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/magabrotheeeer/subscription-tracker/internal/lib/apperr"
)

// DefaultCurrency подставляется, если валюта не указана.
const DefaultCurrency = "USD"

// Ограничения суммы, совпадающие с колонкой NUMERIC(19, 4).
const (
	AmountScale         = 4
	AmountIntegerDigits = 15
)

var maxAmount = decimal.New(1, AmountIntegerDigits)

// Subscription регулярная подписка пользователя.
// UserID задается один раз при создании и дальше не меняется.
type Subscription struct {
	ID              int64           `json:"id"`
	UserID          string          `json:"user_id"`
	ServiceName     string          `json:"service_name"`
	PlanType        string          `json:"plan_type"`
	NextRenewalDate Date            `json:"next_renewal_date"`
	Amount          decimal.Decimal `json:"amount"`
	Currency        string          `json:"currency"`
}

// Draft содержит изменяемые поля подписки. Используется и при создании,
// и при обновлении (полная перезапись этих полей).
type Draft struct {
	ServiceName     string          `json:"service_name"`
	PlanType        string          `json:"plan_type"`
	NextRenewalDate Date            `json:"next_renewal_date"`
	Amount          decimal.Decimal `json:"amount"`
	Currency        string          `json:"currency"`
}

// NewSubscription собирает подписку пользователя userID из черновика.
// ID остается нулевым до сохранения.
func NewSubscription(userID string, d Draft) Subscription {
	s := Subscription{UserID: userID}
	s.Apply(d)
	return s
}

// Apply перезаписывает изменяемые поля. ID и UserID не трогаются.
func (s *Subscription) Apply(d Draft) {
	s.ServiceName = d.ServiceName
	s.PlanType = d.PlanType
	s.NextRenewalDate = d.NextRenewalDate
	s.Amount = d.Amount
	s.Currency = normalizeCurrency(d.Currency)
}

// Validate проверяет инварианты и возвращает *apperr.ValidationError
// для первого нарушенного поля.
func (s Subscription) Validate() error {
	if strings.TrimSpace(s.ServiceName) == "" {
		return apperr.Invalid("service_name", "must not be blank")
	}
	if !s.Amount.IsPositive() {
		return apperr.Invalid("amount", "must be greater than zero")
	}
	if s.Amount.Exponent() < -AmountScale && !s.Amount.Equal(s.Amount.Truncate(AmountScale)) {
		return apperr.Invalid("amount", fmt.Sprintf("must have at most %d decimal places", AmountScale))
	}
	if s.Amount.GreaterThanOrEqual(maxAmount) {
		return apperr.Invalid("amount", fmt.Sprintf("must be less than 1e%d", AmountIntegerDigits))
	}
	if !isCurrencyCode(s.Currency) {
		return apperr.Invalid("currency", "must be a 3-letter code like USD")
	}
	return nil
}

func normalizeCurrency(c string) string {
	c = strings.ToUpper(strings.TrimSpace(c))
	if c == "" {
		return DefaultCurrency
	}
	return c
}

func isCurrencyCode(c string) bool {
	if len(c) != 3 {
		return false
	}
	for _, r := range c {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}
