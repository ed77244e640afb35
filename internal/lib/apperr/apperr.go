// Package apperr описывает типизированные ошибки бизнес-уровня.
//
// Обработчики различают виды ошибок через errors.As (или хелперы Is*),
// не разбирая текст сообщения.
package apperr

import (
	"errors"
	"fmt"
)

// NotFoundError возвращается, когда запись с указанным идентификатором отсутствует.
type NotFoundError struct {
	Entity string // "user" или "subscription"
	ID     string // Идентификатор, который не удалось найти
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// ValidationError сообщает о нарушении инварианта конкретного поля.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ConflictError возвращается при нарушении уникальности (например, username занят).
type ConflictError struct {
	Field string
	Value string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s %q already exists", e.Field, e.Value)
}

// StoreError оборачивает ошибку хранилища. Сервис её не интерпретирует,
// только пробрасывает вызывающему.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// NotFound создает NotFoundError.
func NotFound(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// Invalid создает ValidationError.
func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// Conflict создает ConflictError.
func Conflict(field, value string) error {
	return &ConflictError{Field: field, Value: value}
}

// Store оборачивает ошибку хранилища с именем операции.
func Store(op string, err error) error {
	return &StoreError{Op: op, Err: err}
}

// IsNotFound сообщает, содержит ли цепочка ошибок NotFoundError.
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// IsValidation сообщает, содержит ли цепочка ошибок ValidationError.
func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// IsConflict сообщает, содержит ли цепочка ошибок ConflictError.
func IsConflict(err error) bool {
	var target *ConflictError
	return errors.As(err, &target)
}

// IsStore сообщает, содержит ли цепочка ошибок StoreError.
func IsStore(err error) bool {
	var target *StoreError
	return errors.As(err, &target)
}
