// Package clock предоставляет источник текущего времени, который можно
// подменить в тестах.
package clock

import "time"

// Clock возвращает текущее время.
type Clock interface {
	Now() time.Time
}

// Real использует системные часы.
type Real struct{}

// Now возвращает time.Now().
func (Real) Now() time.Time {
	return time.Now()
}

// Fixed всегда возвращает одно и то же время.
type Fixed time.Time

// Now возвращает зафиксированное время.
func (f Fixed) Now() time.Time {
	return time.Time(f)
}
