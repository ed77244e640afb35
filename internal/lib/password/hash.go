// Package password хеширует пароли пользователей перед сохранением.
package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrTooLong возвращается для паролей длиннее 72 байт: bcrypt их не принимает.
var ErrTooLong = errors.New("password is longer than 72 bytes")

// GetHash возвращает bcrypt-хэш пароля с cost по умолчанию.
func GetHash(password string) (string, error) {
	const op = "password.GetHash"
	if len(password) > 72 {
		return "", fmt.Errorf("%s: %w", op, ErrTooLong)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return string(hashed), nil
}
