// Package validation содержит проверки входных данных формы добавления пользователя.
package validation

import "strings"

const maxUsernameLength = 64

// IsValidUsername проверяет имя пользователя: непустое после обрезки
// пробелов, без символа-разделителя сессионной cookie.
func IsValidUsername(username string) bool {
	trimmed := strings.TrimSpace(username)
	if trimmed == "" || len(trimmed) > maxUsernameLength {
		return false
	}
	return !strings.ContainsRune(trimmed, '|')
}

// IsValidPassword проверяет, что пароль непустой.
func IsValidPassword(password string) bool {
	return password != ""
}
