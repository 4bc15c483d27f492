package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	// MaxUsernameLen максимальная длина username
	MaxUsernameLen = 255
	// MaxTodoTextLen максимальная длина текста задачи
	MaxTodoTextLen = 255
	// MaxTagNameLen максимальная длина имени тега
	MaxTagNameLen = 100
)

// ValidateUsername проверяет username после обрезки пробелов.
// Длина считается в символах, а не байтах
func ValidateUsername(username string) error {
	username = strings.TrimSpace(username)

	if username == "" {
		return fmt.Errorf("username cannot be empty")
	}

	if utf8.RuneCountInString(username) > MaxUsernameLen {
		return fmt.Errorf("username must not exceed %d characters", MaxUsernameLen)
	}

	return nil
}

// ValidatePassword проверяет, что пароль не пустой.
// Пароль не обрезается: пробелы являются его частью
func ValidatePassword(password string) error {
	if password == "" {
		return fmt.Errorf("password cannot be empty")
	}

	return nil
}

// ValidateTodoText проверяет текст задачи
func ValidateTodoText(text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("todo text cannot be empty")
	}

	if utf8.RuneCountInString(text) > MaxTodoTextLen {
		return fmt.Errorf("todo text must not exceed %d characters", MaxTodoTextLen)
	}

	return nil
}

// ValidateTagName проверяет имя тега
func ValidateTagName(name string) error {
	name = strings.TrimSpace(name)

	if name == "" {
		return fmt.Errorf("tag name cannot be empty")
	}

	if utf8.RuneCountInString(name) > MaxTagNameLen {
		return fmt.Errorf("tag name must not exceed %d characters", MaxTagNameLen)
	}

	return nil
}
