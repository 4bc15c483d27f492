package models

import "time"

// User представляет пользователя в системе
type User struct {
	CreatedAt          time.Time `json:"createdAt"` // время регистрации
	ID                 string    `json:"id"`        // UUID пользователя
	Username           string    `json:"username"`  // уникальный username
	PasswordHash       string    `json:"-"`         // PBKDF2 хеш пароля (hex)
	PasswordSalt       string    `json:"-"`         // соль (hex, 16 bytes)
	PasswordIterations int       `json:"-"`         // число итераций PBKDF2, с которым создан хеш
}
