package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

// Параметры PBKDF2
const (
	// DefaultIterations - количество итераций PBKDF2-HMAC-SHA256
	DefaultIterations = 120000
	// KeyLen - длина производного ключа в байтах
	KeyLen = 32
	// SaltSize - размер соли в байтах
	SaltSize = 16
)

// Hasher derives and verifies salted password hashes with PBKDF2-HMAC-SHA256.
type Hasher struct {
	Iterations int
}

// NewHasher returns a Hasher with the given iteration count.
// Non-positive values fall back to DefaultIterations.
func NewHasher(iterations int) *Hasher {
	if iterations <= 0 {
		iterations = DefaultIterations
	}
	return &Hasher{Iterations: iterations}
}

// GenerateSalt генерирует криптографически случайную соль
func GenerateSalt() ([]byte, error) {
	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	return salt, nil
}

// CreateCredential хеширует пароль со свежей солью.
// Возвращает hex-encoded hash (64 символа) и salt (32 символа);
// число итераций вызывающий хранит рядом (Hasher.Iterations).
// Пустой пароль допустим: проверка на пустоту выполняется выше по стеку.
func (h *Hasher) CreateCredential(password string) (hash, salt string, err error) {
	saltBytes, err := GenerateSalt()
	if err != nil {
		return "", "", err
	}

	key := derive(password, saltBytes, h.Iterations)

	return hex.EncodeToString(key), hex.EncodeToString(saltBytes), nil
}

// VerifyCredential проверяет пароль с текущим числом итераций Hasher.
func (h *Hasher) VerifyCredential(password, salt, expectedHash string) bool {
	return h.VerifyStored(password, salt, expectedHash, h.Iterations)
}

// VerifyStored пересчитывает хеш с той же солью и тем числом итераций, с
// которым он был создан, и сравнивает с ожидаемым за постоянное время.
// iterations <= 0 означает текущее значение Hasher. Некорректный hex дает false.
func (h *Hasher) VerifyStored(password, salt, expectedHash string, iterations int) bool {
	if iterations <= 0 {
		iterations = h.Iterations
	}

	saltBytes, err := hex.DecodeString(salt)
	if err != nil {
		return false
	}
	expected, err := hex.DecodeString(expectedHash)
	if err != nil || len(expected) != KeyLen {
		return false
	}

	computed := derive(password, saltBytes, iterations)

	return subtle.ConstantTimeCompare(computed, expected) == 1
}

func derive(password string, salt []byte, iterations int) []byte {
	return pbkdf2.Key([]byte(password), salt, iterations, KeyLen, sha256.New)
}
