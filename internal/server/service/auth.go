// Package service holds the request-independent logic of the API: input
// validation, ownership checks and translation of storage errors into
// apperr kinds. Handlers only decode requests and encode results.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/gophtodo/internal/apperr"
	"github.com/iudanet/gophtodo/internal/crypto"
	"github.com/iudanet/gophtodo/internal/models"
	"github.com/iudanet/gophtodo/internal/server/storage"
	"github.com/iudanet/gophtodo/internal/validation"
)

// invalidCredentialsMessage одинаковое сообщение для неизвестного
// пользователя и неверного пароля
const invalidCredentialsMessage = "invalid username or password"

// Фиктивные учетные данные для выравнивания времени ответа при неизвестном username.
// Корректный hex нужной длины, поэтому KDF выполняется полностью.
var (
	dummySalt = strings.Repeat("0", crypto.SaltSize*2)
	dummyHash = strings.Repeat("0", crypto.KeyLen*2)
)

// SessionStore is the part of the session store the auth service needs.
type SessionStore interface {
	Issue(userID string) (string, error)
	Resolve(sessionID string) (string, bool)
	Revoke(sessionID string)
	TTL() time.Duration
}

// AuthService implements registration, login, logout and session lookup.
type AuthService struct {
	logger   *slog.Logger
	users    storage.UserStorage
	sessions SessionStore
	hasher   *crypto.Hasher
	now      func() time.Time
}

// NewAuthService creates an AuthService.
func NewAuthService(logger *slog.Logger, users storage.UserStorage, sessions SessionStore, hasher *crypto.Hasher) *AuthService {
	return &AuthService{
		logger:   logger,
		users:    users,
		sessions: sessions,
		hasher:   hasher,
		now:      time.Now,
	}
}

// SessionTTL returns the session lifetime, used for the cookie Max-Age.
func (s *AuthService) SessionTTL() time.Duration {
	return s.sessions.TTL()
}

// Register creates a user. The username is trimmed, the password is not.
func (s *AuthService) Register(ctx context.Context, username, password string) (*models.User, error) {
	username = strings.TrimSpace(username)

	if err := validation.ValidateUsername(username); err != nil {
		return nil, apperr.Wrap(apperr.Validation, err.Error(), err)
	}
	if err := validation.ValidatePassword(password); err != nil {
		return nil, apperr.Wrap(apperr.Validation, err.Error(), err)
	}

	hash, salt, err := s.hasher.CreateCredential(password)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to hash password", err)
	}

	user := &models.User{
		ID:                 uuid.New().String(),
		Username:           username,
		PasswordHash:       hash,
		PasswordSalt:       salt,
		PasswordIterations: s.hasher.Iterations,
		CreatedAt:          s.now().UTC(),
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrUserAlreadyExists) {
			s.logger.WarnContext(ctx, "user already exists", slog.String("username", username))
			return nil, apperr.Wrap(apperr.Conflict, "username already taken", err)
		}
		return nil, apperr.Wrap(apperr.Internal, "failed to create user", err)
	}

	s.logger.InfoContext(ctx, "user registered successfully",
		slog.String("username", username),
		slog.String("user_id", user.ID))

	return user, nil
}

// Login checks the credentials and issues a session.
// Unknown usernames and wrong passwords produce the same error.
func (s *AuthService) Login(ctx context.Context, username, password string) (*models.User, string, error) {
	username = strings.TrimSpace(username)

	if username == "" || password == "" {
		return nil, "", apperr.New(apperr.Validation, "username and password are required")
	}

	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, storage.ErrUserNotFound) {
			return nil, "", apperr.Wrap(apperr.Internal, "failed to get user", err)
		}
		// Тратим столько же времени, сколько на проверку существующего пользователя
		s.hasher.VerifyCredential(password, dummySalt, dummyHash)
		s.logger.WarnContext(ctx, "login failed: user not found", slog.String("username", username))
		return nil, "", apperr.New(apperr.InvalidCredentials, invalidCredentialsMessage)
	}

	if !s.hasher.VerifyStored(password, user.PasswordSalt, user.PasswordHash, user.PasswordIterations) {
		s.logger.WarnContext(ctx, "login failed: invalid password", slog.String("username", username))
		return nil, "", apperr.New(apperr.InvalidCredentials, invalidCredentialsMessage)
	}

	sessionID, err := s.sessions.Issue(user.ID)
	if err != nil {
		return nil, "", apperr.Wrap(apperr.Internal, "failed to create session", err)
	}

	s.logger.InfoContext(ctx, "user logged in successfully",
		slog.String("username", username),
		slog.String("user_id", user.ID))

	return user, sessionID, nil
}

// Logout revokes the session. Empty or unknown ids are ignored.
func (s *AuthService) Logout(sessionID string) {
	if sessionID == "" {
		return
	}
	s.sessions.Revoke(sessionID)
}

// Identify resolves a session id to a user id, sliding its expiry.
func (s *AuthService) Identify(sessionID string) (string, bool) {
	return s.sessions.Resolve(sessionID)
}

// CurrentUser loads the user behind an identified request.
// A user deleted from storage while the session lives is reported as nil.
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*models.User, error) {
	if userID == "" {
		return nil, nil
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, nil
		}
		return nil, apperr.Wrap(apperr.Internal, "failed to get user", err)
	}

	return user, nil
}
