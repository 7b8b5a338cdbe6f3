// Package services реализует регистрацию и вход пользователей.
package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/magabrotheeeer/subscription-tracker/internal/lib/jwt"
	"github.com/magabrotheeeer/subscription-tracker/internal/lib/password"
	"github.com/magabrotheeeer/subscription-tracker/internal/models"
)

// ErrInvalidCredentials возвращается при неверной паре логин/пароль.
var ErrInvalidCredentials = errors.New("invalid credentials")

// UserRepository определяет методы для работы с пользователями в хранилище.
type UserRepository interface {
	// RegisterUser сохраняет нового пользователя и возвращает его UID.
	RegisterUser(ctx context.Context, user models.User) (string, error)
	// GetUserByUsername возвращает пользователя по username.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// AuthService реализует регистрацию, вход и проверку токенов.
type AuthService struct {
	repo  UserRepository
	maker jwt.Maker
	log   *slog.Logger
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(repo UserRepository, maker jwt.Maker, log *slog.Logger) *AuthService {
	return &AuthService{
		repo:  repo,
		maker: maker,
		log:   log,
	}
}

// Register создает нового пользователя с ролью user и возвращает его UID.
func (s *AuthService) Register(ctx context.Context, email, username, rawPassword string) (string, error) {
	passwordHash, err := password.GetHash(rawPassword)
	if err != nil {
		return "", err
	}

	uid, err := s.repo.RegisterUser(ctx, models.User{
		Email:        email,
		Username:     username,
		PasswordHash: passwordHash,
		Role:         "user",
	})
	if err != nil {
		return "", err
	}

	s.log.Info("registered new user", slog.String("username", username))
	return uid, nil
}

// Login проверяет пароль пользователя и возвращает подписанный JWT и роль.
func (s *AuthService) Login(ctx context.Context, username, rawPassword string) (string, string, error) {
	user, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		return "", "", ErrInvalidCredentials
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", "", ErrInvalidCredentials
	}

	token, err := s.maker.GenerateToken(user.Username, user.Role, user.UUID)
	if err != nil {
		return "", "", err
	}
	return token, user.Role, nil
}

// ValidateToken проверяет токен и возвращает claims пользователя.
func (s *AuthService) ValidateToken(_ context.Context, tokenStr string) (*jwt.CustomClaims, error) {
	return s.maker.ParseToken(tokenStr)
}
