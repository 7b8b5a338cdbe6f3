package services

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/magabrotheeeer/subscription-tracker/internal/lib/jwt"
	"github.com/magabrotheeeer/subscription-tracker/internal/models"
)

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) RegisterUser(ctx context.Context, user models.User) (string, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Error(1)
}

func (m *mockUserRepo) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestRegister_AssignsUserRole(t *testing.T) {
	repo := new(mockUserRepo)
	svc := NewAuthService(repo, jwt.NewJWTMaker("secret", time.Hour), discardLogger())

	repo.On("RegisterUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
		return u.Role == "user" && u.Email == "alice@example.com" &&
			u.PasswordHash != "" && u.PasswordHash != "qwerty123"
	})).Return("uid-1", nil)

	uid, err := svc.Register(context.Background(), "alice@example.com", "alice", "qwerty123")
	require.NoError(t, err)
	assert.Equal(t, "uid-1", uid)
	repo.AssertExpectations(t)
}

func TestLogin_Success(t *testing.T) {
	repo := new(mockUserRepo)
	maker := jwt.NewJWTMaker("secret", time.Hour)
	svc := NewAuthService(repo, maker, discardLogger())

	hash, err := bcrypt.GenerateFromPassword([]byte("qwerty123"), bcrypt.MinCost)
	require.NoError(t, err)

	repo.On("GetUserByUsername", mock.Anything, "alice").Return(&models.User{
		UUID:         "uid-1",
		Username:     "alice",
		PasswordHash: string(hash),
		Role:         "user",
	}, nil)

	token, role, err := svc.Login(context.Background(), "alice", "qwerty123")
	require.NoError(t, err)
	assert.Equal(t, "user", role)

	claims, err := maker.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "uid-1", claims.UserUID)
}

func TestLogin_WrongPassword(t *testing.T) {
	repo := new(mockUserRepo)
	svc := NewAuthService(repo, jwt.NewJWTMaker("secret", time.Hour), discardLogger())

	hash, err := bcrypt.GenerateFromPassword([]byte("qwerty123"), bcrypt.MinCost)
	require.NoError(t, err)

	repo.On("GetUserByUsername", mock.Anything, "alice").Return(&models.User{
		Username:     "alice",
		PasswordHash: string(hash),
		Role:         "user",
	}, nil)

	_, _, err = svc.Login(context.Background(), "alice", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnknownUser(t *testing.T) {
	repo := new(mockUserRepo)
	svc := NewAuthService(repo, jwt.NewJWTMaker("secret", time.Hour), discardLogger())

	repo.On("GetUserByUsername", mock.Anything, "ghost").Return(nil, errors.New("sql: no rows in result set"))

	_, _, err := svc.Login(context.Background(), "ghost", "qwerty123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
