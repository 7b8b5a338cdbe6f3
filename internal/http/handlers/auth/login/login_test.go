package login_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/subscription-tracker/internal/http/handlers/auth/login"
	services "github.com/magabrotheeeer/subscription-tracker/internal/services/auth"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Login(ctx context.Context, username, password string) (string, string, error) {
	args := m.Called(ctx, username, password)
	return args.String(0), args.String(1), args.Error(2)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestLoginHandler_Success(t *testing.T) {
	svc := new(ServiceMock)
	h := login.New(newNoopLogger(), svc)

	svc.On("Login", mock.Anything, "alice", "qwerty123").Return("token123", "user", nil)

	req := httptest.NewRequest(http.MethodPost, "/login",
		bytes.NewBufferString(`{"username":"alice","password":"qwerty123"}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "token123")
	assert.Contains(t, rec.Body.String(), `"role":"user"`)
}

func TestLoginHandler_InvalidCredentials(t *testing.T) {
	svc := new(ServiceMock)
	h := login.New(newNoopLogger(), svc)

	svc.On("Login", mock.Anything, "alice", "wrong").
		Return("", "", services.ErrInvalidCredentials)

	req := httptest.NewRequest(http.MethodPost, "/login",
		bytes.NewBufferString(`{"username":"alice","password":"wrong"}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid username or password")
}

func TestLoginHandler_MissingFields(t *testing.T) {
	svc := new(ServiceMock)
	h := login.New(newNoopLogger(), svc)

	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewBufferString(`{}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	svc.AssertNotCalled(t, "Login", mock.Anything, mock.Anything, mock.Anything)
}
