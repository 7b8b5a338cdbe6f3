package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/subscription-tracker/internal/lib/smtp"
	"github.com/magabrotheeeer/subscription-tracker/internal/models"
)

type fakeWriteCloser struct {
	buf    *bytes.Buffer
	closed bool
}

func (w *fakeWriteCloser) Write(p []byte) (int, error) { return w.buf.Write(p) }
func (w *fakeWriteCloser) Close() error                { w.closed = true; return nil }

type fakeClient struct {
	from    string
	to      string
	writer  *fakeWriteCloser
	rcptErr error
	quit    bool
}

func (c *fakeClient) Mail(from string) error { c.from = from; return nil }
func (c *fakeClient) Rcpt(to string) error   { c.to = to; return c.rcptErr }
func (c *fakeClient) Data() (io.WriteCloser, error) {
	c.writer = &fakeWriteCloser{buf: &bytes.Buffer{}}
	return c.writer, nil
}
func (c *fakeClient) Quit() error  { c.quit = true; return nil }
func (c *fakeClient) Close() error { return nil }

type fakeTransport struct {
	client     *fakeClient
	connectErr error
}

func (t *fakeTransport) Connect() (smtp.Client, error) {
	if t.connectErr != nil {
		return nil, t.connectErr
	}
	return t.client, nil
}

func (t *fakeTransport) GetSMTPUser() string { return "noreply@example.com" }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func noticeBody(t *testing.T) []byte {
	t.Helper()
	body, err := json.Marshal(models.SubscriptionNotice{
		SubscriptionID:  5,
		Email:           "alice@example.com",
		Username:        "alice",
		Name:            "Netflix",
		Amount:          9.99,
		NextPaymentDate: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return body
}

func TestHandleMessage_SendsEmail(t *testing.T) {
	client := &fakeClient{}
	svc := NewSenderService(&fakeTransport{client: client}, discardLogger())

	require.NoError(t, svc.HandleMessage(noticeBody(t)))

	assert.Equal(t, "noreply@example.com", client.from)
	assert.Equal(t, "alice@example.com", client.to)
	assert.True(t, client.quit)
	require.NotNil(t, client.writer)
	assert.True(t, client.writer.closed)

	msg := client.writer.buf.String()
	assert.Contains(t, msg, "Netflix")
	assert.Contains(t, msg, "9.99")
	assert.Contains(t, msg, "2026-09-01")
}

func TestHandleMessage_BadPayload(t *testing.T) {
	svc := NewSenderService(&fakeTransport{client: &fakeClient{}}, discardLogger())
	assert.Error(t, svc.HandleMessage([]byte("not json")))
}

func TestHandleMessage_ConnectFailure(t *testing.T) {
	svc := NewSenderService(&fakeTransport{connectErr: errors.New("dial tcp: refused")}, discardLogger())
	assert.Error(t, svc.HandleMessage(noticeBody(t)))
}

func TestHandleMessage_RcptFailure(t *testing.T) {
	client := &fakeClient{rcptErr: errors.New("550 no such user")}
	svc := NewSenderService(&fakeTransport{client: client}, discardLogger())
	assert.Error(t, svc.HandleMessage(noticeBody(t)))
}
