package services

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/subscription-tracker/internal/models"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) FindSubscriptionsDueWithin(ctx context.Context, days int) ([]*models.SubscriptionNotice, error) {
	args := m.Called(ctx, days)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.SubscriptionNotice), args.Error(1)
}

type fakeCache struct {
	values map[string]string
}

func newFakeCache() *fakeCache {
	return &fakeCache{values: make(map[string]string)}
}

func (c *fakeCache) Get(key string, result any) (bool, error) {
	val, ok := c.values[key]
	if !ok {
		return false, nil
	}
	*(result.(*string)) = val
	return true, nil
}

func (c *fakeCache) Set(key string, value any, _ time.Duration) error {
	c.values[key] = value.(string)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestScanOnce_PublishesAndMarks(t *testing.T) {
	repo := new(mockRepo)
	cache := newFakeCache()

	var published []*models.SubscriptionNotice
	pub := PublisherFunc(func(message any) error {
		published = append(published, message.(*models.SubscriptionNotice))
		return nil
	})
	svc := NewSchedulerService(repo, cache, pub, discardLogger())

	due := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	repo.On("FindSubscriptionsDueWithin", mock.Anything, 3).Return([]*models.SubscriptionNotice{
		{SubscriptionID: 5, Email: "alice@example.com", NextPaymentDate: due},
	}, nil)

	require.NoError(t, svc.ScanOnce(context.Background()))
	require.Len(t, published, 1)
	assert.Equal(t, "2026-09-01", cache.values["notified:5"])
}

func TestScanOnce_SkipsAlreadyNotified(t *testing.T) {
	repo := new(mockRepo)
	cache := newFakeCache()
	cache.values["notified:5"] = "2026-09-01"

	var published int
	pub := PublisherFunc(func(any) error {
		published++
		return nil
	})
	svc := NewSchedulerService(repo, cache, pub, discardLogger())

	due := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	repo.On("FindSubscriptionsDueWithin", mock.Anything, 3).Return([]*models.SubscriptionNotice{
		{SubscriptionID: 5, NextPaymentDate: due},
	}, nil)

	require.NoError(t, svc.ScanOnce(context.Background()))
	assert.Zero(t, published)
}

func TestScanOnce_RenewedDateNotifiesAgain(t *testing.T) {
	repo := new(mockRepo)
	cache := newFakeCache()
	// уведомление о прошлой дате уже отправлялось, после продления дата новая
	cache.values["notified:5"] = "2026-08-01"

	var published int
	pub := PublisherFunc(func(any) error {
		published++
		return nil
	})
	svc := NewSchedulerService(repo, cache, pub, discardLogger())

	due := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	repo.On("FindSubscriptionsDueWithin", mock.Anything, 3).Return([]*models.SubscriptionNotice{
		{SubscriptionID: 5, NextPaymentDate: due},
	}, nil)

	require.NoError(t, svc.ScanOnce(context.Background()))
	assert.Equal(t, 1, published)
	assert.Equal(t, "2026-09-01", cache.values["notified:5"])
}

func TestScanOnce_PublishFailureKeepsMarkerClear(t *testing.T) {
	repo := new(mockRepo)
	cache := newFakeCache()

	pub := PublisherFunc(func(any) error {
		return assert.AnError
	})
	svc := NewSchedulerService(repo, cache, pub, discardLogger())

	due := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	repo.On("FindSubscriptionsDueWithin", mock.Anything, 3).Return([]*models.SubscriptionNotice{
		{SubscriptionID: 5, NextPaymentDate: due},
	}, nil)

	require.NoError(t, svc.ScanOnce(context.Background()))
	_, ok := cache.values["notified:5"]
	assert.False(t, ok)
}
