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

type mockSubsRepo struct {
	mock.Mock
}

func (m *mockSubsRepo) ListAllSubscriptions(ctx context.Context, limit, offset int) ([]*models.Subscription, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Subscription), args.Error(1)
}

type mockProviderRepo struct {
	mock.Mock
}

func (m *mockProviderRepo) ListProviders(ctx context.Context) ([]*models.Provider, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Provider), args.Error(1)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestCollect_Aggregates(t *testing.T) {
	subs := new(mockSubsRepo)
	providers := new(mockProviderRepo)
	svc := NewStatsService(subs, providers, discardLogger())

	providers.On("ListProviders", mock.Anything).Return([]*models.Provider{
		{ID: 1, Name: "Netflix"},
		{ID: 2, Name: "Spotify"},
	}, nil)

	march := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	july := time.Date(2026, 7, 2, 0, 0, 0, 0, time.UTC)
	subs.On("ListAllSubscriptions", mock.Anything, pageSize, 0).Return([]*models.Subscription{
		{ID: 1, ProviderID: 1, Amount: 10.00, BillingCycle: "monthly", CreatedAt: march},
		{ID: 2, ProviderID: 1, Amount: 12.00, BillingCycle: "monthly", CreatedAt: march},
		{ID: 3, ProviderID: 2, Amount: 120.00, BillingCycle: "yearly", CreatedAt: july},
	}, nil)

	stats, err := svc.Collect(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, stats.SubscriptionCount)
	assert.Equal(t, 2, stats.ProviderCount)
	// годовая подписка учитывается как 120/12 = 10 в месяц
	assert.InDelta(t, 32.00, stats.TotalMonthlyAmount, 0.001)
	assert.Equal(t, 2, stats.ProviderDistribution["Netflix"])
	assert.Equal(t, 1, stats.ProviderDistribution["Spotify"])
	assert.Equal(t, 2, stats.CreatedByMonth[2])
	assert.Equal(t, 1, stats.CreatedByMonth[6])
}

func TestCollect_UnknownProviderBucketed(t *testing.T) {
	subs := new(mockSubsRepo)
	providers := new(mockProviderRepo)
	svc := NewStatsService(subs, providers, discardLogger())

	providers.On("ListProviders", mock.Anything).Return([]*models.Provider{}, nil)
	subs.On("ListAllSubscriptions", mock.Anything, pageSize, 0).Return([]*models.Subscription{
		{ID: 1, ProviderID: 42, Amount: 5.00, BillingCycle: "monthly", CreatedAt: time.Now()},
	}, nil)

	stats, err := svc.Collect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.ProviderDistribution["unknown"])
}

func TestCollect_WalksAllPages(t *testing.T) {
	subs := new(mockSubsRepo)
	providers := new(mockProviderRepo)
	svc := NewStatsService(subs, providers, discardLogger())

	providers.On("ListProviders", mock.Anything).Return([]*models.Provider{{ID: 1, Name: "Netflix"}}, nil)

	first := make([]*models.Subscription, pageSize)
	for i := range first {
		first[i] = &models.Subscription{ID: i + 1, ProviderID: 1, Amount: 1.00, BillingCycle: "monthly", CreatedAt: time.Now()}
	}
	subs.On("ListAllSubscriptions", mock.Anything, pageSize, 0).Return(first, nil)
	subs.On("ListAllSubscriptions", mock.Anything, pageSize, pageSize).Return([]*models.Subscription{
		{ID: pageSize + 1, ProviderID: 1, Amount: 1.00, BillingCycle: "monthly", CreatedAt: time.Now()},
	}, nil)

	stats, err := svc.Collect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, pageSize+1, stats.SubscriptionCount)
	subs.AssertExpectations(t)
}
