package gate

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/mercadolocal/billing-engine/internal/models"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *RepoMock) RefreshSubscriptionStatus(ctx context.Context, userUID string, status models.SubscriptionStatus) error {
	return m.Called(ctx, userUID, status).Error(0)
}

type CacheMock struct{ mock.Mock }

func (m *CacheMock) Get(ctx context.Context, key string, result any) (bool, error) {
	args := m.Called(ctx, key, result)
	return args.Bool(0), args.Error(1)
}

func (m *CacheMock) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	return m.Called(ctx, key, value, expiration).Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestSnapshot_CacheMissDerivesAndCaches(t *testing.T) {
	repo := new(RepoMock)
	cache := new(CacheMock)
	svc := New(repo, cache, newNoopLogger())

	became := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	now := time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)
	user := &models.User{
		UID:                "owner-1",
		Email:              "ana@tienda.pe",
		Role:               models.RoleOwner,
		BecameOwnerAt:      &became,
		SubscriptionStatus: "",
	}

	cache.On("Get", mock.Anything, "billing:owner:owner-1", mock.Anything).Return(false, nil).Once()
	repo.On("GetUser", mock.Anything, "owner-1").Return(user, nil).Once()
	cache.On("Set", mock.Anything, "billing:owner:owner-1", mock.Anything, snapshotTTL).Return(nil).Once()
	repo.On("RefreshSubscriptionStatus", mock.Anything, "owner-1", models.StatusTrial).Return(nil).Once()

	snapshot, err := svc.Snapshot(context.Background(), "owner-1", now)

	assert.NoError(t, err)
	assert.Equal(t, models.StatusTrial, snapshot.Status)
	assert.True(t, snapshot.CanAccess)
	assert.Equal(t, 14, snapshot.DaysRemaining)
	assert.Equal(t, time.Date(2024, 2, 15, 9, 0, 0, 0, time.UTC), snapshot.TrialEndsAt)
	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestSnapshot_CacheHitSkipsStorage(t *testing.T) {
	repo := new(RepoMock)
	cache := new(CacheMock)
	svc := New(repo, cache, newNoopLogger())

	cache.On("Get", mock.Anything, "billing:owner:owner-1", mock.Anything).
		Run(func(args mock.Arguments) {
			snap := args.Get(2).(*models.BillingSnapshot)
			snap.Status = models.StatusActive
			snap.CanAccess = true
		}).Return(true, nil).Once()

	snapshot, err := svc.Snapshot(context.Background(), "owner-1", time.Now())

	assert.NoError(t, err)
	assert.Equal(t, models.StatusActive, snapshot.Status)
	repo.AssertNotCalled(t, "GetUser", mock.Anything, mock.Anything)
}

func TestSnapshot_NotOwner(t *testing.T) {
	repo := new(RepoMock)
	cache := new(CacheMock)
	svc := New(repo, cache, newNoopLogger())

	cache.On("Get", mock.Anything, "billing:owner:cust-1", mock.Anything).Return(false, nil).Once()
	repo.On("GetUser", mock.Anything, "cust-1").
		Return(&models.User{UID: "cust-1", Role: models.RoleCustomer}, nil).Once()

	_, err := svc.Snapshot(context.Background(), "cust-1", time.Now())

	assert.ErrorIs(t, err, ErrNotOwner)
}

func TestCanAccess(t *testing.T) {
	became := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		now  time.Time
		paid *time.Time
		want bool
	}{
		{
			name: "trial owner has access",
			now:  time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC),
			want: true,
		},
		{
			name: "suspended without payment loses access",
			now:  time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			cache := new(CacheMock)
			svc := New(repo, cache, newNoopLogger())

			user := &models.User{
				UID:                   "owner-1",
				Role:                  models.RoleOwner,
				BecameOwnerAt:         &became,
				SubscriptionPaidUntil: tt.paid,
			}
			cache.On("Get", mock.Anything, mock.Anything, mock.Anything).Return(false, nil).Once()
			repo.On("GetUser", mock.Anything, "owner-1").Return(user, nil).Once()
			cache.On("Set", mock.Anything, mock.Anything, mock.Anything, snapshotTTL).Return(nil).Once()
			repo.On("RefreshSubscriptionStatus", mock.Anything, "owner-1", mock.Anything).Return(nil).Once()

			got, err := svc.CanAccess(context.Background(), "owner-1", tt.now)

			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSnapshot_CacheErrorsAreNotFatal(t *testing.T) {
	repo := new(RepoMock)
	cache := new(CacheMock)
	svc := New(repo, cache, newNoopLogger())

	became := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	now := time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)
	user := &models.User{UID: "owner-1", Role: models.RoleOwner, BecameOwnerAt: &became}

	cache.On("Get", mock.Anything, mock.Anything, mock.Anything).
		Return(false, errors.New("redis down")).Once()
	repo.On("GetUser", mock.Anything, "owner-1").Return(user, nil).Once()
	cache.On("Set", mock.Anything, mock.Anything, mock.Anything, snapshotTTL).
		Return(errors.New("redis down")).Once()
	repo.On("RefreshSubscriptionStatus", mock.Anything, "owner-1", models.StatusTrial).Return(nil).Once()

	snapshot, err := svc.Snapshot(context.Background(), "owner-1", now)

	assert.NoError(t, err)
	assert.Equal(t, models.StatusTrial, snapshot.Status)
}
