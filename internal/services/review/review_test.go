package review

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
	"github.com/mercadolocal/billing-engine/internal/storage/repository"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) ApprovePayment(ctx context.Context, paymentUID, reviewerUID, adminNote string, now time.Time) (string, error) {
	args := m.Called(ctx, paymentUID, reviewerUID, adminNote, now)
	return args.String(0), args.Error(1)
}

func (m *RepoMock) RejectPayment(ctx context.Context, paymentUID, reviewerUID, adminNote string, now time.Time) error {
	return m.Called(ctx, paymentUID, reviewerUID, adminNote, now).Error(0)
}

type CacheMock struct{ mock.Mock }

func (m *CacheMock) Invalidate(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestApprove(t *testing.T) {
	now := time.Date(2024, 3, 10, 15, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		role       models.Role
		setupMocks func(r *RepoMock, c *CacheMock)
		wantErr    error
	}{
		{
			name: "success approve invalidates snapshot",
			role: models.RoleAdmin,
			setupMocks: func(r *RepoMock, c *CacheMock) {
				r.On("ApprovePayment", mock.Anything, "pay-1", "admin-1", "", now).
					Return("owner-7", nil).Once()
				c.On("Invalidate", mock.Anything, "billing:owner:owner-7").Return(nil).Once()
			},
		},
		{
			name:       "owner role rejected",
			role:       models.RoleOwner,
			setupMocks: func(_ *RepoMock, _ *CacheMock) {},
			wantErr:    ErrNotAdmin,
		},
		{
			name: "already reviewed payment",
			role: models.RoleAdmin,
			setupMocks: func(r *RepoMock, _ *CacheMock) {
				r.On("ApprovePayment", mock.Anything, "pay-1", "admin-1", "", now).
					Return("", repository.ErrPaymentAlreadyReviewed).Once()
			},
			wantErr: ErrInvalidState,
		},
		{
			name: "missing payment",
			role: models.RoleAdmin,
			setupMocks: func(r *RepoMock, _ *CacheMock) {
				r.On("ApprovePayment", mock.Anything, "pay-1", "admin-1", "", now).
					Return("", repository.ErrPaymentNotFound).Once()
			},
			wantErr: ErrPaymentNotFound,
		},
		{
			name: "cache failure does not fail approval",
			role: models.RoleAdmin,
			setupMocks: func(r *RepoMock, c *CacheMock) {
				r.On("ApprovePayment", mock.Anything, "pay-1", "admin-1", "", now).
					Return("owner-7", nil).Once()
				c.On("Invalidate", mock.Anything, "billing:owner:owner-7").
					Return(errors.New("redis down")).Once()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			cache := new(CacheMock)
			tt.setupMocks(repo, cache)
			svc := New(repo, cache, newNoopLogger())

			err := svc.Approve(context.Background(), "pay-1", "admin-1", tt.role, "", now)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			repo.AssertExpectations(t)
			cache.AssertExpectations(t)
		})
	}
}

func TestReject(t *testing.T) {
	now := time.Date(2024, 3, 10, 15, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		role       models.Role
		note       string
		setupMocks func(r *RepoMock)
		wantErr    error
	}{
		{
			name: "success reject",
			role: models.RoleAdmin,
			note: "comprobante ilegible",
			setupMocks: func(r *RepoMock) {
				r.On("RejectPayment", mock.Anything, "pay-1", "admin-1", "comprobante ilegible", now).
					Return(nil).Once()
			},
		},
		{
			name:       "empty note rejected",
			role:       models.RoleAdmin,
			note:       "",
			setupMocks: func(_ *RepoMock) {},
			wantErr:    ErrEmptyAdminNote,
		},
		{
			name:       "customer role rejected",
			role:       models.RoleCustomer,
			note:       "comprobante ilegible",
			setupMocks: func(_ *RepoMock) {},
			wantErr:    ErrNotAdmin,
		},
		{
			name: "already reviewed payment",
			role: models.RoleAdmin,
			note: "comprobante ilegible",
			setupMocks: func(r *RepoMock) {
				r.On("RejectPayment", mock.Anything, "pay-1", "admin-1", "comprobante ilegible", now).
					Return(repository.ErrPaymentAlreadyReviewed).Once()
			},
			wantErr: ErrInvalidState,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			tt.setupMocks(repo)
			svc := New(repo, new(CacheMock), newNoopLogger())

			err := svc.Reject(context.Background(), "pay-1", "admin-1", tt.role, tt.note, now)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			repo.AssertExpectations(t)
		})
	}
}
