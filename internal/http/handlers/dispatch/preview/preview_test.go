package preview

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/mercadolocal/billing-engine/internal/models"
)

// MockService реализует интерфейс preview.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Analyze(ctx context.Context, now time.Time) (*models.DispatchAnalysis, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DispatchAnalysis), args.Error(1)
}

func TestPreviewHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))

	t.Run("успешный предпросмотр", func(t *testing.T) {
		svc := new(MockService)
		svc.On("Analyze", mock.Anything, mock.Anything).Return(&models.DispatchAnalysis{
			TotalOwners: 2,
			WouldNotify: 1,
			Analysis: []models.OwnerAnalysis{
				{Email: "ana@tienda.pe", Status: models.StatusTrial, DaysRemaining: 3, Action: "notify", Kind: models.KindTrialEnding},
				{Email: "luz@tienda.pe", Status: models.StatusActive, Action: "skip"},
			},
		}, nil).Once()

		rec := httptest.NewRecorder()
		handler := New(logger, svc)
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/billing/dispatch/preview", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"would_notify":1`)
		assert.Contains(t, rec.Body.String(), `"action":"notify"`)
		assert.Contains(t, rec.Body.String(), `"action":"skip"`)
		svc.AssertExpectations(t)
	})

	t.Run("ошибка перечисления владельцев", func(t *testing.T) {
		svc := new(MockService)
		svc.On("Analyze", mock.Anything, mock.Anything).
			Return(nil, errors.New("db down")).Once()

		rec := httptest.NewRecorder()
		handler := New(logger, svc)
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/billing/dispatch/preview", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, rec.Body.String(), `"error":"dispatch preview failed"`)
		svc.AssertExpectations(t)
	})
}
