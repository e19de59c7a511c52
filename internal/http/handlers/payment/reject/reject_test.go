package reject

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/mercadolocal/billing-engine/internal/http/middlewarectx"
	"github.com/mercadolocal/billing-engine/internal/models"
	"github.com/mercadolocal/billing-engine/internal/services/review"
)

// MockService реализует интерфейс reject.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Reject(ctx context.Context, paymentUID, reviewerUID string, reviewerRole models.Role, adminNote string, now time.Time) error {
	args := m.Called(ctx, paymentUID, reviewerUID, reviewerRole, adminNote, now)
	return args.Error(0)
}

func newRequest(paymentUID, body, callerUID string, role models.Role) *http.Request {
	req := httptest.NewRequest(http.MethodPost,
		fmt.Sprintf("/payments/%s/reject", paymentUID), bytes.NewBufferString(body))

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("uid", paymentUID)
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	if callerUID != "" {
		ctx = context.WithValue(ctx, middlewarectx.UserUID, callerUID)
		ctx = context.WithValue(ctx, middlewarectx.Role, role)
	}
	return req.WithContext(ctx)
}

func TestRejectHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))

	tests := []struct {
		name           string
		body           string
		callerUID      string
		role           models.Role
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:      "успешное отклонение платежа",
			body:      `{"admin_note":"comprobante ilegible"}`,
			callerUID: "admin-1",
			role:      models.RoleAdmin,
			setupMock: func(m *MockService) {
				m.On("Reject", mock.Anything, "pay-1", "admin-1", models.RoleAdmin, "comprobante ilegible", mock.Anything).
					Return(nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"status":"REJECTED"`,
		},
		{
			name:           "некорректный JSON",
			body:           "not a json",
			callerUID:      "admin-1",
			role:           models.RoleAdmin,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"invalid request body"`,
		},
		{
			name:      "отклонение без комментария",
			body:      `{"admin_note":""}`,
			callerUID: "admin-1",
			role:      models.RoleAdmin,
			setupMock: func(m *MockService) {
				m.On("Reject", mock.Anything, "pay-1", "admin-1", models.RoleAdmin, "", mock.Anything).
					Return(fmt.Errorf("review.Reject: %w", review.ErrEmptyAdminNote)).Once()
			},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `"error":"admin note is required"`,
		},
		{
			name:           "отсутствует авторизация",
			body:           `{"admin_note":"x"}`,
			callerUID:      "",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"error":"unauthorized"`,
		},
		{
			name:      "платёж уже проверен",
			body:      `{"admin_note":"duplicado"}`,
			callerUID: "admin-1",
			role:      models.RoleAdmin,
			setupMock: func(m *MockService) {
				m.On("Reject", mock.Anything, "pay-1", "admin-1", models.RoleAdmin, "duplicado", mock.Anything).
					Return(fmt.Errorf("review.Reject: %w", review.ErrInvalidState)).Once()
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   `"error":"payment already reviewed"`,
		},
		{
			name:      "ошибка сервиса",
			body:      `{"admin_note":"x"}`,
			callerUID: "admin-1",
			role:      models.RoleAdmin,
			setupMock: func(m *MockService) {
				m.On("Reject", mock.Anything, "pay-1", "admin-1", models.RoleAdmin, "x", mock.Anything).
					Return(fmt.Errorf("db error")).Once()
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"error":"could not reject payment"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)
			handler := New(logger, svc)

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, newRequest("pay-1", tt.body, tt.callerUID, tt.role))

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.expectedBody)
			svc.AssertExpectations(t)
		})
	}
}
