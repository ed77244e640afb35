package create

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/subscription-tracker/internal/lib/apperr"
	"github.com/magabrotheeeer/subscription-tracker/internal/models"
)

const userID = "6f1d3a5e-2c44-4b8f-9a0e-0c1b2d3e4f50"

type MockService struct {
	mock.Mock
}

func (m *MockService) Create(ctx context.Context, userID string, draft models.Draft) (models.Subscription, error) {
	args := m.Called(ctx, userID, draft)
	return args.Get(0).(models.Subscription), args.Error(1)
}

func TestCreateHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "успешное создание",
			body: `{"service_name":"Netflix","plan_type":"Premium","next_renewal_date":"2025-03-01","amount":15.99,"currency":"usd"}`,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, userID, mock.MatchedBy(func(d models.Draft) bool {
					return d.ServiceName == "Netflix" &&
						d.Amount.Equal(decimal.RequireFromString("15.99")) &&
						d.NextRenewalDate == models.NewDate(2025, 3, 1)
				})).Return(models.Subscription{
					ID:              1,
					UserID:          userID,
					ServiceName:     "Netflix",
					NextRenewalDate: models.NewDate(2025, 3, 1),
					Amount:          decimal.RequireFromString("15.99"),
					Currency:        "USD",
				}, nil).Once()
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   `"amount":"15.99"`,
		},
		{
			name:           "некорректный JSON",
			body:           `{"service_name":`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"failed to decode request"`,
		},
		{
			name:           "нет даты продления",
			body:           `{"service_name":"Netflix","amount":"15.99"}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `field NextRenewalDate is a required field`,
		},
		{
			name:           "некорректная дата",
			body:           `{"service_name":"Netflix","amount":"15.99","next_renewal_date":"01-03-2025"}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"failed to decode request"`,
		},
		{
			name: "нулевая сумма",
			body: `{"service_name":"Netflix","amount":0,"next_renewal_date":"2025-03-01"}`,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, userID, mock.Anything).
					Return(models.Subscription{}, apperr.Invalid("amount", "must be greater than zero")).Once()
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `invalid amount: must be greater than zero`,
		},
		{
			name: "пользователь не найден",
			body: `{"service_name":"Netflix","amount":1,"next_renewal_date":"2025-03-01"}`,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, userID, mock.Anything).
					Return(models.Subscription{}, apperr.NotFound("user", userID)).Once()
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `not found`,
		},
		{
			name: "ошибка хранилища",
			body: `{"service_name":"Netflix","amount":1,"next_renewal_date":"2025-03-01"}`,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, userID, mock.Anything).
					Return(models.Subscription{}, errors.New("db error")).Once()
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"could not create subscription"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			req := httptest.NewRequest(http.MethodPost, "/users/"+userID+"/subscriptions", strings.NewReader(tt.body))
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("userId", userID)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
			w := httptest.NewRecorder()

			New(logger, mockService).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
			mockService.AssertExpectations(t)
		})
	}
}
