package update

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

type MockService struct {
	mock.Mock
}

func (m *MockService) Update(ctx context.Context, id int64, patch models.Draft) (models.Subscription, error) {
	args := m.Called(ctx, id, patch)
	return args.Get(0).(models.Subscription), args.Error(1)
}

func TestUpdateHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	validBody := `{"service_name":"Spotify","plan_type":"Family","next_renewal_date":"2025-04-01","amount":"16.99","currency":"EUR"}`

	tests := []struct {
		name           string
		id             string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "успешное обновление",
			id:   "3",
			body: validBody,
			setupMock: func(m *MockService) {
				m.On("Update", mock.Anything, int64(3), mock.MatchedBy(func(d models.Draft) bool {
					return d.ServiceName == "Spotify" && d.Currency == "EUR" &&
						d.Amount.Equal(decimal.RequireFromString("16.99"))
				})).Return(models.Subscription{ID: 3, UserID: "u1", ServiceName: "Spotify"}, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"service_name":"Spotify"`,
		},
		{
			name:           "некорректный id",
			id:             "x",
			body:           validBody,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `failed to decode id from url`,
		},
		{
			name:           "пустое имя сервиса",
			id:             "3",
			body:           `{"next_renewal_date":"2025-04-01","amount":"1"}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `field ServiceName is a required field`,
		},
		{
			name:           "валюта неверной длины",
			id:             "3",
			body:           `{"service_name":"Spotify","next_renewal_date":"2025-04-01","amount":"1","currency":"EURO"}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `field Currency must be exactly 3 characters`,
		},
		{
			name: "подписка не найдена",
			id:   "99",
			body: validBody,
			setupMock: func(m *MockService) {
				m.On("Update", mock.Anything, int64(99), mock.Anything).
					Return(models.Subscription{}, apperr.NotFound("subscription", "99")).Once()
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `subscription 99 not found`,
		},
		{
			name: "ошибка сервиса",
			id:   "3",
			body: validBody,
			setupMock: func(m *MockService) {
				m.On("Update", mock.Anything, int64(3), mock.Anything).
					Return(models.Subscription{}, errors.New("db error")).Once()
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `could not update subscription`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			req := httptest.NewRequest(http.MethodPut, "/subscriptions/"+tt.id, strings.NewReader(tt.body))
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.id)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
			w := httptest.NewRecorder()

			New(logger, mockService).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
			mockService.AssertExpectations(t)
		})
	}
}
