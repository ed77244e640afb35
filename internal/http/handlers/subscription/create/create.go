// Package create реализует HTTP-обработчик создания подписки пользователя.
package create

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"
	"github.com/shopspring/decimal"

	"github.com/magabrotheeeer/subscription-tracker/internal/http/response"
	"github.com/magabrotheeeer/subscription-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-tracker/internal/models"
)

// Request тело запроса на создание подписки.
// amount принимается и числом, и строкой.
type Request struct {
	ServiceName     string          `json:"service_name" validate:"required" example:"Netflix"`
	PlanType        string          `json:"plan_type" example:"Premium"`
	NextRenewalDate *models.Date    `json:"next_renewal_date" validate:"required" swaggertype:"string" example:"2025-03-01"`
	Amount          decimal.Decimal `json:"amount" swaggertype:"string" example:"15.99"`
	Currency        string          `json:"currency" validate:"omitempty,len=3" example:"USD"`
}

// Draft переводит запрос в изменяемые поля подписки.
func (req Request) Draft() models.Draft {
	d := models.Draft{
		ServiceName: req.ServiceName,
		PlanType:    req.PlanType,
		Amount:      req.Amount,
		Currency:    req.Currency,
	}
	if req.NextRenewalDate != nil {
		d.NextRenewalDate = *req.NextRenewalDate
	}
	return d
}

// Handler обрабатывает запросы на создание подписки.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает бизнес-логику создания подписки.
type Service interface {
	Create(ctx context.Context, userID string, draft models.Draft) (models.Subscription, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Создать новую подписку
// @Description Создает подписку для пользователя userId. Возвращает сохраненную запись с ID.
// @Tags Subscriptions
// @Accept  json
// @Produce  json
// @Param userId path string true "ID пользователя (UUID)"
// @Param request body Request true "Данные подписки"
// @Success 201 {object} response.Response "Подписка создана"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или ошибка валидации"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /users/{userId}/subscriptions [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userID := chi.URLParam(r, "userId")

	var req Request
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode request"))
		return
	}
	log.Info("request body decoded", slog.Any("request", req))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	sub, err := h.service.Create(r.Context(), userID, req.Draft())
	if err != nil {
		log.Error("failed to create subscription", sl.Err(err))
		status, body := response.FromError(err, "could not create subscription")
		render.Status(r, status)
		render.JSON(w, r, body)
		return
	}

	log.Info("subscription created", slog.Int64("id", sub.ID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"subscription": sub,
	}))
}
