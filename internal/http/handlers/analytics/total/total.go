// Package total отдает точную сумму всех подписок пользователя.
package total

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/shopspring/decimal"

	"github.com/magabrotheeeer/subscription-tracker/internal/http/response"
	"github.com/magabrotheeeer/subscription-tracker/internal/lib/sl"
)

type Handler struct {
	log     *slog.Logger
	service Service
}

type Service interface {
	TotalAmount(ctx context.Context, userID string) (decimal.Decimal, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Общая сумма подписок
// @Description Точная сумма amount по всем подпискам пользователя, строкой. Без подписок "0".
// @Tags Analytics
// @Produce  json
// @Param userId path string true "ID пользователя (UUID)"
// @Success 200 {object} response.Response "user_id и total_amount"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /analytics/total-amount/{userId} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.analytics.total"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userID := chi.URLParam(r, "userId")
	sum, err := h.service.TotalAmount(r.Context(), userID)
	if err != nil {
		log.Error("failed to calculate total amount", sl.Err(err))
		status, body := response.FromError(err, "could not calculate total amount")
		render.Status(r, status)
		render.JSON(w, r, body)
		return
	}

	log.Info("total amount calculated", slog.String("user_id", userID), slog.String("total", sum.String()))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"user_id":      userID,
		"total_amount": sum,
	}))
}
