// Package upcoming отдает подписки пользователя, продлевающиеся в ближайшие 7 дней.
package upcoming

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/subscription-tracker/internal/http/response"
	"github.com/magabrotheeeer/subscription-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-tracker/internal/models"
)

type Handler struct {
	log     *slog.Logger
	service Service
}

type Service interface {
	UpcomingRenewals(ctx context.Context, userID string) ([]models.Subscription, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Ближайшие продления
// @Description Подписки пользователя с next_renewal_date от сегодня до сегодня+7 дней включительно.
// @Tags Analytics
// @Produce  json
// @Param userId path string true "ID пользователя (UUID)"
// @Success 200 {object} response.Response "Список подписок"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /analytics/upcoming-renewals/{userId} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.analytics.upcoming"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userID := chi.URLParam(r, "userId")
	res, err := h.service.UpcomingRenewals(r.Context(), userID)
	if err != nil {
		log.Error("failed to get upcoming renewals", sl.Err(err))
		status, body := response.FromError(err, "could not get upcoming renewals")
		render.Status(r, status)
		render.JSON(w, r, body)
		return
	}

	log.Info("upcoming renewals", slog.String("user_id", userID), slog.Int("count", len(res)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"count":         len(res),
		"subscriptions": res,
	}))
}
