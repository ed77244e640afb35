// Package listall отдает все подписки сервиса постранично.
package listall

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

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

// Service ограничивает limit и offset сам.
type Service interface {
	ListAll(ctx context.Context, limit, offset int) ([]models.Subscription, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Все подписки
// @Description Постраничный список всех подписок, упорядоченный по ID.
// @Tags Subscriptions
// @Produce  json
// @Param limit query int false "Размер страницы (по умолчанию 10, максимум 100)"
// @Param offset query int false "Смещение"
// @Success 200 {object} response.Response "Список подписок"
// @Failure 400 {object} response.ErrorResponse "Некорректные параметры"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /subscriptions [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.listall"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	limit, err := queryInt(r, "limit")
	if err != nil {
		log.Error("failed to parse limit", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("limit must be an integer"))
		return
	}
	offset, err := queryInt(r, "offset")
	if err != nil {
		log.Error("failed to parse offset", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("offset must be an integer"))
		return
	}

	res, err := h.service.ListAll(r.Context(), limit, offset)
	if err != nil {
		log.Error("failed to list subscriptions", sl.Err(err))
		status, body := response.FromError(err, "failed to list")
		render.Status(r, status)
		render.JSON(w, r, body)
		return
	}

	log.Info("list subscriptions", slog.Int("count", len(res)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"count":         len(res),
		"subscriptions": res,
	}))
}

// queryInt читает необязательный целый параметр; отсутствие дает 0.
func queryInt(r *http.Request, name string) (int, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}
