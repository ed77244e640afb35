// Package lookup ищет пользователя по имени.
package lookup

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

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
	GetByUsername(ctx context.Context, username string) (models.User, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Найти пользователя по имени
// @Tags Users
// @Produce  json
// @Param username query string true "Имя пользователя"
// @Success 200 {object} response.Response "Пользователь"
// @Failure 400 {object} response.ErrorResponse "Не передан username"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /users [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.lookup"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	username := strings.TrimSpace(r.URL.Query().Get("username"))
	if username == "" {
		log.Error("username query parameter is missing")
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("field username is a required field"))
		return
	}

	user, err := h.service.GetByUsername(r.Context(), username)
	if err != nil {
		log.Error("failed to get user", sl.Err(err))
		status, body := response.FromError(err, "could not get user")
		render.Status(r, status)
		render.JSON(w, r, body)
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"user": user,
	}))
}
