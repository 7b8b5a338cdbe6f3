// Package stats реализует HTTP-обработчик агрегатов административной панели.
package stats

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/subscription-tracker/internal/http/response"
	"github.com/magabrotheeeer/subscription-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-tracker/internal/models"
)

// Handler обрабатывает запросы агрегатов административной панели.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс сбора агрегатов.
type Service interface {
	Collect(ctx context.Context) (*models.AdminStats, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Агрегаты по подпискам
// @Description Возвращает распределение по провайдерам, создание по месяцам и суммарные траты. Только для администратора.
// @Tags Admin
// @Produce  json
// @Success 200 {object} map[string]any "Агрегаты"
// @Failure 403 {object} response.ErrorResponse "Доступ запрещён"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /admin/stats [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.stats"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	res, err := h.service.Collect(r.Context())
	if err != nil {
		log.Error("failed to collect stats", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not collect stats"))
		return
	}

	log.Info("stats collected", slog.Int("subscriptions", res.SubscriptionCount))
	render.JSON(w, r, response.StatusOKWithData(res))
}
