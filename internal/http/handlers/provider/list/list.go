// Package list реализует HTTP-обработчик каталога провайдеров.
// Каталог открыт без авторизации и используется фронтендом для выбора
// провайдера при создании подписки.
package list

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

// Handler обрабатывает запросы списка провайдеров.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики списка провайдеров.
type Service interface {
	List(ctx context.Context) ([]*models.Provider, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список провайдеров
// @Description Возвращает каталог провайдеров подписок.
// @Tags Providers
// @Produce  json
// @Success 200 {object} map[string]any "Каталог провайдеров"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /providers [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.provider.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	res, err := h.service.List(r.Context())
	if err != nil {
		log.Error("failed to list providers", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list providers"))
		return
	}

	log.Info("list providers", "count", len(res))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"providers": res,
	}))
}
