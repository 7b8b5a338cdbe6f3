// Package read реализует HTTP-обработчик получения обращения по ID.
// Доступен только администратору.
package read

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/subscription-tracker/internal/http/response"
	"github.com/magabrotheeeer/subscription-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-tracker/internal/models"
)

// Handler обрабатывает запросы на чтение обращения.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики чтения обращения.
type Service interface {
	Read(ctx context.Context, id int) (*models.Reclamation, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить обращение по ID
// @Description Возвращает обращение в поддержку. Только для администратора.
// @Tags Reclamations
// @Produce  json
// @Param id path int true "ID обращения"
// @Success 200 {object} map[string]any "Данные обращения"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 404 {object} response.ErrorResponse "Обращение не найдено"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /admin/reclamations/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.reclamation.read"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		log.Error("failed to decode id from url", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode id from url"))
		return
	}

	res, err := h.service.Read(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Error("reclamation not found", slog.Int("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("reclamation not found"))
			return
		}
		log.Error("failed to read reclamation", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read reclamation"))
		return
	}

	log.Info("success to read reclamation", slog.Int("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"reclamation": res,
	}))
}
