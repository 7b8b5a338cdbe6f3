// Package renew реализует HTTP-обработчик продления подписки.
//
// Handler принимает платёжный метод, запускает цикл оплаты через сервис
// продления и возвращает клиентский секрет платёжного интента вместе
// с подпиской, дата следующего списания которой уже сдвинута.
// Дата меняется только после подтверждённого успеха платежа.
package renew

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"github.com/magabrotheeeer/subscription-tracker/internal/http/middlewarectx"
	"github.com/magabrotheeeer/subscription-tracker/internal/http/response"
	"github.com/magabrotheeeer/subscription-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-tracker/internal/models"
)

// Handler обрабатывает запросы на продление подписки.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики продления подписки.
type Service interface {
	Renew(ctx context.Context, id int, username, paymentMethod string) (*models.RenewalResult, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Продлить подписку
// @Description Списывает стоимость одного биллингового цикла и сдвигает дату следующего списания.
// @Tags Subscriptions
// @Accept  json
// @Produce  json
// @Param id path int true "ID подписки"
// @Param request body models.RenewRequest true "Платёжный метод"
// @Success 200 {object} map[string]any "Результат продления"
// @Failure 400 {object} response.ErrorResponse "Некорректный запрос"
// @Failure 402 {object} response.ErrorResponse "Платёж отклонён"
// @Failure 404 {object} response.ErrorResponse "Подписка не найдена"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /subscriptions/{id}/renew [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.renew"

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

	var req models.RenewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	username, ok := r.Context().Value(middlewarectx.User).(string)
	if !ok || username == "" {
		log.Error("username not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	result, err := h.service.Renew(r.Context(), id, username, req.PaymentMethod)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Error("subscription not found", slog.Int("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("subscription not found"))
			return
		}
		if strings.Contains(err.Error(), "renewal failed") {
			log.Error("renewal rejected", sl.Err(err))
			w.WriteHeader(http.StatusPaymentRequired)
			render.JSON(w, r, response.Error(err.Error()))
			return
		}
		log.Error("failed to renew subscription", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not renew subscription"))
		return
	}

	log.Info("success to renew subscription", slog.Int("id", id))
	render.JSON(w, r, response.StatusOKWithData(result))
}
