// Package paymentintent реализует HTTP-обработчик создания платёжного интента.
//
// Используется клиентом для разовой оплаты без привязки к продлению:
// сервер создаёт интент у платёжного провайдера и возвращает клиентский
// секрет для завершения платежа на стороне клиента.
package paymentintent

import (
	"context"
	"encoding/json"
	"log/slog"
	"math"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"github.com/magabrotheeeer/subscription-tracker/internal/http/middlewarectx"
	"github.com/magabrotheeeer/subscription-tracker/internal/http/response"
	"github.com/magabrotheeeer/subscription-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-tracker/internal/paymentprovider"
)

// Request описывает тело запроса на создание платёжного интента.
// Минимальная сумма 0.50 в основной валюте.
type Request struct {
	Amount float64 `json:"amount" validate:"required,gte=0.5"`
}

// Handler обрабатывает запросы на создание платёжного интента.
type Handler struct {
	log      *slog.Logger
	service  Service
	currency string
	validate *validator.Validate
}

// Service описывает интерфейс платёжного провайдера.
type Service interface {
	CreatePaymentIntent(ctx context.Context, params paymentprovider.CreateIntentParams) (*paymentprovider.Intent, error)
}

// New создает новый Handler с переданными логгером, сервисом и валютой.
func New(log *slog.Logger, service Service, currency string) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		currency: currency,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Создать платёжный интент
// @Description Создает платёжный интент на указанную сумму и возвращает клиентский секрет.
// @Tags Payments
// @Accept  json
// @Produce  json
// @Param request body Request true "Сумма платежа"
// @Success 200 {object} map[string]any "Клиентский секрет интента"
// @Failure 400 {object} response.ErrorResponse "Некорректный запрос"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 502 {object} response.ErrorResponse "Ошибка платёжного провайдера"
// @Router /payments/intent [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.paymentintent"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
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

	intent, err := h.service.CreatePaymentIntent(r.Context(), paymentprovider.CreateIntentParams{
		AmountMinor: int64(math.Round(req.Amount * 100)),
		Currency:    h.currency,
		Metadata: map[string]string{
			"user":    username,
			"purpose": "one_time_payment",
		},
	})
	if err != nil {
		log.Error("failed to create payment intent", sl.Err(err))
		w.WriteHeader(http.StatusBadGateway)
		render.JSON(w, r, response.Error("could not create payment intent"))
		return
	}

	log.Info("payment intent created", slog.String("intent_id", intent.ID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"client_secret": intent.ClientSecret,
	}))
}
