// Package create реализует HTTP-обработчик для создания новых расписаний боссов.
//
// Handler принимает JSON-запрос с данными расписания, валидирует их, проверяет
// наличие идентификатора создателя, вызывает бизнес-логику создания через сервис
// и возвращает сохранённую запись вместе с назначенным ID.
//
// В случае ошибок формируются соответствующие HTTP-ответы с описанием проблемы.
package create

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/mallangdev/boss-scheduler/internal/http/response"
	"github.com/mallangdev/boss-scheduler/internal/lib/sl"
	"github.com/mallangdev/boss-scheduler/internal/models"
)

// Handler управляет HTTP-запросами на создание новых расписаний.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики для создания расписаний
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики создания расписания.
type Service interface {
	Create(ctx context.Context, req models.DummySchedule) (*models.Schedule, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP обрабатывает POST /schedules.
//
// Отсутствие userId — это отказ в аутентификации (401), а не ошибка валидации:
// остальные обязательные поля проверяются валидатором и дают 400.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.schedule.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummySchedule
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	if req.UserID == "" {
		log.Error("user id is missing")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	entry, err := h.service.Create(r.Context(), req)
	if err != nil {
		log.Error("failed to create schedule", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create schedule"))
		return
	}

	log.Info("success to create schedule", slog.String("id", entry.ID))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.StatusOKWithData(entry))
}
