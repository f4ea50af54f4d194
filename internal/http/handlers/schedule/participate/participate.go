// Package participate реализует HTTP-обработчик переключения участия
// пользователя в расписании: действия join и leave.
//
// Оба действия идемпотентны на уровне хранилища, поэтому повторный запрос
// с тем же действием — это успех без изменений.
package participate

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/mallangdev/boss-scheduler/internal/http/response"
	"github.com/mallangdev/boss-scheduler/internal/lib/sl"
	services "github.com/mallangdev/boss-scheduler/internal/services/schedule"
)

// Request — входные данные для переключения участия.
// Допустимы ровно два действия: join и leave.
type Request struct {
	Action string `json:"action" validate:"required,oneof=join leave"`
	UserID string `json:"userId"` // Отсутствие трактуется как 401, а не 400
}

// Handler обрабатывает запросы на переключение участия.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс машины состояний участия.
type Service interface {
	Participate(ctx context.Context, scheduleID, userID, action string) error
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP обрабатывает PATCH /schedules/{id}.
//
// Порядок проверок следует старшинству ошибок: сначала валидация действия (400),
// затем наличие идентификатора пользователя (401), затем существование расписания (404).
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.schedule.participate"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")
	if id == "" {
		log.Error("schedule id is missing in url")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("schedule id is required"))
		return
	}

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid action, must be 'join' or 'leave'"))
		return
	}

	if req.UserID == "" {
		log.Error("user id is missing")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	err := h.service.Participate(r.Context(), id, req.UserID, req.Action)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidAction):
			log.Error("invalid action", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid action, must be 'join' or 'leave'"))
		case errors.Is(err, services.ErrScheduleNotFound):
			log.Error("schedule not found", slog.String("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("schedule not found"))
		default:
			log.Error("failed to update participation", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not update participation"))
		}
		return
	}

	log.Info("participation updated",
		slog.String("id", id),
		slog.String("action", req.Action))
	render.JSON(w, r, response.OK())
}
