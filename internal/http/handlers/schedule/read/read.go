// Package read реализует HTTP-обработчик для получения расписания по ID
// вместе с разрешёнными никнеймами участников.
package read

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/mallangdev/boss-scheduler/internal/http/response"
	"github.com/mallangdev/boss-scheduler/internal/lib/sl"
	"github.com/mallangdev/boss-scheduler/internal/models"
	services "github.com/mallangdev/boss-scheduler/internal/services/schedule"
)

// Handler обрабатывает запросы на получение расписания по уникальному идентификатору.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики чтения расписания.
type Service interface {
	Details(ctx context.Context, id string) (*models.ScheduleDetails, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP обрабатывает GET /schedules/{id}.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.schedule.read"

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

	res, err := h.service.Details(r.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrScheduleNotFound) {
			log.Error("schedule not found", slog.String("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("schedule not found"))
			return
		}
		log.Error("failed to read schedule", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read schedule"))
		return
	}

	log.Info("success to read schedule", slog.String("id", id))
	render.JSON(w, r, response.StatusOKWithData(res))
}
