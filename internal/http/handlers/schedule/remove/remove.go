package remove

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/mallangdev/boss-scheduler/internal/http/response"
	"github.com/mallangdev/boss-scheduler/internal/lib/sl"
	services "github.com/mallangdev/boss-scheduler/internal/services/schedule"
)

// Request — входные данные для удаления расписания.
type Request struct {
	UserID string `json:"userId"`
}

type Handler struct {
	log     *slog.Logger
	service Service
}

type Service interface {
	Remove(ctx context.Context, scheduleID, userID string) error
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP обрабатывает DELETE /schedules/{id}.
// Удалять запись может только её создатель: чужой userId даёт 403,
// несуществующий ID — 404 раньше проверки владения.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.schedule.remove"

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

	if req.UserID == "" {
		log.Error("user id is missing")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	err := h.service.Remove(r.Context(), id, req.UserID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrScheduleNotFound):
			log.Error("schedule not found", slog.String("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("schedule not found"))
		case errors.Is(err, services.ErrNotOwner):
			log.Error("delete rejected, not the owner", slog.String("id", id))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("no permission to delete this schedule"))
		default:
			log.Error("failed to delete schedule", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not delete schedule"))
		}
		return
	}

	log.Info("success to delete schedule", slog.String("id", id))
	render.JSON(w, r, response.OK())
}
