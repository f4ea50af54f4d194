// Package update реализует HTTP-обработчик частичного обновления профиля:
// никнейма и ссылки на изображение. Идентичность берётся из JWT-контекста,
// поэтому пользователь может менять только собственный профиль.
package update

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/mallangdev/boss-scheduler/internal/http/middlewarectx"
	"github.com/mallangdev/boss-scheduler/internal/http/response"
	"github.com/mallangdev/boss-scheduler/internal/lib/sl"
	"github.com/mallangdev/boss-scheduler/internal/models"
	services "github.com/mallangdev/boss-scheduler/internal/services/auth"
)

type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс обновления профиля.
type Service interface {
	UpdateProfile(ctx context.Context, uid string, patch models.ProfilePatch) error
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP обрабатывает PATCH /profile.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.profile.update"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	uid, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || uid == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	var patch models.ProfilePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if patch.IsEmpty() {
		log.Error("empty profile patch")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("nothing to update"))
		return
	}

	if err := h.service.UpdateProfile(r.Context(), uid, patch); err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			log.Error("user not found", slog.String("uid", uid))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
			return
		}
		log.Error("failed to update profile", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not update profile"))
		return
	}

	log.Info("profile updated", slog.String("uid", uid))
	render.JSON(w, r, response.OK())
}
