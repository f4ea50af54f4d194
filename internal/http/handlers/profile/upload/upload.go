// Package upload реализует HTTP-обработчик загрузки изображения профиля.
// Файл сохраняется в blob-хранилище, полученный URL записывается в профиль.
package upload

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/mallangdev/boss-scheduler/internal/http/middlewarectx"
	"github.com/mallangdev/boss-scheduler/internal/http/response"
	"github.com/mallangdev/boss-scheduler/internal/lib/sl"
	"github.com/mallangdev/boss-scheduler/internal/models"
)

// Предел размера изображения профиля.
const maxUploadSize = 10 << 20

type Handler struct {
	log     *slog.Logger
	blobs   BlobStore
	service Service
}

// BlobStore описывает интерфейс хранилища бинарных объектов.
type BlobStore interface {
	Upload(ctx context.Context, name string, r io.Reader) (string, error)
}

// Service описывает интерфейс обновления профиля.
type Service interface {
	UpdateProfile(ctx context.Context, uid string, patch models.ProfilePatch) error
}

func New(log *slog.Logger, blobs BlobStore, service Service) *Handler {
	return &Handler{
		log:     log,
		blobs:   blobs,
		service: service,
	}
}

// ServeHTTP обрабатывает POST /profile/image с multipart-полем image.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.profile.upload"

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

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		log.Error("failed to parse multipart form", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid multipart form"))
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		log.Error("image file is missing", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("image file is required"))
		return
	}
	defer func() {
		_ = file.Close()
	}()

	objectName := fmt.Sprintf("profile_images/%s/%s", uid, header.Filename)
	url, err := h.blobs.Upload(r.Context(), objectName, file)
	if err != nil {
		log.Error("failed to upload image", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not upload image"))
		return
	}

	patch := models.ProfilePatch{ProfileImageURL: &url}
	if err := h.service.UpdateProfile(r.Context(), uid, patch); err != nil {
		log.Error("failed to save image url", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not update profile"))
		return
	}

	log.Info("profile image uploaded", slog.String("uid", uid))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"profileImageUrl": url,
	}))
}
