package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/delmargolf/club/internal/metrics"
	"github.com/delmargolf/club/internal/models"
	"github.com/delmargolf/club/internal/photos"
	"github.com/delmargolf/club/internal/store"
)

// MaxPhotoSize is the largest image accepted by the upload endpoint.
const MaxPhotoSize = 10 << 20

// PhotoResponse is one gallery image.
type PhotoResponse struct {
	ID        string `json:"id"`
	GameID    string `json:"game_id"`
	GameName  string `json:"game_name,omitempty"`
	URL       string `json:"url"`
	CreatedAt string `json:"created_at"`
}

func photoResponse(p models.GamePhoto, gameName string) PhotoResponse {
	return PhotoResponse{
		ID:        p.ID.String(),
		GameID:    p.GameID.String(),
		GameName:  gameName,
		URL:       p.URL,
		CreatedAt: p.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// ListPhotos returns a handler for GET /api/v1/games/:id/photos.
func ListPhotos(st *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := pathID(c)
		if err != nil {
			return err
		}
		list, err := st.ListPhotos(c.UserContext(), id)
		if err != nil {
			return storeError(err, "list photos")
		}

		response := make([]PhotoResponse, 0, len(list))
		for _, p := range list {
			response = append(response, photoResponse(p, ""))
		}
		return c.JSON(response)
	}
}

// ListGallery returns a handler for GET /api/v1/gallery: every photo of every game.
func ListGallery(st *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		list, err := st.ListGallery(c.UserContext())
		if err != nil {
			return storeError(err, "list gallery")
		}

		response := make([]PhotoResponse, 0, len(list))
		for _, p := range list {
			response = append(response, photoResponse(p.GamePhoto, p.GameName))
		}
		return c.JSON(response)
	}
}

// UploadPhoto returns a handler for POST /api/v1/games/:id/photos. The image comes in
// the multipart field "photo". The per-game limit is checked before the upload so a
// rejected photo never reaches storage; if recording the photo fails afterwards the
// uploaded object is removed again.
func UploadPhoto(st *store.Store, ph photos.Store, m *metrics.Metrics, log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if ph == nil {
			return fiber.NewError(fiber.StatusServiceUnavailable, "photo uploads are not configured")
		}
		id, err := pathID(c)
		if err != nil {
			return err
		}

		fh, err := c.FormFile("photo")
		if err != nil {
			m.PhotoUploads.WithLabelValues("rejected").Inc()
			return fiber.NewError(fiber.StatusBadRequest, "missing photo file")
		}
		contentType, ok := photos.ContentType(fh.Filename)
		if !ok {
			m.PhotoUploads.WithLabelValues("rejected").Inc()
			return fiber.NewError(fiber.StatusUnsupportedMediaType, "only image files can be uploaded")
		}
		if fh.Size > MaxPhotoSize {
			m.PhotoUploads.WithLabelValues("rejected").Inc()
			return fiber.NewError(fiber.StatusRequestEntityTooLarge, "photo is too large")
		}

		if err := st.CanAddPhoto(c.UserContext(), id); err != nil {
			m.PhotoUploads.WithLabelValues("rejected").Inc()
			return storeError(err, "check photo limit")
		}

		f, err := fh.Open()
		if err != nil {
			return err
		}
		defer f.Close()

		key := photos.ObjectKey(id.String(), fh.Filename, time.Now())
		url, err := ph.Put(c.UserContext(), key, contentType, f, fh.Size)
		if err != nil {
			m.PhotoUploads.WithLabelValues("error").Inc()
			return err
		}

		photo, err := st.AddPhoto(c.UserContext(), id, key, url)
		if err != nil {
			if derr := ph.Delete(c.UserContext(), key); derr != nil {
				log.Warn().Err(derr).Str("key", key).Msg("orphaned photo object")
			}
			if errors.Is(err, store.ErrPhotoLimit) {
				m.PhotoUploads.WithLabelValues("rejected").Inc()
			} else {
				m.PhotoUploads.WithLabelValues("error").Inc()
			}
			return storeError(err, "add photo")
		}

		m.PhotoUploads.WithLabelValues("ok").Inc()
		log.Info().Str("game_id", id.String()).Str("key", key).Msg("photo uploaded")
		return c.Status(fiber.StatusCreated).JSON(photoResponse(*photo, ""))
	}
}

// DeletePhoto returns a handler for DELETE /api/v1/photos/:id (admin only).
func DeletePhoto(st *store.Store, ph photos.Store, log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := pathID(c)
		if err != nil {
			return err
		}
		key, err := st.DeletePhoto(c.UserContext(), id)
		if err != nil {
			return storeError(err, "delete photo")
		}
		if ph != nil {
			if err := ph.Delete(c.UserContext(), key); err != nil {
				log.Warn().Err(err).Str("key", key).Msg("orphaned photo object")
			}
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
