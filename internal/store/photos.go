package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/delmargolf/club/internal/models"
)

// GalleryPhoto is a photo together with the game it belongs to.
type GalleryPhoto struct {
	models.GamePhoto
	GameName string
}

// ListPhotos returns a game's photos, newest first.
func (s *Store) ListPhotos(ctx context.Context, gameID uuid.UUID) ([]models.GamePhoto, error) {
	var photos []models.GamePhoto
	err := s.db.WithContext(ctx).
		Where("game_id = ?", gameID).
		Order("created_at DESC").
		Find(&photos).Error
	if err != nil {
		return nil, fmt.Errorf("list photos of game %s: %w", gameID, err)
	}
	return photos, nil
}

// CanAddPhoto reports ErrPhotoLimit if the game is already full and ErrNotFound if it
// doesn't exist. Call it before uploading so a rejected photo never reaches storage;
// AddPhoto checks again when recording it.
func (s *Store) CanAddPhoto(ctx context.Context, gameID uuid.UUID) error {
	return checkPhotoSlot(s.db.WithContext(ctx), gameID)
}

func checkPhotoSlot(tx *gorm.DB, gameID uuid.UUID) error {
	var game models.Game
	if err := tx.Select("id").First(&game, "id = ?", gameID).Error; err != nil {
		return fmt.Errorf("game %s: %w", gameID, notFound(err))
	}

	var count int64
	if err := tx.Model(&models.GamePhoto{}).Where("game_id = ?", gameID).Count(&count).Error; err != nil {
		return fmt.Errorf("count photos of game %s: %w", gameID, err)
	}
	if count >= models.MaxPhotosPerGame {
		return fmt.Errorf("game %s already has %d photos: %w", gameID, count, ErrPhotoLimit)
	}
	return nil
}

// AddPhoto records an uploaded photo, enforcing the per-game limit.
func (s *Store) AddPhoto(ctx context.Context, gameID uuid.UUID, objectKey, url string) (*models.GamePhoto, error) {
	photo := models.GamePhoto{GameID: gameID, ObjectKey: objectKey, URL: url}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkPhotoSlot(tx, gameID); err != nil {
			return err
		}
		if err := tx.Create(&photo).Error; err != nil {
			return fmt.Errorf("save photo: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &photo, nil
}

// DeletePhoto removes a photo record and returns its object key.
func (s *Store) DeletePhoto(ctx context.Context, id uuid.UUID) (string, error) {
	var photo models.GamePhoto
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&photo, "id = ?", id).Error; err != nil {
			return notFound(err)
		}
		return tx.Delete(&photo).Error
	})
	if err != nil {
		return "", fmt.Errorf("delete photo %s: %w", id, err)
	}
	return photo.ObjectKey, nil
}

// ListGallery returns every photo of every game, newest first.
func (s *Store) ListGallery(ctx context.Context) ([]GalleryPhoto, error) {
	var photos []models.GamePhoto
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&photos).Error; err != nil {
		return nil, fmt.Errorf("list gallery: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(photos))
	for _, p := range photos {
		ids = append(ids, p.GameID)
	}
	var games []models.Game
	if len(ids) > 0 {
		if err := s.db.WithContext(ctx).Select("id", "name").Where("id IN ?", ids).Find(&games).Error; err != nil {
			return nil, fmt.Errorf("list gallery games: %w", err)
		}
	}
	names := make(map[uuid.UUID]string, len(games))
	for _, g := range games {
		names[g.ID] = g.Name
	}

	out := make([]GalleryPhoto, 0, len(photos))
	for _, p := range photos {
		out = append(out, GalleryPhoto{GamePhoto: p, GameName: names[p.GameID]})
	}
	return out, nil
}
