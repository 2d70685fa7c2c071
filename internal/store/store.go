// Package store is the persistence layer: it reads and writes games, groups, players,
// scores and photos through GORM, and assembles the in-memory snapshots the leaderboard
// engine scores.
package store

import (
	"errors"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when the requested game, group player or photo doesn't exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput wraps every validation failure; the message says what was wrong.
	ErrInvalidInput = errors.New("invalid input")
	// ErrPhotoLimit is returned when a game already has the maximum number of photos.
	ErrPhotoLimit = errors.New("photo limit reached")
)

// Store wraps the GORM handle. It is safe for concurrent use: every method runs its
// own queries (or transaction) against the shared connection pool.
type Store struct {
	db *gorm.DB
}

// New returns a Store backed by db.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// notFound converts GORM's "record not found" into ErrNotFound and leaves every other
// error untouched.
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
