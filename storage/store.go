// Package storage persists camper records keyed by an auto-incrementing id.
package storage

import (
	"context"

	"github.com/pkg/errors"

	"campuslands/models"
)

var (
	// ErrNotFound is returned when no record matches the lookup.
	ErrNotFound = errors.New("camper not found")
	// ErrConflict is returned by Replace when the record changed since it was read.
	ErrConflict = errors.New("camper was modified concurrently")
)

// Store is the record store behind the registration engine. Implementations
// own their id counter: Insert assigns the next id (max existing id + 1, or 1
// when empty) and the initial version. Replace is a compare-and-swap on
// Version and bumps it on success.
type Store interface {
	List(ctx context.Context) ([]models.Camper, error)
	Count(ctx context.Context) (int, error)
	Get(ctx context.Context, id int) (*models.Camper, error)
	// GetPending returns the record only while its status is pending.
	GetPending(ctx context.Context, id int) (*models.Camper, error)
	Insert(ctx context.Context, c *models.Camper) error
	Replace(ctx context.Context, c *models.Camper) error
	Close() error
}
