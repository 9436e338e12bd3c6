package database

import (
	"context"

	"github.com/shylockwolf/ainote/internal/models"
)

// NoteStore defines the note repository operations consumed by handlers
// and the CLI. The interface enables mock implementations in tests.
type NoteStore interface {
	List(ctx context.Context) ([]*models.Note, error)
	Create(ctx context.Context, content string, tags []models.Tag) (*models.Note, error)
	Update(ctx context.Context, id int64, content string) error
	Delete(ctx context.Context, id int64) error
	Clear(ctx context.Context) error
}

var _ NoteStore = (*NoteRepository)(nil)
