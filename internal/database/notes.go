package database

import (
	"context"
	"strings"
	"time"

	"github.com/shylockwolf/ainote/internal/models"
)

// NoteRepository handles note and tag database operations.
type NoteRepository struct {
	db *DB
}

// NewNoteRepository creates a new note repository.
func NewNoteRepository(db *DB) *NoteRepository {
	return &NoteRepository{db: db}
}

// List retrieves every note, newest first, with its tags eagerly attached
// in insertion order. The result is unbounded.
func (r *NoteRepository) List(ctx context.Context) ([]*models.Note, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, content, created_at, updated_at
		FROM notes
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, &StorageError{Op: "list notes", Err: err}
	}
	defer rows.Close()

	var notes []*models.Note
	byID := make(map[int64]*models.Note)
	for rows.Next() {
		note := &models.Note{Tags: []models.Tag{}}
		if err := rows.Scan(&note.ID, &note.Content, &note.CreatedAt, &note.UpdatedAt); err != nil {
			return nil, &StorageError{Op: "scan note", Err: err}
		}
		notes = append(notes, note)
		byID[note.ID] = note
	}
	if err := rows.Err(); err != nil {
		return nil, &StorageError{Op: "iterate notes", Err: err}
	}

	tagRows, err := r.db.QueryContext(ctx, `
		SELECT id, note_id, key, value
		FROM tags
		ORDER BY note_id, id
	`)
	if err != nil {
		return nil, &StorageError{Op: "list tags", Err: err}
	}
	defer tagRows.Close()

	for tagRows.Next() {
		var tag models.Tag
		if err := tagRows.Scan(&tag.ID, &tag.NoteID, &tag.Key, &tag.Value); err != nil {
			return nil, &StorageError{Op: "scan tag", Err: err}
		}
		if note, ok := byID[tag.NoteID]; ok {
			note.Tags = append(note.Tags, tag)
		}
	}
	if err := tagRows.Err(); err != nil {
		return nil, &StorageError{Op: "iterate tags", Err: err}
	}

	return notes, nil
}

// Create inserts a note and its tags in one transaction and returns the
// hydrated note. Rejects empty content with a ValidationError; any write
// failure rolls the whole note back.
func (r *NoteRepository) Create(ctx context.Context, content string, tags []models.Tag) (*models.Note, error) {
	if strings.TrimSpace(content) == "" {
		return nil, &ValidationError{Field: "content", Reason: "must not be empty"}
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, &StorageError{Op: "begin create note", Err: err}
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now()
	result, err := tx.ExecContext(ctx,
		`INSERT INTO notes (content, created_at, updated_at) VALUES (?, ?, ?)`,
		content, now, now,
	)
	if err != nil {
		return nil, &StorageError{Op: "insert note", Err: err}
	}
	noteID, err := result.LastInsertId()
	if err != nil {
		return nil, &StorageError{Op: "insert note", Err: err}
	}

	note := &models.Note{
		ID:        noteID,
		Content:   content,
		Tags:      make([]models.Tag, 0, len(tags)),
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, tag := range tags {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO tags (note_id, key, value) VALUES (?, ?, ?)`,
			noteID, tag.Key, tag.Value,
		)
		if err != nil {
			return nil, &StorageError{Op: "insert tag", Err: err}
		}
		tagID, err := res.LastInsertId()
		if err != nil {
			return nil, &StorageError{Op: "insert tag", Err: err}
		}
		note.Tags = append(note.Tags, models.Tag{ID: tagID, NoteID: noteID, Key: tag.Key, Value: tag.Value})
	}

	if err := tx.Commit(); err != nil {
		return nil, &StorageError{Op: "commit create note", Err: err}
	}
	return note, nil
}

// Update overwrites a note's content and refreshes updated_at. A missing id
// is a silent no-op; callers that care should read the note back.
func (r *NoteRepository) Update(ctx context.Context, id int64, content string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE notes SET content = ?, updated_at = ? WHERE id = ?`,
		content, time.Now(), id,
	)
	if err != nil {
		return &StorageError{Op: "update note", Err: err}
	}
	return nil
}

// Delete removes a note; its tags go with it via the foreign-key cascade.
// Deleting a non-existent id succeeds.
func (r *NoteRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, id); err != nil {
		return &StorageError{Op: "delete note", Err: err}
	}
	return nil
}

// Clear removes every note and tag. Irreversible.
func (r *NoteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM notes`); err != nil {
		return &StorageError{Op: "clear notes", Err: err}
	}
	return nil
}
