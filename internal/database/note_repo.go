package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/D-E-STUDIOS/mindweave-agenda/internal/models"
)

type NoteRepository struct {
	db *DB
}

func NewNoteRepository(db *DB) *NoteRepository {
	return &NoteRepository{db: db}
}

// Create inserts a new note into the database
func (r *NoteRepository) Create(ctx context.Context, note *models.Note) error {
	if note.ID == "" {
		note.ID = uuid.New().String()
	}

	if note.CreatedAt.IsZero() {
		note.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO notes (id, user_id, content, tags, has_tasks, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Pool.Exec(ctx, query,
		note.ID,
		note.UserID,
		note.Content,
		note.Tags,
		note.HasTasks,
		note.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create note: %w", err)
	}

	return nil
}

// GetByID retrieves a note owned by userID
func (r *NoteRepository) GetByID(ctx context.Context, userID, id string) (*models.Note, error) {
	query := `
		SELECT id, user_id, content, tags, has_tasks, created_at
		FROM notes
		WHERE id = $1 AND user_id = $2
	`

	note := &models.Note{}
	err := r.db.Pool.QueryRow(ctx, query, id, userID).Scan(
		&note.ID,
		&note.UserID,
		&note.Content,
		&note.Tags,
		&note.HasTasks,
		&note.CreatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get note: %w", err)
	}

	return note, nil
}

// GetAll retrieves all notes for a user, newest first
func (r *NoteRepository) GetAll(ctx context.Context, userID string) ([]*models.Note, error) {
	query := `
		SELECT id, user_id, content, tags, has_tasks, created_at
		FROM notes
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query notes: %w", err)
	}
	defer rows.Close()

	var notes []*models.Note
	for rows.Next() {
		note := &models.Note{}
		err := rows.Scan(
			&note.ID,
			&note.UserID,
			&note.Content,
			&note.Tags,
			&note.HasTasks,
			&note.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		notes = append(notes, note)
	}

	return notes, nil
}

// UpdateHasTasks flips the has_tasks flag on a note
func (r *NoteRepository) UpdateHasTasks(ctx context.Context, userID, id string, hasTasks bool) error {
	query := `UPDATE notes SET has_tasks = $3 WHERE id = $1 AND user_id = $2`

	result, err := r.db.Pool.Exec(ctx, query, id, userID, hasTasks)
	if err != nil {
		return fmt.Errorf("failed to update note: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete deletes a note by ID
func (r *NoteRepository) Delete(ctx context.Context, userID, id string) error {
	query := `DELETE FROM notes WHERE id = $1 AND user_id = $2`

	result, err := r.db.Pool.Exec(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// Count returns the number of notes a user has
func (r *NoteRepository) Count(ctx context.Context, userID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM notes WHERE user_id = $1`

	err := r.db.Pool.QueryRow(ctx, query, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count notes: %w", err)
	}

	return count, nil
}
