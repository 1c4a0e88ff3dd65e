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

type TaskRepository struct {
	db *DB
}

func NewTaskRepository(db *DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create inserts a new task into the database
func (r *TaskRepository) Create(ctx context.Context, task *models.Task) error {
	if task.ID == "" {
		task.ID = uuid.New().String()
	}

	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO tasks (id, user_id, title, description, priority, completed, due_date, project_id, note_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.Pool.Exec(ctx, query,
		task.ID,
		task.UserID,
		task.Title,
		task.Description,
		task.Priority,
		task.Completed,
		task.DueDate,
		task.ProjectID,
		task.NoteID,
		task.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	return nil
}

// GetByID retrieves a task owned by userID
func (r *TaskRepository) GetByID(ctx context.Context, userID, id string) (*models.Task, error) {
	query := `
		SELECT id, user_id, title, description, priority, completed, due_date, project_id, note_id, created_at
		FROM tasks
		WHERE id = $1 AND user_id = $2
	`

	task := &models.Task{}
	err := r.db.Pool.QueryRow(ctx, query, id, userID).Scan(
		&task.ID,
		&task.UserID,
		&task.Title,
		&task.Description,
		&task.Priority,
		&task.Completed,
		&task.DueDate,
		&task.ProjectID,
		&task.NoteID,
		&task.CreatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	return task, nil
}

// GetAll retrieves all tasks for a user, newest first
func (r *TaskRepository) GetAll(ctx context.Context, userID string) ([]*models.Task, error) {
	query := `
		SELECT id, user_id, title, description, priority, completed, due_date, project_id, note_id, created_at
		FROM tasks
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	return r.queryTasks(ctx, query, userID)
}

// GetByProject retrieves tasks linked to a project, newest first
func (r *TaskRepository) GetByProject(ctx context.Context, userID, projectID string) ([]*models.Task, error) {
	query := `
		SELECT id, user_id, title, description, priority, completed, due_date, project_id, note_id, created_at
		FROM tasks
		WHERE user_id = $1 AND project_id = $2
		ORDER BY created_at DESC
	`

	return r.queryTasks(ctx, query, userID, projectID)
}

func (r *TaskRepository) queryTasks(ctx context.Context, query string, args ...any) ([]*models.Task, error) {
	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*models.Task
	for rows.Next() {
		task := &models.Task{}
		err := rows.Scan(
			&task.ID,
			&task.UserID,
			&task.Title,
			&task.Description,
			&task.Priority,
			&task.Completed,
			&task.DueDate,
			&task.ProjectID,
			&task.NoteID,
			&task.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}

	return tasks, nil
}

// SetCompleted updates only the completed flag of a task
func (r *TaskRepository) SetCompleted(ctx context.Context, userID, id string, completed bool) error {
	query := `UPDATE tasks SET completed = $3 WHERE id = $1 AND user_id = $2`

	result, err := r.db.Pool.Exec(ctx, query, id, userID, completed)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete deletes a task by ID
func (r *TaskRepository) Delete(ctx context.Context, userID, id string) error {
	query := `DELETE FROM tasks WHERE id = $1 AND user_id = $2`

	result, err := r.db.Pool.Exec(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}
