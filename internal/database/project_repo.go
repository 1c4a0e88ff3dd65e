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

type ProjectRepository struct {
	db *DB
}

func NewProjectRepository(db *DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Create inserts a new project into the database
func (r *ProjectRepository) Create(ctx context.Context, project *models.Project) error {
	if project.ID == "" {
		project.ID = uuid.New().String()
	}

	if project.CreatedAt.IsZero() {
		project.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO projects (id, user_id, title, description, color, start_date, end_date, completed, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.Pool.Exec(ctx, query,
		project.ID,
		project.UserID,
		project.Title,
		project.Description,
		project.Color,
		project.StartDate,
		project.EndDate,
		project.Completed,
		project.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}

	return nil
}

// GetByID retrieves a project owned by userID
func (r *ProjectRepository) GetByID(ctx context.Context, userID, id string) (*models.Project, error) {
	query := `
		SELECT id, user_id, title, description, color, start_date, end_date, completed, created_at
		FROM projects
		WHERE id = $1 AND user_id = $2
	`

	project := &models.Project{}
	err := r.db.Pool.QueryRow(ctx, query, id, userID).Scan(
		&project.ID,
		&project.UserID,
		&project.Title,
		&project.Description,
		&project.Color,
		&project.StartDate,
		&project.EndDate,
		&project.Completed,
		&project.CreatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	return project, nil
}

// GetAll retrieves all projects for a user, newest first
func (r *ProjectRepository) GetAll(ctx context.Context, userID string) ([]*models.Project, error) {
	query := `
		SELECT id, user_id, title, description, color, start_date, end_date, completed, created_at
		FROM projects
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query projects: %w", err)
	}
	defer rows.Close()

	var projects []*models.Project
	for rows.Next() {
		project := &models.Project{}
		err := rows.Scan(
			&project.ID,
			&project.UserID,
			&project.Title,
			&project.Description,
			&project.Color,
			&project.StartDate,
			&project.EndDate,
			&project.Completed,
			&project.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, project)
	}

	return projects, nil
}

// SetCompleted updates only the completed flag of a project
func (r *ProjectRepository) SetCompleted(ctx context.Context, userID, id string, completed bool) error {
	query := `UPDATE projects SET completed = $3 WHERE id = $1 AND user_id = $2`

	result, err := r.db.Pool.Exec(ctx, query, id, userID, completed)
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete deletes a project by ID
func (r *ProjectRepository) Delete(ctx context.Context, userID, id string) error {
	query := `DELETE FROM projects WHERE id = $1 AND user_id = $2`

	result, err := r.db.Pool.Exec(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}
