// Package tasks holds direct task mutations: creation, completion
// toggling and deletion.
package tasks

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/D-E-STUDIOS/mindweave-agenda/internal/inflight"
	"github.com/D-E-STUDIOS/mindweave-agenda/internal/models"
)

var (
	// ErrEmptyTitle is returned for an empty or whitespace-only title,
	// before any write.
	ErrEmptyTitle = errors.New("task title is empty")

	// ErrMutationInFlight means another mutation on the same task has not
	// resolved yet.
	ErrMutationInFlight = errors.New("task mutation already in flight")
)

// Store is the task persistence surface the service needs.
type Store interface {
	Create(ctx context.Context, task *models.Task) error
	GetByID(ctx context.Context, userID, id string) (*models.Task, error)
	SetCompleted(ctx context.Context, userID, id string, completed bool) error
	Delete(ctx context.Context, userID, id string) error
}

// CreateInput carries the fields for a user-created task.
type CreateInput struct {
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	ProjectID   *string    `json:"project_id,omitempty"`
}

type Service struct {
	store Store
	guard *inflight.Guard
}

func NewService(store Store) *Service {
	return &Service{
		store: store,
		guard: inflight.NewGuard(),
	}
}

// Create persists a task entered directly by the user. Title is required;
// an unknown priority falls back to medium.
func (s *Service) Create(ctx context.Context, userID string, input CreateInput) (*models.Task, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrEmptyTitle
	}

	task := models.NewTask(userID, strings.TrimSpace(input.Title), input.Description, input.Priority)
	task.DueDate = input.DueDate
	task.ProjectID = input.ProjectID

	if err := s.store.Create(ctx, task); err != nil {
		return nil, err
	}

	return task, nil
}

// ToggleCompleted flips the completed flag. The new value is computed from
// the read here; last write wins, there is no optimistic-lock check.
func (s *Service) ToggleCompleted(ctx context.Context, userID, id string) (*models.Task, error) {
	if !s.guard.TryAcquire(id) {
		return nil, ErrMutationInFlight
	}
	defer s.guard.Release(id)

	task, err := s.store.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	task.Completed = !task.Completed
	if err := s.store.SetCompleted(ctx, userID, id, task.Completed); err != nil {
		return nil, err
	}

	return task, nil
}

// Delete removes a task by id. An already-deleted id surfaces as not
// found, never a crash.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if !s.guard.TryAcquire(id) {
		return ErrMutationInFlight
	}
	defer s.guard.Release(id)

	return s.store.Delete(ctx, userID, id)
}
