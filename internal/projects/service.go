// Package projects holds project mutations: creation, completion toggling
// and deletion.
package projects

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
	ErrEmptyTitle = errors.New("project title is empty")

	// ErrInvalidColor is returned when the color is not in the palette.
	ErrInvalidColor = errors.New("project color not in palette")

	// ErrMutationInFlight means another mutation on the same project has
	// not resolved yet.
	ErrMutationInFlight = errors.New("project mutation already in flight")
)

// Store is the project persistence surface the service needs.
type Store interface {
	Create(ctx context.Context, project *models.Project) error
	GetByID(ctx context.Context, userID, id string) (*models.Project, error)
	SetCompleted(ctx context.Context, userID, id string, completed bool) error
	Delete(ctx context.Context, userID, id string) error
}

// CreateInput carries the fields for a new project. No ordering is
// enforced between StartDate and EndDate.
type CreateInput struct {
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	Color       string     `json:"color"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
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

// Create persists a project. Title is required; an empty color defaults to
// the first palette entry, any other unknown color is rejected.
func (s *Service) Create(ctx context.Context, userID string, input CreateInput) (*models.Project, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrEmptyTitle
	}
	if input.Color != "" && !models.ValidProjectColor(input.Color) {
		return nil, ErrInvalidColor
	}

	project := models.NewProject(userID, strings.TrimSpace(input.Title), input.Description,
		input.Color, input.StartDate, input.EndDate)

	if err := s.store.Create(ctx, project); err != nil {
		return nil, err
	}

	return project, nil
}

// ToggleCompleted flips the completed flag. Last write wins.
func (s *Service) ToggleCompleted(ctx context.Context, userID, id string) (*models.Project, error) {
	if !s.guard.TryAcquire(id) {
		return nil, ErrMutationInFlight
	}
	defer s.guard.Release(id)

	project, err := s.store.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	project.Completed = !project.Completed
	if err := s.store.SetCompleted(ctx, userID, id, project.Completed); err != nil {
		return nil, err
	}

	return project, nil
}

// Delete removes a project by id. An already-deleted id surfaces as not
// found, never a crash.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if !s.guard.TryAcquire(id) {
		return ErrMutationInFlight
	}
	defer s.guard.Release(id)

	return s.store.Delete(ctx, userID, id)
}
