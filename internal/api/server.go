// Package api exposes the organizer over JSON HTTP. The owning user for
// every operation comes from the X-User-ID header; authentication itself
// is handled upstream.
package api

import (
	"context"
	"net/http"

	"github.com/D-E-STUDIOS/mindweave-agenda/internal/brain"
	"github.com/D-E-STUDIOS/mindweave-agenda/internal/models"
	"github.com/D-E-STUDIOS/mindweave-agenda/internal/notes"
	"github.com/D-E-STUDIOS/mindweave-agenda/internal/projects"
	"github.com/D-E-STUDIOS/mindweave-agenda/internal/tasks"
)

// NoteReader lists and resolves stored notes.
type NoteReader interface {
	GetAll(ctx context.Context, userID string) ([]*models.Note, error)
	GetByID(ctx context.Context, userID, id string) (*models.Note, error)
}

// TaskReader lists stored tasks.
type TaskReader interface {
	GetAll(ctx context.Context, userID string) ([]*models.Task, error)
}

// ProjectReader lists stored projects.
type ProjectReader interface {
	GetAll(ctx context.Context, userID string) ([]*models.Project, error)
}

type Server struct {
	coordinator *notes.Coordinator
	taskSvc     *tasks.Service
	projectSvc  *projects.Service
	engine      *brain.Engine

	noteReader    NoteReader
	taskReader    TaskReader
	projectReader ProjectReader
}

func NewServer(
	coordinator *notes.Coordinator,
	taskSvc *tasks.Service,
	projectSvc *projects.Service,
	engine *brain.Engine,
	noteReader NoteReader,
	taskReader TaskReader,
	projectReader ProjectReader,
) *Server {
	return &Server{
		coordinator:   coordinator,
		taskSvc:       taskSvc,
		projectSvc:    projectSvc,
		engine:        engine,
		noteReader:    noteReader,
		taskReader:    taskReader,
		projectReader: projectReader,
	}
}

// Register wires all routes onto mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/notes", s.requireUser(s.handleListNotes))
	mux.HandleFunc("POST /api/notes", s.requireUser(s.handleCreateNote))
	mux.HandleFunc("POST /api/notes/{id}/convert", s.requireUser(s.handleConvertNote))
	mux.HandleFunc("DELETE /api/notes/{id}", s.requireUser(s.handleDeleteNote))

	mux.HandleFunc("GET /api/tasks", s.requireUser(s.handleListTasks))
	mux.HandleFunc("POST /api/tasks", s.requireUser(s.handleCreateTask))
	mux.HandleFunc("POST /api/tasks/{id}/toggle", s.requireUser(s.handleToggleTask))
	mux.HandleFunc("DELETE /api/tasks/{id}", s.requireUser(s.handleDeleteTask))

	mux.HandleFunc("GET /api/projects", s.requireUser(s.handleListProjects))
	mux.HandleFunc("POST /api/projects", s.requireUser(s.handleCreateProject))
	mux.HandleFunc("POST /api/projects/{id}/toggle", s.requireUser(s.handleToggleProject))
	mux.HandleFunc("DELETE /api/projects/{id}", s.requireUser(s.handleDeleteProject))

	mux.HandleFunc("GET /api/calendar", s.requireUser(s.handleCalendarBucket))
	mux.HandleFunc("GET /api/calendar/days", s.requireUser(s.handleCalendarDays))

	mux.HandleFunc("GET /api/brain", s.requireUser(s.handleBrainLatest))
	mux.HandleFunc("POST /api/brain/refresh", s.requireUser(s.handleBrainRefresh))

	mux.HandleFunc("GET /health", s.healthCheck)
}

// healthCheck provides a simple health check endpoint
func (s *Server) healthCheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
