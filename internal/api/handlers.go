package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/D-E-STUDIOS/mindweave-agenda/internal/calendar"
	"github.com/D-E-STUDIOS/mindweave-agenda/internal/models"
	"github.com/D-E-STUDIOS/mindweave-agenda/internal/notes"
	"github.com/D-E-STUDIOS/mindweave-agenda/internal/projects"
	"github.com/D-E-STUDIOS/mindweave-agenda/internal/tasks"
)

const dateLayout = "2006-01-02"

// --- Notes ---

func (s *Server) handleListNotes(w http.ResponseWriter, r *http.Request, userID string) {
	list, err := s.noteReader.GetAll(r.Context(), userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if list == nil {
		list = []*models.Note{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleCreateNote(w http.ResponseWriter, r *http.Request, userID string) {
	var body struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := s.coordinator.CreateNote(r.Context(), userID, body.Content)
	if err != nil {
		var partial *notes.PartialSaveError
		if errors.As(err, &partial) {
			// The note and some tasks landed; report the gap instead of
			// pretending nothing happened.
			writeJSON(w, http.StatusInternalServerError, map[string]any{
				"error":         partial.Error(),
				"note":          result.Note,
				"tasks_created": partial.TasksCreated,
			})
			return
		}
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

func (s *Server) handleConvertNote(w http.ResponseWriter, r *http.Request, userID string) {
	noteID := r.PathValue("id")

	note, err := s.noteReader.GetByID(r.Context(), userID, noteID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	task, err := s.coordinator.ConvertNoteToTask(r.Context(), userID, noteID, note.Content)
	if err != nil {
		var flagErr *notes.FlagUpdateError
		if errors.As(err, &flagErr) {
			// Task exists, note flag is stale; surface both.
			writeJSON(w, http.StatusInternalServerError, map[string]any{
				"error": flagErr.Error(),
				"task":  task,
			})
			return
		}
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"task": task})
}

func (s *Server) handleDeleteNote(w http.ResponseWriter, r *http.Request, userID string) {
	if err := s.coordinator.DeleteNote(r.Context(), userID, r.PathValue("id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Tasks ---

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request, userID string) {
	list, err := s.taskReader.GetAll(r.Context(), userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	active, completed := calendar.PartitionTasks(list)
	switch r.URL.Query().Get("status") {
	case "active":
		list = active
	case "completed":
		list = completed
	}
	if list == nil {
		list = []*models.Task{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request, userID string) {
	var input tasks.CreateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	task, err := s.taskSvc.Create(r.Context(), userID, input)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

func (s *Server) handleToggleTask(w http.ResponseWriter, r *http.Request, userID string) {
	task, err := s.taskSvc.ToggleCompleted(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request, userID string) {
	if err := s.taskSvc.Delete(r.Context(), userID, r.PathValue("id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Projects ---

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request, userID string) {
	list, err := s.projectReader.GetAll(r.Context(), userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	active, completed := calendar.PartitionProjects(list)
	switch r.URL.Query().Get("status") {
	case "active":
		list = active
	case "completed":
		list = completed
	}
	if list == nil {
		list = []*models.Project{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request, userID string) {
	var input projects.CreateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	project, err := s.projectSvc.Create(r.Context(), userID, input)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, project)
}

func (s *Server) handleToggleProject(w http.ResponseWriter, r *http.Request, userID string) {
	project, err := s.projectSvc.ToggleCompleted(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request, userID string) {
	if err := s.projectSvc.Delete(r.Context(), userID, r.PathValue("id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Calendar ---

func (s *Server) handleCalendarBucket(w http.ResponseWriter, r *http.Request, userID string) {
	date, err := time.Parse(dateLayout, r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	taskList, err := s.taskReader.GetAll(r.Context(), userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	projectList, err := s.projectReader.GetAll(r.Context(), userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, calendar.BucketForDate(date, taskList, projectList))
}

func (s *Server) handleCalendarDays(w http.ResponseWriter, r *http.Request, userID string) {
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "year must be a number")
		return
	}
	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil || month < 1 || month > 12 {
		writeError(w, http.StatusBadRequest, "month must be 1-12")
		return
	}

	taskList, err := s.taskReader.GetAll(r.Context(), userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	projectList, err := s.projectReader.GetAll(r.Context(), userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	days := calendar.DaysWithContent(year, time.Month(month), taskList, projectList)
	if days == nil {
		days = []int{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"days": days})
}

// --- Brain ---

func (s *Server) handleBrainLatest(w http.ResponseWriter, r *http.Request, userID string) {
	analysis, ok := s.engine.Latest(userID)
	if !ok {
		writeError(w, http.StatusNotFound, "no brain analysis yet")
		return
	}
	writeJSON(w, http.StatusOK, analysis)
}

func (s *Server) handleBrainRefresh(w http.ResponseWriter, r *http.Request, userID string) {
	noteList, err := s.noteReader.GetAll(r.Context(), userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	analysis, err := s.engine.Refresh(r.Context(), userID, noteList)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, analysis)
}
