// Package notes drives the note lifecycle: creation with AI analysis,
// conversion of an existing note into a task, and deletion.
package notes

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/D-E-STUDIOS/mindweave-agenda/internal/models"
)

// ErrEmptyContent is returned for empty or whitespace-only note content,
// before any network call is made.
var ErrEmptyContent = errors.New("note content is empty")

// fallbackTitleLen is how much of the note content becomes the task title
// when the AI finds no task during conversion.
const fallbackTitleLen = 100

// Analyzer is the AI client surface the coordinator needs.
type Analyzer interface {
	AnalyzeNote(ctx context.Context, content string) (*models.AnalysisResult, error)
}

// NoteStore is the note persistence surface the coordinator needs.
type NoteStore interface {
	Create(ctx context.Context, note *models.Note) error
	UpdateHasTasks(ctx context.Context, userID, id string, hasTasks bool) error
	Delete(ctx context.Context, userID, id string) error
}

// TaskStore is the task persistence surface the coordinator needs.
type TaskStore interface {
	Create(ctx context.Context, task *models.Task) error
}

// PartialSaveError reports a note that was persisted while some of its
// derived tasks were not. The note is kept; there is no rollback.
type PartialSaveError struct {
	NoteID        string
	TasksCreated  int
	TasksExpected int
	Err           error
}

func (e *PartialSaveError) Error() string {
	return fmt.Sprintf("note %s saved but only %d of %d tasks created: %v",
		e.NoteID, e.TasksCreated, e.TasksExpected, e.Err)
}

func (e *PartialSaveError) Unwrap() error { return e.Err }

// FlagUpdateError reports a conversion that created the task but could not
// flip the source note's has_tasks flag, leaving the two records diverged
// until reconciled.
type FlagUpdateError struct {
	NoteID string
	TaskID string
	Err    error
}

func (e *FlagUpdateError) Error() string {
	return fmt.Sprintf("task %s created from note %s but has_tasks flag not updated: %v",
		e.TaskID, e.NoteID, e.Err)
}

func (e *FlagUpdateError) Unwrap() error { return e.Err }

// Coordinator orchestrates note creation, conversion and deletion against
// the AI client and the store.
type Coordinator struct {
	analyzer Analyzer
	notes    NoteStore
	tasks    TaskStore
}

func NewCoordinator(analyzer Analyzer, notes NoteStore, tasks TaskStore) *Coordinator {
	return &Coordinator{
		analyzer: analyzer,
		notes:    notes,
		tasks:    tasks,
	}
}

// CreateResult reports what a note creation persisted.
type CreateResult struct {
	Note         *models.Note `json:"note"`
	TasksCreated int          `json:"tasks_created"`
}

// CreateNote analyzes content, persists the note with the returned tags,
// then persists one task per task the analysis listed. A task write failure
// partway through returns a PartialSaveError alongside what did land.
func (c *Coordinator) CreateNote(ctx context.Context, userID, content string) (*CreateResult, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}

	analysis, err := c.analyzer.AnalyzeNote(ctx, content)
	if err != nil {
		return nil, err
	}

	note := models.NewNote(userID, content, analysis.Tags, len(analysis.Tasks) > 0)
	if err := c.notes.Create(ctx, note); err != nil {
		return nil, err
	}

	result := &CreateResult{Note: note}
	for _, at := range analysis.Tasks {
		task := models.NewTask(userID, at.Title, optional(at.Description), at.Priority)
		if err := c.tasks.Create(ctx, task); err != nil {
			return result, &PartialSaveError{
				NoteID:        note.ID,
				TasksCreated:  result.TasksCreated,
				TasksExpected: len(analysis.Tasks),
				Err:           err,
			}
		}
		result.TasksCreated++
	}

	return result, nil
}

// ConvertNoteToTask re-analyzes an existing note's content to build a
// structured task from it. When the analysis lists no task, a basic one is
// derived from the content itself. The created task carries the note id
// for provenance, and the note's has_tasks flag is flipped afterwards; the
// flag update is retried once and a persistent failure is surfaced as a
// FlagUpdateError with the task still created.
func (c *Coordinator) ConvertNoteToTask(ctx context.Context, userID, noteID, content string) (*models.Task, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}

	analysis, err := c.analyzer.AnalyzeNote(ctx, content)
	if err != nil {
		return nil, err
	}

	var task *models.Task
	if len(analysis.Tasks) > 0 {
		at := analysis.Tasks[0]
		task = models.NewTask(userID, at.Title, optional(at.Description), at.Priority)
	} else {
		title := content
		if runes := []rune(title); len(runes) > fallbackTitleLen {
			title = string(runes[:fallbackTitleLen])
		}
		task = models.NewTask(userID, title, optional(content), models.PriorityMedium)
	}
	task.NoteID = &noteID

	if err := c.tasks.Create(ctx, task); err != nil {
		return nil, err
	}

	if err := c.notes.UpdateHasTasks(ctx, userID, noteID, true); err != nil {
		// One retry before reporting the divergence.
		if err = c.notes.UpdateHasTasks(ctx, userID, noteID, true); err != nil {
			return task, &FlagUpdateError{NoteID: noteID, TaskID: task.ID, Err: err}
		}
	}

	return task, nil
}

// DeleteNote removes a note by id. Deleting an already-deleted note is a
// not-found condition, never a crash.
func (c *Coordinator) DeleteNote(ctx context.Context, userID, noteID string) error {
	return c.notes.Delete(ctx, userID, noteID)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
