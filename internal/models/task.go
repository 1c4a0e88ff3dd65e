package models

import "time"

// Task priorities
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// ValidPriority reports whether p is one of the three known priorities.
func ValidPriority(p string) bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

// Task is an actionable item, either created directly by the user or
// derived from a Note (NoteID records the provenance link).
type Task struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	Priority    string     `json:"priority"`
	Completed   bool       `json:"completed"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	ProjectID   *string    `json:"project_id,omitempty"`
	NoteID      *string    `json:"note_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// NewTask creates a task with defaults
func NewTask(userID, title string, description *string, priority string) *Task {
	if !ValidPriority(priority) {
		priority = PriorityMedium
	}
	return &Task{
		UserID:      userID,
		Title:       title,
		Description: description,
		Priority:    priority,
		CreatedAt:   time.Now(),
	}
}
