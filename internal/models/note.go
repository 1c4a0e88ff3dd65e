package models

import "time"

// Note is a free-text capture. Tags and HasTasks are filled in by AI
// analysis when the note is created.
type Note struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Content   string    `json:"content"`
	Tags      []string  `json:"tags"`
	HasTasks  bool      `json:"has_tasks"`
	CreatedAt time.Time `json:"created_at"`
}

// NewNote creates a note with analysis results applied
func NewNote(userID, content string, tags []string, hasTasks bool) *Note {
	if tags == nil {
		tags = []string{}
	}
	return &Note{
		UserID:    userID,
		Content:   content,
		Tags:      tags,
		HasTasks:  hasTasks,
		CreatedAt: time.Now(),
	}
}
