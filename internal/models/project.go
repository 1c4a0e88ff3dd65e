package models

import "time"

// ProjectColors is the fixed palette a project color must come from.
var ProjectColors = []string{
	"#8B5CF6", "#EC4899", "#F59E0B", "#10B981", "#3B82F6", "#EF4444",
}

// ValidProjectColor reports whether c is in the palette.
func ValidProjectColor(c string) bool {
	for _, pc := range ProjectColors {
		if pc == c {
			return true
		}
	}
	return false
}

// Project is a titled, dated container. Tasks may point at a project via
// their ProjectID; the project itself does not own a task list.
type Project struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	Color       string     `json:"color"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	Completed   bool       `json:"completed"`
	CreatedAt   time.Time  `json:"created_at"`
}

// NewProject creates a project with defaults
func NewProject(userID, title string, description *string, color string, startDate, endDate *time.Time) *Project {
	if color == "" {
		color = ProjectColors[0]
	}
	return &Project{
		UserID:      userID,
		Title:       title,
		Description: description,
		Color:       color,
		StartDate:   startDate,
		EndDate:     endDate,
		CreatedAt:   time.Now(),
	}
}
