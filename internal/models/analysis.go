package models

// MaxNoteTags caps how many tags a single note analysis may carry.
const MaxNoteTags = 5

// AnalysisTask is one actionable task the AI found inside a note.
type AnalysisTask struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Priority    string `json:"priority"`
}

// AnalysisResult is the structured output of a per-note analysis call.
// It is transient: consumed once to populate a Note and seed its tasks.
type AnalysisResult struct {
	Tags     []string       `json:"tags"`
	Tasks    []AnalysisTask `json:"tasks"`
	HasTasks bool           `json:"has_tasks"`
}

// BrainTheme groups notes (by index into the analyzed collection) under a
// named theme.
type BrainTheme struct {
	Name        string `json:"name"`
	NoteIndices []int  `json:"noteIndices"`
	Description string `json:"description"`
}

// BrainConnection describes how a set of notes relate to each other.
type BrainConnection struct {
	NoteIndices  []int  `json:"noteIndices"`
	Relationship string `json:"relationship"`
}

// BrainInsight is one actionable recommendation derived across notes.
type BrainInsight struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
}

// BrainAnalysis is the structured output of the cross-note analysis call.
// Never persisted; replaced wholesale on each refresh.
type BrainAnalysis struct {
	Themes      []BrainTheme      `json:"themes"`
	Connections []BrainConnection `json:"connections"`
	Insights    []BrainInsight    `json:"insights"`
	Summary     string            `json:"summary"`
}
