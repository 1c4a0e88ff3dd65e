// Package calendar derives the date-bucketed and active/completed views
// from the current task and project collections. Everything here is pure:
// results are re-derivable from the inputs at any time.
package calendar

import (
	"time"

	"github.com/D-E-STUDIOS/mindweave-agenda/internal/models"
)

// Bucket holds the tasks and projects that fall on one calendar day.
type Bucket struct {
	Tasks    []*models.Task    `json:"tasks"`
	Projects []*models.Project `json:"projects"`
}

// dayOf truncates a timestamp to its calendar day. Time of day is ignored
// everywhere in this package.
func dayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether two timestamps fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return dayOf(a).Equal(dayOf(b))
}

// TaskOnDate reports whether a task is due on the given day.
func TaskOnDate(task *models.Task, date time.Time) bool {
	return task.DueDate != nil && SameDay(*task.DueDate, date)
}

// ProjectOnDate reports whether a project touches the given day: its start
// day, its end day, or any day in between when both bounds are present.
func ProjectOnDate(project *models.Project, date time.Time) bool {
	if project.StartDate != nil && SameDay(*project.StartDate, date) {
		return true
	}
	if project.EndDate != nil && SameDay(*project.EndDate, date) {
		return true
	}
	if project.StartDate != nil && project.EndDate != nil {
		day := dayOf(date)
		if !day.Before(dayOf(*project.StartDate)) && !day.After(dayOf(*project.EndDate)) {
			return true
		}
	}
	return false
}

// BucketForDate collects the tasks and projects that belong to one day,
// preserving the input order.
func BucketForDate(date time.Time, tasks []*models.Task, projects []*models.Project) Bucket {
	bucket := Bucket{
		Tasks:    []*models.Task{},
		Projects: []*models.Project{},
	}
	for _, task := range tasks {
		if TaskOnDate(task, date) {
			bucket.Tasks = append(bucket.Tasks, task)
		}
	}
	for _, project := range projects {
		if ProjectOnDate(project, date) {
			bucket.Projects = append(bucket.Projects, project)
		}
	}
	return bucket
}

// DaysWithContent lists the days of a month that have at least one task or
// project on them, in ascending order.
func DaysWithContent(year int, month time.Month, tasks []*models.Task, projects []*models.Project) []int {
	var days []int
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	for d := first; d.Month() == month; d = d.AddDate(0, 0, 1) {
		bucket := BucketForDate(d, tasks, projects)
		if len(bucket.Tasks) > 0 || len(bucket.Projects) > 0 {
			days = append(days, d.Day())
		}
	}
	return days
}

// PartitionTasks splits tasks into active and completed, keeping the
// original order within each half.
func PartitionTasks(tasks []*models.Task) (active, completed []*models.Task) {
	for _, task := range tasks {
		if task.Completed {
			completed = append(completed, task)
		} else {
			active = append(active, task)
		}
	}
	return active, completed
}

// PartitionProjects splits projects into active and completed, keeping the
// original order within each half.
func PartitionProjects(projects []*models.Project) (active, completed []*models.Project) {
	for _, project := range projects {
		if project.Completed {
			completed = append(completed, project)
		} else {
			active = append(active, project)
		}
	}
	return active, completed
}
