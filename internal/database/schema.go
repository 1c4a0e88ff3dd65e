package database

import (
	"context"
	"log"
)

// CreateTables creates all necessary database tables
func (db *DB) CreateTables(ctx context.Context) error {
	log.Println("Creating database tables...")

	// Notes table
	notesTable := `
	CREATE TABLE IF NOT EXISTS notes (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		user_id UUID NOT NULL,
		content TEXT NOT NULL,
		tags TEXT[] NOT NULL DEFAULT '{}',
		has_tasks BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_notes_user ON notes(user_id, created_at DESC);
	`

	// Projects table
	projectsTable := `
	CREATE TABLE IF NOT EXISTS projects (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		user_id UUID NOT NULL,
		title VARCHAR(255) NOT NULL,
		description TEXT,
		color VARCHAR(20) NOT NULL,
		start_date TIMESTAMP,
		end_date TIMESTAMP,
		completed BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_projects_user ON projects(user_id, created_at DESC);
	`

	// Tasks table
	tasksTable := `
	CREATE TABLE IF NOT EXISTS tasks (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		user_id UUID NOT NULL,
		title VARCHAR(255) NOT NULL,
		description TEXT,
		priority VARCHAR(10) NOT NULL DEFAULT 'medium',
		completed BOOLEAN NOT NULL DEFAULT FALSE,
		due_date TIMESTAMP,
		project_id UUID,
		note_id UUID,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (project_id) REFERENCES projects(id) ON DELETE SET NULL,
		FOREIGN KEY (note_id) REFERENCES notes(id) ON DELETE SET NULL
	);
	CREATE INDEX IF NOT EXISTS idx_tasks_user ON tasks(user_id, created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_tasks_due ON tasks(due_date);
	CREATE INDEX IF NOT EXISTS idx_tasks_project ON tasks(project_id);
	`

	tables := []string{notesTable, projectsTable, tasksTable}

	for _, table := range tables {
		if _, err := db.Pool.Exec(ctx, table); err != nil {
			return err
		}
	}

	log.Println("✅ All tables created successfully")
	return nil
}
