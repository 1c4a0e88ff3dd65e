package tasks

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/D-E-STUDIOS/mindweave-agenda/internal/database"
	"github.com/D-E-STUDIOS/mindweave-agenda/internal/models"
)

const testUser = "4e5dd2f2-4d8f-4f6a-9d91-8f2f6b9c3a01"

type fakeStore struct {
	mu      sync.Mutex
	byID     map[string]*models.Task
	setArgs  []bool
	getCalls int
	blockGet chan struct{} // when set, GetByID waits until closed
}

func newFakeStore(tasks ...*models.Task) *fakeStore {
	s := &fakeStore{byID: make(map[string]*models.Task)}
	for _, task := range tasks {
		s.byID[task.ID] = task
	}
	return s
}

func (f *fakeStore) Create(ctx context.Context, task *models.Task) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	task.ID = "task-1"
	f.byID[task.ID] = task
	return nil
}

func (f *fakeStore) GetByID(ctx context.Context, userID, id string) (*models.Task, error) {
	f.mu.Lock()
	f.getCalls++
	block := f.blockGet
	f.mu.Unlock()
	if block != nil {
		<-block
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	task, ok := f.byID[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	copied := *task
	return &copied, nil
}

func (f *fakeStore) SetCompleted(ctx context.Context, userID, id string, completed bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	task, ok := f.byID[id]
	if !ok {
		return database.ErrNotFound
	}
	task.Completed = completed
	f.setArgs = append(f.setArgs, completed)
	return nil
}

func (f *fakeStore) Delete(ctx context.Context, userID, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return database.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func TestCreate_Validation(t *testing.T) {
	svc := NewService(newFakeStore())

	_, err := svc.Create(context.Background(), testUser, CreateInput{Title: "   "})
	assert.ErrorIs(t, err, ErrEmptyTitle)

	task, err := svc.Create(context.Background(), testUser, CreateInput{Title: "  write report  ", Priority: "bogus"})
	require.NoError(t, err)
	assert.Equal(t, "write report", task.Title)
	assert.Equal(t, models.PriorityMedium, task.Priority, "unknown priority falls back to medium")
	assert.False(t, task.Completed)
}

func TestCreate_CarriesOptionalFields(t *testing.T) {
	svc := NewService(newFakeStore())

	due := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
	desc := "quarterly numbers"
	projectID := "project-1"

	task, err := svc.Create(context.Background(), testUser, CreateInput{
		Title:       "report",
		Description: &desc,
		Priority:    models.PriorityHigh,
		DueDate:     &due,
		ProjectID:   &projectID,
	})
	require.NoError(t, err)
	assert.Equal(t, models.PriorityHigh, task.Priority)
	require.NotNil(t, task.DueDate)
	assert.True(t, task.DueDate.Equal(due))
	require.NotNil(t, task.ProjectID)
	assert.Equal(t, "project-1", *task.ProjectID)
}

func TestToggleCompleted_FlipsFlag(t *testing.T) {
	store := newFakeStore(&models.Task{ID: "t1", Title: "x", Completed: false})
	svc := NewService(store)

	task, err := svc.ToggleCompleted(context.Background(), testUser, "t1")
	require.NoError(t, err)
	assert.True(t, task.Completed)

	task, err = svc.ToggleCompleted(context.Background(), testUser, "t1")
	require.NoError(t, err)
	assert.False(t, task.Completed)

	// The written value is computed from the read, not negated in SQL.
	assert.Equal(t, []bool{true, false}, store.setArgs)
}

func TestToggleCompleted_UnknownTask(t *testing.T) {
	svc := NewService(newFakeStore())

	_, err := svc.ToggleCompleted(context.Background(), testUser, "missing")
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestToggleCompleted_SecondMutationRejected(t *testing.T) {
	store := newFakeStore(&models.Task{ID: "t1", Title: "x"})
	block := make(chan struct{})
	store.blockGet = block
	svc := NewService(store)

	done := make(chan error, 1)
	go func() {
		_, err := svc.ToggleCompleted(context.Background(), testUser, "t1")
		done <- err
	}()

	// Wait until the first mutation holds the guard.
	require.Eventually(t, func() bool {
		store.mu.Lock()
		defer store.mu.Unlock()
		return store.getCalls > 0
	}, 2*time.Second, time.Millisecond)

	_, err := svc.ToggleCompleted(context.Background(), testUser, "t1")
	assert.ErrorIs(t, err, ErrMutationInFlight)

	store.mu.Lock()
	store.blockGet = nil
	store.mu.Unlock()
	close(block)
	require.NoError(t, <-done)

	// Once the first resolves, the record is mutable again.
	_, err = svc.ToggleCompleted(context.Background(), testUser, "t1")
	require.NoError(t, err)
}

func TestDelete(t *testing.T) {
	store := newFakeStore(&models.Task{ID: "t1", Title: "x"})
	svc := NewService(store)

	require.NoError(t, svc.Delete(context.Background(), testUser, "t1"))

	// Deleting again is not-found, not a crash.
	err := svc.Delete(context.Background(), testUser, "t1")
	assert.ErrorIs(t, err, database.ErrNotFound)
}
