package brain

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/D-E-STUDIOS/mindweave-agenda/internal/ai"
	"github.com/D-E-STUDIOS/mindweave-agenda/internal/models"
)

const testUser = "4e5dd2f2-4d8f-4f6a-9d91-8f2f6b9c3a01"

type fakeAnalyzer struct {
	mu      sync.Mutex
	calls   int
	results []*models.BrainAnalysis
	err     error
	block   chan struct{} // when set, AnalyzeBrain waits until closed
}

func (f *fakeAnalyzer) AnalyzeBrain(ctx context.Context, notes []*models.Note) (*models.BrainAnalysis, error) {
	f.mu.Lock()
	call := f.calls
	f.calls++
	block := f.block
	f.mu.Unlock()

	if block != nil {
		<-block
	}
	if f.err != nil {
		return nil, f.err
	}
	if call < len(f.results) {
		return f.results[call], nil
	}
	return &models.BrainAnalysis{Summary: "default"}, nil
}

func (f *fakeAnalyzer) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func someNotes() []*models.Note {
	return []*models.Note{{Content: "a"}, {Content: "b"}}
}

func TestRefresh_EmptyCollectionIsNoOp(t *testing.T) {
	analyzer := &fakeAnalyzer{}
	engine := NewEngine(analyzer)

	_, err := engine.Refresh(context.Background(), testUser, nil)
	assert.ErrorIs(t, err, ErrNothingToAnalyze)

	_, err = engine.Refresh(context.Background(), testUser, []*models.Note{})
	assert.ErrorIs(t, err, ErrNothingToAnalyze)

	assert.Zero(t, analyzer.callCount(), "empty input must not reach the network")
}

func TestRefresh_StoresLatest(t *testing.T) {
	analyzer := &fakeAnalyzer{results: []*models.BrainAnalysis{
		{Summary: "first"},
		{Summary: "second"},
	}}
	engine := NewEngine(analyzer)

	_, ok := engine.Latest(testUser)
	assert.False(t, ok, "no analysis before the first refresh")

	analysis, err := engine.Refresh(context.Background(), testUser, someNotes())
	require.NoError(t, err)
	assert.Equal(t, "first", analysis.Summary)

	latest, ok := engine.Latest(testUser)
	require.True(t, ok)
	assert.Equal(t, "first", latest.Summary)

	// A second refresh replaces the previous analysis wholesale.
	_, err = engine.Refresh(context.Background(), testUser, someNotes())
	require.NoError(t, err)
	latest, ok = engine.Latest(testUser)
	require.True(t, ok)
	assert.Equal(t, "second", latest.Summary)
}

func TestRefresh_SecondTriggerWhileBusyIsNoOp(t *testing.T) {
	block := make(chan struct{})
	analyzer := &fakeAnalyzer{block: block}
	engine := NewEngine(analyzer)

	done := make(chan error, 1)
	go func() {
		_, err := engine.Refresh(context.Background(), testUser, someNotes())
		done <- err
	}()

	// Wait for the first refresh to reach the analyzer.
	require.Eventually(t, func() bool { return analyzer.callCount() == 1 }, 2*time.Second, time.Millisecond)

	_, err := engine.Refresh(context.Background(), testUser, someNotes())
	assert.ErrorIs(t, err, ErrRefreshInFlight)

	close(block)
	require.NoError(t, <-done)
	assert.Equal(t, 1, analyzer.callCount(), "the busy trigger must not issue a second call")
}

func TestRefresh_UsersAreIndependent(t *testing.T) {
	block := make(chan struct{})
	analyzer := &fakeAnalyzer{block: block}
	engine := NewEngine(analyzer)

	done := make(chan struct{})
	go func() {
		engine.Refresh(context.Background(), testUser, someNotes())
		close(done)
	}()
	require.Eventually(t, func() bool { return analyzer.callCount() == 1 }, 2*time.Second, time.Millisecond)

	other := "9c350a1f-0d77-4b1e-a8c6-1f2e3d4c5b6a"
	go func() {
		// Unblock both in-flight calls once the second user's call starts.
		defer close(block)
		for analyzer.callCount() < 2 {
			time.Sleep(time.Millisecond)
		}
	}()
	_, err := engine.Refresh(context.Background(), other, someNotes())
	require.NoError(t, err, "one user's refresh must not block another's")
	<-done
}

func TestRefresh_FailureKeepsPreviousAnalysis(t *testing.T) {
	analyzer := &fakeAnalyzer{results: []*models.BrainAnalysis{{Summary: "good"}}}
	engine := NewEngine(analyzer)

	_, err := engine.Refresh(context.Background(), testUser, someNotes())
	require.NoError(t, err)

	analyzer.err = ai.ErrRateLimited
	_, err = engine.Refresh(context.Background(), testUser, someNotes())
	assert.ErrorIs(t, err, ai.ErrRateLimited)

	latest, ok := engine.Latest(testUser)
	require.True(t, ok)
	assert.Equal(t, "good", latest.Summary, "a failed refresh does not clobber the previous analysis")
}

func TestRefresh_ErrorsAreNotRetriedAutomatically(t *testing.T) {
	analyzer := &fakeAnalyzer{err: errors.New("boom")}
	engine := NewEngine(analyzer)

	_, err := engine.Refresh(context.Background(), testUser, someNotes())
	require.Error(t, err)
	assert.Equal(t, 1, analyzer.callCount())
}
