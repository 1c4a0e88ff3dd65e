// Package brain holds the cross-note insight engine. Each refresh sends
// the full note collection to the AI gateway and replaces the previous
// analysis wholesale.
package brain

import (
	"context"
	"errors"
	"sync"

	"github.com/D-E-STUDIOS/mindweave-agenda/internal/models"
)

var (
	// ErrNothingToAnalyze is the distinguished outcome for an empty note
	// collection. No network call is made.
	ErrNothingToAnalyze = errors.New("no notes to analyze")

	// ErrRefreshInFlight means a refresh for this user is already running;
	// the second trigger is a no-op.
	ErrRefreshInFlight = errors.New("brain refresh already in flight")

	// ErrStaleResult means the gateway answered for a request that is no
	// longer the latest issued; the result was discarded.
	ErrStaleResult = errors.New("stale brain analysis discarded")
)

// Analyzer is the AI client surface the engine needs.
type Analyzer interface {
	AnalyzeBrain(ctx context.Context, notes []*models.Note) (*models.BrainAnalysis, error)
}

type session struct {
	busy   bool
	token  uint64
	latest *models.BrainAnalysis
}

// Engine serializes brain refreshes per user and keeps the latest analysis
// for display. There is no incremental merge: every successful refresh
// replaces the previous result.
type Engine struct {
	analyzer Analyzer

	mu       sync.Mutex
	sessions map[string]*session
}

func NewEngine(analyzer Analyzer) *Engine {
	return &Engine{
		analyzer: analyzer,
		sessions: make(map[string]*session),
	}
}

// Refresh runs the cross-note analysis over notes and stores the result.
// An empty collection returns ErrNothingToAnalyze without touching the
// network. While a refresh for the same user is running, further calls
// return ErrRefreshInFlight. A result whose request token is no longer the
// latest issued is discarded rather than stored.
func (e *Engine) Refresh(ctx context.Context, userID string, notes []*models.Note) (*models.BrainAnalysis, error) {
	if len(notes) == 0 {
		return nil, ErrNothingToAnalyze
	}

	e.mu.Lock()
	s := e.sessions[userID]
	if s == nil {
		s = &session{}
		e.sessions[userID] = s
	}
	if s.busy {
		e.mu.Unlock()
		return nil, ErrRefreshInFlight
	}
	s.busy = true
	s.token++
	token := s.token
	e.mu.Unlock()

	analysis, err := e.analyzer.AnalyzeBrain(ctx, notes)

	e.mu.Lock()
	s.busy = false
	stale := token != s.token
	if err == nil && !stale {
		s.latest = analysis
	}
	e.mu.Unlock()

	if err != nil {
		return nil, err
	}
	if stale {
		return nil, ErrStaleResult
	}
	return analysis, nil
}

// Latest returns the most recent analysis for a user, or false when no
// refresh has completed yet.
func (e *Engine) Latest(userID string) (*models.BrainAnalysis, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := e.sessions[userID]
	if s == nil || s.latest == nil {
		return nil, false
	}
	return s.latest, true
}
