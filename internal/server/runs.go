package server

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"BrandRadar/internal/domain"
	"BrandRadar/internal/metrics"
	"BrandRadar/internal/usecase"
)

// RunManager owns the lifecycle of asynchronous monitoring runs: it launches
// pipeline executions, tracks their status, and cancels them on request.
type RunManager struct {
	mu       sync.RWMutex
	runs     map[string]*runState
	pipeline *usecase.Pipeline
	metrics  *metrics.Set
	logger   *slog.Logger
}

type runState struct {
	run      domain.Run
	cancel   context.CancelFunc
	markdown string
}

// NewRunManager builds an empty manager around a shared pipeline.
func NewRunManager(pipeline *usecase.Pipeline, m *metrics.Set, logger *slog.Logger) *RunManager {
	return &RunManager{
		runs:     map[string]*runState{},
		pipeline: pipeline,
		metrics:  m,
		logger:   logger,
	}
}

// Start launches a run in the background and returns its initial state.
func (rm *RunManager) Start(brand string, keywords []string) domain.Run {
	run := domain.Run{
		ID:        uuid.NewString(),
		Brand:     brand,
		Keywords:  keywords,
		Status:    domain.RunRunning,
		StartedAt: time.Now().UTC(),
	}

	ctx, cancel := context.WithCancel(context.Background())
	state := &runState{run: run, cancel: cancel}

	rm.mu.Lock()
	rm.runs[run.ID] = state
	rm.mu.Unlock()

	go rm.execute(ctx, run.ID)
	return run
}

func (rm *RunManager) execute(ctx context.Context, id string) {
	rm.mu.RLock()
	run := rm.runs[id].run
	rm.mu.RUnlock()

	_, markdown, err := rm.pipeline.Execute(ctx, run)

	rm.mu.Lock()
	defer rm.mu.Unlock()
	state := rm.runs[id]
	state.run.FinishedAt = time.Now().UTC()

	switch {
	case errors.Is(err, usecase.ErrRunCancelled):
		state.run.Status = domain.RunCancelled
	case err != nil:
		state.run.Status = domain.RunFailed
		state.run.Error = err.Error()
	default:
		state.run.Status = domain.RunCompleted
		state.markdown = markdown
	}

	rm.metrics.ObserveRun(string(state.run.Status))
	if rm.logger != nil {
		rm.logger.Info("run finished", "run", id, "status", state.run.Status)
	}
}

// Get returns the run state by ID.
func (rm *RunManager) Get(id string) (domain.Run, bool) {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	state, ok := rm.runs[id]
	if !ok {
		return domain.Run{}, false
	}
	return state.run, true
}

// Markdown returns the rendered report of a completed run.
func (rm *RunManager) Markdown(id string) (string, bool) {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	state, ok := rm.runs[id]
	if !ok || state.run.Status != domain.RunCompleted {
		return "", false
	}
	return state.markdown, true
}

// Cancel stops a running run; it reports false for unknown IDs.
func (rm *RunManager) Cancel(id string) bool {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	state, ok := rm.runs[id]
	if !ok {
		return false
	}
	state.cancel()
	return true
}
