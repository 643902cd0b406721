package usecase

import (
	"context"
	"sync"

	"harvestsync-service/internal/domain/entity"
	"harvestsync-service/internal/domain/repository"
	"harvestsync-service/pkg/logger"
)

// ErrSyncInProgress reports that a run was suppressed because another one is
// already executing
var ErrSyncInProgress = newSyncError(CodeUnknown, "a sync run is already in progress")

// RunnerStatus is a snapshot of the runner's state
type RunnerStatus struct {
	Running    bool               `json:"running"`
	Status     string             `json:"status"`
	LastSyncAt string             `json:"lastSyncAt,omitempty"`
	LastError  string             `json:"lastError,omitempty"`
	LastResult *entity.SyncResult `json:"lastResult,omitempty"`
}

// SyncRunner serializes sync runs: at most one executes at a time and a
// request arriving while one is running is rejected rather than queued
type SyncRunner struct {
	orchestrator *Orchestrator
	store        repository.KeyValueStore
	logger       logger.Logger

	mu         sync.Mutex
	running    bool
	status     string
	lastErr    error
	lastResult *entity.SyncResult
}

// NewSyncRunner creates a new sync runner
func NewSyncRunner(orchestrator *Orchestrator, store repository.KeyValueStore, log logger.Logger) *SyncRunner {
	return &SyncRunner{
		orchestrator: orchestrator,
		store:        store,
		logger:       log,
	}
}

// Run executes one sync pass unless another is already in flight, in which
// case it returns ErrSyncInProgress without touching the running one
func (r *SyncRunner) Run(ctx context.Context) (*entity.SyncResult, error) {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		r.logger.Debug("Sync request suppressed, run already in progress")
		return nil, ErrSyncInProgress
	}
	r.running = true
	r.status = StatusCheckingConnection
	r.mu.Unlock()

	result, err := r.orchestrator.Sync(ctx, func(label string) {
		r.mu.Lock()
		r.status = label
		r.mu.Unlock()
	})

	r.mu.Lock()
	r.running = false
	r.lastErr = err
	if result != nil {
		r.lastResult = result
	}
	r.mu.Unlock()

	return result, err
}

// Status reports the current runner state plus the persisted last sync time
func (r *SyncRunner) Status(ctx context.Context) RunnerStatus {
	r.mu.Lock()
	snapshot := RunnerStatus{
		Running:    r.running,
		Status:     r.status,
		LastResult: r.lastResult,
	}
	if r.lastErr != nil {
		snapshot.LastError = r.lastErr.Error()
	}
	r.mu.Unlock()

	if lastSync, found, err := r.store.Get(ctx, repository.KeyLastSyncAt); err == nil && found {
		snapshot.LastSyncAt = lastSync
	}
	return snapshot
}
