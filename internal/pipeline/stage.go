package pipeline

import (
	"context"
	"sync"
	"time"
)

// Stage identifiers, in execution order.
const (
	StageIDClean     = "clean"
	StageIDTransform = "transform"
	StageIDSplit     = "split"
	StageIDTrain     = "train"
	StageIDEvaluate  = "evaluate"
)

// Human-readable stage names for logs and the console summary.
const (
	StageNameClean     = "Data Cleaning"
	StageNameTransform = "Target Transform"
	StageNameSplit     = "Train/Eval Split"
	StageNameTrain     = "Model Training"
	StageNameEvaluate  = "Model Evaluation"
)

// Stage is a single unit of work in the pipeline. A stage reads its
// inputs from the State and writes its outputs back to it.
type Stage interface {
	// ID returns the unique identifier for this stage.
	ID() string

	// Name returns the human-readable name for this stage.
	Name() string

	// Run executes the stage against the shared run state.
	Run(ctx context.Context, state *State) error
}

// Status represents the current status of a stage.
type Status string

const (
	StatusPending   Status = "pending"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusSkipped   Status = "skipped"
)

// StageState tracks one stage's lifecycle within a run.
type StageState struct {
	mu        sync.RWMutex
	id        string
	name      string
	status    Status
	startTime *time.Time
	endTime   *time.Time
	message   string
	err       error
}

// NewStageState creates a pending stage state.
func NewStageState(id, name string) *StageState {
	return &StageState{
		id:     id,
		name:   name,
		status: StatusPending,
	}
}

// ID returns the stage identifier.
func (s *StageState) ID() string { return s.id }

// Name returns the human-readable stage name.
func (s *StageState) Name() string { return s.name }

// Status returns the current status.
func (s *StageState) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// Err returns the failure error, or nil.
func (s *StageState) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// Message returns the skip reason, or "".
func (s *StageState) Message() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.message
}

// Start marks the stage as active and sets the start time.
func (s *StageState) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.startTime = &now
	s.status = StatusActive
}

// Complete marks the stage as completed and sets the end time.
func (s *StageState) Complete() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.endTime = &now
	s.status = StatusCompleted
}

// Fail marks the stage as failed with the given error.
func (s *StageState) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.endTime = &now
	s.status = StatusFailed
	s.err = err
}

// Skip marks the stage as skipped with the given reason.
func (s *StageState) Skip(reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.endTime = &now
	s.status = StatusSkipped
	s.message = reason
}

// Duration returns the duration of the stage execution. A stage that
// never started reports zero; a running stage reports time so far.
func (s *StageState) Duration() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.startTime == nil {
		return 0
	}
	if s.endTime != nil {
		return s.endTime.Sub(*s.startTime)
	}
	return time.Since(*s.startTime)
}
