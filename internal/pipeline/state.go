package pipeline

import (
	"sync"
	"time"

	"github.com/hayeonchung/Unlocking-Housing-Prices-with-Predictive-Modeling/internal/dataset"
	apperrors "github.com/hayeonchung/Unlocking-Housing-Prices-with-Predictive-Modeling/internal/errors"
	"github.com/hayeonchung/Unlocking-Housing-Prices-with-Predictive-Modeling/internal/evaluation"
	"github.com/hayeonchung/Unlocking-Housing-Prices-with-Predictive-Modeling/internal/model"
	"github.com/hayeonchung/Unlocking-Housing-Prices-with-Predictive-Modeling/internal/preprocess"
)

// RunStatus represents the overall run status.
type RunStatus string

const (
	RunStatusPending   RunStatus = "pending"
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
	RunStatusCancelled RunStatus = "cancelled"
)

// State is the shared, evolving result of one pipeline run. Stages read
// their inputs from it and write their outputs back; the accessors are
// safe for the concurrent trainers inside the training stage.
type State struct {
	mu sync.RWMutex

	runID     string
	status    RunStatus
	startTime time.Time
	endTime   *time.Time
	runErr    error

	stageOrder []string
	stages     map[string]*StageState

	// Data flowing between stages.
	table       dataset.Table
	train       dataset.Table
	eval        dataset.Table
	cleanReport *preprocess.CleanReport

	// Training and evaluation results.
	models      []model.FittedModel
	trainerErrs map[string]error
	warnings    apperrors.List
	ranking     evaluation.Ranking
	importances map[string][]evaluation.FeatureScore
}

// NewState creates a pending run state over the loaded input table.
func NewState(runID string, input dataset.Table) *State {
	return &State{
		runID:       runID,
		status:      RunStatusPending,
		startTime:   time.Now(),
		stages:      make(map[string]*StageState),
		table:       input,
		trainerErrs: make(map[string]error),
		importances: make(map[string][]evaluation.FeatureScore),
	}
}

// RunID returns the run identifier.
func (s *State) RunID() string { return s.runID }

// Status returns the overall run status.
func (s *State) Status() RunStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// Err returns the error that failed the run, or nil.
func (s *State) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.runErr
}

// Start marks the run as running.
func (s *State) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = RunStatusRunning
	s.startTime = time.Now()
}

// Complete marks the run as completed.
func (s *State) Complete() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	s.endTime = &now
	s.status = RunStatusCompleted
}

// Fail marks the run as failed.
func (s *State) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	s.endTime = &now
	s.status = RunStatusFailed
	s.runErr = err
}

// Cancel marks the run as cancelled.
func (s *State) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	s.endTime = &now
	s.status = RunStatusCancelled
}

// Duration returns how long the run has been going, or took.
func (s *State) Duration() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.endTime != nil {
		return s.endTime.Sub(s.startTime)
	}
	return time.Since(s.startTime)
}

// addStage registers a stage state. Registration order is preserved.
func (s *State) addStage(ss *StageState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.stages[ss.ID()]; !exists {
		s.stageOrder = append(s.stageOrder, ss.ID())
	}
	s.stages[ss.ID()] = ss
}

// StageState returns the state of a specific stage, or nil.
func (s *State) StageState(id string) *StageState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stages[id]
}

// Stages returns every stage state in registration order.
func (s *State) Stages() []*StageState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*StageState, 0, len(s.stageOrder))
	for _, id := range s.stageOrder {
		out = append(out, s.stages[id])
	}
	return out
}

// Table returns the current working table.
func (s *State) Table() dataset.Table {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.table
}

// SetTable replaces the working table.
func (s *State) SetTable(t dataset.Table) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.table = t
}

// SetSplit stores the train/eval subsets.
func (s *State) SetSplit(train, eval dataset.Table) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.train = train
	s.eval = eval
}

// Split returns the train and eval subsets.
func (s *State) Split() (train, eval dataset.Table) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.train, s.eval
}

// SetCleanReport stores the cleaning report.
func (s *State) SetCleanReport(r *preprocess.CleanReport) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cleanReport = r
}

// CleanReport returns the cleaning report, or nil before cleaning ran.
func (s *State) CleanReport() *preprocess.CleanReport {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cleanReport
}

// SetModels stores the successfully fitted models, in trainer order.
func (s *State) SetModels(models []model.FittedModel) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.models = models
}

// Models returns the fitted models.
func (s *State) Models() []model.FittedModel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.models
}

// RecordTrainerError records a trainer's failure without failing the run.
func (s *State) RecordTrainerError(name string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trainerErrs[name] = err
}

// TrainerErrors returns the per-trainer failures.
func (s *State) TrainerErrors() map[string]error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]error, len(s.trainerErrs))
	for name, err := range s.trainerErrs {
		out[name] = err
	}
	return out
}

// AddWarning appends a non-fatal warning surfaced by a stage.
func (s *State) AddWarning(err *apperrors.Error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.warnings.Add(err)
}

// Warnings returns the accumulated warnings in insertion order.
func (s *State) Warnings() []*apperrors.Error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*apperrors.Error, len(s.warnings.Errors))
	copy(out, s.warnings.Errors)
	return out
}

// SetRanking stores the evaluation ranking.
func (s *State) SetRanking(r evaluation.Ranking) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ranking = r
}

// Ranking returns the evaluation ranking.
func (s *State) Ranking() evaluation.Ranking {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ranking
}

// SetImportance stores a model's top features.
func (s *State) SetImportance(modelName string, scores []evaluation.FeatureScore) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.importances[modelName] = scores
}

// Importances returns the per-model top features.
func (s *State) Importances() map[string][]evaluation.FeatureScore {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string][]evaluation.FeatureScore, len(s.importances))
	for name, scores := range s.importances {
		out[name] = scores
	}
	return out
}
