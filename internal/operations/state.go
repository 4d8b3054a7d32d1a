package operations

import (
	"sync"
	"time"

	"housingml/internal/dataset"
	"housingml/internal/model"
	"housingml/internal/preprocess"
)

// OperationStatus is the overall status of a pipeline run
type OperationStatus string

const (
	OperationStatusPending   OperationStatus = "pending"
	OperationStatusRunning   OperationStatus = "running"
	OperationStatusCompleted OperationStatus = "completed"
	OperationStatusFailed    OperationStatus = "failed"
	OperationStatusCancelled OperationStatus = "cancelled"
)

// OperationState is the complete state of one pipeline run. Steps exchange
// intermediate artifacts through the context map; typed accessors below keep
// the type assertions in one place.
type OperationState struct {
	mu sync.RWMutex

	ID        string          `json:"id"`
	Status    OperationStatus `json:"status"`
	StartTime time.Time       `json:"start_time"`
	EndTime   *time.Time      `json:"end_time,omitempty"`

	Steps map[string]*StepState `json:"steps"`

	// Artifacts and settings passed between steps
	Context map[string]any `json:"-"`

	Error error `json:"error,omitempty"`
}

// NewOperationState creates a pending operation state
func NewOperationState(id string) *OperationState {
	return &OperationState{
		ID:        id,
		Status:    OperationStatusPending,
		StartTime: time.Now(),
		Steps:     make(map[string]*StepState),
		Context:   make(map[string]any),
	}
}

// Start marks the operation as running
func (p *OperationState) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Status = OperationStatusRunning
	p.StartTime = time.Now()
}

// Complete marks the operation as completed
func (p *OperationState) Complete() {
	p.mu.Lock()
	defer p.mu.Unlock()
	now := time.Now()
	p.EndTime = &now
	p.Status = OperationStatusCompleted
}

// Fail marks the operation as failed
func (p *OperationState) Fail(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	now := time.Now()
	p.EndTime = &now
	p.Status = OperationStatusFailed
	p.Error = err
}

// Cancel marks the operation as cancelled
func (p *OperationState) Cancel() {
	p.mu.Lock()
	defer p.mu.Unlock()
	now := time.Now()
	p.EndTime = &now
	p.Status = OperationStatusCancelled
}

// GetStep returns the state of a specific step
func (p *OperationState) GetStep(stepID string) *StepState {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.Steps[stepID]
}

// SetStep stores the state of a specific step
func (p *OperationState) SetStep(stepID string, state *StepState) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Steps[stepID] = state
}

// GetContext retrieves a value from the operation context
func (p *OperationState) GetContext(key string) (any, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	val, ok := p.Context[key]
	return val, ok
}

// SetContext sets a value in the operation context
func (p *OperationState) SetContext(key string, value any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Context[key] = value
}

// ArchivePath returns the input archive path, if set
func (p *OperationState) ArchivePath() string {
	if v, ok := p.GetContext(ContextKeyArchivePath); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// TargetColumn returns the configured target column, if set
func (p *OperationState) TargetColumn() string {
	if v, ok := p.GetContext(ContextKeyTargetColumn); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// Table returns the current working table, or nil
func (p *OperationState) Table() *dataset.Table {
	if v, ok := p.GetContext(ContextKeyTable); ok {
		if t, ok := v.(*dataset.Table); ok {
			return t
		}
	}
	return nil
}

// SetTable stores the current working table
func (p *OperationState) SetTable(t *dataset.Table) {
	p.SetContext(ContextKeyTable, t)
}

// Split returns the train/test split, or nil
func (p *OperationState) Split() *preprocess.Split {
	if v, ok := p.GetContext(ContextKeySplit); ok {
		if s, ok := v.(*preprocess.Split); ok {
			return s
		}
	}
	return nil
}

// SetSplit stores the train/test split
func (p *OperationState) SetSplit(s *preprocess.Split) {
	p.SetContext(ContextKeySplit, s)
}

// Model returns the fitted model, or nil
func (p *OperationState) Model() model.FittedModel {
	if v, ok := p.GetContext(ContextKeyModel); ok {
		if m, ok := v.(model.FittedModel); ok {
			return m
		}
	}
	return nil
}

// SetModel stores the fitted model
func (p *OperationState) SetModel(m model.FittedModel) {
	p.SetContext(ContextKeyModel, m)
}

// Evaluation returns the held-out evaluation, or nil
func (p *OperationState) Evaluation() *model.Evaluation {
	if v, ok := p.GetContext(ContextKeyEvaluation); ok {
		if e, ok := v.(*model.Evaluation); ok {
			return e
		}
	}
	return nil
}

// SetEvaluation stores the held-out evaluation
func (p *OperationState) SetEvaluation(e *model.Evaluation) {
	p.SetContext(ContextKeyEvaluation, e)
}

// GetStatus returns the current status under the lock
func (p *OperationState) GetStatus() OperationStatus {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.Status
}

// GetError returns the recorded failure, or nil
func (p *OperationState) GetError() error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.Error
}

// Duration returns how long the operation has been running, or its total
// duration once finished.
func (p *OperationState) Duration() time.Duration {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.EndTime != nil {
		return p.EndTime.Sub(p.StartTime)
	}
	return time.Since(p.StartTime)
}

// HasFailures returns true if any step has failed
func (p *OperationState) HasFailures() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, step := range p.Steps {
		if step.GetStatus() == StepStatusFailed {
			return true
		}
	}
	return false
}

// StepList returns the step states keyed by the given order of IDs. Unknown
// IDs are skipped.
func (p *OperationState) StepList(order []string) []*StepState {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]*StepState, 0, len(order))
	for _, id := range order {
		if s, ok := p.Steps[id]; ok {
			out = append(out, s)
		}
	}
	return out
}
