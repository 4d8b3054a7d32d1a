package operations

import (
	"log/slog"
	"sync"
	"time"
)

// Sink receives status snapshots from the broadcaster. The WebSocket hub
// implements this in the server; the CLI runs without one.
type Sink interface {
	BroadcastUpdate(eventType, operationID string, payload any)
}

// StatusBroadcaster is the single authority for operation status updates.
// It keeps a snapshot per operation and pushes the full snapshot to the sink
// on every change, so late subscribers never see partial state.
type StatusBroadcaster struct {
	mu         sync.RWMutex
	operations map[string]*OperationSnapshot
	sink       Sink
	logger     *slog.Logger
}

// OperationSnapshot is the complete externally visible state of an operation
type OperationSnapshot struct {
	OperationID string         `json:"operation_id"`
	Status      string         `json:"status"`
	Progress    int            `json:"progress"`
	CurrentStep string         `json:"current_step"`
	Steps       []StepSnapshot `json:"steps"`
	StartedAt   time.Time      `json:"started_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`
	Error       string         `json:"error,omitempty"`
	Message     string         `json:"message,omitempty"`
}

// StepSnapshot is the externally visible state of a single step
type StepSnapshot struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Status   string `json:"status"`
	Progress int    `json:"progress"`
	Message  string `json:"message,omitempty"`
}

// NewStatusBroadcaster creates a broadcaster; sink may be nil
func NewStatusBroadcaster(sink Sink, logger *slog.Logger) *StatusBroadcaster {
	if logger == nil {
		logger = slog.Default()
	}
	return &StatusBroadcaster{
		operations: make(map[string]*OperationSnapshot),
		sink:       sink,
		logger:     logger,
	}
}

// CreateOperation registers a new operation with pending steps
func (b *StatusBroadcaster) CreateOperation(operationID string, steps []StepSnapshot) {
	b.mu.Lock()
	snapshot := &OperationSnapshot{
		OperationID: operationID,
		Status:      string(OperationStatusPending),
		Steps:       steps,
		StartedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	b.operations[operationID] = snapshot
	b.mu.Unlock()

	b.publish(EventTypeOperationStatus, operationID)
}

// StartOperation marks an operation as running
func (b *StatusBroadcaster) StartOperation(operationID string) {
	b.update(operationID, func(s *OperationSnapshot) {
		s.Status = string(OperationStatusRunning)
	})
	b.publish(EventTypeOperationStatus, operationID)
}

// UpdateStepProgress updates a step and recomputes overall progress
func (b *StatusBroadcaster) UpdateStepProgress(operationID, stepID string, status StepStatus, progress int, message string) {
	b.update(operationID, func(s *OperationSnapshot) {
		for i := range s.Steps {
			if s.Steps[i].ID == stepID {
				s.Steps[i].Status = string(status)
				s.Steps[i].Progress = progress
				s.Steps[i].Message = message
				if status == StepStatusActive {
					s.CurrentStep = s.Steps[i].Name
				}
				break
			}
		}
		s.Progress = overallProgress(s.Steps)
	})
	b.publish(EventTypeOperationProgress, operationID)
}

// CompleteOperation marks an operation as completed
func (b *StatusBroadcaster) CompleteOperation(operationID, message string) {
	b.update(operationID, func(s *OperationSnapshot) {
		now := time.Now()
		s.Status = string(OperationStatusCompleted)
		s.Progress = 100
		s.CurrentStep = ""
		s.CompletedAt = &now
		s.Message = message
	})
	b.publish(EventTypeOperationComplete, operationID)
}

// FailOperation marks an operation as failed
func (b *StatusBroadcaster) FailOperation(operationID string, err error) {
	b.update(operationID, func(s *OperationSnapshot) {
		now := time.Now()
		s.Status = string(OperationStatusFailed)
		s.CompletedAt = &now
		if err != nil {
			s.Error = err.Error()
		}
	})
	b.publish(EventTypeOperationError, operationID)
}

// GetSnapshot returns a copy of the operation snapshot
func (b *StatusBroadcaster) GetSnapshot(operationID string) (*OperationSnapshot, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	snapshot, ok := b.operations[operationID]
	if !ok {
		return nil, false
	}
	return snapshot.clone(), true
}

// Remove drops an operation from the broadcaster
func (b *StatusBroadcaster) Remove(operationID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.operations, operationID)
}

func (b *StatusBroadcaster) update(operationID string, fn func(*OperationSnapshot)) {
	b.mu.Lock()
	defer b.mu.Unlock()

	snapshot, ok := b.operations[operationID]
	if !ok {
		b.logger.Warn("status update for unknown operation",
			slog.String("operation_id", operationID))
		return
	}
	fn(snapshot)
	snapshot.UpdatedAt = time.Now()
}

func (b *StatusBroadcaster) publish(eventType, operationID string) {
	if b.sink == nil {
		return
	}
	snapshot, ok := b.GetSnapshot(operationID)
	if !ok {
		return
	}
	b.sink.BroadcastUpdate(eventType, operationID, snapshot)
}

func (s *OperationSnapshot) clone() *OperationSnapshot {
	out := *s
	out.Steps = make([]StepSnapshot, len(s.Steps))
	copy(out.Steps, s.Steps)
	if s.CompletedAt != nil {
		t := *s.CompletedAt
		out.CompletedAt = &t
	}
	return &out
}

func overallProgress(steps []StepSnapshot) int {
	if len(steps) == 0 {
		return 0
	}
	total := 0
	for _, step := range steps {
		total += step.Progress
	}
	return total / len(steps)
}
