package operations

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Manager orchestrates pipeline execution. Steps run strictly in dependency
// order; a failed step skips everything downstream of it.
type Manager struct {
	registry    *Registry
	broadcaster *StatusBroadcaster
	tracer      *PipelineTracer
	metrics     *Metrics

	mu         sync.RWMutex
	operations map[string]*OperationState
}

// ManagerOption configures a Manager
type ManagerOption func(*Manager)

// WithMetrics attaches Prometheus instruments to the manager
func WithMetrics(m *Metrics) ManagerOption {
	return func(mgr *Manager) { mgr.metrics = m }
}

// WithSink attaches a status sink (the WebSocket hub in the server)
func WithSink(sink Sink) ManagerOption {
	return func(mgr *Manager) {
		mgr.broadcaster = NewStatusBroadcaster(sink, slog.Default())
	}
}

// NewManager creates a pipeline manager
func NewManager(registry *Registry, opts ...ManagerOption) *Manager {
	if registry == nil {
		registry = NewRegistry()
	}

	m := &Manager{
		registry:    registry,
		broadcaster: NewStatusBroadcaster(nil, slog.Default()),
		tracer:      NewPipelineTracer(),
		operations:  make(map[string]*OperationState),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// RegisterStep registers a step with the pipeline
func (m *Manager) RegisterStep(step Step) error {
	return m.registry.Register(step)
}

// GetRegistry returns the step registry
func (m *Manager) GetRegistry() *Registry {
	return m.registry
}

// GetBroadcaster returns the status broadcaster
func (m *Manager) GetBroadcaster() *StatusBroadcaster {
	return m.broadcaster
}

// GetOperation returns a snapshot of a tracked operation
func (m *Manager) GetOperation(id string) (*OperationSnapshot, error) {
	if snapshot, ok := m.broadcaster.GetSnapshot(id); ok {
		return snapshot, nil
	}
	return nil, ErrOperationNotFound
}

// Execute runs a pipeline for the given request and blocks until it finishes
func (m *Manager) Execute(ctx context.Context, req OperationRequest) (*OperationResponse, error) {
	if req.ID == "" {
		req.ID = uuid.New().String()
	}

	state := NewOperationState(req.ID)
	state.SetContext(ContextKeyArchivePath, req.ArchivePath)
	if req.TargetColumn != "" {
		state.SetContext(ContextKeyTargetColumn, req.TargetColumn)
	}
	for k, v := range req.Parameters {
		state.SetContext(k, v)
	}

	m.storeOperation(state)
	defer m.removeOperation(req.ID)

	ctx, span := m.tracer.TraceOperation(ctx, req.ID, req)

	steps, err := m.resolveSteps(ctx, req)
	if err != nil {
		state.Fail(err)
		m.tracer.RecordOperationCompletion(span, state.Duration(), state.GetStatus())
		return m.createResponse(state, steps), err
	}

	stepSnapshots := make([]StepSnapshot, len(steps))
	for i, step := range steps {
		state.SetStep(step.ID(), NewStepState(step.ID(), step.Name()))
		stepSnapshots[i] = StepSnapshot{
			ID:     step.ID(),
			Name:   step.Name(),
			Status: string(StepStatusPending),
		}
	}

	m.broadcaster.CreateOperation(req.ID, stepSnapshots)

	state.Start()
	m.broadcaster.StartOperation(req.ID)
	if m.metrics != nil {
		m.metrics.ActiveOperations.Inc()
		defer m.metrics.ActiveOperations.Dec()
	}

	slog.InfoContext(ctx, "pipeline started",
		slog.String("operation_id", req.ID),
		slog.String("archive", req.ArchivePath),
		slog.Int("steps", len(steps)))

	err = m.executeSequential(ctx, state, steps)

	if err != nil {
		if state.GetStatus() != OperationStatusCancelled {
			state.Fail(err)
		}
		m.broadcaster.FailOperation(req.ID, err)
	} else {
		state.Complete()
		m.broadcaster.CompleteOperation(req.ID, "pipeline completed")
	}

	if m.metrics != nil {
		m.metrics.OperationsTotal.WithLabelValues(string(state.GetStatus())).Inc()
		m.metrics.OperationDuration.Observe(state.Duration().Seconds())
	}
	m.tracer.RecordOperationCompletion(span, state.Duration(), state.GetStatus())

	slog.InfoContext(ctx, "pipeline finished",
		slog.String("operation_id", req.ID),
		slog.String("status", string(state.GetStatus())),
		slog.Duration("duration", state.Duration()))

	return m.createResponse(state, steps), err
}

// resolveSteps decides which steps run: either the single requested step or
// the full pipeline in dependency order.
func (m *Manager) resolveSteps(ctx context.Context, req OperationRequest) ([]Step, error) {
	if req.Step != "" {
		step, err := m.registry.Get(req.Step)
		if err != nil {
			return nil, fmt.Errorf("requested step not found: %s", req.Step)
		}
		slog.InfoContext(ctx, "executing single step",
			slog.String("step_id", req.Step),
			slog.String("operation_id", req.ID))
		return []Step{step}, nil
	}

	steps, err := m.registry.GetDependencyOrder()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve step order: %w", err)
	}
	return steps, nil
}

func (m *Manager) executeSequential(ctx context.Context, state *OperationState, steps []Step) error {
	for _, step := range steps {
		select {
		case <-ctx.Done():
			state.Cancel()
			return NewCancellationError(step.ID())
		default:
		}

		if err := m.executeStep(ctx, state, step); err != nil {
			m.skipDownstream(state, steps, step.ID())
			return err
		}
	}
	return nil
}

func (m *Manager) executeStep(ctx context.Context, state *OperationState, step Step) error {
	stepState := state.GetStep(step.ID())

	if err := step.Validate(state); err != nil {
		stepState.Fail(err)
		m.broadcaster.UpdateStepProgress(state.ID, step.ID(), StepStatusFailed, 0, err.Error())
		return NewValidationError(step.ID(), err.Error())
	}

	stepState.Start()
	m.broadcaster.UpdateStepProgress(state.ID, step.ID(), StepStatusActive, 0, "running")

	stepCtx, cancel := context.WithTimeout(ctx, DefaultStepTimeout)
	defer cancel()
	stepCtx, span := m.tracer.TraceStep(stepCtx, state.ID, step.ID())

	start := time.Now()
	err := step.Execute(stepCtx, state)
	duration := time.Since(start)

	m.tracer.RecordStepCompletion(span, duration, err)
	if m.metrics != nil {
		status := string(StepStatusCompleted)
		if err != nil {
			status = string(StepStatusFailed)
		}
		m.metrics.StepDuration.WithLabelValues(step.ID(), status).Observe(duration.Seconds())
	}

	if err != nil {
		stepState.Fail(err)
		m.broadcaster.UpdateStepProgress(state.ID, step.ID(), StepStatusFailed, int(stepState.GetProgress()), err.Error())
		slog.ErrorContext(ctx, "step failed",
			slog.String("operation_id", state.ID),
			slog.String("step", step.ID()),
			slog.Duration("duration", duration),
			slog.String("error", err.Error()))
		return NewExecutionError(step.ID(), err)
	}

	stepState.Complete()
	m.broadcaster.UpdateStepProgress(state.ID, step.ID(), StepStatusCompleted, 100, "completed")
	slog.InfoContext(ctx, "step completed",
		slog.String("operation_id", state.ID),
		slog.String("step", step.ID()),
		slog.Duration("duration", duration))
	return nil
}

// skipDownstream marks every step after the failed one as skipped
func (m *Manager) skipDownstream(state *OperationState, steps []Step, failedID string) {
	seen := false
	for _, step := range steps {
		if step.ID() == failedID {
			seen = true
			continue
		}
		if !seen {
			continue
		}
		stepState := state.GetStep(step.ID())
		if stepState != nil && stepState.GetStatus() == StepStatusPending {
			reason := fmt.Sprintf("skipped: step %s failed", failedID)
			stepState.Skip(reason)
			m.broadcaster.UpdateStepProgress(state.ID, step.ID(), StepStatusSkipped, 0, reason)
		}
	}
}

func (m *Manager) createResponse(state *OperationState, steps []Step) *OperationResponse {
	order := make([]string, len(steps))
	for i, step := range steps {
		order[i] = step.ID()
	}

	resp := &OperationResponse{
		ID:       state.ID,
		Status:   string(state.GetStatus()),
		Steps:    state.StepList(order),
		Duration: state.Duration(),
	}
	if err := state.GetError(); err != nil {
		resp.Error = err.Error()
	}
	if eval := state.Evaluation(); eval != nil {
		resp.Evaluation = eval
	}
	if v, ok := state.GetContext(ContextKeyReportPath); ok {
		if path, ok := v.(string); ok {
			resp.ReportPath = path
		}
	}
	return resp
}

func (m *Manager) storeOperation(state *OperationState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.operations[state.ID] = state
}

func (m *Manager) removeOperation(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.operations, id)
}
