package operations

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerExecutesStepsInOrder(t *testing.T) {
	registry := NewRegistry()
	var executed []string

	for _, tc := range []struct {
		id   string
		deps []string
	}{
		{"first", nil},
		{"second", []string{"first"}},
		{"third", []string{"second"}},
	} {
		step := newFakeStep(tc.id, tc.deps)
		id := tc.id
		step.execute = func(ctx context.Context, state *OperationState) error {
			executed = append(executed, id)
			return nil
		}
		require.NoError(t, registry.Register(step))
	}

	manager := NewManager(registry)
	resp, err := manager.Execute(context.Background(), OperationRequest{ArchivePath: "in.zip"})
	require.NoError(t, err)

	assert.Equal(t, []string{"first", "second", "third"}, executed)
	assert.Equal(t, string(OperationStatusCompleted), resp.Status)
	assert.NotEmpty(t, resp.ID, "operation ID is generated when absent")
	require.Len(t, resp.Steps, 3)
	for _, step := range resp.Steps {
		assert.Equal(t, StepStatusCompleted, step.GetStatus())
	}
}

func TestManagerStopsOnFailureAndSkipsDownstream(t *testing.T) {
	registry := NewRegistry()

	ok := newFakeStep("ok", nil)
	failing := newFakeStep("failing", []string{"ok"})
	failing.execute = func(ctx context.Context, state *OperationState) error {
		return errors.New("boom")
	}
	downstream := newFakeStep("downstream", []string{"failing"})
	downstream.execute = func(ctx context.Context, state *OperationState) error {
		t.Fatal("downstream step must not run")
		return nil
	}

	require.NoError(t, registry.Register(ok))
	require.NoError(t, registry.Register(failing))
	require.NoError(t, registry.Register(downstream))

	manager := NewManager(registry)
	resp, err := manager.Execute(context.Background(), OperationRequest{ArchivePath: "in.zip"})
	require.Error(t, err)

	var opErr *OperationError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, ErrorTypeExecution, opErr.Type)
	assert.Equal(t, "failing", opErr.Step)

	assert.Equal(t, string(OperationStatusFailed), resp.Status)
	require.Len(t, resp.Steps, 3)
	assert.Equal(t, StepStatusCompleted, resp.Steps[0].GetStatus())
	assert.Equal(t, StepStatusFailed, resp.Steps[1].GetStatus())
	assert.Equal(t, StepStatusSkipped, resp.Steps[2].GetStatus())
}

func TestManagerValidationFailure(t *testing.T) {
	registry := NewRegistry()

	step := newFakeStep("strict", nil)
	step.validate = func(state *OperationState) error {
		return errors.New("precondition not met")
	}
	step.execute = func(ctx context.Context, state *OperationState) error {
		t.Fatal("execute must not run when validation fails")
		return nil
	}
	require.NoError(t, registry.Register(step))

	manager := NewManager(registry)
	_, err := manager.Execute(context.Background(), OperationRequest{ArchivePath: "in.zip"})
	require.Error(t, err)
	assert.Equal(t, ErrorTypeValidation, GetErrorType(err))
}

func TestManagerSingleStepRequest(t *testing.T) {
	registry := NewRegistry()
	var executed []string

	for _, id := range []string{"a", "b"} {
		step := newFakeStep(id, nil)
		captured := id
		step.execute = func(ctx context.Context, state *OperationState) error {
			executed = append(executed, captured)
			return nil
		}
		require.NoError(t, registry.Register(step))
	}

	manager := NewManager(registry)
	resp, err := manager.Execute(context.Background(), OperationRequest{
		ArchivePath: "in.zip",
		Step:        "b",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"b"}, executed)
	require.Len(t, resp.Steps, 1)
	assert.Equal(t, "b", resp.Steps[0].ID)
}

func TestManagerUnknownStepRequest(t *testing.T) {
	manager := NewManager(NewRegistry())
	_, err := manager.Execute(context.Background(), OperationRequest{
		ArchivePath: "in.zip",
		Step:        "ghost",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestManagerCancellation(t *testing.T) {
	registry := NewRegistry()
	step := newFakeStep("never", nil)
	step.execute = func(ctx context.Context, state *OperationState) error {
		t.Fatal("step must not run after cancellation")
		return nil
	}
	require.NoError(t, registry.Register(step))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	manager := NewManager(registry)
	resp, err := manager.Execute(ctx, OperationRequest{ArchivePath: "in.zip"})
	require.Error(t, err)
	assert.Equal(t, ErrorTypeCancellation, GetErrorType(err))
	assert.Equal(t, string(OperationStatusCancelled), resp.Status)
}

func TestManagerRequestContextFlowsToState(t *testing.T) {
	registry := NewRegistry()
	step := newFakeStep("inspect", nil)

	var gotArchive, gotTarget string
	step.execute = func(ctx context.Context, state *OperationState) error {
		gotArchive = state.ArchivePath()
		gotTarget = state.TargetColumn()
		return nil
	}
	require.NoError(t, registry.Register(step))

	manager := NewManager(registry)
	_, err := manager.Execute(context.Background(), OperationRequest{
		ArchivePath:  "housing.zip",
		TargetColumn: "SalePrice",
	})
	require.NoError(t, err)

	assert.Equal(t, "housing.zip", gotArchive)
	assert.Equal(t, "SalePrice", gotTarget)
}

func TestManagerBroadcastsToSink(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.Register(newFakeStep("only", nil)))

	sink := &recordingSink{}
	manager := NewManager(registry, WithSink(sink))

	resp, err := manager.Execute(context.Background(), OperationRequest{ArchivePath: "in.zip"})
	require.NoError(t, err)

	types := sink.eventTypes()
	require.NotEmpty(t, types)
	assert.Equal(t, EventTypeOperationComplete, types[len(types)-1])

	// Snapshot remains queryable after the run for status endpoints
	snapshot, err := manager.GetOperation(resp.ID)
	require.NoError(t, err)
	assert.Equal(t, string(OperationStatusCompleted), snapshot.Status)

	_, err = manager.GetOperation("ghost")
	assert.ErrorIs(t, err, ErrOperationNotFound)
}
