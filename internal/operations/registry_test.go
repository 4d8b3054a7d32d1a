package operations

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStep is a minimal step for registry and manager tests
type fakeStep struct {
	BaseStep
	execute  func(ctx context.Context, state *OperationState) error
	validate func(state *OperationState) error
}

func newFakeStep(id string, deps []string) *fakeStep {
	return &fakeStep{BaseStep: NewBaseStep(id, id, deps)}
}

func (s *fakeStep) Execute(ctx context.Context, state *OperationState) error {
	if s.execute != nil {
		return s.execute(ctx, state)
	}
	return nil
}

func (s *fakeStep) Validate(state *OperationState) error {
	if s.validate != nil {
		return s.validate(state)
	}
	return nil
}

func TestRegistryRegister(t *testing.T) {
	registry := NewRegistry()

	require.NoError(t, registry.Register(newFakeStep("a", nil)))
	assert.True(t, registry.Has("a"))
	assert.Equal(t, 1, registry.Count())

	err := registry.Register(newFakeStep("a", nil))
	assert.Error(t, err, "duplicate registration")

	assert.Error(t, registry.Register(nil))
	assert.Error(t, registry.Register(newFakeStep("", nil)))
}

func TestRegistryGet(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.Register(newFakeStep("a", nil)))

	step, err := registry.Get("a")
	require.NoError(t, err)
	assert.Equal(t, "a", step.ID())

	_, err = registry.Get("missing")
	assert.Error(t, err)
}

func TestRegistryDependencyOrder(t *testing.T) {
	registry := NewRegistry()

	// Register out of order; dependencies must still come first
	require.NoError(t, registry.Register(newFakeStep("train", []string{"split"})))
	require.NoError(t, registry.Register(newFakeStep("ingest", nil)))
	require.NoError(t, registry.Register(newFakeStep("split", []string{"ingest"})))

	ordered, err := registry.GetDependencyOrder()
	require.NoError(t, err)

	ids := make([]string, len(ordered))
	for i, step := range ordered {
		ids[i] = step.ID()
	}
	assert.Equal(t, []string{"ingest", "split", "train"}, ids)
}

func TestRegistryDependencyCycle(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.Register(newFakeStep("a", []string{"b"})))
	require.NoError(t, registry.Register(newFakeStep("b", []string{"a"})))

	_, err := registry.GetDependencyOrder()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cycle")
}

func TestRegistryMissingDependency(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.Register(newFakeStep("a", []string{"ghost"})))

	assert.Error(t, registry.ValidateDependencies())
}

func TestRegistryListIDs(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.Register(newFakeStep("b", nil)))
	require.NoError(t, registry.Register(newFakeStep("a", nil)))

	assert.Equal(t, []string{"b", "a"}, registry.ListIDs())
}
