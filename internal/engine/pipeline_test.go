package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPipeline_AddInspection(t *testing.T) {
	pipeline := NewPipeline("test")

	require.NoError(t, pipeline.AddInspection("types", &mockStrategy{kind: "data_types"}))

	err := pipeline.AddInspection("types", &mockStrategy{kind: "summary_statistics"})
	assert.ErrorContains(t, err, "inspection types already exists")

	err = pipeline.AddInspection("empty", nil)
	assert.ErrorContains(t, err, "has no strategy")

	assert.Len(t, pipeline.Inspections(), 1)
	assert.Equal(t, "test", pipeline.Name())
	assert.False(t, pipeline.Date().IsZero())
}

func TestPipeline_Run(t *testing.T) {
	pipeline := NewPipeline("test")
	first := &mockStrategy{kind: "first"}
	second := &mockStrategy{kind: "second"}
	require.NoError(t, pipeline.AddInspection("one", first))
	require.NoError(t, pipeline.AddInspection("two", second))

	results, err := pipeline.Run(t.Context(), newTestFrame())
	require.NoError(t, err)

	require.Len(t, results, 2)
	assert.Equal(t, "one", results[0].ID)
	assert.Equal(t, "first", results[0].Kind)
	assert.Equal(t, "first:2x2", string(results[0].Report))
	assert.Equal(t, "one.txt", results[0].Filename())
	assert.Equal(t, "two", results[1].ID)
	assert.Equal(t, "second:2x2", string(results[1].Report))
	assert.Equal(t, map[string]string{"rows": "2", "columns": "2"}, results[1].Meta)
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 1, second.calls)
}

func TestPipeline_RunEmpty(t *testing.T) {
	results, err := NewPipeline("empty").Run(t.Context(), newTestFrame())
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestPipeline_RunStopsOnError(t *testing.T) {
	boom := errors.New("boom")
	pipeline := NewPipeline("test")
	last := &mockStrategy{kind: "last"}
	require.NoError(t, pipeline.AddInspection("broken", &mockStrategy{kind: "broken", err: boom}))
	require.NoError(t, pipeline.AddInspection("last", last))

	_, err := pipeline.Run(t.Context(), newTestFrame())
	require.ErrorIs(t, err, boom)
	assert.ErrorContains(t, err, "'broken'")
	assert.Equal(t, 0, last.calls)
}

func TestPipeline_RunCancelled(t *testing.T) {
	pipeline := NewPipeline("test")
	strategy := &mockStrategy{kind: "first"}
	require.NoError(t, pipeline.AddInspection("one", strategy))

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := pipeline.Run(ctx, newTestFrame())
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, strategy.calls)
}
