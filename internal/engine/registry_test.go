package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// Mock types for testing

type mockIngestor struct {
	name string
	ext  string
}

func (m *mockIngestor) Name() string      { return m.name }
func (m *mockIngestor) Kind() string      { return "mock" }
func (m *mockIngestor) Extension() string { return m.ext }
func (m *mockIngestor) Ingest(context.Context, string) (dataframe.DataFrame, error) {
	return dataframe.DataFrame{}, nil
}

// mockStrategy records every dataset it was asked to inspect.
type mockStrategy struct {
	kind  string
	calls int
	err   error
}

func (m *mockStrategy) Name() string { return m.kind }
func (m *mockStrategy) Kind() string { return m.kind }

func (m *mockStrategy) Inspect(w io.Writer, df dataframe.DataFrame) error {
	m.calls++
	if m.err != nil {
		return m.err
	}
	_, err := fmt.Fprintf(w, "%s:%dx%d", m.kind, df.Nrow(), df.Ncol())
	return err
}

func TestRegistry_CreateIngestor(t *testing.T) {
	registry := NewRegistry(zap.NewNop())
	expected := &mockIngestor{name: "zip", ext: ".zip"}
	registry.RegisterIngestor(".zip", func(*zap.Logger) (Ingestor, error) {
		return expected, nil
	})

	t.Run("registered extension returns ingestor", func(t *testing.T) {
		ingestor, err := registry.CreateIngestor(".zip")
		require.NoError(t, err)
		assert.Equal(t, expected, ingestor)
	})

	tests := []struct {
		name      string
		extension string
	}{
		{name: "other extension", extension: ".tar"},
		{name: "uppercase extension", extension: ".ZIP"},
		{name: "missing dot", extension: "zip"},
		{name: "empty extension", extension: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ingestor, err := registry.CreateIngestor(tt.extension)
			require.Error(t, err)
			assert.Nil(t, ingestor)
			assert.ErrorIs(t, err, ErrUnsupportedFormat)
			assert.NotErrorIs(t, err, ErrUnsupportedStrategy)

			var typeErr *UnsupportedTypeError
			require.ErrorAs(t, err, &typeErr)
			assert.Equal(t, tt.extension, typeErr.Kind)
			assert.Equal(t, CategoryIngestor, typeErr.Category)
			assert.Equal(t, []string{".zip"}, typeErr.Available)
		})
	}
}

func TestRegistry_CreateStrategy(t *testing.T) {
	registry := NewRegistry(zap.NewNop())

	t.Run("empty registry reports no strategies", func(t *testing.T) {
		_, err := registry.CreateStrategy("data_types")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnsupportedStrategy)
		assert.ErrorContains(t, err, "no strategys registered")
	})

	registry.RegisterStrategy("summary_statistics", func(*zap.Logger) (Strategy, error) {
		return &mockStrategy{kind: "summary_statistics"}, nil
	})
	registry.RegisterStrategy("data_types", func(*zap.Logger) (Strategy, error) {
		return &mockStrategy{kind: "data_types"}, nil
	})

	t.Run("registered kind returns strategy", func(t *testing.T) {
		strategy, err := registry.CreateStrategy("data_types")
		require.NoError(t, err)
		assert.Equal(t, "data_types", strategy.Kind())
	})

	t.Run("unknown kind lists sorted kinds", func(t *testing.T) {
		_, err := registry.CreateStrategy("histogram")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnsupportedStrategy)
		assert.ErrorContains(t, err, `"histogram"`)
		assert.ErrorContains(t, err, "[data_types summary_statistics]")
	})

	t.Run("factory error is returned", func(t *testing.T) {
		boom := errors.New("boom")
		registry.RegisterStrategy("broken", func(*zap.Logger) (Strategy, error) {
			return nil, boom
		})
		_, err := registry.CreateStrategy("broken")
		assert.ErrorIs(t, err, boom)
	})
}

func TestRegistry_Available(t *testing.T) {
	registry := NewRegistry(zap.NewNop())
	registry.RegisterIngestor(".zip", func(*zap.Logger) (Ingestor, error) { return &mockIngestor{}, nil })
	registry.RegisterIngestor(".csv", func(*zap.Logger) (Ingestor, error) { return &mockIngestor{}, nil })
	registry.RegisterStrategy("b", func(*zap.Logger) (Strategy, error) { return &mockStrategy{}, nil })
	registry.RegisterStrategy("a", func(*zap.Logger) (Strategy, error) { return &mockStrategy{}, nil })

	assert.Equal(t, []string{".csv", ".zip"}, registry.AvailableIngestors())
	assert.Equal(t, []string{"a", "b"}, registry.AvailableStrategies())
}
