package engine

import (
	"fmt"
	"io"
	"os"

	"github.com/go-gota/gota/dataframe"
)

// Inspector holds the active inspection strategy and applies it on demand.
// The strategy can be swapped at any time with SetStrategy.
type Inspector struct {
	strategy Strategy
	out      io.Writer
}

type InspectorOption func(*Inspector)

// WithOutput sets the writer reports are written to. Defaults to os.Stdout.
func WithOutput(w io.Writer) InspectorOption {
	return func(i *Inspector) {
		i.out = w
	}
}

// NewInspector creates an Inspector with the given initial strategy, which is required.
func NewInspector(strategy Strategy, opts ...InspectorOption) (*Inspector, error) {
	if strategy == nil {
		return nil, ErrNoStrategy
	}

	inspector := &Inspector{strategy: strategy}
	for _, opt := range opts {
		opt(inspector)
	}

	if inspector.out == nil {
		inspector.out = os.Stdout
	}

	return inspector, nil
}

// SetStrategy replaces the active strategy.
func (i *Inspector) SetStrategy(strategy Strategy) {
	i.strategy = strategy
}

// Strategy returns the active strategy.
func (i *Inspector) Strategy() Strategy {
	return i.strategy
}

// Execute runs the active strategy against df.
func (i *Inspector) Execute(df dataframe.DataFrame) error {
	if i.strategy == nil {
		return ErrNoStrategy
	}

	if err := i.strategy.Inspect(i.out, df); err != nil {
		return fmt.Errorf("failed to run %s inspection: %w", i.strategy.Kind(), err)
	}

	return nil
}
