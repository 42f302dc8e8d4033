package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidFormat is returned when a path does not carry the extension
	// expected by the ingestor it was handed to.
	ErrInvalidFormat = errors.New("invalid file format")

	// ErrUnsupportedFormat is returned when no ingestor is registered for an extension.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrUnsupportedStrategy is returned when no inspection strategy is registered for a kind.
	ErrUnsupportedStrategy = errors.New("unsupported inspection strategy")

	// ErrNotFound is returned when an archive was extracted but holds no data file.
	ErrNotFound = errors.New("no data file found")

	// ErrAmbiguousInput is returned when an archive holds more than one data file.
	ErrAmbiguousInput = errors.New("more than one data file found")

	// ErrNoStrategy is returned when an Inspector is asked to run without a strategy.
	ErrNoStrategy = errors.New("no inspection strategy set")
)

const (
	CategoryIngestor = "ingestor"
	CategoryStrategy = "strategy"
)

// UnsupportedTypeError is returned when an ingestor extension or strategy kind is not registered.
type UnsupportedTypeError struct {
	Category  string   // "ingestor" or "strategy"
	Kind      string   // the requested extension or kind
	Available []string // registered extensions or kinds
}

func (e *UnsupportedTypeError) Error() string {
	if len(e.Available) == 0 {
		return fmt.Sprintf("unsupported %s type %q: no %ss registered", e.Category, e.Kind, e.Category)
	}
	return fmt.Sprintf("unsupported %s type %q (available: %v)", e.Category, e.Kind, e.Available)
}

func (e *UnsupportedTypeError) Unwrap() error {
	if e.Category == CategoryStrategy {
		return ErrUnsupportedStrategy
	}
	return ErrUnsupportedFormat
}
