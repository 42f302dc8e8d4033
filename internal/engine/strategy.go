package engine

import (
	"io"

	"github.com/go-gota/gota/dataframe"
)

// Strategy is a pluggable routine that reports on a dataset without modifying it.
type Strategy interface {
	Named

	// Inspect writes a human-readable report about df to w.
	Inspect(w io.Writer, df dataframe.DataFrame) error
}

type strategyFunc struct {
	name    string
	kind    string
	inspect func(io.Writer, dataframe.DataFrame) error
}

// StrategyFunction adapts a plain function into a Strategy.
func StrategyFunction(name, kind string, f func(io.Writer, dataframe.DataFrame) error) Strategy {
	return &strategyFunc{name: name, kind: kind, inspect: f}
}

func (s *strategyFunc) Name() string { return s.name }
func (s *strategyFunc) Kind() string { return s.kind }

func (s *strategyFunc) Inspect(w io.Writer, df dataframe.DataFrame) error {
	return s.inspect(w, df)
}
