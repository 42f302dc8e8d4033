package engine

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"strconv"
	"time"

	"github.com/go-gota/gota/dataframe"
)

// InspectionEntry holds a strategy with its ID for ordered execution.
type InspectionEntry struct {
	ID       string
	Strategy Strategy
}

type Pipeline struct {
	name        string
	date        time.Time
	inspections []InspectionEntry
}

func NewPipeline(name string) *Pipeline {
	return &Pipeline{
		name:        name,
		date:        time.Now().UTC(),
		inspections: nil,
	}
}

func (p *Pipeline) AddInspection(id string, strategy Strategy) error {
	if strategy == nil {
		return fmt.Errorf("inspection %s has no strategy", id)
	}

	for _, entry := range p.inspections {
		if entry.ID == id {
			return fmt.Errorf("inspection %s already exists", id)
		}
	}

	p.inspections = append(p.inspections, InspectionEntry{ID: id, Strategy: strategy})
	return nil
}

func (p *Pipeline) Name() string {
	return p.name
}

func (p *Pipeline) Date() time.Time {
	return p.date
}

func (p *Pipeline) Inspections() []InspectionEntry {
	return p.inspections
}

// Run applies every inspection to df in insertion order. A single Inspector is
// reused and its strategy swapped for each entry.
func (p *Pipeline) Run(ctx context.Context, df dataframe.DataFrame) ([]Result, error) {
	if len(p.inspections) == 0 {
		return nil, nil
	}

	var buf bytes.Buffer
	inspector, err := NewInspector(p.inspections[0].Strategy, WithOutput(&buf))
	if err != nil {
		return nil, err
	}

	meta := map[string]string{
		MetaRows:    strconv.Itoa(df.Nrow()),
		MetaColumns: strconv.Itoa(df.Ncol()),
	}

	results := make([]Result, 0, len(p.inspections))
	for _, entry := range p.inspections {
		// Check context cancellation before each inspection
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("context cancelled while running pipeline at inspection '%s': %w", entry.ID, err)
		}

		buf.Reset()
		inspector.SetStrategy(entry.Strategy)
		if err := inspector.Execute(df); err != nil {
			return nil, fmt.Errorf("failed to run inspection '%s': %w", entry.ID, err)
		}

		results = append(results, Result{
			ID:     entry.ID,
			Kind:   entry.Strategy.Kind(),
			Report: bytes.Clone(buf.Bytes()),
			Meta:   maps.Clone(meta),
		})
	}

	return results, nil
}
