package engine

import (
	"slices"
	"sync"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

// IngestorFactory builds an ingestor. Factories must not perform I/O so that
// resolving an ingestor stays a pure lookup.
type IngestorFactory func(logger *zap.Logger) (Ingestor, error)

type StrategyFactory func(logger *zap.Logger) (Strategy, error)

// Registry maps file extensions to ingestors and kinds to inspection strategies.
type Registry struct {
	mu         sync.RWMutex
	ingestors  map[string]IngestorFactory
	strategies map[string]StrategyFactory
	logger     *zap.Logger
}

func NewRegistry(logger *zap.Logger) *Registry {
	return &Registry{
		ingestors:  make(map[string]IngestorFactory),
		strategies: make(map[string]StrategyFactory),
		logger:     logger,
	}
}

// RegisterIngestor registers a factory for an extension, including its leading dot (e.g., ".zip").
func (r *Registry) RegisterIngestor(extension string, factory IngestorFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ingestors[extension] = factory
}

func (r *Registry) RegisterStrategy(kind string, factory StrategyFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.strategies[kind] = factory
}

// CreateIngestor returns the ingestor registered for extension. Lookups are
// exact: ".ZIP" does not match ".zip".
func (r *Registry) CreateIngestor(extension string) (Ingestor, error) {
	r.mu.RLock()
	factory, ok := r.ingestors[extension]
	available := r.availableIngestors()
	r.mu.RUnlock()
	if !ok {
		return nil, &UnsupportedTypeError{Category: CategoryIngestor, Kind: extension, Available: available}
	}
	return factory(r.logger)
}

func (r *Registry) CreateStrategy(kind string) (Strategy, error) {
	r.mu.RLock()
	factory, ok := r.strategies[kind]
	available := r.availableStrategies()
	r.mu.RUnlock()
	if !ok {
		return nil, &UnsupportedTypeError{Category: CategoryStrategy, Kind: kind, Available: available}
	}
	return factory(r.logger)
}

func (r *Registry) AvailableIngestors() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.availableIngestors()
}

func (r *Registry) availableIngestors() []string {
	ingestors := lo.Keys(r.ingestors)
	slices.Sort(ingestors)
	return ingestors
}

func (r *Registry) AvailableStrategies() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.availableStrategies()
}

func (r *Registry) availableStrategies() []string {
	strategies := lo.Keys(r.strategies)
	slices.Sort(strategies)
	return strategies
}
