package inspect

import (
	"github.com/infracollect/dataprobe/internal/engine"
	"go.uber.org/zap"
)

// Register registers the built-in strategies with the registry.
func Register(registry *engine.Registry) {
	registry.RegisterStrategy(DataTypesKind, func(*zap.Logger) (engine.Strategy, error) {
		return NewDataTypesInspector(), nil
	})
	registry.RegisterStrategy(SummaryStatisticsKind, func(*zap.Logger) (engine.Strategy, error) {
		return NewSummaryStatisticsInspector(), nil
	})
}

// DefaultKinds lists the strategies run when none are requested, in order.
func DefaultKinds() []string {
	return []string{DataTypesKind, SummaryStatisticsKind}
}
