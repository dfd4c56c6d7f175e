package engine

import "outbreak/experiments/metrics"

type Engine interface {
	// Run plays a match until every human is gone or the turn limit is reached
	Run() (gameMetric metrics.GameMetric, moveMetrics []metrics.MoveMetric, err error)
}
