package tree

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/multierr"
)

const (
	RBTreeRotationsMetric      = "rbtree.rotations"
	RBTreeRebalanceStepsMetric = "rbtree.rebalance.steps"
	RBTreeNodesMetric          = "rbtree.nodes"
)

type rebalanceOp uint8

const (
	opInsert rebalanceOp = iota
	opRemove
)

// rbStats is nil when no meter is configured, every method is then a no-op.
type rbStats struct {
	rotations metric.Int64Counter
	steps     metric.Int64Counter
	nodes     metric.Int64UpDownCounter
	leftAttr  metric.AddOption
	rightAttr metric.AddOption
	insAttr   metric.AddOption
	rmAttr    metric.AddOption
}

func newRBStats(meter metric.Meter) (*rbStats, error) {
	var err, e error
	stats := &rbStats{
		leftAttr:  metric.WithAttributeSet(attribute.NewSet(attribute.String("direction", "left"))),
		rightAttr: metric.WithAttributeSet(attribute.NewSet(attribute.String("direction", "right"))),
		insAttr:   metric.WithAttributeSet(attribute.NewSet(attribute.String("op", "insert"))),
		rmAttr:    metric.WithAttributeSet(attribute.NewSet(attribute.String("op", "remove"))),
	}
	stats.rotations, e = meter.Int64Counter(
		RBTreeRotationsMetric,
		metric.WithDescription(`The rbtree rotations' count.`),
	)
	err = multierr.Append(err, e)
	stats.steps, e = meter.Int64Counter(
		RBTreeRebalanceStepsMetric,
		metric.WithDescription(`The rbtree rebalance loop iterations.`),
	)
	err = multierr.Append(err, e)
	stats.nodes, e = meter.Int64UpDownCounter(
		RBTreeNodesMetric,
		metric.WithDescription(`The rbtree live nodes.`),
	)
	err = multierr.Append(err, e)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func (stats *rbStats) rotated(dir RBDirection) {
	if stats == nil {
		return
	}
	if dir == Left {
		stats.rotations.Add(context.Background(), 1, stats.leftAttr)
		return
	}
	stats.rotations.Add(context.Background(), 1, stats.rightAttr)
}

func (stats *rbStats) rebalanced(op rebalanceOp) {
	if stats == nil {
		return
	}
	if op == opInsert {
		stats.steps.Add(context.Background(), 1, stats.insAttr)
		return
	}
	stats.steps.Add(context.Background(), 1, stats.rmAttr)
}

func (stats *rbStats) resized(delta int64) {
	if stats == nil || delta == 0 {
		return
	}
	stats.nodes.Add(context.Background(), delta)
}
