package tree

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func collectInt64Sum(t *testing.T, reader sdkmetric.Reader, name string) metricdata.Sum[int64] {
	rm := metricdata.ResourceMetrics{}
	require.NoError(t, reader.Collect(context.Background(), &rm))
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			return sum
		}
	}
	require.Failf(t, "metric not found", "name: %s", name)
	return metricdata.Sum[int64]{}
}

func pointValue(sum metricdata.Sum[int64], key, val string) int64 {
	for _, dp := range sum.DataPoints {
		if v, ok := dp.Attributes.Value(attribute.Key(key)); ok && v.AsString() == val {
			return dp.Value
		}
	}
	return 0
}

func TestRbtreeStats(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer func() {
		_ = provider.Shutdown(context.Background())
	}()

	tree := NewRBTree[int, int](WithRBTreeMeter[int, int](provider.Meter("rbtree-test")))

	// 3 enters im5 and rotates the root to the right.
	for _, k := range []int{52, 47, 3} {
		require.NoError(t, tree.Insert(k, k))
	}
	rotations := collectInt64Sum(t, reader, RBTreeRotationsMetric)
	require.True(t, rotations.IsMonotonic)
	require.Equal(t, int64(1), pointValue(rotations, "direction", "right"))
	require.Equal(t, int64(0), pointValue(rotations, "direction", "left"))

	steps := collectInt64Sum(t, reader, RBTreeRebalanceStepsMetric)
	require.Equal(t, int64(3), pointValue(steps, "op", "insert"))

	nodes := collectInt64Sum(t, reader, RBTreeNodesMetric)
	require.False(t, nodes.IsMonotonic)
	require.Len(t, nodes.DataPoints, 1)
	require.Equal(t, int64(3), nodes.DataPoints[0].Value)

	// Both are red leaves.
	require.True(t, tree.Delete(3))
	require.True(t, tree.Delete(52))
	nodes = collectInt64Sum(t, reader, RBTreeNodesMetric)
	require.Equal(t, int64(1), nodes.DataPoints[0].Value)

	tree.Release()
	nodes = collectInt64Sum(t, reader, RBTreeNodesMetric)
	require.Equal(t, int64(0), nodes.DataPoints[0].Value)
}

func TestRbtreeStats_Disabled(t *testing.T) {
	tree := newRBTree[int, int]()
	require.Nil(t, tree.stats)
	// nil stats are no-ops.
	tree.stats.rotated(Left)
	tree.stats.rebalanced(opRemove)
	tree.stats.resized(1)
}
