package observability

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"

	"github.com/benz9527/xrbtree/lib/tree"
)

func TestConsoleMetricsExporter(t *testing.T) {
	buf := &bytes.Buffer{}
	shutdown, err := NewConsoleMetricsExporter(time.Hour, time.Second, stdoutmetric.WithWriter(buf))
	require.NoError(t, err)

	rbt := tree.NewRBTree[int, int](tree.WithRBTreeMeter[int, int](TreeMeter("console")))
	for i := 0; i < 64; i++ {
		require.NoError(t, rbt.Insert(i, i))
	}
	for i := 0; i < 32; i++ {
		require.True(t, rbt.Delete(i))
	}

	// Shutdown flushes the periodic reader.
	require.NoError(t, shutdown(context.Background()))
	out := buf.String()
	require.Contains(t, out, tree.RBTreeRotationsMetric)
	require.Contains(t, out, tree.RBTreeRebalanceStepsMetric)
	require.Contains(t, out, tree.RBTreeNodesMetric)
	require.Contains(t, out, "xrbtree/tree/console")
}

func TestPrometheusMetricsExporter(t *testing.T) {
	registry := promclient.NewRegistry()
	shutdown, err := NewPrometheusMetricsExporter(prometheus.WithRegisterer(registry))
	require.NoError(t, err)
	defer func() {
		_ = shutdown(context.Background())
	}()

	rbt := tree.NewRBTree[string, int](tree.WithRBTreeMeter[string, int](TreeMeter("")))
	for _, k := range []string{"c", "b", "a"} {
		require.NoError(t, rbt.Insert(k, 0))
	}

	families, err := registry.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	joined := strings.Join(names, ",")
	require.Contains(t, joined, "rbtree_rotations")
	require.Contains(t, joined, "rbtree_nodes")
}
