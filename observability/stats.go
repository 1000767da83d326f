package observability

import (
	"strings"

	"github.com/samber/lo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationVersion = "v0.1.0"

// TreeMeter returns the meter for a named tree from the global
// provider, i.e. "xrbtree/tree/<name>".
func TreeMeter(name string) metric.Meter {
	builder := &strings.Builder{}
	builder.WriteString("xrbtree/tree/")
	builder.WriteString(lo.Ternary(len(strings.TrimSpace(name)) > 0, name, "default"))
	return otel.Meter(
		builder.String(),
		metric.WithInstrumentationVersion(instrumentationVersion),
	)
}
