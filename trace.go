package mosaic

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "impractical.co/mosaic"

// tracer returns the tracer spans get created from. Using the global
// provider means consumers that don't set one up get no-op spans.
func tracer() trace.Tracer {
	return otel.Tracer(tracerName)
}
