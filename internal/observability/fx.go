package observability

import "go.uber.org/fx"

// Module wires the logger, tracing, and metrics via Fx.
var Module = fx.Options(
	fx.Provide(NewLogger),
	fx.Provide(NewTracerProvider),
	fx.Provide(NewMeterProvider),
	fx.Provide(NewMetrics),
)
