package searcher

import (
	"context"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "wargame/searcher"

// instruments report searches through the global OTel meter provider, a no-op
// unless the host process installs one.
type instruments struct {
	searches  metric.Int64Counter
	fallbacks metric.Int64Counter
	nodes     metric.Int64Counter
	duration  metric.Float64Histogram
	depth     metric.Int64Histogram
}

var telemetry = newInstruments()

func newInstruments() *instruments {
	m := otel.Meter(instrumentationName)
	i := &instruments{}
	var err error

	if i.searches, err = m.Int64Counter("search.moves",
		metric.WithDescription("Moves chosen by search")); err != nil {
		log.Warn().Err(err).Msg("creating search counter")
	}
	if i.fallbacks, err = m.Int64Counter("search.fallbacks",
		metric.WithDescription("Searches that missed the deadline at depth 1")); err != nil {
		log.Warn().Err(err).Msg("creating fallback counter")
	}
	if i.nodes, err = m.Int64Counter("search.nodes",
		metric.WithDescription("Interior nodes expanded")); err != nil {
		log.Warn().Err(err).Msg("creating node counter")
	}
	if i.duration, err = m.Float64Histogram("search.duration",
		metric.WithDescription("Wall time per search"),
		metric.WithUnit("s")); err != nil {
		log.Warn().Err(err).Msg("creating duration histogram")
	}
	if i.depth, err = m.Int64Histogram("search.depth",
		metric.WithDescription("Deepest completed depth per search")); err != nil {
		log.Warn().Err(err).Msg("creating depth histogram")
	}
	return i
}

func recordSearch(r Result) {
	ctx := context.Background()
	attrs := metric.WithAttributes(attribute.Bool("alpha_beta", r.Metric.AlphaBeta))

	if telemetry.searches != nil {
		telemetry.searches.Add(ctx, 1, attrs)
	}
	if r.Fallback && telemetry.fallbacks != nil {
		telemetry.fallbacks.Add(ctx, 1, attrs)
	}
	if telemetry.nodes != nil {
		telemetry.nodes.Add(ctx, r.Metric.Nodes, attrs)
	}
	if telemetry.duration != nil {
		telemetry.duration.Record(ctx, r.Elapsed.Seconds(), attrs)
	}
	if telemetry.depth != nil {
		telemetry.depth.Record(ctx, int64(r.Depth), attrs)
	}
}
