// Package analytics provides injectable event sinks. Action handlers call
// the domain.AnalyticsSink interface instead of a global tracking symbol, so
// the sink can be a no-op, a log, or a metrics counter.
package analytics

import (
	"context"

	"github.com/rs/zerolog"

	"visible_mx/internal/adapters/observability"
)

// Noop drops every event.
type Noop struct{}

func (Noop) Event(context.Context, string, map[string]string) {}

// Log writes each event as a structured log line.
type Log struct{ L zerolog.Logger }

func (s Log) Event(_ context.Context, name string, props map[string]string) {
	ev := s.L.Info().Str("event", name)
	for k, v := range props {
		ev = ev.Str(k, v)
	}
	ev.Msg("user_event")
}

// Metrics counts events in the visible_user_events_total counter and also
// logs them, so dashboards and logs agree.
type Metrics struct{ L zerolog.Logger }

func (s Metrics) Event(ctx context.Context, name string, props map[string]string) {
	observability.ObserveUserEvent(name)
	Log{L: s.L}.Event(ctx, name, props)
}
