package queue

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/ledgerbook/finance-tracker/internal/core/domain"
)

// LogSink writes activity events to the structured log. It is the sink used
// when no broker is configured.
type LogSink struct {
	log zerolog.Logger
}

func NewLogSink(log zerolog.Logger) *LogSink {
	return &LogSink{log: log}
}

func (s *LogSink) Publish(_ context.Context, event domain.ActivityEvent) error {
	s.log.Info().
		Str("kind", string(event.Kind)).
		Int64("user_id", event.UserID).
		Str("username", event.Username).
		Int64("entity_id", event.EntityID).
		Time("at", event.At).
		Msg("activity")
	return nil
}
