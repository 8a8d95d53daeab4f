package main

import (
	"context"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/ledgerbook/finance-tracker/internal/core/domain"
)

type countingSink struct {
	mu    sync.Mutex
	kinds []domain.ActivityKind
}

func (s *countingSink) Publish(_ context.Context, e domain.ActivityEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.kinds = append(s.kinds, e.Kind)
	return nil
}

func TestStartDispatcher_DeliversEventsRecordedDuringShutdown(t *testing.T) {
	sink := &countingSink{}
	d := startDispatcher(2, sink, zerolog.Nop())

	// Requests still in flight after the shutdown signal record events
	// until Close.
	d.Record(domain.ActivityEvent{Kind: domain.ActivityTransactionCreated, UserID: 1, EntityID: 1})
	d.Record(domain.ActivityEvent{Kind: domain.ActivityTransactionDeleted, UserID: 1, EntityID: 1})
	d.Close()

	assert.Equal(t, []domain.ActivityKind{
		domain.ActivityTransactionCreated,
		domain.ActivityTransactionDeleted,
	}, sink.kinds)
}
