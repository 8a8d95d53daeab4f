package ports

import "github.com/ledgerbook/finance-tracker/internal/core/domain"

// ActivityRecorder accepts activity events. Implementations must not block
// the caller.
type ActivityRecorder interface {
	Record(event domain.ActivityEvent)
}

// NopActivityRecorder discards every event.
type NopActivityRecorder struct{}

func (NopActivityRecorder) Record(domain.ActivityEvent) {}
