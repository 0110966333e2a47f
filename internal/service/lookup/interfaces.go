package lookup

import (
	"time"

	"github.com/davidleathers/caller-identity/internal/domain/identity"
	"github.com/davidleathers/caller-identity/internal/domain/values"
)

// Directory is the local contact index probed before any remote provider.
type Directory interface {
	LookupCanonical(number values.CanonicalNumber) (identity.ContactEntry, bool)
}

// MetricsCollector receives resolution observations. Implementations must be
// cheap; they are called on the hot path.
type MetricsCollector interface {
	RecordOutcome(kind identity.OutcomeKind)
	RecordProviderQuery(provider string, status identity.ResultStatus, duration time.Duration)
}

// NopMetrics discards all observations.
type NopMetrics struct{}

func (NopMetrics) RecordOutcome(identity.OutcomeKind) {}

func (NopMetrics) RecordProviderQuery(string, identity.ResultStatus, time.Duration) {}
