package providers

import (
	"context"

	"github.com/davidleathers/caller-identity/internal/domain/identity"
	"github.com/davidleathers/caller-identity/internal/domain/values"
)

// Provider is the contract every external identity source implements. Query
// never returns a Go error: every failure mode is folded into the tagged
// ProviderResult so the resolution pipeline can fall through without
// error handling at each step.
//
// Adapters must self-gate: missing credentials yield StatusUnavailable
// without a network call.
type Provider interface {
	Name() string
	Query(ctx context.Context, number values.CanonicalNumber) identity.ProviderResult
}

// Provider names, used in outcomes, logs and metric labels.
const (
	NameOpenCorporates = "opencorporates"
	NameGooglePlaces   = "google_places"
	NameYelp           = "yelp"
	NameTwilio         = "twilio"
	NameNumverify      = "numverify"
)
