package lookup

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/davidleathers/caller-identity/internal/domain/identity"
	"github.com/davidleathers/caller-identity/internal/domain/values"
	"github.com/davidleathers/caller-identity/internal/infrastructure/directory"
	"github.com/davidleathers/caller-identity/internal/service/lookup/providers"
)

var testNumber = values.MustCanonicalNumber("+14155552671", "US")

func emptyDirectory() Directory {
	return directory.LoadEntries(nil, "US")
}

func directoryWith(entries ...identity.ContactEntry) Directory {
	return directory.LoadEntries(entries, "US")
}

func TestService_Resolve_LocalMatchPreemptsProviders(t *testing.T) {
	dir := directoryWith(identity.ContactEntry{Number: testNumber, Name: "Jane Doe"})

	// A provider that would answer, but must never be asked.
	provider := NewMockProvider("twilio")

	svc := NewService(dir, []providers.Provider{provider}, Options{DefaultRegion: "US"})
	outcome := svc.Resolve(context.Background(), "+1 415 555 2671")

	require.Equal(t, identity.OutcomeLocalMatch, outcome.Kind)
	assert.Equal(t, "Jane Doe", outcome.Name)
	assert.Equal(t, "+14155552671", outcome.Number.E164())
	provider.AssertNotCalled(t, "Query", mock.Anything, mock.Anything)
}

func TestService_Resolve_WaterfallShortCircuits(t *testing.T) {
	first := NewMockProvider("opencorporates")
	second := NewMockProvider("google_places")
	third := NewMockProvider("yelp")
	fourth := NewMockProvider("twilio")

	first.On("Query", mock.Anything, testNumber).Return(identity.NoMatch()).Once()
	second.On("Query", mock.Anything, testNumber).Return(identity.Unavailable()).Once()
	third.On("Query", mock.Anything, testNumber).Return(identity.Match("Blue Bottle Coffee")).Once()

	svc := NewService(emptyDirectory(),
		[]providers.Provider{first, second, third, fourth},
		Options{DefaultRegion: "US"})

	outcome := svc.Resolve(context.Background(), "+14155552671")

	require.Equal(t, identity.OutcomeRemoteMatch, outcome.Kind)
	assert.Equal(t, "yelp", outcome.Provider)
	assert.Equal(t, "Blue Bottle Coffee", outcome.Name)

	first.AssertExpectations(t)
	second.AssertExpectations(t)
	third.AssertExpectations(t)
	// First match wins: the fourth provider is never invoked.
	fourth.AssertNotCalled(t, "Query", mock.Anything, mock.Anything)
}

func TestService_Resolve_TransportErrorsFallThroughSilently(t *testing.T) {
	failing := NewMockProvider("opencorporates")
	working := NewMockProvider("twilio")

	failing.On("Query", mock.Anything, testNumber).
		Return(identity.TransportError(assert.AnError)).Once()
	working.On("Query", mock.Anything, testNumber).
		Return(identity.Match("Acme Corp")).Once()

	svc := NewService(emptyDirectory(),
		[]providers.Provider{failing, working},
		Options{DefaultRegion: "US"})

	outcome := svc.Resolve(context.Background(), "+14155552671")
	require.Equal(t, identity.OutcomeRemoteMatch, outcome.Kind)
	assert.Equal(t, "twilio", outcome.Provider)
	assert.Equal(t, "Acme Corp", outcome.Name)
}

func TestService_Resolve_HintSuppressedByLaterMatch(t *testing.T) {
	hinting := NewMockProvider("numverify")
	matching := NewMockProvider("twilio")

	hinting.On("Query", mock.Anything, testNumber).
		Return(identity.Hint("carrier=Verizon")).Once()
	matching.On("Query", mock.Anything, testNumber).
		Return(identity.Match("Acme Corp")).Once()

	// Deliberately misordered slice to prove the rule is positional, not
	// provider-specific: a hint recorded earlier never preempts a Match
	// from a provider that has not been tried yet.
	svc := NewService(emptyDirectory(),
		[]providers.Provider{hinting, matching},
		Options{DefaultRegion: "US"})

	outcome := svc.Resolve(context.Background(), "+14155552671")
	require.Equal(t, identity.OutcomeRemoteMatch, outcome.Kind)
	assert.Equal(t, "Acme Corp", outcome.Name)
	assert.Empty(t, outcome.Hint)
}

func TestService_Resolve_FirstHintWins(t *testing.T) {
	first := NewMockProvider("first")
	second := NewMockProvider("second")

	first.On("Query", mock.Anything, testNumber).
		Return(identity.Hint("carrier=Verizon")).Once()
	second.On("Query", mock.Anything, testNumber).
		Return(identity.Hint("carrier=AT&T")).Once()

	svc := NewService(emptyDirectory(),
		[]providers.Provider{first, second},
		Options{DefaultRegion: "US"})

	outcome := svc.Resolve(context.Background(), "+14155552671")
	require.Equal(t, identity.OutcomeHint, outcome.Kind)
	assert.Equal(t, "first", outcome.Provider)
	assert.Equal(t, "carrier=Verizon", outcome.Hint)
}

func TestService_Resolve_HintSurfacesWhenNothingMatches(t *testing.T) {
	unavailable := NewMockProvider("twilio")
	metadata := NewMockProvider("numverify")

	unavailable.On("Query", mock.Anything, testNumber).
		Return(identity.Unavailable()).Once()
	metadata.On("Query", mock.Anything, testNumber).
		Return(identity.Hint("carrier=Verizon; line_type=mobile; country=United States")).Once()

	svc := NewService(emptyDirectory(),
		[]providers.Provider{unavailable, metadata},
		Options{DefaultRegion: "US"})

	outcome := svc.Resolve(context.Background(), "+14155552671")
	require.Equal(t, identity.OutcomeHint, outcome.Kind)
	assert.Equal(t, "numverify", outcome.Provider)
	assert.Equal(t, "carrier=Verizon; line_type=mobile; country=United States", outcome.Hint)
}

func TestService_Resolve_EmptyHintIsNotRecorded(t *testing.T) {
	p := NewMockProvider("numverify")
	p.On("Query", mock.Anything, testNumber).Return(identity.Hint("")).Once()

	svc := NewService(emptyDirectory(), []providers.Provider{p}, Options{DefaultRegion: "US"})

	outcome := svc.Resolve(context.Background(), "+14155552671")
	assert.Equal(t, identity.OutcomeNoIdentification, outcome.Kind)
}

func TestService_Resolve_ExhaustionYieldsMetadata(t *testing.T) {
	p := NewMockProvider("twilio")
	p.On("Query", mock.Anything, testNumber).Return(identity.Unavailable()).Once()

	svc := NewService(emptyDirectory(), []providers.Provider{p}, Options{DefaultRegion: "US"})

	outcome := svc.Resolve(context.Background(), "+14155552671")
	require.Equal(t, identity.OutcomeNoIdentification, outcome.Kind)
	assert.Equal(t, "+14155552671", outcome.Info.Normalized)
	assert.True(t, outcome.Info.IsPossible)
	assert.Equal(t, "US", outcome.Info.Region)
}

func TestService_Resolve_NoProvidersConfigured(t *testing.T) {
	svc := NewService(emptyDirectory(), nil, Options{DefaultRegion: "US"})

	outcome := svc.Resolve(context.Background(), "+14155552671")
	require.Equal(t, identity.OutcomeNoIdentification, outcome.Kind)
	assert.Equal(t, "US", outcome.Info.Region)
}

func TestService_Resolve_ParseFailure(t *testing.T) {
	provider := NewMockProvider("twilio")

	svc := NewService(emptyDirectory(), []providers.Provider{provider}, Options{DefaultRegion: "US"})

	outcome := svc.Resolve(context.Background(), "not a number")
	require.Equal(t, identity.OutcomeParseFailure, outcome.Kind)
	assert.NotEmpty(t, outcome.Reason)
	provider.AssertNotCalled(t, "Query", mock.Anything, mock.Anything)
}

func TestService_Resolve_NilDirectory(t *testing.T) {
	p := NewMockProvider("twilio")
	p.On("Query", mock.Anything, testNumber).Return(identity.Match("Acme Corp")).Once()

	svc := NewService(nil, []providers.Provider{p}, Options{DefaultRegion: "US"})

	outcome := svc.Resolve(context.Background(), "+14155552671")
	require.Equal(t, identity.OutcomeRemoteMatch, outcome.Kind)
}

func TestService_Resolve_RecordsMetrics(t *testing.T) {
	p := NewMockProvider("twilio")
	p.On("Query", mock.Anything, testNumber).Return(identity.Match("Acme Corp")).Once()

	metrics := &MockMetrics{}
	metrics.On("RecordProviderQuery", "twilio", identity.StatusMatch, mock.Anything).Once()
	metrics.On("RecordOutcome", identity.OutcomeRemoteMatch).Once()

	svc := NewService(emptyDirectory(), []providers.Provider{p}, Options{
		DefaultRegion: "US",
		Metrics:       metrics,
	})

	svc.Resolve(context.Background(), "+14155552671")
	metrics.AssertExpectations(t)
}

func TestDefaultProviders_CanonicalOrder(t *testing.T) {
	provs := DefaultProviders(ProvidersConfig{})

	var names []string
	for _, p := range provs {
		names = append(names, p.Name())
	}

	assert.Equal(t, []string{
		providers.NameOpenCorporates,
		providers.NameGooglePlaces,
		providers.NameYelp,
		providers.NameTwilio,
		providers.NameNumverify,
	}, names)
}
