package lookup

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/davidleathers/caller-identity/internal/domain/identity"
	"github.com/davidleathers/caller-identity/internal/domain/values"
	"github.com/davidleathers/caller-identity/internal/infrastructure/telemetry"
	"github.com/davidleathers/caller-identity/internal/service/lookup/providers"
)

// Service resolves a phone number to an identifying label: local directory
// first, then the provider waterfall, then free metadata. One Resolve call
// produces exactly one ResolutionOutcome and never returns an error; the
// only shared state across calls is the read-only directory.
type Service struct {
	directory     Directory
	providers     []providers.Provider
	defaultRegion string
	logger        *slog.Logger
	metrics       MetricsCollector
	tracer        trace.Tracer
}

// Options tunes a Service. Directory may be nil (no local directory
// available); Logger and Metrics default to no-ops.
type Options struct {
	DefaultRegion string
	Logger        *slog.Logger
	Metrics       MetricsCollector
}

// NewService creates a resolution service over a directory and an ordered
// provider list. The slice order IS the waterfall priority order; callers
// that want the canonical ordering should build the slice with
// DefaultProviders.
func NewService(directory Directory, provs []providers.Provider, opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = NopMetrics{}
	}

	return &Service{
		directory:     directory,
		providers:     provs,
		defaultRegion: opts.DefaultRegion,
		logger:        logger,
		metrics:       metrics,
		tracer:        telemetry.Tracer("lookup"),
	}
}

// Resolve runs the waterfall for one query number:
//
//  1. normalize; a parse failure is terminal
//  2. exact local directory match; a hit is terminal
//  3. providers in priority order; the first Match is terminal, the first
//     non-empty Hint is recorded, all failures fall through silently
//  4. recorded hint if any, otherwise free number metadata
//
// Providers are probed strictly sequentially so a Match avoids the cost of
// every provider behind it.
func (s *Service) Resolve(ctx context.Context, raw string) identity.ResolutionOutcome {
	ctx, span := s.tracer.Start(ctx, "lookup.resolve")
	defer span.End()

	outcome := s.resolve(ctx, raw)

	span.SetAttributes(attribute.String("lookup.outcome", string(outcome.Kind)))
	s.metrics.RecordOutcome(outcome.Kind)
	return outcome
}

func (s *Service) resolve(ctx context.Context, raw string) identity.ResolutionOutcome {
	number, err := values.NewCanonicalNumber(raw, s.defaultRegion)
	if err != nil {
		var parseErr *values.ParseError
		reason := err.Error()
		if errors.As(err, &parseErr) {
			reason = parseErr.Reason
		}
		s.logger.DebugContext(ctx, "query number unparseable", "raw", raw, "reason", reason)
		return identity.ParseFailure(reason)
	}

	if s.directory != nil {
		if entry, ok := s.directory.LookupCanonical(number); ok {
			return identity.LocalMatch(number, entry.Name)
		}
	}

	var hintProvider, hintText string
	haveHint := false

	for _, p := range s.providers {
		start := time.Now()
		result := p.Query(ctx, number)
		s.metrics.RecordProviderQuery(p.Name(), result.Status, time.Since(start))

		switch result.Status {
		case identity.StatusMatch:
			s.logger.InfoContext(ctx, "provider identified number",
				"provider", p.Name(),
				"number", number.E164(),
			)
			return identity.RemoteMatch(number, p.Name(), result.Label)

		case identity.StatusHint:
			if !haveHint && result.Hint != "" {
				haveHint = true
				hintProvider = p.Name()
				hintText = result.Hint
			}

		case identity.StatusTransportError:
			// Absorbed: a single provider failure never fails the pipeline.
			s.logger.WarnContext(ctx, "provider query failed",
				"provider", p.Name(),
				"error", result.Err,
			)

		case identity.StatusUnavailable, identity.StatusNoMatch:
			// Fall through to the next provider.
		}
	}

	if haveHint {
		return identity.HintOutcome(number, hintProvider, hintText)
	}

	// Metadata failure yields an outcome with absent fields, never an error.
	return identity.NoIdentification(number, values.Describe(number))
}

// DefaultProviders builds the canonical waterfall in its fixed priority
// order: name-capable providers first, least rate-limited first, the
// metadata-only provider strictly last so its hint can never shadow a later
// Match.
func DefaultProviders(cfg ProvidersConfig) []providers.Provider {
	return []providers.Provider{
		providers.NewOpenCorporatesProvider(providers.OpenCorporatesConfig{
			APIKey:  cfg.OpenCorporatesAPIKey,
			Enabled: cfg.OpenCorporatesEnabled,
			Timeout: cfg.Timeout,
		}),
		providers.NewGooglePlacesProvider(providers.GooglePlacesConfig{
			APIKey:  cfg.GooglePlacesAPIKey,
			Timeout: cfg.Timeout,
		}),
		providers.NewYelpProvider(providers.YelpConfig{
			APIKey:  cfg.YelpAPIKey,
			Timeout: cfg.Timeout,
		}),
		providers.NewTwilioProvider(providers.TwilioConfig{
			AccountSID: cfg.TwilioAccountSID,
			AuthToken:  cfg.TwilioAuthToken,
			Timeout:    cfg.Timeout,
		}),
		providers.NewNumverifyProvider(providers.NumverifyConfig{
			APIKey:  cfg.NumverifyAPIKey,
			Timeout: cfg.Timeout,
		}),
	}
}

// ProvidersConfig carries the credentials DefaultProviders needs, passed
// explicitly so the pipeline never reads process state.
type ProvidersConfig struct {
	Timeout time.Duration

	TwilioAccountSID      string
	TwilioAuthToken       string
	NumverifyAPIKey       string
	YelpAPIKey            string
	GooglePlacesAPIKey    string
	OpenCorporatesAPIKey  string
	OpenCorporatesEnabled bool
}
