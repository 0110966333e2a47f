package providers

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/davidleathers/caller-identity/internal/domain/identity"
	"github.com/davidleathers/caller-identity/internal/domain/values"
)

// GooglePlacesProvider wraps the Google Places "find place from text" search
// in phone-number mode, the place directory source.
type GooglePlacesProvider struct {
	config  GooglePlacesConfig
	client  *http.Client
	limiter *rate.Limiter
}

// GooglePlacesConfig contains configuration for the Google Places provider
type GooglePlacesConfig struct {
	BaseURL      string        `json:"base_url"`
	APIKey       string        `json:"api_key"`
	Timeout      time.Duration `json:"timeout"`
	RateLimitRPS int           `json:"rate_limit_rps"`
}

// NewGooglePlacesProvider creates a new Google Places provider instance
func NewGooglePlacesProvider(config GooglePlacesConfig) *GooglePlacesProvider {
	if config.BaseURL == "" {
		config.BaseURL = "https://maps.googleapis.com/maps/api"
	}
	if config.Timeout == 0 {
		config.Timeout = DefaultTimeout
	}

	return &GooglePlacesProvider{
		config:  config,
		client:  newHTTPClient(config.Timeout),
		limiter: newLimiter(config.RateLimitRPS),
	}
}

func (p *GooglePlacesProvider) Name() string {
	return NameGooglePlaces
}

type googlePlacesResponse struct {
	Candidates []struct {
		Name           string `json:"name"`
		PlaceID        string `json:"place_id"`
		BusinessStatus string `json:"business_status"`
	} `json:"candidates"`
	Status string `json:"status"`
}

// Query finds places registered under the number. The first candidate name
// is a Match, an empty candidate list a NoMatch.
func (p *GooglePlacesProvider) Query(ctx context.Context, number values.CanonicalNumber) identity.ProviderResult {
	if p.config.APIKey == "" {
		return identity.Unavailable()
	}
	if number.IsZero() {
		return identity.TransportError(&ProviderError{
			Code: ErrCodeInvalidNumber, Message: "empty canonical number", Provider: NameGooglePlaces,
		})
	}

	req, err := http.NewRequest(http.MethodGet, p.config.BaseURL+"/place/findplacefromtext/json", nil)
	if err != nil {
		return identity.TransportError(err)
	}
	q := req.URL.Query()
	q.Set("input", number.E164())
	q.Set("inputtype", "phonenumber")
	q.Set("fields", "name,formatted_phone_number,place_id,business_status")
	q.Set("key", p.config.APIKey)
	req.URL.RawQuery = q.Encode()

	var body googlePlacesResponse
	if err := getJSON(ctx, NameGooglePlaces, p.client, p.limiter, req, &body); err != nil {
		return identity.TransportError(err)
	}

	if len(body.Candidates) == 0 {
		return identity.NoMatch()
	}
	return identity.Match(body.Candidates[0].Name)
}
