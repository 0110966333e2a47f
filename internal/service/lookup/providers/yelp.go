package providers

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/davidleathers/caller-identity/internal/domain/identity"
	"github.com/davidleathers/caller-identity/internal/domain/values"
)

// YelpProvider wraps the Yelp Fusion phone search, the generic business
// directory source.
type YelpProvider struct {
	config  YelpConfig
	client  *http.Client
	limiter *rate.Limiter
}

// YelpConfig contains configuration for the Yelp provider
type YelpConfig struct {
	BaseURL      string        `json:"base_url"`
	APIKey       string        `json:"api_key"`
	Timeout      time.Duration `json:"timeout"`
	RateLimitRPS int           `json:"rate_limit_rps"`
}

// NewYelpProvider creates a new Yelp Fusion provider instance
func NewYelpProvider(config YelpConfig) *YelpProvider {
	if config.BaseURL == "" {
		config.BaseURL = "https://api.yelp.com/v3"
	}
	if config.Timeout == 0 {
		config.Timeout = DefaultTimeout
	}

	return &YelpProvider{
		config:  config,
		client:  newHTTPClient(config.Timeout),
		limiter: newLimiter(config.RateLimitRPS),
	}
}

func (p *YelpProvider) Name() string {
	return NameYelp
}

type yelpPhoneSearchResponse struct {
	Businesses []struct {
		Name string `json:"name"`
	} `json:"businesses"`
	Total int `json:"total"`
}

// Query searches businesses by phone. The first business name is a Match,
// an empty result list a NoMatch.
func (p *YelpProvider) Query(ctx context.Context, number values.CanonicalNumber) identity.ProviderResult {
	if p.config.APIKey == "" {
		return identity.Unavailable()
	}
	if number.IsZero() {
		return identity.TransportError(&ProviderError{
			Code: ErrCodeInvalidNumber, Message: "empty canonical number", Provider: NameYelp,
		})
	}

	req, err := http.NewRequest(http.MethodGet, p.config.BaseURL+"/businesses/search/phone", nil)
	if err != nil {
		return identity.TransportError(err)
	}
	q := req.URL.Query()
	q.Set("phone", number.E164())
	req.URL.RawQuery = q.Encode()
	req.Header.Set("Authorization", "Bearer "+p.config.APIKey)

	var body yelpPhoneSearchResponse
	if err := getJSON(ctx, NameYelp, p.client, p.limiter, req, &body); err != nil {
		return identity.TransportError(err)
	}

	if len(body.Businesses) == 0 {
		return identity.NoMatch()
	}
	return identity.Match(body.Businesses[0].Name)
}
