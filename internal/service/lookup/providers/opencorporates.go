package providers

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/davidleathers/caller-identity/internal/domain/identity"
	"github.com/davidleathers/caller-identity/internal/domain/values"
)

// OpenCorporatesProvider wraps the OpenCorporates companies search. The
// registry has no phone-aware endpoint, so the canonical number is sent as a
// free-text query and matching is best-effort on the backing service's text
// fields. Unlike the other providers the API key is optional: calls without
// one work but are rate-limited harder by the service.
type OpenCorporatesProvider struct {
	config  OpenCorporatesConfig
	client  *http.Client
	limiter *rate.Limiter
}

// OpenCorporatesConfig contains configuration for the OpenCorporates
// provider. Enabled gates the provider since a missing key alone does not.
type OpenCorporatesConfig struct {
	BaseURL      string        `json:"base_url"`
	APIKey       string        `json:"api_key,omitempty"`
	Enabled      bool          `json:"enabled"`
	Timeout      time.Duration `json:"timeout"`
	RateLimitRPS int           `json:"rate_limit_rps"`
}

// NewOpenCorporatesProvider creates a new OpenCorporates provider instance
func NewOpenCorporatesProvider(config OpenCorporatesConfig) *OpenCorporatesProvider {
	if config.BaseURL == "" {
		config.BaseURL = "https://api.opencorporates.com/v0.4"
	}
	if config.Timeout == 0 {
		config.Timeout = DefaultTimeout
	}

	return &OpenCorporatesProvider{
		config:  config,
		client:  newHTTPClient(config.Timeout),
		limiter: newLimiter(config.RateLimitRPS),
	}
}

func (p *OpenCorporatesProvider) Name() string {
	return NameOpenCorporates
}

type openCorporatesResponse struct {
	Results struct {
		Companies []struct {
			Company struct {
				Name          string `json:"name"`
				CompanyNumber string `json:"company_number"`
			} `json:"company"`
		} `json:"companies"`
	} `json:"results"`
}

// Query searches the company registry for the number. The first company
// name is a Match, an empty company list a NoMatch.
func (p *OpenCorporatesProvider) Query(ctx context.Context, number values.CanonicalNumber) identity.ProviderResult {
	if !p.config.Enabled {
		return identity.Unavailable()
	}
	if number.IsZero() {
		return identity.TransportError(&ProviderError{
			Code: ErrCodeInvalidNumber, Message: "empty canonical number", Provider: NameOpenCorporates,
		})
	}

	req, err := http.NewRequest(http.MethodGet, p.config.BaseURL+"/companies/search", nil)
	if err != nil {
		return identity.TransportError(err)
	}
	q := req.URL.Query()
	q.Set("q", number.E164())
	if p.config.APIKey != "" {
		q.Set("api_token", p.config.APIKey)
	}
	req.URL.RawQuery = q.Encode()

	var body openCorporatesResponse
	if err := getJSON(ctx, NameOpenCorporates, p.client, p.limiter, req, &body); err != nil {
		return identity.TransportError(err)
	}

	if len(body.Results.Companies) == 0 {
		return identity.NoMatch()
	}
	return identity.Match(body.Results.Companies[0].Company.Name)
}
