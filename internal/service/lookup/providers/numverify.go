package providers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/davidleathers/caller-identity/internal/domain/identity"
	"github.com/davidleathers/caller-identity/internal/domain/values"
)

// NumverifyProvider wraps the NumVerify validation API. It is the
// metadata-class provider: it never identifies a number, it only produces
// carrier/line-type/country hints, so the pipeline runs it last.
type NumverifyProvider struct {
	config  NumverifyConfig
	client  *http.Client
	limiter *rate.Limiter
}

// NumverifyConfig contains configuration for the NumVerify provider
type NumverifyConfig struct {
	BaseURL      string        `json:"base_url"`
	APIKey       string        `json:"api_key"`
	Timeout      time.Duration `json:"timeout"`
	RateLimitRPS int           `json:"rate_limit_rps"`
}

// NewNumverifyProvider creates a new NumVerify provider instance
func NewNumverifyProvider(config NumverifyConfig) *NumverifyProvider {
	if config.BaseURL == "" {
		config.BaseURL = "http://apilayer.net/api"
	}
	if config.Timeout == 0 {
		config.Timeout = DefaultTimeout
	}

	return &NumverifyProvider{
		config:  config,
		client:  newHTTPClient(config.Timeout),
		limiter: newLimiter(config.RateLimitRPS),
	}
}

func (p *NumverifyProvider) Name() string {
	return NameNumverify
}

type numverifyResponse struct {
	Valid       bool   `json:"valid"`
	Carrier     string `json:"carrier"`
	LineType    string `json:"line_type"`
	CountryName string `json:"country_name"`
}

// Query validates the number and assembles a semicolon-joined hint from
// whichever of carrier, line type and country the response provides. A
// successful call with none of them present is still a Hint, just an empty
// one. Never a Match.
func (p *NumverifyProvider) Query(ctx context.Context, number values.CanonicalNumber) identity.ProviderResult {
	if p.config.APIKey == "" {
		return identity.Unavailable()
	}
	if number.IsZero() {
		return identity.TransportError(&ProviderError{
			Code: ErrCodeInvalidNumber, Message: "empty canonical number", Provider: NameNumverify,
		})
	}

	req, err := http.NewRequest(http.MethodGet, p.config.BaseURL+"/validate", nil)
	if err != nil {
		return identity.TransportError(err)
	}
	q := req.URL.Query()
	q.Set("access_key", p.config.APIKey)
	q.Set("number", number.E164())
	req.URL.RawQuery = q.Encode()

	var body numverifyResponse
	if err := getJSON(ctx, NameNumverify, p.client, p.limiter, req, &body); err != nil {
		return identity.TransportError(err)
	}

	var hints []string
	if body.Carrier != "" {
		hints = append(hints, fmt.Sprintf("carrier=%s", body.Carrier))
	}
	if body.LineType != "" {
		hints = append(hints, fmt.Sprintf("line_type=%s", body.LineType))
	}
	if body.CountryName != "" {
		hints = append(hints, fmt.Sprintf("country=%s", body.CountryName))
	}

	return identity.Hint(strings.Join(hints, "; "))
}
