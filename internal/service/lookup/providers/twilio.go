package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/davidleathers/caller-identity/internal/domain/identity"
	"github.com/davidleathers/caller-identity/internal/domain/values"
)

// TwilioProvider wraps the Twilio Lookup API, the caller-ID class source. It
// is the only provider that can return a person's name rather than a
// business label.
type TwilioProvider struct {
	config  TwilioConfig
	client  *http.Client
	limiter *rate.Limiter
}

// TwilioConfig contains configuration for the Twilio provider. AccountSID
// and AuthToken are both required; either missing gates the provider off.
type TwilioConfig struct {
	BaseURL      string        `json:"base_url"`
	AccountSID   string        `json:"account_sid"`
	AuthToken    string        `json:"auth_token"`
	Timeout      time.Duration `json:"timeout"`
	RateLimitRPS int           `json:"rate_limit_rps"`
}

// NewTwilioProvider creates a new Twilio Lookup provider instance
func NewTwilioProvider(config TwilioConfig) *TwilioProvider {
	if config.BaseURL == "" {
		config.BaseURL = "https://lookups.twilio.com"
	}
	if config.Timeout == 0 {
		config.Timeout = DefaultTimeout
	}

	return &TwilioProvider{
		config:  config,
		client:  newHTTPClient(config.Timeout),
		limiter: newLimiter(config.RateLimitRPS),
	}
}

func (p *TwilioProvider) Name() string {
	return NameTwilio
}

type twilioLookupResponse struct {
	CallerName struct {
		CallerName string `json:"caller_name"`
		CallerType string `json:"caller_type"`
	} `json:"caller_name"`
	PhoneNumber string `json:"phone_number"`
}

// Query fetches caller-name data for the number. A response with a non-empty
// caller name is a Match; a successful call without one is a NoMatch.
func (p *TwilioProvider) Query(ctx context.Context, number values.CanonicalNumber) identity.ProviderResult {
	if p.config.AccountSID == "" || p.config.AuthToken == "" {
		return identity.Unavailable()
	}
	if number.IsZero() {
		return identity.TransportError(&ProviderError{
			Code: ErrCodeInvalidNumber, Message: "empty canonical number", Provider: NameTwilio,
		})
	}

	endpoint := fmt.Sprintf("%s/v1/PhoneNumbers/%s", p.config.BaseURL, url.PathEscape(number.E164()))
	req, err := http.NewRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		return identity.TransportError(err)
	}
	q := req.URL.Query()
	q.Set("Type", "caller-name")
	req.URL.RawQuery = q.Encode()
	req.SetBasicAuth(p.config.AccountSID, p.config.AuthToken)

	var body twilioLookupResponse
	if err := getJSON(ctx, NameTwilio, p.client, p.limiter, req, &body); err != nil {
		return identity.TransportError(err)
	}

	if body.CallerName.CallerName != "" {
		return identity.Match(body.CallerName.CallerName)
	}
	return identity.NoMatch()
}
