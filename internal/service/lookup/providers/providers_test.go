package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davidleathers/caller-identity/internal/domain/identity"
	"github.com/davidleathers/caller-identity/internal/domain/values"
)

var testNumber = values.MustCanonicalNumber("+14155552671", "US")

func jsonHandler(t *testing.T, status int, body string) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

func TestTwilioProvider_Query(t *testing.T) {
	tests := []struct {
		name           string
		status         int
		body           string
		expectedStatus identity.ResultStatus
		expectedLabel  string
	}{
		{
			name:           "caller name present is a match",
			status:         http.StatusOK,
			body:           `{"caller_name":{"caller_name":"Acme Corp","caller_type":"BUSINESS"},"phone_number":"+14155552671"}`,
			expectedStatus: identity.StatusMatch,
			expectedLabel:  "Acme Corp",
		},
		{
			name:           "no caller name is no match",
			status:         http.StatusOK,
			body:           `{"caller_name":{"caller_name":"","caller_type":""},"phone_number":"+14155552671"}`,
			expectedStatus: identity.StatusNoMatch,
		},
		{
			name:           "null caller name is no match",
			status:         http.StatusOK,
			body:           `{"phone_number":"+14155552671"}`,
			expectedStatus: identity.StatusNoMatch,
		},
		{
			name:           "auth failure is a transport error",
			status:         http.StatusUnauthorized,
			body:           `{"code":20003}`,
			expectedStatus: identity.StatusTransportError,
		},
		{
			name:           "server error is a transport error",
			status:         http.StatusInternalServerError,
			body:           `{}`,
			expectedStatus: identity.StatusTransportError,
		},
		{
			name:           "malformed body is a transport error",
			status:         http.StatusOK,
			body:           `{"caller_name":`,
			expectedStatus: identity.StatusTransportError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(jsonHandler(t, tt.status, tt.body))
			defer srv.Close()

			p := NewTwilioProvider(TwilioConfig{
				BaseURL:    srv.URL,
				AccountSID: "ACtest",
				AuthToken:  "token",
			})

			result := p.Query(context.Background(), testNumber)
			assert.Equal(t, tt.expectedStatus, result.Status)
			assert.Equal(t, tt.expectedLabel, result.Label)
		})
	}
}

func TestTwilioProvider_SelfGatesOnMissingCredentials(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	for _, cfg := range []TwilioConfig{
		{BaseURL: srv.URL},
		{BaseURL: srv.URL, AccountSID: "ACtest"},
		{BaseURL: srv.URL, AuthToken: "token"},
	} {
		result := NewTwilioProvider(cfg).Query(context.Background(), testNumber)
		assert.Equal(t, identity.StatusUnavailable, result.Status)
	}
	assert.False(t, called, "unavailable provider must not make a network call")
}

func TestTwilioProvider_SendsCredentialsAndType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "ACtest", user)
		assert.Equal(t, "token", pass)
		assert.Equal(t, "caller-name", r.URL.Query().Get("Type"))
		assert.Contains(t, r.URL.Path, "+14155552671")
		_, _ = w.Write([]byte(`{"caller_name":{"caller_name":"Jane"}}`))
	}))
	defer srv.Close()

	p := NewTwilioProvider(TwilioConfig{BaseURL: srv.URL, AccountSID: "ACtest", AuthToken: "token"})
	result := p.Query(context.Background(), testNumber)
	assert.Equal(t, identity.StatusMatch, result.Status)
	assert.Equal(t, "Jane", result.Label)
}

func TestYelpProvider_Query(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		expectedStatus identity.ResultStatus
		expectedLabel  string
	}{
		{
			name:           "first business wins",
			body:           `{"businesses":[{"name":"Blue Bottle Coffee"},{"name":"Other"}],"total":2}`,
			expectedStatus: identity.StatusMatch,
			expectedLabel:  "Blue Bottle Coffee",
		},
		{
			name:           "empty list is no match",
			body:           `{"businesses":[],"total":0}`,
			expectedStatus: identity.StatusNoMatch,
		},
		{
			name:           "absent list is no match",
			body:           `{"total":0}`,
			expectedStatus: identity.StatusNoMatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "Bearer yelp-key", r.Header.Get("Authorization"))
				assert.Equal(t, "+14155552671", r.URL.Query().Get("phone"))
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			p := NewYelpProvider(YelpConfig{BaseURL: srv.URL, APIKey: "yelp-key"})
			result := p.Query(context.Background(), testNumber)
			assert.Equal(t, tt.expectedStatus, result.Status)
			assert.Equal(t, tt.expectedLabel, result.Label)
		})
	}
}

func TestYelpProvider_SelfGates(t *testing.T) {
	result := NewYelpProvider(YelpConfig{}).Query(context.Background(), testNumber)
	assert.Equal(t, identity.StatusUnavailable, result.Status)
}

func TestGooglePlacesProvider_Query(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		expectedStatus identity.ResultStatus
		expectedLabel  string
	}{
		{
			name:           "first candidate wins",
			body:           `{"candidates":[{"name":"Ferry Building","place_id":"abc"}],"status":"OK"}`,
			expectedStatus: identity.StatusMatch,
			expectedLabel:  "Ferry Building",
		},
		{
			name:           "zero candidates is no match",
			body:           `{"candidates":[],"status":"ZERO_RESULTS"}`,
			expectedStatus: identity.StatusNoMatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "phonenumber", r.URL.Query().Get("inputtype"))
				assert.Equal(t, "+14155552671", r.URL.Query().Get("input"))
				assert.Equal(t, "g-key", r.URL.Query().Get("key"))
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			p := NewGooglePlacesProvider(GooglePlacesConfig{BaseURL: srv.URL, APIKey: "g-key"})
			result := p.Query(context.Background(), testNumber)
			assert.Equal(t, tt.expectedStatus, result.Status)
			assert.Equal(t, tt.expectedLabel, result.Label)
		})
	}
}

func TestGooglePlacesProvider_SelfGates(t *testing.T) {
	result := NewGooglePlacesProvider(GooglePlacesConfig{}).Query(context.Background(), testNumber)
	assert.Equal(t, identity.StatusUnavailable, result.Status)
}

func TestOpenCorporatesProvider_Query(t *testing.T) {
	tests := []struct {
		name           string
		apiKey         string
		body           string
		expectedStatus identity.ResultStatus
		expectedLabel  string
	}{
		{
			name:           "first company wins",
			body:           `{"results":{"companies":[{"company":{"name":"ACME LTD","company_number":"123"}}]}}`,
			expectedStatus: identity.StatusMatch,
			expectedLabel:  "ACME LTD",
		},
		{
			name:           "authenticated search",
			apiKey:         "oc-key",
			body:           `{"results":{"companies":[{"company":{"name":"ACME LTD"}}]}}`,
			expectedStatus: identity.StatusMatch,
			expectedLabel:  "ACME LTD",
		},
		{
			name:           "empty companies is no match",
			body:           `{"results":{"companies":[]}}`,
			expectedStatus: identity.StatusNoMatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "+14155552671", r.URL.Query().Get("q"))
				assert.Equal(t, tt.apiKey, r.URL.Query().Get("api_token"))
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			p := NewOpenCorporatesProvider(OpenCorporatesConfig{
				BaseURL: srv.URL,
				APIKey:  tt.apiKey,
				Enabled: true,
			})
			result := p.Query(context.Background(), testNumber)
			assert.Equal(t, tt.expectedStatus, result.Status)
			assert.Equal(t, tt.expectedLabel, result.Label)
		})
	}
}

func TestOpenCorporatesProvider_DisabledIsUnavailable(t *testing.T) {
	result := NewOpenCorporatesProvider(OpenCorporatesConfig{Enabled: false}).
		Query(context.Background(), testNumber)
	assert.Equal(t, identity.StatusUnavailable, result.Status)
}

func TestNumverifyProvider_Query(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		expectedStatus identity.ResultStatus
		expectedHint   string
	}{
		{
			name:           "all fields present",
			body:           `{"valid":true,"carrier":"Verizon","line_type":"mobile","country_name":"United States"}`,
			expectedStatus: identity.StatusHint,
			expectedHint:   "carrier=Verizon; line_type=mobile; country=United States",
		},
		{
			name:           "partial fields degrade gracefully",
			body:           `{"valid":true,"line_type":"mobile"}`,
			expectedStatus: identity.StatusHint,
			expectedHint:   "line_type=mobile",
		},
		{
			name:           "no fields is an empty hint",
			body:           `{"valid":false}`,
			expectedStatus: identity.StatusHint,
			expectedHint:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "nv-key", r.URL.Query().Get("access_key"))
				assert.Equal(t, "+14155552671", r.URL.Query().Get("number"))
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			p := NewNumverifyProvider(NumverifyConfig{BaseURL: srv.URL, APIKey: "nv-key"})
			result := p.Query(context.Background(), testNumber)
			assert.Equal(t, tt.expectedStatus, result.Status)
			assert.Equal(t, tt.expectedHint, result.Hint)
		})
	}
}

func TestNumverifyProvider_SelfGates(t *testing.T) {
	result := NewNumverifyProvider(NumverifyConfig{}).Query(context.Background(), testNumber)
	assert.Equal(t, identity.StatusUnavailable, result.Status)
}

func TestProvider_TimeoutIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(`{"businesses":[]}`))
	}))
	defer srv.Close()

	p := NewYelpProvider(YelpConfig{
		BaseURL: srv.URL,
		APIKey:  "yelp-key",
		Timeout: 20 * time.Millisecond,
	})

	result := p.Query(context.Background(), testNumber)
	assert.Equal(t, identity.StatusTransportError, result.Status)
	assert.Error(t, result.Err)
}

func TestProvider_EmptyNumberIsTransportError(t *testing.T) {
	p := NewTwilioProvider(TwilioConfig{AccountSID: "x", AuthToken: "y"})
	result := p.Query(context.Background(), values.CanonicalNumber{})
	assert.Equal(t, identity.StatusTransportError, result.Status)
}
