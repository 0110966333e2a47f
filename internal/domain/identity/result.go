package identity

// ResultStatus tags the outcome of a single provider query.
type ResultStatus string

const (
	// StatusUnavailable means the provider was not configured (missing
	// credentials) and no network call was made.
	StatusUnavailable ResultStatus = "unavailable"
	// StatusTransportError covers network failures, non-2xx responses, auth
	// failures and malformed response bodies.
	StatusTransportError ResultStatus = "transport_error"
	// StatusNoMatch means the call succeeded but carried no identifying data.
	StatusNoMatch ResultStatus = "no_match"
	// StatusMatch means the call succeeded and produced an identifying label.
	StatusMatch ResultStatus = "match"
	// StatusHint means the call succeeded and produced only non-identifying
	// signals (carrier, line type, country). Only metadata-class providers
	// return hints.
	StatusHint ResultStatus = "hint"
)

// ProviderResult is the tagged outcome of one provider query. Label is set
// only for StatusMatch, Hint only for StatusHint, Err (the underlying cause,
// for logs) only for StatusTransportError.
type ProviderResult struct {
	Status ResultStatus
	Label  string
	Hint   string
	Err    error
}

func Unavailable() ProviderResult {
	return ProviderResult{Status: StatusUnavailable}
}

func TransportError(err error) ProviderResult {
	return ProviderResult{Status: StatusTransportError, Err: err}
}

func NoMatch() ProviderResult {
	return ProviderResult{Status: StatusNoMatch}
}

func Match(label string) ProviderResult {
	return ProviderResult{Status: StatusMatch, Label: label}
}

// Hint builds a hint result. An empty hint string is legal: the call
// succeeded but none of the metadata fields were present.
func Hint(hint string) ProviderResult {
	return ProviderResult{Status: StatusHint, Hint: hint}
}
