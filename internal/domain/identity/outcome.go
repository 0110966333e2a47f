package identity

import (
	"github.com/davidleathers/caller-identity/internal/domain/values"
)

// OutcomeKind tags the final answer of one resolution request.
type OutcomeKind string

const (
	// OutcomeLocalMatch: the number was found in the local contact directory.
	OutcomeLocalMatch OutcomeKind = "local_match"
	// OutcomeRemoteMatch: an external provider returned an identifying label.
	OutcomeRemoteMatch OutcomeKind = "remote_match"
	// OutcomeHint: no provider identified the number but one produced
	// non-identifying metadata.
	OutcomeHint OutcomeKind = "hint"
	// OutcomeNoIdentification: nothing identified the number; Info carries
	// whatever free metadata could be derived locally.
	OutcomeNoIdentification OutcomeKind = "no_identification"
	// OutcomeParseFailure: the query string itself could not be parsed.
	OutcomeParseFailure OutcomeKind = "parse_failure"
)

// ResolutionOutcome is the single answer produced per lookup request. It is
// constructed once, never mutated, and immediately consumed by the CLI
// printer or the web renderer.
type ResolutionOutcome struct {
	Kind     OutcomeKind            `json:"kind"`
	Number   values.CanonicalNumber `json:"number,omitempty"`
	Name     string                 `json:"name,omitempty"`
	Provider string                 `json:"provider,omitempty"`
	Hint     string                 `json:"hint,omitempty"`
	Info     values.NumberInfo      `json:"info,omitempty"`
	Reason   string                 `json:"reason,omitempty"`
}

// Found reports whether the outcome carries a definitive identifying label.
func (o ResolutionOutcome) Found() bool {
	return o.Kind == OutcomeLocalMatch || o.Kind == OutcomeRemoteMatch
}

func LocalMatch(number values.CanonicalNumber, name string) ResolutionOutcome {
	return ResolutionOutcome{Kind: OutcomeLocalMatch, Number: number, Name: name}
}

func RemoteMatch(number values.CanonicalNumber, provider, label string) ResolutionOutcome {
	return ResolutionOutcome{Kind: OutcomeRemoteMatch, Number: number, Provider: provider, Name: label}
}

func HintOutcome(number values.CanonicalNumber, provider, hint string) ResolutionOutcome {
	return ResolutionOutcome{Kind: OutcomeHint, Number: number, Provider: provider, Hint: hint}
}

func NoIdentification(number values.CanonicalNumber, info values.NumberInfo) ResolutionOutcome {
	return ResolutionOutcome{Kind: OutcomeNoIdentification, Number: number, Info: info}
}

func ParseFailure(reason string) ResolutionOutcome {
	return ResolutionOutcome{Kind: OutcomeParseFailure, Reason: reason}
}
