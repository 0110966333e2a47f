package values

import (
	"github.com/nyaruka/phonenumbers"
)

// NumberInfo carries the free metadata that can be derived for a number
// without calling any external provider. Individual fields may be empty when
// the underlying dataset has no entry for the number; an empty field is never
// an error.
type NumberInfo struct {
	Normalized  string   `json:"normalized,omitempty"`
	IsValid     bool     `json:"is_valid"`
	IsPossible  bool     `json:"is_possible"`
	Region      string   `json:"region,omitempty"`
	Description string   `json:"description,omitempty"`
	Carrier     string   `json:"carrier,omitempty"`
	LineType    string   `json:"line_type,omitempty"`
	Timezones   []string `json:"timezones,omitempty"`
}

var lineTypeNames = map[phonenumbers.PhoneNumberType]string{
	phonenumbers.FIXED_LINE:           "FIXED_LINE",
	phonenumbers.MOBILE:               "MOBILE",
	phonenumbers.FIXED_LINE_OR_MOBILE: "FIXED_LINE_OR_MOBILE",
	phonenumbers.TOLL_FREE:            "TOLL_FREE",
	phonenumbers.PREMIUM_RATE:         "PREMIUM_RATE",
	phonenumbers.SHARED_COST:          "SHARED_COST",
	phonenumbers.VOIP:                 "VOIP",
	phonenumbers.PERSONAL_NUMBER:      "PERSONAL_NUMBER",
	phonenumbers.PAGER:                "PAGER",
	phonenumbers.UAN:                  "UAN",
	phonenumbers.VOICEMAIL:            "VOICEMAIL",
	phonenumbers.UNKNOWN:              "UNKNOWN",
}

// Describe returns metadata for a canonical number. Missing sub-data
// (geocoding, carrier, timezone) degrades to an absent field rather than
// failing the whole call.
func Describe(n CanonicalNumber) NumberInfo {
	var info NumberInfo
	if n.IsZero() {
		return info
	}
	info.Normalized = n.E164()

	// E.164 input parses without a region hint.
	parsed, err := phonenumbers.Parse(n.E164(), "")
	if err != nil {
		return info
	}

	info.IsValid = phonenumbers.IsValidNumber(parsed)
	info.IsPossible = phonenumbers.IsPossibleNumber(parsed)
	info.Region = phonenumbers.GetRegionCodeForNumber(parsed)

	if desc, err := phonenumbers.GetGeocodingForNumber(parsed, "en"); err == nil {
		info.Description = desc
	}
	if carrier, err := phonenumbers.GetCarrierForNumber(parsed, "en"); err == nil {
		info.Carrier = carrier
	}
	if name, ok := lineTypeNames[phonenumbers.GetNumberType(parsed)]; ok {
		info.LineType = name
	}
	if zones, err := phonenumbers.GetTimezonesForNumber(parsed); err == nil {
		info.Timezones = zones
	}

	return info
}
