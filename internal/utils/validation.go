package utils

import (
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxNameLength bounds stop and bus names accepted from HTTP callers.
const MaxNameLength = 200

// ValidateName validates a stop or bus name supplied by a client for lookup.
// Names are matched exactly against the catalogue and any printable text is a
// legal name, so only empty, overlong, malformed and control-character input
// is rejected. The name is never rewritten.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("name cannot be empty")
	}

	if !utf8.ValidString(name) {
		return errors.New("name is not valid UTF-8")
	}

	if utf8.RuneCountInString(name) > MaxNameLength {
		return errors.New("name too long (max 200 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return errors.New("name contains control characters")
		}
	}

	return nil
}

// ValidateLatitude validates latitude values
func ValidateLatitude(lat float64) error {
	if lat < -90.0 || lat > 90.0 {
		return errors.New("latitude must be between -90 and 90")
	}
	return nil
}

// ValidateLongitude validates longitude values
func ValidateLongitude(lon float64) error {
	if lon < -180.0 || lon > 180.0 {
		return errors.New("longitude must be between -180 and 180")
	}
	return nil
}

// ValidateRouteParams validates the endpoints of an itinerary query and
// returns field errors keyed by parameter name.
func ValidateRouteParams(from, to string) map[string][]string {
	fieldErrors := make(map[string][]string)

	if err := ValidateName(from); err != nil {
		fieldErrors["from"] = append(fieldErrors["from"], err.Error())
	}

	if err := ValidateName(to); err != nil {
		fieldErrors["to"] = append(fieldErrors["to"], err.Error())
	}

	return fieldErrors
}
