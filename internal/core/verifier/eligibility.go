package verifier

import (
	"strings"
	"time"

	"github.com/99minutos/address-verification/internal/core/domain"
)

// retryWindow is how long after a geocode attempt the location stays eligible
// without reVerify. It covers a previous service that failed moments ago.
const retryWindow = 30 * time.Second

// DefaultCountryCodes is used when no allowed countries are configured.
var DefaultCountryCodes = []string{"GB", "US"}

// ParseCountryCodes splits a comma separated list into upper-cased codes,
// dropping blanks.
func ParseCountryCodes(s string) []string {
	var codes []string
	for _, part := range strings.Split(s, ",") {
		code := normalizeCountry(part)
		if code != "" {
			codes = append(codes, code)
		}
	}
	return codes
}

func normalizeCountry(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// Eligible reports whether loc should be sent to the provider.
//
// The location must exist, be unlocked, be in an allowed country, have at
// least one empty street line, and either never have been geocoded, have been
// attempted within retryWindow, or be explicitly re-verified.
func (v *Verifier) Eligible(loc *domain.Location, reVerify bool) bool {
	if loc == nil || loc.IsGeoPointLocked {
		return false
	}
	if _, ok := v.countries[normalizeCountry(loc.Country)]; !ok {
		return false
	}

	recent := loc.GeocodeAttemptedAt == nil ||
		loc.GeocodeAttemptedAt.After(v.now().Add(-retryWindow)) ||
		reVerify
	if !recent {
		return false
	}

	return strings.TrimSpace(loc.Street1) == "" || strings.TrimSpace(loc.Street2) == ""
}
