// Package verifier standardizes and geocodes locations against an address
// lookup provider.
//
// A Verifier makes at most one outbound request per call and always stamps
// the location's attempt fields, whether or not a request was made.
package verifier

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/address-verification/internal/core/domain"
	"github.com/99minutos/address-verification/internal/core/ports"
)

// ServiceType is stamped onto every location this verifier attempts.
const ServiceType = "PostcoderWeb"

// ResultNoMatch is the result message when the provider found nothing.
const ResultNoMatch = "No match."

// Options configures a Verifier.
type Options struct {
	// CountryCodes restricts verification to these ISO country codes.
	// DefaultCountryCodes is used when empty.
	CountryCodes []string
	// Identifier is forwarded to the provider; see Identifier.
	Identifier string
	// Now overrides the clock. Defaults to time.Now in UTC.
	Now func() time.Time
}

// Verifier implements ports.AddressVerifier.
type Verifier struct {
	lookup     ports.AddressLookup
	countries  map[string]struct{}
	identifier string
	now        func() time.Time
	log        zerolog.Logger
}

var _ ports.AddressVerifier = (*Verifier)(nil)

// New returns a Verifier that sends eligible locations to lookup.
func New(lookup ports.AddressLookup, opts Options, log zerolog.Logger) *Verifier {
	codes := opts.CountryCodes
	if len(codes) == 0 {
		codes = DefaultCountryCodes
	}
	countries := make(map[string]struct{}, len(codes))
	for _, c := range codes {
		countries[normalizeCountry(c)] = struct{}{}
	}

	now := opts.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}

	return &Verifier{
		lookup:     lookup,
		countries:  countries,
		identifier: opts.Identifier,
		now:        now,
		log:        log.With().Str("verifier", ServiceType).Logger(),
	}
}

// Name returns ServiceType.
func (v *Verifier) Name() string { return ServiceType }

// Verify standardizes loc in place. Ineligible locations return
// (false, "", nil) without a request. A non-200 reply yields the HTTP status
// text as result; transport and decode failures are also returned as an error
// wrapping domain.ErrLookupFailed.
func (v *Verifier) Verify(ctx context.Context, loc *domain.Location, reVerify bool) (verified bool, result string, err error) {
	defer func() { v.stampAttempt(loc, result) }()

	if !v.Eligible(loc, reVerify) {
		return false, "", nil
	}

	req := buildRequest(loc, v.identifier)
	log := v.log.With().
		Str("location_id", loc.ID).
		Str("method", req.Method).
		Str("country", req.Country).
		Logger()

	resp, err := v.lookup.Lookup(ctx, req)
	if err != nil {
		log.Warn().Err(err).Msg("address lookup failed")
		return false, err.Error(), fmt.Errorf("%w: %w", domain.ErrLookupFailed, err)
	}

	if resp.StatusCode != http.StatusOK {
		log.Warn().Int("status_code", resp.StatusCode).Msg("address lookup rejected")
		return false, resp.Status, nil
	}

	if len(resp.Matches) == 0 {
		log.Info().Msg("address lookup returned no match")
		return false, ResultNoMatch, nil
	}

	match := resp.Matches[0]
	v.apply(loc, match)

	log.Info().Str("udprn", match.UDPRN).Bool("geocoded", match.Geo != nil).Msg("location verified")
	return true, "UDPRN: " + match.UDPRN, nil
}

// apply copies the provider's first match onto loc.
func (v *Verifier) apply(loc *domain.Location, match domain.LookupResult) {
	now := v.now()

	if len(match.Lines) > 0 {
		loc.Street1 = match.Lines[0]
	}
	if len(match.Lines) > 1 {
		loc.Street2 = match.Lines[1]
	}
	loc.City = match.Town
	loc.State = match.Region
	loc.PostalCode = match.PostalCode
	loc.StandardizedAt = &now

	if match.Geo != nil {
		loc.GeoPoint = &domain.Coordinates{Lat: match.Geo.Lat, Lng: match.Geo.Lng}
		loc.GeocodedAt = &now
	}
}

// stampAttempt records that this service attempted loc, on every exit path.
func (v *Verifier) stampAttempt(loc *domain.Location, result string) {
	if loc == nil {
		return
	}
	now := v.now()

	loc.StandardizeAttemptedServiceType = ServiceType
	loc.StandardizeAttemptedAt = &now
	loc.StandardizeAttemptedResult = result

	loc.GeocodeAttemptedServiceType = ServiceType
	loc.GeocodeAttemptedAt = &now
	loc.GeocodeAttemptedResult = result
}
