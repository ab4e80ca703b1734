package verifier

import (
	"strings"

	"github.com/99minutos/address-verification/internal/core/domain"
	"github.com/99minutos/address-verification/internal/core/ports"
)

const countryGB = "GB"

// buildQuery joins the non-empty address parts with single spaces.
func buildQuery(loc *domain.Location) string {
	parts := []string{loc.Street1, loc.Street2, loc.City, loc.State, loc.PostalCode}
	kept := parts[:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}

// buildRequest selects the endpoint variant for the location's country.
// GB goes to the two-line geocoding endpoint, which the provider addresses
// as "UK"; everything else uses the four-line address endpoint.
func buildRequest(loc *domain.Location, identifier string) ports.LookupRequest {
	req := ports.LookupRequest{
		Address:    buildQuery(loc),
		Identifier: identifier,
	}

	country := normalizeCountry(loc.Country)
	if country == countryGB {
		req.Method = ports.LookupMethodAddressGeo
		req.Country = "UK"
		req.Lines = 2
	} else {
		req.Method = ports.LookupMethodAddress
		req.Country = country
		req.Lines = 4
	}
	return req
}

// Identifier formats the caller identifier sent for provider usage analytics.
// It returns "" when no application name is known.
func Identifier(app, version, datastore string) string {
	if app == "" {
		return ""
	}
	id := app
	if version != "" {
		id += ":" + version
	}
	if datastore != "" {
		id += " DB:" + datastore
	}
	return id
}
