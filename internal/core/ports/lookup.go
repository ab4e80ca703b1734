package ports

import (
	"context"

	"github.com/99minutos/address-verification/internal/core/domain"
)

// Lookup endpoint variants understood by address lookup providers.
const (
	LookupMethodAddressGeo = "addressgeo"
	LookupMethodAddress    = "address"
)

// LookupRequest is a single free-text address query.
type LookupRequest struct {
	Method  string
	Country string
	Address string
	Lines   int
	// Identifier is optional usage-analytics metadata for the provider.
	Identifier string
}

// LookupResponse carries the provider's HTTP outcome. Matches is only
// populated when StatusCode is 200.
type LookupResponse struct {
	StatusCode int
	Status     string
	Matches    []domain.LookupResult
}

// AddressLookup performs one outbound request against an address provider.
// A non-200 reply is not an error; transport and decode failures are.
type AddressLookup interface {
	Lookup(ctx context.Context, req LookupRequest) (*LookupResponse, error)
}
