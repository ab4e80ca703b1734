package ports

import (
	"context"

	"github.com/99minutos/address-verification/internal/core/domain"
)

// AddressVerifier standardizes and geocodes a location in place.
type AddressVerifier interface {
	// Name is the service type stamped onto attempted locations.
	Name() string
	Verify(ctx context.Context, loc *domain.Location, reVerify bool) (verified bool, result string, err error)
}
