package ports

import (
	"context"

	"github.com/99minutos/address-verification/internal/core/domain"
)

// CreateLocationInput carries the address fields of a new location.
type CreateLocationInput struct {
	Street1          string
	Street2          string
	City             string
	State            string
	PostalCode       string
	Country          string
	IsGeoPointLocked bool
}

// VerifyLocationInput asks for one verification of a stored location.
type VerifyLocationInput struct {
	LocationID string
	ReVerify   bool
	// Source identifies the trigger, e.g. "api" or "auto".
	Source string
}

// VerificationResult is returned after a verification has been persisted.
type VerificationResult struct {
	Verified bool
	Result   string
	Location *domain.Location
}

// LocationService defines use-case operations for locations.
type LocationService interface {
	Create(ctx context.Context, input CreateLocationInput) (*domain.Location, error)
	Get(ctx context.Context, id string) (*domain.Location, error)
	Verify(ctx context.Context, input VerifyLocationInput) (*VerificationResult, error)
	Attempts(ctx context.Context, id string, limit int) ([]domain.VerificationAttempt, error)
}
