package ports

import (
	"context"

	"github.com/99minutos/address-verification/internal/core/domain"
)

// LocationRepository defines persistence operations for locations.
type LocationRepository interface {
	Create(ctx context.Context, loc *domain.Location) error
	FindByID(ctx context.Context, id string) (*domain.Location, error)
	// Update replaces the stored document with loc.
	Update(ctx context.Context, loc *domain.Location) error
}

// AttemptRepository stores the verification audit trail.
type AttemptRepository interface {
	Insert(ctx context.Context, attempt *domain.VerificationAttempt) error
	ListByLocation(ctx context.Context, locationID string, limit int) ([]domain.VerificationAttempt, error)
}

// LocationLocker serializes verification of a single location across
// processes.
type LocationLocker interface {
	Acquire(ctx context.Context, locationID string) (token string, ok bool, err error)
	Release(ctx context.Context, locationID, token string) error
}
