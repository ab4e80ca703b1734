package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/99minutos/address-verification/internal/core/domain"
	"github.com/99minutos/address-verification/internal/core/ports"
	"github.com/99minutos/address-verification/internal/pkg/metrics"
)

const (
	defaultAttemptsLimit = 20
	maxAttemptsLimit     = 100
)

// LocationService stores locations and runs verifications against them.
type LocationService struct {
	repo     ports.LocationRepository
	attempts ports.AttemptRepository
	verifier ports.AddressVerifier
	locker   ports.LocationLocker
	log      zerolog.Logger
	now      func() time.Time
}

var _ ports.LocationService = (*LocationService)(nil)

// NewLocationService wires the use cases. locker may be nil, in which case
// verifications are only serialized by the caller.
func NewLocationService(
	repo ports.LocationRepository,
	attempts ports.AttemptRepository,
	verifier ports.AddressVerifier,
	locker ports.LocationLocker,
	log zerolog.Logger,
) *LocationService {
	return &LocationService{
		repo:     repo,
		attempts: attempts,
		verifier: verifier,
		locker:   locker,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Create stores a new, unverified location.
func (s *LocationService) Create(ctx context.Context, in ports.CreateLocationInput) (*domain.Location, error) {
	now := s.now()
	loc := &domain.Location{
		ID:               uuid.NewString(),
		Street1:          strings.TrimSpace(in.Street1),
		Street2:          strings.TrimSpace(in.Street2),
		City:             strings.TrimSpace(in.City),
		State:            strings.TrimSpace(in.State),
		PostalCode:       strings.TrimSpace(in.PostalCode),
		Country:          strings.ToUpper(strings.TrimSpace(in.Country)),
		IsGeoPointLocked: in.IsGeoPointLocked,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.repo.Create(ctx, loc); err != nil {
		s.log.Error().Err(err).Msg("failed to create location")
		return nil, fmt.Errorf("create location: %w", err)
	}

	metrics.LocationsCreatedTotal.WithLabelValues(loc.Country).Inc()
	s.log.Info().Str("location_id", loc.ID).Str("country", loc.Country).Msg("location created")
	return loc, nil
}

func (s *LocationService) Get(ctx context.Context, id string) (*domain.Location, error) {
	loc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get location: %w", err)
	}
	return loc, nil
}

// Verify runs the verifier against a stored location and persists it on every
// path, so attempt stamps are saved even when no request was made.
func (s *LocationService) Verify(ctx context.Context, in ports.VerifyLocationInput) (*ports.VerificationResult, error) {
	start := time.Now()
	log := s.log.With().Str("location_id", in.LocationID).Str("source", in.Source).Logger()

	// 1. Serialize verifications of the same location.
	if s.locker != nil {
		token, ok, err := s.locker.Acquire(ctx, in.LocationID)
		switch {
		case err != nil:
			log.Warn().Err(err).Msg("location lock unavailable, verifying anyway")
		case !ok:
			metrics.VerificationsBusyTotal.Inc()
			return nil, fmt.Errorf("verify location %s: %w", in.LocationID, domain.ErrLocationBusy)
		default:
			defer func() {
				if err := s.locker.Release(context.WithoutCancel(ctx), in.LocationID, token); err != nil {
					log.Warn().Err(err).Msg("failed to release location lock")
				}
			}()
		}
	}

	// 2. Load.
	loc, err := s.repo.FindByID(ctx, in.LocationID)
	if err != nil {
		return nil, fmt.Errorf("verify location: %w", err)
	}

	// 3. Verify. The verifier mutates loc in place.
	verified, result, verr := s.verifier.Verify(ctx, loc, in.ReVerify)
	outcome := outcomeOf(verified, result, verr)

	// 4. Persist whatever the verifier left on the location.
	loc.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, loc); err != nil {
		metrics.VerificationsTotal.WithLabelValues(metrics.OutcomeError, in.Source).Inc()
		return nil, fmt.Errorf("verify location: persist: %w", err)
	}

	// 5. Audit trail (non-fatal on failure).
	attempt := &domain.VerificationAttempt{
		LocationID:  loc.ID,
		ServiceType: s.verifier.Name(),
		ReVerify:    in.ReVerify,
		Verified:    verified,
		Result:      result,
		Source:      in.Source,
		AttemptedAt: loc.UpdatedAt,
	}
	if verr != nil {
		attempt.Error = verr.Error()
	}
	if err := s.attempts.Insert(ctx, attempt); err != nil {
		log.Warn().Err(err).Msg("failed to insert verification attempt")
	}

	metrics.VerificationsTotal.WithLabelValues(outcome, in.Source).Inc()
	metrics.VerificationDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())

	if verr != nil {
		return nil, fmt.Errorf("verify location: %w", verr)
	}

	log.Info().
		Bool("verified", verified).
		Str("result", result).
		Str("outcome", outcome).
		Msg("location verification finished")

	return &ports.VerificationResult{Verified: verified, Result: result, Location: loc}, nil
}

// Attempts lists the most recent verification attempts of a location.
func (s *LocationService) Attempts(ctx context.Context, id string, limit int) ([]domain.VerificationAttempt, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}

	if limit <= 0 {
		limit = defaultAttemptsLimit
	}
	if limit > maxAttemptsLimit {
		limit = maxAttemptsLimit
	}

	out, err := s.attempts.ListByLocation(ctx, id, limit)
	if err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}
	return out, nil
}

func outcomeOf(verified bool, result string, err error) string {
	switch {
	case err != nil:
		return metrics.OutcomeError
	case verified:
		return metrics.OutcomeVerified
	case result == "":
		return metrics.OutcomeSkipped
	default:
		return metrics.OutcomeUnverified
	}
}
