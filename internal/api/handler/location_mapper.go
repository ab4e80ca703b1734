package handler

import (
	"github.com/99minutos/address-verification/internal/core/domain"
	"github.com/99minutos/address-verification/internal/core/ports"
)

// --- Request → Service input ---

func toCreateInput(req createLocationRequest) ports.CreateLocationInput {
	return ports.CreateLocationInput{
		Street1:          req.Street1,
		Street2:          req.Street2,
		City:             req.City,
		State:            req.State,
		PostalCode:       req.PostalCode,
		Country:          req.Country,
		IsGeoPointLocked: req.IsGeoPointLocked,
	}
}

// --- Service result → HTTP response ---

func toLocationResponse(l *domain.Location) locationResponse {
	resp := locationResponse{
		ID:               l.ID,
		Street1:          l.Street1,
		Street2:          l.Street2,
		City:             l.City,
		State:            l.State,
		PostalCode:       l.PostalCode,
		Country:          l.Country,
		IsGeoPointLocked: l.IsGeoPointLocked,
		Standardize: attemptStampResponse{
			ServiceType: l.StandardizeAttemptedServiceType,
			AttemptedAt: l.StandardizeAttemptedAt,
			Result:      l.StandardizeAttemptedResult,
			CompletedAt: l.StandardizedAt,
		},
		Geocode: attemptStampResponse{
			ServiceType: l.GeocodeAttemptedServiceType,
			AttemptedAt: l.GeocodeAttemptedAt,
			Result:      l.GeocodeAttemptedResult,
			CompletedAt: l.GeocodedAt,
		},
		CreatedAt: l.CreatedAt.UTC(),
		UpdatedAt: l.UpdatedAt.UTC(),
		Links: locationLinks{
			Self:     "/v1/locations/" + l.ID,
			Verify:   "/v1/locations/" + l.ID + "/verify",
			Attempts: "/v1/locations/" + l.ID + "/attempts",
		},
	}
	if l.GeoPoint != nil {
		resp.GeoPoint = &coordinatesResponse{Lat: l.GeoPoint.Lat, Lng: l.GeoPoint.Lng}
	}
	return resp
}

func toAttemptResponses(attempts []domain.VerificationAttempt) []attemptResponse {
	out := make([]attemptResponse, 0, len(attempts))
	for _, a := range attempts {
		out = append(out, attemptResponse{
			ServiceType: a.ServiceType,
			ReVerify:    a.ReVerify,
			Verified:    a.Verified,
			Result:      a.Result,
			Error:       a.Error,
			Source:      a.Source,
			AttemptedAt: a.AttemptedAt.UTC(),
		})
	}
	return out
}
