package domain

import (
	"errors"
	"time"
)

var ErrLocationNotFound = errors.New("location not found")
var ErrLocationBusy = errors.New("location verification already in progress")
var ErrLookupFailed = errors.New("address lookup failed")

// Coordinates represents a geographic point.
type Coordinates struct {
	Lat float64 `json:"lat" bson:"lat"`
	Lng float64 `json:"lng" bson:"lng"`
}

// Location is a postal address record owned by the host store. Verifiers
// mutate it in place; they never create or delete one.
type Location struct {
	ID         string `json:"id" bson:"_id"`
	Street1    string `json:"street1" bson:"street1"`
	Street2    string `json:"street2" bson:"street2"`
	City       string `json:"city" bson:"city"`
	State      string `json:"state" bson:"state"`
	PostalCode string `json:"postal_code" bson:"postal_code"`
	Country    string `json:"country" bson:"country"`

	GeoPoint         *Coordinates `json:"geo_point,omitempty" bson:"geo_point,omitempty"`
	IsGeoPointLocked bool         `json:"is_geo_point_locked" bson:"is_geo_point_locked"`

	StandardizeAttemptedServiceType string     `json:"standardize_attempted_service_type,omitempty" bson:"standardize_attempted_service_type,omitempty"`
	StandardizeAttemptedAt          *time.Time `json:"standardize_attempted_at,omitempty" bson:"standardize_attempted_at,omitempty"`
	StandardizeAttemptedResult      string     `json:"standardize_attempted_result,omitempty" bson:"standardize_attempted_result,omitempty"`
	StandardizedAt                  *time.Time `json:"standardized_at,omitempty" bson:"standardized_at,omitempty"`

	GeocodeAttemptedServiceType string     `json:"geocode_attempted_service_type,omitempty" bson:"geocode_attempted_service_type,omitempty"`
	GeocodeAttemptedAt          *time.Time `json:"geocode_attempted_at,omitempty" bson:"geocode_attempted_at,omitempty"`
	GeocodeAttemptedResult      string     `json:"geocode_attempted_result,omitempty" bson:"geocode_attempted_result,omitempty"`
	GeocodedAt                  *time.Time `json:"geocoded_at,omitempty" bson:"geocoded_at,omitempty"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// LookupResult is a provider match normalized to the shape of a Location.
// Lines holds the primary line and, when the provider supplies one, the
// secondary line. Geo is only set by geocoding endpoints.
type LookupResult struct {
	Lines      []string
	Town       string
	Region     string
	PostalCode string
	UDPRN      string
	Geo        *Coordinates
}

// VerificationAttempt is the audit entry written for every verification the
// host runs.
type VerificationAttempt struct {
	LocationID  string    `json:"location_id" bson:"location_id"`
	ServiceType string    `json:"service_type" bson:"service_type"`
	ReVerify    bool      `json:"re_verify" bson:"re_verify"`
	Verified    bool      `json:"verified" bson:"verified"`
	Result      string    `json:"result,omitempty" bson:"result,omitempty"`
	Error       string    `json:"error,omitempty" bson:"error,omitempty"`
	Source      string    `json:"source" bson:"source"`
	AttemptedAt time.Time `json:"attempted_at" bson:"attempted_at"`
}
