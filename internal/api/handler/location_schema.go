package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request types ---

type createLocationRequest struct {
	Street1          string `json:"street1"             validate:"max=200"`
	Street2          string `json:"street2"             validate:"max=200"`
	City             string `json:"city"                validate:"max=100"`
	State            string `json:"state"               validate:"max=100"`
	PostalCode       string `json:"postal_code"         validate:"max=20"`
	Country          string `json:"country"             validate:"required,len=2,alpha"`
	IsGeoPointLocked bool   `json:"is_geo_point_locked"`
}

type verifyLocationRequest struct {
	ReVerify bool `json:"re_verify"`
}

// --- Response types ---
// Owned by the transport layer so the JSON contract does not follow domain changes.

type coordinatesResponse struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type attemptStampResponse struct {
	ServiceType string     `json:"service_type,omitempty"`
	AttemptedAt *time.Time `json:"attempted_at,omitempty"`
	Result      string     `json:"result,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

type locationLinks struct {
	Self     string `json:"self"`
	Verify   string `json:"verify"`
	Attempts string `json:"attempts"`
}

type locationResponse struct {
	ID               string               `json:"id"`
	Street1          string               `json:"street1"`
	Street2          string               `json:"street2"`
	City             string               `json:"city"`
	State            string               `json:"state"`
	PostalCode       string               `json:"postal_code"`
	Country          string               `json:"country"`
	GeoPoint         *coordinatesResponse `json:"geo_point,omitempty"`
	IsGeoPointLocked bool                 `json:"is_geo_point_locked"`
	Standardize      attemptStampResponse `json:"standardize"`
	Geocode          attemptStampResponse `json:"geocode"`
	CreatedAt        time.Time            `json:"created_at"`
	UpdatedAt        time.Time            `json:"updated_at"`
	Links            locationLinks        `json:"_links"`
}

type createLocationResponse struct {
	Location locationResponse `json:"location"`
	// Verification is "queued" when an automatic verification was enqueued.
	Verification string `json:"verification,omitempty"`
}

type verifyLocationResponse struct {
	Verified bool             `json:"verified"`
	Result   string           `json:"result"`
	Location locationResponse `json:"location"`
}

type attemptResponse struct {
	ServiceType string    `json:"service_type"`
	ReVerify    bool      `json:"re_verify"`
	Verified    bool      `json:"verified"`
	Result      string    `json:"result,omitempty"`
	Error       string    `json:"error,omitempty"`
	Source      string    `json:"source"`
	AttemptedAt time.Time `json:"attempted_at"`
}

type listAttemptsResponse struct {
	Data []attemptResponse `json:"data"`
}
