package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/99minutos/address-verification/internal/core/ports"
)

// VerificationQueue accepts verifications to run in the background. Enqueue
// reports false when the queue is full and the request was dropped.
type VerificationQueue interface {
	Enqueue(in ports.VerifyLocationInput) bool
}

// LocationHandler handles HTTP requests for location operations.
type LocationHandler struct {
	service ports.LocationService
	queue   VerificationQueue
	log     zerolog.Logger
}

// NewLocationHandler creates a LocationHandler. queue may be nil to disable
// automatic verification on create.
func NewLocationHandler(service ports.LocationService, queue VerificationQueue, log zerolog.Logger) *LocationHandler {
	return &LocationHandler{service: service, queue: queue, log: log}
}

// Create handles POST /v1/locations.
//
// @Summary      Create a location
// @Description  Stores the address and, when enabled, queues an automatic verification.
// @Tags         locations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createLocationRequest  true  "Location address"
// @Success      201   {object}  createLocationResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/locations [post]
func (h *LocationHandler) Create(c echo.Context) error {
	var req createLocationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	loc, err := h.service.Create(c.Request().Context(), toCreateInput(req))
	if err != nil {
		return err
	}

	resp := createLocationResponse{Location: toLocationResponse(loc)}
	if h.queue != nil {
		if h.queue.Enqueue(ports.VerifyLocationInput{LocationID: loc.ID, Source: SourceAuto}) {
			resp.Verification = "queued"
		} else {
			h.log.Warn().Str("location_id", loc.ID).Msg("verification queue full, automatic verification skipped")
		}
	}

	return c.JSON(http.StatusCreated, resp)
}

// Get handles GET /v1/locations/:id.
//
// @Summary      Get a location
// @Tags         locations
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Location ID"
// @Success      200  {object}  locationResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/locations/{id} [get]
func (h *LocationHandler) Get(c echo.Context) error {
	loc, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toLocationResponse(loc))
}

// Verify handles POST /v1/locations/:id/verify. The body is optional.
//
// @Summary      Verify a location now
// @Description  Standardizes and geocodes the location synchronously. Ineligible locations return verified=false with an empty result.
// @Tags         locations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                 true   "Location ID"
// @Param        body  body      verifyLocationRequest  false  "Verification options"
// @Success      200   {object}  verifyLocationResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      502   {object}  errorResponse
// @Router       /v1/locations/{id}/verify [post]
func (h *LocationHandler) Verify(c echo.Context) error {
	username, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req verifyLocationRequest
	if c.Request().ContentLength != 0 {
		if err := c.Bind(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
		}
	}

	source := SourceAPI
	if username != "" {
		source += ":" + username
	}

	res, err := h.service.Verify(c.Request().Context(), ports.VerifyLocationInput{
		LocationID: c.Param("id"),
		ReVerify:   req.ReVerify,
		Source:     source,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, verifyLocationResponse{
		Verified: res.Verified,
		Result:   res.Result,
		Location: toLocationResponse(res.Location),
	})
}

// Attempts handles GET /v1/locations/:id/attempts.
//
// @Summary      List verification attempts
// @Tags         locations
// @Produce      json
// @Security     BearerAuth
// @Param        id     path      string  true   "Location ID"
// @Param        limit  query     int     false  "Maximum attempts to return (default 20, max 100)"
// @Success      200    {object}  listAttemptsResponse
// @Failure      400    {object}  errorResponse
// @Failure      401    {object}  errorResponse
// @Failure      404    {object}  errorResponse
// @Router       /v1/locations/{id}/attempts [get]
func (h *LocationHandler) Attempts(c echo.Context) error {
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be a positive integer")
		}
		limit = n
	}

	attempts, err := h.service.Attempts(c.Request().Context(), c.Param("id"), limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listAttemptsResponse{Data: toAttemptResponses(attempts)})
}

// Verification trigger sources recorded on audit attempts.
const (
	SourceAPI  = "api"
	SourceAuto = "auto"
)
