package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/petbnb/marketplace/internal/api/metrics"
	"github.com/petbnb/marketplace/internal/core/ports"
)

// BookingHandler handles HTTP requests for booking operations.
type BookingHandler struct {
	service ports.BookingService
}

func NewBookingHandler(service ports.BookingService) *BookingHandler {
	return &BookingHandler{service: service}
}

// Create handles POST /api/bookings.
//
// @Summary      Request a booking
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string                false  "Replays the first response for repeated submissions"
// @Param        body             body      createBookingRequest  true   "Booking request"
// @Success      201              {object}  bookingResponse
// @Failure      400              {object}  errorResponse
// @Failure      403              {object}  errorResponse
// @Failure      404              {object}  errorResponse
// @Failure      409              {object}  errorResponse
// @Router       /api/bookings [post]
func (h *BookingHandler) Create(c echo.Context) error {
	caller, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	var req createBookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	v, err := h.service.Create(c.Request().Context(), caller, toBookingInput(req))
	if err != nil {
		return err
	}

	metrics.BookingsCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, toBookingResponse(v))
}

// ListForOwner handles GET /api/bookings/owner.
//
// @Summary      Bookings requested by the caller
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   bookingResponse
// @Failure      403  {object}  errorResponse
// @Router       /api/bookings/owner [get]
func (h *BookingHandler) ListForOwner(c echo.Context) error {
	caller, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	vs, err := h.service.ListForOwner(c.Request().Context(), caller)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toBookingResponses(vs))
}

// ListForSitter handles GET /api/bookings/sitter.
//
// @Summary      Bookings on the caller's listings
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   bookingResponse
// @Failure      403  {object}  errorResponse
// @Router       /api/bookings/sitter [get]
func (h *BookingHandler) ListForSitter(c echo.Context) error {
	caller, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	vs, err := h.service.ListForSitter(c.Request().Context(), caller)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toBookingResponses(vs))
}

// UpdateStatus handles PUT /api/bookings/:id.
//
// @Summary      Approve or reject a booking
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Booking id"
// @Param        body  body      updateBookingRequest  true  "New status"
// @Success      200   {object}  bookingResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/bookings/{id} [put]
func (h *BookingHandler) UpdateStatus(c echo.Context) error {
	caller, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	var req updateBookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	v, err := h.service.UpdateStatus(c.Request().Context(), caller, c.Param("id"), req.Status)
	if err != nil {
		return err
	}

	metrics.BookingStatusUpdatesTotal.WithLabelValues(string(v.Booking.Status)).Inc()
	return c.JSON(http.StatusOK, toBookingResponse(v))
}
