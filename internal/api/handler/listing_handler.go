package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/petbnb/marketplace/internal/api/metrics"
	"github.com/petbnb/marketplace/internal/core/ports"
)

// ListingHandler handles HTTP requests for listing operations.
type ListingHandler struct {
	service ports.ListingService
}

func NewListingHandler(service ports.ListingService) *ListingHandler {
	return &ListingHandler{service: service}
}

// Create handles POST /api/listings.
//
// @Summary      Create a listing
// @Tags         listings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string          false  "Replays the first response for repeated submissions"
// @Param        body             body      listingRequest  true   "Listing details"
// @Success      201              {object}  listingResponse
// @Failure      400              {object}  errorResponse
// @Failure      401              {object}  errorResponse
// @Failure      403              {object}  errorResponse
// @Router       /api/listings [post]
func (h *ListingHandler) Create(c echo.Context) error {
	caller, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	var req listingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	v, err := h.service.Create(c.Request().Context(), caller, toListingInput(req))
	if err != nil {
		return err
	}

	metrics.ListingsCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, toListingResponse(v))
}

// List handles GET /api/listings.
//
// @Summary      List all listings
// @Tags         listings
// @Produce      json
// @Success      200  {array}  listingResponse
// @Router       /api/listings [get]
func (h *ListingHandler) List(c echo.Context) error {
	vs, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListingResponses(vs))
}

// ListMine handles GET /api/listings/me.
//
// @Summary      List the caller's listings
// @Tags         listings
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   listingResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /api/listings/me [get]
func (h *ListingHandler) ListMine(c echo.Context) error {
	caller, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	vs, err := h.service.ListMine(c.Request().Context(), caller)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListingResponses(vs))
}

// Get handles GET /api/listings/:id.
//
// @Summary      Get a listing
// @Tags         listings
// @Produce      json
// @Param        id   path      string  true  "Listing id"
// @Success      200  {object}  listingResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/listings/{id} [get]
func (h *ListingHandler) Get(c echo.Context) error {
	v, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListingResponse(v))
}

// Update handles PUT /api/listings/:id. Omitted or blank fields keep their
// current value.
//
// @Summary      Update a listing
// @Tags         listings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true  "Listing id"
// @Param        body  body      listingRequest  true  "Fields to change"
// @Success      200   {object}  listingResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/listings/{id} [put]
func (h *ListingHandler) Update(c echo.Context) error {
	caller, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	var req listingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	v, err := h.service.Update(c.Request().Context(), caller, c.Param("id"), toListingInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListingResponse(v))
}

// Delete handles DELETE /api/listings/:id. Bookings on the listing are
// removed with it.
//
// @Summary      Delete a listing
// @Tags         listings
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Listing id"
// @Success      200  {object}  messageResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/listings/{id} [delete]
func (h *ListingHandler) Delete(c echo.Context) error {
	caller, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), caller, c.Param("id")); err != nil {
		return err
	}

	metrics.ListingsDeletedTotal.Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: "Listing deleted"})
}
