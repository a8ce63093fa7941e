package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/urbanthreads/storefront-api/internal/core/ports"
)

// OfferHandler serves promotional offers. Customers only ever see the
// live ones; the admin routes manage the full set.
type OfferHandler struct {
	service ports.OfferService
}

func NewOfferHandler(service ports.OfferService) *OfferHandler {
	return &OfferHandler{service: service}
}

type offerRequest struct {
	Title       string    `json:"title" validate:"required"`
	Description string    `json:"description"`
	DiscountPct float64   `json:"discount_pct" validate:"required,gt=0,max=100"`
	ProductIDs  []string  `json:"product_ids" validate:"required,min=1"`
	StartsAt    time.Time `json:"starts_at" validate:"required"`
	EndsAt      time.Time `json:"ends_at" validate:"required"`
	Active      bool      `json:"active"`
}

func (r offerRequest) input() ports.OfferInput {
	return ports.OfferInput{
		Title:       r.Title,
		Description: r.Description,
		DiscountPct: r.DiscountPct,
		ProductIDs:  r.ProductIDs,
		StartsAt:    r.StartsAt,
		EndsAt:      r.EndsAt,
		Active:      r.Active,
	}
}

// ListLive returns the offers currently running.
//
// @Summary      List live offers
// @Tags         offers
// @Produce      json
// @Success      200  {array}  domain.Offer
// @Router       /offers [get]
func (h *OfferHandler) ListLive(c echo.Context) error {
	offers, err := h.service.ListLive(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, offers)
}

// ListAll returns every offer, live or not.
//
// @Summary      List all offers
// @Tags         admin
// @Produce      json
// @Security     LocalToken
// @Success      200  {array}   domain.Offer
// @Failure      403  {object}  map[string]string
// @Router       /admin/offers [get]
func (h *OfferHandler) ListAll(c echo.Context) error {
	offers, err := h.service.ListAll(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, offers)
}

// Get returns one offer by id.
//
// @Summary      Get an offer
// @Tags         admin
// @Produce      json
// @Security     LocalToken
// @Param        id   path      string  true  "Offer id"
// @Success      200  {object}  domain.Offer
// @Failure      404  {object}  map[string]string
// @Router       /admin/offers/{id} [get]
func (h *OfferHandler) Get(c echo.Context) error {
	offer, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, offer)
}

// Create adds an offer.
//
// @Summary      Create an offer
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     LocalToken
// @Param        body  body      offerRequest  true  "Offer details"
// @Success      201   {object}  domain.Offer
// @Failure      400   {object}  map[string]string
// @Router       /admin/offers [post]
func (h *OfferHandler) Create(c echo.Context) error {
	var req offerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	offer, err := h.service.Create(c.Request().Context(), req.input())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, offer)
}

// Update replaces an offer's fields.
//
// @Summary      Update an offer
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     LocalToken
// @Param        id    path      string        true  "Offer id"
// @Param        body  body      offerRequest  true  "Offer details"
// @Success      200   {object}  domain.Offer
// @Failure      404   {object}  map[string]string
// @Router       /admin/offers/{id} [put]
func (h *OfferHandler) Update(c echo.Context) error {
	var req offerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	offer, err := h.service.Update(c.Request().Context(), c.Param("id"), req.input())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, offer)
}

// Delete removes an offer.
//
// @Summary      Delete an offer
// @Tags         admin
// @Security     LocalToken
// @Param        id  path  string  true  "Offer id"
// @Success      204  "deleted"
// @Failure      404  {object}  map[string]string
// @Router       /admin/offers/{id} [delete]
func (h *OfferHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
