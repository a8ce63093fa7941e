package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/urbanthreads/storefront-api/internal/api/middleware"
	"github.com/urbanthreads/storefront-api/internal/core/domain"
	"github.com/urbanthreads/storefront-api/internal/core/ports"
)

// ReviewHandler serves product reviews. Listing is public; writing
// requires the bearer gate and deletion is owner-or-admin.
type ReviewHandler struct {
	service ports.ReviewService
}

func NewReviewHandler(service ports.ReviewService) *ReviewHandler {
	return &ReviewHandler{service: service}
}

type createReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

// ListByProduct returns a product's reviews, newest first.
//
// @Summary      List product reviews
// @Tags         reviews
// @Produce      json
// @Param        id   path     string  true  "Product id"
// @Success      200  {array}  domain.Review
// @Router       /products/{id}/reviews [get]
func (h *ReviewHandler) ListByProduct(c echo.Context) error {
	reviews, err := h.service.ListByProduct(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, reviews)
}

// Create posts a review on a product as the authenticated customer.
//
// @Summary      Create a review
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "Product id"
// @Param        body  body      createReviewRequest  true  "Review content"
// @Success      201   {object}  domain.Review
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /products/{id}/reviews [post]
func (h *ReviewHandler) Create(c echo.Context) error {
	principal, ok := middleware.Principal(c)
	if !ok {
		return domain.ErrUnauthenticated
	}

	var req createReviewRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	review, err := h.service.Create(c.Request().Context(), c.Param("id"), principal, req.Rating, req.Comment)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, review)
}

// Delete removes a review. The service allows the review owner or an
// admin; anyone else gets 403.
//
// @Summary      Delete a review
// @Tags         reviews
// @Security     BearerAuth
// @Param        id  path  string  true  "Review id"
// @Success      204  "deleted"
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /reviews/{id} [delete]
func (h *ReviewHandler) Delete(c echo.Context) error {
	principal, ok := middleware.Principal(c)
	if !ok {
		return domain.ErrUnauthenticated
	}

	if err := h.service.Delete(c.Request().Context(), c.Param("id"), principal); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
