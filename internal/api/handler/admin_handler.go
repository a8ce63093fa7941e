package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/urbanthreads/storefront-api/internal/core/ports"
)

// AdminHandler serves the back-office user management and dashboard
// endpoints. All routes sit behind the local-token gate with the admin
// role required.
type AdminHandler struct {
	users ports.IdentityRepository
	stats ports.StatsRepository
}

func NewAdminHandler(users ports.IdentityRepository, stats ports.StatsRepository) *AdminHandler {
	return &AdminHandler{users: users, stats: stats}
}

type setActiveRequest struct {
	Active *bool `json:"active" validate:"required"`
}

// ListUsers returns every customer record.
//
// @Summary      List customers
// @Tags         admin
// @Produce      json
// @Security     LocalToken
// @Success      200  {array}   domain.Identity
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /admin/users [get]
func (h *AdminHandler) ListUsers(c echo.Context) error {
	users, err := h.users.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

// SetUserActive activates or deactivates a customer account. Deactivated
// accounts fail the gate with 403 on their next request.
//
// @Summary      Activate or deactivate a customer
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     LocalToken
// @Param        id    path      string            true  "Customer id"
// @Param        body  body      setActiveRequest  true  "Target state"
// @Success      204   "updated"
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /admin/users/{id}/active [patch]
func (h *AdminHandler) SetUserActive(c echo.Context) error {
	var req setActiveRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.users.SetActive(c.Request().Context(), c.Param("id"), *req.Active); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Statistics returns the dashboard summary counters.
//
// @Summary      Store statistics
// @Tags         admin
// @Produce      json
// @Security     LocalToken
// @Success      200  {object}  domain.StoreStats
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /admin/statistics [get]
func (h *AdminHandler) Statistics(c echo.Context) error {
	stats, err := h.stats.Collect(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}
