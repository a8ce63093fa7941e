package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/urbanthreads/storefront-api/internal/api/metrics"
	"github.com/urbanthreads/storefront-api/internal/api/middleware"
	"github.com/urbanthreads/storefront-api/internal/core/domain"
	"github.com/urbanthreads/storefront-api/internal/core/ports"
)

// OrderHandler serves customer orders and the admin order workflow.
type OrderHandler struct {
	service ports.OrderService
}

func NewOrderHandler(service ports.OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

type orderItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

type placeOrderRequest struct {
	Items []orderItemRequest `json:"items" validate:"required,min=1,dive"`
}

type updateOrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending paid shipped delivered cancelled"`
}

// Place creates an order for the authenticated customer. Prices come from
// the catalog, never from the request body.
//
// @Summary      Place an order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      placeOrderRequest  true  "Order lines"
// @Success      201   {object}  domain.Order
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /orders [post]
func (h *OrderHandler) Place(c echo.Context) error {
	principal, ok := middleware.Principal(c)
	if !ok {
		return domain.ErrUnauthenticated
	}

	var req placeOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	items := make([]ports.OrderItemInput, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, ports.OrderItemInput{ProductID: it.ProductID, Quantity: it.Quantity})
	}

	order, err := h.service.PlaceOrder(c.Request().Context(), principal.Identity.ID, items)
	if err != nil {
		return err
	}

	metrics.OrdersPlacedTotal.Inc()
	return c.JSON(http.StatusCreated, order)
}

// List returns the caller's orders; admins see all orders.
//
// @Summary      List orders
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Order
// @Failure      401  {object}  map[string]string
// @Router       /orders [get]
func (h *OrderHandler) List(c echo.Context) error {
	principal, ok := middleware.Principal(c)
	if !ok {
		return domain.ErrUnauthenticated
	}

	orders, err := h.service.ListOrders(c.Request().Context(), principal)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orders)
}

// Get returns one order, enforcing ownership for customers.
//
// @Summary      Get an order
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Order id"
// @Success      200  {object}  domain.Order
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /orders/{id} [get]
func (h *OrderHandler) Get(c echo.Context) error {
	principal, ok := middleware.Principal(c)
	if !ok {
		return domain.ErrUnauthenticated
	}

	order, err := h.service.GetOrder(c.Request().Context(), c.Param("id"), principal)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, order)
}

// UpdateStatus moves an order through its lifecycle. Illegal transitions
// are rejected with 422.
//
// @Summary      Update order status
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     LocalToken
// @Param        id    path      string                    true  "Order id"
// @Param        body  body      updateOrderStatusRequest  true  "Target status"
// @Success      200   {object}  domain.Order
// @Failure      404   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /admin/orders/{id}/status [patch]
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	var req updateOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	order, err := h.service.UpdateStatus(c.Request().Context(), c.Param("id"), domain.OrderStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, order)
}
