package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/urbanthreads/storefront-api/internal/api/metrics"
	"github.com/urbanthreads/storefront-api/internal/api/middleware"
	"github.com/urbanthreads/storefront-api/internal/core/domain"
	"github.com/urbanthreads/storefront-api/internal/core/ports"
)

// LoginThrottle limits credential attempts per email. Redis-backed in
// production; stubbed in tests.
type LoginThrottle interface {
	Allow(ctx context.Context, email string) (bool, error)
	Reset(ctx context.Context, email string) error
}

// AuthHandler serves the back-office credential endpoints: admin login,
// token introspection and the one-time first-admin setup.
type AuthHandler struct {
	service  ports.AuthService
	admins   ports.IdentityRepository
	throttle LoginThrottle
	log      zerolog.Logger
}

func NewAuthHandler(service ports.AuthService, admins ports.IdentityRepository, throttle LoginThrottle, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{service: service, admins: admins, throttle: throttle, log: log}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	Token string           `json:"token,omitempty"`
	User  *domain.Identity `json:"user"`
}

type createAdminRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// Login authenticates an administrator and mints a session token.
//
// @Summary      Admin login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Admin credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      429   {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.checkThrottle(c.Request().Context(), req.Email); err != nil {
		return err
	}

	token, identity, err := h.service.Login(c.Request().Context(), req.Email, req.Password, "")
	if err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("rejected").Inc()
		return err
	}

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	if err := h.throttle.Reset(c.Request().Context(), req.Email); err != nil {
		h.log.Warn().Err(err).Msg("throttle reset failed")
	}
	return c.JSON(http.StatusOK, authResponse{Token: token, User: identity})
}

// Verify returns the identity behind a valid session token. The gate has
// already run by the time this handler executes.
//
// @Summary      Verify a session token
// @Tags         auth
// @Produce      json
// @Security     LocalToken
// @Success      200  {object}  authResponse
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /auth/verify [get]
func (h *AuthHandler) Verify(c echo.Context) error {
	principal, ok := middleware.Principal(c)
	if !ok {
		return domain.ErrUnauthenticated
	}
	return c.JSON(http.StatusOK, authResponse{User: principal.Identity})
}

// CreateFirstAdmin provisions the very first administrator. Once any
// admin record exists the route refuses, so it cannot be used to escalate
// after initial setup.
//
// @Summary      Create the first admin account
// @Tags         setup
// @Accept       json
// @Produce      json
// @Param        body  body      createAdminRequest  true  "Admin account details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /setup/create-admin [post]
func (h *AuthHandler) CreateFirstAdmin(c echo.Context) error {
	ctx := c.Request().Context()

	count, err := h.admins.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return domain.ErrForbidden
	}

	var req createAdminRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	identity, err := h.service.Provision(ctx, ports.ProvisionInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, domain.ErrExternalClaim) {
			metrics.ProvisionRollbacksTotal.Inc()
		}
		return err
	}
	return c.JSON(http.StatusCreated, authResponse{User: identity})
}

func (h *AuthHandler) checkThrottle(ctx context.Context, email string) error {
	allowed, err := h.throttle.Allow(ctx, email)
	if err != nil {
		// The throttle is advisory. Redis being down should not take
		// logins with it.
		h.log.Warn().Err(err).Msg("login throttle unavailable")
		return nil
	}
	if !allowed {
		metrics.LoginAttemptsTotal.WithLabelValues("throttled").Inc()
		return echo.NewHTTPError(http.StatusTooManyRequests, "too many login attempts")
	}
	return nil
}

// bearerToken pulls the token out of an Authorization: Bearer header,
// returning "" when the header is absent or uses another scheme.
func bearerToken(h http.Header) string {
	raw := h.Get(echo.HeaderAuthorization)
	parts := strings.SplitN(raw, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
