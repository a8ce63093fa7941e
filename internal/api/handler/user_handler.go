package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/urbanthreads/storefront-api/internal/api/metrics"
	"github.com/urbanthreads/storefront-api/internal/api/middleware"
	"github.com/urbanthreads/storefront-api/internal/core/domain"
	"github.com/urbanthreads/storefront-api/internal/core/ports"
)

// UserHandler serves the customer-facing account endpoints. Registration
// and login accept an optional identity-provider bearer token; when
// present, the account is bound to (or checked against) that subject.
type UserHandler struct {
	service  ports.AuthService
	users    ports.IdentityRepository
	verifier ports.IdentityVerifier
	throttle LoginThrottle
	log      zerolog.Logger
}

func NewUserHandler(service ports.AuthService, users ports.IdentityRepository, verifier ports.IdentityVerifier, throttle LoginThrottle, log zerolog.Logger) *UserHandler {
	return &UserHandler{service: service, users: users, verifier: verifier, throttle: throttle, log: log}
}

type registerRequest struct {
	Name     string         `json:"name" validate:"required"`
	Email    string         `json:"email" validate:"required,email"`
	Password string         `json:"password" validate:"omitempty,min=8"`
	Phone    string         `json:"phone"`
	Address  domain.Address `json:"address"`
}

type updateProfileRequest struct {
	Name    *string         `json:"name"`
	Phone   *string         `json:"phone"`
	Address *domain.Address `json:"address"`
}

// Register creates a customer account. With an Authorization bearer token
// the new record is bound to the verified external subject; without one a
// password is required.
//
// @Summary      Register a customer account
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Account details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      502   {object}  map[string]string
// @Router       /users/register [post]
func (h *UserHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()

	var subjectID string
	if bearer := bearerToken(c.Request().Header); bearer != "" {
		assertion, err := h.verifier.VerifyAssertion(ctx, bearer)
		if err != nil {
			h.log.Debug().Err(err).Msg("registration bearer rejected")
			return domain.ErrTokenInvalid
		}
		subjectID = assertion.SubjectID
	}

	identity, err := h.service.Provision(ctx, ports.ProvisionInput{
		Name:      req.Name,
		Email:     req.Email,
		Password:  req.Password,
		SubjectID: subjectID,
		Phone:     req.Phone,
		Address:   req.Address,
	})
	if err != nil {
		if errors.Is(err, domain.ErrExternalClaim) {
			metrics.ProvisionRollbacksTotal.Inc()
		}
		return err
	}
	return c.JSON(http.StatusCreated, authResponse{User: identity})
}

// Login authenticates a customer with email and password. A bearer token
// sent alongside must resolve to the same account's external subject.
//
// @Summary      Customer login
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Customer credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      429   {object}  map[string]string
// @Router       /users/login [post]
func (h *UserHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()

	allowed, err := h.throttle.Allow(ctx, req.Email)
	if err != nil {
		h.log.Warn().Err(err).Msg("login throttle unavailable")
	} else if !allowed {
		metrics.LoginAttemptsTotal.WithLabelValues("throttled").Inc()
		return echo.NewHTTPError(http.StatusTooManyRequests, "too many login attempts")
	}

	var expectedSubject string
	if bearer := bearerToken(c.Request().Header); bearer != "" {
		assertion, err := h.verifier.VerifyAssertion(ctx, bearer)
		if err != nil {
			h.log.Debug().Err(err).Msg("login bearer rejected")
			return domain.ErrTokenInvalid
		}
		expectedSubject = assertion.SubjectID
	}

	token, identity, err := h.service.Login(ctx, req.Email, req.Password, expectedSubject)
	if err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("rejected").Inc()
		return err
	}

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	if err := h.throttle.Reset(ctx, req.Email); err != nil {
		h.log.Warn().Err(err).Msg("throttle reset failed")
	}
	return c.JSON(http.StatusOK, authResponse{Token: token, User: identity})
}

// Me returns the authenticated customer's own record.
//
// @Summary      Get own profile
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.Identity
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /users/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	principal, ok := middleware.Principal(c)
	if !ok {
		return domain.ErrUnauthenticated
	}
	return c.JSON(http.StatusOK, principal.Identity)
}

// UpdateProfile changes the caller's name, phone or address. Omitted
// fields keep their stored values.
//
// @Summary      Update own profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateProfileRequest  true  "Fields to update"
// @Success      200   {object}  domain.Identity
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /users/profile [put]
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	principal, ok := middleware.Principal(c)
	if !ok {
		return domain.ErrUnauthenticated
	}

	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	updated, err := h.users.UpdateProfile(c.Request().Context(), principal.Identity.ID, ports.ProfileUpdate{
		Name:    req.Name,
		Phone:   req.Phone,
		Address: req.Address,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}
