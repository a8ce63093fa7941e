package middleware

import (
	"errors"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/urbanthreads/storefront-api/internal/api/metrics"
	"github.com/urbanthreads/storefront-api/internal/core/domain"
	"github.com/urbanthreads/storefront-api/internal/core/ports"
)

const principalKey = "principal"

// Authenticate runs the authorization gate for one credential scheme.
// Which verifier a route group uses is fixed at wiring time; the two
// schemes are never negotiated per request. Every evaluation emits one
// structured decision to the sink, success or failure.
func Authenticate(v ports.CredentialVerifier, sink ports.DecisionSink) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			credential := v.Credential(c.Request().Header)
			if credential == "" {
				emit(sink, v.Scheme(), c.Path(), nil, domain.ErrUnauthenticated)
				return domain.ErrUnauthenticated
			}

			principal, err := v.Verify(c.Request().Context(), credential)
			if err != nil {
				emit(sink, v.Scheme(), c.Path(), nil, err)
				return err
			}

			c.Set(principalKey, principal)
			emit(sink, v.Scheme(), c.Path(), principal, nil)

			return next(c)
		}
	}
}

// Principal returns the gate verdict attached by Authenticate, or false
// when no gate ran for this route.
func Principal(c echo.Context) (*domain.Principal, bool) {
	p, ok := c.Get(principalKey).(*domain.Principal)
	return p, ok
}

func emit(sink ports.DecisionSink, scheme, path string, principal *domain.Principal, verdictErr error) {
	d := domain.AuthDecision{
		Scheme:  scheme,
		Path:    path,
		Outcome: "authenticated",
		At:      time.Now().UTC(),
	}
	if verdictErr != nil {
		d.Outcome = "rejected"
		d.Reason = rejectionReason(verdictErr)
	}
	if principal != nil {
		d.SubjectID = principal.Identity.ID
		d.Email = principal.Identity.Email
		d.Role = principal.Role
	}

	outcome := d.Outcome
	if d.Reason != "" {
		outcome = d.Reason
	}
	metrics.AuthDecisionsTotal.WithLabelValues(scheme, outcome).Inc()

	if sink != nil {
		sink.Enqueue(d)
	}
}

// rejectionReason matches with errors.Is so a verifier wrapping a
// sentinel for context still produces the precise audit reason.
func rejectionReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		return "unauthenticated"
	case errors.Is(err, domain.ErrTokenInvalid):
		return "token_invalid"
	case errors.Is(err, domain.ErrNotRegistered):
		return "not_registered"
	case errors.Is(err, domain.ErrInactive):
		return "inactive"
	case errors.Is(err, domain.ErrForbidden):
		return "forbidden"
	default:
		return "error"
	}
}
