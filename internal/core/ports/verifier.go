package ports

import (
	"context"
	"net/http"

	"github.com/urbanthreads/storefront-api/internal/core/domain"
)

// IdentityVerifier wraps the external identity provider. Verification is
// on the hot path of every bearer-authenticated request; SetClaim is only
// called during provisioning.
type IdentityVerifier interface {
	VerifyAssertion(ctx context.Context, bearer string) (*domain.Assertion, error)
	SetClaim(ctx context.Context, subjectID, name string, value any) error
}

// CredentialVerifier is the gate's pluggable verification strategy.
//
// Implementations:
//   - local session tokens (X-Auth-Token header, HS256 JWT)
//   - external assertions (Authorization: Bearer, identity provider)
//
// Which one a route uses is fixed at wiring time. Verify is only called
// once Credential has returned non-empty material, and must look up the
// credential store strictly after cryptographic verification succeeds.
type CredentialVerifier interface {
	// Scheme names the verification strategy for logs and metrics.
	Scheme() string
	// Credential extracts this scheme's credential material from the
	// request headers, returning "" when absent.
	Credential(h http.Header) string
	Verify(ctx context.Context, credential string) (*domain.Principal, error)
}

// DecisionSink receives one AuthDecision per gate evaluation. Enqueue
// must not block the request path.
type DecisionSink interface {
	Enqueue(d domain.AuthDecision)
}

// AuditRepository persists auth decisions for the back-office audit trail.
type AuditRepository interface {
	Insert(ctx context.Context, d *domain.AuthDecision) error
}
